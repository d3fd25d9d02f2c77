package config

const (
	// MaxTitleLength is the maximum length for document titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxTitleLength = 255

	// MaxHeadingLength is the maximum length for section headings.
	// Same rationale as titles.
	MaxHeadingLength = 255

	// MaxPromptLength bounds generation and refinement prompts. Prompts
	// are user instructions, not documents.
	MaxPromptLength = 4000

	// MaxCommentLength bounds section comments.
	MaxCommentLength = 2000

	// MaxPages is the upper bound on sections generated per document.
	// Each page is one provider call, issued sequentially.
	MaxPages = 50
)
