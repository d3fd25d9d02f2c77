package lorem

import (
	"context"

	loremgen "github.com/bozaro/golorem"

	domainllm "draftdeck/internal/domain/services/llm"
)

// Provider is a mock text provider that generates lorem ipsum paragraphs.
// Used for development and tests without requiring real API keys.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{generator: loremgen.New()}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// GenerateText returns a few lorem ipsum paragraphs. The prompt is ignored
// except for ctx cancellation, which is honored so handler timeout paths
// behave like a real provider.
func (p *Provider) GenerateText(ctx context.Context, req *domainllm.GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	paragraphs := 3
	if req.MaxTokens > 0 && req.MaxTokens < 256 {
		paragraphs = 1
	}

	var text string
	for i := 0; i < paragraphs; i++ {
		if i > 0 {
			text += "\n\n"
		}
		text += p.generator.Paragraph(3, 6)
	}
	return text, nil
}
