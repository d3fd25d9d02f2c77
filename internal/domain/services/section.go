package services

import (
	"context"

	"draftdeck/internal/domain/models"
)

// RefineSectionRequest carries the client-supplied refinement instruction.
// CurrentText is the client's view of the section at refinement time - it
// may differ from the stored text when the client has unsaved local edits,
// and in that case the client's text is the refinement input.
type RefineSectionRequest struct {
	Prompt      string  `json:"prompt"`
	CurrentText *string `json:"current_text,omitempty"`
}

// RefineSectionResponse returns the accepted rewrite and the full history.
type RefineSectionResponse struct {
	RevisedText string              `json:"revised_text"`
	Refinements []models.Refinement `json:"refinements"`
}

// RegenerateSectionResponse mirrors RefineSectionResponse with the field
// name the regenerate endpoint uses.
type RegenerateSectionResponse struct {
	Text        string              `json:"text"`
	Refinements []models.Refinement `json:"refinements"`
}

// UpdateSectionRequest is the autosave PATCH payload. Nil fields are left
// unchanged. This is transport-agnostic - the handler maps from
// httputil.OptionalString.
type UpdateSectionRequest struct {
	Heading *string
	Content *string
}

// AddCommentRequest represents a request to annotate a section
type AddCommentRequest struct {
	Comment string `json:"comment"`
}

// SetFeedbackRequest represents the latest-wins like/dislike toggle
type SetFeedbackRequest struct {
	Liked bool `json:"liked"`
}

// SectionService defines the refinement workflow plus the feedback and
// comment annotations that hang off a section.
type SectionService interface {
	// Refine applies a refinement prompt to the section's text, appends a
	// refinement row and overwrites the current content. On provider
	// failure nothing is persisted and a RefinementError is returned.
	Refine(ctx context.Context, sectionID, ownerID string, req *RefineSectionRequest) (*RefineSectionResponse, error)

	// Regenerate produces fresh content for the section's heading under the
	// document's topic. Same persistence contract as Refine.
	Regenerate(ctx context.Context, sectionID, ownerID string) (*RegenerateSectionResponse, error)

	// UpdateSection is the autosave path; it never touches the refinement
	// history.
	UpdateSection(ctx context.Context, sectionID, ownerID string, req *UpdateSectionRequest) (*models.Section, error)

	// SetFeedback idempotently overwrites the section's latest feedback.
	SetFeedback(ctx context.Context, sectionID, ownerID string, liked bool) (*models.Section, error)

	// AddComment appends a comment and returns the created row.
	AddComment(ctx context.Context, sectionID, ownerID string, req *AddCommentRequest) (*models.Comment, error)
}
