package repositories

import (
	"context"

	"draftdeck/internal/domain/models"
)

// SectionRepository persists sections and their append-only refinement and
// comment history.
type SectionRepository interface {
	// Create inserts a new section and fills in its generated ID and
	// timestamps.
	Create(ctx context.Context, section *models.Section) error

	// GetByID returns the section row joined with its document's owner for
	// access scoping. Returns domain.ErrNotFound for unknown ids or wrong
	// owners.
	GetByID(ctx context.Context, id, ownerID string) (*models.Section, error)

	// ListByDocument returns all sections of a document ordered by position.
	ListByDocument(ctx context.Context, documentID string) ([]models.Section, error)

	// DeleteByDocument removes all sections of a document. Used when a
	// document is regenerated over existing content.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Update persists heading, section type, content and updated_at.
	Update(ctx context.Context, section *models.Section) error

	// UpdateContent overwrites the section's current text only.
	UpdateContent(ctx context.Context, id, content string) error

	// SetFeedback overwrites the latest feedback value. Idempotent.
	SetFeedback(ctx context.Context, id string, liked bool) error

	// AppendRefinement inserts an immutable refinement row and fills in its
	// generated ID and timestamp.
	AppendRefinement(ctx context.Context, ref *models.Refinement) error

	// ListRefinements returns the full history in chronological order.
	ListRefinements(ctx context.Context, sectionID string) ([]models.Refinement, error)

	// AppendComment inserts an immutable comment row and fills in its
	// generated ID and timestamp.
	AppendComment(ctx context.Context, comment *models.Comment) error

	// ListComments returns all comments in chronological order.
	ListComments(ctx context.Context, sectionID string) ([]models.Comment, error)
}
