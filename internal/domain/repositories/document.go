package repositories

import (
	"context"

	"draftdeck/internal/domain/models"
)

// DocumentRepository persists documents and their owned sections.
type DocumentRepository interface {
	// Create inserts a new document and fills in its generated ID and
	// timestamps.
	Create(ctx context.Context, doc *models.Document) error

	// GetByID returns the document row without sections.
	// Returns domain.ErrNotFound if the id does not exist for the owner.
	GetByID(ctx context.Context, id, ownerID string) (*models.Document, error)

	// List returns document summaries for an owner, newest first.
	List(ctx context.Context, ownerID string) ([]models.DocumentSummary, error)

	// UpdateGenerationParams stores the prompt/theme/page count used by the
	// most recent generate call.
	UpdateGenerationParams(ctx context.Context, doc *models.Document) error

	// Delete removes a document; sections, refinements and comments cascade.
	Delete(ctx context.Context, id, ownerID string) error
}
