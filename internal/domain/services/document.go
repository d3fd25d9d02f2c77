package services

import (
	"context"

	"draftdeck/internal/domain/models"
)

// CreateDocumentRequest represents a request to create an empty document
type CreateDocumentRequest struct {
	OwnerID string `json:"-"` // Set by handler from auth context, not from request body
	Title   string `json:"title"`
}

// GenerateDocumentRequest represents a request to generate page sections
// for an existing document.
type GenerateDocumentRequest struct {
	Prompt string `json:"prompt"` // Topic the document is about (required)
	Theme  string `json:"theme"`  // Tone/style hint passed to the provider
	Pages  int    `json:"pages"`  // Number of sections to generate, 1..50
}

// DocumentService defines business logic operations for documents
type DocumentService interface {
	// CreateDocument creates a new document with no sections
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// GenerateDocument generates one section per page via the text provider.
	// Sections are committed page by page; a mid-sequence provider failure
	// leaves earlier pages persisted and returns a GenerationError.
	// Generating over a document that already has sections replaces them.
	GenerateDocument(ctx context.Context, id, ownerID string, req *GenerateDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document with its ordered sections, each with
	// its refinement history and comments
	GetDocument(ctx context.Context, id, ownerID string) (*models.Document, error)

	// ListDocuments retrieves document summaries for an owner, newest first
	ListDocuments(ctx context.Context, ownerID string) ([]models.DocumentSummary, error)

	// DeleteDocument deletes a document and everything it owns
	DeleteDocument(ctx context.Context, id, ownerID string) error
}
