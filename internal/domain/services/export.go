package services

import "context"

// ExportResult is an opaque rendered document: downloadable bytes plus the
// transport metadata the handler needs.
type ExportResult struct {
	Bytes       []byte
	ContentType string
	Filename    string
}

// ExportService renders a document's title and ordered sections into one of
// the supported container formats.
type ExportService interface {
	// Export renders the document. Unknown formats fail with a
	// ValidationError before the document is loaded.
	Export(ctx context.Context, documentID, ownerID, format string) (*ExportResult, error)

	// Formats returns the supported format names.
	Formats() []string
}
