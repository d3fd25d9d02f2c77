// Package export renders a document's title and ordered sections into
// downloadable container formats. Renderers are opaque serializers: they
// consume heading/text pairs and produce bytes, nothing more.
package export

import (
	"fmt"

	"draftdeck/internal/domain/models"
)

// Renderer produces one output format.
type Renderer interface {
	// Render serializes the document into the target format.
	Render(doc *models.Document) ([]byte, error)

	// ContentType returns the MIME type for download responses.
	ContentType() string

	// Extension returns the file extension without the dot.
	Extension() string
}

// Registry maps format names to renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates a registry with the built-in renderers.
func NewRegistry() *Registry {
	return &Registry{
		renderers: map[string]Renderer{
			"docx": &DocxRenderer{},
			"pptx": &PptxRenderer{},
			"pdf":  &PDFRenderer{},
		},
	}
}

// Get returns the renderer for a format name.
func (r *Registry) Get(format string) (Renderer, error) {
	renderer, ok := r.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return renderer, nil
}

// Formats returns the supported format names in stable order.
func (r *Registry) Formats() []string {
	return []string{"docx", "pptx", "pdf"}
}
