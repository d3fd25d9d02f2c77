package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"draftdeck/internal/domain/models"
)

// PDFRenderer writes an A4 portrait PDF: title page header, then each
// section as a bold heading followed by wrapped body text.
type PDFRenderer struct{}

// ContentType returns the PDF MIME type.
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Extension returns "pdf".
func (r *PDFRenderer) Extension() string { return "pdf" }

// Render serializes the document.
func (r *PDFRenderer) Render(doc *models.Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// The core fonts are cp1252 only; anything outside is transliterated
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 22)
	pdf.MultiCell(0, 10, tr(doc.Title), "", "L", false)
	if doc.Theme != "" {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.MultiCell(0, 6, tr(doc.Theme), "", "L", false)
	}
	pdf.Ln(6)

	for i, section := range doc.Sections {
		if i > 0 {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, 8, tr(section.Heading), "", "L", false)
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "", 11)
		for _, para := range splitParagraphs(section.Content) {
			pdf.MultiCell(0, 5.5, tr(para), "", "L", false)
			pdf.Ln(3)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
