package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"draftdeck/internal/domain/models"
)

// DocxRenderer writes a minimal WordprocessingML package: a zip holding
// [Content_Types].xml, the package relationships and word/document.xml.
// The document body is the title as a level-1 heading followed by one
// level-2 heading and one paragraph per section.
type DocxRenderer struct{}

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const docxContentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// ContentType returns the DOCX MIME type.
func (r *DocxRenderer) ContentType() string { return docxContentType }

// Extension returns "docx".
func (r *DocxRenderer) Extension() string { return "docx" }

// Render serializes the document.
func (r *DocxRenderer) Render(doc *models.Document) ([]byte, error) {
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	writeDocxParagraph(&body, "Heading1", doc.Title)
	for _, section := range doc.Sections {
		writeDocxParagraph(&body, "Heading2", section.Heading)
		// Blank lines split paragraphs so provider output keeps its shape
		for _, para := range splitParagraphs(section.Content) {
			writeDocxParagraph(&body, "", para)
		}
	}

	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", docxContentTypesXML},
		{"_rels/.rels", docxRelsXML},
		{"word/document.xml", body.String()},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("render DOCX: create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("render DOCX: write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("render DOCX: close zip: %w", err)
	}

	return buf.Bytes(), nil
}

// writeDocxParagraph emits one <w:p> with an optional paragraph style. Text
// is split on single newlines into runs separated by line breaks.
func writeDocxParagraph(b *strings.Builder, style, text string) {
	b.WriteString(`<w:p>`)
	if style != "" {
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, style)
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString(`<w:r><w:br/></w:r>`)
		}
		b.WriteString(`<w:r><w:t xml:space="preserve">`)
		b.WriteString(escapeXML(line))
		b.WriteString(`</w:t></w:r>`)
	}
	b.WriteString(`</w:p>`)
}
