package export

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// escapeXML escapes text for embedding in an XML element.
func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on invalid UTF-8, which never reaches here.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// splitParagraphs splits generated text on blank lines and drops empty
// chunks. A document with no blank lines comes back as a single paragraph.
func splitParagraphs(text string) []string {
	var paras []string
	for _, chunk := range strings.Split(text, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			paras = append(paras, chunk)
		}
	}
	if len(paras) == 0 {
		return []string{""}
	}
	return paras
}
