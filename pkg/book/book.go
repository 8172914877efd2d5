// Package book defines the structured document model the diff engine
// operates on: an ordered list of chapters, each holding an ordered list of
// extracted paragraph strings. Instances are produced by an extractor (see
// pkg/epub) and treated as read-only by every downstream component.
package book

import "strings"

// Chapter is one content document of an extracted book.
type Chapter struct {
	// ID is the structural identifier of the chapter within its container
	// (for EPUB, the content document href).
	ID string `json:"id"`

	// Title is the chapter heading, falling back to ID when the source has
	// no usable heading.
	Title string `json:"title"`

	// Paragraphs is the ordered extracted text, one entry per paragraph.
	Paragraphs []string `json:"paragraphs"`
}

// FullText returns the chapter's paragraphs joined by newlines, used for
// content-based chapter matching.
func (c Chapter) FullText() string {
	return strings.Join(c.Paragraphs, "\n")
}

// Prefix returns the first n runes of the chapter's full text.
func (c Chapter) Prefix(n int) string {
	runes := []rune(c.FullText())
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}
