package epub

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// minParagraphRunes filters out single-character fragments (list bullets,
// stray punctuation wrapped in their own element).
const minParagraphRunes = 2

// parseContentDocument walks an XHTML content document and returns the
// chapter title (first h1/h2/h3/title heading with text) and the paragraph
// texts in document order, taken from <p> and <div> elements. Text inside a
// nested paragraph element belongs to the innermost one, so nesting does not
// duplicate content.
func parseContentDocument(body []byte) (title string, paragraphs []string) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var paraStack []*strings.Builder
	var headingText strings.Builder
	inHeading := false

	for {
		tok, err := dec.Token()
		if err != nil {
			if err != io.EOF {
				// Malformed markup past this point; keep what was extracted.
				break
			}
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch strings.ToLower(t.Name.Local) {
			case "p", "div":
				paraStack = append(paraStack, &strings.Builder{})
			case "h1", "h2", "h3", "title":
				if title == "" {
					inHeading = true
					headingText.Reset()
				}
			}

		case xml.CharData:
			if inHeading {
				headingText.Write(t)
			} else if len(paraStack) > 0 {
				paraStack[len(paraStack)-1].Write(t)
			}

		case xml.EndElement:
			switch strings.ToLower(t.Name.Local) {
			case "p", "div":
				if len(paraStack) == 0 {
					continue
				}
				b := paraStack[len(paraStack)-1]
				paraStack = paraStack[:len(paraStack)-1]
				if text := cleanText(b.String()); utf8.RuneCountInString(text) >= minParagraphRunes {
					paragraphs = append(paragraphs, text)
				}
			case "h1", "h2", "h3", "title":
				if inHeading {
					inHeading = false
					if text := cleanText(headingText.String()); text != "" {
						title = text
					}
				}
			}
		}
	}

	return title, paragraphs
}

// cleanText collapses whitespace runs to single spaces, trims, and applies
// NFC normalization so equivalent code point sequences compare equal.
func cleanText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
