package epub

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/epubdiff/pkg/book"
)

type zipEntry struct {
	name, body string
}

// buildEPUB assembles an in-memory zip archive; entry order is archive order.
func buildEPUB(t *testing.T, entries []zipEntry) *bytes.Reader {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return bytes.NewReader(buf.Bytes())
}

const containerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

func opfWithSpine(manifest, spine string) string {
	return `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <manifest>` + manifest + `</manifest>
  <spine>` + spine + `</spine>
</package>`
}

func chapterXHTML(heading string, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?><html xmlns="http://www.w3.org/1999/xhtml"><body>`)
	if heading != "" {
		b.WriteString("<h1>" + heading + "</h1>")
	}
	for _, p := range paragraphs {
		b.WriteString("<p>" + p + "</p>")
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func TestExtractChapters_SpineOrder(t *testing.T) {
	manifest := `<item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
<item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
<item id="css" href="style.css" media-type="text/css"/>`
	spine := `<itemref idref="ch1"/><itemref idref="ch2"/><itemref idref="css"/>`

	r := buildEPUB(t, []zipEntry{
		{"META-INF/container.xml", containerXML},
		{"OEBPS/content.opf", opfWithSpine(manifest, spine)},
		// The zip stores ch2 first; spine order must win.
		{"OEBPS/ch2.xhtml", chapterXHTML("Chapter Two", "Second chapter text.")},
		{"OEBPS/ch1.xhtml", chapterXHTML("Chapter One", "First paragraph.", "Second paragraph.")},
		{"OEBPS/style.css", "body { margin: 0 }"},
	})

	chapters, err := ExtractChaptersFromReader(r, r.Size())
	require.NoError(t, err)
	require.Len(t, chapters, 2)

	assert.Equal(t, "Chapter One", chapters[0].Title)
	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, chapters[0].Paragraphs)
	assert.Equal(t, "Chapter Two", chapters[1].Title)
	assert.Equal(t, "OEBPS/ch1.xhtml", chapters[0].ID)
}

func TestExtractChapters_FallbackWithoutOPF(t *testing.T) {
	r := buildEPUB(t, []zipEntry{
		{"a.xhtml", chapterXHTML("Alpha", "Alpha body text.")},
		{"b.html", chapterXHTML("Beta", "Beta body text.")},
	})

	chapters, err := ExtractChaptersFromReader(r, r.Size())
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Alpha", chapters[0].Title)
	assert.Equal(t, "Beta", chapters[1].Title)
}

func TestExtractChapters_SkipsEmptyAndMissing(t *testing.T) {
	manifest := `<item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
<item id="empty" href="empty.xhtml" media-type="application/xhtml+xml"/>
<item id="gone" href="missing.xhtml" media-type="application/xhtml+xml"/>`
	spine := `<itemref idref="ch1"/><itemref idref="empty"/><itemref idref="gone"/>`

	r := buildEPUB(t, []zipEntry{
		{"META-INF/container.xml", containerXML},
		{"OEBPS/content.opf", opfWithSpine(manifest, spine)},
		{"OEBPS/ch1.xhtml", chapterXHTML("Only", "The only real paragraph.")},
		{"OEBPS/empty.xhtml", chapterXHTML("")},
	})

	chapters, err := ExtractChaptersFromReader(r, r.Size())
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "Only", chapters[0].Title)
}

func TestExtractChapters_HrefAsTitleFallback(t *testing.T) {
	r := buildEPUB(t, []zipEntry{
		{"ch.xhtml", chapterXHTML("", "A chapter with no heading at all.")},
	})

	chapters, err := ExtractChaptersFromReader(r, r.Size())
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "ch.xhtml", chapters[0].Title)
}

func TestExtractChapters_NoContent(t *testing.T) {
	r := buildEPUB(t, []zipEntry{
		{"mimetype", "application/epub+zip"},
	})

	_, err := ExtractChaptersFromReader(r, r.Size())
	assert.Error(t, err)
}

func TestParseContentDocument(t *testing.T) {
	body := []byte(`<html><body>
<h2>Heading &amp; More</h2>
<p>  Plain   text with
collapsed    whitespace. </p>
<div><p>Inner paragraph.</p></div>
<p>x</p>
<p>Entities like &nbsp;stick&nbsp; around.</p>
</body></html>`)

	title, paragraphs := parseContentDocument(body)
	assert.Equal(t, "Heading & More", title)
	require.Len(t, paragraphs, 3)
	assert.Equal(t, "Plain text with collapsed whitespace.", paragraphs[0])
	assert.Equal(t, "Inner paragraph.", paragraphs[1])
}

func TestParseContentDocument_NestedDivsDoNotDuplicate(t *testing.T) {
	body := []byte(`<html><body><div><div><p>Deeply nested text.</p></div></div></body></html>`)

	_, paragraphs := parseContentDocument(body)
	assert.Equal(t, []string{"Deeply nested text."}, paragraphs)
}

func TestParseContentDocument_UnclosedTags(t *testing.T) {
	// Sloppy real-world markup: unclosed <br> and a stray close tag.
	body := []byte(`<html><body><p>Line one<br>line two</p></html>`)

	_, paragraphs := parseContentDocument(body)
	require.Len(t, paragraphs, 1)
	assert.Contains(t, paragraphs[0], "Line one")
	assert.Contains(t, paragraphs[0], "line two")
}

func TestFlattenParagraphs(t *testing.T) {
	chapters := []book.Chapter{
		{Title: "One", Paragraphs: []string{"shared text", "unique one", strings.Repeat("x", maxFlatParagraphRunes+1)}},
		{Title: "Two", Paragraphs: []string{"shared  text", "unique two"}},
	}

	flat := FlattenParagraphs(chapters)
	// The whitespace variant dedups against "shared text"; the oversized blob drops.
	assert.Equal(t, []string{"shared text", "unique one", "unique two"}, flat)
}
