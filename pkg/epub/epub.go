// Package epub extracts structured text from EPUB files: an ordered list of
// chapters, each with a title and its paragraph texts. An EPUB is a zip
// archive whose reading order is declared by an OPF package document; when
// the package document is missing or unreadable the extractor falls back to
// the archive's content documents in archive order.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/coolbeans/epubdiff/pkg/book"
	"github.com/coolbeans/epubdiff/pkg/textdiff"
)

// maxFlatParagraphRunes drops pathological blobs (whole chapters extracted as
// one <div>) from flat-mode output.
const maxFlatParagraphRunes = 5000

// container is the META-INF/container.xml document pointing at the OPF.
type container struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// opfPackage is the subset of the OPF package document the extractor needs.
type opfPackage struct {
	Manifest []opfItem `xml:"manifest>item"`
	Spine    []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

type opfItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

// ExtractChapters reads an EPUB file and returns its chapters in reading
// order. Chapters with no extractable paragraphs are dropped; a chapter
// without a heading takes its content document href as title.
func ExtractChapters(epubPath string) ([]book.Chapter, error) {
	rc, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub %s: %w", epubPath, err)
	}
	defer rc.Close()

	return extractChapters(rc.File)
}

// ExtractChaptersFromReader extracts chapters from an in-memory EPUB, used by
// the upload server.
func ExtractChaptersFromReader(r io.ReaderAt, size int64) ([]book.Chapter, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read epub archive: %w", err)
	}
	return extractChapters(zr.File)
}

// ExtractParagraphs reads an EPUB file and returns its paragraphs as one flat
// order-preserving sequence, deduplicated by normalized key and with
// over-long blobs dropped. This is the input shape of the novelty classifier.
func ExtractParagraphs(epubPath string) ([]string, error) {
	chapters, err := ExtractChapters(epubPath)
	if err != nil {
		return nil, err
	}
	return FlattenParagraphs(chapters), nil
}

// FlattenParagraphs flattens chapters into the novelty classifier's input:
// ordered, deduplicated by normalized key, over-long paragraphs dropped.
func FlattenParagraphs(chapters []book.Chapter) []string {
	seen := make(map[string]struct{})
	var paragraphs []string

	for _, ch := range chapters {
		for _, p := range ch.Paragraphs {
			if len([]rune(p)) > maxFlatParagraphRunes {
				continue
			}
			key := textdiff.Normalize(p)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			paragraphs = append(paragraphs, p)
		}
	}

	return paragraphs
}

func extractChapters(files []*zip.File) ([]book.Chapter, error) {
	hrefs := contentDocuments(files)
	if len(hrefs) == 0 {
		return nil, fmt.Errorf("no content documents found in epub")
	}

	var chapters []book.Chapter
	for _, href := range hrefs {
		body, err := readZipFile(files, href)
		if err != nil {
			// A spine entry missing from the archive is a packaging defect
			// in the source file; skip it rather than fail the whole book.
			continue
		}

		title, paragraphs := parseContentDocument(body)
		if len(paragraphs) == 0 {
			continue
		}
		if title == "" {
			title = href
		}
		chapters = append(chapters, book.Chapter{
			ID:         href,
			Title:      title,
			Paragraphs: paragraphs,
		})
	}

	if len(chapters) == 0 {
		return nil, fmt.Errorf("no extractable text found in epub")
	}
	return chapters, nil
}

// contentDocuments resolves the spine reading order from the OPF package
// document, falling back to every XHTML/HTML entry in archive order.
func contentDocuments(files []*zip.File) []string {
	if hrefs := spineDocuments(files); len(hrefs) > 0 {
		return hrefs
	}

	var hrefs []string
	for _, f := range files {
		name := strings.ToLower(f.Name)
		if strings.HasSuffix(name, ".xhtml") || strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm") {
			hrefs = append(hrefs, f.Name)
		}
	}
	return hrefs
}

func spineDocuments(files []*zip.File) []string {
	containerBody, err := readZipFile(files, "META-INF/container.xml")
	if err != nil {
		return nil
	}
	var c container
	if err := xml.Unmarshal(containerBody, &c); err != nil || len(c.Rootfiles) == 0 {
		return nil
	}
	opfPath := c.Rootfiles[0].FullPath

	opfBody, err := readZipFile(files, opfPath)
	if err != nil {
		return nil
	}
	var pkg opfPackage
	if err := xml.Unmarshal(opfBody, &pkg); err != nil {
		return nil
	}

	itemsByID := make(map[string]opfItem, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		itemsByID[item.ID] = item
	}

	opfDir := path.Dir(opfPath)
	var hrefs []string
	for _, ref := range pkg.Spine {
		item, ok := itemsByID[ref.IDRef]
		if !ok || !isContentDocument(item) {
			continue
		}
		href := item.Href
		if opfDir != "." {
			href = path.Join(opfDir, href)
		}
		hrefs = append(hrefs, href)
	}
	return hrefs
}

func isContentDocument(item opfItem) bool {
	if item.MediaType == "application/xhtml+xml" || item.MediaType == "text/html" {
		return true
	}
	lower := strings.ToLower(item.Href)
	return strings.HasSuffix(lower, ".xhtml") || strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

func readZipFile(files []*zip.File, target string) ([]byte, error) {
	for _, f := range files {
		if strings.TrimPrefix(f.Name, "/") == strings.TrimPrefix(target, "/") {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found in archive: %s", target)
}
