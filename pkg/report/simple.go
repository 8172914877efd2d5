package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/coolbeans/epubdiff/pkg/align"
	"github.com/coolbeans/epubdiff/pkg/compare"
	"github.com/coolbeans/epubdiff/pkg/textdiff"
)

const simpleReportCSS = `* { box-sizing: border-box; }
body { font-family: 'Nanum Gothic', 'Malgun Gothic', sans-serif; max-width: 1400px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
h1 { color: #1976d2; }
.info { background: white; padding: 15px; border-radius: 8px; margin-bottom: 20px; }
.chapter { background: white; margin: 20px 0; border-radius: 8px; overflow: hidden; }
.ch-title { background: #1976d2; color: white; padding: 12px 20px; font-weight: bold; }
.content { padding: 15px; }
.row { display: flex; gap: 15px; margin-bottom: 8px; }
.cell { flex: 1; padding: 10px; border-radius: 5px; background: #fafafa; border-left: 3px solid #ddd; font-size: 15px; line-height: 1.8; }
.cell.diff { background: #e3f2fd; border-left-color: #2196f3; }
.cell.empty { background: #f5f5f5; border: 1px dashed #ccc; color: #999; text-align: center; }
mark { background: #90caf9; padding: 1px 3px; border-radius: 3px; }
.num { font-size: 0.7em; color: #888; }
.toc { background: white; padding: 15px; border-radius: 8px; margin-bottom: 20px; }
.toc a { color: #1976d2; text-decoration: none; }
.toc li { padding: 5px 0; }`

// RenderSimpleHTML renders the compact side-by-side report: one two-column
// row per changed paragraph, every difference highlighted in a single accent
// color, unchanged rows omitted.
func RenderSimpleHTML(r *compare.Report) string {
	var toc, chapters strings.Builder
	totalDiff := 0

	for idx, ch := range r.Chapters {
		chapterID := fmt.Sprintf("ch%d", idx)
		title := html.EscapeString(ch.Title)

		var rows strings.Builder
		diffCount := 0
		for _, p := range ch.Paragraphs {
			if p.Type == align.OpSame {
				continue
			}
			diffCount++
			rows.WriteString(simpleRow(p))
		}
		if diffCount == 0 {
			continue
		}
		totalDiff += diffCount

		switch ch.Status {
		case compare.StatusAdded:
			fmt.Fprintf(&toc, `<li><a href="#%s">%s (+%d)</a></li>`+"\n", chapterID, title, diffCount)
		case compare.StatusDeleted:
			fmt.Fprintf(&toc, `<li><a href="#%s">%s (-%d)</a></li>`+"\n", chapterID, title, diffCount)
		default:
			fmt.Fprintf(&toc, `<li><a href="#%s">%s (%d)</a></li>`+"\n", chapterID, title, diffCount)
		}

		fmt.Fprintf(&chapters, `<div class="chapter" id="%s"><div class="ch-title">%s</div><div class="content">`+"\n", chapterID, title)
		chapters.WriteString(rows.String())
		chapters.WriteString("</div></div>\n")
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>EPUB Diff</title>\n<style>\n")
	page.WriteString(simpleReportCSS)
	page.WriteString("\n</style>\n</head>\n<body>\n<h1>EPUB Diff Report</h1>\n")
	fmt.Fprintf(&page, `<div class="info"><strong>Original:</strong> %s<br>
<strong>Revised:</strong> %s<br>
<strong>Total differences:</strong> %d paragraphs</div>`+"\n",
		html.EscapeString(r.OldName), html.EscapeString(r.NewName), totalDiff)
	page.WriteString(`<div class="toc"><strong>Chapters with differences:</strong><ul>` + "\n")
	page.WriteString(toc.String())
	page.WriteString("</ul></div>\n")
	page.WriteString(chapters.String())
	page.WriteString("</body></html>\n")

	return page.String()
}

func simpleRow(p compare.ParagraphDiff) string {
	const emptyCell = `<div class="cell empty">-</div>`

	switch p.Type {
	case align.OpDeleted:
		left := fmt.Sprintf(`<div class="cell diff"><span class="num">#%d</span> <mark>%s</mark></div>`,
			p.OldIndex, html.EscapeString(p.Old))
		return `<div class="row">` + left + emptyCell + "</div>\n"

	case align.OpAdded:
		right := fmt.Sprintf(`<div class="cell diff"><span class="num">#%d</span> <mark>%s</mark></div>`,
			p.NewIndex, html.EscapeString(p.New))
		return `<div class="row">` + emptyCell + right + "</div>\n"

	case align.OpModified:
		left := fmt.Sprintf(`<div class="cell diff"><span class="num">#%d</span> %s</div>`,
			p.OldIndex, markSpans(p.OldSpans))
		right := fmt.Sprintf(`<div class="cell diff"><span class="num">#%d</span> %s</div>`,
			p.NewIndex, markSpans(p.NewSpans))
		return `<div class="row">` + left + right + "</div>\n"
	}

	return ""
}

// markSpans renders one side's highlight spans, wrapping changed pieces
// in <mark>.
func markSpans(spans []textdiff.Span) string {
	var out strings.Builder
	for _, span := range spans {
		if span.Changed {
			out.WriteString("<mark>" + html.EscapeString(span.Text) + "</mark>")
		} else {
			out.WriteString(html.EscapeString(span.Text))
		}
	}
	return out.String()
}
