// Package report renders comparison and novelty results for people: a full
// HTML report with per-chapter change cards, a compact side-by-side HTML
// view, and plain-text summaries for the terminal. All escaping of extracted
// text happens here; the engine only ever deals in raw spans.
package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/coolbeans/epubdiff/pkg/align"
	"github.com/coolbeans/epubdiff/pkg/compare"
	"github.com/coolbeans/epubdiff/pkg/textdiff"
)

// HTMLOptions control the full HTML report.
type HTMLOptions struct {
	// ShowSame includes unchanged paragraphs and unchanged chapters.
	ShowSame bool
}

const fullReportCSS = `* { box-sizing: border-box; }
body {
    font-family: 'Nanum Gothic', 'Malgun Gothic', -apple-system, sans-serif;
    max-width: 1200px;
    margin: 0 auto;
    padding: 20px;
    background: #f5f5f5;
    line-height: 1.6;
}
h1 { color: #333; border-bottom: 3px solid #007bff; padding-bottom: 10px; }
.summary { background: #e7f3ff; padding: 20px; border-radius: 8px; margin: 20px 0; }
.summary table { width: 100%; border-collapse: collapse; }
.summary td, .summary th { padding: 8px; text-align: left; }
.chapter {
    background: white;
    margin: 20px 0;
    padding: 20px;
    border-radius: 8px;
    box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}
.chapter-title {
    font-size: 1.3em;
    font-weight: bold;
    color: #333;
    border-bottom: 1px solid #ddd;
    padding-bottom: 10px;
    margin-bottom: 15px;
}
.stats {
    background: #f8f9fa;
    padding: 10px 15px;
    border-radius: 5px;
    margin-bottom: 15px;
    font-size: 0.9em;
}
.paragraph {
    margin: 15px 0;
    padding: 15px;
    border-left: 4px solid #ddd;
    background: #fafafa;
    border-radius: 0 5px 5px 0;
}
.paragraph.added { border-left-color: #28a745; background: #d4edda; }
.paragraph.deleted { border-left-color: #dc3545; background: #f8d7da; }
.paragraph.modified { border-left-color: #ffc107; background: #fff3cd; }
.label { font-size: 0.8em; color: #666; margin-bottom: 5px; }
.text { font-size: 1.1em; line-height: 1.8; }
.added-text { background-color: #c3e6cb; padding: 2px 4px; border-radius: 3px; }
.removed-text { background-color: #f5c6cb; padding: 2px 4px; border-radius: 3px; text-decoration: line-through; }
.toc { background: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
.toc ul { list-style: none; padding-left: 0; }
.toc li { padding: 5px 0; }
.toc a { color: #007bff; text-decoration: none; }
.badge {
    display: inline-block;
    padding: 2px 8px;
    border-radius: 10px;
    font-size: 0.75em;
    margin-left: 10px;
}
.badge-new { background: #28a745; color: white; }
.badge-deleted { background: #dc3545; color: white; }
.badge-modified { background: #ffc107; color: #333; }
@media print { .chapter { break-inside: avoid; } }`

// RenderHTML renders the full HTML report: file summary, change totals, a
// table of contents with badges, and per-chapter cards with colored
// paragraph blocks and inline character-level highlights.
func RenderHTML(r *compare.Report, opts HTMLOptions) string {
	var toc, chapters strings.Builder

	for idx, ch := range r.Chapters {
		chapterID := fmt.Sprintf("chapter-%d", idx)
		title := html.EscapeString(ch.Title)

		switch ch.Status {
		case compare.StatusAdded:
			fmt.Fprintf(&toc, `<li><a href="#%s">%s</a><span class="badge badge-new">NEW</span></li>`+"\n", chapterID, title)
			renderWholeChapter(&chapters, chapterID, "NEW CHAPTER: "+title, ch, "added", "New paragraph")

		case compare.StatusDeleted:
			fmt.Fprintf(&toc, `<li><a href="#%s">%s</a><span class="badge badge-deleted">DELETED</span></li>`+"\n", chapterID, title)
			renderWholeChapter(&chapters, chapterID, "DELETED CHAPTER: "+title, ch, "deleted", "Deleted paragraph")

		case compare.StatusMatched:
			if !ch.Changed() {
				if opts.ShowSame {
					fmt.Fprintf(&toc, `<li><a href="#%s">%s</a></li>`+"\n", chapterID, title)
				}
				continue
			}
			fmt.Fprintf(&toc, `<li><a href="#%s">%s</a><span class="badge badge-modified">CHANGED</span></li>`+"\n", chapterID, title)
			renderMatchedChapter(&chapters, chapterID, title, ch, opts)
		}
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n")
	page.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	page.WriteString("<title>EPUB Diff Report</title>\n<style>\n")
	page.WriteString(fullReportCSS)
	page.WriteString("\n</style>\n</head>\n<body>\n<h1>EPUB Difference Report</h1>\n")

	fmt.Fprintf(&page, `<div class="summary"><h3>File Information</h3><table>
<tr><td><strong>Original:</strong></td><td>%s</td></tr>
<tr><td><strong>Revised:</strong></td><td>%s</td></tr>
</table></div>`+"\n", html.EscapeString(r.OldName), html.EscapeString(r.NewName))

	fmt.Fprintf(&page, `<div class="summary"><h3>Summary</h3><table>
<tr><td>Paragraphs Added:</td><td><strong style="color:green">%d</strong></td></tr>
<tr><td>Paragraphs Deleted:</td><td><strong style="color:red">%d</strong></td></tr>
<tr><td>Paragraphs Modified:</td><td><strong style="color:orange">%d</strong></td></tr>
</table></div>`+"\n", r.TotalAdded, r.TotalDeleted, r.TotalModified)

	page.WriteString(`<div class="toc"><h3>Table of Contents</h3><ul>` + "\n")
	page.WriteString(toc.String())
	page.WriteString("</ul></div>\n")
	page.WriteString(chapters.String())
	page.WriteString("</body>\n</html>\n")

	return page.String()
}

// renderWholeChapter renders a chapter that exists on only one side.
func renderWholeChapter(w *strings.Builder, chapterID, heading string, ch compare.ChapterDiff, class, label string) {
	fmt.Fprintf(w, `<div class="chapter" id="%s"><div class="chapter-title">%s</div>`+"\n", chapterID, heading)
	for _, p := range ch.Paragraphs {
		text := p.New
		if class == "deleted" {
			text = p.Old
		}
		fmt.Fprintf(w, `<div class="paragraph %s"><div class="label">%s</div><div class="text">%s</div></div>`+"\n",
			class, label, html.EscapeString(text))
	}
	w.WriteString("</div>\n")
}

func renderMatchedChapter(w *strings.Builder, chapterID, title string, ch compare.ChapterDiff, opts HTMLOptions) {
	var paras strings.Builder
	for _, p := range ch.Paragraphs {
		switch p.Type {
		case align.OpSame:
			if opts.ShowSame {
				fmt.Fprintf(&paras, `<div class="paragraph"><div class="label">Line #%d</div><div class="text">%s</div></div>`+"\n",
					p.OldIndex, html.EscapeString(p.Old))
			}
		case align.OpAdded:
			fmt.Fprintf(&paras, `<div class="paragraph added"><div class="label">Added (line #%d)</div><div class="text">%s</div></div>`+"\n",
				p.NewIndex, html.EscapeString(p.New))
		case align.OpDeleted:
			fmt.Fprintf(&paras, `<div class="paragraph deleted"><div class="label">Deleted (was line #%d)</div><div class="text">%s</div></div>`+"\n",
				p.OldIndex, html.EscapeString(p.Old))
		case align.OpModified:
			fmt.Fprintf(&paras, `<div class="paragraph modified"><div class="label">Modified (line #%d → #%d, %d%% similar)</div><div class="text">%s</div></div>`+"\n",
				p.OldIndex, p.NewIndex, int(p.Similarity*100), mergedDiffHTML(p.OldSpans, p.NewSpans))
		}
	}
	if paras.Len() == 0 {
		return
	}

	fmt.Fprintf(w, `<div class="chapter" id="%s"><div class="chapter-title">%s</div>
<div class="stats"><strong>Changes:</strong>
<span style="color:green">+%d added</span> |
<span style="color:red">-%d deleted</span> |
<span style="color:orange">~%d modified</span></div>`+"\n", chapterID, title, ch.Added, ch.Deleted, ch.Modified)
	w.WriteString(paras.String())
	w.WriteString("</div>\n")
}

// mergedDiffHTML interleaves the two sides' highlight spans into a single
// inline rendering: shared text once, removed text struck through, added text
// highlighted. Unchanged spans occur in the same order on both sides, so the
// two lists can be walked in lockstep.
func mergedDiffHTML(oldSpans, newSpans []textdiff.Span) string {
	var out strings.Builder
	i, j := 0, 0

	for i < len(oldSpans) || j < len(newSpans) {
		if i < len(oldSpans) && oldSpans[i].Changed {
			out.WriteString(`<span class="removed-text">` + html.EscapeString(oldSpans[i].Text) + `</span>`)
			i++
			continue
		}
		if j < len(newSpans) && newSpans[j].Changed {
			out.WriteString(`<span class="added-text">` + html.EscapeString(newSpans[j].Text) + `</span>`)
			j++
			continue
		}
		// Both sides are at the same unchanged span.
		if i < len(oldSpans) {
			out.WriteString(html.EscapeString(oldSpans[i].Text))
		}
		i++
		j++
	}

	return out.String()
}
