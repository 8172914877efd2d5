package report

import (
	"fmt"
	"strings"

	"github.com/coolbeans/epubdiff/pkg/compare"
	"github.com/coolbeans/epubdiff/pkg/novelty"
)

// RenderText formats the comparison report as a terminal summary.
func RenderText(r *compare.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("EPUB Diff: %s -> %s\n", r.OldName, r.NewName))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString("Summary:\n")
	sb.WriteString(fmt.Sprintf("  Paragraphs added: %d\n", r.TotalAdded))
	sb.WriteString(fmt.Sprintf("  Paragraphs deleted: %d\n", r.TotalDeleted))
	sb.WriteString(fmt.Sprintf("  Paragraphs modified: %d\n", r.TotalModified))
	sb.WriteString("\n")

	sb.WriteString("Chapters:\n")
	for _, ch := range r.Chapters {
		switch ch.Status {
		case compare.StatusAdded:
			sb.WriteString(fmt.Sprintf("  [NEW]     %s (+%d)\n", ch.Title, ch.Added))
		case compare.StatusDeleted:
			sb.WriteString(fmt.Sprintf("  [DELETED] %s (-%d)\n", ch.Title, ch.Deleted))
		default:
			if !ch.Changed() {
				continue
			}
			sb.WriteString(fmt.Sprintf("  [CHANGED] %s (+%d -%d ~%d)\n",
				ch.Title, ch.Added, ch.Deleted, ch.Modified))
		}
	}

	return sb.String()
}

// RenderNoveltyText formats novelty results as a terminal listing of the
// paragraphs judged new, capped at maxRows (0 means no cap).
func RenderNoveltyText(results []novelty.Result, maxRows int) string {
	var sb strings.Builder

	newCount := 0
	for _, result := range results {
		if result.IsNew {
			newCount++
		}
	}
	sb.WriteString(fmt.Sprintf("Paragraphs checked: %d\n", len(results)))
	sb.WriteString(fmt.Sprintf("New or changed content: %d paragraphs\n\n", newCount))

	shown := 0
	for _, result := range results {
		if !result.IsNew {
			continue
		}
		if maxRows > 0 && shown >= maxRows {
			sb.WriteString(fmt.Sprintf("... and %d more (use --max to raise the cap)\n", newCount-shown))
			break
		}
		sb.WriteString(fmt.Sprintf("#%d (matched %.0f%%): %s\n",
			result.Index+1, result.MatchRatio*100, truncate(result.Text, 120)))
		shown++
	}

	return sb.String()
}

// truncate shortens text to the specified rune length.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
