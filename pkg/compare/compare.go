// Package compare orchestrates a full two-version comparison: chapter
// matching, per-chapter paragraph alignment, and character-level highlighting
// of modified pairs, collected into a single structured report for the
// presentation layer.
package compare

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/epubdiff/pkg/align"
	"github.com/coolbeans/epubdiff/pkg/book"
	"github.com/coolbeans/epubdiff/pkg/textdiff"
)

// ChapterStatus classifies a chapter pairing in the report.
type ChapterStatus string

const (
	// StatusMatched means the chapter exists in both versions.
	StatusMatched ChapterStatus = "matched"
	// StatusAdded means the chapter exists only in the new version.
	StatusAdded ChapterStatus = "added"
	// StatusDeleted means the chapter exists only in the old version.
	StatusDeleted ChapterStatus = "deleted"
)

// ParagraphDiff is one paragraph edit operation plus, for modified pairs, the
// character-level highlight spans for each side.
type ParagraphDiff struct {
	align.EditOp

	// OldSpans and NewSpans are set only for modified operations.
	OldSpans []textdiff.Span `json:"old_spans,omitempty"`
	NewSpans []textdiff.Span `json:"new_spans,omitempty"`
}

// ChapterDiff is the comparison result for one chapter pairing.
type ChapterDiff struct {
	// Pairing holds the chapter indexes in the two books (-1 for absent).
	Pairing align.Pairing `json:"pairing"`

	// Title is taken from the old chapter when present, otherwise the new.
	Title string `json:"title"`

	// Status classifies the pairing.
	Status ChapterStatus `json:"status"`

	// Paragraphs is the chapter's edit script.
	Paragraphs []ParagraphDiff `json:"paragraphs"`

	// Per-chapter change counts.
	Added    int `json:"added"`
	Deleted  int `json:"deleted"`
	Modified int `json:"modified"`
}

// Changed reports whether the chapter has any non-same operations.
func (c ChapterDiff) Changed() bool {
	return c.Added > 0 || c.Deleted > 0 || c.Modified > 0
}

// Report is the full structured comparison of two books.
type Report struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`

	Chapters []ChapterDiff `json:"chapters"`

	TotalAdded    int `json:"total_added"`
	TotalDeleted  int `json:"total_deleted"`
	TotalModified int `json:"total_modified"`
}

// Books compares two extracted books. Matched chapter pairs are aligned and
// highlighted concurrently (each pair is independent); results are collected
// in pairing order. The only error source is context cancellation.
func Books(ctx context.Context, oldChapters, newChapters []book.Chapter, opts align.Options) (*Report, error) {
	pairings := align.MatchChapters(oldChapters, newChapters, opts)

	diffs := make([]ChapterDiff, len(pairings))
	g, ctx := errgroup.WithContext(ctx)

	for i, pairing := range pairings {
		i, pairing := i, pairing
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			diffs[i] = compareChapterPair(pairing, oldChapters, newChapters, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Chapters: diffs}
	for _, d := range diffs {
		report.TotalAdded += d.Added
		report.TotalDeleted += d.Deleted
		report.TotalModified += d.Modified
	}
	return report, nil
}

func compareChapterPair(pairing align.Pairing, oldChapters, newChapters []book.Chapter, opts align.Options) ChapterDiff {
	var oldParas, newParas []string
	diff := ChapterDiff{Pairing: pairing}

	switch {
	case pairing.Left < 0:
		diff.Status = StatusAdded
		diff.Title = newChapters[pairing.Right].Title
		newParas = newChapters[pairing.Right].Paragraphs
	case pairing.Right < 0:
		diff.Status = StatusDeleted
		diff.Title = oldChapters[pairing.Left].Title
		oldParas = oldChapters[pairing.Left].Paragraphs
	default:
		diff.Status = StatusMatched
		diff.Title = oldChapters[pairing.Left].Title
		oldParas = oldChapters[pairing.Left].Paragraphs
		newParas = newChapters[pairing.Right].Paragraphs
	}

	for _, op := range align.Align(oldParas, newParas, opts) {
		pd := ParagraphDiff{EditOp: op}
		switch op.Type {
		case align.OpAdded:
			diff.Added++
		case align.OpDeleted:
			diff.Deleted++
		case align.OpModified:
			diff.Modified++
			pd.OldSpans, pd.NewSpans, _ = textdiff.Highlight(op.Old, op.New)
		}
		diff.Paragraphs = append(diff.Paragraphs, pd)
	}

	return diff
}
