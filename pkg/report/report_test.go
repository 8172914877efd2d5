package report

import (
	"strings"
	"testing"

	"github.com/coolbeans/epubdiff/pkg/align"
	"github.com/coolbeans/epubdiff/pkg/compare"
	"github.com/coolbeans/epubdiff/pkg/novelty"
	"github.com/coolbeans/epubdiff/pkg/textdiff"
)

func sampleReport() *compare.Report {
	oldSpans, newSpans, _ := textdiff.Highlight("The cat sat.", "The dog sat.")

	return &compare.Report{
		OldName: "old.epub",
		NewName: "new.epub",
		Chapters: []compare.ChapterDiff{
			{
				Pairing: align.Pairing{Left: 0, Right: 0},
				Title:   "Chapter One",
				Status:  compare.StatusMatched,
				Paragraphs: []compare.ParagraphDiff{
					{EditOp: align.EditOp{Type: align.OpSame, Old: "unchanged", New: "unchanged", OldIndex: 1, NewIndex: 1}},
					{
						EditOp:   align.EditOp{Type: align.OpModified, Old: "The cat sat.", New: "The dog sat.", OldIndex: 2, NewIndex: 2, Similarity: 0.83},
						OldSpans: oldSpans,
						NewSpans: newSpans,
					},
					{EditOp: align.EditOp{Type: align.OpAdded, New: "a fresh paragraph", NewIndex: 3}},
				},
				Added:    1,
				Modified: 1,
			},
			{
				Pairing: align.Pairing{Left: 1, Right: -1},
				Title:   "Gone <script>alert(1)</script>",
				Status:  compare.StatusDeleted,
				Paragraphs: []compare.ParagraphDiff{
					{EditOp: align.EditOp{Type: align.OpDeleted, Old: "removed body <b>text</b>", OldIndex: 1}},
				},
				Deleted: 1,
			},
			{
				Pairing: align.Pairing{Left: -1, Right: 1},
				Title:   "Brand New",
				Status:  compare.StatusAdded,
				Paragraphs: []compare.ParagraphDiff{
					{EditOp: align.EditOp{Type: align.OpAdded, New: "new chapter body", NewIndex: 1}},
				},
				Added: 1,
			},
			{
				Pairing: align.Pairing{Left: 2, Right: 2},
				Title:   "Untouched",
				Status:  compare.StatusMatched,
				Paragraphs: []compare.ParagraphDiff{
					{EditOp: align.EditOp{Type: align.OpSame, Old: "still here", New: "still here", OldIndex: 1, NewIndex: 1}},
				},
			},
		},
		TotalAdded:    2,
		TotalDeleted:  1,
		TotalModified: 1,
	}
}

func TestRenderHTML(t *testing.T) {
	out := RenderHTML(sampleReport(), HTMLOptions{})

	for _, want := range []string{
		"old.epub", "new.epub",
		`<span class="badge badge-new">NEW</span>`,
		`<span class="badge badge-deleted">DELETED</span>`,
		`<span class="badge badge-modified">CHANGED</span>`,
		"DELETED CHAPTER:",
		"NEW CHAPTER:",
		`class="removed-text"`,
		`class="added-text"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderHTML_EscapesExtractedText(t *testing.T) {
	out := RenderHTML(sampleReport(), HTMLOptions{})

	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("chapter title not escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("escaped title missing")
	}
	if strings.Contains(out, "<b>text</b>") {
		t.Error("paragraph text not escaped")
	}
}

func TestRenderHTML_ShowSame(t *testing.T) {
	withoutSame := RenderHTML(sampleReport(), HTMLOptions{})
	if strings.Contains(withoutSame, "unchanged") {
		t.Error("same paragraphs shown without ShowSame")
	}
	if strings.Contains(withoutSame, "Untouched") {
		t.Error("unchanged chapter listed without ShowSame")
	}

	withSame := RenderHTML(sampleReport(), HTMLOptions{ShowSame: true})
	if !strings.Contains(withSame, "unchanged") {
		t.Error("same paragraphs hidden with ShowSame")
	}
	if !strings.Contains(withSame, "Untouched") {
		t.Error("unchanged chapter missing from TOC with ShowSame")
	}
}

func TestMergedDiffHTML(t *testing.T) {
	oldSpans, newSpans, _ := textdiff.Highlight("The cat sat.", "The dog sat.")

	merged := mergedDiffHTML(oldSpans, newSpans)
	if !strings.Contains(merged, `<span class="removed-text">cat</span>`) {
		t.Errorf("removed text missing: %s", merged)
	}
	if !strings.Contains(merged, `<span class="added-text">dog</span>`) {
		t.Errorf("added text missing: %s", merged)
	}
	// Shared text appears exactly once.
	if strings.Count(merged, "The ") != 1 || strings.Count(merged, " sat.") != 1 {
		t.Errorf("shared text duplicated or missing: %s", merged)
	}
}

func TestMergedDiffHTML_InsertOnly(t *testing.T) {
	oldSpans, newSpans, _ := textdiff.Highlight("ab", "axb")

	merged := mergedDiffHTML(oldSpans, newSpans)
	if merged != `a<span class="added-text">x</span>b` {
		t.Errorf("unexpected merge: %s", merged)
	}
}

func TestRenderSimpleHTML(t *testing.T) {
	out := RenderSimpleHTML(sampleReport())

	for _, want := range []string{
		"Total differences:</strong> 4 paragraphs",
		`<mark>cat</mark>`,
		`<mark>dog</mark>`,
		`<div class="cell empty">-</div>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("simple report missing %q", want)
		}
	}

	// Unchanged rows and chapters stay out.
	if strings.Contains(out, "unchanged") || strings.Contains(out, "Untouched") {
		t.Error("simple report must omit unchanged content")
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("title not escaped")
	}
}

func TestRenderText(t *testing.T) {
	out := RenderText(sampleReport())

	for _, want := range []string{
		"Paragraphs added: 2",
		"Paragraphs deleted: 1",
		"Paragraphs modified: 1",
		"[NEW]     Brand New (+1)",
		"[CHANGED] Chapter One (+1 -0 ~1)",
		"[DELETED]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q", want)
		}
	}
	if strings.Contains(out, "Untouched") {
		t.Error("unchanged chapter listed in text summary")
	}
}

func TestRenderNoveltyText(t *testing.T) {
	results := []novelty.Result{
		{Index: 0, Text: "known paragraph", Verdict: novelty.Verdict{IsNew: false, MatchRatio: 1.0}},
		{Index: 1, Text: "first new paragraph", Verdict: novelty.Verdict{IsNew: true, MatchRatio: 0.0}},
		{Index: 2, Text: "second new paragraph", Verdict: novelty.Verdict{IsNew: true, MatchRatio: 0.25}},
	}

	out := RenderNoveltyText(results, 0)
	if !strings.Contains(out, "Paragraphs checked: 3") {
		t.Errorf("missing total: %s", out)
	}
	if !strings.Contains(out, "New or changed content: 2 paragraphs") {
		t.Errorf("missing new count: %s", out)
	}
	if !strings.Contains(out, "#2 (matched 0%): first new paragraph") {
		t.Errorf("missing row: %s", out)
	}

	capped := RenderNoveltyText(results, 1)
	if !strings.Contains(capped, "... and 1 more") {
		t.Errorf("cap notice missing: %s", capped)
	}
	if strings.Contains(capped, "second new paragraph") {
		t.Error("row shown past the cap")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short: %q", got)
	}
	long := strings.Repeat("가", 20)
	got := truncate(long, 10)
	if got != strings.Repeat("가", 7)+"..." {
		t.Errorf("truncate long: %q", got)
	}
}
