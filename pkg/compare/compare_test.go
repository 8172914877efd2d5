package compare

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/coolbeans/epubdiff/pkg/align"
	"github.com/coolbeans/epubdiff/pkg/book"
)

func testOptions() align.Options {
	return align.DefaultOptions()
}

func TestBooks_Statuses(t *testing.T) {
	oldChapters := []book.Chapter{
		{Title: "Prologue", Paragraphs: []string{"The story begins on a cold morning in the north."}},
		{Title: "Removed", Paragraphs: []string{"zzzz zzzz zzzz zzzz zzzz zzzz zzzz"}},
	}
	newChapters := []book.Chapter{
		{Title: "Prologue", Paragraphs: []string{"The story begins on a cold morning in the north."}},
		{Title: "Epilogue", Paragraphs: []string{"qqqq qqqq qqqq qqqq qqqq qqqq qqqq"}},
	}

	report, err := Books(context.Background(), oldChapters, newChapters, testOptions())
	if err != nil {
		t.Fatalf("Books: %v", err)
	}
	if len(report.Chapters) != 3 {
		t.Fatalf("expected 3 chapter diffs, got %d", len(report.Chapters))
	}

	byStatus := map[ChapterStatus]ChapterDiff{}
	for _, d := range report.Chapters {
		byStatus[d.Status] = d
	}

	matched := byStatus[StatusMatched]
	if matched.Title != "Prologue" || matched.Changed() {
		t.Errorf("matched chapter wrong: %+v", matched)
	}
	deleted := byStatus[StatusDeleted]
	if deleted.Title != "Removed" || deleted.Deleted != 1 {
		t.Errorf("deleted chapter wrong: %+v", deleted)
	}
	added := byStatus[StatusAdded]
	if added.Title != "Epilogue" || added.Added != 1 {
		t.Errorf("added chapter wrong: %+v", added)
	}
}

func TestBooks_TotalsAndSpans(t *testing.T) {
	oldChapters := []book.Chapter{
		{Title: "One", Paragraphs: []string{
			"An unchanged paragraph stays put.",
			"The cat sat on the mat near the door.",
			"A paragraph that will disappear entirely from the new version.",
		}},
	}
	newChapters := []book.Chapter{
		{Title: "One", Paragraphs: []string{
			"An unchanged paragraph stays put.",
			"The cat sat on the rug near the door.",
			"A brand new paragraph with wholly different words in it.",
		}},
	}

	report, err := Books(context.Background(), oldChapters, newChapters, testOptions())
	if err != nil {
		t.Fatalf("Books: %v", err)
	}
	if report.TotalModified != 1 || report.TotalAdded != 1 || report.TotalDeleted != 1 {
		t.Fatalf("totals wrong: +%d -%d ~%d", report.TotalAdded, report.TotalDeleted, report.TotalModified)
	}

	var modified *ParagraphDiff
	for i := range report.Chapters[0].Paragraphs {
		if report.Chapters[0].Paragraphs[i].Type == align.OpModified {
			modified = &report.Chapters[0].Paragraphs[i]
		}
	}
	if modified == nil {
		t.Fatal("no modified paragraph in report")
	}
	if len(modified.OldSpans) == 0 || len(modified.NewSpans) == 0 {
		t.Error("modified paragraph must carry highlight spans")
	}

	var oldChanged, newChanged bool
	for _, s := range modified.OldSpans {
		oldChanged = oldChanged || s.Changed
	}
	for _, s := range modified.NewSpans {
		newChanged = newChanged || s.Changed
	}
	if !oldChanged || !newChanged {
		t.Error("expected changed spans on both sides of a modified pair")
	}
}

func TestBooks_SpansOnlyOnModified(t *testing.T) {
	oldChapters := []book.Chapter{{Title: "C", Paragraphs: []string{"aaaa aaaa aaaa aaaa aaaa"}}}
	newChapters := []book.Chapter{{Title: "C", Paragraphs: []string{
		"aaaa aaaa aaaa aaaa aaaa",
		"a freshly added paragraph with its own content.",
	}}}

	report, err := Books(context.Background(), oldChapters, newChapters, testOptions())
	if err != nil {
		t.Fatalf("Books: %v", err)
	}
	for _, d := range report.Chapters {
		for _, p := range d.Paragraphs {
			if p.Type != align.OpModified && (p.OldSpans != nil || p.NewSpans != nil) {
				t.Errorf("spans set on %s op", p.Type)
			}
		}
	}
}

func TestBooks_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chapters := []book.Chapter{{Title: "C", Paragraphs: []string{"some paragraph text here"}}}
	_, err := Books(ctx, chapters, chapters, testOptions())
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestBooks_EmptyBooks(t *testing.T) {
	report, err := Books(context.Background(), nil, nil, testOptions())
	if err != nil {
		t.Fatalf("Books: %v", err)
	}
	if len(report.Chapters) != 0 || report.TotalAdded+report.TotalDeleted+report.TotalModified != 0 {
		t.Errorf("empty comparison should be empty, got %+v", report)
	}
}

func TestReport_ToJSON(t *testing.T) {
	oldChapters := []book.Chapter{{Title: "C", Paragraphs: []string{"shared paragraph text in both versions"}}}

	report, err := Books(context.Background(), oldChapters, oldChapters, testOptions())
	if err != nil {
		t.Fatalf("Books: %v", err)
	}
	report.OldName = "v1.epub"
	report.NewName = "v2.epub"

	data, err := report.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["old_name"] != "v1.epub" || decoded["new_name"] != "v2.epub" {
		t.Errorf("names missing from JSON: %v", decoded)
	}
}
