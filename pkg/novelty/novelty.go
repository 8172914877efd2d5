// Package novelty decides, per paragraph of a revised document, whether the
// content is genuinely new or a restatement of content already present in the
// baseline document. It works by containment and sentence-level exact
// matching over normalized keys rather than by alignment, trading recall for
// speed on large documents.
package novelty

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/epubdiff/pkg/align"
	"github.com/coolbeans/epubdiff/pkg/textdiff"
)

// minSentenceRunes is the normalized length below which a sentence segment
// carries too little content to count toward the match ratio.
const minSentenceRunes = 10

// sentenceTerminators are the rune values a sentence may end on, including
// CJK closing quotes so that non-Latin prose splits sensibly.
var sentenceTerminators = map[rune]bool{
	'.': true,
	'?': true,
	'!': true,
	'」': true,
	'』': true,
	'"': true,
}

// SplitSentences splits text into sentence-like segments after each terminal
// punctuation rune, dropping the whitespace that follows a terminator.
// Segments keep their terminator; a trailing unterminated segment is kept.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	skipSpace := false

	for _, r := range text {
		if skipSpace {
			if unicode.IsSpace(r) {
				continue
			}
			skipSpace = false
		}
		current.WriteRune(r)
		if sentenceTerminators[r] {
			sentences = append(sentences, current.String())
			current.Reset()
			skipSpace = true
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}

	return sentences
}

// Index is the reference corpus built from the baseline document: a lookup
// set of normalized whole-paragraph and sentence keys, plus the ordered
// paragraph keys for containment scans. It is never mutated after
// construction.
type Index struct {
	keys     map[string]struct{}
	paraKeys []string
	opts     align.Options
}

// NewIndex builds the reference index from the baseline paragraphs.
func NewIndex(baseline []string, opts align.Options) *Index {
	ix := &Index{
		keys:     make(map[string]struct{}, len(baseline)*2),
		paraKeys: make([]string, len(baseline)),
		opts:     opts,
	}

	for i, para := range baseline {
		norm := textdiff.Normalize(para)
		ix.paraKeys[i] = norm
		ix.keys[norm] = struct{}{}

		for _, sent := range SplitSentences(para) {
			if utf8.RuneCountInString(sent) > minSentenceRunes {
				ix.keys[textdiff.Normalize(sent)] = struct{}{}
			}
		}
	}

	return ix
}

// Verdict is the classification of one revised-document paragraph.
type Verdict struct {
	// IsNew reports whether the paragraph is judged genuinely new content.
	IsNew bool `json:"is_new"`

	// MatchRatio is the confidence score: 1.0 for exact matches, 0.9 for
	// containment matches, otherwise the fraction of qualifying sentences
	// found in the baseline.
	MatchRatio float64 `json:"match_ratio"`
}

// Classify decides whether paragraph p is new relative to the baseline.
//
// Exact normalized matches and paragraphs contained in (or containing) a
// baseline paragraph are not new; the containment check handles paragraph
// splits and merges that preserve content. Otherwise p is split into
// sentences, segments under the minimum normalized length are discarded, and
// the paragraph is new iff the matched fraction of the remaining segments
// falls below the novelty threshold. A paragraph with no qualifying segments
// carries no comparable content and is vacuously not new.
func (ix *Index) Classify(p string) Verdict {
	norm := textdiff.Normalize(p)

	if _, ok := ix.keys[norm]; ok {
		return Verdict{IsNew: false, MatchRatio: 1.0}
	}

	// Containment either way can match a very short paragraph against a much
	// longer one; kept as-is since splits/merges are the common case.
	for _, refNorm := range ix.paraKeys {
		if strings.Contains(refNorm, norm) || strings.Contains(norm, refNorm) {
			return Verdict{IsNew: false, MatchRatio: 0.9}
		}
	}

	matched, total := 0, 0
	scanLimit := ix.opts.NoveltyScanCap
	if scanLimit > len(ix.paraKeys) {
		scanLimit = len(ix.paraKeys)
	}

	for _, sent := range SplitSentences(p) {
		sentNorm := textdiff.Normalize(sent)
		if utf8.RuneCountInString(sentNorm) < minSentenceRunes {
			continue
		}
		total++

		if _, ok := ix.keys[sentNorm]; ok {
			matched++
			continue
		}
		for _, refNorm := range ix.paraKeys[:scanLimit] {
			if strings.Contains(refNorm, sentNorm) {
				matched++
				break
			}
		}
	}

	if total == 0 {
		return Verdict{IsNew: false, MatchRatio: 1.0}
	}

	ratio := float64(matched) / float64(total)
	return Verdict{IsNew: ratio < ix.opts.NoveltyThreshold, MatchRatio: ratio}
}

// Result pairs a revised-document paragraph with its verdict.
type Result struct {
	// Index is the 0-based paragraph position in the revised document.
	Index int `json:"idx"`

	// Text is the paragraph text.
	Text string `json:"text"`

	Verdict
}

// ClassifyAll classifies every paragraph of the revised document in order.
func (ix *Index) ClassifyAll(paragraphs []string) []Result {
	results := make([]Result, len(paragraphs))
	for i, p := range paragraphs {
		results[i] = Result{Index: i, Text: p, Verdict: ix.Classify(p)}
	}
	return results
}
