// Package align turns two versions of a structured document into typed edit
// scripts: it matches chapters across the versions and aligns the paragraph
// sequences of matched chapters into same/added/deleted/modified operations.
package align

// Options holds every tunable threshold of the engine. Thresholds are
// expected to lie in [0,1]; out-of-range values are a caller contract
// violation, not something the engine detects.
type Options struct {
	// ModificationThreshold is the minimum similarity (strictly greater
	// than) for a sub-paired replace-block pair to count as modified rather
	// than an independent deletion plus addition.
	ModificationThreshold float64 `json:"modification_threshold" yaml:"modification_threshold"`

	// ChapterMatchThreshold is the minimum content-prefix similarity for a
	// chapter match when titles differ.
	ChapterMatchThreshold float64 `json:"chapter_match_threshold" yaml:"chapter_match_threshold"`

	// ChapterPrefixLength is how many characters of each chapter's
	// concatenated text feed the chapter similarity score.
	ChapterPrefixLength int `json:"chapter_prefix_length" yaml:"chapter_prefix_length"`

	// NoveltyThreshold is the sentence-match ratio below which the novelty
	// classifier marks a paragraph as new.
	NoveltyThreshold float64 `json:"novelty_threshold" yaml:"novelty_threshold"`

	// NoveltyScanCap bounds how many baseline paragraphs are scanned per
	// sentence for containment matches.
	NoveltyScanCap int `json:"novelty_scan_cap" yaml:"novelty_scan_cap"`
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		ModificationThreshold: 0.5,
		ChapterMatchThreshold: 0.3,
		ChapterPrefixLength:   500,
		NoveltyThreshold:      0.5,
		NoveltyScanCap:        500,
	}
}
