package align

import (
	"github.com/coolbeans/epubdiff/pkg/book"
	"github.com/coolbeans/epubdiff/pkg/textdiff"
)

// Pairing matches a chapter index from the old book with one from the new
// book. A side is -1 when the chapter has no counterpart.
type Pairing struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// MatchChapters greedily pairs chapters across the two books. For each old
// chapter, in order: an exactly equal title claims the first unclaimed new
// chapter immediately; otherwise the best unclaimed candidate by similarity
// of the chapters' text prefixes wins, provided it exceeds
// opts.ChapterMatchThreshold. A claimed chapter is never matched again.
// Unmatched old chapters emit with Right=-1, and new chapters never claimed
// follow in their original order with Left=-1, so every chapter on each side
// appears in exactly one pairing.
//
// Chapter order is a strong prior for correspondence in revised editions, so
// this one-pass matcher is deliberately greedy rather than globally optimal.
func MatchChapters(oldChapters, newChapters []book.Chapter, opts Options) []Pairing {
	used := make(map[int]bool, len(newChapters))
	pairings := make([]Pairing, 0, len(oldChapters)+len(newChapters))

	for i, oldCh := range oldChapters {
		best := -1
		bestScore := 0.0
		oldPrefix := oldCh.Prefix(opts.ChapterPrefixLength)

		for j, newCh := range newChapters {
			if used[j] {
				continue
			}
			if oldCh.Title == newCh.Title {
				best = j
				break
			}
			ratio := textdiff.Similarity(oldPrefix, newCh.Prefix(opts.ChapterPrefixLength))
			if ratio > bestScore && ratio > opts.ChapterMatchThreshold {
				bestScore = ratio
				best = j
			}
		}

		if best >= 0 {
			pairings = append(pairings, Pairing{Left: i, Right: best})
			used[best] = true
		} else {
			pairings = append(pairings, Pairing{Left: i, Right: -1})
		}
	}

	for j := range newChapters {
		if !used[j] {
			pairings = append(pairings, Pairing{Left: -1, Right: j})
		}
	}

	return pairings
}
