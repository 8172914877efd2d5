// Package textdiff provides the low-level sequence matching primitives shared
// by the paragraph aligner, the chapter matcher, and the character-level
// highlighter: whitespace-insensitive normalization, a similarity ratio, and
// an opcode generator describing how one sequence transforms into another.
package textdiff

import (
	"encoding/json"
	"sort"
)

// OpTag classifies a single opcode block.
type OpTag int

const (
	// OpEqual indicates the block is identical on both sides.
	OpEqual OpTag = iota
	// OpDelete indicates the block exists only on the A side.
	OpDelete
	// OpInsert indicates the block exists only on the B side.
	OpInsert
	// OpReplace indicates the block differs between the two sides.
	OpReplace
)

// String returns the string representation of an OpTag.
func (t OpTag) String() string {
	switch t {
	case OpEqual:
		return "equal"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for OpTag.
func (t OpTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Opcode describes one alignment block. The half-open ranges [A1,A2) and
// [B1,B2) index into the A and B sequences; across the full opcode list the
// ranges partition both sequences with no gaps or overlaps.
type Opcode struct {
	Tag OpTag `json:"tag"`
	A1  int   `json:"a1"`
	A2  int   `json:"a2"`
	B1  int   `json:"b1"`
	B2  int   `json:"b2"`
}

// Match is a maximal run of elements that are equal on both sides, starting
// at index A in the first sequence and B in the second.
type Match struct {
	A    int
	B    int
	Size int
}

// matcher aligns two abstract sequences through an index-based equality
// predicate, so the same procedure serves characters, paragraphs (compared by
// normalized key), and chapters.
type matcher struct {
	lenA, lenB int
	eq         func(a, b int) bool
}

// findLongestMatch returns the longest run of equal elements inside
// a[alo:ahi] and b[blo:bhi]. Ties prefer the earliest start in A, then the
// earliest start in B.
func (m *matcher) findLongestMatch(alo, ahi, blo, bhi int) Match {
	best := Match{A: alo, B: blo}

	// runLen[j-blo] is the length of the longest matching run ending at
	// (i, j) for the current row i.
	runLen := make([]int, bhi-blo)
	for i := alo; i < ahi; i++ {
		next := make([]int, bhi-blo)
		for j := blo; j < bhi; j++ {
			if !m.eq(i, j) {
				continue
			}
			k := 1
			if j > blo {
				k = runLen[j-blo-1] + 1
			}
			next[j-blo] = k
			if k > best.Size {
				best = Match{A: i - k + 1, B: j - k + 1, Size: k}
			}
		}
		runLen = next
	}

	return best
}

// matchingBlocks returns all matching runs in order, terminated by a
// zero-length sentinel at (lenA, lenB). Found by repeatedly taking the
// longest match and recursing into the regions to its left and right.
func (m *matcher) matchingBlocks() []Match {
	type region struct {
		alo, ahi, blo, bhi int
	}

	queue := []region{{0, m.lenA, 0, m.lenB}}
	var matched []Match

	for len(queue) > 0 {
		r := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		best := m.findLongestMatch(r.alo, r.ahi, r.blo, r.bhi)
		if best.Size == 0 {
			continue
		}
		matched = append(matched, best)

		if r.alo < best.A && r.blo < best.B {
			queue = append(queue, region{r.alo, best.A, r.blo, best.B})
		}
		if best.A+best.Size < r.ahi && best.B+best.Size < r.bhi {
			queue = append(queue, region{best.A + best.Size, r.ahi, best.B + best.Size, r.bhi})
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].A != matched[j].A {
			return matched[i].A < matched[j].A
		}
		return matched[i].B < matched[j].B
	})

	// Merge adjacent runs so each block is maximal.
	var blocks []Match
	for _, match := range matched {
		n := len(blocks)
		if n > 0 && blocks[n-1].A+blocks[n-1].Size == match.A && blocks[n-1].B+blocks[n-1].Size == match.B {
			blocks[n-1].Size += match.Size
			continue
		}
		blocks = append(blocks, match)
	}

	return append(blocks, Match{A: m.lenA, B: m.lenB})
}

// opcodes converts the matching blocks into a gap-free list of tagged edit
// blocks covering both sequences.
func (m *matcher) opcodes() []Opcode {
	var ops []Opcode
	i, j := 0, 0

	for _, block := range m.matchingBlocks() {
		switch {
		case i < block.A && j < block.B:
			ops = append(ops, Opcode{OpReplace, i, block.A, j, block.B})
		case i < block.A:
			ops = append(ops, Opcode{OpDelete, i, block.A, j, block.B})
		case j < block.B:
			ops = append(ops, Opcode{OpInsert, i, block.A, j, block.B})
		}
		i = block.A + block.Size
		j = block.B + block.Size
		if block.Size > 0 {
			ops = append(ops, Opcode{OpEqual, block.A, i, block.B, j})
		}
	}

	return ops
}

// ratio is 2*M/T where M is the total matched length and T the combined
// length of both sequences. Two empty sequences are identical by convention.
func (m *matcher) ratio() float64 {
	total := m.lenA + m.lenB
	if total == 0 {
		return 1.0
	}
	matched := 0
	for _, block := range m.matchingBlocks() {
		matched += block.Size
	}
	return 2.0 * float64(matched) / float64(total)
}

// OpcodesFunc runs the matcher over two abstract sequences of the given
// lengths, comparing elements with eq.
func OpcodesFunc(lenA, lenB int, eq func(a, b int) bool) []Opcode {
	m := &matcher{lenA: lenA, lenB: lenB, eq: eq}
	return m.opcodes()
}

// Opcodes runs the matcher over the characters of two strings.
func Opcodes(a, b string) []Opcode {
	ra, rb := []rune(a), []rune(b)
	return OpcodesFunc(len(ra), len(rb), func(i, j int) bool {
		return ra[i] == rb[j]
	})
}

// Similarity returns the character-level similarity of two strings in [0,1].
// It is symmetric and returns 1.0 for identical inputs, including two empty
// strings.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	m := &matcher{lenA: len(ra), lenB: len(rb), eq: func(i, j int) bool {
		return ra[i] == rb[j]
	}}
	return m.ratio()
}

// SimilarityFunc returns the similarity ratio over two abstract sequences.
func SimilarityFunc(lenA, lenB int, eq func(a, b int) bool) float64 {
	m := &matcher{lenA: lenA, lenB: lenB, eq: eq}
	return m.ratio()
}
