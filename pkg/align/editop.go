package align

import "encoding/json"

// OpType classifies one paragraph-level edit operation.
type OpType int

const (
	// OpSame indicates the paragraph is content-equal on both sides.
	OpSame OpType = iota
	// OpAdded indicates the paragraph exists only in the new version.
	OpAdded
	// OpDeleted indicates the paragraph exists only in the old version.
	OpDeleted
	// OpModified indicates paired paragraphs judged to be the same
	// paragraph, edited.
	OpModified
)

// String returns the string representation of an OpType.
func (t OpType) String() string {
	switch t {
	case OpSame:
		return "same"
	case OpAdded:
		return "added"
	case OpDeleted:
		return "deleted"
	case OpModified:
		return "modified"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for OpType.
func (t OpType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// EditOp is one entry of a paragraph edit script. Positions are 1-based in
// their respective sequences; a zero index means the operation has no
// paragraph on that side.
type EditOp struct {
	// Type is the kind of edit.
	Type OpType `json:"type"`

	// Old is the paragraph text from the old version (empty for added).
	Old string `json:"old,omitempty"`

	// New is the paragraph text from the new version (empty for deleted).
	New string `json:"new,omitempty"`

	// OldIndex is the 1-based position in the old sequence, 0 if absent.
	OldIndex int `json:"old_idx,omitempty"`

	// NewIndex is the 1-based position in the new sequence, 0 if absent.
	NewIndex int `json:"new_idx,omitempty"`

	// Similarity is the character similarity in [0,1] for modified pairs.
	Similarity float64 `json:"similarity,omitempty"`
}
