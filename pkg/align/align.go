package align

import "github.com/coolbeans/epubdiff/pkg/textdiff"

// Align produces the edit script transforming oldParas into newParas. Every
// paragraph from both sides appears in exactly one operation. Paragraphs are
// compared by normalized key, so reflow-only differences count as same.
//
// Replace blocks are sub-paired positionally rather than realigned: pairs
// whose similarity strictly exceeds opts.ModificationThreshold become
// modified operations, dissimilar pairs decompose into an independent
// deletion and addition, and leftovers on the longer side emit on their own.
// Empty inputs are valid and yield an all-added, all-deleted, or empty
// script.
func Align(oldParas, newParas []string, opts Options) []EditOp {
	oldKeys := make([]string, len(oldParas))
	for i, p := range oldParas {
		oldKeys[i] = textdiff.Normalize(p)
	}
	newKeys := make([]string, len(newParas))
	for j, p := range newParas {
		newKeys[j] = textdiff.Normalize(p)
	}

	opcodes := textdiff.OpcodesFunc(len(oldParas), len(newParas), func(i, j int) bool {
		return oldKeys[i] == newKeys[j]
	})

	var script []EditOp
	for _, op := range opcodes {
		switch op.Tag {
		case textdiff.OpEqual:
			for k := 0; k < op.A2-op.A1; k++ {
				script = append(script, EditOp{
					Type:     OpSame,
					Old:      oldParas[op.A1+k],
					New:      newParas[op.B1+k],
					OldIndex: op.A1 + k + 1,
					NewIndex: op.B1 + k + 1,
				})
			}

		case textdiff.OpDelete:
			for k := op.A1; k < op.A2; k++ {
				script = append(script, EditOp{
					Type:     OpDeleted,
					Old:      oldParas[k],
					OldIndex: k + 1,
				})
			}

		case textdiff.OpInsert:
			for k := op.B1; k < op.B2; k++ {
				script = append(script, EditOp{
					Type:     OpAdded,
					New:      newParas[k],
					NewIndex: k + 1,
				})
			}

		case textdiff.OpReplace:
			script = append(script, subPairReplace(op, oldParas, newParas, opts)...)
		}
	}

	return script
}

// subPairReplace pairs the two sides of a replace block index by index up to
// the longer side's length.
func subPairReplace(op textdiff.Opcode, oldParas, newParas []string, opts Options) []EditOp {
	oldLen := op.A2 - op.A1
	newLen := op.B2 - op.B1
	pairs := oldLen
	if newLen > pairs {
		pairs = newLen
	}

	var script []EditOp
	for k := 0; k < pairs; k++ {
		hasOld := k < oldLen
		hasNew := k < newLen

		switch {
		case hasOld && hasNew:
			oldP := oldParas[op.A1+k]
			newP := newParas[op.B1+k]
			ratio := textdiff.Similarity(oldP, newP)
			if ratio > opts.ModificationThreshold {
				script = append(script, EditOp{
					Type:       OpModified,
					Old:        oldP,
					New:        newP,
					OldIndex:   op.A1 + k + 1,
					NewIndex:   op.B1 + k + 1,
					Similarity: ratio,
				})
			} else {
				// Too dissimilar to count as the same paragraph, edited.
				script = append(script,
					EditOp{Type: OpDeleted, Old: oldP, OldIndex: op.A1 + k + 1},
					EditOp{Type: OpAdded, New: newP, NewIndex: op.B1 + k + 1},
				)
			}

		case hasOld:
			script = append(script, EditOp{
				Type:     OpDeleted,
				Old:      oldParas[op.A1+k],
				OldIndex: op.A1 + k + 1,
			})

		default:
			script = append(script, EditOp{
				Type:     OpAdded,
				New:      newParas[op.B1+k],
				NewIndex: op.B1 + k + 1,
			})
		}
	}

	return script
}
