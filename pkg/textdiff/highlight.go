package textdiff

// Span is one piece of a character-level diff rendering. The spans for one
// side, concatenated in order, reconstruct that side's input exactly; Changed
// marks the pieces a renderer should highlight. Span text is raw: escaping is
// the renderer's concern.
type Span struct {
	Text    string `json:"text"`
	Changed bool   `json:"changed,omitempty"`
}

// Highlight produces aligned per-side span renderings of two strings. When
// the strings are literally identical it returns each as a single unchanged
// span and changed=false. Otherwise equal regions appear unchanged on both
// sides, deletions appear changed only on the left, insertions only on the
// right, and replacements on both sides with each side's own substring.
func Highlight(oldText, newText string) (left, right []Span, changed bool) {
	if oldText == newText {
		return []Span{{Text: oldText}}, []Span{{Text: newText}}, false
	}

	a, b := []rune(oldText), []rune(newText)
	ops := OpcodesFunc(len(a), len(b), func(i, j int) bool {
		return a[i] == b[j]
	})

	for _, op := range ops {
		switch op.Tag {
		case OpEqual:
			left = append(left, Span{Text: string(a[op.A1:op.A2])})
			right = append(right, Span{Text: string(b[op.B1:op.B2])})
		case OpDelete:
			left = append(left, Span{Text: string(a[op.A1:op.A2]), Changed: true})
		case OpInsert:
			right = append(right, Span{Text: string(b[op.B1:op.B2]), Changed: true})
		case OpReplace:
			left = append(left, Span{Text: string(a[op.A1:op.A2]), Changed: true})
			right = append(right, Span{Text: string(b[op.B1:op.B2]), Changed: true})
		}
	}

	return left, right, true
}
