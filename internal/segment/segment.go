// Package segment defines the typed intermediate representation of a rendered
// transcript surface. Every component that used to crawl DOM nodes in the
// browser editor works on these segments instead: the renderer produces them,
// the reconciler walks them back into canonical text, and search/copy extract
// content text from them.
package segment

// Kind discriminates surface segment types.
type Kind string

const (
	// KindText is plain, content-bearing text (including separator spaces).
	KindText Kind = "text"
	// KindWord is a timing-bearing span for one transcribed word.
	KindWord Kind = "word"
	// KindLabel is a timestamp label. Labels are never content: they are
	// excluded from copy, search and reconciliation at any nesting depth.
	KindLabel Kind = "label"
	// KindMark is a highlight wrapper around child segments.
	KindMark Kind = "mark"
)

// Segment is one node of a rendered or edited utterance surface.
type Segment struct {
	Kind        Kind      `json:"kind"`
	Text        string    `json:"text,omitempty"`
	Start       int64     `json:"start,omitempty"`
	End         int64     `json:"end,omitempty"`
	Color       string    `json:"color,omitempty"`
	HighlightID string    `json:"highlight_id,omitempty"`
	Children    []Segment `json:"children,omitempty"`
}

// Text returns a plain text segment.
func Text(s string) Segment { return Segment{Kind: KindText, Text: s} }

// Word returns a word segment carrying its timing.
func Word(text string, start, end int64) Segment {
	return Segment{Kind: KindWord, Text: text, Start: start, End: end}
}

// Label returns a timestamp label segment.
func Label(s string) Segment { return Segment{Kind: KindLabel, Text: s} }

// Mark returns a highlight wrapper around children.
func Mark(color, highlightID string, children ...Segment) Segment {
	return Segment{Kind: KindMark, Color: color, HighlightID: highlightID, Children: children}
}

// PlainText extracts the content text of a segment list in document order,
// excluding label segments at any depth. No whitespace normalization is
// applied; callers normalize when they need canonical form.
func PlainText(segs []Segment) string {
	var out []byte
	appendPlain(&out, segs)
	return string(out)
}

func appendPlain(out *[]byte, segs []Segment) {
	for _, s := range segs {
		switch s.Kind {
		case KindLabel:
			// excluded regardless of depth
		case KindMark:
			appendPlain(out, s.Children)
		default:
			*out = append(*out, s.Text...)
		}
	}
}
