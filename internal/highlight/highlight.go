// Package highlight applies user highlights to rendered surfaces and manages
// their two lifecycles: time-based (anchored to word timing, recovered on
// every render) and text-based (inline markers in edited canonical text).
package highlight

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/models"
)

// DefaultColor substitutes for unknown or missing highlight colors.
const DefaultColor = "#ffeb3b"

// ErrTextNotFound signals a text-based operation whose anchor substring is
// no longer present verbatim in the utterance text.
var ErrTextNotFound = errors.New("highlight: text not found in utterance")

var (
	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	rgbRe      = regexp.MustCompile(`rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)
)

// NormalizeColor maps whatever color representation a surface reports back
// to a 7-character hex string. Valid hex passes through byte-identical so
// marker round-trips stay lossless; unknown formats fall back to
// DefaultColor.
func NormalizeColor(c string) string {
	c = strings.TrimSpace(c)
	if hexColorRe.MatchString(c) {
		return c
	}
	if m := rgbRe.FindStringSubmatch(c); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r <= 255 && g <= 255 && b <= 255 {
			return fmt.Sprintf("#%02x%02x%02x", r, g, b)
		}
	}
	return DefaultColor
}

// Span is an offset-addressed highlighted run used while constructing
// segments. Offsets are inclusive start / inclusive end positions in
// whatever unit the caller works in.
type Span struct {
	Start int
	End   int
	Color string
	Text  string
}

// MergeAdjacent merges same-color spans whose gap is at most one unit,
// concatenating their text with a single separating space. Input order does
// not matter; output is sorted by start offset. It is a construction
// utility only and is never applied to persisted highlights.
func MergeAdjacent(spans []Span) []Span {
	if len(spans) <= 1 {
		return spans
	}
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := make([]Span, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if current.End >= next.Start-1 && current.Color == next.Color {
			if next.End > current.End {
				current.End = next.End
			}
			current.Text = strings.TrimSpace(current.Text + " " + next.Text)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// WrapTimeRuns rewrites a word/label segment sequence so that consecutive
// words belonging to the same time-based highlight are wrapped in a single
// mark segment. Runs of different highlight ids never merge, even when
// adjacent. A label immediately preceding the first word of a run stays
// outside the mark; labels between words of a run travel inside it. The
// operation is idempotent because it always starts from unmarked segments.
func WrapTimeRuns(segs []segment.Segment, highlights []models.Highlight) []segment.Segment {
	timeBased := make([]models.Highlight, 0, len(highlights))
	for _, h := range highlights {
		if h.TimeBased() {
			timeBased = append(timeBased, h)
		}
	}
	if len(timeBased) == 0 {
		return segs
	}

	findHighlight := func(s segment.Segment) *models.Highlight {
		if s.Kind != segment.KindWord {
			return nil
		}
		for i := range timeBased {
			if timeBased[i].ContainsTime(s.Start) {
				return &timeBased[i]
			}
		}
		return nil
	}

	var out []segment.Segment
	i := 0
	for i < len(segs) {
		h := findHighlight(segs[i])
		if h == nil {
			out = append(out, segs[i])
			i++
			continue
		}
		// Extend the run while following segments are words of the same
		// highlight id, or non-word filler between two such words.
		j := i + 1
		last := i
		for j < len(segs) {
			if next := findHighlight(segs[j]); next != nil {
				if next.ID != h.ID {
					break
				}
				last = j
				j++
				continue
			}
			if segs[j].Kind == segment.KindWord {
				break
			}
			j++
		}
		children := make([]segment.Segment, 0, last-i+1)
		children = append(children, segs[i:last+1]...)
		out = append(out, segment.Mark(NormalizeColor(h.Color), h.ID.String(), children...))
		// Trailing filler between last and j stays outside the mark.
		out = append(out, segs[last+1:j]...)
		i = j
	}
	return out
}

// WrapTextSelection mutates edited canonical text in place by wrapping the
// first verbatim occurrence of the selected substring with marker syntax.
// This is how a new text-based highlight is created; no separate
// application pass exists for edited utterances.
func WrapTextSelection(text, selected, color string) (string, error) {
	selected = strings.TrimSpace(selected)
	if selected == "" {
		return "", fmt.Errorf("highlight: empty selection")
	}
	idx := strings.Index(text, selected)
	if idx < 0 {
		return "", fmt.Errorf("%w: %q", ErrTextNotFound, selected)
	}
	return text[:idx] + segment.Marker(NormalizeColor(color), selected) + text[idx+len(selected):], nil
}

// UnwrapTextMarker removes the marker that wraps exactly the highlight's
// text, keeping the literal inner text; the surrounding utterance text is
// untouched. Returns ErrTextNotFound when no such marker exists.
func UnwrapTextMarker(text string, h models.Highlight) (string, error) {
	marker := segment.Marker(NormalizeColor(h.Color), h.Text)
	if !strings.Contains(text, marker) {
		return "", fmt.Errorf("%w: %q", ErrTextNotFound, h.Text)
	}
	return strings.Replace(text, marker, h.Text, 1), nil
}

// Orphaned reports whether a text-based highlight can no longer be anchored
// anywhere in the transcript: its text is absent (verbatim) from every
// utterance. Time-based highlights are never orphaned.
func Orphaned(h models.Highlight, data models.TranscriptData) bool {
	if h.TimeBased() {
		return false
	}
	for _, u := range data.Utterances {
		if strings.Contains(u.Text, h.Text) {
			return false
		}
	}
	return true
}
