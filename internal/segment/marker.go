package segment

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Inline highlight marker syntax embedded in edited canonical text:
//
//	[[HIGHLIGHT color="#ffeb3b"]]highlighted words[[/HIGHLIGHT]]
//
// The pattern is non-greedy so adjacent markers never swallow each other.
var (
	markerRe     = regexp.MustCompile(`\[\[HIGHLIGHT color="([^"]+)"\]\](.*?)\[\[/HIGHLIGHT\]\]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// Marker renders the inline marker form for one highlighted run.
func Marker(color, inner string) string {
	return fmt.Sprintf(`[[HIGHLIGHT color="%s"]]%s[[/HIGHLIGHT]]`, color, inner)
}

// ParseMarked splits canonical text that may contain highlight markers into
// plain text and mark segments. Malformed or unmatched marker fragments are
// passed through as plain text, which keeps rendering total.
func ParseMarked(text string) []Segment {
	if text == "" {
		return nil
	}
	var segs []Segment
	last := 0
	for _, loc := range markerRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			segs = append(segs, Text(text[last:loc[0]]))
		}
		color := text[loc[2]:loc[3]]
		inner := text[loc[4]:loc[5]]
		segs = append(segs, Mark(color, "", Text(inner)))
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, Text(text[last:]))
	}
	return segs
}

// StripMarkers returns the text with all highlight markers removed, keeping
// the literal inner text in place.
func StripMarkers(text string) string {
	return markerRe.ReplaceAllString(text, "$2")
}

// NormalizeSpace collapses runs of whitespace to a single space and trims.
// This is the canonical-text normalization applied after reconciliation and
// when composing copy text.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}

// EscapeHTML escapes the characters that may not appear raw in rendered
// markup (&, <, >, quotes).
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}
