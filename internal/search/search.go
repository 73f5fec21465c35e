// Package search finds and replaces text across the transcript. Matching
// operates on content text only; timestamp labels and highlight marker
// syntax never participate. Replace-all rewrites canonical text directly.
package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/models"
)

const (
	// MinQueryLen is the minimum query length in runes; shorter queries
	// short-circuit to zero results without scanning.
	MinQueryLen = 2
	// MaxResults caps the number of collected matches.
	MaxResults = 500
)

// Match is one occurrence, addressed by utterance index and byte offsets
// into that utterance's content text.
type Match struct {
	UtteranceIndex int `json:"utterance_index"`
	Start          int `json:"start"`
	End            int `json:"end"`
}

// Engine holds the per-session search index and result cursor. The result
// set is rebuilt on every query and never persisted.
type Engine struct {
	texts   []string
	matches []Match
	current int
}

// NewEngine returns an empty engine; call Reindex before searching.
func NewEngine() *Engine { return &Engine{} }

// Reindex rebuilds the content-text index from canonical utterance text.
// Highlight markers are stripped so matches inside highlighted spans are
// still found; canonical text never contains timestamp labels.
func (e *Engine) Reindex(data models.TranscriptData) {
	e.texts = make([]string, len(data.Utterances))
	for i, u := range data.Utterances {
		e.texts[i] = segment.StripMarkers(u.Text)
	}
	e.Clear()
}

// Clear drops the current result set and cursor.
func (e *Engine) Clear() {
	e.matches = nil
	e.current = 0
}

// Search collects matches for the query in index order and resets the
// cursor to the first one. Match offsets always address the original
// content text, including case-insensitive matches on text whose runes
// change byte length when lowercased.
func (e *Engine) Search(query string, matchCase bool) []Match {
	e.Clear()
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinQueryLen {
		return nil
	}
	needle := query
	if !matchCase {
		needle = strings.ToLower(query)
	}
	for i, text := range e.texts {
		haystack := text
		var align map[int]int
		if !matchCase {
			haystack, align = foldForSearch(text)
		}
		from := 0
		for {
			rel := strings.Index(haystack[from:], needle)
			if rel < 0 {
				break
			}
			start := from + rel
			end := start + len(needle)
			m := Match{UtteranceIndex: i, Start: start, End: end}
			if align != nil {
				m.Start, m.End = align[start], align[end]
			}
			e.matches = append(e.matches, m)
			if len(e.matches) >= MaxResults {
				return e.matches
			}
			from = end
		}
	}
	return e.matches
}

// foldForSearch lowercases text and maps every rune boundary of the folded
// string back to the byte offset of the same rune in the original, since
// lowercasing can change a rune's byte length.
func foldForSearch(text string) (string, map[int]int) {
	var b strings.Builder
	b.Grow(len(text))
	align := make(map[int]int, len(text)+1)
	for off, r := range text {
		align[b.Len()] = off
		b.WriteRune(unicode.ToLower(r))
	}
	align[b.Len()] = len(text)
	return b.String(), align
}

// Count returns the number of matches of the last query.
func (e *Engine) Count() int { return len(e.matches) }

// Current returns the match under the cursor.
func (e *Engine) Current() (Match, int, bool) {
	if len(e.matches) == 0 {
		return Match{}, 0, false
	}
	return e.matches[e.current], e.current, true
}

// Navigate moves the cursor forward or backward, wrapping modulo the result
// count, and returns the new current match.
func (e *Engine) Navigate(forward bool) (Match, int, bool) {
	if len(e.matches) == 0 {
		return Match{}, 0, false
	}
	if forward {
		e.current = (e.current + 1) % len(e.matches)
	} else {
		e.current = (e.current - 1 + len(e.matches)) % len(e.matches)
	}
	return e.matches[e.current], e.current, true
}

// ReplaceAll replaces every occurrence of find in canonical utterance text,
// marking each touched utterance edited. The returned count is the number of
// substring matches replaced, not the number of utterances touched. Callers
// snapshot the data for undo before invoking this.
func ReplaceAll(data *models.TranscriptData, find, replacement string, matchCase bool) int {
	if find == "" {
		return 0
	}
	pattern := regexp.QuoteMeta(find)
	if !matchCase {
		pattern = "(?i)" + pattern
	}
	re := regexp.MustCompile(pattern)

	count := 0
	for i := range data.Utterances {
		u := &data.Utterances[i]
		hits := re.FindAllStringIndex(u.Text, -1)
		if len(hits) == 0 {
			continue
		}
		count += len(hits)
		u.Text = re.ReplaceAllLiteralString(u.Text, replacement)
		u.IsEdited = true
	}
	return count
}
