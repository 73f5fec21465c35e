// Package playback maps the current playback time onto the active utterance
// and word, for karaoke-style highlighting and click-to-seek. The scan is
// linear and restarts on every tick, which keeps manual seeks trivially
// correct at transcript-sized record counts.
package playback

import (
	"unicode"

	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/models"
)

// Position describes the located playback position. WordIndex is -1 when the
// utterance offers no word resolution (whole-utterance seek fallback).
// CharStart/CharEnd are rune offsets of the active word inside the edited
// display text when the word was projected by ordinal; both are -1 when the
// projection does not apply or failed. InHighlight marks a word whose time
// range lies fully inside an existing time-based highlight, in which case no
// separate active-word wrapper is created.
type Position struct {
	Found          bool  `json:"found"`
	Suppressed     bool  `json:"suppressed,omitempty"`
	UtteranceIndex int   `json:"utterance_index"`
	WordIndex      int   `json:"word_index"`
	WordStart      int64 `json:"word_start,omitempty"`
	WordEnd        int64 `json:"word_end,omitempty"`
	CharStart      int   `json:"char_start"`
	CharEnd        int   `json:"char_end"`
	InHighlight    bool  `json:"in_highlight,omitempty"`
}

// Locate finds the active utterance and word for timeMs. While a text
// selection gesture is in progress the mapper is a no-op so the selection is
// never disturbed by playback ticking.
func Locate(data models.TranscriptData, highlights []models.Highlight, timeMs int64, selecting bool) Position {
	pos := Position{UtteranceIndex: -1, WordIndex: -1, CharStart: -1, CharEnd: -1}
	if selecting {
		pos.Suppressed = true
		return pos
	}
	for i, u := range data.Utterances {
		if timeMs < u.Start || timeMs > u.End {
			continue
		}
		pos.Found = true
		pos.UtteranceIndex = i

		if len(u.Words) == 0 {
			return pos
		}
		wordIdx := -1
		for wi, w := range u.Words {
			if timeMs >= w.Start && timeMs <= w.End {
				wordIdx = wi
				break
			}
		}
		if wordIdx < 0 {
			return pos
		}
		w := u.Words[wordIdx]
		pos.WordIndex = wordIdx
		pos.WordStart = w.Start
		pos.WordEnd = w.End
		pos.InHighlight = insideTimeHighlight(w, highlights)

		if u.IsEdited {
			// The surface no longer carries word units; project the word's
			// ordinal onto the live text by counting word-like tokens.
			pos.CharStart, pos.CharEnd = projectOrdinal(segment.StripMarkers(u.Text), wordIdx)
		}
		return pos
	}
	return pos
}

func insideTimeHighlight(w models.Word, highlights []models.Highlight) bool {
	for _, h := range highlights {
		if h.TimeBased() && w.Start >= *h.StartTime && w.End <= *h.EndTime {
			return true
		}
	}
	return false
}

// projectOrdinal returns the rune offsets of the nth whitespace-delimited
// token in text, or (-1, -1) when the text has fewer tokens than that.
func projectOrdinal(text string, n int) (int, int) {
	tokenIdx := -1
	start := -1
	offset := 0
	for _, r := range text {
		isSpace := unicode.IsSpace(r)
		if !isSpace && start < 0 {
			start = offset
			tokenIdx++
		}
		if isSpace && start >= 0 {
			if tokenIdx == n {
				return start, offset
			}
			start = -1
		}
		offset++
	}
	if start >= 0 && tokenIdx == n {
		return start, offset
	}
	return -1, -1
}
