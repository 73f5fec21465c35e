package models

import (
	"github.com/google/uuid"
)

// Highlight is a user-authored colored annotation. Time-based highlights
// carry StartTime/EndTime in milliseconds and are recovered from word timing
// at render time. Text-based highlights (both times nil) live as inline
// markers inside an edited utterance's canonical text and survive only as
// long as Text remains present verbatim.
type Highlight struct {
	ID           uuid.UUID `json:"id,omitempty"`
	TranscriptID uuid.UUID `json:"transcript_id,omitempty"`
	Text         string    `json:"highlight_text"`
	StartTime    *int64    `json:"start_time"`
	EndTime      *int64    `json:"end_time"`
	Color        string    `json:"color"`
	Note         string    `json:"note,omitempty"`
}

// TimeBased reports whether the highlight is anchored to audio timing.
func (h Highlight) TimeBased() bool {
	return h.StartTime != nil && h.EndTime != nil
}

// ContainsTime reports whether t (ms) falls inside the highlight's range.
// Always false for text-based highlights.
func (h Highlight) ContainsTime(t int64) bool {
	return h.TimeBased() && t >= *h.StartTime && t <= *h.EndTime
}
