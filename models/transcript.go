package models

import (
	"github.com/google/uuid"
)

// Word represents a single transcribed word with its timing, as produced by
// the transcription engine. Times are integer milliseconds from the start of
// the recording.
type Word struct {
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Utterance represents one speaker turn. Text is the canonical string; once
// IsEdited is true it is the single source of truth and may carry inline
// highlight markers. Words is kept even after editing so that time-based
// highlights and playback mapping can still be recovered.
type Utterance struct {
	Speaker  string `json:"speaker"`
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Text     string `json:"text"`
	IsEdited bool   `json:"is_edited"`
	Words    []Word `json:"words,omitempty"`
}

// TranscriptData is the payload stored for a transcript. A missing or nil
// Utterances slice is an invalid shape and must be treated as a fatal load
// error by callers.
type TranscriptData struct {
	Utterances []Utterance `json:"utterances"`
}

// Chapter is one entry of an AI-generated chapter list. Headline is
// preferred for display; Summary is the fallback.
type Chapter struct {
	Start    int64  `json:"start"`
	Headline string `json:"headline,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Transcript is the full record returned by the persistence service.
type Transcript struct {
	ID         uuid.UUID         `json:"id,omitempty"`
	Title      string            `json:"title"`
	Date       string            `json:"date,omitempty"`
	Data       TranscriptData    `json:"data"`
	SpeakerMap map[string]string `json:"speaker_map,omitempty"`
	Summary    *string           `json:"summary,omitempty"`
	Chapters   []Chapter         `json:"chapters,omitempty"`
	CanEdit    bool              `json:"can_edit"`
}
