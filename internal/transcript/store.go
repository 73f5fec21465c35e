// Package transcript holds the canonical in-memory transcript state for an
// editing session. All mutation of utterances and the speaker map funnels
// through this store; other components only read from it.
package transcript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Mezsondra/transkribe/models"
)

var (
	// ErrInvalidShape signals a transcript payload without an utterances
	// sequence. Callers surface this as a fatal display error, never a retry.
	ErrInvalidShape = errors.New("transcript: invalid data structure, missing utterances")

	// ErrDuplicateSpeaker signals a speaker rename that collides with the
	// display name already used by a different speaker id.
	ErrDuplicateSpeaker = errors.New("transcript: speaker name already in use")

	// ErrIndexOutOfRange signals an utterance index outside the transcript.
	ErrIndexOutOfRange = errors.New("transcript: utterance index out of range")
)

// Store owns the canonical utterance sequence and speaker map of one
// transcript. It is not internally synchronized; the owning session
// serializes access.
type Store struct {
	t *models.Transcript
}

// Load validates the raw transcript payload and builds a store around it.
// Speakers without a mapped display name get the default "Speaker <id>" and
// the mapping is recorded so it persists on the next save. Un-edited
// utterances with word timing have their text regenerated from the words so
// the word-time invariant holds from the start.
func Load(raw *models.Transcript) (*Store, error) {
	if raw == nil || raw.Data.Utterances == nil {
		return nil, ErrInvalidShape
	}
	if raw.SpeakerMap == nil {
		raw.SpeakerMap = make(map[string]string)
	}
	for i := range raw.Data.Utterances {
		u := &raw.Data.Utterances[i]
		if u.Speaker == "" {
			u.Speaker = "A"
		}
		if _, ok := raw.SpeakerMap[u.Speaker]; !ok {
			raw.SpeakerMap[u.Speaker] = "Speaker " + u.Speaker
		}
		if !u.IsEdited && len(u.Words) > 0 {
			u.Text = JoinWords(u.Words)
		}
	}
	return &Store{t: raw}, nil
}

// Transcript exposes the underlying record. Callers must not mutate it
// directly; use the store's mutation methods.
func (s *Store) Transcript() *models.Transcript { return s.t }

// Len returns the number of utterances.
func (s *Store) Len() int { return len(s.t.Data.Utterances) }

// Utterance returns the utterance at index i.
func (s *Store) Utterance(i int) (*models.Utterance, error) {
	if i < 0 || i >= len(s.t.Data.Utterances) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return &s.t.Data.Utterances[i], nil
}

// SetUtteranceText replaces the canonical text of utterance i and marks it
// edited. The edited flag is permanent; there is no automatic revert.
func (s *Store) SetUtteranceText(i int, text string) error {
	u, err := s.Utterance(i)
	if err != nil {
		return err
	}
	u.Text = text
	u.IsEdited = true
	return nil
}

// SpeakerMap returns a copy of the current speaker display-name map.
func (s *Store) SpeakerMap() map[string]string {
	out := make(map[string]string, len(s.t.SpeakerMap))
	for k, v := range s.t.SpeakerMap {
		out[k] = v
	}
	return out
}

// SetSpeakerName renames speaker id to the given display name. The name must
// be unique across all other speaker ids.
func (s *Store) SetSpeakerName(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("transcript: empty speaker name")
	}
	for other, display := range s.t.SpeakerMap {
		if other != id && display == name {
			return fmt.Errorf("%w: %q", ErrDuplicateSpeaker, name)
		}
	}
	s.t.SpeakerMap[id] = name
	return nil
}

// SetTitle updates the transcript title.
func (s *Store) SetTitle(title string) { s.t.Title = title }

// ReplaceData swaps in a new utterance sequence (undo restore, replace-all).
func (s *Store) ReplaceData(data models.TranscriptData) {
	s.t.Data = data
}

// JoinWords space-joins the word texts; for an un-edited utterance this is
// by definition its canonical text.
func JoinWords(words []models.Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

// CloneData deep-copies a transcript data payload. Used for undo snapshots
// and for the save pipeline's working copy.
func CloneData(d models.TranscriptData) models.TranscriptData {
	out := models.TranscriptData{Utterances: make([]models.Utterance, len(d.Utterances))}
	for i, u := range d.Utterances {
		cp := u
		if u.Words != nil {
			cp.Words = make([]models.Word, len(u.Words))
			copy(cp.Words, u.Words)
		}
		out.Utterances[i] = cp
	}
	return out
}

// CloneSpeakerMap copies a speaker map; nil maps come back empty.
func CloneSpeakerMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SameSpeakerMap reports whether two speaker maps are deeply equal. A change
// here forces a save even when no utterance text changed.
func SameSpeakerMap(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
