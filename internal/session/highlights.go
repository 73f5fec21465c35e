package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Mezsondra/transkribe/internal/highlight"
	"github.com/Mezsondra/transkribe/models"
)

// ErrHighlightNotFound reports an operation on an unknown highlight id.
var ErrHighlightNotFound = errors.New("session: highlight not found")

// CreateHighlightRequest describes a new highlight. Time-based highlights
// carry StartTime/EndTime; text-based ones carry the utterance index whose
// canonical text gets the inline marker.
type CreateHighlightRequest struct {
	Text           string
	StartTime      *int64
	EndTime        *int64
	UtteranceIndex int
	Color          string
	Note           string
}

// HighlightInfo is a stored highlight plus its derived orphan state. An
// orphaned text-based highlight stays listed so the user can still read its
// text and note, but it no longer anchors anywhere in the transcript.
type HighlightInfo struct {
	models.Highlight
	Orphaned bool `json:"orphaned"`
}

// CreateHighlight persists a highlight and applies it to session state. For
// text-based highlights the anchor utterance's canonical text is rewritten
// with inline marker syntax; when the selected text is no longer present
// verbatim the highlight still exists but starts out orphaned, which is
// logged rather than treated as a failure.
func (s *Session) CreateHighlight(ctx context.Context, req CreateHighlightRequest) (models.Highlight, error) {
	h := models.Highlight{
		TranscriptID: s.TranscriptID,
		Text:         req.Text,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Color:        highlight.NormalizeColor(req.Color),
		Note:         req.Note,
	}
	id, err := s.persist.CreateHighlight(ctx, h)
	if err != nil {
		return models.Highlight{}, fmt.Errorf("create highlight: %w", err)
	}
	h.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlights = append(s.highlights, h)

	if !h.TimeBased() {
		u, err := s.store.Utterance(req.UtteranceIndex)
		if err != nil {
			return h, err
		}
		wrapped, err := highlight.WrapTextSelection(u.Text, h.Text, h.Color)
		if err != nil {
			s.log.WithError(err).WithField("highlight_id", id.String()).
				Warn("text highlight could not be anchored")
			return h, nil
		}
		if err := s.store.SetUtteranceText(req.UtteranceIndex, wrapped); err != nil {
			return h, err
		}
		s.dirty = true
	}
	return h, nil
}

// DeleteHighlight removes a highlight from storage and from session state.
// For text-based highlights the inline marker is unwrapped wherever it still
// exists; an already-orphaned marker is simply gone.
func (s *Session) DeleteHighlight(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	idx := -1
	for i, h := range s.highlights {
		if h.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrHighlightNotFound
	}
	h := s.highlights[idx]
	s.mu.Unlock()

	if err := s.persist.DeleteHighlight(ctx, id); err != nil {
		return fmt.Errorf("delete highlight: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.highlights {
		if s.highlights[i].ID == id {
			s.highlights = append(s.highlights[:i], s.highlights[i+1:]...)
			break
		}
	}
	if h.TimeBased() {
		// Word surfaces are re-rendered from the remaining highlight list,
		// so removal alone is enough.
		return nil
	}
	data := s.store.Transcript().Data
	for i := range data.Utterances {
		unwrapped, err := highlight.UnwrapTextMarker(data.Utterances[i].Text, h)
		if err != nil {
			continue
		}
		if err := s.store.SetUtteranceText(i, unwrapped); err != nil {
			return err
		}
		s.dirty = true
	}
	return nil
}

// Highlights lists the session's highlights with their orphan flags.
func (s *Session) Highlights() []HighlightInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := s.store.Transcript().Data
	out := make([]HighlightInfo, 0, len(s.highlights))
	for _, h := range s.highlights {
		out = append(out, HighlightInfo{Highlight: h, Orphaned: highlight.Orphaned(h, data)})
	}
	return out
}
