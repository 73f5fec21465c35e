package session

import (
	"github.com/Mezsondra/transkribe/internal/search"
	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/internal/transcript"
	"github.com/Mezsondra/transkribe/models"
)

// SearchResult reports a query outcome: the match list plus the cursor.
type SearchResult struct {
	Matches []search.Match `json:"matches"`
	Current int            `json:"current"`
	Count   int            `json:"count"`
}

// Search runs a query over content text and resets the cursor to the first
// match. Queries shorter than the minimum length return an empty result.
func (s *Session) Search(query string, matchCase bool) SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	matches := s.searcher.Search(query, matchCase)
	_, cur, _ := s.searcher.Current()
	return SearchResult{Matches: matches, Current: cur, Count: len(matches)}
}

// Navigate moves the search cursor, wrapping at either end.
func (s *Session) Navigate(forward bool) (search.Match, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searcher.Navigate(forward)
}

// ReplaceAll replaces every occurrence of find in canonical text and returns
// the replacement count. A snapshot of the pre-replace data is pushed onto
// the undo history exactly once, and only when something actually changed.
// A successful replace turns edit mode on, mirroring how bulk replacement
// always implied editing in the viewer.
func (s *Session) ReplaceAll(find, replacement string, matchCase bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.store.Transcript()
	if !t.CanEdit {
		return 0, ErrReadOnly
	}

	working := transcript.CloneData(t.Data)
	count := search.ReplaceAll(&working, find, replacement, matchCase)
	if count == 0 {
		return 0, nil
	}

	s.pushUndoLocked(t.Data)
	s.store.ReplaceData(working)
	s.surfaces = make(map[int][]segment.Segment)
	s.dirty = true
	s.editing = true
	s.searcher.Reindex(working)
	s.log.WithField("count", count).Info("replaced all occurrences")
	return count, nil
}

// Undo restores the most recent snapshot. The restored state counts as
// unsaved changes; nothing is persisted until the next save.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.store.ReplaceData(last)
	s.surfaces = make(map[int][]segment.Segment)
	s.dirty = true
	s.searcher.Reindex(last)
	return nil
}

// UndoDepth returns the number of snapshots available.
func (s *Session) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo)
}

func (s *Session) pushUndoLocked(data models.TranscriptData) {
	if len(s.undo) >= UndoLimit {
		s.undo = s.undo[1:]
	}
	s.undo = append(s.undo, transcript.CloneData(data))
}
