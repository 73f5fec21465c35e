package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Mezsondra/transkribe/internal/transcript"
)

// ErrNoSession reports an unknown session id.
var ErrNoSession = errors.New("session: not found")

// Manager opens and tracks editing sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	persist  Persistence
	provider Provider
	log      *logrus.Logger
	autosave time.Duration
}

// NewManager wires a manager. autosave <= 0 disables the autosave cycle.
func NewManager(persist Persistence, provider Provider, log *logrus.Logger, autosave time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		persist:  persist,
		provider: provider,
		log:      log,
		autosave: autosave,
	}
}

// Open loads a transcript and its highlights and starts a session around
// them. A highlight listing failure is not fatal; the session starts with an
// empty highlight list, matching how the viewer degraded.
func (m *Manager) Open(ctx context.Context, transcriptID uuid.UUID) (*Session, error) {
	raw, err := m.persist.LoadTranscript(ctx, transcriptID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	store, err := transcript.Load(raw)
	if err != nil {
		return nil, err
	}
	highlights, err := m.persist.ListHighlights(ctx, transcriptID)
	if err != nil {
		m.log.WithError(err).WithField("transcript_id", transcriptID.String()).
			Warn("failed to load highlights")
		highlights = nil
	}

	s := newSession(raw, store, highlights, m.persist, m.provider, m.log, m.autosave)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	s.log.WithField("utterances", store.Len()).Info("session opened")
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Close tears down one session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNoSession
	}
	s.Close()
	s.log.Info("session closed")
	return nil
}

// DeleteTranscript removes a transcript record outright, closing any open
// sessions bound to it first so no session keeps editing a deleted record.
func (m *Manager) DeleteTranscript(ctx context.Context, transcriptID uuid.UUID) error {
	m.mu.Lock()
	var bound []string
	for id, s := range m.sessions {
		if s.TranscriptID == transcriptID {
			bound = append(bound, id)
		}
	}
	m.mu.Unlock()
	for _, id := range bound {
		if err := m.Close(id); err != nil && !errors.Is(err, ErrNoSession) {
			return err
		}
	}
	if err := m.persist.DeleteTranscript(ctx, transcriptID); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	m.log.WithField("transcript_id", transcriptID.String()).Info("transcript deleted")
	return nil
}

// Shutdown closes every open session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
