// Package session owns one editing session per open transcript: the
// canonical state, submitted edit surfaces, the serialized save pipeline,
// search, undo history and calls out to persistence and the AI provider.
// Every method serializes on the session mutex, which gives the same
// one-thing-at-a-time behavior the interactive viewer had.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Mezsondra/transkribe/internal/playback"
	"github.com/Mezsondra/transkribe/internal/reconcile"
	"github.com/Mezsondra/transkribe/internal/render"
	"github.com/Mezsondra/transkribe/internal/search"
	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/internal/transcript"
	"github.com/Mezsondra/transkribe/models"
)

const (
	// UndoLimit bounds the undo history; the oldest snapshot is dropped
	// when a new one would exceed it.
	UndoLimit = 20

	saveTimeout = 30 * time.Second
)

var (
	// ErrNotEditing reports a surface submission outside edit mode.
	ErrNotEditing = errors.New("session: edit mode is not active")

	// ErrReadOnly reports a mutation on a transcript the user cannot edit.
	ErrReadOnly = errors.New("session: transcript is not editable")

	// ErrNothingToUndo reports an undo with an empty history.
	ErrNothingToUndo = errors.New("session: nothing to undo")

	// ErrNoTranslation reports a translation-pane operation before any
	// translation was produced in this session.
	ErrNoTranslation = errors.New("session: no translation available")
)

// Persistence is the storage surface a session needs.
type Persistence interface {
	LoadTranscript(ctx context.Context, id uuid.UUID) (*models.Transcript, error)
	SaveTranscript(ctx context.Context, id uuid.UUID, data models.TranscriptData, speakers map[string]string) error
	SaveTitle(ctx context.Context, id uuid.UUID, title string) error
	CreateHighlight(ctx context.Context, h models.Highlight) (uuid.UUID, error)
	ListHighlights(ctx context.Context, transcriptID uuid.UUID) ([]models.Highlight, error)
	DeleteHighlight(ctx context.Context, id uuid.UUID) error
	DeleteTranscript(ctx context.Context, id uuid.UUID) error
}

// Provider is the AI service surface: translation, summarization and export
// rendering all run remotely.
type Provider interface {
	Translate(ctx context.Context, id uuid.UUID, targetLang string, speakers map[string]string) ([]models.TranslatedUtterance, error)
	Summarize(ctx context.Context, id uuid.UUID) (*models.SummaryResult, error)
	Export(ctx context.Context, req models.ExportRequest) (*models.ExportResult, error)
}

// Session is one user's open transcript. Zero value is not usable; sessions
// are created through a Manager.
type Session struct {
	ID           string
	TranscriptID uuid.UUID

	mu    sync.Mutex
	store *transcript.Store

	// baseline holds the canonical text each utterance reconstructed to at
	// session start or at the last successful save. Change detection always
	// compares against it, never against the live copy.
	baseline         []string
	baselineSpeakers map[string]string

	highlights  []models.Highlight
	surfaces    map[int][]segment.Segment
	translation []models.TranslatedUtterance

	mode      render.TimestampMode
	editing   bool
	dirty     bool
	selecting bool

	undo     []models.TranscriptData
	searcher *search.Engine
	pipeline *reconcile.Pipeline

	persist  Persistence
	provider Provider
	log      *logrus.Entry

	stopAutosave chan struct{}
	closeOnce    sync.Once
}

func newSession(t *models.Transcript, store *transcript.Store, highlights []models.Highlight, persist Persistence, provider Provider, log *logrus.Logger, autosave time.Duration) *Session {
	s := &Session{
		ID:               uuid.NewString(),
		TranscriptID:     t.ID,
		store:            store,
		baselineSpeakers: transcript.CloneSpeakerMap(t.SpeakerMap),
		highlights:       highlights,
		surfaces:         make(map[int][]segment.Segment),
		mode:             render.ModeUtterance,
		searcher:         search.NewEngine(),
		persist:          persist,
		provider:         provider,
		stopAutosave:     make(chan struct{}),
	}
	s.log = log.WithFields(logrus.Fields{
		"session_id":    s.ID,
		"transcript_id": t.ID.String(),
	})
	s.baseline = s.reconstructBaseline(t.Data)
	s.searcher.Reindex(t.Data)
	s.pipeline = reconcile.NewPipeline(s.runSave)
	if autosave > 0 {
		go s.autosaveLoop(autosave)
	}
	return s
}

// reconstructBaseline derives per-utterance baseline text from what the
// rendered surface reconstructs to, so an untouched session saves as a no-op
// even when the stored text had irregular whitespace.
func (s *Session) reconstructBaseline(data models.TranscriptData) []string {
	out := make([]string, len(data.Utterances))
	for i, u := range data.Utterances {
		out[i] = reconcile.Reconstruct(render.UtteranceSegments(u, s.highlights))
	}
	return out
}

// Close stops autosave and the save pipeline. Pending queued saves fail;
// in-flight state is abandoned exactly as if the viewer tab were closed.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.stopAutosave)
		s.pipeline.Close()
	})
}

// View renders the current transcript with the session's timestamp mode.
func (s *Session) View() render.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return render.Render(s.store.Transcript(), s.store.SpeakerMap(), s.highlights, s.mode)
}

// SetMode switches timestamp label visibility. The rendered segments are a
// pure function of canonical state, so switching modes loses nothing.
func (s *Session) SetMode(mode render.TimestampMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Mode returns the active timestamp mode.
func (s *Session) Mode() render.TimestampMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetEditing toggles edit mode. Leaving edit mode keeps the dirty flag and
// submitted surfaces; only a save clears them.
func (s *Session) SetEditing(editing bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if editing && !s.store.Transcript().CanEdit {
		return ErrReadOnly
	}
	s.editing = editing
	return nil
}

// Editing reports whether edit mode is active.
func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// Dirty reports whether unsaved changes exist.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// SetSelecting records whether a text selection gesture is in progress.
// While true, playback position mapping is suppressed.
func (s *Session) SetSelecting(selecting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selecting = selecting
}

// SubmitSurface records the edited surface of utterance i. Surfaces are only
// accepted in edit mode; the next save sweep reconciles them back into
// canonical text.
func (s *Session) SubmitSurface(i int, segs []segment.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.editing {
		return ErrNotEditing
	}
	if _, err := s.store.Utterance(i); err != nil {
		return err
	}
	s.surfaces[i] = segs
	s.dirty = true
	return nil
}

// Save submits a save request and blocks until it has run. Requests are
// executed strictly one at a time in submission order; each keeps its own
// notify flag. reconcile.ErrNoChanges comes back for a clean no-op.
func (s *Session) Save(notify bool) error {
	return s.pipeline.Submit(reconcile.SaveRequest{Notify: notify})
}

// runSave is the pipeline worker body. A raised dirty flag forces a persist
// even when the sweep finds identical text, so a flagged session always
// sends its request. The session mutex is released for the network call;
// reads and new edits proceed while the request is on the wire, and a
// failed persist rolls the baseline back and raises the dirty flag so the
// next save re-detects everything this one carried.
func (s *Session) runSave(req reconcile.SaveRequest) error {
	s.mu.Lock()
	t := s.store.Transcript()
	surface := func(i int, u models.Utterance) []segment.Segment {
		if segs, ok := s.surfaces[i]; ok {
			return segs
		}
		return render.UtteranceSegments(u, s.highlights)
	}
	outcome := reconcile.Sweep(t.Data, s.baseline, surface)
	speakers := s.store.SpeakerMap()
	speakersChanged := !transcript.SameSpeakerMap(speakers, s.baselineSpeakers)
	if !outcome.Changed && !speakersChanged && !s.dirty {
		s.mu.Unlock()
		return reconcile.ErrNoChanges
	}

	prevBaseline := s.baseline
	prevSpeakers := s.baselineSpeakers
	s.store.ReplaceData(outcome.Data)
	s.baseline = s.reconstructBaseline(outcome.Data)
	s.baselineSpeakers = speakers
	s.surfaces = make(map[int][]segment.Segment)
	s.dirty = false
	s.searcher.Reindex(outcome.Data)
	// The store now shares the swept data, so the payload is cloned before
	// the lock drops.
	payload := transcript.CloneData(outcome.Data)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := s.persist.SaveTranscript(ctx, s.TranscriptID, payload, speakers); err != nil {
		s.mu.Lock()
		s.baseline = prevBaseline
		s.baselineSpeakers = prevSpeakers
		s.dirty = true
		s.mu.Unlock()
		s.log.WithError(err).WithField("notify", req.Notify).Error("failed to save transcript")
		return fmt.Errorf("save transcript: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"changed_utterances": len(outcome.ChangedIdx),
		"speakers_changed":   speakersChanged,
		"notify":             req.Notify,
	}).Info("transcript saved")
	return nil
}

func (s *Session) autosaveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if !s.autosaveDue() {
				continue
			}
			err := s.Save(false)
			switch {
			case err == nil:
				s.log.Info("autosave complete")
			case errors.Is(err, reconcile.ErrNoChanges), errors.Is(err, reconcile.ErrPipelineClosed):
				// nothing to do
			default:
				// Autosave failures stay silent for the user; the dirty
				// flag survives so the next cycle retries.
				s.log.WithError(err).Warn("autosave failed")
			}
		case <-s.stopAutosave:
			return
		}
	}
}

func (s *Session) autosaveDue() bool {
	if s.pipeline.Busy() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty && s.editing
}

// SaveTitle persists a new title, updating local state only on success.
func (s *Session) SaveTitle(ctx context.Context, title string) error {
	s.mu.Lock()
	if !s.store.Transcript().CanEdit {
		s.mu.Unlock()
		return ErrReadOnly
	}
	s.mu.Unlock()

	if err := s.persist.SaveTitle(ctx, s.TranscriptID, title); err != nil {
		return fmt.Errorf("save title: %w", err)
	}
	s.mu.Lock()
	s.store.SetTitle(title)
	s.mu.Unlock()
	return nil
}

// RenameSpeaker sets a speaker display name and immediately persists, the
// same way the viewer saved right after a rename was confirmed.
func (s *Session) RenameSpeaker(id, name string) error {
	s.mu.Lock()
	if !s.store.Transcript().CanEdit {
		s.mu.Unlock()
		return ErrReadOnly
	}
	if err := s.store.SetSpeakerName(id, name); err != nil {
		s.mu.Unlock()
		return err
	}
	s.dirty = true
	s.mu.Unlock()

	if err := s.Save(true); err != nil && !errors.Is(err, reconcile.ErrNoChanges) {
		return err
	}
	return nil
}

// Locate maps a playback time onto the active utterance and word.
func (s *Session) Locate(timeMs int64) playback.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return playback.Locate(s.store.Transcript().Data, s.highlights, timeMs, s.selecting)
}

// DeleteTranscript removes the whole transcript. The session should be
// closed afterwards; its state is meaningless once the record is gone.
func (s *Session) DeleteTranscript(ctx context.Context) error {
	s.mu.Lock()
	canEdit := s.store.Transcript().CanEdit
	s.mu.Unlock()
	if !canEdit {
		return ErrReadOnly
	}
	if err := s.persist.DeleteTranscript(ctx, s.TranscriptID); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	s.log.Info("transcript deleted")
	return nil
}
