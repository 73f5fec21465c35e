// Package store persists transcripts and highlights through the Supabase
// PostgREST API.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"github.com/Mezsondra/transkribe/models"
)

const (
	transcriptTable = "transcripts"
	highlightTable  = "highlights"
)

// ErrNotFound reports a missing transcript or highlight record.
var ErrNotFound = errors.New("store: record not found")

// Supabase talks to the transcripts and highlights tables. The `data`,
// `speaker_map` and `chapters` columns are JSONB; PostgREST handles the
// nested marshaling.
type Supabase struct {
	client *supa.Client
	log    *logrus.Logger
}

// New builds the Supabase client. The service key doubles as the bearer
// token for PostgREST requests.
func New(supabaseURL, serviceKey string, log *logrus.Logger) (*Supabase, error) {
	if supabaseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("store: supabase url and service key must be set")
	}
	client, err := supa.NewClient(supabaseURL, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("store: failed to initialize client: %w", err)
	}
	return &Supabase{client: client, log: log}, nil
}

// LoadTranscript fetches one transcript record by id.
func (s *Supabase) LoadTranscript(ctx context.Context, id uuid.UUID) (*models.Transcript, error) {
	var rows []models.Transcript
	_, err := s.client.From(transcriptTable).
		Select("*", "", false).
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("store: load transcript %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: transcript %s", ErrNotFound, id)
	}
	return &rows[0], nil
}

// SaveTranscript writes the utterance payload and speaker map in one update.
func (s *Supabase) SaveTranscript(ctx context.Context, id uuid.UUID, data models.TranscriptData, speakers map[string]string) error {
	update := map[string]interface{}{
		"data":        data,
		"speaker_map": speakers,
	}
	var rows []models.Transcript
	_, err := s.client.From(transcriptTable).
		Update(update, "", "").
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("store: save transcript %s: %w", id, err)
	}
	s.log.WithField("transcript_id", id.String()).Debug("transcript persisted")
	return nil
}

// SaveTitle updates only the title column.
func (s *Supabase) SaveTitle(ctx context.Context, id uuid.UUID, title string) error {
	var rows []models.Transcript
	_, err := s.client.From(transcriptTable).
		Update(map[string]interface{}{"title": title}, "", "").
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("store: save title for %s: %w", id, err)
	}
	return nil
}

// CreateHighlight inserts a highlight with a client-minted id and returns it.
func (s *Supabase) CreateHighlight(ctx context.Context, h models.Highlight) (uuid.UUID, error) {
	h.ID = uuid.New()
	var rows []models.Highlight
	_, err := s.client.From(highlightTable).
		Insert(h, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return uuid.Nil, fmt.Errorf("store: create highlight: %w", err)
	}
	if len(rows) == 0 {
		return uuid.Nil, fmt.Errorf("store: no record returned after highlight insert")
	}
	return rows[0].ID, nil
}

// ListHighlights fetches all highlights of one transcript.
func (s *Supabase) ListHighlights(ctx context.Context, transcriptID uuid.UUID) ([]models.Highlight, error) {
	var rows []models.Highlight
	_, err := s.client.From(highlightTable).
		Select("*", "", false).
		Eq("transcript_id", transcriptID.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("store: list highlights for %s: %w", transcriptID, err)
	}
	return rows, nil
}

// DeleteHighlight removes one highlight record.
func (s *Supabase) DeleteHighlight(ctx context.Context, id uuid.UUID) error {
	var rows []models.Highlight
	_, err := s.client.From(highlightTable).
		Delete("", "").
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("store: delete highlight %s: %w", id, err)
	}
	return nil
}

// DeleteTranscript removes a transcript and its highlights. Highlights go
// first so a failure never leaves them pointing at a missing transcript.
func (s *Supabase) DeleteTranscript(ctx context.Context, id uuid.UUID) error {
	var highlights []models.Highlight
	_, err := s.client.From(highlightTable).
		Delete("", "").
		Eq("transcript_id", id.String()).
		ExecuteTo(&highlights)
	if err != nil {
		return fmt.Errorf("store: delete highlights for %s: %w", id, err)
	}
	var rows []models.Transcript
	_, err = s.client.From(transcriptTable).
		Delete("", "").
		Eq("id", id.String()).
		ExecuteTo(&rows)
	if err != nil {
		return fmt.Errorf("store: delete transcript %s: %w", id, err)
	}
	s.log.WithField("transcript_id", id.String()).Info("transcript deleted")
	return nil
}
