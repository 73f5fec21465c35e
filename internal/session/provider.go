package session

import (
	"context"
	"fmt"

	"github.com/Mezsondra/transkribe/internal/render"
	"github.com/Mezsondra/transkribe/internal/transcript"
	"github.com/Mezsondra/transkribe/models"
)

// Translate fetches a translation and renders it as a read-only parallel
// view. The translated rows are kept so copy-text can target them; they are
// never merged into the editable transcript.
func (s *Session) Translate(ctx context.Context, targetLang string) (render.View, error) {
	s.mu.Lock()
	speakers := s.store.SpeakerMap()
	s.mu.Unlock()

	rows, err := s.provider.Translate(ctx, s.TranscriptID, targetLang, speakers)
	if err != nil {
		return render.View{}, fmt.Errorf("translate: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.translation = rows
	view := render.RenderTranslation(s.store.Transcript().Data.Utterances, rows)
	view.Title = s.store.Transcript().Title
	return view, nil
}

// Summarize fetches the AI summary and chapter list and caches it on the
// transcript record for the rest of the session.
func (s *Session) Summarize(ctx context.Context) (*models.SummaryResult, error) {
	s.mu.Lock()
	t := s.store.Transcript()
	if t.Summary != nil && *t.Summary != "" {
		cached := &models.SummaryResult{Summary: *t.Summary, Chapters: t.Chapters}
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	result, err := s.provider.Summarize(ctx, s.TranscriptID)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	s.mu.Lock()
	t = s.store.Transcript()
	t.Summary = &result.Summary
	t.Chapters = result.Chapters
	s.mu.Unlock()
	return result, nil
}

// ExportOptions selects the export format and content toggles.
type ExportOptions struct {
	Format            string
	IncludeTimestamps bool
	IncludeSpeakers   bool
	IncludeHighlights bool
	ParagraphMode     string
}

// Export sends the current transcript to the export renderer with speaker
// display names already applied, so the renderer never resolves speakers.
func (s *Session) Export(ctx context.Context, opts ExportOptions) (*models.ExportResult, error) {
	s.mu.Lock()
	t := s.store.Transcript()
	speakers := s.store.SpeakerMap()
	data := transcript.CloneData(t.Data)
	for i := range data.Utterances {
		u := &data.Utterances[i]
		if display := speakers[u.Speaker]; display != "" {
			u.Speaker = display
		} else {
			u.Speaker = "Speaker " + u.Speaker
		}
	}
	req := models.ExportRequest{
		TranscriptID:      s.TranscriptID,
		Format:            opts.Format,
		IncludeTimestamps: opts.IncludeTimestamps,
		IncludeSpeakers:   opts.IncludeSpeakers,
		IncludeHighlights: opts.IncludeHighlights,
		ParagraphMode:     opts.ParagraphMode,
		TimestampMode:     string(s.mode),
		TranscriptData:    data,
		Title:             t.Title,
	}
	s.mu.Unlock()

	result, err := s.provider.Export(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return result, nil
}

// CopyTarget selects which pane copy-text reads from.
type CopyTarget string

const (
	CopyTranscript  CopyTarget = "original"
	CopyTranslation CopyTarget = "translation"
)

// CopyText composes the plain-text form of the requested pane using the
// session's timestamp mode, one line per utterance with speaker prefixes.
// The translation pane always carries utterance timestamps.
func (s *Session) CopyText(target CopyTarget) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch target {
	case CopyTranslation:
		if s.translation == nil {
			return "", ErrNoTranslation
		}
		view := render.RenderTranslation(s.store.Transcript().Data.Utterances, s.translation)
		return render.CopyText(view, render.CopyOptions{IncludeUtteranceTimestamps: true}), nil
	default:
		view := render.Render(s.store.Transcript(), s.store.SpeakerMap(), s.highlights, s.mode)
		return render.CopyText(view, render.CopyOptionsForMode(s.mode)), nil
	}
}
