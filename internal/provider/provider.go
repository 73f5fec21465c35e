// Package provider is the HTTP client for the AI service that handles
// translation, summarization and export rendering. It wraps a plain JSON
// API; the session layer only sees typed results.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Mezsondra/transkribe/models"
)

const defaultTimeout = 2 * time.Minute

// Client talks to the AI service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

// New builds a client for the service at baseURL. Translation and summary
// calls can take a while on long transcripts, so the timeout is generous.
func New(baseURL string, log *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     log,
	}
}

type translateRequest struct {
	TranscriptID uuid.UUID         `json:"transcript_id"`
	TargetLang   string            `json:"target_lang"`
	SpeakerMap   map[string]string `json:"speaker_map"`
}

type translateResponse struct {
	Utterances []models.TranslatedUtterance `json:"utterances"`
}

// Translate requests a full-transcript translation. Speaker display names
// are resolved by the service so the rows come back ready to render.
func (c *Client) Translate(ctx context.Context, id uuid.UUID, targetLang string, speakers map[string]string) ([]models.TranslatedUtterance, error) {
	var resp translateResponse
	err := c.post(ctx, "/translate", translateRequest{
		TranscriptID: id,
		TargetLang:   targetLang,
		SpeakerMap:   speakers,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"transcript_id": id.String(),
		"target_lang":   targetLang,
		"utterances":    len(resp.Utterances),
	}).Info("translation received")
	return resp.Utterances, nil
}

type summarizeRequest struct {
	TranscriptID uuid.UUID `json:"transcript_id"`
}

// Summarize requests the summary and chapter list for a transcript.
func (c *Client) Summarize(ctx context.Context, id uuid.UUID) (*models.SummaryResult, error) {
	var resp models.SummaryResult
	if err := c.post(ctx, "/summarize", summarizeRequest{TranscriptID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Export sends the transcript to the export renderer. Small results come
// back inline; large ones as a download URL.
func (c *Client) Export(ctx context.Context, req models.ExportRequest) (*models.ExportResult, error) {
	var resp models.ExportResult
	if err := c.post(ctx, "/export", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("provider: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("provider: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider: %s returned %d: %s", path, resp.StatusCode, string(snippet))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("provider: decode %s response: %w", path, err)
	}
	return nil
}
