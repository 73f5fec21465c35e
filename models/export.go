package models

import (
	"github.com/google/uuid"
)

// ExportRequest is forwarded to the export rendering service. TranscriptData
// carries the current utterances with the speaker map already applied so the
// renderer never needs to resolve speakers itself.
type ExportRequest struct {
	TranscriptID      uuid.UUID      `json:"transcript_id"`
	Format            string         `json:"format"`
	IncludeTimestamps bool           `json:"include_timestamps"`
	IncludeSpeakers   bool           `json:"include_speakers"`
	IncludeHighlights bool           `json:"include_highlights"`
	ParagraphMode     string         `json:"paragraph_mode"`
	TimestampMode     string         `json:"timestamp_mode,omitempty"`
	TranscriptData    TranscriptData `json:"transcript_data"`
	Title             string         `json:"title"`
}

// ExportResult is either inline content with a filename, or a URL the caller
// should download from.
type ExportResult struct {
	Content       string `json:"content,omitempty"`
	Filename      string `json:"filename,omitempty"`
	DownloadURL   string `json:"download_url,omitempty"`
	IsDownloadURL bool   `json:"is_download_url,omitempty"`
	Message       string `json:"message,omitempty"`
}
