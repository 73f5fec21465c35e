package models

// TranslatedUtterance is one row of a translated transcript as returned by
// the translation provider. DisplaySpeaker already has the user's speaker
// map applied server-side.
type TranslatedUtterance struct {
	Start          int64  `json:"start"`
	End            int64  `json:"end"`
	Speaker        string `json:"speaker"`
	DisplaySpeaker string `json:"display_speaker"`
	Text           string `json:"text"`
}

// SummaryResult bundles the AI summary and chapter list for a transcript.
type SummaryResult struct {
	Summary  string    `json:"summary"`
	Chapters []Chapter `json:"chapters,omitempty"`
}
