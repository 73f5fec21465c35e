// Package render projects the canonical transcript into utterance views: a
// typed segment surface plus display metadata. Rendering is a pure function
// of its inputs, so re-rendering after any mutation is always safe.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Mezsondra/transkribe/internal/highlight"
	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/models"
)

// TimestampMode controls which timestamp labels are visible. Switching the
// mode is a visibility toggle on the already-rendered view; it never changes
// the segments themselves.
type TimestampMode string

const (
	ModeUtterance TimestampMode = "utterance"
	ModeSentence  TimestampMode = "sentence"
	ModeNone      TimestampMode = "none"
)

// ParseMode maps a raw mode string onto a known mode, defaulting to
// per-utterance timestamps exactly like the viewer did.
func ParseMode(s string) TimestampMode {
	switch TimestampMode(s) {
	case ModeSentence, ModeNone:
		return TimestampMode(s)
	default:
		return ModeUtterance
	}
}

// speakerPalette is the fixed speaker color palette; assignment follows
// first-seen speaker order and cycles with wraparound.
var speakerPalette = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#d946ef", "#14b8a6",
}

var sentenceEndRe = regexp.MustCompile(`[.?!]$`)

// UtteranceView is one rendered speaker turn.
type UtteranceView struct {
	Index          int               `json:"index"`
	Speaker        string            `json:"speaker"`
	DisplaySpeaker string            `json:"display_speaker"`
	AvatarInitial  string            `json:"avatar_initial"`
	SpeakerColor   string            `json:"speaker_color"`
	Start          int64             `json:"start"`
	End            int64             `json:"end"`
	Timestamp      string            `json:"timestamp"`
	Edited         bool              `json:"edited"`
	Segments       []segment.Segment `json:"segments"`
	HTML           string            `json:"html"`
}

// View is the full rendered transcript surface.
type View struct {
	Title      string          `json:"title"`
	Date       string          `json:"date,omitempty"`
	Mode       TimestampMode   `json:"timestamp_mode"`
	Utterances []UtteranceView `json:"utterances"`
}

// SpeakerColors assigns palette colors to speaker ids in first-seen order.
func SpeakerColors(utterances []models.Utterance) map[string]string {
	colors := make(map[string]string)
	i := 0
	for _, u := range utterances {
		if u.Speaker == "" {
			continue
		}
		if _, ok := colors[u.Speaker]; !ok {
			colors[u.Speaker] = speakerPalette[i%len(speakerPalette)]
			i++
		}
	}
	return colors
}

// FormatClock renders a millisecond offset as MM:SS, or HH:MM:SS past an
// hour.
func FormatClock(ms int64) string {
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// Render builds the view for a transcript. Time-based highlights are applied
// to word surfaces here; text-based highlights already live inline in edited
// canonical text and come out of marker parsing.
func Render(t *models.Transcript, speakerMap map[string]string, highlights []models.Highlight, mode TimestampMode) View {
	colors := SpeakerColors(t.Data.Utterances)
	view := View{
		Title:      t.Title,
		Date:       t.Date,
		Mode:       mode,
		Utterances: make([]UtteranceView, 0, len(t.Data.Utterances)),
	}
	for i, u := range t.Data.Utterances {
		display := speakerMap[u.Speaker]
		if display == "" {
			display = "Speaker " + u.Speaker
		}
		segs := UtteranceSegments(u, highlights)
		view.Utterances = append(view.Utterances, UtteranceView{
			Index:          i,
			Speaker:        u.Speaker,
			DisplaySpeaker: display,
			AvatarInitial:  initial(display),
			SpeakerColor:   colors[u.Speaker],
			Start:          u.Start,
			End:            u.End,
			Timestamp:      FormatClock(u.Start),
			Edited:         u.IsEdited,
			Segments:       segs,
			HTML:           HTML(segs),
		})
	}
	return view
}

// UtteranceSegments builds the surface for a single utterance: marker
// parsing for edited or word-less utterances, timed word units with
// sentence-boundary labels (a sentence ends at '.', '?' or '!') plus
// time-based highlight runs otherwise.
func UtteranceSegments(u models.Utterance, highlights []models.Highlight) []segment.Segment {
	if u.IsEdited || len(u.Words) == 0 {
		return segment.ParseMarked(u.Text)
	}
	segs := make([]segment.Segment, 0, len(u.Words)*2+2)
	newSentence := true
	for _, w := range u.Words {
		if newSentence {
			segs = append(segs, segment.Label("["+FormatClock(w.Start)+"]"), segment.Text(" "))
			newSentence = false
		}
		segs = append(segs, segment.Word(w.Text, w.Start, w.End), segment.Text(" "))
		if sentenceEndRe.MatchString(w.Text) {
			newSentence = true
		}
	}
	return highlight.WrapTimeRuns(segs, highlights)
}

func initial(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return ""
}

// HTML serializes a segment surface to markup. Labels always carry the
// sentence-timestamp class; visibility per timestamp mode is a styling
// concern, so mode switches never touch the markup.
func HTML(segs []segment.Segment) string {
	var b strings.Builder
	writeHTML(&b, segs)
	return strings.TrimSpace(b.String())
}

func writeHTML(b *strings.Builder, segs []segment.Segment) {
	for _, s := range segs {
		switch s.Kind {
		case segment.KindText:
			b.WriteString(segment.EscapeHTML(s.Text))
		case segment.KindLabel:
			b.WriteString(`<span class="sentence-timestamp">`)
			b.WriteString(segment.EscapeHTML(s.Text))
			b.WriteString(`</span>`)
		case segment.KindWord:
			fmt.Fprintf(b, `<span class="word" data-start="%d" data-end="%d">`, s.Start, s.End)
			b.WriteString(segment.EscapeHTML(s.Text))
			b.WriteString(`</span>`)
		case segment.KindMark:
			b.WriteString(`<mark class="word-based-highlight"`)
			if s.HighlightID != "" {
				fmt.Fprintf(b, ` data-highlight-id="%s"`, segment.EscapeHTML(s.HighlightID))
			}
			fmt.Fprintf(b, ` style="background-color: %s">`, segment.EscapeHTML(highlight.NormalizeColor(s.Color)))
			writeHTML(b, s.Children)
			b.WriteString(`</mark>`)
		}
	}
}
