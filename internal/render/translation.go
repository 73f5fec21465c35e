package render

import (
	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/models"
)

// RenderTranslation builds a read-only parallel view for a translated
// transcript. Speaker colors come from the original utterances so both
// panes agree; display names arrive pre-resolved from the translation
// service. The result is never merged into the editable transcript.
func RenderTranslation(original []models.Utterance, translated []models.TranslatedUtterance) View {
	colors := SpeakerColors(original)
	view := View{
		Mode:       ModeUtterance,
		Utterances: make([]UtteranceView, 0, len(translated)),
	}
	for i, tu := range translated {
		segs := []segment.Segment{segment.Text(tu.Text)}
		view.Utterances = append(view.Utterances, UtteranceView{
			Index:          i,
			Speaker:        tu.Speaker,
			DisplaySpeaker: tu.DisplaySpeaker,
			AvatarInitial:  initial(tu.DisplaySpeaker),
			SpeakerColor:   colors[tu.Speaker],
			Start:          tu.Start,
			End:            tu.End,
			Timestamp:      FormatClock(tu.Start),
			Segments:       segs,
			HTML:           HTML(segs),
		})
	}
	return view
}
