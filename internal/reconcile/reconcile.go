// Package reconcile turns an edited surface back into canonical text and
// decides which utterances actually changed. It is invoked for every
// utterance on each save, so reconstruction must be idempotent: re-running
// on unchanged content yields byte-identical canonical text.
package reconcile

import (
	"github.com/Mezsondra/transkribe/internal/highlight"
	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/models"
)

// Reconstruct walks a surface in document order and rebuilds canonical text:
// timestamp labels are dropped at any nesting depth, mark wrappers become
// inline highlight markers (color normalized to 6-hex-digit form) around the
// label-free text inside them, and everything else contributes its text.
// The result is whitespace-normalized.
func Reconstruct(segs []segment.Segment) string {
	var b []byte
	appendCanonical(&b, segs)
	return segment.NormalizeSpace(string(b))
}

func appendCanonical(out *[]byte, segs []segment.Segment) {
	for _, s := range segs {
		switch s.Kind {
		case segment.KindLabel:
			// never content
		case segment.KindMark:
			inner := segment.PlainText(s.Children)
			*out = append(*out, segment.Marker(highlight.NormalizeColor(s.Color), inner)...)
		default:
			*out = append(*out, s.Text...)
		}
	}
}

// SurfaceFunc supplies the current surface of utterance i. For utterances
// the user never touched this is the freshly rendered surface, which makes
// the sweep a no-op for them.
type SurfaceFunc func(i int, u models.Utterance) []segment.Segment

// Outcome reports a sweep over the whole transcript.
type Outcome struct {
	Data       models.TranscriptData
	Changed    bool
	ChangedIdx []int
}

// Sweep reconstructs every utterance and compares against the baseline text
// that was canonical at the start of the edit session (not the live copy, so
// repeated passes in one session cannot produce false negatives). Changed
// utterances get the reconstructed text and a permanent edited flag on the
// returned working copy; the input data is not mutated.
func Sweep(data models.TranscriptData, baseline []string, surface SurfaceFunc) Outcome {
	out := Outcome{Data: cloneData(data)}
	for i, u := range data.Utterances {
		text := Reconstruct(surface(i, u))
		base := ""
		if i < len(baseline) {
			base = baseline[i]
		}
		if text != base {
			out.Data.Utterances[i].Text = text
			out.Data.Utterances[i].IsEdited = true
			out.Changed = true
			out.ChangedIdx = append(out.ChangedIdx, i)
		}
	}
	return out
}

func cloneData(d models.TranscriptData) models.TranscriptData {
	out := models.TranscriptData{Utterances: make([]models.Utterance, len(d.Utterances))}
	for i, u := range d.Utterances {
		cp := u
		if u.Words != nil {
			cp.Words = make([]models.Word, len(u.Words))
			copy(cp.Words, u.Words)
		}
		out.Utterances[i] = cp
	}
	return out
}
