package reconcile

import (
	"testing"

	"github.com/Mezsondra/transkribe/internal/render"
	"github.com/Mezsondra/transkribe/internal/segment"
	"github.com/Mezsondra/transkribe/models"
)

func TestReconstructDropsLabels(t *testing.T) {
	segs := []segment.Segment{
		segment.Label("[00:00]"),
		segment.Text(" "),
		segment.Word("Hello", 0, 400),
		segment.Text(" "),
		segment.Word("world", 500, 900),
		segment.Text(" "),
	}
	if got := Reconstruct(segs); got != "Hello world" {
		t.Errorf("Reconstruct = %q, want %q", got, "Hello world")
	}
}

func TestReconstructEmitsMarkers(t *testing.T) {
	segs := []segment.Segment{
		segment.Text("Hello "),
		segment.Mark("#ffeb3b", "", segment.Text("world")),
	}
	want := `Hello [[HIGHLIGHT color="#ffeb3b"]]world[[/HIGHLIGHT]]`
	if got := Reconstruct(segs); got != want {
		t.Errorf("Reconstruct = %q, want %q", got, want)
	}
}

func TestReconstructDropsLabelsInsideMarks(t *testing.T) {
	segs := []segment.Segment{
		segment.Mark("#ffeb3b", "",
			segment.Label("[00:01]"),
			segment.Text(" "),
			segment.Word("bright", 1000, 1400),
		),
	}
	want := `[[HIGHLIGHT color="#ffeb3b"]] bright[[/HIGHLIGHT]]`
	if got := Reconstruct(segs); got != want {
		t.Errorf("Reconstruct = %q, want %q", got, want)
	}
}

func TestReconstructNormalizesColor(t *testing.T) {
	segs := []segment.Segment{
		segment.Mark("rgb(255, 235, 59)", "", segment.Text("glow")),
	}
	want := `[[HIGHLIGHT color="#ffeb3b"]]glow[[/HIGHLIGHT]]`
	if got := Reconstruct(segs); got != want {
		t.Errorf("Reconstruct = %q, want %q", got, want)
	}
}

func TestReconstructIdempotent(t *testing.T) {
	// Parsing the reconstructed text and reconstructing again must be a
	// fixed point, otherwise every save would rewrite every utterance.
	texts := []string{
		"plain words only",
		`Hello [[HIGHLIGHT color="#ffeb3b"]]world[[/HIGHLIGHT]]`,
		`[[HIGHLIGHT color="#ff0000"]]a[[/HIGHLIGHT]] b [[HIGHLIGHT color="#00ff00"]]c[[/HIGHLIGHT]]`,
	}
	for _, text := range texts {
		once := Reconstruct(segment.ParseMarked(text))
		twice := Reconstruct(segment.ParseMarked(once))
		if once != twice {
			t.Errorf("not idempotent for %q: %q vs %q", text, once, twice)
		}
		if once != text {
			t.Errorf("clean round trip changed %q to %q", text, once)
		}
	}
}

func renderedSurface(u models.Utterance) []segment.Segment {
	return render.UtteranceSegments(u, nil)
}

func TestSweepNoChanges(t *testing.T) {
	data := models.TranscriptData{Utterances: []models.Utterance{
		{Words: []models.Word{{Text: "Hello", Start: 0, End: 400}, {Text: "world", Start: 500, End: 900}}},
		{Text: "Edited line", IsEdited: true},
	}}
	baseline := []string{"Hello world", "Edited line"}
	outcome := Sweep(data, baseline, func(i int, u models.Utterance) []segment.Segment {
		return renderedSurface(u)
	})
	if outcome.Changed {
		t.Errorf("untouched sweep reported change at %v", outcome.ChangedIdx)
	}
}

func TestSweepDetectsEdit(t *testing.T) {
	data := models.TranscriptData{Utterances: []models.Utterance{
		{Words: []models.Word{{Text: "Hello", Start: 0, End: 400}, {Text: "world", Start: 500, End: 900}}},
		{Text: "Edited line", IsEdited: true},
	}}
	baseline := []string{"Hello world", "Edited line"}

	// The user highlighted "world" on the first utterance's surface.
	edited := []segment.Segment{
		segment.Word("Hello", 0, 400),
		segment.Text(" "),
		segment.Mark("#ffeb3b", "", segment.Word("world", 500, 900)),
	}
	outcome := Sweep(data, baseline, func(i int, u models.Utterance) []segment.Segment {
		if i == 0 {
			return edited
		}
		return renderedSurface(u)
	})

	if !outcome.Changed || len(outcome.ChangedIdx) != 1 || outcome.ChangedIdx[0] != 0 {
		t.Fatalf("outcome = %+v, want exactly utterance 0 changed", outcome.ChangedIdx)
	}
	want := `Hello [[HIGHLIGHT color="#ffeb3b"]]world[[/HIGHLIGHT]]`
	got := outcome.Data.Utterances[0]
	if got.Text != want {
		t.Errorf("canonical text = %q, want %q", got.Text, want)
	}
	if !got.IsEdited {
		t.Error("changed utterance not marked edited")
	}
	// The input data must stay untouched; only the working copy changes.
	if data.Utterances[0].IsEdited || data.Utterances[0].Text == want {
		t.Error("sweep mutated its input")
	}
}

func TestSweepWhitespaceOnlyDifference(t *testing.T) {
	data := models.TranscriptData{Utterances: []models.Utterance{
		{Text: "Edited line", IsEdited: true},
	}}
	baseline := []string{"Edited line"}
	surface := []segment.Segment{segment.Text("  Edited   line ")}
	outcome := Sweep(data, baseline, func(int, models.Utterance) []segment.Segment { return surface })
	if outcome.Changed {
		t.Error("whitespace-only difference reported as change")
	}
}
