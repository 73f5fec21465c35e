package transcript

import (
	"errors"
	"testing"

	"github.com/Mezsondra/transkribe/models"
)

func sampleTranscript() *models.Transcript {
	return &models.Transcript{
		Title:   "Weekly sync",
		CanEdit: true,
		Data: models.TranscriptData{
			Utterances: []models.Utterance{
				{
					Speaker: "A", Start: 0, End: 2000,
					Words: []models.Word{
						{Text: "Hello", Start: 0, End: 500},
						{Text: "there.", Start: 600, End: 1100},
					},
				},
				{
					Speaker: "B", Start: 2100, End: 4000,
					Text: "Edited line", IsEdited: true,
				},
			},
		},
	}
}

func TestLoadRejectsInvalidShape(t *testing.T) {
	if _, err := Load(nil); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("Load(nil) err = %v, want ErrInvalidShape", err)
	}
	if _, err := Load(&models.Transcript{}); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("Load(empty) err = %v, want ErrInvalidShape", err)
	}
}

func TestLoadDefaultsSpeakers(t *testing.T) {
	raw := sampleTranscript()
	s, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := s.SpeakerMap()
	if m["A"] != "Speaker A" || m["B"] != "Speaker B" {
		t.Errorf("speaker map = %v, want default display names", m)
	}
}

func TestLoadRegeneratesUneditedText(t *testing.T) {
	raw := sampleTranscript()
	raw.Data.Utterances[0].Text = "stale text"
	s, err := Load(raw)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	u, _ := s.Utterance(0)
	if u.Text != "Hello there." {
		t.Errorf("unedited text = %q, want regenerated from words", u.Text)
	}
	// Edited text is the single source of truth and must survive.
	u2, _ := s.Utterance(1)
	if u2.Text != "Edited line" {
		t.Errorf("edited text = %q, want untouched", u2.Text)
	}
}

func TestSetUtteranceText(t *testing.T) {
	s, _ := Load(sampleTranscript())
	if err := s.SetUtteranceText(0, "New words"); err != nil {
		t.Fatalf("SetUtteranceText: %v", err)
	}
	u, _ := s.Utterance(0)
	if !u.IsEdited || u.Text != "New words" {
		t.Errorf("utterance = %+v, want edited with new text", u)
	}
	if err := s.SetUtteranceText(99, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("out of range err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSetSpeakerName(t *testing.T) {
	s, _ := Load(sampleTranscript())
	if err := s.SetSpeakerName("A", "Alice"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := s.SetSpeakerName("B", "Alice"); !errors.Is(err, ErrDuplicateSpeaker) {
		t.Errorf("duplicate rename err = %v, want ErrDuplicateSpeaker", err)
	}
	// Renaming a speaker to its own current name is not a collision.
	if err := s.SetSpeakerName("A", "Alice"); err != nil {
		t.Errorf("self rename err = %v, want nil", err)
	}
	if err := s.SetSpeakerName("A", "   "); err == nil {
		t.Error("blank rename succeeded, want error")
	}
}

func TestSameSpeakerMap(t *testing.T) {
	a := map[string]string{"A": "Alice", "B": "Bob"}
	b := map[string]string{"A": "Alice", "B": "Bob"}
	if !SameSpeakerMap(a, b) {
		t.Error("identical maps reported different")
	}
	b["B"] = "Bert"
	if SameSpeakerMap(a, b) {
		t.Error("different maps reported same")
	}
}

func TestCloneDataIsDeep(t *testing.T) {
	raw := sampleTranscript()
	clone := CloneData(raw.Data)
	clone.Utterances[0].Words[0].Text = "changed"
	if raw.Data.Utterances[0].Words[0].Text == "changed" {
		t.Error("clone shares word storage with original")
	}
}
