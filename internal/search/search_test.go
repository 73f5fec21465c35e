package search

import (
	"testing"

	"github.com/Mezsondra/transkribe/models"
)

func searchData() models.TranscriptData {
	return models.TranscriptData{Utterances: []models.Utterance{
		{Text: "the cat sat on the mat"},
		{Text: `The [[HIGHLIGHT color="#ffeb3b"]]theme[[/HIGHLIGHT]] continues`, IsEdited: true},
	}}
}

func newIndexed(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine()
	e.Reindex(searchData())
	return e
}

func TestSearchMinimumLength(t *testing.T) {
	e := newIndexed(t)
	if got := e.Search("a", false); got != nil {
		t.Errorf("single-char query returned %d matches, want none", len(got))
	}
	if got := e.Search("  t  ", false); got != nil {
		t.Errorf("padded short query returned %d matches, want none", len(got))
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	e := newIndexed(t)
	matches := e.Search("THE", false)
	// "the" twice in utterance 0, "The" and "theme" in utterance 1
	// (markers are stripped from the index, so "theme" is findable).
	if len(matches) != 4 {
		t.Fatalf("got %d matches, want 4: %+v", len(matches), matches)
	}
	if matches[0].UtteranceIndex != 0 || matches[0].Start != 0 {
		t.Errorf("first match = %+v", matches[0])
	}
}

func TestSearchCaseSensitive(t *testing.T) {
	e := newIndexed(t)
	matches := e.Search("The", true)
	if len(matches) != 1 || matches[0].UtteranceIndex != 1 {
		t.Errorf("matches = %+v, want only the capitalized one", matches)
	}
}

func TestSearchOffsetsSurviveCaseFolding(t *testing.T) {
	// ẞ (3 bytes) lowercases to ß (2 bytes) and İ (2 bytes) to i (1 byte),
	// so offsets found in the lowered text drift off the original.
	text := "AẞB xy İstanbul"
	e := NewEngine()
	e.Reindex(models.TranscriptData{Utterances: []models.Utterance{{Text: text}}})

	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"after a width-changing rune", "xy", "xy"},
		{"spanning a width-changing rune", "aßb", "AẞB"},
		{"starting at a width-changing rune", "istanbul", "İstanbul"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			matches := e.Search(tc.query, false)
			if len(matches) != 1 {
				t.Fatalf("got %d matches: %+v", len(matches), matches)
			}
			got := text[matches[0].Start:matches[0].End]
			if got != tc.want {
				t.Errorf("offsets slice to %q (Start=%d End=%d), want %q",
					got, matches[0].Start, matches[0].End, tc.want)
			}
		})
	}
}

func TestNavigateWraps(t *testing.T) {
	e := newIndexed(t)
	matches := e.Search("the", false)
	if len(matches) != 4 {
		t.Fatalf("got %d matches", len(matches))
	}

	_, idx, _ := e.Current()
	if idx != 0 {
		t.Fatalf("cursor starts at %d", idx)
	}
	for i := 1; i <= 3; i++ {
		_, idx, _ = e.Navigate(true)
		if idx != i {
			t.Fatalf("forward step %d landed on %d", i, idx)
		}
	}
	if _, idx, _ = e.Navigate(true); idx != 0 {
		t.Errorf("forward past end landed on %d, want wrap to 0", idx)
	}
	if _, idx, _ = e.Navigate(false); idx != 3 {
		t.Errorf("backward past start landed on %d, want wrap to 3", idx)
	}
}

func TestNavigateEmptyResults(t *testing.T) {
	e := newIndexed(t)
	e.Search("zzzz", false)
	if _, _, ok := e.Navigate(true); ok {
		t.Error("navigate with no matches reported a match")
	}
}

func TestSearchResultCap(t *testing.T) {
	var u []models.Utterance
	for i := 0; i < 60; i++ {
		u = append(u, models.Utterance{Text: "ha ha ha ha ha ha ha ha ha ha"})
	}
	e := NewEngine()
	e.Reindex(models.TranscriptData{Utterances: u})
	if got := len(e.Search("ha", false)); got != MaxResults {
		t.Errorf("got %d matches, want capped at %d", got, MaxResults)
	}
}

func TestReplaceAll(t *testing.T) {
	data := models.TranscriptData{Utterances: []models.Utterance{
		{Text: "the cat and the dog"},
		{Text: "The end", IsEdited: true},
		{Text: "nothing relevant"},
	}}
	count := ReplaceAll(&data, "the", "a", false)
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	if data.Utterances[0].Text != "a cat and a dog" || !data.Utterances[0].IsEdited {
		t.Errorf("utterance 0 = %+v", data.Utterances[0])
	}
	if data.Utterances[1].Text != "a end" {
		t.Errorf("utterance 1 text = %q", data.Utterances[1].Text)
	}
	if data.Utterances[2].IsEdited {
		t.Error("untouched utterance marked edited")
	}
}

func TestReplaceAllCaseSensitive(t *testing.T) {
	data := models.TranscriptData{Utterances: []models.Utterance{
		{Text: "The the THE"},
	}}
	if count := ReplaceAll(&data, "the", "a", true); count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if data.Utterances[0].Text != "The a THE" {
		t.Errorf("text = %q", data.Utterances[0].Text)
	}
}

func TestReplaceAllEscapesPattern(t *testing.T) {
	data := models.TranscriptData{Utterances: []models.Utterance{
		{Text: "cost is $5.00 total"},
	}}
	if count := ReplaceAll(&data, "$5.00", "$6.00", false); count != 1 {
		t.Fatalf("count = %d, want literal match", count)
	}
	if data.Utterances[0].Text != "cost is $6.00 total" {
		t.Errorf("text = %q", data.Utterances[0].Text)
	}
}

func TestReplaceAllNoMatches(t *testing.T) {
	data := models.TranscriptData{Utterances: []models.Utterance{{Text: "hello"}}}
	if count := ReplaceAll(&data, "absent", "x", false); count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
	if data.Utterances[0].IsEdited {
		t.Error("no-op replace marked utterance edited")
	}
}
