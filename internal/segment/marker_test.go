package segment

import (
	"reflect"
	"testing"
)

func TestParseMarked(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{
			name: "plain text only",
			text: "no markers here",
			want: []Segment{Text("no markers here")},
		},
		{
			name: "single marker with surrounding text",
			text: `Hello [[HIGHLIGHT color="#ffeb3b"]]world[[/HIGHLIGHT]] end`,
			want: []Segment{
				Text("Hello "),
				Mark("#ffeb3b", "", Text("world")),
				Text(" end"),
			},
		},
		{
			name: "adjacent markers stay separate",
			text: `[[HIGHLIGHT color="#ff0000"]]one[[/HIGHLIGHT]][[HIGHLIGHT color="#00ff00"]]two[[/HIGHLIGHT]]`,
			want: []Segment{
				Mark("#ff0000", "", Text("one")),
				Mark("#00ff00", "", Text("two")),
			},
		},
		{
			name: "unterminated marker passes through as text",
			text: `before [[HIGHLIGHT color="#ffeb3b"]]dangling`,
			want: []Segment{Text(`before [[HIGHLIGHT color="#ffeb3b"]]dangling`)},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMarked(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMarked(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMarkerRoundTrip(t *testing.T) {
	original := `Hello [[HIGHLIGHT color="#ffeb3b"]]world[[/HIGHLIGHT]] again`
	segs := ParseMarked(original)

	var rebuilt string
	for _, s := range segs {
		if s.Kind == KindMark {
			rebuilt += Marker(s.Color, PlainText(s.Children))
		} else {
			rebuilt += s.Text
		}
	}
	if rebuilt != original {
		t.Errorf("round trip changed text:\n got %q\nwant %q", rebuilt, original)
	}
}

func TestStripMarkers(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{`Hello [[HIGHLIGHT color="#ffeb3b"]]world[[/HIGHLIGHT]]`, "Hello world"},
		{"no markers", "no markers"},
		{`[[HIGHLIGHT color="#ff0000"]]a[[/HIGHLIGHT]] b [[HIGHLIGHT color="#ff0000"]]c[[/HIGHLIGHT]]`, "a b c"},
	}
	for _, tt := range tests {
		if got := StripMarkers(tt.text); got != tt.want {
			t.Errorf("StripMarkers(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestNormalizeSpace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"one\ttwo\nthree", "one two three"},
		{"", ""},
		{"   ", ""},
		{"already clean", "already clean"},
	}
	for _, tt := range tests {
		if got := NormalizeSpace(tt.in); got != tt.want {
			t.Errorf("NormalizeSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainTextExcludesLabels(t *testing.T) {
	segs := []Segment{
		Label("[00:01]"),
		Text(" "),
		Word("Hello", 1000, 1400),
		Text(" "),
		Mark("#ffeb3b", "", Label("[00:02]"), Text(" "), Word("world", 1500, 1900)),
	}
	if got := PlainText(segs); NormalizeSpace(got) != "Hello world" {
		t.Errorf("PlainText = %q, want content without labels", got)
	}
}
