package render

import (
	"strings"

	"github.com/Mezsondra/transkribe/internal/segment"
)

// CopyOptions controls copy-text composition. Utterance timestamps become a
// leading "[MM:SS]" per line; sentence timestamps are the inline labels,
// which are otherwise always excluded from extracted text.
type CopyOptions struct {
	IncludeUtteranceTimestamps bool
	IncludeSentenceTimestamps  bool
}

// CopyOptionsForMode derives copy options from the active timestamp mode,
// matching what the viewer showed on screen at the time of the copy.
func CopyOptionsForMode(mode TimestampMode) CopyOptions {
	return CopyOptions{
		IncludeUtteranceTimestamps: mode == ModeUtterance,
		IncludeSentenceTimestamps:  mode == ModeSentence,
	}
}

// CopyText composes the plain-text form of a rendered view, one
// whitespace-normalized line per utterance with optional timestamp and
// "Speaker:" prefixes. Utterances whose content text is empty are skipped.
func CopyText(view View, opts CopyOptions) string {
	var lines []string
	for _, u := range view.Utterances {
		text := extractText(u.Segments, opts.IncludeSentenceTimestamps)
		text = segment.NormalizeSpace(text)
		if text == "" {
			continue
		}
		var parts []string
		if opts.IncludeUtteranceTimestamps && u.Timestamp != "" {
			parts = append(parts, "["+u.Timestamp+"]")
		}
		if u.DisplaySpeaker != "" {
			parts = append(parts, u.DisplaySpeaker+":")
		}
		parts = append(parts, text)
		lines = append(lines, segment.NormalizeSpace(strings.Join(parts, " ")))
	}
	return strings.Join(lines, "\n")
}

func extractText(segs []segment.Segment, includeLabels bool) string {
	var b strings.Builder
	writeText(&b, segs, includeLabels)
	return b.String()
}

func writeText(b *strings.Builder, segs []segment.Segment, includeLabels bool) {
	for _, s := range segs {
		switch s.Kind {
		case segment.KindLabel:
			if includeLabels {
				b.WriteString(s.Text)
				b.WriteString(" ")
			}
		case segment.KindMark:
			writeText(b, s.Children, includeLabels)
		default:
			b.WriteString(s.Text)
		}
	}
}
