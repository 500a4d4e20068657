package layout

import (
	"strings"
)

// Wrap breaks text into lines no wider than maxWidth in style s. Explicit
// newlines start new paragraphs; an empty paragraph yields an empty line.
// Words wider than the line are broken between characters.
func Wrap(text string, s Style, maxWidth float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrapParagraph(para, s, maxWidth)...)
	}
	return out
}

func wrapParagraph(para string, s Style, maxWidth float64) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}
	spaceW := s.Width(" ")

	var lines []string
	var line strings.Builder
	lineW := 0.0
	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
		}
		line.Reset()
		lineW = 0
	}

	for _, word := range words {
		w := s.Width(word)
		if line.Len() > 0 && lineW+spaceW+w <= maxWidth {
			line.WriteByte(' ')
			line.WriteString(word)
			lineW += spaceW + w
			continue
		}
		flush()
		if w <= maxWidth {
			line.WriteString(word)
			lineW = w
			continue
		}
		// character-level fallback
		for _, r := range word {
			rw := s.Width(string(r))
			if line.Len() > 0 && lineW+rw > maxWidth {
				flush()
			}
			line.WriteRune(r)
			lineW += rw
		}
	}
	flush()
	return lines
}
