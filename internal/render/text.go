package render

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "…"

// Wrap breaks s into lines no wider than width as reported by measure.
// Single-line text is cut instead, with an ellipsis when asked for. A word
// wider than the box is kept whole on its own line.
func Wrap(s string, width float64, measure func(string) float64, singleLine, withEllipsis bool) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if singleLine {
		line := strings.Join(strings.Fields(s), " ")
		if measure(line) <= width {
			return []string{line}
		}
		suffix := ""
		if withEllipsis {
			suffix = ellipsis
		}
		for len(line) > 0 {
			_, size := utf8.DecodeLastRuneInString(line)
			line = line[:len(line)-size]
			if measure(line+suffix) <= width {
				break
			}
		}
		return []string{strings.TrimRight(line, " ") + suffix}
	}

	var lines []string
	cur := ""
	for _, w := range strings.Fields(s) {
		next := w
		if cur != "" {
			next = cur + " " + w
		}
		if cur != "" && measure(next) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// approxMeasure estimates text width without font metrics, for the SVG
// document where the viewer lays text out itself.
func approxMeasure(fontSize, letterSpacing float64) func(string) float64 {
	return func(s string) float64 {
		n := float64(utf8.RuneCountInString(s))
		return n * (fontSize*0.6 + letterSpacing)
	}
}
