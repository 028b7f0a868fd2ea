// Package overlay draws boxes over an already rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Center draws box over the middle of base. base is padded to
// width x height first; box lines that fall outside are dropped.
// ANSI sequences in either string are preserved.
func Center(base, box string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := strings.Split(base, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		boxWidth = max(boxWidth, ansi.StringWidth(l))
	}
	top := max((height-len(boxLines))/2, 0)
	left := max((width-boxWidth)/2, 0)

	for i, l := range boxLines {
		row := top + i
		if row >= height {
			break
		}
		lines[row] = Place(lines[row], l, left, width)
	}
	return strings.Join(lines, "\n")
}

// Place writes s over line starting at column col, keeping the parts
// of line on both sides. The result is cut to width.
func Place(line, s string, col, width int) string {
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	end := col + ansi.StringWidth(s)
	out := ansi.Cut(line, 0, col) + s
	if end < width {
		out += ansi.Cut(line, end, width)
	}
	return ansi.Truncate(out, width, "")
}
