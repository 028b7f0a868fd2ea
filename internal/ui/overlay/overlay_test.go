package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestPlace(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		s     string
		col   int
		width int
		want  string
	}{
		{"middle", "abcdefgh", "XY", 3, 8, "abcXYfgh"},
		{"pads short line", "ab", "XY", 4, 6, "ab  XY"},
		{"start", "abcdef", "XYZ", 0, 6, "XYZdef"},
		{"cut at width", "abcdef", "XYZ", 4, 6, "abcdXY"},
		{"styled base", "\x1b[1mabcdef\x1b[0m", "X", 2, 6, "abXdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(Place(tt.line, tt.s, tt.col, tt.width))
			if got != tt.want {
				t.Errorf("Place() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCenter(t *testing.T) {
	base := strings.Join([]string{"..........", "..........", "..........", ".........."}, "\n")
	got := ansi.Strip(Center(base, "ab\ncd", 10, 4))
	want := strings.Join([]string{"..........", "....ab....", "....cd....", ".........."}, "\n")
	if got != want {
		t.Errorf("Center() =\n%s\nwant\n%s", got, want)
	}
}

func TestCenter_PadsAndClips(t *testing.T) {
	got := Center("x", "1\n2\n3\n4", 3, 2)
	lines := strings.Split(ansi.Strip(got), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "x1 " || lines[1] != " 2 " {
		t.Errorf("Center() = %q", lines)
	}

	if Center("x", "y", 0, 2) != "" {
		t.Error("zero width should render nothing")
	}
}
