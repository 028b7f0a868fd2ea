package render

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean string unchanged", "Blue in Green", "Blue in Green"},
		{"control characters removed", "Blue\x00 in\x1b Green", "Blue in Green"},
		{"tab kept", "a\tb", "a\tb"},
		{"invalid utf8 dropped", "caf\xe9", "caf"},
		{"nbsp becomes space", "Lo\u00a0Fi", "Lo Fi"},
		{"wide characters kept", "日本語", "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncation with ellipsis", "hello world", 8, "hello w…"},
		{"zero width", "hello", 0, ""},
		{"empty string", "", 10, ""},
		{"wide characters", "日本語テキスト", 7, "日本語…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxWidth); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 4, "abc…"},
		{"", 3, "   "},
	}

	for _, tt := range tests {
		if got := Fit(tt.input, tt.width); got != tt.want {
			t.Errorf("Fit(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}

func TestRow(t *testing.T) {
	if got := Row("left", "right", 12); got != "left   right" {
		t.Errorf("Row() = %q", got)
	}
	if got := Row("left", "right", 3); got != "left right" {
		t.Errorf("Row() too narrow = %q, want single space gap", got)
	}

	styled := lipgloss.NewStyle().Bold(true).Render("left")
	if got := lipgloss.Width(Row(styled, "right", 12)); got != 12 {
		t.Errorf("Row() with styled text width = %d, want 12", got)
	}
}
