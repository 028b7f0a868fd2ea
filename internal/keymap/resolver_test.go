//nolint:goconst // test cases intentionally repeat strings for readability
package keymap

import (
	"slices"
	"testing"
)

func TestResolver_Resolve(t *testing.T) {
	bindings := []Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", ContextGlobal},
		{ActionPlayPause, []string{" "}, "Play/pause", ContextPlayback},
		{ActionMoveUp, []string{"k", "up"}, "Move up", ContextBrowser},
		{ActionMoveDown, []string{"j", "down"}, "Move down", ContextBrowser},
	}

	r := NewResolver(bindings)

	tests := []struct {
		key      string
		expected Action
	}{
		{"q", ActionQuit},
		{"ctrl+c", ActionQuit},
		{" ", ActionPlayPause},
		{"k", ActionMoveUp},
		{"up", ActionMoveUp},
		{"j", ActionMoveDown},
		{"down", ActionMoveDown},
		{"unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			result := r.Resolve(tt.key)
			if result != tt.expected {
				t.Errorf("Resolve(%q) = %q, want %q", tt.key, result, tt.expected)
			}
		})
	}
}

func TestResolver_FirstBindingWins(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionSearchAccept, []string{"enter"}, "Show results", ContextSearch},
		{ActionSelect, []string{"enter"}, "Play from here", ContextBrowser},
	})

	if got := r.Resolve("enter"); got != ActionSearchAccept {
		t.Errorf("Resolve(enter) = %q, want %q", got, ActionSearchAccept)
	}
}

func TestResolver_KeysFor(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", ContextGlobal},
		{ActionQuit, []string{"ctrl+c"}, "Quit", ContextSearch},
		{ActionMoveUp, []string{"k", "up"}, "Move up", ContextBrowser},
	})

	tests := []struct {
		action   Action
		expected []string
	}{
		{ActionQuit, []string{"q", "ctrl+c"}},
		{ActionMoveUp, []string{"k", "up"}},
		{Action("unknown"), nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			result := r.KeysFor(tt.action)
			if !slices.Equal(result, tt.expected) {
				t.Errorf("KeysFor(%q) = %v, want %v", tt.action, result, tt.expected)
			}
		})
	}
}

func TestResolver_WithAllBindings(t *testing.T) {
	r := NewResolver(ByContext(ContextGlobal, ContextPlayback, ContextBrowser))

	tests := []struct {
		key      string
		expected Action
	}{
		{"q", ActionQuit},
		{" ", ActionPlayPause},
		{"n", ActionNextTrack},
		{"r", ActionCycleRepeat},
		{"enter", ActionSelect},
		{"tab", ActionNextGenre},
		{"/", ActionSearch},
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.key); got != tt.expected {
			t.Errorf("Resolve(%q) = %q, want %q", tt.key, got, tt.expected)
		}
	}
}
