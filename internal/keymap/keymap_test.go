package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
)

func TestByContextPlaybackBindings(t *testing.T) {
	playbackBindings := ByContext(ContextPlayback)

	expectedActions := []Action{
		ActionPlayPause,
		ActionNextTrack,
		ActionPrevTrack,
		ActionSeekForward,
		ActionSeekBack,
		ActionCycleRepeat,
	}

	for _, action := range expectedActions {
		found := false
		for _, b := range playbackBindings {
			if b.Action == action {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected action %q in playback bindings", action)
		}
	}
}

func TestByContextMultiple(t *testing.T) {
	got := ByContext(ContextGlobal, ContextSearch)
	for _, b := range got {
		if b.Context != ContextGlobal && b.Context != ContextSearch {
			t.Errorf("unexpected context %q", b.Context)
		}
	}
	if len(got) != len(ByContext(ContextGlobal))+len(ByContext(ContextSearch)) {
		t.Errorf("ByContext(global, search) returned %d bindings", len(got))
	}
}

func TestBindingsHaveRequiredFields(t *testing.T) {
	validContexts := map[string]bool{
		ContextGlobal:   true,
		ContextPlayback: true,
		ContextBrowser:  true,
		ContextSearch:   true,
	}

	for i, b := range Bindings {
		if b.Action == "" {
			t.Errorf("binding[%d] has empty Action", i)
		}
		if len(b.Keys) == 0 {
			t.Errorf("binding[%d] (%s) has no Keys", i, b.Action)
		}
		if b.Description == "" {
			t.Errorf("binding[%d] (%s) has empty Description", i, b.Action)
		}
		if !validContexts[b.Context] {
			t.Errorf("binding[%d] (%s) has invalid context: %q", i, b.Action, b.Context)
		}
	}
}

func TestBindingKey(t *testing.T) {
	b := Binding{ActionPlayPause, []string{" "}, "Play/pause", ContextPlayback}
	k := b.Key()

	if got := k.Help().Key; got != "space" {
		t.Errorf("help key = %q, want %q", got, "space")
	}
	if got := k.Help().Desc; got != "Play/pause" {
		t.Errorf("help desc = %q, want %q", got, "Play/pause")
	}
	if !key.Matches(keyMsg(" "), k) {
		t.Error("binding should match space")
	}
}

type keyMsg string

func (k keyMsg) String() string { return string(k) }

func TestHelp(t *testing.T) {
	h := NewHelp(ContextPlayback, ContextBrowser, "unknown")

	if len(h.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(h.Groups))
	}
	if got := len(h.ShortHelp()); got != 4 {
		t.Errorf("ShortHelp() returned %d bindings, want 4", got)
	}
	full := h.FullHelp()
	if len(full) != 2 || len(full[0]) != len(ByContext(ContextPlayback)) {
		t.Errorf("FullHelp() shape = %d groups", len(full))
	}
}
