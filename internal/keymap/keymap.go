package keymap

import "github.com/charmbracelet/bubbles/key"

// Contexts.
const (
	ContextGlobal   = "global"
	ContextPlayback = "playback"
	ContextBrowser  = "browser"
	ContextSearch   = "search"
)

// Binding maps keys to an action in a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// Bindings contains all key bindings.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", ContextGlobal},
	{ActionHelp, []string{"?"}, "Toggle help", ContextGlobal},
	{ActionSearch, []string{"/"}, "Search", ContextGlobal},
	{ActionStats, []string{"i"}, "Listening stats", ContextGlobal},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", ContextPlayback},
	{ActionNextTrack, []string{"n", "pgdown"}, "Next track", ContextPlayback},
	{ActionPrevTrack, []string{"p", "pgup"}, "Previous track", ContextPlayback},
	{ActionSeekForward, []string{"right", "l"}, "Seek +5s", ContextPlayback},
	{ActionSeekBack, []string{"left", "h"}, "Seek -5s", ContextPlayback},
	{ActionCycleRepeat, []string{"r"}, "Cycle repeat mode", ContextPlayback},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", ContextPlayback},
	{ActionVolumeDown, []string{"-"}, "Volume down", ContextPlayback},

	// Browser
	{ActionMoveUp, []string{"k", "up"}, "Move up", ContextBrowser},
	{ActionMoveDown, []string{"j", "down"}, "Move down", ContextBrowser},
	{ActionJumpStart, []string{"g", "home"}, "First song", ContextBrowser},
	{ActionJumpEnd, []string{"G", "end"}, "Last song", ContextBrowser},
	{ActionPageUp, []string{"ctrl+u"}, "Page up", ContextBrowser},
	{ActionPageDown, []string{"ctrl+d"}, "Page down", ContextBrowser},
	{ActionNextGenre, []string{"tab"}, "Next genre", ContextBrowser},
	{ActionPrevGenre, []string{"shift+tab"}, "Previous genre", ContextBrowser},
	{ActionSelect, []string{"enter"}, "Play from here", ContextBrowser},
	{ActionClearSearch, []string{"esc"}, "Clear search", ContextBrowser},

	// Search input
	{ActionSearchAccept, []string{"enter"}, "Show results", ContextSearch},
	{ActionSearchCancel, []string{"esc"}, "Cancel search", ContextSearch},
	{ActionQuit, []string{"ctrl+c"}, "Quit", ContextSearch},
}

// ByContext returns key bindings filtered by context.
func ByContext(contexts ...string) []Binding {
	var result []Binding
	for _, b := range Bindings {
		for _, c := range contexts {
			if b.Context == c {
				result = append(result, b)
				break
			}
		}
	}
	return result
}

// Key converts b into a bubbles key binding for help rendering.
func (b Binding) Key() key.Binding {
	help := b.Keys[0]
	if help == " " {
		help = "space"
	}
	return key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(help, b.Description))
}

// Help adapts bindings to the bubbles help.KeyMap interface. The short
// help lists the first bindings of each group.
type Help struct {
	Groups [][]Binding
	Short  int
}

// NewHelp builds help with one column per context.
func NewHelp(contexts ...string) Help {
	h := Help{Short: 4}
	for _, c := range contexts {
		if bs := ByContext(c); len(bs) > 0 {
			h.Groups = append(h.Groups, bs)
		}
	}
	return h
}

func (h Help) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, g := range h.Groups {
		for _, b := range g {
			if len(out) == h.Short {
				return out
			}
			out = append(out, b.Key())
		}
	}
	return out
}

func (h Help) FullHelp() [][]key.Binding {
	out := make([][]key.Binding, len(h.Groups))
	for i, g := range h.Groups {
		for _, b := range g {
			out[i] = append(out[i], b.Key())
		}
	}
	return out
}
