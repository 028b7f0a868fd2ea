// Package keymap defines key bindings and action dispatch for the mini-player.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit   Action = "quit"
	ActionHelp   Action = "help"
	ActionSearch Action = "search"
	ActionStats  Action = "stats"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionNextTrack   Action = "next_track"
	ActionPrevTrack   Action = "prev_track"
	ActionSeekForward Action = "seek_forward"
	ActionSeekBack    Action = "seek_back"
	ActionCycleRepeat Action = "cycle_repeat"
	ActionVolumeUp    Action = "volume_up"
	ActionVolumeDown  Action = "volume_down"

	// Browser actions
	ActionMoveUp      Action = "move_up"
	ActionMoveDown    Action = "move_down"
	ActionJumpStart   Action = "jump_start"
	ActionJumpEnd     Action = "jump_end"
	ActionPageUp      Action = "page_up"
	ActionPageDown    Action = "page_down"
	ActionNextGenre   Action = "next_genre"
	ActionPrevGenre   Action = "prev_genre"
	ActionSelect      Action = "select" // enter - play list from cursor
	ActionClearSearch Action = "clear_search"

	// Search input actions
	ActionSearchAccept Action = "search_accept"
	ActionSearchCancel Action = "search_cancel"
)
