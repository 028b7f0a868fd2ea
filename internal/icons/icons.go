// Package icons provides the glyphs used by the player bar in one of three
// styles: Nerd Font, plain Unicode or ASCII.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleNone    Style = "none"
)

// Icons holds the icon characters for the current style.
type Icons struct {
	Play      string
	Pause     string
	Loading   string
	Error     string
	RepeatOne string
	Volume    string
	Mute      string
	Counted   string // listening time reached the eligibility threshold
	Genre     string
}

var (
	nerdIcons = Icons{
		Play:      "\uf04b",     // nf-fa-play
		Pause:     "\uf04c",     // nf-fa-pause
		Loading:   "\U000f0996", // nf-md-progress_clock
		Error:     "\uf071",     // nf-fa-warning
		RepeatOne: "\U000f0458", // nf-md-repeat_once
		Volume:    "\U000f057e", // nf-md-volume_high
		Mute:      "\U000f075f", // nf-md-volume_mute
		Counted:   "\uf00c",     // nf-fa-check
		Genre:     "\uf001 ",    // nf-fa-music
	}

	unicodeIcons = Icons{
		Play:      "▶",
		Pause:     "⏸",
		Loading:   "…",
		Error:     "⚠",
		RepeatOne: "🔂",
		Volume:    "🔊",
		Mute:      "🔇",
		Counted:   "✓",
		Genre:     "🎵 ",
	}

	noneIcons = Icons{
		Play:      ">",
		Pause:     "||",
		Loading:   "..",
		Error:     "!",
		RepeatOne: "[1]",
		Volume:    "vol",
		Mute:      "mute",
		Counted:   "*",
		Genre:     "",
	}

	// current holds the active icon set
	current = unicodeIcons
)

// Init selects the icon style. Call it once at startup with the config
// value; unknown styles fall back to unicode.
func Init(style string) {
	switch Style(style) {
	case StyleNerd:
		current = nerdIcons
	case StyleNone:
		current = noneIcons
	default:
		current = unicodeIcons
	}
}

func Play() string      { return current.Play }
func Pause() string     { return current.Pause }
func Loading() string   { return current.Loading }
func Error() string     { return current.Error }
func RepeatOne() string { return current.RepeatOne }
func Counted() string   { return current.Counted }

// Volume returns the volume icon, or the mute icon at zero volume.
func Volume(level float64) string {
	if level <= 0 {
		return current.Mute
	}
	return current.Volume
}

// FormatGenre formats a genre name with the appropriate icon.
func FormatGenre(name string) string {
	return current.Genre + name
}
