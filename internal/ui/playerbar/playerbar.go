// Package playerbar renders the persistent one-line mini-player.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/aura/internal/icons"
	"github.com/llehouerou/aura/internal/playback"
	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/ui/render"
	"github.com/llehouerou/aura/internal/ui/styles"
)

// Height is the rendered height: top border, content, bottom border.
const Height = 3

// Source is the read side of the playback engine.
type Source interface {
	State() playback.State
	CurrentTrack() *playlist.Track
	CurrentIndex() int
	Playlist() []playlist.Track
	Position() time.Duration
	Duration() time.Duration
	RepeatMode() playback.RepeatMode
	Volume() float64
	Eligible() bool
}

// State holds everything needed to render the player bar.
type State struct {
	Status   playback.State
	Title    string
	Artist   string
	Genre    string
	Index    int
	Total    int
	Position time.Duration
	Duration time.Duration
	Repeat   playback.RepeatMode
	Volume   float64
	Counted  bool
}

// NewState snapshots src. It returns an empty State when nothing is loaded.
func NewState(src Source) State {
	t := src.CurrentTrack()
	if t == nil {
		return State{}
	}
	return State{
		Status:   src.State(),
		Title:    t.Title,
		Artist:   t.Artist,
		Genre:    t.Genre,
		Index:    src.CurrentIndex(),
		Total:    len(src.Playlist()),
		Position: src.Position(),
		Duration: src.Duration(),
		Repeat:   src.RepeatMode(),
		Volume:   src.Volume(),
		Counted:  src.Eligible(),
	}
}

// Visible reports whether the bar has anything to show.
func (s State) Visible() bool {
	return s.Status != playback.StateEmpty && s.Title != ""
}

// Render returns the player bar for the given width, or an empty string
// when there is no track.
//
//	▶  Title   Artist · genre   3/12   ━━━━━────   1:23 / 3:58   🔂 ✓ 🔊 80%
func Render(s State, width int) string {
	if !s.Visible() {
		return ""
	}
	st := styles.T().S()
	innerWidth := max(width-6, 0) // border and padding

	const sep = "   "
	status := statusIcon(s.Status)
	timeStr := fmt.Sprintf("%s / %s", formatDuration(s.Position), formatDuration(s.Duration))

	var flags []string
	if s.Repeat == playback.RepeatOne {
		flags = append(flags, icons.RepeatOne())
	}
	if s.Counted {
		flags = append(flags, st.Success.Render(icons.Counted()))
	}
	flags = append(flags, fmt.Sprintf("%s %3d%%", icons.Volume(s.Volume), int(s.Volume*100+0.5)))
	right := timeStr + sep + strings.Join(flags, " ")

	info := s.Artist
	if s.Genre != "" {
		info = strings.TrimPrefix(info+" · "+s.Genre, " · ")
	}
	var pos string
	if s.Total > 0 && s.Index >= 0 {
		pos = fmt.Sprintf("%d/%d", s.Index+1, s.Total)
	}

	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(right) + len(sep)*2
	if pos != "" {
		fixed += lipgloss.Width(pos) + len(sep)
	}
	const minBar = 10
	avail := innerWidth - fixed - minBar

	title := render.Sanitize(s.Title)
	info = render.Sanitize(info)
	var left string
	switch {
	case lipgloss.Width(title)+len(sep)+lipgloss.Width(info) <= avail:
		left = st.Title.Render(title) + sep + st.Muted.Render(info)
	case lipgloss.Width(title)+len(sep)+1 < avail && info != "":
		left = st.Title.Render(title) + sep +
			st.Muted.Render(render.Truncate(info, avail-lipgloss.Width(title)-len(sep)))
	default:
		left = st.Title.Render(render.Truncate(title, max(avail, 10)))
	}

	used := lipgloss.Width(left) + fixed
	bar := progressBar(s.Position, s.Duration, max(innerWidth-used, 5))

	var b strings.Builder
	b.WriteString(statusStyle(s.Status).Render(status))
	b.WriteString("  ")
	b.WriteString(left)
	if pos != "" {
		b.WriteString(sep)
		b.WriteString(st.Subtle.Render(pos))
	}
	b.WriteString(sep)
	b.WriteString(bar)
	b.WriteString(sep)
	b.WriteString(st.Muted.Render(right))

	return st.Bar.Padding(0, 2).Width(max(width-2, 0)).Render(b.String())
}

func progressBar(pos, dur time.Duration, width int) string {
	var ratio float64
	if dur > 0 {
		ratio = min(max(float64(pos)/float64(dur), 0), 1)
	}
	filled := min(int(float64(width)*ratio), width)

	var b strings.Builder
	for _, c := range styles.Blend(filled, styles.T().Primary, styles.T().Secondary) {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render("━"))
	}
	b.WriteString(styles.T().S().Subtle.Render(strings.Repeat("─", width-filled)))
	return b.String()
}

func statusIcon(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return icons.Play()
	case playback.StateLoading:
		return icons.Loading()
	case playback.StateError:
		return icons.Error()
	default:
		return icons.Pause()
	}
}

func statusStyle(s playback.State) lipgloss.Style {
	st := styles.T().S()
	switch s {
	case playback.StatePlaying:
		return st.Playing
	case playback.StateLoading:
		return st.Warning
	case playback.StateError:
		return st.Error
	default:
		return st.Muted
	}
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
