package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/aura/internal/icons"
	"github.com/llehouerou/aura/internal/playback"
	"github.com/llehouerou/aura/internal/ui/headerbar"
	"github.com/llehouerou/aura/internal/ui/overlay"
	"github.com/llehouerou/aura/internal/ui/playerbar"
	"github.com/llehouerou/aura/internal/ui/render"
	"github.com/llehouerou/aura/internal/ui/styles"
)

// View renders the application UI.
func (m Model) View() string {
	if m.Width <= 0 || m.Height <= 0 {
		return ""
	}

	parts := []string{m.renderHeader()}
	if m.searching {
		parts = append(parts, m.search.View())
	}

	var body string
	switch {
	case m.showHelp:
		body = m.help.View(m.helpKeys)
	case m.showStats:
		body = overlay.Center(m.renderList(), m.renderStats(), m.Width, m.listHeight())
	default:
		body = m.renderList()
	}
	parts = append(parts, lipgloss.NewStyle().Height(m.listHeight()).MaxHeight(m.listHeight()).Render(body))

	if bar := playerbar.Render(playerbar.NewState(m.engine), m.Width); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.renderStatus())
	return strings.Join(parts, "\n")
}

// listHeight is the number of rows left for the browser.
func (m Model) listHeight() int {
	h := m.Height - headerbar.Height - 1 // status line
	if m.searching {
		h--
	}
	if playerbar.NewState(m.engine).Visible() {
		h -= playerbar.Height
	}
	return max(h, 0)
}

func (m Model) renderHeader() string {
	return headerbar.Render(headerbar.Props{
		Genres:  m.genres,
		Active:  m.genre,
		Query:   m.query,
		Matches: len(m.list),
	}, m.Width)
}

func (m Model) renderList() string {
	st := styles.T().S()
	if len(m.list) == 0 {
		switch {
		case m.query != "":
			return st.Muted.Render("No songs match " + render.Sanitize(m.query))
		case m.catalog == nil || m.catalog.Len() == 0:
			return st.Muted.Render("No songs loaded. Add catalog paths to config.toml.")
		default:
			return st.Muted.Render("No songs in this genre")
		}
	}

	var playingKey string
	if t := m.engine.CurrentTrack(); t != nil {
		playingKey = t.Key()
	}

	start, end := m.cursor.Visible(len(m.list), m.listHeight())
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		t := m.list[i]
		marker := "  "
		if t.Key() == playingKey {
			marker = icons.Play() + " "
		}
		artistWidth := min(m.Width/3, 30)
		right := render.Truncate(t.Artist, artistWidth)
		left := render.Truncate(marker+t.Title, max(m.Width-lipgloss.Width(right)-2, 1))
		row := render.Row(left, right, m.Width)

		switch {
		case i == m.cursor.Pos():
			row = st.Cursor.Render(row)
		case t.Key() == playingKey:
			row = st.Playing.Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStats() string {
	st := styles.T().S()
	box := st.Bar.Padding(0, 2)
	if m.totals == nil {
		return box.Render(st.Muted.Render("Loading listening stats…"))
	}
	if m.totals.Err != nil {
		return box.Render(st.Error.Render(m.totals.Err.Error()))
	}

	tot := m.totals.Totals
	last := "never"
	if !tot.LastPlayed.IsZero() {
		last = humanize.Time(tot.LastPlayed)
	}
	lines := []string{
		st.Title.Render("Listening stats"),
		"",
		render.Row("Songs played", humanize.Comma(int64(tot.SongsPlayed)), 40),
		render.Row("Minutes listened", humanize.FormatFloat("#,###.#", tot.MinutesListened), 40),
		render.Row("Last played", last, 40),
	}
	if m.totals.Pending > 0 {
		lines = append(lines, render.Row("Waiting to sync", humanize.Comma(int64(m.totals.Pending)), 40))
	}
	if m.engine.CurrentTrack() != nil {
		counted := "not yet"
		if m.engine.Eligible() {
			counted = st.Success.Render("yes")
		}
		lines = append(lines, "", render.Row("Current track counted", counted, 40))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	st := styles.T().S()
	switch {
	case m.status != "" && m.statusErr:
		return st.Error.Render(render.Truncate(m.status, m.Width))
	case m.status != "":
		return st.Muted.Render(render.Truncate(m.status, m.Width))
	case m.engine.State() == playback.StateLoading:
		return st.Warning.Render(icons.Loading() + " loading")
	case m.showHelp:
		return st.Subtle.Render("? close help")
	default:
		h := m.help
		h.ShowAll = false
		return h.View(m.helpKeys)
	}
}
