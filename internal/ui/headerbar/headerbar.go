// Package headerbar renders the single-line header: the app title
// followed by genre tabs, or the active search.
package headerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/aura/internal/icons"
	"github.com/llehouerou/aura/internal/ui/render"
	"github.com/llehouerou/aura/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

const title = "aura"

// Props is what the header shows. A non-empty Query replaces the tabs.
type Props struct {
	Genres  []string
	Active  int
	Query   string
	Matches int
}

// Render returns the header bar string for the given width.
func Render(p Props, width int) string {
	if width <= 0 {
		return ""
	}
	t := styles.T()
	st := t.S()

	var content string
	if p.Query != "" {
		content = st.Playing.Render(fmt.Sprintf("search: %s (%d)", render.Sanitize(p.Query), p.Matches))
	} else {
		parts := make([]string, 0, len(p.Genres))
		for i, g := range p.Genres {
			label := icons.FormatGenre(g)
			if i == p.Active {
				parts = append(parts, st.Playing.Render(label))
			} else {
				parts = append(parts, st.Muted.Render(label))
			}
		}
		content = strings.Join(parts, st.Subtle.Render(" │ "))
	}

	head := styles.Gradient(title, t.Primary, t.Secondary, true)
	if content != "" {
		head += "  " + content
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(head)
}
