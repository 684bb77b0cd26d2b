package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// StatusLine describes the stack: how many dialogs are open, which one is
// on top and when it was opened.
func (h *Host) StatusLine() string {
	n := h.coord.Len()
	parts := []string{statusKeyStyle.Render("popzy"), fmt.Sprintf("%d open", n)}

	if top := h.coord.Top(); top != nil {
		name := top.ID()
		if id, ok := h.session.DefinitionID(top); ok {
			name = id
		}
		parts = append(parts, fmt.Sprintf("top %s opened %s", name, humanize.Time(top.OpenedAt())))
	}
	if h.Locked() {
		parts = append(parts, "scroll locked")
	}
	return statusStyle.Render(strings.Join(parts, "  "))
}
