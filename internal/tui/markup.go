package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// markupKey identifies a rendered block.
type markupKey struct {
	markup string
	width  int
}

// MarkupRenderer renders dialog markup as markdown, caching output per
// width. Markup that fails to render falls back to wrapped plain text.
type MarkupRenderer struct {
	style     string
	renderers map[int]*glamour.TermRenderer
	cache     map[markupKey][]string
	logger    *slog.Logger
}

// NewMarkupRenderer creates a renderer for a glamour standard style name.
func NewMarkupRenderer(style string, logger *slog.Logger) *MarkupRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkupRenderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
		cache:     make(map[markupKey][]string),
		logger:    logger,
	}
}

// Render returns markup rendered to at most width cells per line, with
// surrounding blank lines trimmed.
func (r *MarkupRenderer) Render(markup string, width int) []string {
	if width < 1 {
		width = 1
	}
	k := markupKey{markup: markup, width: width}
	if lines, ok := r.cache[k]; ok {
		return lines
	}

	out, err := r.render(markup, width)
	if err != nil {
		r.logger.Warn("markdown render failed, using plain text", "error", err)
		out = lipgloss.NewStyle().Width(width).Render(markup)
	}
	lines := trimBlank(strings.Split(out, "\n"))
	r.cache[k] = lines
	return lines
}

func (r *MarkupRenderer) render(markup string, width int) (string, error) {
	tr, ok := r.renderers[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		r.renderers[width] = tr
	}
	return tr.Render(markup)
}

// Invalidate drops cached output, for example after templates reload.
func (r *MarkupRenderer) Invalidate() {
	r.cache = make(map[markupKey][]string)
}

func trimBlank(lines []string) []string {
	isBlank := func(s string) bool {
		return strings.TrimSpace(stripStyle(s)) == ""
	}
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}
