package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jmylchreest/popzy/internal/config"
	"github.com/jmylchreest/popzy/internal/dom"
	"github.com/jmylchreest/popzy/internal/modal"
)

// Region is a rectangle of screen cells.
type Region struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) is inside r.
func (r Region) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Target is a clickable element painted at a region.
type Target struct {
	Region
	Element *dom.Element
}

// Layer is one painted dialog.
type Layer struct {
	Backdrop  *dom.Element
	Container *dom.Element
	Box       Region
	Targets   []Target
}

// Frame is a composed screen.
type Frame struct {
	Lines  []string
	Layers []Layer // Bottom to top
}

// String joins the frame lines.
func (f Frame) String() string {
	return strings.Join(f.Lines, "\n")
}

// HitTest returns the element a click at (x, y) lands on. Only the top
// layer receives clicks: its targets, then its container, then its
// backdrop. Nil means the click reached the page.
func (f Frame) HitTest(x, y int) *dom.Element {
	if len(f.Layers) == 0 {
		return nil
	}
	top := f.Layers[len(f.Layers)-1]
	for _, t := range top.Targets {
		if t.Contains(x, y) {
			return t.Element
		}
	}
	if top.Box.Contains(x, y) {
		return top.Container
	}
	return top.Backdrop
}

var (
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Faint(true)
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	buttonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	primaryStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	closeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Compositor paints shown dialogs over a base layer.
type Compositor struct {
	cfg    *config.Config
	markup *MarkupRenderer
}

// NewCompositor creates a compositor using cfg for per-class styles.
func NewCompositor(cfg *config.Config, markup *MarkupRenderer) *Compositor {
	return &Compositor{cfg: cfg, markup: markup}
}

// Compose paints every shown dialog of doc over base, lowest depth first.
// base is padded or cut to height lines of width cells.
func (c *Compositor) Compose(doc *dom.Document, base []string, width, height int) Frame {
	lines := make([]string, height)
	for i := range lines {
		if i < len(base) {
			lines[i] = fit(base[i], width)
		} else {
			lines[i] = strings.Repeat(" ", width)
		}
	}

	var layers []Layer
	for i, backdrop := range shownBackdrops(doc) {
		for j := range lines {
			lines[j] = dimStyle.Render(ansi.Strip(lines[j]))
		}
		layer, box := c.paintDialog(backdrop, i, width, height)
		overlayAt(lines, box, width, layer.Box.X, layer.Box.Y, layer.Box.W)
		layers = append(layers, layer)
	}
	return Frame{Lines: lines, Layers: layers}
}

// shownBackdrops returns the backdrops carrying the shown class, ordered
// by depth.
func shownBackdrops(doc *dom.Document) []*dom.Element {
	var out []*dom.Element
	for _, el := range doc.Body().Children() {
		if el.HasClass(modal.ClassBackdrop) && el.HasClass(modal.ClassShow) {
			out = append(out, el)
		}
	}
	slices.SortStableFunc(out, func(a, b *dom.Element) int {
		return doc.ComputedStyle(a).ZIndex - doc.ComputedStyle(b).ZIndex
	})
	return out
}

// paintDialog renders one dialog box and places it on screen. Each layer
// is offset from the previous so stacked dialogs stay distinguishable.
func (c *Compositor) paintDialog(backdrop *dom.Element, depth, width, height int) (Layer, []string) {
	layer := Layer{Backdrop: backdrop}
	container := backdrop.QueryClass(modal.ClassContainer)
	if container == nil {
		return layer, nil
	}
	layer.Container = container

	st := c.cfg.StyleFor(container.ClassList().Values())
	boxW := max(min(st.Width, width-2), 6)
	inner := max(boxW-4, 1)

	var body []string
	if content := container.QueryClass(modal.ClassContent); content != nil {
		body = c.markup.Render(content.TextContent(), inner)
	}

	var foot []string
	var buttons []Target
	buttonRow := -1
	if footer := container.QueryClass(modal.ClassFooter); footer != nil {
		foot = append(foot, separatorStyle.Render(strings.Repeat("─", inner)))
		if fc := footer.QueryClass(modal.ClassFooterContent); fc != nil && fc.Markup() != "" {
			wrapped := lipgloss.NewStyle().Width(inner).Render(fc.Markup())
			foot = append(foot, strings.Split(wrapped, "\n")...)
		}
		row, targets := buttonLine(footer, inner)
		if len(targets) > 0 {
			buttonRow = len(foot)
			foot = append(foot, row)
			buttons = targets
		}
	}

	// Keep the footer visible; the body gives up lines first.
	maxInner := max(height-2-depth, 1)
	if len(body)+len(foot) > maxInner {
		keep := max(maxInner-len(foot), 0)
		body = body[:min(keep, len(body))]
	}
	content := append(slices.Clone(body), foot...)
	for i, l := range content {
		content[i] = fit(l, inner)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(st.BorderColor)).
		Padding(0, 1).
		Width(boxW - 2).
		Render(strings.Join(content, "\n"))
	boxLines := strings.Split(box, "\n")
	boxH := len(boxLines)

	x := max((width-boxW)/2+depth*2, 0)
	y := max((height-boxH)/2+depth, 0)
	if x+boxW > width {
		x = max(width-boxW, 0)
	}
	if y+boxH > height {
		y = max(height-boxH, 0)
	}
	layer.Box = Region{X: x, Y: y, W: boxW, H: boxH}

	if buttonRow >= 0 {
		rowY := y + 1 + len(body) + buttonRow
		for _, b := range buttons {
			b.X += x + 2
			b.Y = rowY
			layer.Targets = append(layer.Targets, b)
		}
	}

	if closeBtn := closeButton(container); closeBtn != nil && boxW >= 6 {
		glyph := closeStyle.Render(" " + closeBtn.Markup() + " ")
		top := boxLines[0]
		boxLines[0] = ansi.Cut(top, 0, boxW-4) + glyph + ansi.Cut(top, boxW-1, boxW)
		// Close button takes precedence over footer buttons.
		layer.Targets = append([]Target{{
			Region:  Region{X: x + boxW - 4, Y: y, W: 3, H: 1},
			Element: closeBtn,
		}}, layer.Targets...)
	}

	return layer, boxLines
}

// buttonLine lays out the footer buttons on one line. Target regions are
// relative to the start of the line.
func buttonLine(footer *dom.Element, width int) (string, []Target) {
	var sb strings.Builder
	var targets []Target
	col := 0
	for _, el := range footer.Children() {
		if el.Tag() != "button" {
			continue
		}
		label := "[ " + el.Markup() + " ]"
		w := ansi.StringWidth(label)
		if col > 0 {
			if col+1+w > width {
				break
			}
			sb.WriteString(" ")
			col++
		}
		style := buttonStyle
		for _, class := range el.ClassList().Values() {
			if strings.HasSuffix(class, "--primary") {
				style = primaryStyle
			}
		}
		sb.WriteString(style.Render(label))
		targets = append(targets, Target{Region: Region{X: col, W: w, H: 1}, Element: el})
		col += w
	}
	return sb.String(), targets
}

func closeButton(container *dom.Element) *dom.Element {
	for _, el := range container.Children() {
		if el.HasClass(modal.ClassClose) {
			return el
		}
	}
	return nil
}

// overlayAt splices fg onto bg at (x, y), fg lines padded or cut to fgW.
func overlayAt(bg, fg []string, w, x, y, fgW int) {
	if fgW <= 0 {
		return
	}
	for i := 0; i < len(fg) && y+i < len(bg); i++ {
		bgLine := bg[y+i]
		left := ansi.Cut(bgLine, 0, x)
		right := ansi.Cut(bgLine, x+fgW, w)
		bg[y+i] = left + fit(fg[i], fgW) + right
	}
}

// fit pads or cuts s to exactly w cells.
func fit(s string, w int) string {
	n := ansi.StringWidth(s)
	switch {
	case n < w:
		return s + strings.Repeat(" ", w-n)
	case n > w:
		return ansi.Truncate(s, w, "")
	default:
		return s
	}
}

func stripStyle(s string) string {
	return ansi.Strip(s)
}
