package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/popzy/internal/catalog"
	"github.com/jmylchreest/popzy/internal/config"
	"github.com/jmylchreest/popzy/internal/dom"
	"github.com/jmylchreest/popzy/internal/modal"
)

// HostOptions configures a Host.
type HostOptions struct {
	Config  *config.Config
	Catalog *catalog.Catalog
	Page    string // Page text, empty uses DefaultPage
	Logger  *slog.Logger
}

// Host owns the document, its dialogs and the scrolling page beneath
// them. It is driven from a single goroutine.
type Host struct {
	cfg     *config.Config
	doc     *dom.Document
	coord   *modal.Coordinator
	session *catalog.Session
	markup  *MarkupRenderer
	comp    *Compositor
	logger  *slog.Logger

	page      viewport.Model
	pageText  string
	pageLines int
	pageWidth int

	width  int
	height int
	next   int
}

// NewHost creates a host whose document runs callbacks on sched.
func NewHost(opts HostOptions, sched dom.Scheduler) (*Host, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cat := opts.Catalog
	if cat == nil {
		var err error
		if cat, err = catalog.Load("", catalog.WithLogger(logger)); err != nil {
			return nil, err
		}
	}
	text := opts.Page
	if text == "" {
		text = DefaultPage
	}

	base, err := cfg.DialogOptions()
	if err != nil {
		return nil, fmt.Errorf("dialog defaults: %w", err)
	}

	doc := dom.NewDocument(sched, dom.WithScrollbarWidth(cfg.TUI.ScrollbarWidth))
	cat.Install(doc)
	coord := modal.NewCoordinator(doc,
		modal.WithBaseDepth(cfg.Modal.BaseDepth),
		modal.WithCoordinatorLogger(logger),
	)
	markup := NewMarkupRenderer(cfg.TUI.MarkdownStyle, logger)

	h := &Host{
		cfg:      cfg,
		doc:      doc,
		coord:    coord,
		session:  catalog.NewSession(cat, coord, base...),
		markup:   markup,
		comp:     NewCompositor(cfg, markup),
		logger:   logger,
		page:     viewport.New(0, 0),
		pageText: text,
	}
	h.Resize(dom.DefaultViewportWidth, dom.DefaultViewportHeight)
	return h, nil
}

// Document returns the host document.
func (h *Host) Document() *dom.Document { return h.doc }

// Coordinator returns the dialog coordinator.
func (h *Host) Coordinator() *modal.Coordinator { return h.coord }

// Session returns the catalog session.
func (h *Host) Session() *catalog.Session { return h.session }

// Resize sets the screen size. The last row is reserved for the status line.
func (h *Host) Resize(width, height int) {
	h.width = max(width, 1)
	h.height = max(height, 2)
	h.doc.SetViewport(h.width, h.height)
	h.page.Height = h.pageHeight()
	h.pageWidth = -1
	h.Sync()
}

func (h *Host) pageHeight() int { return h.height - 1 }

// Sync lays the page out for the current lock state and mirrors its
// metrics onto the body. Call it after anything that may open or close a
// dialog.
func (h *Host) Sync() {
	body := h.doc.Body()
	sbw := h.doc.ScrollbarWidth()

	var width int
	switch {
	case h.Locked():
		width = h.width - h.doc.ComputedStyle(body).PaddingRight
	case h.countLines(h.width-sbw) > h.pageHeight():
		width = h.width - sbw
	default:
		width = h.width
	}
	width = max(width, 1)

	if width != h.pageWidth {
		wrapped := wrap(h.pageText, width)
		h.pageLines = strings.Count(wrapped, "\n") + 1
		offset := h.page.YOffset
		h.page.Width = width
		h.page.SetContent(wrapped)
		h.page.SetYOffset(offset)
		h.pageWidth = width
	}
	body.SetScrollMetrics(h.pageLines, h.pageHeight())
}

func (h *Host) countLines(width int) int {
	return strings.Count(wrap(h.pageText, max(width, 1)), "\n") + 1
}

func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}

// Locked reports whether the page scroll lock is engaged.
func (h *Host) Locked() bool {
	return h.doc.Body().HasClass(modal.ClassNoScroll)
}

// overflows reports whether the page is taller than its area.
func (h *Host) overflows() bool {
	return h.pageLines > h.pageHeight()
}

// Open opens the catalog dialog with id.
func (h *Host) Open(id string) error {
	_, err := h.session.Open(id)
	h.Sync()
	return err
}

// OpenNth opens the n-th catalog dialog, counting from 1.
func (h *Host) OpenNth(n int) error {
	defs := h.session.Catalog().Definitions()
	if n < 1 || n > len(defs) {
		return fmt.Errorf("no dialog %d (catalog has %d)", n, len(defs))
	}
	h.next = n % len(defs)
	return h.Open(defs[n-1].ID)
}

// OpenNext opens catalog dialogs in turn.
func (h *Host) OpenNext() error {
	defs := h.session.Catalog().Definitions()
	if len(defs) == 0 {
		return errors.New("catalog is empty")
	}
	return h.OpenNth(h.next%len(defs) + 1)
}

// Escape delivers an escape key press to the document.
func (h *Host) Escape() {
	h.doc.Body().Dispatch(dom.NewKeyEvent(dom.KeyEscape))
	h.Sync()
}

// Click delivers a click at screen cell (x, y). It reports whether a
// dialog element received it.
func (h *Host) Click(x, y int) bool {
	el := h.Frame().HitTest(x, y)
	if el == nil {
		return false
	}
	el.Dispatch(dom.NewEvent(dom.EventClick))
	h.Sync()
	return true
}

// CloseTop closes the top dialog.
func (h *Host) CloseTop() {
	if top := h.coord.Top(); top != nil {
		top.Close()
		h.Sync()
	}
}

// DestroyTop destroys the top dialog.
func (h *Host) DestroyTop() {
	if top := h.coord.Top(); top != nil {
		top.Destroy()
		h.Sync()
	}
}

// Scroll moves the page by delta lines. It does nothing while locked.
func (h *Host) Scroll(delta int) {
	if h.Locked() {
		return
	}
	h.page.SetYOffset(h.page.YOffset + delta)
}

// ScrollTo moves the page to the top or bottom. It does nothing while
// locked.
func (h *Host) ScrollTo(bottom bool) {
	if h.Locked() {
		return
	}
	if bottom {
		h.page.GotoBottom()
		return
	}
	h.page.GotoTop()
}

// ScrollOffset returns the page's first visible line.
func (h *Host) ScrollOffset() int { return h.page.YOffset }

// ReloadTemplates rereads templates and installs them in the document.
// Open dialogs keep their content.
func (h *Host) ReloadTemplates() error {
	if err := h.session.Catalog().ReloadTemplates(); err != nil {
		return err
	}
	h.session.Catalog().Install(h.doc)
	h.markup.Invalidate()
	return nil
}

// Frame composes the page area: the page, its scrollbar and the shown
// dialogs.
func (h *Host) Frame() Frame {
	return h.comp.Compose(h.doc, h.pageView(), h.width, h.pageHeight())
}

// pageView returns the visible page lines including the scrollbar column
// when the page overflows and is not locked. While locked the body's
// padding keeps the text where it was.
func (h *Host) pageView() []string {
	lines := strings.Split(h.page.View(), "\n")
	out := make([]string, h.pageHeight())
	showBar := !h.Locked() && h.overflows()
	thumbStart, thumbLen := h.thumb()
	sbw := h.doc.ScrollbarWidth()
	for i := range out {
		var l string
		if i < len(lines) {
			l = lines[i]
		}
		l = fit(l, h.pageWidth)
		if showBar && sbw > 0 {
			ch := "│"
			if i >= thumbStart && i < thumbStart+thumbLen {
				ch = "█"
			}
			l += separatorStyle.Render(strings.Repeat(ch, sbw))
		}
		out[i] = l
	}
	return out
}

// thumb returns the scrollbar thumb position and size in rows.
func (h *Host) thumb() (start, length int) {
	ph := h.pageHeight()
	if h.pageLines <= ph || ph <= 0 {
		return 0, ph
	}
	length = max(ph*ph/h.pageLines, 1)
	maxOffset := h.pageLines - ph
	start = (ph - length) * h.page.YOffset / maxOffset
	return start, length
}
