package modal

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/popzy/internal/dom"
)

// FooterButton is a footer button descriptor.
type FooterButton struct {
	Label   string
	Class   string
	OnClick func(*Dialog)

	el *dom.Element
}

// Element returns the button's element.
func (b *FooterButton) Element() *dom.Element { return b.el }

// Dialog is one modal dialog.
type Dialog struct {
	id     string
	coord  *Coordinator
	opts   settings
	logger *slog.Logger

	// Content source, resolved by New.
	content  string
	template *dom.Element

	footerContent string
	footerButtons []*FooterButton

	// Elements, nil until built and after destroy.
	root            *dom.Element
	container       *dom.Element
	contentEl       *dom.Element
	footer          *dom.Element
	footerContentEl *dom.Element

	showTimer        dom.Timer
	escListener      *dom.Listener
	backdropListener *dom.Listener
	teardownListener *dom.Listener
	pendingDestroy   bool

	scrollbarW        int
	scrollbarMeasured bool

	openedAt  time.Time
	destroyed bool
}

// New creates a dialog managed by coord. It fails when neither content nor
// a template is configured, or when the template does not exist.
func New(coord *Coordinator, opts ...Option) (*Dialog, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = coord.logger
	}
	if s.renderer == nil {
		s.renderer = DOMRenderer{Logger: s.logger}
	}

	d := &Dialog{
		id:     newID(),
		coord:  coord,
		opts:   s,
		logger: s.logger,
	}

	switch {
	case s.content == "" && s.templateID == "":
		return nil, ErrNoContent
	case s.content != "" && s.templateID != "":
		d.logger.Warn("both content and template specified, content takes precedence",
			"template", s.templateID)
		d.opts.templateID = ""
		d.content = s.content
	case s.content != "":
		d.content = s.content
	default:
		tmpl := coord.doc.GetElementByID(s.templateID)
		if tmpl == nil || tmpl.Tag() != dom.TagTemplate {
			return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, s.templateID)
		}
		d.template = tmpl
	}

	d.logger = d.logger.With("dialog", d.id)
	return d, nil
}

func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ID returns the dialog's unique identifier.
func (d *Dialog) ID() string { return d.id }

// IsOpen reports whether the dialog is on the coordinator's stack.
func (d *Dialog) IsOpen() bool { return d.coord.Contains(d) }

// IsDestroyed reports whether the dialog has been torn down for good.
func (d *Dialog) IsDestroyed() bool { return d.destroyed }

// Root returns the dialog's backdrop element, or nil when not built.
func (d *Dialog) Root() *dom.Element { return d.root }

// Container returns the dialog's container element, or nil.
func (d *Dialog) Container() *dom.Element { return d.container }

// Footer returns the footer element, or nil.
func (d *Dialog) Footer() *dom.Element { return d.footer }

// OpenedAt returns when the dialog was last opened.
func (d *Dialog) OpenedAt() time.Time { return d.openedAt }

// Open builds the dialog if needed and puts it on top of the stack.
// Opening an open dialog promotes it. Returns the root element.
func (d *Dialog) Open() (*dom.Element, error) {
	if d.destroyed {
		return nil, ErrDestroyed
	}
	if d.root == nil {
		d.build()
	}
	d.cancelTeardown()

	d.coord.Register(d)
	d.openedAt = time.Now()
	d.scheduleShow()
	d.attachListeners()

	if d.opts.lockScroll {
		d.coord.lockScroll(d)
	}
	if d.opts.onOpen != nil {
		d.opts.onOpen(d)
	}
	return d.root, nil
}

// Close hides the dialog and removes it from the stack. Teardown runs when
// the close transition finishes; whether the elements are destroyed follows
// the dialog's setting unless overridden with WithDestroy. The OnClose
// callback runs only when the dialog is open; closing a closed dialog is
// silent.
func (d *Dialog) Close(opts ...CloseOption) {
	if d.root == nil {
		return
	}
	destroy := d.opts.destroyOnClose
	for _, opt := range opts {
		opt(&destroy)
	}

	if !d.coord.Contains(d) {
		if d.teardownListener != nil {
			// Already closing; a destroy request upgrades the pending teardown.
			d.pendingDestroy = d.pendingDestroy || destroy
			return
		}
		// Closed and retained.
		if destroy {
			d.teardown(true)
		}
		return
	}

	if d.opts.onClose != nil {
		d.opts.onClose(d)
	}
	if d.showTimer != nil {
		d.showTimer.Stop()
		d.showTimer = nil
	}

	hiding := d.root.ClassList().Remove(ClassShow)
	d.coord.Unregister(d)
	d.detachListeners()
	d.cancelTeardown()

	if !hiding || d.root.TransitionDuration() <= 0 {
		d.teardown(destroy)
		return
	}
	d.pendingDestroy = destroy
	d.teardownListener = d.root.AddEventListener(dom.EventTransitionEnd, func(*dom.Event) {
		d.teardownListener = nil
		d.teardown(d.pendingDestroy)
	}, dom.Once())
}

// Destroy closes the dialog and removes its elements regardless of the
// destroy-on-close setting.
func (d *Dialog) Destroy() {
	d.Close(WithDestroy(true))
}

// SetContent replaces the dialog content with markup.
func (d *Dialog) SetContent(markup string) {
	d.content = markup
	if d.contentEl != nil {
		d.contentEl.SetMarkup(markup)
	}
}

// SetFooterContent sets the footer markup shown before the buttons.
func (d *Dialog) SetFooterContent(markup string) {
	d.footerContent = markup
	if d.footerContentEl != nil {
		d.footerContentEl.SetMarkup(markup)
	}
}

// AddFooterButton appends a footer button. Buttons added after the dialog
// is built appear in the live footer.
func (d *Dialog) AddFooterButton(label, class string, onClick func(*Dialog)) *FooterButton {
	b := &FooterButton{Label: label, Class: class, OnClick: onClick}
	b.el = d.createButton(label, class, onClick)
	d.footerButtons = append(d.footerButtons, b)
	if d.footer != nil {
		d.footer.Append(b.el)
	}
	return b
}

// FooterButtons returns the footer buttons in order.
func (d *Dialog) FooterButtons() []*FooterButton {
	out := make([]*FooterButton, len(d.footerButtons))
	copy(out, d.footerButtons)
	return out
}

func (d *Dialog) createButton(label, class string, onClick func(*Dialog)) *dom.Element {
	className := ClassButton
	if class != "" {
		className += " " + class
	}
	el := NewButton(d.coord.doc, label, className)
	if onClick != nil {
		el.AddEventListener(dom.EventClick, func(*dom.Event) {
			onClick(d)
		})
	}
	return el
}

func (d *Dialog) build() {
	doc := d.coord.doc
	buttons := make([]*dom.Element, len(d.footerButtons))
	for i, b := range d.footerButtons {
		buttons[i] = b.el
	}

	parts := d.opts.renderer.Build(doc, BuildInput{
		Content:       d.content,
		Template:      d.template,
		Classes:       d.opts.classes,
		Footer:        d.opts.footer,
		FooterContent: d.footerContent,
		FooterButtons: buttons,
		CloseButton:   d.opts.allows(CloseButton),
	})

	d.root = parts.Backdrop
	d.container = parts.Container
	d.contentEl = parts.Content
	d.footer = parts.Footer
	d.footerContentEl = parts.FooterContent

	doc.Body().Append(d.root)

	if parts.CloseButton != nil {
		parts.CloseButton.AddEventListener(dom.EventClick, func(*dom.Event) {
			d.Close()
		})
	}
	d.logger.Debug("dialog built")
}

// scheduleShow applies the shown class after the show delay.
func (d *Dialog) scheduleShow() {
	if d.showTimer != nil {
		d.showTimer.Stop()
	}
	d.showTimer = d.coord.doc.Scheduler().AfterFunc(d.opts.showDelay, func() {
		d.showTimer = nil
		if d.root != nil && d.coord.Contains(d) {
			d.root.ClassList().Add(ClassShow)
		}
	})
}

func (d *Dialog) attachListeners() {
	if d.opts.allows(CloseBackdrop) && d.backdropListener == nil {
		d.backdropListener = d.root.AddEventListener(dom.EventClick, func(ev *dom.Event) {
			if ev.Target == d.root {
				d.Close()
			}
		})
	}
	if d.opts.allows(CloseEscape) && d.escListener == nil {
		d.escListener = d.coord.doc.Body().AddEventListener(dom.EventKeyDown, d.handleEscape)
	}
}

func (d *Dialog) detachListeners() {
	d.backdropListener.Remove()
	d.backdropListener = nil
	d.escListener.Remove()
	d.escListener = nil
}

// handleEscape closes d when it is the top dialog. Handling stops the
// event so the newly exposed dialog does not close on the same key press.
func (d *Dialog) handleEscape(ev *dom.Event) {
	if ev.Key != dom.KeyEscape || d.coord.Top() != d {
		return
	}
	ev.StopImmediatePropagation()
	d.Close()
}

func (d *Dialog) cancelTeardown() {
	d.teardownListener.Remove()
	d.teardownListener = nil
}

// teardown finishes a close once the hide transition is over.
func (d *Dialog) teardown(destroy bool) {
	if d.root == nil {
		return
	}
	if destroy {
		d.root.Remove()
		d.root = nil
		d.container = nil
		d.contentEl = nil
		d.footer = nil
		d.footerContentEl = nil
		d.destroyed = true
		d.logger.Debug("dialog destroyed")
	}
	if d.coord.Len() == 0 {
		d.coord.unlockScroll()
	}
}

func (d *Dialog) scrollTarget() *dom.Element {
	if d.opts.scrollLockTarget != nil {
		return d.opts.scrollLockTarget()
	}
	return d.coord.doc.Body()
}

// scrollbarWidth probes the platform scrollbar width once per dialog.
func (d *Dialog) scrollbarWidth() int {
	if d.scrollbarMeasured {
		return d.scrollbarW
	}
	doc := d.coord.doc
	probe := doc.CreateElement("div")
	probe.Style().Set("position", "absolute")
	probe.Style().Set("top", "-99999px")
	probe.Style().Set("overflow", "scroll")
	doc.Body().Append(probe)
	d.scrollbarW = probe.OffsetWidth() - probe.ClientWidth()
	probe.Remove()
	d.scrollbarMeasured = true
	return d.scrollbarW
}
