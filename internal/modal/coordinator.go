package modal

import (
	"log/slog"
	"slices"

	"github.com/jmylchreest/popzy/internal/dom"
)

// DefaultBaseDepth is the z-index of the bottom dialog's backdrop.
const DefaultBaseDepth = 1000

// Coordinator owns the stack of open dialogs for one document.
type Coordinator struct {
	doc       *dom.Document
	logger    *slog.Logger
	baseDepth int

	// stack is ordered bottom to top.
	stack []*Dialog

	lock scrollLock
}

// scrollLock records a lock the coordinator engaged.
type scrollLock struct {
	engaged     bool
	target      *dom.Element
	prevPadding string
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithBaseDepth sets the bottom backdrop depth (default: DefaultBaseDepth).
func WithBaseDepth(depth int) CoordinatorOption {
	return func(c *Coordinator) {
		c.baseDepth = depth
	}
}

// WithCoordinatorLogger sets the coordinator's logger.
func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCoordinator creates the coordinator for doc.
func NewCoordinator(doc *dom.Document, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		doc:       doc,
		logger:    slog.Default(),
		baseDepth: DefaultBaseDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document returns the coordinated document.
func (c *Coordinator) Document() *dom.Document { return c.doc }

// BaseDepth returns the bottom backdrop depth.
func (c *Coordinator) BaseDepth() int { return c.baseDepth }

// Register pushes d onto the stack, or moves it to the top if present.
func (c *Coordinator) Register(d *Dialog) {
	if i := slices.Index(c.stack, d); i >= 0 {
		c.stack = slices.Delete(c.stack, i, i+1)
	}
	c.stack = append(c.stack, d)
	c.recompute()
	c.logger.Debug("dialog registered", "dialog", d.ID(), "depth", len(c.stack))
}

// Unregister removes d from the stack. Absent dialogs are ignored.
func (c *Coordinator) Unregister(d *Dialog) {
	if i := slices.Index(c.stack, d); i >= 0 {
		c.stack = slices.Delete(c.stack, i, i+1)
		c.logger.Debug("dialog unregistered", "dialog", d.ID(), "depth", len(c.stack))
	}
	c.recompute()
}

// recompute assigns depths from stack position.
func (c *Coordinator) recompute() {
	for i, d := range c.stack {
		if d.root == nil {
			continue
		}
		d.root.Style().SetInt("z-index", c.baseDepth+i*2)
		if d.container != nil {
			d.container.Style().SetInt("z-index", c.baseDepth+i*2+1)
		}
	}
}

// Len returns the number of open dialogs.
func (c *Coordinator) Len() int { return len(c.stack) }

// Top returns the topmost open dialog, or nil.
func (c *Coordinator) Top() *Dialog {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Stack returns the open dialogs, bottom to top.
func (c *Coordinator) Stack() []*Dialog {
	return slices.Clone(c.stack)
}

// Contains reports whether d is open.
func (c *Coordinator) Contains(d *Dialog) bool {
	return slices.Contains(c.stack, d)
}

// ScrollLocked reports whether the scroll lock is engaged.
func (c *Coordinator) ScrollLocked() bool { return c.lock.engaged }

// lockScroll engages the lock on behalf of d when d is the only open
// dialog and its target overflows.
func (c *Coordinator) lockScroll(d *Dialog) {
	if c.lock.engaged || len(c.stack) != 1 {
		return
	}
	target := d.scrollTarget()
	if target == nil || !hasScrollbar(c.doc, target) {
		return
	}

	prev := target.Style().Get("padding-right")
	target.ClassList().Add(ClassNoScroll)
	padding := c.doc.ComputedStyle(target).PaddingRight + d.scrollbarWidth()
	if padding > 0 {
		target.Style().SetInt("padding-right", padding)
	}
	c.lock = scrollLock{engaged: true, target: target, prevPadding: prev}
	c.logger.Debug("scroll lock engaged", "dialog", d.ID(), "padding_right", padding)
}

// unlockScroll releases the lock if the stack is empty, restoring the
// target's declared padding.
func (c *Coordinator) unlockScroll() {
	if !c.lock.engaged || len(c.stack) != 0 {
		return
	}
	target := c.lock.target
	target.ClassList().Remove(ClassNoScroll)
	target.Style().Set("padding-right", c.lock.prevPadding)
	c.lock = scrollLock{}
	c.logger.Debug("scroll lock released")
}

// hasScrollbar reports whether target's content overflows. The document
// element and body are treated as one scrolling surface.
func hasScrollbar(doc *dom.Document, target *dom.Element) bool {
	root, body := doc.DocumentElement(), doc.Body()
	if target == root || target == body {
		return root.ScrollHeight() > root.ClientHeight() ||
			body.ScrollHeight() > body.ClientHeight()
	}
	return target.ScrollHeight() > target.ClientHeight()
}
