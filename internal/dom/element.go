package dom

import (
	"slices"
	"strings"
	"time"
)

// Tags with special behaviour.
const (
	TagTemplate = "template"
	TagFragment = "#fragment"
)

// Element is a node in a Document tree.
type Element struct {
	doc      *Document
	tag      string
	id       string
	classes  []string
	style    map[string]string
	markup   string
	parent   *Element
	children []*Element

	listeners map[string][]*Listener

	// Template content, for TagTemplate elements only.
	content *Element

	// Layout metrics reported by the host.
	scrollHeight int
	clientHeight int
	offsetWidth  int // 0 means the document viewport width

	transition        time.Duration
	pendingTransition Timer
}

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the element tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the element id.
func (e *Element) ID() string { return e.id }

// SetID sets the element id.
func (e *Element) SetID(id string) { e.id = id }

// Parent returns the parent element, or nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the element's children.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// Append adds children to the end of e. A child that already has a parent
// is moved. Appending a fragment moves the fragment's children instead.
func (e *Element) Append(children ...*Element) {
	for _, child := range children {
		if child == nil || child == e {
			continue
		}
		if child.tag == TagFragment {
			moved := slices.Clone(child.children)
			for _, c := range moved {
				c.detach()
			}
			e.Append(moved...)
			continue
		}
		child.detach()
		child.parent = e
		e.children = append(e.children, child)
	}
}

// Remove detaches e from its parent and cancels any pending transition.
func (e *Element) Remove() {
	e.detach()
	e.cancelTransition()
}

func (e *Element) detach() {
	if e.parent == nil {
		return
	}
	p := e.parent
	if i := slices.Index(p.children, e); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	e.parent = nil
}

// IsConnected reports whether e is attached to its document's root.
func (e *Element) IsConnected() bool {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	return e.doc != nil && root == e.doc.root
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Markup returns the element's markup text.
func (e *Element) Markup() string { return e.markup }

// SetMarkup replaces the element's children with markup text.
func (e *Element) SetMarkup(markup string) {
	for _, c := range slices.Clone(e.children) {
		c.detach()
	}
	e.markup = markup
}

// QueryClass returns the first descendant (depth-first) carrying class.
func (e *Element) QueryClass(class string) *Element {
	for _, c := range e.children {
		if c.HasClass(class) {
			return c
		}
		if found := c.QueryClass(class); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for e and every descendant, depth-first.
// Returning false from fn skips that element's subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range slices.Clone(e.children) {
		c.Walk(fn)
	}
}

// Clone copies e. Listeners and layout metrics are not copied.
func (e *Element) Clone(deep bool) *Element {
	c := e.doc.newElement(e.tag)
	c.id = e.id
	c.classes = slices.Clone(e.classes)
	for k, v := range e.style {
		c.style[k] = v
	}
	c.markup = e.markup
	c.transition = e.transition
	if e.content != nil {
		c.content = e.content.Clone(true)
	}
	if deep {
		for _, child := range e.children {
			c.Append(child.Clone(true))
		}
	}
	return c
}

// Content returns the template's content fragment (TagTemplate only).
func (e *Element) Content() *Element { return e.content }

// CloneContent returns a deep copy of the template content fragment.
func (e *Element) CloneContent() *Element {
	if e.content == nil {
		return e.doc.newElement(TagFragment)
	}
	return e.content.Clone(true)
}

// TextContent concatenates the markup of e and all its descendants.
func (e *Element) TextContent() string {
	var sb strings.Builder
	e.Walk(func(n *Element) bool {
		if n.markup != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(n.markup)
		}
		return true
	})
	return sb.String()
}

// SetScrollMetrics records the element's scrollable and visible heights.
func (e *Element) SetScrollMetrics(scrollHeight, clientHeight int) {
	e.scrollHeight = scrollHeight
	e.clientHeight = clientHeight
}

// ScrollHeight is the height of the element's content.
func (e *Element) ScrollHeight() int { return e.scrollHeight }

// ClientHeight is the element's visible height.
func (e *Element) ClientHeight() int { return e.clientHeight }

// SetOffsetWidth overrides the element's rendered width.
func (e *Element) SetOffsetWidth(w int) { e.offsetWidth = w }

// OffsetWidth is the element's rendered width including its scrollbar.
func (e *Element) OffsetWidth() int {
	if e.offsetWidth > 0 {
		return e.offsetWidth
	}
	if e.doc != nil {
		return e.doc.viewportWidth
	}
	return 0
}

// ClientWidth is OffsetWidth minus the scrollbar, if the element always
// shows one.
func (e *Element) ClientWidth() int {
	w := e.OffsetWidth()
	if e.Style().Get("overflow") == "scroll" && e.doc != nil && e.IsConnected() {
		w -= e.doc.scrollbarWidth
	}
	return max(w, 0)
}

// SetTransition sets how long class changes take to animate.
// Zero disables transitions.
func (e *Element) SetTransition(d time.Duration) { e.transition = d }

// TransitionDuration returns the element's transition duration.
func (e *Element) TransitionDuration() time.Duration { return e.transition }

// classChanged starts a transition. A pending transition is replaced;
// only the latest one signals completion.
func (e *Element) classChanged() {
	if e.transition <= 0 || e.doc == nil || e.doc.scheduler == nil || !e.IsConnected() {
		return
	}
	e.cancelTransition()
	e.pendingTransition = e.doc.scheduler.AfterFunc(e.transition, func() {
		e.pendingTransition = nil
		if !e.IsConnected() {
			return
		}
		e.Dispatch(NewEvent(EventTransitionEnd))
	})
}

func (e *Element) cancelTransition() {
	if e.pendingTransition != nil {
		e.pendingTransition.Stop()
		e.pendingTransition = nil
	}
}

// AddEventListener registers fn for events of type typ on e.
func (e *Element) AddEventListener(typ string, fn func(*Event), opts ...ListenerOption) *Listener {
	l := &Listener{el: e, typ: typ, fn: fn}
	for _, opt := range opts {
		opt(l)
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*Listener)
	}
	e.listeners[typ] = append(e.listeners[typ], l)
	return l
}

// RemoveEventListener detaches l from e.
func (e *Element) RemoveEventListener(l *Listener) {
	if l == nil || l.el != e {
		return
	}
	l.removed = true
	ls := e.listeners[l.typ]
	if i := slices.Index(ls, l); i >= 0 {
		e.listeners[l.typ] = slices.Delete(ls, i, i+1)
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (e *Element) ListenerCount(typ string) int {
	return len(e.listeners[typ])
}

// Dispatch delivers ev to e and then to each ancestor until stopped.
// Listeners added during dispatch do not see the event; listeners removed
// during dispatch are skipped.
func (e *Element) Dispatch(ev *Event) {
	if ev.Target == nil {
		ev.Target = e
	}
	for n := e; n != nil; n = n.parent {
		ev.CurrentTarget = n
		for _, l := range slices.Clone(n.listeners[ev.Type]) {
			if l.removed {
				continue
			}
			if l.once {
				n.RemoveEventListener(l)
			}
			l.fn(ev)
			if ev.stoppedImmediate {
				break
			}
		}
		if ev.stopped {
			break
		}
	}
	ev.CurrentTarget = nil
}
