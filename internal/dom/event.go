package dom

// Event types dispatched by the document and the terminal host.
const (
	EventClick         = "click"
	EventKeyDown       = "keydown"
	EventTransitionEnd = "transitionend"
)

// KeyEscape is the Key value of an escape key press.
const KeyEscape = "Escape"

// Event is a dispatched event. Events bubble from Target to the root.
type Event struct {
	Type string
	Key  string // keydown only

	// Target is the element the event was dispatched on.
	Target *Element
	// CurrentTarget is the element whose listener is running.
	CurrentTarget *Element

	stopped          bool
	stoppedImmediate bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// NewKeyEvent creates a keydown event for key.
func NewKeyEvent(key string) *Event {
	return &Event{Type: EventKeyDown, Key: key}
}

// StopPropagation prevents the event from reaching ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// StopImmediatePropagation also skips the remaining listeners on the
// current element.
func (e *Event) StopImmediatePropagation() {
	e.stopped = true
	e.stoppedImmediate = true
}

// Listener is a registered event handler.
type Listener struct {
	el      *Element
	typ     string
	fn      func(*Event)
	once    bool
	removed bool
}

// Remove detaches the listener. Removing twice is a no-op.
func (l *Listener) Remove() {
	if l == nil || l.removed {
		return
	}
	l.el.RemoveEventListener(l)
}

// ListenerOption configures AddEventListener.
type ListenerOption func(*Listener)

// Once removes the listener after its first invocation.
func Once() ListenerOption {
	return func(l *Listener) {
		l.once = true
	}
}
