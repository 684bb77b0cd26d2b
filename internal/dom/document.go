package dom

// Default platform metrics.
const (
	DefaultViewportWidth  = 80
	DefaultViewportHeight = 24
	DefaultScrollbarWidth = 1
)

// Document is the root of an element tree.
type Document struct {
	root *Element
	head *Element
	body *Element

	scheduler      Scheduler
	viewportWidth  int
	viewportHeight int
	scrollbarWidth int
}

// Option configures a Document.
type Option func(*Document)

// WithViewport sets the viewport size in cells.
func WithViewport(width, height int) Option {
	return func(d *Document) {
		d.viewportWidth = width
		d.viewportHeight = height
	}
}

// WithScrollbarWidth sets how many cells a scrollbar occupies.
func WithScrollbarWidth(w int) Option {
	return func(d *Document) {
		d.scrollbarWidth = w
	}
}

// NewDocument creates a document with html, head and body elements.
func NewDocument(scheduler Scheduler, opts ...Option) *Document {
	d := &Document{
		scheduler:      scheduler,
		viewportWidth:  DefaultViewportWidth,
		viewportHeight: DefaultViewportHeight,
		scrollbarWidth: DefaultScrollbarWidth,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.root = d.newElement("html")
	d.head = d.newElement("head")
	d.body = d.newElement("body")
	d.root.Append(d.head, d.body)
	return d
}

func (d *Document) newElement(tag string) *Element {
	return &Element{doc: d, tag: tag, style: make(map[string]string)}
}

// DocumentElement returns the html element.
func (d *Document) DocumentElement() *Element { return d.root }

// Head returns the head element, where templates live.
func (d *Document) Head() *Element { return d.head }

// Body returns the body element.
func (d *Document) Body() *Element { return d.body }

// Scheduler returns the scheduler driving deferred callbacks.
func (d *Document) Scheduler() Scheduler { return d.scheduler }

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) *Element {
	return d.newElement(tag)
}

// CreateTemplate creates a detached template element whose content
// fragment holds a single div with the given markup.
func (d *Document) CreateTemplate(id, markup string) *Element {
	t := d.newElement(TagTemplate)
	t.id = id
	t.content = d.newElement(TagFragment)
	div := d.newElement("div")
	div.markup = markup
	t.content.Append(div)
	return t
}

// GetElementByID returns the first connected element with id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.root.Walk(func(e *Element) bool {
		if found != nil {
			return false
		}
		if e.id == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// SetViewport updates the viewport size.
func (d *Document) SetViewport(width, height int) {
	d.viewportWidth = width
	d.viewportHeight = height
}

// Viewport returns the viewport size.
func (d *Document) Viewport() (width, height int) {
	return d.viewportWidth, d.viewportHeight
}

// SetScrollbarWidth updates the platform scrollbar width.
func (d *Document) SetScrollbarWidth(w int) { d.scrollbarWidth = w }

// ScrollbarWidth returns the platform scrollbar width.
func (d *Document) ScrollbarWidth() int { return d.scrollbarWidth }

// ComputedStyle resolves the inline style of el.
func (d *Document) ComputedStyle(el *Element) ComputedStyle {
	return ComputedStyle{
		PaddingRight: parseLength(el.style["padding-right"]),
		ZIndex:       parseLength(el.style["z-index"]),
		Overflow:     el.style["overflow"],
	}
}
