package modal

import (
	"log/slog"
	"strings"
	"time"

	"github.com/jmylchreest/popzy/internal/dom"
)

// Class names forming the dialog structure.
const (
	ClassBackdrop      = "popzy__backdrop"
	ClassContainer     = "popzy__container"
	ClassContent       = "popzy__content"
	ClassFooter        = "popzy__footer"
	ClassFooterContent = "popzy__footer-content"
	ClassClose         = "popzy__close"
	ClassButton        = "popzy__btn"
	ClassShow          = "show"
	ClassNoScroll      = "popzy__no-scroll"
)

// CloseGlyph is the label of the close button.
const CloseGlyph = "×"

// DefaultTransition is the backdrop transition duration used by
// DOMRenderer when none is configured.
const DefaultTransition = 180 * time.Millisecond

// BuildInput is everything a Renderer needs to build a dialog.
type BuildInput struct {
	// Content is literal markup. Empty when Template is set.
	Content string
	// Template is the template element to clone, or nil.
	Template *dom.Element

	Classes       []string
	Footer        bool
	FooterContent string
	FooterButtons []*dom.Element
	CloseButton   bool
}

// Parts are the elements a Renderer produced. Backdrop wraps Container;
// Container holds Content, then Footer (if enabled), then CloseButton (if
// enabled).
type Parts struct {
	Backdrop      *dom.Element
	Container     *dom.Element
	Content       *dom.Element
	Footer        *dom.Element
	FooterContent *dom.Element
	CloseButton   *dom.Element
}

// Renderer builds the element tree for a dialog. The returned tree is
// detached; the dialog inserts it into the document.
type Renderer interface {
	Build(doc *dom.Document, in BuildInput) Parts
}

// DOMRenderer is the default Renderer.
type DOMRenderer struct {
	// Transition is the backdrop's show/hide transition duration.
	// Zero uses DefaultTransition; negative disables transitions.
	Transition time.Duration
	Logger     *slog.Logger
}

// Build implements Renderer.
func (r DOMRenderer) Build(doc *dom.Document, in BuildInput) Parts {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var p Parts
	p.Backdrop = doc.CreateElement("div")
	p.Backdrop.ClassList().Add(ClassBackdrop)
	switch {
	case r.Transition > 0:
		p.Backdrop.SetTransition(r.Transition)
	case r.Transition == 0:
		p.Backdrop.SetTransition(DefaultTransition)
	}

	p.Container = doc.CreateElement("div")
	p.Container.ClassList().Add(ClassContainer)
	p.Container.ClassList().Add(ValidClasses(in.Classes, logger)...)

	p.Content = doc.CreateElement("div")
	p.Content.ClassList().Add(ClassContent)
	if in.Template != nil && in.Content == "" {
		p.Content.Append(in.Template.CloneContent())
	} else {
		body := doc.CreateElement("div")
		body.SetMarkup(in.Content)
		p.Content.Append(body)
	}
	p.Container.Append(p.Content)

	if in.Footer {
		p.Footer = doc.CreateElement("div")
		p.Footer.ClassList().Add(ClassFooter)
		p.FooterContent = doc.CreateElement("div")
		p.FooterContent.ClassList().Add(ClassFooterContent)
		p.FooterContent.SetMarkup(in.FooterContent)
		p.Footer.Append(p.FooterContent)
		p.Footer.Append(in.FooterButtons...)
		p.Container.Append(p.Footer)
	}

	p.Backdrop.Append(p.Container)

	if in.CloseButton {
		p.CloseButton = NewButton(doc, CloseGlyph, ClassClose)
		p.Container.Append(p.CloseButton)
	}

	return p
}

// NewButton creates a button element with a label and class names.
func NewButton(doc *dom.Document, label, className string) *dom.Element {
	b := doc.CreateElement("button")
	b.SetMarkup(label)
	b.SetClassName(className)
	return b
}

// ValidClasses trims class names and drops blank ones, logging a warning
// for each dropped entry.
func ValidClasses(classes []string, logger *slog.Logger) []string {
	valid := make([]string, 0, len(classes))
	for _, c := range classes {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			logger.Warn("invalid class name", "class", c)
			continue
		}
		valid = append(valid, trimmed)
	}
	return valid
}
