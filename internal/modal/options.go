package modal

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jmylchreest/popzy/internal/dom"
)

// CloseMethod is a dismissal gesture.
type CloseMethod string

const (
	CloseButton   CloseMethod = "button"
	CloseBackdrop CloseMethod = "backdrop"
	CloseEscape   CloseMethod = "escape"
)

// AllCloseMethods lists every dismissal gesture.
var AllCloseMethods = []CloseMethod{CloseButton, CloseBackdrop, CloseEscape}

// ParseCloseMethod converts a config string into a CloseMethod.
func ParseCloseMethod(s string) (CloseMethod, error) {
	m := CloseMethod(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllCloseMethods, m) {
		return "", fmt.Errorf("unknown close method %q", s)
	}
	return m, nil
}

// DefaultShowDelay is how long Open waits before applying the shown class,
// so the insertion is painted before the opening transition starts.
const DefaultShowDelay = 5 * time.Millisecond

// settings are fixed when the dialog is created.
type settings struct {
	content          string
	templateID       string
	destroyOnClose   bool
	classes          []string
	footer           bool
	closeMethods     []CloseMethod
	lockScroll       bool
	scrollLockTarget func() *dom.Element
	onOpen           func(*Dialog)
	onClose          func(*Dialog)
	showDelay        time.Duration
	renderer         Renderer
	logger           *slog.Logger
}

func defaultSettings() settings {
	return settings{
		destroyOnClose: true,
		closeMethods:   slices.Clone(AllCloseMethods),
		lockScroll:     true,
		showDelay:      DefaultShowDelay,
	}
}

func (s settings) allows(m CloseMethod) bool {
	return slices.Contains(s.closeMethods, m)
}

// Option configures a Dialog.
type Option func(*settings)

// WithContent sets literal markup content. It takes precedence over
// WithTemplate.
func WithContent(markup string) Option {
	return func(s *settings) {
		s.content = markup
	}
}

// WithTemplate sets the id of a template element whose content is cloned
// into the dialog.
func WithTemplate(id string) Option {
	return func(s *settings) {
		s.templateID = id
	}
}

// WithDestroyOnClose sets whether Close removes the dialog's elements
// (default: true).
func WithDestroyOnClose(destroy bool) Option {
	return func(s *settings) {
		s.destroyOnClose = destroy
	}
}

// WithClasses adds custom classes to the container. Blank entries are
// skipped with a warning when the dialog is built.
func WithClasses(classes ...string) Option {
	return func(s *settings) {
		s.classes = append(s.classes, classes...)
	}
}

// WithFooter enables the footer region (default: false).
func WithFooter(show bool) Option {
	return func(s *settings) {
		s.footer = show
	}
}

// WithCloseMethods sets the enabled dismissal gestures (default: all).
// Passing none disables them all.
func WithCloseMethods(methods ...CloseMethod) Option {
	return func(s *settings) {
		s.closeMethods = slices.Clone(methods)
	}
}

// WithScrollLock sets whether the page scroll is locked while open
// (default: true).
func WithScrollLock(lock bool) Option {
	return func(s *settings) {
		s.lockScroll = lock
	}
}

// WithScrollLockTarget sets the provider of the element whose scrolling is
// locked (default: the document body).
func WithScrollLockTarget(fn func() *dom.Element) Option {
	return func(s *settings) {
		s.scrollLockTarget = fn
	}
}

// WithOnOpen sets a callback invoked after each Open.
func WithOnOpen(fn func(*Dialog)) Option {
	return func(s *settings) {
		s.onOpen = fn
	}
}

// WithOnClose sets a callback invoked at the start of each Close.
func WithOnClose(fn func(*Dialog)) Option {
	return func(s *settings) {
		s.onClose = fn
	}
}

// WithShowDelay overrides DefaultShowDelay.
func WithShowDelay(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.showDelay = d
		}
	}
}

// WithRenderer replaces the default DOMRenderer.
func WithRenderer(r Renderer) Option {
	return func(s *settings) {
		s.renderer = r
	}
}

// WithLogger sets the logger for warnings (default: the coordinator's).
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// CloseOption configures a single Close call.
type CloseOption func(*bool)

// WithDestroy overrides the dialog's destroy-on-close setting.
func WithDestroy(destroy bool) CloseOption {
	return func(d *bool) {
		*d = destroy
	}
}
