package catalog

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/popzy/internal/modal"
)

// Session opens catalog dialogs on one coordinator. Dialogs that are
// retained after closing are reused by later opens of the same id.
type Session struct {
	catalog *Catalog
	coord   *modal.Coordinator
	base    []modal.Option
	logger  *slog.Logger

	dialogs map[string]*modal.Dialog
	ids     map[*modal.Dialog]string
}

// NewSession creates a session. base options apply to every dialog before
// the definition's own settings.
func NewSession(cat *Catalog, coord *modal.Coordinator, base ...modal.Option) *Session {
	return &Session{
		catalog: cat,
		coord:   coord,
		base:    base,
		logger:  cat.logger,
		dialogs: make(map[string]*modal.Dialog),
		ids:     make(map[*modal.Dialog]string),
	}
}

// Catalog returns the session's catalog.
func (s *Session) Catalog() *Catalog { return s.catalog }

// Coordinator returns the session's coordinator.
func (s *Session) Coordinator() *modal.Coordinator { return s.coord }

// Open opens the dialog with id, building it on first use or after it
// was destroyed.
func (s *Session) Open(id string) (*modal.Dialog, error) {
	d := s.dialogs[id]
	if d == nil || d.IsDestroyed() {
		def, err := s.catalog.Lookup(id)
		if err != nil {
			return nil, err
		}
		if d, err = s.Build(def); err != nil {
			return nil, err
		}
	}
	if _, err := d.Open(); err != nil {
		return nil, fmt.Errorf("open %q: %w", id, err)
	}
	s.logger.Debug("dialog opened", "id", id, "dialog", d.ID(), "stack", s.coord.Len())
	return d, nil
}

// Build creates a dialog from def without opening it.
func (s *Session) Build(def Definition) (*modal.Dialog, error) {
	opts := append([]modal.Option(nil), s.base...)
	opts = append(opts, def.Options(s.logger)...)

	d, err := modal.New(s.coord, opts...)
	if err != nil {
		if errors.Is(err, modal.ErrTemplateNotFound) {
			return nil, fmt.Errorf("dialog %q: %w%s", def.ID, err, didYouMean(def.Template, s.catalog.Templates()))
		}
		return nil, fmt.Errorf("dialog %q: %w", def.ID, err)
	}

	if def.FooterContent != "" {
		d.SetFooterContent(def.FooterContent)
	}
	for _, b := range def.Buttons {
		action, err := ParseAction(b.Action)
		if err != nil {
			return nil, fmt.Errorf("dialog %q: %w", def.ID, err)
		}
		d.AddFooterButton(b.Label, b.Class, s.handler(action))
	}

	if old := s.dialogs[def.ID]; old != nil {
		delete(s.ids, old)
	}
	s.dialogs[def.ID] = d
	s.ids[d] = def.ID
	return d, nil
}

func (s *Session) handler(a Action) func(*modal.Dialog) {
	switch a.Kind {
	case ActionClose:
		return func(d *modal.Dialog) { d.Close() }
	case ActionDestroy:
		return func(d *modal.Dialog) { d.Destroy() }
	case ActionOpen:
		return func(*modal.Dialog) {
			if _, err := s.Open(a.Target); err != nil {
				s.logger.Warn("button action failed", "target", a.Target, "error", err)
			}
		}
	default:
		return nil
	}
}

// Dialog returns the dialog last built for id, if any.
func (s *Session) Dialog(id string) (*modal.Dialog, bool) {
	d, ok := s.dialogs[id]
	return d, ok
}

// DefinitionID returns the catalog id a dialog was built from.
func (s *Session) DefinitionID(d *modal.Dialog) (string, bool) {
	id, ok := s.ids[d]
	return id, ok
}

// Options converts a definition into dialog options.
func (d Definition) Options(logger *slog.Logger) []modal.Option {
	opts := []modal.Option{
		modal.WithContent(d.Content),
		modal.WithTemplate(d.Template),
		modal.WithClasses(d.ClassNames(logger)...),
	}
	if d.Footer || len(d.Buttons) > 0 || d.FooterContent != "" {
		opts = append(opts, modal.WithFooter(true))
	}
	if d.CloseMethods != nil {
		methods := make([]modal.CloseMethod, 0, len(d.CloseMethods))
		for _, m := range d.CloseMethods {
			if cm, err := modal.ParseCloseMethod(m); err == nil {
				methods = append(methods, cm)
			}
		}
		opts = append(opts, modal.WithCloseMethods(methods...))
	}
	if d.DestroyOnClose != nil {
		opts = append(opts, modal.WithDestroyOnClose(*d.DestroyOnClose))
	}
	if d.LockScroll != nil {
		opts = append(opts, modal.WithScrollLock(*d.LockScroll))
	}
	if logger != nil {
		opts = append(opts, modal.WithLogger(logger.With("catalog_id", d.ID)))
	}
	return opts
}
