package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/popzy/internal/modal"
)

// Definition describes one dialog in a catalog file.
type Definition struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title,omitempty"`
	Content       string   `yaml:"content,omitempty"`
	Template      string   `yaml:"template,omitempty"`
	Classes       []any    `yaml:"classes,omitempty"`
	Footer        bool     `yaml:"footer,omitempty"`
	FooterContent string   `yaml:"footer_content,omitempty"`
	Buttons       []Button `yaml:"buttons,omitempty"`

	// Nil fields fall back to the configured defaults.
	CloseMethods   []string `yaml:"close_methods,omitempty"`
	DestroyOnClose *bool    `yaml:"destroy_on_close,omitempty"`
	LockScroll     *bool    `yaml:"lock_scroll,omitempty"`
}

// Button is a footer button definition.
type Button struct {
	Label  string `yaml:"label"`
	Class  string `yaml:"class,omitempty"`
	Action string `yaml:"action,omitempty"`
}

// ActionKind is what a footer button does when clicked.
type ActionKind string

const (
	ActionNone    ActionKind = ""
	ActionClose   ActionKind = "close"
	ActionDestroy ActionKind = "destroy"
	ActionOpen    ActionKind = "open"
)

// Action is a parsed button action.
type Action struct {
	Kind   ActionKind
	Target string // Dialog id for ActionOpen
}

// ParseAction parses "close", "destroy" or "open:<id>". Empty means the
// button does nothing.
func ParseAction(s string) (Action, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Action{Kind: ActionNone}, nil
	case s == string(ActionClose):
		return Action{Kind: ActionClose}, nil
	case s == string(ActionDestroy):
		return Action{Kind: ActionDestroy}, nil
	case strings.HasPrefix(s, string(ActionOpen)+":"):
		target := strings.TrimSpace(strings.TrimPrefix(s, string(ActionOpen)+":"))
		if target == "" {
			return Action{}, fmt.Errorf("action %q: missing dialog id", s)
		}
		return Action{Kind: ActionOpen, Target: target}, nil
	default:
		return Action{}, fmt.Errorf("unknown action %q", s)
	}
}

type definitionsFile struct {
	Dialogs []Definition `yaml:"dialogs"`
}

// Parse decodes and validates a definitions document.
func Parse(data []byte) ([]Definition, error) {
	var f definitionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse definitions: %w", err)
	}

	seen := make(map[string]bool, len(f.Dialogs))
	for i, d := range f.Dialogs {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("dialog %d: missing id", i)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("dialog %q: duplicate id", d.ID)
		}
		seen[d.ID] = true
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("dialog %q: %w", d.ID, err)
		}
	}
	return f.Dialogs, nil
}

// Validate checks fields that would otherwise fail when the dialog is
// built. A missing content source is left to dialog construction.
func (d Definition) Validate() error {
	var errs []error
	for _, b := range d.Buttons {
		if _, err := ParseAction(b.Action); err != nil {
			errs = append(errs, fmt.Errorf("button %q: %w", b.Label, err))
		}
	}
	for _, m := range d.CloseMethods {
		if _, err := modal.ParseCloseMethod(m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ClassNames returns the string entries of Classes. Other values are
// skipped with a warning.
func (d Definition) ClassNames(logger *slog.Logger) []string {
	names := make([]string, 0, len(d.Classes))
	for _, c := range d.Classes {
		s, ok := c.(string)
		if !ok {
			logger.Warn("invalid class name", "dialog", d.ID, "class", c)
			continue
		}
		names = append(names, s)
	}
	return names
}

// Name returns the title, or the id when no title is set.
func (d Definition) Name() string {
	if d.Title != "" {
		return d.Title
	}
	return d.ID
}
