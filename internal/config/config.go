// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/popzy/internal/modal"
)

// Default configuration values.
const (
	DefaultScrollbarWidth = 1
	DefaultMarkdownStyle  = "auto"
	DefaultDialogWidth    = 60
	DefaultBorderColor    = "63"
)

// MarkdownStyles are the glamour styles accepted by tui.markdown_style.
var MarkdownStyles = []string{"auto", "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night"}

// Config represents the popzy configuration.
type Config struct {
	Modal  ModalConfig           `toml:"modal"`
	TUI    TUIConfig             `toml:"tui"`
	Paths  PathsConfig           `toml:"paths"`
	Styles map[string]ClassStyle `toml:"styles"` // Keyed by container class name
}

// ModalConfig holds defaults applied to every dialog.
type ModalConfig struct {
	BaseDepth      int      `toml:"base_depth"`
	ShowDelay      Duration `toml:"show_delay"`
	Transition     Duration `toml:"transition"` // 0 = no transition
	CloseMethods   []string `toml:"close_methods"`
	DestroyOnClose bool     `toml:"destroy_on_close"`
	LockScroll     bool     `toml:"lock_scroll"`
	Footer         bool     `toml:"footer"`
}

// TUIConfig holds terminal host settings.
type TUIConfig struct {
	ScrollbarWidth int    `toml:"scrollbar_width"`
	Mouse          bool   `toml:"mouse"`
	MarkdownStyle  string `toml:"markdown_style"`
	Page           string `toml:"page"` // Page text file, empty = built-in
	ShowHelp       bool   `toml:"show_help"`
	DialogWidth    int    `toml:"dialog_width"`
	BorderColor    string `toml:"border_color"`
}

// PathsConfig locates user dialog definitions and templates.
type PathsConfig struct {
	Catalog   string `toml:"catalog"`   // dialogs.yaml, empty = embedded only
	Templates string `toml:"templates"` // Directory of *.md templates
}

// ClassStyle overrides how containers carrying a class are painted.
type ClassStyle struct {
	Width       int    `toml:"width,omitempty"`
	BorderColor string `toml:"border_color,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	methods := make([]string, len(modal.AllCloseMethods))
	for i, m := range modal.AllCloseMethods {
		methods[i] = string(m)
	}
	return &Config{
		Modal: ModalConfig{
			BaseDepth:      modal.DefaultBaseDepth,
			ShowDelay:      Duration(modal.DefaultShowDelay),
			Transition:     Duration(modal.DefaultTransition),
			CloseMethods:   methods,
			DestroyOnClose: true,
			LockScroll:     true,
			Footer:         false,
		},
		TUI: TUIConfig{
			ScrollbarWidth: DefaultScrollbarWidth,
			Mouse:          true,
			MarkdownStyle:  DefaultMarkdownStyle,
			ShowHelp:       true,
			DialogWidth:    DefaultDialogWidth,
			BorderColor:    DefaultBorderColor,
		},
		Paths: PathsConfig{
			Templates: TemplatesPath(),
		},
		Styles: make(map[string]ClassStyle),
	}
}

// configHome returns XDG_CONFIG_HOME, falling back to ~/.config.
func configHome() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return dir
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	dir := configHome()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "popzy", "config.toml")
}

// TemplatesPath returns the default user template directory.
func TemplatesPath() string {
	dir := configHome()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "popzy", "templates")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Styles == nil {
		cfg.Styles = make(map[string]ClassStyle)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Modal.BaseDepth < 0 {
		return fmt.Errorf("base_depth must not be negative, got %d", c.Modal.BaseDepth)
	}
	if c.Modal.ShowDelay < 0 || c.Modal.Transition < 0 {
		return errors.New("show_delay and transition must not be negative")
	}
	if _, err := c.CloseMethods(); err != nil {
		return err
	}

	if c.TUI.ScrollbarWidth < 0 || c.TUI.ScrollbarWidth > 4 {
		return fmt.Errorf("scrollbar_width must be between 0 and 4, got %d", c.TUI.ScrollbarWidth)
	}
	if !slices.Contains(MarkdownStyles, c.TUI.MarkdownStyle) {
		return fmt.Errorf("invalid markdown_style %q, must be one of: %v", c.TUI.MarkdownStyle, MarkdownStyles)
	}
	if c.TUI.DialogWidth < 10 {
		return fmt.Errorf("dialog_width must be at least 10, got %d", c.TUI.DialogWidth)
	}
	for class, st := range c.Styles {
		if st.Width != 0 && st.Width < 10 {
			return fmt.Errorf("styles.%s: width must be at least 10, got %d", class, st.Width)
		}
	}

	return nil
}

// CloseMethods returns the configured default dismissal gestures.
func (c *Config) CloseMethods() ([]modal.CloseMethod, error) {
	methods := make([]modal.CloseMethod, 0, len(c.Modal.CloseMethods))
	for _, s := range c.Modal.CloseMethods {
		m, err := modal.ParseCloseMethod(s)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// DialogOptions converts the [modal] section into dialog options.
func (c *Config) DialogOptions() ([]modal.Option, error) {
	methods, err := c.CloseMethods()
	if err != nil {
		return nil, err
	}
	return []modal.Option{
		modal.WithShowDelay(c.Modal.ShowDelay.Duration()),
		modal.WithCloseMethods(methods...),
		modal.WithDestroyOnClose(c.Modal.DestroyOnClose),
		modal.WithScrollLock(c.Modal.LockScroll),
		modal.WithFooter(c.Modal.Footer),
		modal.WithRenderer(modal.DOMRenderer{Transition: c.TransitionSetting()}),
	}, nil
}

// TransitionSetting maps the configured transition onto DOMRenderer's
// convention, where zero means the default and negative means none.
func (c *Config) TransitionSetting() time.Duration {
	if c.Modal.Transition == 0 {
		return -1
	}
	return c.Modal.Transition.Duration()
}

// StyleFor returns the merged style for a container's classes. Later
// classes override earlier ones.
func (c *Config) StyleFor(classes []string) ClassStyle {
	st := ClassStyle{Width: c.TUI.DialogWidth, BorderColor: c.TUI.BorderColor}
	for _, class := range classes {
		o, ok := c.Styles[class]
		if !ok {
			continue
		}
		if o.Width != 0 {
			st.Width = o.Width
		}
		if o.BorderColor != "" {
			st.BorderColor = o.BorderColor
		}
	}
	return st
}
