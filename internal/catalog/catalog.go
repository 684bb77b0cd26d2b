// Package catalog loads dialog definitions and content templates, and
// builds dialogs from them.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jmylchreest/popzy/internal/dom"
)

//go:embed defaults/dialogs.yaml defaults/templates/*.md
var embedded embed.FS

const (
	embeddedDefinitions = "defaults/dialogs.yaml"
	embeddedTemplates   = "defaults/templates"
	templateExt         = ".md"

	// SourceEmbedded marks a template that ships with the binary.
	SourceEmbedded = "embedded"
)

// ErrUnknownDialog is returned when a dialog id is not in the catalog.
var ErrUnknownDialog = errors.New("unknown dialog")

// Catalog holds dialog definitions and template markup.
type Catalog struct {
	defs         []Definition
	templates    map[string]template
	templatesDir string
	logger       *slog.Logger
}

type template struct {
	markup string
	source string // SourceEmbedded or the file path
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithTemplatesDir sets the directory whose *.md files become templates.
// Directory templates override embedded ones with the same id.
func WithTemplatesDir(dir string) Option {
	return func(c *Catalog) {
		c.templatesDir = dir
	}
}

// WithLogger sets the catalog's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Load builds a catalog from the embedded defaults, then the definitions
// file at path (if not empty) and the templates directory (if configured).
// A missing definitions file or templates directory is not an error.
func Load(path string, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		templates: make(map[string]template),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	data, err := embedded.ReadFile(embeddedDefinitions)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded definitions: %w", err)
	}
	defs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("embedded definitions: %w", err)
	}
	c.defs = defs

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			c.logger.Debug("no user catalog", "path", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		default:
			user, err := Parse(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			c.merge(user)
		}
	}

	if err := c.ReloadTemplates(); err != nil {
		return nil, err
	}
	return c, nil
}

// merge replaces definitions with matching ids and appends the rest.
func (c *Catalog) merge(defs []Definition) {
	for _, d := range defs {
		if i := c.index(d.ID); i >= 0 {
			c.defs[i] = d
			continue
		}
		c.defs = append(c.defs, d)
	}
}

func (c *Catalog) index(id string) int {
	return slices.IndexFunc(c.defs, func(d Definition) bool { return d.ID == id })
}

// ReloadTemplates rereads embedded and directory templates.
func (c *Catalog) ReloadTemplates() error {
	templates := make(map[string]template)

	entries, err := embedded.ReadDir(embeddedTemplates)
	if err != nil {
		return fmt.Errorf("failed to read embedded templates: %w", err)
	}
	for _, entry := range entries {
		id, ok := templateID(entry)
		if !ok {
			continue
		}
		data, err := embedded.ReadFile(embeddedTemplates + "/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read embedded template %s: %w", id, err)
		}
		templates[id] = template{markup: string(data), source: SourceEmbedded}
	}

	if c.templatesDir != "" {
		entries, err := os.ReadDir(c.templatesDir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read templates directory: %w", err)
		}
		for _, entry := range entries {
			id, ok := templateID(entry)
			if !ok {
				continue
			}
			path := filepath.Join(c.templatesDir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				c.logger.Warn("skipping unreadable template", "path", path, "error", err)
				continue
			}
			templates[id] = template{markup: string(data), source: path}
		}
	}

	c.templates = templates
	c.logger.Debug("templates loaded", "count", len(templates), "dir", c.templatesDir)
	return nil
}

func templateID(entry fs.DirEntry) (string, bool) {
	if entry.IsDir() || !strings.HasSuffix(entry.Name(), templateExt) {
		return "", false
	}
	return strings.TrimSuffix(entry.Name(), templateExt), true
}

// TemplatesDir returns the configured templates directory.
func (c *Catalog) TemplatesDir() string { return c.templatesDir }

// Definitions returns the dialog definitions in catalog order.
func (c *Catalog) Definitions() []Definition {
	return slices.Clone(c.defs)
}

// Lookup returns the definition with id.
func (c *Catalog) Lookup(id string) (Definition, error) {
	if i := c.index(id); i >= 0 {
		return c.defs[i], nil
	}
	ids := make([]string, len(c.defs))
	for i, d := range c.defs {
		ids[i] = d.ID
	}
	return Definition{}, fmt.Errorf("%w %q%s", ErrUnknownDialog, id, didYouMean(id, ids))
}

// Templates returns the template ids, sorted.
func (c *Catalog) Templates() []string {
	ids := make([]string, 0, len(c.templates))
	for id := range c.templates {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// TemplateSource returns where a template was loaded from.
func (c *Catalog) TemplateSource(id string) (string, bool) {
	t, ok := c.templates[id]
	return t.source, ok
}

// Install writes every template into doc's head, replacing templates with
// the same id. Dialogs already built keep the content they cloned.
func (c *Catalog) Install(doc *dom.Document) {
	for _, id := range c.Templates() {
		if old := doc.GetElementByID(id); old != nil && old.Tag() == dom.TagTemplate {
			old.Remove()
		}
		doc.Head().Append(doc.CreateTemplate(id, c.templates[id].markup))
	}
}

// Suggest returns known template ids closest to id, best first.
func (c *Catalog) Suggest(id string) []string {
	return suggest(id, c.Templates())
}

func suggest(pattern string, candidates []string) []string {
	if pattern == "" {
		return nil
	}
	matches := fuzzy.Find(pattern, candidates)
	out := make([]string, 0, 3)
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == cap(out) {
			break
		}
	}
	return out
}

func didYouMean(pattern string, candidates []string) string {
	s := suggest(pattern, candidates)
	if len(s) == 0 {
		return ""
	}
	return fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
}
