package catalog

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jmylchreest/popzy/internal/dom"
	"github.com/jmylchreest/popzy/internal/modal"
)

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func newSession(t *testing.T, cat *Catalog) (*Session, *dom.ManualClock) {
	t.Helper()
	clock := dom.NewManualClock()
	doc := dom.NewDocument(clock)
	cat.Install(doc)
	coord := modal.NewCoordinator(doc)
	return NewSession(cat, coord, modal.WithRenderer(modal.DOMRenderer{Transition: -1})), clock
}

func TestParse(t *testing.T) {
	data := []byte(`
dialogs:
  - id: a
    content: hello
    classes: [one, 2, " two ", true]
    buttons:
      - label: Go
        action: open:b
  - id: b
    template: t
    close_methods: [escape]
    destroy_on_close: false
`)
	defs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, "a", defs[0].ID)
	assert.Equal(t, "hello", defs[0].Content)
	assert.Equal(t, "open:b", defs[0].Buttons[0].Action)
	assert.Equal(t, []string{"escape"}, defs[1].CloseMethods)
	require.NotNil(t, defs[1].DestroyOnClose)
	assert.False(t, *defs[1].DestroyOnClose)
	assert.Nil(t, defs[1].LockScroll)

	var buf bytes.Buffer
	assert.Equal(t, []string{"one", " two "}, defs[0].ClassNames(quietLogger(&buf)))
	assert.Contains(t, buf.String(), "invalid class name")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "dialogs: [\n"},
		{"missing id", "dialogs:\n  - content: x\n"},
		{"duplicate id", "dialogs:\n  - id: a\n    content: x\n  - id: a\n    content: y\n"},
		{"bad action", "dialogs:\n  - id: a\n    content: x\n    buttons:\n      - label: b\n        action: explode\n"},
		{"open without target", "dialogs:\n  - id: a\n    content: x\n    buttons:\n      - label: b\n        action: \"open:\"\n"},
		{"bad close method", "dialogs:\n  - id: a\n    content: x\n    close_methods: [swipe]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"", Action{Kind: ActionNone}},
		{"close", Action{Kind: ActionClose}},
		{" destroy ", Action{Kind: ActionDestroy}},
		{"open:terms", Action{Kind: ActionOpen, Target: "terms"}},
		{"open: terms ", Action{Kind: ActionOpen, Target: "terms"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAction(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_Embedded(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	def, err := cat.Lookup("welcome")
	require.NoError(t, err)
	assert.Equal(t, "Welcome", def.Name())
	assert.Contains(t, cat.Templates(), "terms")
	assert.Contains(t, cat.Templates(), "details")

	src, ok := cat.TemplateSource("terms")
	require.True(t, ok)
	assert.Equal(t, SourceEmbedded, src)
}

func TestLoad_UserCatalogMerges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dialogs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dialogs:
  - id: welcome
    content: replaced
  - id: extra
    content: new
`), 0644))

	cat, err := Load(path)
	require.NoError(t, err)

	def, err := cat.Lookup("welcome")
	require.NoError(t, err)
	assert.Equal(t, "replaced", def.Content)

	defs := cat.Definitions()
	assert.Equal(t, "welcome", defs[0].ID)
	assert.Equal(t, "extra", defs[len(defs)-1].ID)
}

func TestLoad_MissingUserCatalog(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Definitions())
}

func TestLoad_InvalidUserCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialogs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialogs:\n  - content: no id\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTemplatesDirOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terms.md"), []byte("custom terms"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.md"), []byte("mine"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	cat, err := Load("", WithTemplatesDir(dir))
	require.NoError(t, err)

	assert.Equal(t, []string{"details", "mine", "terms"}, cat.Templates())
	src, _ := cat.TemplateSource("terms")
	assert.Equal(t, filepath.Join(dir, "terms.md"), src)

	doc := dom.NewDocument(dom.NewManualClock())
	cat.Install(doc)
	tmpl := doc.GetElementByID("terms")
	require.NotNil(t, tmpl)
	assert.Equal(t, dom.TagTemplate, tmpl.Tag())
	assert.Equal(t, "custom terms", tmpl.Content().Children()[0].Markup())
}

func TestInstallReplacesTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	cat, err := Load("", WithTemplatesDir(dir))
	require.NoError(t, err)
	doc := dom.NewDocument(dom.NewManualClock())
	cat.Install(doc)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))
	require.NoError(t, cat.ReloadTemplates())
	cat.Install(doc)

	count := 0
	for _, el := range doc.Head().Children() {
		if el.ID() == "note" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "v2", doc.GetElementByID("note").Content().Children()[0].Markup())
}

func TestLookupSuggests(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)

	_, err = cat.Lookup("welcom")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDialog))
	assert.Contains(t, err.Error(), "did you mean welcome")

	assert.Equal(t, "terms", cat.Suggest("trm")[0])
	assert.Empty(t, cat.Suggest(""))
}

func TestSession_OpenAndReuse(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	s, clock := newSession(t, cat)

	terms, err := s.Open("terms")
	require.NoError(t, err)
	clock.Flush()
	assert.True(t, terms.IsOpen())
	require.NotNil(t, terms.Footer())
	assert.Len(t, terms.FooterButtons(), 3)
	assert.Equal(t, "Read to the end before agreeing.",
		terms.Footer().QueryClass(modal.ClassFooterContent).Markup())
	assert.True(t, terms.Container().ClassList().Contains("popzy--wide"))

	// Retained on close, so the same instance comes back.
	terms.Close()
	again, err := s.Open("terms")
	require.NoError(t, err)
	assert.Same(t, terms, again)

	id, ok := s.DefinitionID(terms)
	require.True(t, ok)
	assert.Equal(t, "terms", id)

	// Destroyed dialogs are rebuilt.
	welcome, err := s.Open("welcome")
	require.NoError(t, err)
	welcome.Close()
	assert.True(t, welcome.IsDestroyed())
	rebuilt, err := s.Open("welcome")
	require.NoError(t, err)
	assert.NotSame(t, welcome, rebuilt)
	_, ok = s.DefinitionID(welcome)
	assert.False(t, ok)
}

func TestSession_ButtonActions(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	s, clock := newSession(t, cat)
	coord := s.Coordinator()

	terms, err := s.Open("terms")
	require.NoError(t, err)
	clock.Flush()

	buttons := terms.FooterButtons()
	// Details opens another dialog on top.
	buttons[1].Element().Dispatch(dom.NewEvent(dom.EventClick))
	require.Equal(t, 2, coord.Len())
	details, ok := s.Dialog("details")
	require.True(t, ok)
	assert.Same(t, details, coord.Top())

	details.Close()
	// Agree closes but retains.
	buttons[0].Element().Dispatch(dom.NewEvent(dom.EventClick))
	assert.Equal(t, 0, coord.Len())
	assert.False(t, terms.IsDestroyed())

	// Cancel destroys.
	_, err = s.Open("terms")
	require.NoError(t, err)
	buttons[2].Element().Dispatch(dom.NewEvent(dom.EventClick))
	assert.True(t, terms.IsDestroyed())
}

func TestSession_DefinitionOverrides(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	s, _ := newSession(t, cat)

	sticky, err := s.Open("sticky")
	require.NoError(t, err)
	s.Coordinator().Document().Body().Dispatch(dom.NewKeyEvent(dom.KeyEscape))
	assert.True(t, sticky.IsOpen(), "escape is not an enabled close method")

	sticky.Close()
	unlocked, err := s.Open("unlocked")
	require.NoError(t, err)
	assert.True(t, unlocked.IsOpen())
	assert.False(t, s.Coordinator().ScrollLocked())
}

func TestSession_Errors(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	s, _ := newSession(t, cat)

	_, err = s.Open("nope")
	assert.ErrorIs(t, err, ErrUnknownDialog)

	_, err = s.Build(Definition{ID: "empty"})
	assert.ErrorIs(t, err, modal.ErrNoContent)

	_, err = s.Build(Definition{ID: "typo", Template: "trms"})
	require.ErrorIs(t, err, modal.ErrTemplateNotFound)
	assert.Contains(t, err.Error(), "did you mean terms")
}

func TestWatcher(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	changed := make(chan string, 8)
	w, err := NewWatcher(dir, func(name string) { changed <- name }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.md"), []byte("hi"), 0644))

	select {
	case name := <-changed:
		assert.Equal(t, "hello.md", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_MissingDir(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing"), func(string) {}, nil)
	require.NoError(t, err)
	assert.Error(t, w.Start())
	assert.NoError(t, w.Stop())
}
