package tui

import (
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/popzy/internal/config"
	"github.com/jmylchreest/popzy/internal/dom"
	"github.com/jmylchreest/popzy/internal/modal"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.TUI.MarkdownStyle = "notty"
	cfg.Paths.Templates = ""
	return cfg
}

func newTestHost(t *testing.T) (*Host, *dom.ManualClock) {
	t.Helper()
	clock := dom.NewManualClock()
	h, err := NewHost(HostOptions{Config: testConfig()}, clock)
	require.NoError(t, err)
	h.Resize(80, 24)
	return h, clock
}

func plain(f Frame) string {
	return ansi.Strip(f.String())
}

func TestLoopScheduler(t *testing.T) {
	s := newLoopScheduler()
	var ran []int

	s.AfterFunc(time.Millisecond, func() { ran = append(ran, 1) })
	stopped := s.AfterFunc(time.Millisecond, func() { ran = append(ran, 2) })
	assert.Equal(t, 2, s.Pending())
	assert.NotNil(t, s.drain())
	assert.Nil(t, s.drain())

	assert.True(t, stopped.Stop())
	assert.False(t, stopped.Stop())

	s.fire(1)
	s.fire(1)
	s.fire(2)
	assert.Equal(t, []int{1}, ran)
	assert.Zero(t, s.Pending())
}

func TestRegionContains(t *testing.T) {
	r := Region{X: 2, Y: 3, W: 4, H: 2}
	assert.True(t, r.Contains(2, 3))
	assert.True(t, r.Contains(5, 4))
	assert.False(t, r.Contains(6, 4))
	assert.False(t, r.Contains(2, 5))
	assert.False(t, r.Contains(1, 3))
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab  ", fit("ab", 4))
	assert.Equal(t, "abc", fit("abcdef", 3))
	assert.Equal(t, 3, ansi.StringWidth(fit("\x1b[1mabcdef\x1b[0m", 3)))
}

func TestOverlayAt(t *testing.T) {
	bg := []string{"..........", "..........", ".........."}
	overlayAt(bg, []string{"ab", "c"}, 10, 3, 1, 2)
	assert.Equal(t, []string{"..........", "...ab.....", "...c ....."}, bg)
}

func TestHost_PageLayout(t *testing.T) {
	h, _ := newTestHost(t)

	body := h.Document().Body()
	assert.Greater(t, body.ScrollHeight(), body.ClientHeight())
	assert.Equal(t, 23, body.ClientHeight())
	assert.Equal(t, 79, h.pageWidth)

	f := h.Frame()
	require.Len(t, f.Lines, 23)
	assert.Empty(t, f.Layers)
	for _, l := range f.Lines {
		assert.Equal(t, 80, ansi.StringWidth(l))
	}
	assert.Contains(t, ansi.Strip(f.Lines[0]), "█")
}

func TestHost_OpenLocksAndPaints(t *testing.T) {
	h, clock := newTestHost(t)

	require.NoError(t, h.Open("welcome"))
	assert.Empty(t, h.Frame().Layers, "not painted before the show delay")

	clock.Flush()
	assert.True(t, h.Locked())
	assert.Equal(t, "1", h.Document().Body().Style().Get("padding-right"))
	assert.Equal(t, 79, h.pageWidth, "page width is stable under the lock")

	f := h.Frame()
	require.Len(t, f.Layers, 1)
	assert.Contains(t, plain(f), "Welcome to popzy")
	assert.NotContains(t, ansi.Strip(f.Lines[0]), "█", "scrollbar hidden while locked")

	before := h.ScrollOffset()
	h.Scroll(5)
	h.ScrollTo(true)
	assert.Equal(t, before, h.ScrollOffset())
}

func TestHost_ClickCloseButton(t *testing.T) {
	h, clock := newTestHost(t)
	require.NoError(t, h.Open("welcome"))
	clock.Flush()

	layer := h.Frame().Layers[0]
	require.NotEmpty(t, layer.Targets)
	closeTarget := layer.Targets[0]
	assert.True(t, closeTarget.Element.HasClass(modal.ClassClose))

	assert.True(t, h.Click(closeTarget.X+1, closeTarget.Y))
	assert.Equal(t, 0, h.Coordinator().Len())

	clock.Flush()
	h.Sync()
	assert.False(t, h.Locked())
	assert.Empty(t, h.Frame().Layers)
	assert.False(t, h.Click(0, 0))
}

func TestHost_ClickBackdropAndContainer(t *testing.T) {
	h, clock := newTestHost(t)
	require.NoError(t, h.Open("welcome"))
	clock.Flush()

	box := h.Frame().Layers[0].Box
	require.True(t, h.Click(box.X+1, box.Y+1))
	assert.Equal(t, 1, h.Coordinator().Len(), "clicks inside the container do not close")

	require.True(t, h.Click(0, 0))
	assert.Equal(t, 0, h.Coordinator().Len())
}

func TestHost_FooterButtons(t *testing.T) {
	h, clock := newTestHost(t)
	require.NoError(t, h.Open("terms"))
	clock.Flush()

	f := h.Frame()
	require.Len(t, f.Layers, 1)
	targets := f.Layers[0].Targets
	require.Len(t, targets, 4)
	assert.Equal(t, "Details", targets[2].Element.Markup())

	out := plain(f)
	assert.Contains(t, out, "[ Agree ]")
	assert.Contains(t, out, "Read to the end before agreeing.")

	details := targets[2]
	require.True(t, h.Click(details.X, details.Y))
	clock.Flush()
	assert.Equal(t, 2, h.Coordinator().Len())

	f = h.Frame()
	require.Len(t, f.Layers, 2)
	assert.Greater(t, f.Layers[1].Box.X, f.Layers[0].Box.X, "stacked dialogs are offset")
}

func TestHost_EscapeClosesOnlyTop(t *testing.T) {
	h, clock := newTestHost(t)
	require.NoError(t, h.Open("welcome"))
	require.NoError(t, h.Open("details"))
	clock.Flush()

	h.Escape()
	require.Equal(t, 1, h.Coordinator().Len())
	id, ok := h.Session().DefinitionID(h.Coordinator().Top())
	require.True(t, ok)
	assert.Equal(t, "welcome", id)

	clock.Flush()
	assert.True(t, h.Locked(), "one dialog is still open")

	h.Escape()
	clock.Flush()
	h.Sync()
	assert.False(t, h.Locked())
}

func TestHost_OpenNthAndNext(t *testing.T) {
	h, _ := newTestHost(t)
	defs := h.Session().Catalog().Definitions()

	require.NoError(t, h.OpenNth(2))
	assert.Equal(t, 1, h.Coordinator().Len())
	require.NoError(t, h.OpenNext())
	id, _ := h.Session().DefinitionID(h.Coordinator().Top())
	assert.Equal(t, defs[2].ID, id)

	assert.Error(t, h.OpenNth(0))
	assert.Error(t, h.OpenNth(len(defs)+1))
	assert.Error(t, h.Open("missing"))
}

func TestHost_CloseAndDestroyTop(t *testing.T) {
	h, clock := newTestHost(t)
	require.NoError(t, h.Open("terms"))
	clock.Flush()

	terms := h.Coordinator().Top()
	h.CloseTop()
	clock.Flush()
	assert.False(t, terms.IsDestroyed(), "terms is retained on close")

	require.NoError(t, h.Open("terms"))
	h.DestroyTop()
	clock.Flush()
	assert.True(t, terms.IsDestroyed())

	h.CloseTop()
	h.DestroyTop()
}

func TestHost_StatusLine(t *testing.T) {
	h, clock := newTestHost(t)
	assert.Contains(t, ansi.Strip(h.StatusLine()), "0 open")

	require.NoError(t, h.Open("welcome"))
	clock.Flush()
	status := ansi.Strip(h.StatusLine())
	assert.Contains(t, status, "1 open")
	assert.Contains(t, status, "top welcome opened")
	assert.Contains(t, status, "scroll locked")
}

func TestHost_ShortPageDoesNotLock(t *testing.T) {
	clock := dom.NewManualClock()
	h, err := NewHost(HostOptions{Config: testConfig(), Page: "short page"}, clock)
	require.NoError(t, err)
	h.Resize(80, 24)
	assert.Equal(t, 80, h.pageWidth)

	require.NoError(t, h.Open("welcome"))
	clock.Flush()
	assert.False(t, h.Locked())
	assert.Equal(t, "", h.Document().Body().Style().Get("padding-right"))
}

func TestHost_ClassStyles(t *testing.T) {
	cfg := testConfig()
	cfg.Styles["popzy--narrow"] = config.ClassStyle{Width: 30}
	clock := dom.NewManualClock()
	h, err := NewHost(HostOptions{Config: cfg}, clock)
	require.NoError(t, err)
	h.Resize(100, 30)

	require.NoError(t, h.Open("details"))
	clock.Flush()
	f := h.Frame()
	require.Len(t, f.Layers, 1)
	assert.Equal(t, 30, f.Layers[0].Box.W)
}

func TestMarkupRendererCaches(t *testing.T) {
	r := NewMarkupRenderer("notty", nil)
	first := r.Render("# Title\n\nbody text", 40)
	require.NotEmpty(t, first)
	assert.Contains(t, strings.Join(first, "\n"), "Title")
	assert.NotEqual(t, "", strings.TrimSpace(first[0]))

	second := r.Render("# Title\n\nbody text", 40)
	assert.Equal(t, first, second)
	assert.Len(t, r.cache, 1)

	r.Invalidate()
	assert.Empty(t, r.cache)
}

func TestSnapshot(t *testing.T) {
	out, err := Snapshot(HostOptions{Config: testConfig()}, 80, 24, "terms", "details")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 24)
	text := ansi.Strip(out)
	assert.Contains(t, text, "Terms of service")
	assert.Contains(t, text, "Details")
	assert.Contains(t, text, "2 open")

	_, err = Snapshot(HostOptions{Config: testConfig()}, 80, 24, "nope")
	assert.Error(t, err)
}

// flush fires every pending loop timer until none remain.
func flush(m Model) {
	for i := 0; i < 100 && m.sched.Pending() > 0; i++ {
		ids := make([]uint64, 0, len(m.sched.pending))
		for id := range m.sched.pending {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			m.update(timerFiredMsg{id: id})
		}
	}
}

func TestModel_Keys(t *testing.T) {
	m, err := New(HostOptions{Config: testConfig()})
	require.NoError(t, err)
	assert.Equal(t, "Initializing...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	m = next.(Model)
	flush(m)
	coord := m.Host().Coordinator()
	assert.Equal(t, 2, coord.Len())

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "2 open")
	assert.Len(t, strings.Split(view, "\n"), 24)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Equal(t, 1, coord.Len())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	m = next.(Model)
	assert.True(t, m.showHelp)
	assert.Contains(t, ansi.Strip(m.View()), "destroy top")

	// Esc leaves help before it reaches the dialogs.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.False(t, m.showHelp)
	assert.Equal(t, 1, coord.Len())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = next.(Model)
	assert.Equal(t, 0, coord.Len())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
}

func TestModel_MouseAndStatus(t *testing.T) {
	m, err := New(HostOptions{Config: testConfig()}, "welcome")
	require.NoError(t, err)
	require.NotNil(t, m.Init())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	flush(m)
	require.Equal(t, 1, m.Host().Coordinator().Len())

	next, _ = m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)
	assert.Equal(t, 0, m.Host().Coordinator().Len())

	next, _ = m.Update(statusMsg{text: "boom", isErr: true})
	m = next.(Model)
	assert.Contains(t, ansi.Strip(m.View()), "boom")
	next, _ = m.Update(clearStatusMsg{})
	m = next.(Model)
	assert.NotContains(t, ansi.Strip(m.View()), "boom")
}
