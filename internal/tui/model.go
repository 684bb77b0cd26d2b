// Package tui provides the BubbleTea-based terminal host for dialogs.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/popzy/internal/catalog"
	"github.com/jmylchreest/popzy/internal/dom"
)

// Model is the main TUI model. Document state lives in the Host, which
// is shared by every copy of the model.
type Model struct {
	host  *Host
	sched *loopScheduler

	keys     KeyMap
	help     help.Model
	showHelp bool
	ready    bool
	width    int
	height   int

	// Status message
	statusMsg string
	statusErr bool

	initial []string
	logger  *slog.Logger
}

// templatesChangedMsg is sent by the template watcher.
type templatesChangedMsg struct {
	name string
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// refreshMsg re-renders the status line so relative times advance.
type refreshMsg struct{}

// New creates a new TUI model. Dialogs named in open are opened when the
// program starts.
func New(opts HostOptions, open ...string) (Model, error) {
	sched := newLoopScheduler()
	host, err := NewHost(opts, sched)
	if err != nil {
		return Model{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := help.New()
	h.ShowAll = true

	return Model{
		host:     host,
		sched:    sched,
		keys:     DefaultKeyMap(),
		help:     h,
		showHelp: false,
		initial:  open,
		logger:   logger,
	}, nil
}

// Host returns the model's host.
func (m Model) Host() *Host { return m.host }

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range m.initial {
		if err := m.host.Open(id); err != nil {
			cmds = append(cmds, reportErr(err))
		}
	}
	cmds = append(cmds, m.sched.drain(), tickRefresh())
	return tea.Batch(cmds...)
}

func tickRefresh() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return refreshMsg{} })
}

func reportErr(err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: err.Error(), isErr: true}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	return next, tea.Batch(cmd, m.sched.drain())
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.host.Resize(msg.Width, msg.Height)
		return m, nil

	case timerFiredMsg:
		m.sched.fire(msg.id)
		m.host.Sync()
		return m, nil

	case templatesChangedMsg:
		if err := m.host.ReloadTemplates(); err != nil {
			return m, reportErr(fmt.Errorf("reload templates: %w", err))
		}
		m.logger.Info("templates reloaded", "file", msg.name)
		return m, func() tea.Msg {
			return statusMsg{text: "Reloaded templates (" + msg.name + ")"}
		}

	case refreshMsg:
		return m, tickRefresh()

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	h := m.host
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		h.Escape()
	case key.Matches(msg, m.keys.OpenNth):
		n := int(msg.String()[0] - '0')
		if err := h.OpenNth(n); err != nil {
			return m, reportErr(err)
		}
	case key.Matches(msg, m.keys.Next):
		if err := h.OpenNext(); err != nil {
			return m, reportErr(err)
		}
	case key.Matches(msg, m.keys.Close):
		h.CloseTop()
	case key.Matches(msg, m.keys.Destroy):
		h.DestroyTop()
	case key.Matches(msg, m.keys.Up):
		h.Scroll(-1)
	case key.Matches(msg, m.keys.Down):
		h.Scroll(1)
	case key.Matches(msg, m.keys.PageUp):
		h.Scroll(-h.pageHeight())
	case key.Matches(msg, m.keys.PageDown):
		h.Scroll(h.pageHeight())
	case key.Matches(msg, m.keys.Home):
		h.ScrollTo(false)
	case key.Matches(msg, m.keys.End):
		h.ScrollTo(true)
	}
	return m, nil
}

// handleMouse delivers left clicks to dialogs and wheel motion to the page.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		m.host.Click(msg.X, msg.Y)
	case tea.MouseButtonWheelUp:
		m.host.Scroll(-3)
	case tea.MouseButtonWheelDown:
		m.host.Scroll(3)
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	lines := m.host.Frame().Lines
	if m.showHelp {
		helpLines := strings.Split(m.help.View(m.keys), "\n")
		start := max(len(lines)-len(helpLines), 0)
		for i, l := range helpLines {
			if start+i < len(lines) {
				lines[start+i] = fit(l, m.width)
			}
		}
	}

	status := m.host.StatusLine()
	if m.statusMsg != "" {
		style := statusStyle
		if m.statusErr {
			style = statusErrStyle
		}
		status = style.Render(m.statusMsg)
	}
	return strings.Join(append(lines, fit(status, m.width)), "\n")
}

// Snapshot renders one frame without a terminal program. Dialogs in open
// are opened in order and every pending callback runs before painting.
func Snapshot(opts HostOptions, width, height int, open ...string) (string, error) {
	clock := dom.NewManualClock()
	host, err := NewHost(opts, clock)
	if err != nil {
		return "", err
	}
	host.Resize(width, height)
	for _, id := range open {
		if err := host.Open(id); err != nil {
			return "", err
		}
	}
	clock.Flush()
	host.Sync()

	lines := host.Frame().Lines
	return strings.Join(append(lines, fit(host.StatusLine(), width)), "\n"), nil
}

// RunOptions configures the TUI.
type RunOptions struct {
	Host  HostOptions
	Open  []string // Dialog ids opened at start
	Mouse bool
	Watch bool // Reload templates when the templates directory changes
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	logger := opts.Host.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m, err := New(opts.Host, opts.Open...)
	if err != nil {
		return err
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, progOpts...)

	var watcher *catalog.Watcher
	if dir := m.host.Session().Catalog().TemplatesDir(); opts.Watch && dir != "" {
		watcher, err = catalog.NewWatcher(dir, func(name string) {
			p.Send(templatesChangedMsg{name: name})
		}, logger)
		if err != nil {
			logger.Warn("failed to create template watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start template watcher", "dir", dir, "error", err)
		}
	}

	_, err = p.Run()

	if watcher != nil {
		if stopErr := watcher.Stop(); stopErr != nil {
			logger.Warn("failed to stop template watcher", "error", stopErr)
		}
	}
	return err
}
