package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/popzy/internal/dom"
)

// timerFiredMsg is delivered when a scheduled callback is due.
type timerFiredMsg struct {
	id uint64
}

// loopScheduler runs document callbacks on the bubbletea update loop.
// AfterFunc queues a tea.Tick; the callback runs when its message comes
// back through Update.
type loopScheduler struct {
	seq     uint64
	pending map[uint64]func()
	cmds    []tea.Cmd
}

func newLoopScheduler() *loopScheduler {
	return &loopScheduler{pending: make(map[uint64]func())}
}

type loopTimer struct {
	s  *loopScheduler
	id uint64
}

func (t loopTimer) Stop() bool {
	if _, ok := t.s.pending[t.id]; !ok {
		return false
	}
	delete(t.s.pending, t.id)
	return true
}

// AfterFunc implements dom.Scheduler.
func (s *loopScheduler) AfterFunc(d time.Duration, fn func()) dom.Timer {
	s.seq++
	id := s.seq
	s.pending[id] = fn
	s.cmds = append(s.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{id: id}
	}))
	return loopTimer{s: s, id: id}
}

// fire runs the callback for id unless it was stopped.
func (s *loopScheduler) fire(id uint64) {
	fn, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	fn()
}

// drain returns the ticks queued since the last drain.
func (s *loopScheduler) drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}

// Pending returns the number of callbacks not yet run or stopped.
func (s *loopScheduler) Pending() int { return len(s.pending) }
