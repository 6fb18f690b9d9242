package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claude/freetimer/internal/timer"
)

var _ timer.TickSource = (*teaTicks)(nil)

// tickMsg is delivered by tea.Tick; gen identifies the tick chain that
// scheduled it so messages from a stopped chain are dropped.
type tickMsg struct {
	gen uint64
	at  time.Time
}

// teaTicks drives the engine from the bubbletea event loop. Start and stop
// are called from inside Update, so the first tick command is parked in
// pending until the model collects it with take.
type teaTicks struct {
	gen      uint64
	active   bool
	interval time.Duration
	tick     func()
	pending  tea.Cmd
}

func newTeaTicks() *teaTicks { return &teaTicks{} }

func (t *teaTicks) Start(interval time.Duration, tick func()) func() {
	t.gen++
	t.active = true
	t.interval = interval
	t.tick = tick
	t.pending = t.next()
	gen := t.gen
	return func() {
		if t.gen == gen {
			t.active = false
			t.pending = nil
		}
	}
}

// take returns and clears the command that starts a new tick chain.
func (t *teaTicks) take() tea.Cmd {
	cmd := t.pending
	t.pending = nil
	return cmd
}

func (t *teaTicks) accepts(msg tickMsg) bool {
	return t.active && msg.gen == t.gen
}

// deliver runs fire for a current tick and schedules the next one while the
// chain stays alive.
func (t *teaTicks) deliver(msg tickMsg, fire func()) tea.Cmd {
	if !t.accepts(msg) {
		return nil
	}
	fire()
	if t.accepts(msg) {
		return t.next()
	}
	return nil
}

func (t *teaTicks) next() tea.Cmd {
	gen := t.gen
	return tea.Tick(t.interval, func(at time.Time) tea.Msg {
		return tickMsg{gen: gen, at: at}
	})
}
