// Package tui is the terminal front end of the workout timer. It owns the
// single goroutine that drives timer.Engine: key presses, ticks, suspend and
// resume all arrive as bubbletea messages.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/stats"
	"github.com/claude/freetimer/internal/timer"
)

// History is the part of the record store the UI browses and edits.
type History interface {
	List() []models.WorkoutRecord
	Remove(ctx context.Context, id uuid.UUID) error
	Clear(ctx context.Context) error
	Reload(ctx context.Context) error
}

// StatsSource provides the current statistics summary.
type StatsSource interface {
	Summary() stats.Summary
}

type view int

const (
	viewTimer view = iota
	viewHistory
	viewStats
)

var viewNames = []string{"Timer", "History", "Stats"}

// bannerMsg is posted by the alert notifier from a timer goroutine.
type bannerMsg struct {
	title string
	body  string
}

// Model is the bubbletea model for the timer, history and stats screens.
type Model struct {
	ctx    context.Context
	log    *slog.Logger
	engine *timer.Engine
	ticks  *teaTicks
	store  History
	stats  StatsSource
	locale models.Locale
	now    func() time.Time

	drift    time.Duration
	lastTick time.Time

	keys     keyMap
	help     help.Model
	bar      progress.Model
	notes    textinput.Model
	editing  bool
	view     view
	cursor   int
	confirm  bool
	banner   *bannerMsg
	status   string
	statusOK bool
	width    int
}

type modelOptions struct {
	Engine         *timer.Engine
	Ticks          *teaTicks
	Store          History
	Stats          StatsSource
	Locale         models.Locale
	DriftThreshold time.Duration
	Now            func() time.Time
}

func newModel(ctx context.Context, opts modelOptions, log *slog.Logger) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ti := textinput.New()
	ti.Placeholder = "how did it go?"
	ti.CharLimit = 200

	return &Model{
		ctx:    ctx,
		log:    log,
		engine: opts.Engine,
		ticks:  opts.Ticks,
		store:  opts.Store,
		stats:  opts.Stats,
		locale: opts.Locale,
		now:    opts.Now,
		drift:  opts.DriftThreshold,
		keys:   defaultKeyMap(),
		help:   help.New(),
		bar:    progress.New(progress.WithDefaultGradient()),
		notes:  ti,
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width-12, 10), 60)

	case tickMsg:
		cmd = m.ticks.deliver(msg, func() { m.onTick(msg.at) })

	case tea.ResumeMsg:
		now := m.now()
		m.engine.ReconcileAfterSuspension(now)
		m.lastTick = now

	case bannerMsg:
		m.banner = &msg

	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	if start := m.ticks.take(); start != nil {
		m.lastTick = m.now()
		cmd = tea.Batch(cmd, start)
	}
	if m.engine.NeedsSaveDecision() || m.engine.NeedsCompletionDecision() {
		m.view = viewTimer
	}
	return m, cmd
}

// onTick advances the engine by one tick, or by the whole wall-clock gap when
// the process was frozen without a suspend signal (for example laptop sleep).
func (m *Model) onTick(at time.Time) {
	at = at.Round(0)
	prev := m.lastTick
	m.lastTick = at
	if m.drift > 0 && !prev.IsZero() && at.Sub(prev) > m.drift {
		m.log.Info("tick drift detected", "gap", at.Sub(prev).String())
		m.engine.OnSuspend(prev)
		m.engine.ReconcileAfterSuspension(at)
		return
	}
	m.engine.Tick()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.editing {
		return m.handleNotesKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
		return m.quit()
	case key.Matches(msg, m.keys.Suspend):
		m.engine.OnSuspend(m.now())
		return tea.Suspend
	}

	if m.engine.NeedsSaveDecision() || m.engine.NeedsCompletionDecision() {
		return m.handlePromptKey(msg)
	}

	m.banner = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	case key.Matches(msg, m.keys.NextView):
		m.view = (m.view + 1) % view(len(viewNames))
		m.cursor = 0
		m.confirm = false
		if m.view != viewTimer {
			// Another process may have saved or deleted workouts.
			if err := m.store.Reload(m.ctx); err != nil {
				m.log.Warn("reload history failed", "error", err)
				m.setStatus(err.Error(), false)
			}
		}
		return nil
	}

	switch m.view {
	case viewHistory:
		return m.handleHistoryKey(msg)
	case viewStats:
		return nil
	}
	return m.handleTimerKey(msg)
}

func (m *Model) handleTimerKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		switch m.engine.State() {
		case timer.StateIdle:
			m.engine.Start()
		case timer.StateRunning:
			m.engine.Pause()
		case timer.StatePaused:
			m.engine.Resume()
		}
	case key.Matches(msg, m.keys.Stop):
		m.engine.Stop()
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
	case key.Matches(msg, m.keys.prevCategory):
		m.engine.SetCategory(cycle(models.Categories, m.engine.Selection().Category, -1))
	case key.Matches(msg, m.keys.nextCategory):
		m.engine.SetCategory(cycle(models.Categories, m.engine.Selection().Category, 1))
	case key.Matches(msg, m.keys.prevDifficulty):
		m.engine.SetDifficulty(cycle(models.Difficulties, m.engine.Selection().Difficulty, -1))
	case key.Matches(msg, m.keys.nextDifficulty):
		m.engine.SetDifficulty(cycle(models.Difficulties, m.engine.Selection().Difficulty, 1))
	case key.Matches(msg, m.keys.Notes):
		m.editing = true
		m.notes.SetValue(m.engine.Notes())
		return m.notes.Focus()
	}
	return nil
}

func (m *Model) handleNotesKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.engine.SetNotes(strings.TrimSpace(m.notes.Value()))
		m.editing = false
		m.notes.Blur()
		return nil
	case "esc":
		m.editing = false
		m.notes.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return cmd
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Yes):
		if err := m.engine.Save(m.ctx); err != nil {
			m.setStatus(fmt.Sprintf("could not save workout: %v", err), false)
			return nil
		}
		m.banner = nil
		m.setStatus("workout saved", true)
	case key.Matches(msg, m.keys.No):
		m.engine.Reset()
		m.banner = nil
		m.setStatus("workout discarded", true)
	case key.Matches(msg, m.keys.Notes):
		m.editing = true
		m.notes.SetValue(m.engine.Notes())
		return m.notes.Focus()
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	}
	return nil
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	records := m.sortedHistory()
	if m.confirm {
		if key.Matches(msg, m.keys.Yes) {
			if err := m.store.Clear(m.ctx); err != nil {
				m.setStatus(fmt.Sprintf("could not clear history: %v", err), false)
			} else {
				m.setStatus("history cleared", true)
			}
			m.cursor = 0
		}
		m.confirm = false
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(records)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(records) {
			if err := m.store.Remove(m.ctx, records[m.cursor].ID); err != nil {
				m.setStatus(fmt.Sprintf("could not delete workout: %v", err), false)
				return nil
			}
			m.setStatus("workout deleted", true)
			if m.cursor > 0 && m.cursor >= len(records)-1 {
				m.cursor--
			}
		}
	case key.Matches(msg, m.keys.Clear):
		if len(records) > 0 {
			m.confirm = true
		}
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	// Reset cancels any deferred alert so nothing fires after exit.
	m.engine.Reset()
	return tea.Quit
}

func (m *Model) setStatus(s string, ok bool) {
	m.status = s
	m.statusOK = ok
}

func (m *Model) sortedHistory() []models.WorkoutRecord {
	records := m.store.List()
	history.SortNewestFirst(records)
	return records
}

func cycle[T comparable](values []T, current T, step int) T {
	for i, v := range values {
		if v == current {
			return values[(i+step+len(values))%len(values)]
		}
	}
	return values[0]
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.view {
	case viewHistory:
		b.WriteString(m.renderHistory())
	case viewStats:
		b.WriteString(m.renderStats())
	default:
		b.WriteString(m.renderTimer())
	}

	if m.banner != nil {
		b.WriteString("\n\n")
		b.WriteString(bannerStyle.Render(m.banner.title + "\n" + m.banner.body))
	}
	if m.status != "" {
		b.WriteString("\n\n")
		if m.statusOK {
			b.WriteString(okStyle.Render(m.status))
		} else {
			b.WriteString(errorStyle.Render(m.status))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return appStyle.Render(b.String())
}

func (m *Model) renderTabs() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.view {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	return titleStyle.Render("FreeTimer") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderTimer() string {
	s := m.engine.Snapshot()
	var b strings.Builder

	sel := s.Selection
	fmt.Fprintf(&b, "%s %s  %s %s\n\n",
		sel.Category.Emoji(), titleStyle.Render(sel.Category.Title(m.locale)),
		sel.Difficulty.Emoji(), sel.Difficulty.Title(m.locale))

	b.WriteString(clockStyle.Render(s.FormattedRemaining))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  remaining · %s elapsed · %s planned",
		s.FormattedElapsed, timer.FormatClock(s.PlannedSeconds))))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(s.Progress))
	b.WriteString("\n\n")
	b.WriteString(stateLine(s))

	if m.editing {
		b.WriteString("\n\nnotes: " + m.notes.View())
	} else if s.Notes != "" {
		b.WriteString("\n\n" + mutedStyle.Render("notes: "+s.Notes))
	}

	switch {
	case s.NeedsCompletionDecision:
		b.WriteString("\n\n" + hotStyle.Render(fmt.Sprintf("%s done in %s. Save it? [y/n]", s.Label, s.FormattedElapsed)))
	case s.NeedsSaveDecision:
		b.WriteString("\n\n" + hotStyle.Render(fmt.Sprintf("Stopped after %s. Save %s? [y/n]", s.FormattedElapsed, s.Label)))
	}
	return paneStyle.Render(b.String())
}

func stateLine(s timer.Snapshot) string {
	switch s.State {
	case timer.StateRunning:
		return okStyle.Render("● running")
	case timer.StatePaused:
		return hotStyle.Render("❚❚ paused")
	case timer.StateCompleted:
		return okStyle.Render("✔ completed")
	}
	return mutedStyle.Render("○ ready · space to start")
}

func (m *Model) renderHistory() string {
	records := m.sortedHistory()
	if len(records) == 0 {
		return paneStyle.Render(mutedStyle.Render("No workouts yet."))
	}
	var b strings.Builder
	for i, r := range records {
		line := historyLine(r)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.confirm {
		b.WriteString("\n" + hotStyle.Render(fmt.Sprintf("Delete all %d workouts? [y/N]", len(records))))
	}
	return paneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func historyLine(r models.WorkoutRecord) string {
	emoji := "🏋️"
	if sel, ok := models.ParseLabel(r.Category); ok {
		emoji = sel.Category.Emoji() + sel.Difficulty.Emoji()
	}
	line := fmt.Sprintf("%s %-28s %8s  %s", emoji, r.Category, timer.FormatClock(r.DurationSeconds),
		r.CompletedAt.Local().Format("2006-01-02 15:04"))
	if r.Notes != nil {
		line += "  " + mutedStyle.Render(*r.Notes)
	}
	return line
}

func (m *Model) renderStats() string {
	sum := m.stats.Summary()
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d\n", titleStyle.Render("Workouts:"), sum.TotalCount)
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Total time:"), stats.FormatTotal(sum.TotalDurationSeconds, m.locale))
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Average:"), stats.FormatAverage(sum, m.locale))
	if len(sum.ByCategory) > 0 {
		b.WriteString("\n" + titleStyle.Render("By category") + "\n")
		for _, c := range sum.ByCategory {
			fmt.Fprintf(&b, "  %-20s %3d  %s\n", c.Name, c.Count, stats.FormatTotal(c.TotalDuration, m.locale))
		}
	}
	if len(sum.Recent) > 0 {
		b.WriteString("\n" + titleStyle.Render("Recent") + "\n")
		for _, r := range sum.Recent {
			b.WriteString("  " + historyLine(r) + "\n")
		}
	}
	return paneStyle.Render(strings.TrimRight(b.String(), "\n"))
}
