package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/freetimer/internal/models"
)

// ErrNoRecorder is returned by Save when the engine has nowhere to persist.
var ErrNoRecorder = errors.New("no workout recorder configured")

// Options configures an Engine.
type Options struct {
	Clock        Clock
	Ticks        TickSource
	Alerts       Alerter
	Records      Recorder
	Selection    models.Selection
	Locale       models.Locale
	TickInterval time.Duration
}

// Engine is the workout timer state machine. It is not safe for concurrent
// use: every method, including tick callbacks, must run on one goroutine.
type Engine struct {
	log      *slog.Logger
	clock    Clock
	ticks    TickSource
	alerts   Alerter
	records  Recorder
	locale   models.Locale
	interval time.Duration

	selection models.Selection
	notes     string
	state     State
	planned   int
	elapsed   int

	suspended   bool
	suspendedAt time.Time

	// tickGen is bumped on every tick start and stop; callbacks carrying an
	// older generation are dropped.
	tickGen   uint64
	stopTicks func()
	alert     AlertHandle

	needsSave       bool
	needsCompletion bool
}

// New creates an idle Engine for the configured selection.
func New(opts Options, log *slog.Logger) *Engine {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Selection.Category == "" {
		opts.Selection.Category = models.CategoryCardio
	}
	if opts.Selection.Difficulty == "" {
		opts.Selection.Difficulty = models.DifficultyMedium
	}
	e := &Engine{
		log:       log,
		clock:     opts.Clock,
		ticks:     opts.Ticks,
		alerts:    opts.Alerts,
		records:   opts.Records,
		locale:    opts.Locale,
		interval:  opts.TickInterval,
		selection: opts.Selection,
		state:     StateIdle,
	}
	e.planned = e.selection.PlannedDuration()
	return e
}

// Start begins a new session from Idle. It is ignored while an unresolved
// save decision is pending.
func (e *Engine) Start() {
	if e.state != StateIdle || e.needsSave {
		e.ignored("start")
		return
	}
	e.planned = e.selection.PlannedDuration()
	e.elapsed = 0
	e.clearSuspension()
	e.state = StateRunning
	e.startTicks()
	e.scheduleAlert(e.planned)
	e.log.Info("workout started", "label", e.label(), "planned_sec", e.planned)
}

// Tick advances a running session by one second.
func (e *Engine) Tick() {
	if e.state != StateRunning {
		e.ignored("tick")
		return
	}
	if e.suspended {
		// The suspension gap is added in one step on reconciliation.
		return
	}
	e.elapsed++
	if e.elapsed >= e.planned {
		e.complete()
	}
}

// Pause freezes a running session.
func (e *Engine) Pause() {
	if e.state != StateRunning {
		e.ignored("pause")
		return
	}
	e.haltTicks()
	e.cancelAlert()
	e.clearSuspension()
	e.state = StatePaused
	e.log.Info("workout paused", "elapsed_sec", e.elapsed)
}

// Resume continues a paused session.
func (e *Engine) Resume() {
	if e.state != StatePaused {
		e.ignored("resume")
		return
	}
	e.state = StateRunning
	e.startTicks()
	e.scheduleAlert(e.Remaining())
	e.log.Info("workout resumed", "elapsed_sec", e.elapsed, "remaining_sec", e.Remaining())
}

// Stop ends a running or paused session early. When any time was recorded
// the caller must resolve NeedsSaveDecision with Save or Reset.
func (e *Engine) Stop() {
	if e.state != StateRunning && e.state != StatePaused {
		e.ignored("stop")
		return
	}
	e.haltTicks()
	e.cancelAlert()
	e.clearSuspension()
	e.state = StateIdle
	if e.elapsed > 0 {
		e.needsSave = true
	}
	e.log.Info("workout stopped", "elapsed_sec", e.elapsed)
}

// Reset returns to Idle defaults from any state, discarding the session.
func (e *Engine) Reset() {
	e.haltTicks()
	e.cancelAlert()
	e.clearSuspension()
	e.state = StateIdle
	e.elapsed = 0
	e.planned = e.selection.PlannedDuration()
	e.notes = ""
	e.needsSave = false
	e.needsCompletion = false
}

// OnSuspend records the moment the host stops ticking a running session.
func (e *Engine) OnSuspend(now time.Time) {
	if e.state != StateRunning {
		e.ignored("suspend")
		return
	}
	if e.suspended {
		return
	}
	e.suspended = true
	e.suspendedAt = now.Round(0)
	e.log.Debug("workout suspended", "at", e.suspendedAt)
}

// ReconcileAfterSuspension adds the wall-clock time spent suspended to the
// elapsed counter in one step. Backward clock jumps count as zero.
func (e *Engine) ReconcileAfterSuspension(now time.Time) {
	if e.state != StateRunning || !e.suspended {
		e.ignored("reconcile")
		return
	}
	gap := int(now.Round(0).Sub(e.suspendedAt) / time.Second)
	if gap < 0 {
		e.log.Warn("clock moved backwards during suspension", "gap_sec", gap)
		gap = 0
	}
	e.clearSuspension()
	e.elapsed += gap
	e.log.Info("workout reconciled", "gap_sec", gap, "elapsed_sec", e.elapsed)
	if e.elapsed >= e.planned {
		e.complete()
		return
	}
	e.scheduleAlert(e.Remaining())
}

// Save persists the session and resets the engine. With nothing elapsed it
// only resets. A persistence failure is returned and the session is kept.
func (e *Engine) Save(ctx context.Context) error {
	if e.elapsed == 0 {
		e.Reset()
		return nil
	}
	if e.records == nil {
		return ErrNoRecorder
	}
	rec := models.NewWorkoutRecord(e.label(), e.elapsed, e.clock.Now(), e.notes)
	if err := e.records.Append(ctx, rec); err != nil {
		e.log.Error("saving workout failed", "label", rec.Category, "error", err)
		return fmt.Errorf("saving workout: %w", err)
	}
	e.Reset()
	return nil
}

// SetCategory changes the category of the next session.
func (e *Engine) SetCategory(c models.Category) {
	if !e.selectable() {
		e.ignored("set_category")
		return
	}
	e.selection.Category = c
	e.planned = e.selection.PlannedDuration()
}

// SetDifficulty changes the difficulty of the next session.
func (e *Engine) SetDifficulty(d models.Difficulty) {
	if !e.selectable() {
		e.ignored("set_difficulty")
		return
	}
	e.selection.Difficulty = d
	e.planned = e.selection.PlannedDuration()
}

// SetNotes sets the free-text annotation saved with the session.
func (e *Engine) SetNotes(notes string) {
	e.notes = notes
}

func (e *Engine) State() State                { return e.state }
func (e *Engine) Selection() models.Selection { return e.selection }
func (e *Engine) Notes() string               { return e.notes }
func (e *Engine) Planned() int                { return e.planned }
func (e *Engine) Elapsed() int                { return e.elapsed }

// Remaining is the clamped time left; always 0 once completed.
func (e *Engine) Remaining() int {
	if e.state == StateCompleted || e.elapsed >= e.planned {
		return 0
	}
	return e.planned - e.elapsed
}

// Progress is elapsed/planned in [0, 1].
func (e *Engine) Progress() float64 { return progress(e.elapsed, e.planned) }

func (e *Engine) FormattedRemaining() string { return FormatClock(e.Remaining()) }
func (e *Engine) FormattedElapsed() string   { return FormatClock(e.elapsed) }

// NeedsSaveDecision reports a stopped session waiting for Save or Reset.
func (e *Engine) NeedsSaveDecision() bool { return e.needsSave }

// NeedsCompletionDecision reports a completed session waiting for Save or Reset.
func (e *Engine) NeedsCompletionDecision() bool { return e.needsCompletion }

// Snapshot returns all observable values at once.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		State:                   e.state,
		Selection:               e.selection,
		Label:                   e.label(),
		Notes:                   e.notes,
		PlannedSeconds:          e.planned,
		ElapsedSeconds:          e.elapsed,
		RemainingSeconds:        e.Remaining(),
		Progress:                e.Progress(),
		FormattedRemaining:      e.FormattedRemaining(),
		FormattedElapsed:        e.FormattedElapsed(),
		Suspended:               e.suspended,
		NeedsSaveDecision:       e.needsSave,
		NeedsCompletionDecision: e.needsCompletion,
	}
}

func (e *Engine) complete() {
	if e.state != StateRunning && e.state != StatePaused {
		return
	}
	e.haltTicks()
	e.cancelAlert()
	e.clearSuspension()
	e.state = StateCompleted
	e.needsCompletion = true
	e.log.Info("workout completed", "label", e.label(), "elapsed_sec", e.elapsed)
	if e.alerts != nil {
		title, body := e.alertText()
		if err := e.alerts.Fire(title, body); err != nil {
			e.log.Warn("completion alert failed", "error", err)
		}
	}
}

func (e *Engine) selectable() bool {
	return e.state == StateIdle && !e.needsSave
}

func (e *Engine) startTicks() {
	e.haltTicks()
	if e.ticks == nil {
		return
	}
	gen := e.tickGen
	e.stopTicks = e.ticks.Start(e.interval, func() { e.onTick(gen) })
}

func (e *Engine) onTick(gen uint64) {
	if gen != e.tickGen {
		e.log.Debug("stale tick dropped", "gen", gen, "current", e.tickGen)
		return
	}
	e.Tick()
}

func (e *Engine) haltTicks() {
	if e.stopTicks != nil {
		e.stopTicks()
		e.stopTicks = nil
	}
	e.tickGen++
}

func (e *Engine) scheduleAlert(seconds int) {
	e.cancelAlert()
	if e.alerts == nil {
		return
	}
	title, body := e.alertText()
	handle, err := e.alerts.Schedule(time.Duration(seconds)*time.Second, title, body)
	if err != nil {
		e.log.Warn("scheduling completion alert failed", "error", err)
		return
	}
	e.alert = handle
}

func (e *Engine) cancelAlert() {
	if e.alert != nil {
		e.alert.Cancel()
		e.alert = nil
	}
}

func (e *Engine) clearSuspension() {
	e.suspended = false
	e.suspendedAt = time.Time{}
}

func (e *Engine) label() string {
	return e.selection.Label(e.locale)
}

func (e *Engine) alertText() (string, string) {
	if models.ParseLocale(string(e.locale)) == models.LocaleRU {
		return "Тренировка завершена! 🎉", fmt.Sprintf("Отличная работа! Тренировка %s завершена.", e.label())
	}
	return "Workout complete! 🎉", fmt.Sprintf("Great job! %s workout finished.", e.label())
}

func (e *Engine) ignored(action string) {
	e.log.Debug("transition ignored", "action", action, "state", e.state)
}
