package tracker

import (
	"fmt"
	"time"

	"github.com/nakachan-ing/task-tracker/internal/util"
)

// TimerStore is the part of the task store a timer needs.
type TimerStore interface {
	GetTimer(taskID int) (time.Duration, error)
	UpdateTimer(taskID int, timeText string) error
}

type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Timer tracks elapsed time for one task. It always starts Stopped,
// whatever the stored value says.
type Timer struct {
	TaskID  int
	state   State
	start   time.Time
	elapsed time.Duration
}

func NewTimer(taskID int) *Timer {
	return &Timer{TaskID: taskID}
}

func (t *Timer) State() State { return t.state }

func (t *Timer) Running() bool { return t.state == Running }

// Start reloads the stored elapsed time, records the start instant and
// writes the elapsed time back.
func (t *Timer) Start(store TimerStore, now time.Time) error {
	if t.state == Running {
		return nil
	}

	elapsed, err := store.GetTimer(t.TaskID)
	if err != nil {
		return fmt.Errorf("failed to load timer: %w", err)
	}
	if err := store.UpdateTimer(t.TaskID, util.FormatDuration(elapsed)); err != nil {
		return fmt.Errorf("failed to save timer: %w", err)
	}

	t.elapsed = elapsed
	t.start = now
	t.state = Running
	return nil
}

// Stop folds the running span into the elapsed time and persists the total.
// The timer stays running if the store rejects the write.
func (t *Timer) Stop(store TimerStore, now time.Time) error {
	if t.state != Running {
		return nil
	}

	total := t.Elapsed(now)
	if err := store.UpdateTimer(t.TaskID, util.FormatDuration(total)); err != nil {
		return fmt.Errorf("failed to save timer: %w", err)
	}

	t.elapsed = total
	t.start = time.Time{}
	t.state = Stopped
	return nil
}

func (t *Timer) Toggle(store TimerStore, now time.Time) error {
	if t.state == Running {
		return t.Stop(store, now)
	}
	return t.Start(store, now)
}

// Elapsed is the accumulated time plus the current running span,
// truncated to whole seconds.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	total := t.elapsed
	if t.state == Running {
		total += now.Sub(t.start)
	}
	return total.Truncate(time.Second)
}

func (t *Timer) Display(now time.Time) string {
	return util.FormatDuration(t.Elapsed(now))
}
