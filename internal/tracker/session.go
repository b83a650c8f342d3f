package tracker

import (
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"
)

// Session owns one timer per task for the lifetime of a tracker UI.
// It is meant to be driven from a single goroutine.
type Session struct {
	store  TimerStore
	clock  Clock
	logger *slog.Logger
	timers map[int]*Timer
}

type SessionOption func(*Session)

func WithClock(clock Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSession(store TimerStore, opts ...SessionOption) *Session {
	s := &Session{
		store:  store,
		clock:  RealClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		timers: map[int]*Timer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) timer(taskID int) *Timer {
	t, ok := s.timers[taskID]
	if !ok {
		t = NewTimer(taskID)
		s.timers[taskID] = t
	}
	return t
}

func (s *Session) State(taskID int) State {
	if t, ok := s.timers[taskID]; ok {
		return t.State()
	}
	return Stopped
}

// Toggle starts a stopped timer or stops a running one and returns the new state.
func (s *Session) Toggle(taskID int) (State, error) {
	t := s.timer(taskID)
	if err := t.Toggle(s.store, s.clock.Now()); err != nil {
		return t.State(), err
	}
	s.logger.Debug("timer toggled", "taskID", taskID, "state", t.State().String())
	return t.State(), nil
}

func (s *Session) Stop(taskID int) error {
	t, ok := s.timers[taskID]
	if !ok {
		return nil
	}
	return t.Stop(s.store, s.clock.Now())
}

// Tick returns the current display value of every running timer.
func (s *Session) Tick() map[int]string {
	now := s.clock.Now()
	displays := make(map[int]string)
	for id, t := range s.timers {
		if t.Running() {
			displays[id] = t.Display(now)
		}
	}
	return displays
}

func (s *Session) Elapsed(taskID int) (time.Duration, bool) {
	t, ok := s.timers[taskID]
	if !ok || !t.Running() {
		return 0, false
	}
	return t.Elapsed(s.clock.Now()), true
}

// Flush stops every running timer so its time reaches the store.
// Stopped timers are not touched.
func (s *Session) Flush() error {
	now := s.clock.Now()

	ids := make([]int, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var errs []error
	for _, id := range ids {
		t := s.timers[id]
		if !t.Running() {
			continue
		}
		if err := t.Stop(s.store, now); err != nil {
			errs = append(errs, err)
			continue
		}
		s.logger.Debug("timer flushed", "taskID", id, "elapsed", t.Display(now))
	}
	return errors.Join(errs...)
}
