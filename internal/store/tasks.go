package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/nakachan-ing/task-tracker/internal/model"
	"github.com/nakachan-ing/task-tracker/internal/util"
)

var (
	ErrNotFound   = errors.New("task not found")
	ErrEmptyTitle = errors.New("task title is required")
	ErrClosed     = errors.New("task store is closed")
)

// IsValidation reports whether err was caused by bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, util.ErrInvalidGoal) ||
		errors.Is(err, util.ErrInvalidDuration)
}

// TaskStore is CRUD over the task document. Each mutation loads the whole
// document, changes it and writes it back, so the last writer wins.
type TaskStore struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
	closed  bool
}

type Option func(*TaskStore)

func WithLogger(logger *slog.Logger) Option {
	return func(s *TaskStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open returns a store backed by the JSON file at path, creating it if needed.
func Open(path string, atomic bool, opts ...Option) (*TaskStore, error) {
	return New(&FileBackend{Path: path, Atomic: atomic}, opts...)
}

func New(backend Backend, opts ...Option) (*TaskStore, error) {
	s := &TaskStore{
		backend: backend,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := backend.Ensure(); err != nil {
		return nil, fmt.Errorf("failed to prepare task file: %w", err)
	}
	return s, nil
}

func (s *TaskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *TaskStore) loadLocked() (model.TaskFile, error) {
	if s.closed {
		return model.TaskFile{}, ErrClosed
	}
	if err := s.backend.Ensure(); err != nil {
		return model.TaskFile{}, err
	}
	return s.backend.Load()
}

// update runs fn on the loaded document and saves it unless fn fails.
func (s *TaskStore) update(fn func(doc *model.TaskFile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return s.backend.Save(doc)
}

func findTask(tasks []model.Task, taskID int) int {
	for i := range tasks {
		if tasks[i].TaskID == taskID {
			return i
		}
	}
	return -1
}

func nextTaskID(tasks []model.Task) int {
	next := 1
	for _, t := range tasks {
		if t.TaskID >= next {
			next = t.TaskID + 1
		}
	}
	return next
}

// ValidateNewTask checks the input of Add without touching storage and
// returns the converted goal.
func ValidateNewTask(title, goalText string) (string, error) {
	if govalidator.IsNull(strings.TrimSpace(title)) {
		return "", ErrEmptyTitle
	}
	return util.ConvertGoal(goalText)
}

func (s *TaskStore) Add(title, description, goalText string) (model.Task, error) {
	goal, err := ValidateNewTask(title, goalText)
	if err != nil {
		return model.Task{}, err
	}

	var task model.Task
	err = s.update(func(doc *model.TaskFile) error {
		task = model.Task{
			Title:       title,
			Description: description,
			TaskID:      nextTaskID(doc.Tasks),
			Timer:       model.ZeroTime,
			TimeGoal:    goal,
			Completed:   false,
			Show:        true,
		}
		doc.Tasks = append(doc.Tasks, task)
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}

	s.logger.Debug("task added", "taskID", task.TaskID, "goal", task.TimeGoal)
	return task, nil
}

// Tasks returns a snapshot of every task, hidden ones included.
func (s *TaskStore) Tasks() ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

func (s *TaskStore) Get(taskID int) (model.Task, error) {
	tasks, err := s.Tasks()
	if err != nil {
		return model.Task{}, err
	}
	i := findTask(tasks, taskID)
	if i < 0 {
		return model.Task{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	return tasks[i], nil
}

func (s *TaskStore) Count() (int, error) {
	tasks, err := s.Tasks()
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// UpdateTimer overwrites the stored elapsed time of a task.
func (s *TaskStore) UpdateTimer(taskID int, timeText string) error {
	timer, err := util.NormalizeDuration(timeText)
	if err != nil {
		return err
	}

	err = s.update(func(doc *model.TaskFile) error {
		i := findTask(doc.Tasks, taskID)
		if i < 0 {
			return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		doc.Tasks[i].Timer = timer
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("task timer updated", "taskID", taskID, "timer", timer)
	return nil
}

func (s *TaskStore) GetTimer(taskID int) (time.Duration, error) {
	task, err := s.Get(taskID)
	if err != nil {
		return 0, err
	}
	d, err := util.ParseDuration(task.Timer)
	if err != nil {
		return 0, fmt.Errorf("task %d: %w", taskID, err)
	}
	return d, nil
}

// ToggleCompleted flips the completed flag and returns the new value.
func (s *TaskStore) ToggleCompleted(taskID int) (bool, error) {
	var completed bool
	err := s.update(func(doc *model.TaskFile) error {
		i := findTask(doc.Tasks, taskID)
		if i < 0 {
			return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		doc.Tasks[i].Completed = !doc.Tasks[i].Completed
		completed = doc.Tasks[i].Completed
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Debug("task completion toggled", "taskID", taskID, "completed", completed)
	return completed, nil
}

// Remove hides a task. The record itself is kept in the file.
func (s *TaskStore) Remove(taskID int) error {
	return s.setDeleted(taskID, true)
}

// Restore makes a removed task visible again.
func (s *TaskStore) Restore(taskID int) error {
	return s.setDeleted(taskID, false)
}

func (s *TaskStore) setDeleted(taskID int, deleted bool) error {
	err := s.update(func(doc *model.TaskFile) error {
		i := findTask(doc.Tasks, taskID)
		if i < 0 {
			return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}
		if deleted {
			doc.Tasks[i].SetDeleted()
		} else {
			doc.Tasks[i].ResetDeleted()
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("task visibility changed", "taskID", taskID, "show", !deleted)
	return nil
}
