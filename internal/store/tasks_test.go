package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nakachan-ing/task-tracker/internal/model"
	"github.com/nakachan-ing/task-tracker/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) (*TaskStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "task.json")
	s, err := Open(path, true)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func newMemoryStore(t *testing.T, tasks ...model.Task) (*TaskStore, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend(tasks...)
	s, err := New(backend)
	require.NoError(t, err)
	return s, backend
}

func TestOpen_CreatesEmptyDocument(t *testing.T) {
	_, path := newFileStore(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks": []}`, string(data))

	// opening again leaves the document alone
	s, err := Open(path, false)
	require.NoError(t, err)
	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAdd_AssignsIDsAndDefaults(t *testing.T) {
	s, _ := newFileStore(t)

	first, err := s.Add("Write report", "quarterly", "90")
	require.NoError(t, err)
	assert.Equal(t, 1, first.TaskID)
	assert.Equal(t, "00:00:00", first.Timer)
	assert.Equal(t, "01:30:00", first.TimeGoal)
	assert.False(t, first.Completed)
	assert.True(t, first.Show)

	second, err := s.Add("Groceries", "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, second.TaskID)
	assert.Equal(t, "00:00:00", second.TimeGoal)

	tasks, err := s.Tasks()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first, tasks[0])
	assert.Equal(t, second, tasks[1])
}

func TestAdd_IDsAreNeverReused(t *testing.T) {
	s, _ := newMemoryStore(t,
		model.Task{Title: "a", TaskID: 5, Timer: model.ZeroTime, TimeGoal: model.ZeroTime, Show: true},
		model.Task{Title: "b", TaskID: 2, Timer: model.ZeroTime, TimeGoal: model.ZeroTime, Show: true},
	)

	task, err := s.Add("c", "", "")
	require.NoError(t, err)
	assert.Equal(t, 6, task.TaskID)

	require.NoError(t, s.Remove(6))
	next, err := s.Add("d", "", "")
	require.NoError(t, err)
	assert.Equal(t, 7, next.TaskID)
}

func TestAdd_Validation(t *testing.T) {
	s, backend := newMemoryStore(t)

	_, err := s.Add("   ", "desc", "10")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.True(t, IsValidation(err))

	_, err = s.Add("title", "", "later")
	assert.ErrorIs(t, err, util.ErrInvalidGoal)
	assert.True(t, IsValidation(err))

	assert.Equal(t, 0, backend.Saves())
}

func TestValidateNewTask(t *testing.T) {
	goal, err := ValidateNewTask("title", "90")
	require.NoError(t, err)
	assert.Equal(t, "01:30:00", goal)

	_, err = ValidateNewTask("", "90")
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = ValidateNewTask("title", "soon")
	assert.ErrorIs(t, err, util.ErrInvalidGoal)
}

func TestUpdateTimer(t *testing.T) {
	s, _ := newFileStore(t)
	_, err := s.Add("a", "", "")
	require.NoError(t, err)

	require.NoError(t, s.UpdateTimer(1, "0:10:05"))
	d, err := s.GetTimer(1)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute+5*time.Second, d)

	task, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "00:10:05", task.Timer)

	err = s.UpdateTimer(1, "ten minutes")
	assert.ErrorIs(t, err, util.ErrInvalidDuration)
}

func TestUpdateTimer_TooLongKeepsPreviousValue(t *testing.T) {
	s, _ := newFileStore(t)
	_, err := s.Add("a", "", "")
	require.NoError(t, err)
	require.NoError(t, s.UpdateTimer(1, "01:00:00"))

	for _, in := range []string{"3000000:00:00", "2600000:00:00"} {
		err := s.UpdateTimer(1, in)
		assert.ErrorIs(t, err, util.ErrInvalidDuration, in)
		assert.True(t, IsValidation(err), in)
	}

	task, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "01:00:00", task.Timer)
}

func TestUpdateTimer_Idempotent(t *testing.T) {
	s, _ := newFileStore(t)
	_, err := s.Add("a", "", "30")
	require.NoError(t, err)

	require.NoError(t, s.UpdateTimer(1, "00:20:00"))
	before, err := s.Tasks()
	require.NoError(t, err)

	require.NoError(t, s.UpdateTimer(1, "00:20:00"))
	after, err := s.Tasks()
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestToggleCompleted_IsAFlip(t *testing.T) {
	s, _ := newFileStore(t)
	_, err := s.Add("a", "", "")
	require.NoError(t, err)

	completed, err := s.ToggleCompleted(1)
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = s.ToggleCompleted(1)
	require.NoError(t, err)
	assert.False(t, completed)

	task, err := s.Get(1)
	require.NoError(t, err)
	assert.False(t, task.Completed)
}

func TestRemove_IsSoftDelete(t *testing.T) {
	s, _ := newFileStore(t)
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.Add(title, "", "")
		require.NoError(t, err)
	}

	require.NoError(t, s.Remove(2))

	tasks, err := s.Tasks()
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.False(t, tasks[1].Show)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	visible := util.Visible(tasks)
	assert.Len(t, visible, 2)
	assert.Equal(t, "a", visible[0].Title)
	assert.Equal(t, "c", visible[1].Title)

	require.NoError(t, s.Restore(2))
	task, err := s.Get(2)
	require.NoError(t, err)
	assert.True(t, task.Show)
}

func TestUnknownTaskID(t *testing.T) {
	s, backend := newMemoryStore(t)
	_, err := s.Add("a", "desc", "15")
	require.NoError(t, err)
	saves := backend.Saves()
	before, err := s.Tasks()
	require.NoError(t, err)

	assert.ErrorIs(t, s.UpdateTimer(42, "00:01:00"), ErrNotFound)
	_, err = s.GetTimer(42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ToggleCompleted(42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Remove(42), ErrNotFound)
	_, err = s.Get(42)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, saves, backend.Saves())
	after, err := s.Tasks()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestStorageFailureIsDistinct(t *testing.T) {
	s, backend := newMemoryStore(t)
	backend.SaveErr = errors.New("disk full")

	_, err := s.Add("a", "", "")
	require.Error(t, err)

	var storageErr *StorageError
	assert.True(t, errors.As(err, &storageErr))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, IsValidation(err))
}

func TestOpen_UnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0644))

	_, err := Open(filepath.Join(blocker, "task.json"), true)
	require.Error(t, err)

	var storageErr *StorageError
	assert.True(t, errors.As(err, &storageErr))
}

func TestClosedStore(t *testing.T) {
	s, _ := newMemoryStore(t)
	require.NoError(t, s.Close())

	_, err := s.Tasks()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Add("a", "", "")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestLegacyFileIsRewrittenCanonically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.json")
	legacy := `{"tasks": [{"title": "old", "description": "", "taskID": 1, "timer": "0:05:03", "completed": false, "show": "True"}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	s, err := Open(path, false)
	require.NoError(t, err)

	d, err := s.GetTimer(1)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute+3*time.Second, d)

	_, err = s.ToggleCompleted(1)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"show": true`)
	assert.Contains(t, string(data), `"time_goal": "00:00:00"`)
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s, path := newFileStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Add("a", "", "")
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), e.Name())
	}
	assert.Len(t, entries, 1)
}

func TestEnsureRecreatesDeletedFile(t *testing.T) {
	s, path := newFileStore(t)
	_, err := s.Add("a", "", "")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
