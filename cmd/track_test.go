package cmd

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/task-tracker/internal/store"
	"github.com/nakachan-ing/task-tracker/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackModelForTests(t *testing.T, titles ...string) (*trackModel, *store.TaskStore, *tracker.FakeClock) {
	t.Helper()
	taskStore, err := store.New(store.NewMemoryBackend())
	require.NoError(t, err)
	for _, title := range titles {
		_, err := taskStore.Add(title, "", "10")
		require.NoError(t, err)
	}
	clock := tracker.NewFakeClock(time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC))
	session := tracker.NewSession(taskStore, tracker.WithClock(clock))
	return newTrackModel(taskStore, session, time.Second), taskStore, clock
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func assertQuits(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func storedTimer(t *testing.T, taskStore *store.TaskStore, id int) string {
	t.Helper()
	task, err := taskStore.Get(id)
	require.NoError(t, err)
	return task.Timer
}

func TestTrack_QuitSavesRunningTimer(t *testing.T) {
	m, taskStore, clock := newTrackModelForTests(t, "write", "read")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, tracker.Running, m.session.State(1))

	clock.Advance(90 * time.Second)
	_, cmd := m.Update(key("q"))

	assertQuits(t, cmd)
	assert.NoError(t, m.err)
	assert.Equal(t, "00:01:30", storedTimer(t, taskStore, 1))
	assert.Equal(t, "00:00:00", storedTimer(t, taskStore, 2))
	assert.Equal(t, tracker.Stopped, m.session.State(2))
}

func TestTrack_CtrlCInAddFormQuits(t *testing.T) {
	m, taskStore, clock := newTrackModelForTests(t, "write")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	clock.Advance(5 * time.Second)

	_, _ = m.Update(key("a"))
	require.True(t, m.adding)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assertQuits(t, cmd)
	assert.Equal(t, "00:00:05", storedTimer(t, taskStore, 1))
}

func TestTrack_AddFormCreatesTask(t *testing.T) {
	m, taskStore, _ := newTrackModelForTests(t)

	_, _ = m.Update(key("a"))
	for _, r := range "plan" {
		_, _ = m.Update(key(string(r)))
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "45" {
		_, _ = m.Update(key(string(r)))
	}
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.adding)
	task, err := taskStore.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "plan", task.Title)
	assert.Equal(t, "00:45:00", task.TimeGoal)
}
