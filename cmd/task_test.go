package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nakachan-ing/task-tracker/internal/model"
	"github.com/nakachan-ing/task-tracker/internal/store"
	"github.com/nakachan-ing/task-tracker/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countBackups(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func TestAddTask_InvalidInputTakesNoBackup(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")

	config := model.DefaultConfig()
	config.DataFile = filepath.Join(dir, "task.json")
	config.Backup.Enable = true
	config.Backup.BackupDir = backupDir
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, store.SaveConfigTo(configPath, config))

	t.Setenv(store.ConfigEnv, configPath)
	t.Setenv(store.DataFileEnv, "")

	// no data file yet, so nothing to back up
	task, err := addTask("first", "", "30")
	require.NoError(t, err)
	assert.Equal(t, 1, task.TaskID)
	assert.Equal(t, 0, countBackups(t, backupDir))

	_, err = addTask("  ", "", "30")
	assert.ErrorIs(t, err, store.ErrEmptyTitle)
	_, err = addTask("second", "", "whenever")
	assert.ErrorIs(t, err, util.ErrInvalidGoal)
	assert.Equal(t, 0, countBackups(t, backupDir))

	_, err = addTask("second", "", "15")
	require.NoError(t, err)
	assert.Equal(t, 1, countBackups(t, backupDir))
}
