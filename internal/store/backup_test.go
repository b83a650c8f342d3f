package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupTaskFile(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "task.json")
	require.NoError(t, os.WriteFile(dataFile, []byte(`{"tasks": []}`), 0644))

	backupDir := filepath.Join(dir, "backup")
	path, err := BackupTaskFile(dataFile, backupDir, time.Now())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"tasks": []}`, string(data))
}

func TestBackupTaskFile_MissingSource(t *testing.T) {
	_, err := BackupTaskFile(filepath.Join(t.TempDir(), "nope.json"), t.TempDir(), time.Now())
	assert.Error(t, err)
}

func TestCleanupBackups(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "task.json")
	require.NoError(t, os.WriteFile(dataFile, []byte(`{"tasks": []}`), 0644))
	backupDir := filepath.Join(dir, "backup")

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old, err := BackupTaskFile(dataFile, backupDir, now.Add(-20*24*time.Hour))
	require.NoError(t, err)
	recent, err := BackupTaskFile(dataFile, backupDir, now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(backupDir, "notes.txt"), []byte("keep"), 0644))

	removed, err := CleanupBackups(backupDir, 14*24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(recent)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(backupDir, "notes.txt"))
	assert.NoError(t, err)
}

func TestCleanupBackups_MissingDir(t *testing.T) {
	removed, err := CleanupBackups(filepath.Join(t.TempDir(), "none"), time.Hour, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
