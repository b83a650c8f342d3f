package store

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid"
)

const backupPrefix = "task-"

// BackupTaskFile copies the data file into backupDir under a time sortable
// name and returns the new path.
func BackupTaskFile(dataFile, backupDir string, now time.Time) (string, error) {
	src, err := os.Open(dataFile)
	if err != nil {
		return "", fmt.Errorf("failed to open data file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	id := ulid.MustNew(ulid.Timestamp(now), entropy)
	backupPath := filepath.Join(backupDir, backupPrefix+id.String()+".json")

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to copy data file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup file: %w", err)
	}

	return backupPath, nil
}

// CleanupBackups deletes backups older than retention, judged by the
// timestamp encoded in their names. It returns the number removed.
func CleanupBackups(backupDir string, retention time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read backup directory: %w", err)
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}

		id, err := ulid.Parse(strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), ".json"))
		if err != nil {
			continue
		}
		if ulid.Time(id.Time()).Before(cutoff) {
			if err := os.Remove(filepath.Join(backupDir, name)); err != nil {
				return removed, fmt.Errorf("failed to remove backup %s: %w", name, err)
			}
			removed++
		}
	}

	return removed, nil
}
