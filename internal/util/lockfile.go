package util

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nakachan-ing/task-tracker/internal/model"
	"gopkg.in/yaml.v3"
)

// CreateLockFile writes a lock describing this process. A lock held by a
// live process is left in place and returned so the caller can warn about
// it. A lock whose process is gone, or that cannot be parsed, is replaced.
func CreateLockFile(lockFileName, dataFile string) (*model.LockFile, error) {
	existing, err := ReadLockFile(lockFileName)
	switch {
	case err == nil:
		if existing.Pid == os.Getpid() || processAlive(existing.Pid) {
			return existing, nil
		}
	case errors.Is(err, os.ErrNotExist), errors.Is(err, ErrCorruptLock):
	default:
		return nil, err
	}

	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	if user == "" {
		user = "unknown"
	}

	lockFile := model.LockFile{
		ID:        uuid.NewString(),
		User:      user,
		Pid:       os.Getpid(),
		DataFile:  dataFile,
		TimeStamp: time.Now().UTC().Format(time.RFC3339),
	}

	info, err := yaml.Marshal(&lockFile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(lockFileName, info, 0644); err != nil {
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	return nil, nil
}

var ErrCorruptLock = errors.New("lock file is corrupt")

func ReadLockFile(lockFileName string) (*model.LockFile, error) {
	data, err := os.ReadFile(lockFileName)
	if err != nil {
		return nil, err
	}

	var lockFile model.LockFile
	if err := yaml.Unmarshal(data, &lockFile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLock, err)
	}
	return &lockFile, nil
}

func RemoveLockFile(lockFileName string) error {
	if err := os.Remove(lockFileName); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
