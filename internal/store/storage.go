package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nakachan-ing/task-tracker/internal/model"
)

// Backend persists the whole task document. Every save replaces the
// previous document; there is no append log and no locking.
type Backend interface {
	// Ensure creates an empty document if none exists yet.
	Ensure() error
	Load() (model.TaskFile, error)
	Save(doc model.TaskFile) error
}

// StorageError is returned when the backing document cannot be read or written.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// FileBackend keeps the document in a single JSON file.
type FileBackend struct {
	Path string
	// Atomic writes to a temp file in the same directory and renames it
	// over Path, so a crash never leaves a half written document.
	Atomic bool
}

func (b *FileBackend) Ensure() error {
	_, err := os.Stat(b.Path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return &StorageError{Op: "stat", Path: b.Path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(b.Path), 0755); err != nil {
		return &StorageError{Op: "mkdir", Path: filepath.Dir(b.Path), Err: err}
	}
	return b.Save(model.TaskFile{Tasks: []model.Task{}})
}

func (b *FileBackend) Load() (model.TaskFile, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		return model.TaskFile{}, &StorageError{Op: "read", Path: b.Path, Err: err}
	}

	var doc model.TaskFile
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return model.TaskFile{}, &StorageError{Op: "decode", Path: b.Path, Err: err}
		}
	}
	if doc.Tasks == nil {
		doc.Tasks = []model.Task{}
	}
	return doc, nil
}

func (b *FileBackend) Save(doc model.TaskFile) error {
	if doc.Tasks == nil {
		doc.Tasks = []model.Task{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Path: b.Path, Err: err}
	}

	if !b.Atomic {
		if err := os.WriteFile(b.Path, data, 0644); err != nil {
			return &StorageError{Op: "write", Path: b.Path, Err: err}
		}
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.Path), filepath.Base(b.Path)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "write", Path: b.Path, Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return &StorageError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return &StorageError{Op: "sync", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "close", Path: tmpPath, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "chmod", Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, b.Path); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Op: "rename", Path: b.Path, Err: err}
	}
	return nil
}

// MemoryBackend holds the document in memory.
type MemoryBackend struct {
	mu      sync.Mutex
	doc     *model.TaskFile
	SaveErr error // returned by Save when set
	saves   int
}

func NewMemoryBackend(tasks ...model.Task) *MemoryBackend {
	b := &MemoryBackend{}
	if len(tasks) > 0 {
		b.doc = &model.TaskFile{Tasks: append([]model.Task(nil), tasks...)}
	}
	return b
}

func (b *MemoryBackend) Ensure() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.doc == nil {
		b.doc = &model.TaskFile{Tasks: []model.Task{}}
	}
	return nil
}

func (b *MemoryBackend) Load() (model.TaskFile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.doc == nil {
		return model.TaskFile{}, &StorageError{Op: "read", Path: "memory", Err: os.ErrNotExist}
	}
	return model.TaskFile{Tasks: append([]model.Task{}, b.doc.Tasks...)}, nil
}

func (b *MemoryBackend) Save(doc model.TaskFile) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.SaveErr != nil {
		return &StorageError{Op: "write", Path: "memory", Err: b.SaveErr}
	}
	b.doc = &model.TaskFile{Tasks: append([]model.Task{}, doc.Tasks...)}
	b.saves++
	return nil
}

// Saves reports how many times the document has been written.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}
