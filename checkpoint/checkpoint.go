// Package checkpoint provides durable completion markers for pipeline
// stages. A marker is keyed by (item, stage) and is created exactly once,
// immediately after the stage's work succeeds; its presence is the only
// signal the executor uses to skip re-execution on a resumed invocation.
package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store tracks which stages have completed. Implementations must be durable
// enough for the run's resume semantics: a key reported completed must have
// been marked by a previous successful execution.
type Store interface {
	// Completed reports whether the marker for key exists.
	Completed(key string) (bool, error)
	// Mark creates the marker for key. Call it only after the stage's work
	// has succeeded; a Mark failure means the success cannot be trusted on
	// resume and must abort the run.
	Mark(key string) error
}

// Key returns the checkpoint key for a per-item stage: "<item>.<stage>".
// Run-wide stages use the stage name alone.
func Key(item, stage string) string {
	return item + "." + stage
}

// FileStore records completion as empty sentinel files "<dir>/<key>.done".
// The file's existence is the signal; its content is never read.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir, creating dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the sentinel files.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".done")
}

// Completed implements Store.
func (s *FileStore) Completed(key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checkpoint %s: %w", key, err)
}

// Mark implements Store. Creating the sentinel is idempotent at the
// filesystem level, but the executor calls it at most once per key.
func (s *FileStore) Mark(key string) error {
	f, err := os.OpenFile(s.path(key), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("mark checkpoint %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("mark checkpoint %s: %w", key, err)
	}
	return nil
}

// Clean removes every sentinel file under the store's directory. It is the
// destructive "clean start" operation and must only run before any stage.
func (s *FileStore) Clean() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("clean checkpoints: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".done") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("clean checkpoints: %w", err)
		}
	}
	return nil
}

// MemStore is an in-memory Store for tests. Safe for concurrent use.
type MemStore struct {
	mu   sync.Mutex
	done map[string]bool

	// FailMark, if set, is returned by Mark to simulate a store that cannot
	// durably record success.
	FailMark error
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{done: make(map[string]bool)}
}

// Completed implements Store.
func (s *MemStore) Completed(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done[key], nil
}

// Mark implements Store.
func (s *MemStore) Mark(key string) error {
	if s.FailMark != nil {
		return s.FailMark
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[key] = true
	return nil
}

// Keys returns all marked keys (unordered). Test helper.
func (s *MemStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.done))
	for k := range s.done {
		keys = append(keys, k)
	}
	return keys
}
