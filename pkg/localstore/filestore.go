package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/artvia/artvia-backend/pkg/logger"
)

var unsafeKeyRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// entry is the on-disk document for one key.
type entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FileStore persists each key as a JSON file under Dir. Writes are
// atomic (temp file + rename). A file that fails to parse is treated
// as absent and logged, never surfaced as an error to the caller.
type FileStore struct {
	mu   sync.Mutex
	dir  string
	logg *logger.Logger
}

// NewFileStore creates dir if needed. logg may be nil.
func NewFileStore(dir string, logg *logger.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", dir, err)
	}
	return &FileStore{dir: dir, logg: logg}, nil
}

func (f *FileStore) warn(key, msg string) {
	if f.logg == nil {
		return
	}
	ctx := f.logg.WithField(context.Background(), "key", key)
	f.logg.Warn(ctx, msg)
}

func (f *FileStore) path(key string) string {
	safe := unsafeKeyRe.ReplaceAllString(key, "_")
	return filepath.Join(f.dir, safe+".json")
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			f.warn(key, "state file unreadable, treating as absent")
		}
		return "", false
	}

	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		f.warn(key, "state file corrupt, treating as absent")
		return "", false
	}
	return e.Value, true
}

func (f *FileStore) Set(key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := json.Marshal(entry{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("marshal state for %q: %w", key, err)
	}

	dst := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write state for %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close state file for %q: %w", key, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("persist state for %q: %w", key, err)
	}
	return nil
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete state for %q: %w", key, err)
	}
	return nil
}
