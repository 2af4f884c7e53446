// Package store owns the on-disk work directory: segmentation and analysis
// work files in a human-inspectable YAML serialization, plus the fingerprint
// records that gate incremental re-runs.
//
// One store instance owns the directory exclusively for the duration of a
// run, guarded by a lock file. All writes go through write-new-then-rename
// so a crash mid-write can never be mistaken for a valid cached result.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

// Store provides read/write access to one work directory.
type Store struct {
	dir   string
	lock  *flock.Flock
	cache *gocache.Cache // parsed work files, valid for the lifetime of the run
	runID string
}

// Open creates the work directory if needed and takes the exclusive run
// lock. It fails immediately when another run holds the directory.
func Open(dir string) (*Store, error) {
	for _, sub := range []string{"segments", "analysis"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create work directory: %w", err)
		}
	}

	lock := flock.New(filepath.Join(dir, ".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock work directory %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("work directory %s is in use by another run", dir)
	}

	return &Store{
		dir:   dir,
		lock:  lock,
		cache: gocache.New(gocache.NoExpiration, 0),
		runID: uuid.NewString(),
	}, nil
}

// Close releases the run lock.
func (s *Store) Close() error {
	return s.lock.Unlock()
}

// RunID identifies this run in the emitted work files.
func (s *Store) RunID() string {
	return s.runID
}

// Dir returns the work directory root.
func (s *Store) Dir() string {
	return s.dir
}

// Clean removes all work files but keeps the directory (and the lock).
func (s *Store) Clean() error {
	for _, sub := range []string{"segments", "analysis"} {
		path := filepath.Join(s.dir, sub)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("clean %s: %w", path, err)
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return err
		}
	}
	s.cache.Flush()
	return nil
}

func (s *Store) segmentsPath(docID string) string {
	return filepath.Join(s.dir, "segments", docID+".yaml")
}

func (s *Store) analysisPath(docID string) string {
	return filepath.Join(s.dir, "analysis", docID+".yaml")
}

// readYAML loads and caches one work file. The second return value is false
// when the file does not exist; unreadable or truncated files are treated
// the same way, as stale state to be regenerated.
func readYAML[T any](s *Store, path string) (*T, bool) {
	if cached, found := s.cache.Get(path); found {
		return cached.(*T), true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	out := new(T)
	if err := yaml.Unmarshal(data, out); err != nil {
		// Partial or corrupt file: never mistake it for a valid result.
		return nil, false
	}
	s.cache.Set(path, out, gocache.NoExpiration)
	return out, true
}

// writeYAML marshals a work file and replaces the target atomically.
func writeYAML[T any](s *Store, path string, value *T) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	s.cache.Set(path, value, gocache.NoExpiration)
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
