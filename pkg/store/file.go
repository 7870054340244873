package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/line"
)

const lockTimeout = 5 * time.Second

// FileStore keeps one JSON file per record in a directory. An RWMutex
// serializes writers within the process and a lock file does the same across
// processes, so the CLI and a running server can share the directory.
type FileStore struct {
	dir      string
	lockPath string
	mu       sync.RWMutex
}

// NewFileStore creates a file store. If dir is empty, it defaults to
// ~/.config/lineplanner/lines.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "lineplanner", "lines")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{dir: dir, lockPath: filepath.Join(dir, ".lock")}, nil
}

// Path returns the store directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, r *line.Record) error {
	if err := validate(r); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	tmp := s.recordPath(r.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := os.Rename(tmp, s.recordPath(r.ID)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*line.Record, error) {
	if err := errors.ValidateRecordID(id); err != nil {
		return nil, err
	}
	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()
	return s.read(s.recordPath(id), id)
}

func (s *FileStore) List(ctx context.Context) ([]*line.Record, error) {
	unlock, err := s.acquire(ctx, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	var out []*line.Record
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		r, err := s.read(filepath.Join(s.dir, name), strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		out = append(out, r)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateRecordID(id); err != nil {
		return err
	}
	unlock, err := s.acquire(ctx, true)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove record: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(path, id string) (*line.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	var r line.Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", id, err)
	}
	return &r, nil
}

// acquire takes the in-process lock and then the shared or exclusive file
// lock, giving up on the file lock after lockTimeout. Each call opens its own
// flock handle; a shared handle would report success to every goroutine.
func (s *FileStore) acquire(ctx context.Context, exclusive bool) (func(), error) {
	if exclusive {
		s.mu.Lock()
	} else {
		s.mu.RLock()
	}
	release := func() {
		if exclusive {
			s.mu.Unlock()
		} else {
			s.mu.RUnlock()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	fl := flock.New(s.lockPath)
	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = fl.TryLockContext(ctx, 50*time.Millisecond)
	} else {
		locked, err = fl.TryRLockContext(ctx, 50*time.Millisecond)
	}
	if err != nil {
		release()
		return nil, fmt.Errorf("acquiring store lock: %w", err)
	}
	if !locked {
		release()
		return nil, fmt.Errorf("timeout waiting for store lock")
	}
	return func() {
		_ = fl.Unlock()
		release()
	}, nil
}

var _ Store = (*FileStore)(nil)
