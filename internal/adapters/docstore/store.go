package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

// FileStore persists the whole document as one JSON file. All access is
// serialized through a single mutex, held until the I/O of the current
// operation finishes even when the caller's deadline fires first; saves go
// through a temp file plus rename so readers never observe a half-written
// document. Every persisted write bumps the document revision, and Save
// refuses to clobber a document whose on-disk revision moved past the
// snapshot it was loaded from.
type FileStore struct {
	path    string
	timeout time.Duration

	mu sync.Mutex
}

func NewFileStore(path string, timeout time.Duration) *FileStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &FileStore{path: path, timeout: timeout}
}

// Load returns a private copy of the current document. A missing file is
// an empty document, not an error.
func (s *FileStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.bounded(ctx, func() error {
		var readErr error
		snap, readErr = s.read()
		return readErr
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Update runs fn inside the store's critical section and persists the
// mutated snapshot atomically. If fn returns an error nothing is written.
func (s *FileStore) Update(ctx context.Context, fn func(*domain.Snapshot) error) error {
	return s.bounded(ctx, func() error {
		snap, err := s.read()
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
		return s.write(snap)
	})
}

// Save persists a snapshot loaded earlier via Load. It fails with
// ErrConflict when the on-disk revision no longer matches the snapshot's,
// which means another writer won the race.
func (s *FileStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	return s.bounded(ctx, func() error {
		current, err := s.read()
		if err != nil {
			return err
		}
		if current.Revision != snap.Revision {
			return fmt.Errorf("%w: document revision %d is stale, on-disk revision is %d",
				domain.ErrConflict, snap.Revision, current.Revision)
		}
		return s.write(snap)
	})
}

// bounded runs op under the store mutex with the configured I/O deadline,
// counted from when the mutex is acquired. A deadline hit surfaces as
// ErrStoreUnavailable, but the mutex is only released when the in-flight
// op returns: a timed-out write finishes (or fails) strictly before the
// next writer loads the document, so it can never clobber a later commit.
func (s *FileStore) bounded(ctx context.Context, op func() error) error {
	s.mu.Lock()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer s.mu.Unlock()
		done <- op()
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, ctx.Err())
	case err := <-done:
		return err
	}
}

func (s *FileStore) read() (*domain.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &domain.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read document: %v", domain.ErrStoreUnavailable, err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", domain.ErrStoreUnavailable, err)
	}
	return &snap, nil
}

func (s *FileStore) write(snap *domain.Snapshot) error {
	snap.Revision++
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create document dir: %v", domain.ErrStoreUnavailable, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: create temp document: %v", domain.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write temp document: %v", domain.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close temp document: %v", domain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: replace document: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
