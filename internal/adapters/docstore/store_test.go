package docstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/adapters/docstore"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

func newStore(t *testing.T) (*docstore.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "social.json")
	return docstore.NewFileStore(path, 5*time.Second), path
}

func TestLoadMissingFileIsEmptyDocument(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Revision != 0 || len(snap.Users) != 0 {
		t.Fatalf("expected empty document, got %+v", snap)
	}
}

func TestUpdatePersistsAndBumpsRevision(t *testing.T) {
	t.Parallel()

	store, path := newStore(t)
	ctx := context.Background()
	err := store.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Users = append(snap.Users, domain.User{UserID: 1, Name: "Ana", AccountType: domain.AccountTypeBuyer})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Revision != 1 {
		t.Fatalf("revision: got %d, want 1", snap.Revision)
	}
	if len(snap.Users) != 1 || snap.Users[0].Name != "Ana" {
		t.Fatalf("users: %+v", snap.Users)
	}

	// No temp files left behind after the rename.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestUpdateErrorWritesNothing(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := store.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Users = append(snap.Users, domain.User{UserID: 1})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Revision != 0 || len(snap.Users) != 0 {
		t.Fatalf("aborted update leaked state: %+v", snap)
	}
}

func TestSaveStaleRevisionConflicts(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	ctx := context.Background()

	stale, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := store.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Users = append(snap.Users, domain.User{UserID: 1})
		return nil
	}); err != nil {
		t.Fatalf("concurrent update: %v", err)
	}

	stale.Users = append(stale.Users, domain.User{UserID: 2})
	err = store.Save(ctx, stale)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUpdateSerializesWriters(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	ctx := context.Background()

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Update(ctx, func(snap *domain.Snapshot) error {
				snap.Notifications = append(snap.Notifications, domain.Notification{
					NotificationID: snap.NextNotificationID(),
					UserID:         int64(n),
					Message:        "ping",
				})
				return nil
			})
		}(i)
	}
	wg.Wait()

	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Notifications) != writers {
		t.Fatalf("lost updates: got %d notifications, want %d", len(snap.Notifications), writers)
	}
	seen := make(map[int64]bool)
	for _, n := range snap.Notifications {
		if seen[n.NotificationID] {
			t.Fatalf("duplicate notification id %d", n.NotificationID)
		}
		seen[n.NotificationID] = true
	}
	if snap.Revision != writers {
		t.Fatalf("revision: got %d, want %d", snap.Revision, writers)
	}
}

func TestTimedOutUpdateCannotClobberLaterWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "social.json")
	store := docstore.NewFileStore(path, 50*time.Millisecond)
	ctx := context.Background()

	release := make(chan struct{})
	err := store.Update(ctx, func(snap *domain.Snapshot) error {
		snap.Users = append(snap.Users, domain.User{UserID: 1, Name: "Stalled"})
		<-release
		return nil
	})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("stalled update should time out, got %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- store.Update(ctx, func(snap *domain.Snapshot) error {
			snap.Users = append(snap.Users, domain.User{UserID: 2, Name: "Next"})
			return nil
		})
	}()

	// The next writer must not get in while the stalled write is in flight.
	select {
	case err := <-done:
		t.Fatalf("second update did not wait for the stalled writer: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("second update: %v", err)
	}

	snap, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Users) != 2 {
		t.Fatalf("lost update: %+v", snap.Users)
	}
	if snap.Users[1].UserID != 2 {
		t.Fatalf("later write clobbered by the timed-out one: %+v", snap.Users)
	}
}

func TestOutboxRepositoryLifecycle(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	ctx := context.Background()
	repo := docstore.NewOutboxRepository(store)

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Update(ctx, func(snap *domain.Snapshot) error {
		snap.AppendOutbox("ob-2", "collab.requested", "r1", []byte(`{}`), base.Add(time.Minute))
		snap.AppendOutbox("ob-1", "social.user_followed", "7", []byte(`{}`), base)
		return nil
	}); err != nil {
		t.Fatalf("seed outbox: %v", err)
	}

	pending, err := repo.FetchUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(pending) != 2 || pending[0].OutboxID != "ob-1" {
		t.Fatalf("expected oldest first, got %+v", pending)
	}

	if err := repo.MarkPublished(ctx, "ob-1", base.Add(2*time.Minute)); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	if err := repo.MarkFailed(ctx, "ob-2", "broker down", base.Add(2*time.Minute)); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	pending, err = repo.FetchUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "ob-2" {
		t.Fatalf("published entry still pending: %+v", pending)
	}
	if pending[0].RetryCount != 1 || pending[0].LastError != "broker down" {
		t.Fatalf("failure bookkeeping missing: %+v", pending[0])
	}
}
