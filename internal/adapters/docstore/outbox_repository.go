package docstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

// OutboxRepository exposes the document's outbox section to the outbox
// worker. Events are appended by application writes in the same document
// commit as the state change they describe.
type OutboxRepository struct {
	store *FileStore
}

func NewOutboxRepository(store *FileStore) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	snap, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]domain.OutboxEntry, 0, len(snap.Outbox))
	for _, entry := range snap.Outbox {
		if entry.PublishedAt == nil {
			pending = append(pending, entry)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].OccurredAt.Before(pending[j].OccurredAt) })
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, outboxID string, at time.Time) error {
	return r.store.Update(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Outbox {
			if snap.Outbox[i].OutboxID == outboxID {
				snap.Outbox[i].PublishedAt = &at
				snap.Outbox[i].LastError = ""
				return nil
			}
		}
		return fmt.Errorf("%w: outbox entry %s", domain.ErrNotFound, outboxID)
	})
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, outboxID string, errMsg string, at time.Time) error {
	return r.store.Update(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Outbox {
			if snap.Outbox[i].OutboxID == outboxID {
				snap.Outbox[i].RetryCount++
				snap.Outbox[i].LastError = errMsg
				return nil
			}
		}
		return fmt.Errorf("%w: outbox entry %s", domain.ErrNotFound, outboxID)
	})
}
