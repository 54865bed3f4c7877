package ports

import (
	"context"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

// Store is the shared-document persistence port. Load returns a private
// copy of the current document. Update runs fn inside the store's
// single-writer critical section: the mutated snapshot is persisted
// atomically, or not at all if fn returns an error.
type Store interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Update(ctx context.Context, fn func(*domain.Snapshot) error) error
}

// OutboxRepository is the worker-facing view of the durable event outbox.
type OutboxRepository interface {
	FetchUnpublished(ctx context.Context, limit int) ([]domain.OutboxEntry, error)
	MarkPublished(ctx context.Context, outboxID string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID string, errMsg string, at time.Time) error
}
