package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

// ListNotifications returns the user's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.UserByID(userID) == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	out := make([]domain.Notification, 0)
	for _, n := range snap.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// ListMessagesBetween returns the conversation between two users in send
// order.
func (s *Service) ListMessagesBetween(ctx context.Context, userA, userB int64) ([]domain.Message, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Message, 0)
	for _, m := range snap.Messages {
		if (m.FromUserID == userA && m.ToUserID == userB) || (m.FromUserID == userB && m.ToUserID == userA) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

// UnreadCount returns how many unread messages the user has.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, m := range snap.Messages {
		if m.ToUserID == userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

// MarkMessageRead flags a message as read.
func (s *Service) MarkMessageRead(ctx context.Context, messageID int64) error {
	return s.store.Update(ctx, func(snap *domain.Snapshot) error {
		for i := range snap.Messages {
			if snap.Messages[i].MessageID == messageID {
				snap.Messages[i].IsRead = true
				return nil
			}
		}
		return fmt.Errorf("%w: message %d", domain.ErrNotFound, messageID)
	})
}
