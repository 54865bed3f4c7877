package application

import (
	"context"
	"fmt"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

func followersCacheKey(userID int64) string { return fmt.Sprintf("social:followers:%d", userID) }
func followingCacheKey(userID int64) string { return fmt.Sprintf("social:following:%d", userID) }

// cacheGet reads through the cache when one is wired. Cache failures are
// treated as misses.
func (s *Service) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed",
			"module", "application.cache",
			"operation", "get",
			"outcome", "degraded",
			"key", key,
			"error", err,
		)
		return "", false
	}
	return value, value != ""
}

func (s *Service) cacheSet(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.SocialCacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			"module", "application.cache",
			"operation", "set",
			"outcome", "degraded",
			"key", key,
			"error", err,
		)
	}
}

func (s *Service) invalidateSocialCache(ctx context.Context, userIDs ...int64) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(userIDs)*2)
	for _, id := range userIDs {
		keys = append(keys, followersCacheKey(id), followingCacheKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed",
			"module", "application.cache",
			"operation", "delete",
			"outcome", "degraded",
			"error", err,
		)
	}
}

// dispatchNotification records a message and a notification for the
// recipient in a separate store commit. Side-effect delivery is best
// effort: a failure is logged and never propagated to the workflow that
// triggered it.
func (s *Service) dispatchNotification(ctx context.Context, fromID, toID int64, messageType, content string) {
	if err := s.dispatchMessage(ctx, fromID, toID, messageType, content); err != nil {
		s.logger.WarnContext(ctx, "notification dispatch failed",
			"module", "application.notifications",
			"operation", "dispatch",
			"outcome", "degraded",
			"from_user_id", fromID,
			"to_user_id", toID,
			"error", err,
		)
	}
}

func (s *Service) dispatchMessage(ctx context.Context, fromID, toID int64, messageType, content string) error {
	return s.store.Update(ctx, func(snap *domain.Snapshot) error {
		now := s.nowFn()
		snap.Messages = append(snap.Messages, domain.Message{
			MessageID:   snap.NextMessageID(),
			FromUserID:  fromID,
			ToUserID:    toID,
			MessageType: messageType,
			Content:     content,
			SentAt:      now,
		})
		snap.Notifications = append(snap.Notifications, domain.Notification{
			NotificationID: snap.NextNotificationID(),
			UserID:         toID,
			Message:        content,
			Timestamp:      now,
		})
		return nil
	})
}
