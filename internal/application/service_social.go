package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/contracts"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

// Follow creates the mutual follow relationship between a buyer and a
// seller or influencer. Following an account twice is a no-op, not an
// error. Returns whether the relationship was newly created.
func (s *Service) Follow(ctx context.Context, actorID, targetID int64) (bool, error) {
	if err := domain.ValidateUserID(actorID); err != nil {
		return false, err
	}
	if err := domain.ValidateUserID(targetID); err != nil {
		return false, err
	}
	if actorID == targetID {
		return false, fmt.Errorf("%w: cannot follow yourself", domain.ErrInvalidInput)
	}

	var created bool
	var actorName string
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		actor := snap.UserByID(actorID)
		if actor == nil {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, actorID)
		}
		target := snap.UserByID(targetID)
		if target == nil {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, targetID)
		}
		if err := domain.CanFollow(actor, target); err != nil {
			return err
		}

		snap.NormalizeFollowLists(actor)
		snap.NormalizeFollowLists(target)
		for _, ref := range actor.Following {
			if ref.UserID == targetID {
				return nil
			}
		}

		now := s.nowFn()
		actor.Following = append(actor.Following, domain.FollowRef{
			UserID:       target.UserID,
			Name:         target.Name,
			ProfileImage: target.ProfileImage,
			AccountType:  target.AccountType,
			FollowedAt:   &now,
		})
		target.Followers = append(target.Followers, domain.FollowRef{
			UserID:       actor.UserID,
			Name:         actor.Name,
			ProfileImage: actor.ProfileImage,
			AccountType:  actor.AccountType,
			FollowedAt:   &now,
		})
		actor.FollowingCount = len(actor.Following)
		target.FollowersCount = len(target.Followers)

		payload, _ := json.Marshal(contracts.FollowEvent{
			FollowerID: actorID,
			FollowedID: targetID,
			OccurredAt: now,
		})
		snap.AppendOutbox(s.newID(), contracts.EventUserFollowed, strconv.FormatInt(targetID, 10), payload, now)

		actorName = actor.Name
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if created {
		s.invalidateSocialCache(ctx, actorID, targetID)
		s.dispatchNotification(ctx, actorID, targetID, "follow", fmt.Sprintf("%s started following you", actorName))
	}
	return created, nil
}

// Unfollow removes the relationship in both directions. Removal is
// tolerant of one-sided entries left by older writers. Returns whether
// anything was removed.
func (s *Service) Unfollow(ctx context.Context, actorID, targetID int64) (bool, error) {
	var removed bool
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		actor := snap.UserByID(actorID)
		if actor == nil {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, actorID)
		}
		target := snap.UserByID(targetID)
		if target == nil {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, targetID)
		}

		snap.NormalizeFollowLists(actor)
		snap.NormalizeFollowLists(target)
		actor.Following, removed = removeRef(actor.Following, targetID)
		var removedBack bool
		target.Followers, removedBack = removeRef(target.Followers, actorID)
		removed = removed || removedBack
		actor.FollowingCount = len(actor.Following)
		target.FollowersCount = len(target.Followers)

		if removed {
			now := s.nowFn()
			payload, _ := json.Marshal(contracts.FollowEvent{
				FollowerID: actorID,
				FollowedID: targetID,
				OccurredAt: now,
			})
			snap.AppendOutbox(s.newID(), contracts.EventUserUnfollowed, strconv.FormatInt(targetID, 10), payload, now)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.invalidateSocialCache(ctx, actorID, targetID)
	}
	return removed, nil
}

func removeRef(refs []domain.FollowRef, userID int64) ([]domain.FollowRef, bool) {
	out := refs[:0]
	found := false
	for _, ref := range refs {
		if ref.UserID == userID {
			found = true
			continue
		}
		out = append(out, ref)
	}
	return out, found
}

// IsFollowing reports whether actor currently follows target.
func (s *Service) IsFollowing(ctx context.Context, actorID, targetID int64) (bool, error) {
	refs, err := s.GetFollowing(ctx, actorID)
	if err != nil {
		return false, err
	}
	for _, ref := range refs {
		if ref.UserID == targetID {
			return true, nil
		}
	}
	return false, nil
}

// GetFollowers returns the user's follower list, normalized to the
// denormalized entry shape. Served cache-aside with a bounded TTL.
func (s *Service) GetFollowers(ctx context.Context, userID int64) ([]domain.FollowRef, error) {
	return s.followList(ctx, userID, followersCacheKey(userID), func(u *domain.User) []domain.FollowRef {
		return u.Followers
	})
}

// GetFollowing returns the accounts the user follows.
func (s *Service) GetFollowing(ctx context.Context, userID int64) ([]domain.FollowRef, error) {
	return s.followList(ctx, userID, followingCacheKey(userID), func(u *domain.User) []domain.FollowRef {
		return u.Following
	})
}

func (s *Service) followList(ctx context.Context, userID int64, cacheKey string, pick func(*domain.User) []domain.FollowRef) ([]domain.FollowRef, error) {
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		var refs []domain.FollowRef
		if err := json.Unmarshal([]byte(cached), &refs); err == nil {
			return refs, nil
		}
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	user := snap.UserByID(userID)
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	snap.NormalizeFollowLists(user)
	refs := pick(user)
	if raw, err := json.Marshal(refs); err == nil {
		s.cacheSet(ctx, cacheKey, string(raw))
	}
	return refs, nil
}

// FollowerCount returns the user's follower count, recomputed from the
// normalized list rather than trusted from the stored counter.
func (s *Service) FollowerCount(ctx context.Context, userID int64) (int, error) {
	refs, err := s.GetFollowers(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(refs), nil
}

// SuggestedFollows returns followable accounts the user does not follow
// yet, most-followed first.
func (s *Service) SuggestedFollows(ctx context.Context, userID int64) ([]UserSummary, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	user := snap.UserByID(userID)
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	snap.NormalizeFollowLists(user)
	suggestions := snap.SuggestedFollows(user, s.cfg.SuggestionLimit)
	out := make([]UserSummary, 0, len(suggestions))
	for _, u := range suggestions {
		out = append(out, summarize(u))
	}
	return out, nil
}
