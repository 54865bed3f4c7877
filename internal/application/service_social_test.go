package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/adapters/docstore"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/application"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

func newTestService(t *testing.T) (*application.Service, *docstore.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "social.json")
	store := docstore.NewFileStore(path, 5*time.Second)
	svc := application.NewService(application.Dependencies{Store: store})

	err := store.Update(context.Background(), func(snap *domain.Snapshot) error {
		now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
		snap.Users = []domain.User{
			{UserID: 1, Name: "Ben", AccountType: domain.AccountTypeBuyer, CreatedAt: now},
			{UserID: 2, Name: "Shop", AccountType: domain.AccountTypeSeller, Tier: domain.TierBasic, CreatedAt: now},
			{UserID: 3, Name: "Mara", AccountType: domain.AccountTypeInfluencer, FollowersCount: 20, CreatedAt: now},
			{UserID: 4, Name: "MegaShop", AccountType: domain.AccountTypeSeller, Tier: domain.TierPro, FollowersCount: 100, CreatedAt: now},
			{UserID: 5, Name: "Iva", AccountType: domain.AccountTypeInfluencer, FollowersCount: 50, CreatedAt: now},
			{UserID: 6, Name: "Bea", AccountType: domain.AccountTypeBuyer, CreatedAt: now},
			{UserID: 7, Name: "Desk", AccountType: domain.AccountTypeAdmin, CreatedAt: now},
		}
		snap.Products = []domain.Product{
			{ProductID: 10, ProductName: "Sneakers", SellerID: 2, Cost: 80, Currency: "USD", Verified: true, CreatedAt: now},
			{ProductID: 11, ProductName: "Prototype", SellerID: 2, Cost: 10, Currency: "USD", Verified: false, CreatedAt: now},
			{ProductID: 12, ProductName: "Headphones", SellerID: 4, Cost: 120, Currency: "USD", Verified: true, CreatedAt: now},
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return svc, store, path
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Follow(ctx, 1, 2)
	if err != nil {
		t.Fatalf("follow: %v", err)
	}
	if !created {
		t.Fatalf("expected new relationship")
	}

	following, err := svc.IsFollowing(ctx, 1, 2)
	if err != nil || !following {
		t.Fatalf("is following: %v %v", following, err)
	}
	followers, err := svc.GetFollowers(ctx, 2)
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if len(followers) != 1 || followers[0].UserID != 1 || followers[0].Name != "Ben" {
		t.Fatalf("followers: %+v", followers)
	}
	seller, err := svc.GetUser(ctx, 2)
	if err != nil || seller.FollowersCount != 1 {
		t.Fatalf("seller counter: %+v %v", seller, err)
	}
	buyer, err := svc.GetUser(ctx, 1)
	if err != nil || buyer.FollowingCount != 1 {
		t.Fatalf("buyer counter: %+v %v", buyer, err)
	}

	removed, err := svc.Unfollow(ctx, 1, 2)
	if err != nil || !removed {
		t.Fatalf("unfollow: %v %v", removed, err)
	}
	following, err = svc.IsFollowing(ctx, 1, 2)
	if err != nil || following {
		t.Fatalf("still following after unfollow")
	}
	seller, err = svc.GetUser(ctx, 2)
	if err != nil || seller.FollowersCount != 0 {
		t.Fatalf("seller counter after unfollow: %+v %v", seller, err)
	}
}

func TestFollowTwiceIsNoOp(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Follow(ctx, 1, 3); err != nil {
		t.Fatalf("first follow: %v", err)
	}
	created, err := svc.Follow(ctx, 1, 3)
	if err != nil {
		t.Fatalf("second follow should not error: %v", err)
	}
	if created {
		t.Fatalf("second follow should be a no-op")
	}
	followers, err := svc.GetFollowers(ctx, 3)
	if err != nil || len(followers) != 1 {
		t.Fatalf("duplicate follower entry: %+v %v", followers, err)
	}
}

func TestFollowRoleRules(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Follow(ctx, 2, 3); !errors.Is(err, domain.ErrRoleViolation) {
		t.Fatalf("seller following should be a role violation, got %v", err)
	}
	if _, err := svc.Follow(ctx, 1, 6); !errors.Is(err, domain.ErrRoleViolation) {
		t.Fatalf("following a buyer should be a role violation, got %v", err)
	}
	if _, err := svc.Follow(ctx, 1, 1); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("self-follow should be invalid, got %v", err)
	}
	if _, err := svc.Follow(ctx, 1, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown target should be not found, got %v", err)
	}
}

func TestLegacyFollowerShapesReconciled(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "social.json")
	legacy := `{
		"revision": 4,
		"users": [
			{"user_id": 1, "name": "Ben", "account_type": "Buyer", "following": [2, 2, {"user_id": 3}], "following_count": 9},
			{"user_id": 2, "name": "Shop", "account_type": "Seller", "followers": ["1"], "followers_count": 7},
			{"user_id": 3, "name": "Mara", "account_type": "Influencer", "followers": [{"user_id": 1, "name": "Ben"}]}
		]
	}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy document: %v", err)
	}
	store := docstore.NewFileStore(path, 5*time.Second)
	svc := application.NewService(application.Dependencies{Store: store})
	ctx := context.Background()

	followers, err := svc.GetFollowers(ctx, 2)
	if err != nil {
		t.Fatalf("followers: %v", err)
	}
	if len(followers) != 1 || followers[0].UserID != 1 || followers[0].Name != "Ben" {
		t.Fatalf("bare string id not normalized: %+v", followers)
	}

	count, err := svc.FollowerCount(ctx, 2)
	if err != nil || count != 1 {
		t.Fatalf("count should come from the normalized list, got %d %v", count, err)
	}

	following, err := svc.GetFollowing(ctx, 1)
	if err != nil {
		t.Fatalf("following: %v", err)
	}
	if len(following) != 2 {
		t.Fatalf("duplicate bare ids not collapsed: %+v", following)
	}

	// Symmetric removal tolerates the mixed shapes.
	removed, err := svc.Unfollow(ctx, 1, 2)
	if err != nil || !removed {
		t.Fatalf("unfollow legacy entry: %v %v", removed, err)
	}
	followers, err = svc.GetFollowers(ctx, 2)
	if err != nil || len(followers) != 0 {
		t.Fatalf("legacy entry survived unfollow: %+v %v", followers, err)
	}
}

func TestSuggestedFollowsExcludesFollowedAndSelf(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Follow(ctx, 1, 4); err != nil {
		t.Fatalf("follow: %v", err)
	}
	suggestions, err := svc.SuggestedFollows(ctx, 1)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3: %+v", len(suggestions), suggestions)
	}
	// Ranked by follower count: Iva (50), Mara (20), Shop (0 or 1).
	if suggestions[0].UserID != 5 || suggestions[1].UserID != 3 || suggestions[2].UserID != 2 {
		t.Fatalf("ranking wrong: %+v", suggestions)
	}
	for _, s := range suggestions {
		if s.UserID == 1 || s.UserID == 4 || s.UserID == 6 {
			t.Fatalf("suggestion includes self, followed or buyer: %+v", s)
		}
	}
}

func TestFollowWritesNotification(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Follow(ctx, 1, 3); err != nil {
		t.Fatalf("follow: %v", err)
	}
	notifications, err := svc.ListNotifications(ctx, 3)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Message != "Ben started following you" {
		t.Fatalf("notification missing or wrong: %+v", notifications)
	}
}
