package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

func TestFollowRefUnmarshalShapes(t *testing.T) {
	t.Parallel()

	var refs []domain.FollowRef
	raw := `[7, "12", {"user_id": 9, "name": "Mara", "account_type": "Influencer"}]`
	if err := json.Unmarshal([]byte(raw), &refs); err != nil {
		t.Fatalf("unmarshal mixed shapes: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("got %d refs, want 3", len(refs))
	}
	if refs[0].UserID != 7 || refs[1].UserID != 12 || refs[2].UserID != 9 {
		t.Fatalf("unexpected ids: %+v", refs)
	}
	if refs[2].Name != "Mara" || refs[2].AccountType != domain.AccountTypeInfluencer {
		t.Fatalf("object shape lost fields: %+v", refs[2])
	}
}

func TestFollowRefMarshalAlwaysObject(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(domain.FollowRef{UserID: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("marshal did not produce an object: %s", raw)
	}
	if decoded["user_id"] != float64(3) {
		t.Fatalf("unexpected object: %s", raw)
	}
}

func TestNormalizeFollowLists(t *testing.T) {
	t.Parallel()

	snap := &domain.Snapshot{
		Users: []domain.User{
			{UserID: 1, Name: "Buyer", AccountType: domain.AccountTypeBuyer},
			{UserID: 2, Name: "Shop", AccountType: domain.AccountTypeSeller},
		},
	}
	user := &domain.User{
		UserID: 1,
		Following: []domain.FollowRef{
			{UserID: 2},
			{UserID: 2, Name: "Shop"},
			{UserID: 0},
		},
		FollowingCount: 99,
	}
	snap.NormalizeFollowLists(user)
	if len(user.Following) != 1 {
		t.Fatalf("duplicates not collapsed: %+v", user.Following)
	}
	if user.Following[0].Name != "Shop" || user.Following[0].AccountType != domain.AccountTypeSeller {
		t.Fatalf("bare id not enriched: %+v", user.Following[0])
	}
	if user.FollowingCount != 1 {
		t.Fatalf("counter not realigned: %d", user.FollowingCount)
	}
}

func TestSuggestedFollowsRanking(t *testing.T) {
	t.Parallel()

	snap := &domain.Snapshot{
		Users: []domain.User{
			{UserID: 1, AccountType: domain.AccountTypeBuyer, Following: []domain.FollowRef{{UserID: 4}}},
			{UserID: 2, AccountType: domain.AccountTypeSeller, FollowersCount: 5},
			{UserID: 3, AccountType: domain.AccountTypeInfluencer, FollowersCount: 20},
			{UserID: 4, AccountType: domain.AccountTypeSeller, FollowersCount: 100},
			{UserID: 5, AccountType: domain.AccountTypeBuyer, FollowersCount: 50},
			{UserID: 6, AccountType: domain.AccountTypeSeller, FollowersCount: 5},
		},
	}
	buyer := snap.UserByID(1)
	got := snap.SuggestedFollows(buyer, 10)
	if len(got) != 3 {
		t.Fatalf("got %d suggestions, want 3: %+v", len(got), got)
	}
	if got[0].UserID != 3 {
		t.Fatalf("ranking wrong, first is %d", got[0].UserID)
	}
	// Tie between users 2 and 6 keeps directory order.
	if got[1].UserID != 2 || got[2].UserID != 6 {
		t.Fatalf("tie order wrong: %d, %d", got[1].UserID, got[2].UserID)
	}
}

func TestActiveCollaborationCount(t *testing.T) {
	t.Parallel()

	snap := &domain.Snapshot{
		CollaborationRequests: []domain.CollaborationRequest{
			{RequestID: "a", SellerID: 2, Status: domain.CollaborationPending},
			{RequestID: "b", SellerID: 2, Status: domain.CollaborationAccepted},
			{RequestID: "c", SellerID: 2, Status: domain.CollaborationAccepted, CampaignRequestID: "camp-1"},
			{RequestID: "d", SellerID: 2, Status: domain.CollaborationDeclined},
			{RequestID: "e", SellerID: 9, Status: domain.CollaborationPending},
		},
	}
	if got := snap.ActiveCollaborationCount(2, ""); got != 2 {
		t.Fatalf("got %d active, want 2", got)
	}
	if got := snap.ActiveCollaborationCount(2, "a"); got != 1 {
		t.Fatalf("exclusion not applied, got %d", got)
	}
}
