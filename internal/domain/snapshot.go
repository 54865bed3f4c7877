package domain

import (
	"sort"
	"time"
)

// Snapshot is the full shared document. Every aggregate the service owns
// lives in one JSON file; Revision is bumped on each successful save and
// guards against lost updates.
type Snapshot struct {
	Revision              int64                  `json:"revision"`
	Users                 []User                 `json:"users"`
	Products              []Product              `json:"products"`
	CollaborationRequests []CollaborationRequest `json:"collaboration_requests"`
	CampaignRequests      []CampaignRequest      `json:"campaign_requests"`
	AdminActions          []AdminAction          `json:"admin_actions"`
	Messages              []Message              `json:"messages"`
	Notifications         []Notification         `json:"notifications"`
	Sagas                 []CampaignSaga         `json:"sagas"`
	Outbox                []OutboxEntry          `json:"outbox"`
}

func (s *Snapshot) UserByID(id int64) *User {
	for i := range s.Users {
		if s.Users[i].UserID == id {
			return &s.Users[i]
		}
	}
	return nil
}

func (s *Snapshot) ProductByID(id int64) *Product {
	for i := range s.Products {
		if s.Products[i].ProductID == id {
			return &s.Products[i]
		}
	}
	return nil
}

func (s *Snapshot) CollaborationByID(id string) *CollaborationRequest {
	for i := range s.CollaborationRequests {
		if s.CollaborationRequests[i].RequestID == id {
			return &s.CollaborationRequests[i]
		}
	}
	return nil
}

func (s *Snapshot) CampaignByID(id string) *CampaignRequest {
	for i := range s.CampaignRequests {
		if s.CampaignRequests[i].RequestID == id {
			return &s.CampaignRequests[i]
		}
	}
	return nil
}

func (s *Snapshot) AdminActionByID(id int64) *AdminAction {
	for i := range s.AdminActions {
		if s.AdminActions[i].AdminActionID == id {
			return &s.AdminActions[i]
		}
	}
	return nil
}

func (s *Snapshot) SagaByID(id string) *CampaignSaga {
	for i := range s.Sagas {
		if s.Sagas[i].SagaID == id {
			return &s.Sagas[i]
		}
	}
	return nil
}

func (s *Snapshot) NextAdminActionID() int64 {
	var max int64
	for _, a := range s.AdminActions {
		if a.AdminActionID > max {
			max = a.AdminActionID
		}
	}
	return max + 1
}

func (s *Snapshot) NextMessageID() int64 {
	var max int64
	for _, m := range s.Messages {
		if m.MessageID > max {
			max = m.MessageID
		}
	}
	return max + 1
}

func (s *Snapshot) NextNotificationID() int64 {
	var max int64
	for _, n := range s.Notifications {
		if n.NotificationID > max {
			max = n.NotificationID
		}
	}
	return max + 1
}

// ActiveCollaborationCount counts the seller's collaboration requests that
// occupy a subscription slot, excluding the request identified by excludeID.
func (s *Snapshot) ActiveCollaborationCount(sellerID int64, excludeID string) int {
	count := 0
	for _, c := range s.CollaborationRequests {
		if c.SellerID != sellerID || c.RequestID == excludeID {
			continue
		}
		if c.Active() {
			count++
		}
	}
	return count
}

// NormalizeFollowLists deduplicates a user's follower/following lists by
// user id (first occurrence wins, order preserved), enriches bare-id
// entries from the user directory, and realigns the denormalized counters
// with the list lengths.
func (s *Snapshot) NormalizeFollowLists(u *User) {
	u.Followers = s.normalizeRefs(u.Followers)
	u.Following = s.normalizeRefs(u.Following)
	u.FollowersCount = len(u.Followers)
	u.FollowingCount = len(u.Following)
}

func (s *Snapshot) normalizeRefs(refs []FollowRef) []FollowRef {
	out := make([]FollowRef, 0, len(refs))
	seen := make(map[int64]bool, len(refs))
	for _, ref := range refs {
		if ref.UserID == 0 || seen[ref.UserID] {
			continue
		}
		seen[ref.UserID] = true
		if ref.Name == "" {
			if other := s.UserByID(ref.UserID); other != nil {
				ref.Name = other.Name
				ref.ProfileImage = other.ProfileImage
				ref.AccountType = other.AccountType
			}
		}
		out = append(out, ref)
	}
	return out
}

// SuggestedFollows returns up to limit followable accounts (sellers and
// influencers) the user does not already follow, ranked by follower count
// descending. Ties keep directory order.
func (s *Snapshot) SuggestedFollows(u *User, limit int) []User {
	followed := make(map[int64]bool, len(u.Following))
	for _, ref := range u.Following {
		followed[ref.UserID] = true
	}
	candidates := make([]User, 0, len(s.Users))
	for _, other := range s.Users {
		if other.UserID == u.UserID || followed[other.UserID] {
			continue
		}
		if other.AccountType != AccountTypeSeller && other.AccountType != AccountTypeInfluencer {
			continue
		}
		candidates = append(candidates, other)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].FollowersCount > candidates[j].FollowersCount
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// AppendOutbox records a domain event for the outbox worker to publish.
func (s *Snapshot) AppendOutbox(id, eventType, partitionKey string, payload []byte, now time.Time) {
	s.Outbox = append(s.Outbox, OutboxEntry{
		OutboxID:     id,
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      payload,
		OccurredAt:   now,
	})
}
