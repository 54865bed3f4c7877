// Package contracts holds the wire payloads this service publishes.
// Consumers in other services decode against these shapes, so fields are
// append-only.
package contracts

import "time"

const (
	EventUserFollowed      = "social.user_followed"
	EventUserUnfollowed    = "social.user_unfollowed"
	EventCollabRequested   = "collab.requested"
	EventCollabAccepted    = "collab.accepted"
	EventCollabDeclined    = "collab.declined"
	EventCampaignRequested = "campaign.requested"
	EventCampaignApproved  = "campaign.approved"
	EventCampaignRejected  = "campaign.rejected"
)

type FollowEvent struct {
	FollowerID int64     `json:"follower_id"`
	FollowedID int64     `json:"followed_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type CollaborationEvent struct {
	RequestID    string    `json:"request_id"`
	SellerID     int64     `json:"seller_id"`
	InfluencerID int64     `json:"influencer_id"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type CampaignEvent struct {
	RequestID       string    `json:"request_id"`
	CollaborationID string    `json:"collaboration_id"`
	SellerID        int64     `json:"seller_id"`
	InfluencerID    int64     `json:"influencer_id"`
	ProductID       int64     `json:"product_id"`
	Status          string    `json:"status"`
	OccurredAt      time.Time `json:"occurred_at"`
}
