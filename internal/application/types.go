package application

import (
	"time"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

type Config struct {
	ServiceName     string
	SocialCacheTTL  time.Duration
	SuggestionLimit int
}

type FollowRequest struct {
	TargetID int64 `json:"target_id"`
}

type FollowResponse struct {
	Following bool `json:"following"`
	Changed   bool `json:"changed"`
}

type UserSummary struct {
	UserID         int64              `json:"user_id"`
	Name           string             `json:"name"`
	ProfileImage   string             `json:"profile_image,omitempty"`
	AccountType    domain.AccountType `json:"account_type"`
	Tier           domain.Tier        `json:"tier,omitempty"`
	FollowersCount int                `json:"followers_count"`
	FollowingCount int                `json:"following_count"`
}

type CreateCollaborationRequest struct {
	SellerID     int64  `json:"seller_id"`
	InfluencerID int64  `json:"influencer_id"`
	ProductName  string `json:"product_name,omitempty"`
}

type UpdateCollaborationRequest struct {
	Status   string `json:"status"`
	SellerID int64  `json:"seller_id"`
	Override bool   `json:"override,omitempty"`
}

type CreateCampaignRequest struct {
	CollaborationID  string  `json:"collaboration_id"`
	ProductID        int64   `json:"product_id"`
	Commission       float64 `json:"commission"`
	CampaignDuration int     `json:"campaign_duration"`
}

type CreateCampaignResponse struct {
	Campaign domain.CampaignRequest `json:"campaign"`
	Created  bool                   `json:"created"`
}

type ProductQuotaResponse struct {
	SellerID      int64 `json:"seller_id"`
	TotalCount    int   `json:"total_count"`
	VerifiedCount int   `json:"verified_count"`
	MaxAllowed    int   `json:"max_allowed"`
	CanAddProduct bool  `json:"can_add_product"`
}

type UpdateRoleRequest struct {
	AccountType string `json:"account_type,omitempty"`
	Tier        string `json:"tier,omitempty"`
}

func summarize(u domain.User) UserSummary {
	return UserSummary{
		UserID:         u.UserID,
		Name:           u.Name,
		ProfileImage:   u.ProfileImage,
		AccountType:    u.AccountType,
		Tier:           u.Tier,
		FollowersCount: u.FollowersCount,
		FollowingCount: u.FollowingCount,
	}
}
