package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type AccountType string

const (
	AccountTypeBuyer      AccountType = "Buyer"
	AccountTypeSeller     AccountType = "Seller"
	AccountTypeInfluencer AccountType = "Influencer"
	AccountTypeAdmin      AccountType = "Admin"
)

type CollaborationStatus string

const (
	CollaborationPending  CollaborationStatus = "Pending"
	CollaborationAccepted CollaborationStatus = "Accepted"
	CollaborationDeclined CollaborationStatus = "Declined"
)

type CampaignStatus string

const (
	CampaignPending  CampaignStatus = "Pending"
	CampaignApproved CampaignStatus = "Approved"
	CampaignRejected CampaignStatus = "Rejected"
)

type AdminActionStatus string

const (
	AdminActionPending  AdminActionStatus = "pending"
	AdminActionApproved AdminActionStatus = "approved"
	AdminActionRejected AdminActionStatus = "rejected"
)

const AdminActionCampaignApproval = "Campaign Approval Request"

// FollowRef is one entry in a user's followers/following list. Documents
// written by older clients store bare numeric ids; newer writers store the
// denormalized object. Unmarshal accepts both, marshal always emits the
// object shape so lists converge on rewrite.
type FollowRef struct {
	UserID       int64       `json:"user_id"`
	Name         string      `json:"name,omitempty"`
	ProfileImage string      `json:"profile_image,omitempty"`
	AccountType  AccountType `json:"account_type,omitempty"`
	FollowedAt   *time.Time  `json:"followed_at,omitempty"`
}

func (f *FollowRef) UnmarshalJSON(data []byte) error {
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*f = FollowRef{UserID: id}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, convErr := strconv.ParseInt(s, 10, 64)
		if convErr != nil {
			return fmt.Errorf("%w: follow entry %q is not a user id", ErrInvalidInput, s)
		}
		*f = FollowRef{UserID: parsed}
		return nil
	}
	type followRefObject FollowRef
	var obj followRefObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = FollowRef(obj)
	return nil
}

type User struct {
	UserID         int64       `json:"user_id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	ProfileImage   string      `json:"profile_image,omitempty"`
	AccountType    AccountType `json:"account_type"`
	Tier           Tier        `json:"tier,omitempty"`
	Followers      []FollowRef `json:"followers"`
	Following      []FollowRef `json:"following"`
	FollowersCount int         `json:"followers_count"`
	FollowingCount int         `json:"following_count"`
	CreatedAt      time.Time   `json:"created_at"`
}

type Product struct {
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	SellerID    int64     `json:"user_seller"`
	Cost        float64   `json:"cost"`
	Currency    string    `json:"currency"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
}

type CollaborationRequest struct {
	RequestID         string              `json:"request_id"`
	SellerID          int64               `json:"seller_id"`
	InfluencerID      int64               `json:"influencer_id"`
	ProductName       string              `json:"product_name,omitempty"`
	Status            CollaborationStatus `json:"status"`
	Timestamp         time.Time           `json:"timestamp"`
	StatusUpdatedAt   *time.Time          `json:"status_updated_at,omitempty"`
	CampaignRequestID string              `json:"campaign_request_id,omitempty"`
}

// Active reports whether the request still occupies a collaboration slot:
// awaiting a decision, or accepted without a campaign attached yet.
func (c CollaborationRequest) Active() bool {
	if c.Status == CollaborationPending {
		return true
	}
	return c.Status == CollaborationAccepted && c.CampaignRequestID == ""
}

type CampaignRequest struct {
	RequestID        string         `json:"request_id"`
	CollaborationID  string         `json:"collaboration_id"`
	SellerID         int64          `json:"seller_id"`
	InfluencerID     int64          `json:"influencer_id"`
	ProductID        int64          `json:"product_id"`
	ProductName      string         `json:"product_name"`
	Commission       float64        `json:"commission"`
	CampaignDuration int            `json:"campaign_duration"`
	Status           CampaignStatus `json:"status"`
	Timestamp        time.Time      `json:"timestamp"`
	StatusUpdatedAt  *time.Time     `json:"status_updated_at,omitempty"`
}

type AdminAction struct {
	AdminActionID     int64             `json:"admin_id"`
	Action            string            `json:"action"`
	UserID            int64             `json:"user_id"`
	Status            AdminActionStatus `json:"status"`
	Timestamp         time.Time         `json:"date_timestamp"`
	Details           string            `json:"details,omitempty"`
	CampaignRequestID string            `json:"campaign_request_id,omitempty"`
}

type Message struct {
	MessageID   int64     `json:"message_id"`
	FromUserID  int64     `json:"user_from"`
	ToUserID    int64     `json:"user_to"`
	MessageType string    `json:"type_message"`
	Content     string    `json:"message_content"`
	SentAt      time.Time `json:"date_timestamp_sent"`
	IsRead      bool      `json:"is_read"`
}

type Notification struct {
	NotificationID int64     `json:"notification_id"`
	UserID         int64     `json:"user_id"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"date_timestamp"`
}

type SagaState string

const (
	SagaPending   SagaState = "pending"
	SagaCommitted SagaState = "committed"
)

// CampaignSaga marks a campaign-creation transaction. The saga is keyed by
// the collaboration request so a retry of the same campaign creation finds
// the in-flight record instead of duplicating writes.
type CampaignSaga struct {
	SagaID            string    `json:"saga_id"`
	CampaignRequestID string    `json:"campaign_request_id"`
	State             SagaState `json:"state"`
	StartedAt         time.Time `json:"started_at"`
}

type OutboxEntry struct {
	OutboxID     string     `json:"outbox_id"`
	EventType    string     `json:"event_type"`
	PartitionKey string     `json:"partition_key"`
	Payload      []byte     `json:"payload"`
	RetryCount   int        `json:"retry_count"`
	OccurredAt   time.Time  `json:"occurred_at"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}
