package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/contracts"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

// ApproveCampaign moves a pending campaign to Approved. Approving an
// already approved campaign is a no-op. The campaign request is the
// source of truth for approval state; the linked admin action is brought
// in line inside the same commit.
func (s *Service) ApproveCampaign(ctx context.Context, campaignID string) (domain.CampaignRequest, error) {
	return s.decideCampaign(ctx, campaignID, true)
}

// RejectCampaign moves a pending campaign to Rejected and releases the
// collaboration's campaign link so a new campaign can be created.
// Rejecting an already rejected campaign is a no-op.
func (s *Service) RejectCampaign(ctx context.Context, campaignID string) (domain.CampaignRequest, error) {
	return s.decideCampaign(ctx, campaignID, false)
}

func (s *Service) decideCampaign(ctx context.Context, campaignID string, approve bool) (domain.CampaignRequest, error) {
	target := domain.CampaignRejected
	actionStatus := domain.AdminActionRejected
	eventType := contracts.EventCampaignRejected
	if approve {
		target = domain.CampaignApproved
		actionStatus = domain.AdminActionApproved
		eventType = contracts.EventCampaignApproved
	}

	var decided domain.CampaignRequest
	var changed bool
	var notifyFrom int64
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		campaign := snap.CampaignByID(campaignID)
		if campaign == nil {
			return fmt.Errorf("%w: campaign request %s", domain.ErrNotFound, campaignID)
		}
		if campaign.Status == target {
			decided = *campaign
			return nil
		}
		if campaign.Status != domain.CampaignPending {
			return fmt.Errorf("%w: campaign request %s is already %s", domain.ErrConflict, campaignID, campaign.Status)
		}

		// Decision messages originate from the admin desk.
		notifyFrom = campaign.SellerID
		for _, u := range snap.Users {
			if u.AccountType == domain.AccountTypeAdmin {
				notifyFrom = u.UserID
				break
			}
		}

		now := s.nowFn()
		campaign.Status = target
		campaign.StatusUpdatedAt = &now
		for i := range snap.AdminActions {
			if snap.AdminActions[i].CampaignRequestID == campaignID {
				snap.AdminActions[i].Status = actionStatus
			}
		}
		if !approve {
			if collab := snap.CollaborationByID(campaign.CollaborationID); collab != nil && collab.CampaignRequestID == campaignID {
				collab.CampaignRequestID = ""
			}
		}
		// Decision reached, the creation saga has nothing left to guard.
		for i := range snap.Sagas {
			if snap.Sagas[i].SagaID == campaign.CollaborationID {
				snap.Sagas = append(snap.Sagas[:i], snap.Sagas[i+1:]...)
				break
			}
		}

		payload, _ := json.Marshal(contracts.CampaignEvent{
			RequestID:       campaign.RequestID,
			CollaborationID: campaign.CollaborationID,
			SellerID:        campaign.SellerID,
			InfluencerID:    campaign.InfluencerID,
			ProductID:       campaign.ProductID,
			Status:          string(target),
			OccurredAt:      now,
		})
		snap.AppendOutbox(s.newID(), eventType, campaign.RequestID, payload, now)

		decided = *campaign
		changed = true
		return nil
	})
	if err != nil {
		return domain.CampaignRequest{}, err
	}
	if changed {
		verdict := "rejected"
		if approve {
			verdict = "approved"
		}
		content := fmt.Sprintf("Your campaign for %s was %s", decided.ProductName, verdict)
		s.dispatchNotification(ctx, notifyFrom, decided.SellerID, "campaign", content)
		s.dispatchNotification(ctx, notifyFrom, decided.InfluencerID, "campaign", content)
	}
	return decided, nil
}

// UpdateAdminAction applies an admin dashboard decision by action id. Only
// campaign approval actions carry workflow side effects; the decision is
// routed through the campaign transition so both records move together.
func (s *Service) UpdateAdminAction(ctx context.Context, adminActionID int64, status string) (domain.AdminAction, error) {
	var approve bool
	switch domain.AdminActionStatus(status) {
	case domain.AdminActionApproved:
		approve = true
	case domain.AdminActionRejected:
		approve = false
	default:
		return domain.AdminAction{}, fmt.Errorf("%w: status must be %s or %s, got %q",
			domain.ErrInvalidInput, domain.AdminActionApproved, domain.AdminActionRejected, status)
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return domain.AdminAction{}, err
	}
	action := snap.AdminActionByID(adminActionID)
	if action == nil {
		return domain.AdminAction{}, fmt.Errorf("%w: admin action %d", domain.ErrNotFound, adminActionID)
	}
	if action.CampaignRequestID == "" {
		return domain.AdminAction{}, fmt.Errorf("%w: admin action %d is not linked to a campaign", domain.ErrConflict, adminActionID)
	}

	if _, err := s.decideCampaign(ctx, action.CampaignRequestID, approve); err != nil {
		return domain.AdminAction{}, err
	}

	snap, err = s.store.Load(ctx)
	if err != nil {
		return domain.AdminAction{}, err
	}
	updated := snap.AdminActionByID(adminActionID)
	if updated == nil {
		return domain.AdminAction{}, fmt.Errorf("%w: admin action %d", domain.ErrNotFound, adminActionID)
	}
	return *updated, nil
}

// ListAdminActions returns the approval queue, newest first.
func (s *Service) ListAdminActions(ctx context.Context) ([]domain.AdminAction, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AdminAction, len(snap.AdminActions))
	copy(out, snap.AdminActions)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
