package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/contracts"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

type adminActionDetails struct {
	CampaignRequestID string  `json:"campaign_request_id"`
	ProductName       string  `json:"product_name"`
	SellerName        string  `json:"seller_name"`
	InfluencerName    string  `json:"influencer_name"`
	Commission        float64 `json:"commission"`
	CampaignDuration  int     `json:"campaign_duration"`
}

// CreateCampaign turns an accepted collaboration into a campaign request
// awaiting admin approval. The campaign, the admin approval action, the
// collaboration link and the outbox event are written in one document
// commit, guarded by a saga keyed on the collaboration id: retrying the
// same creation returns the already-created campaign instead of
// duplicating writes.
func (s *Service) CreateCampaign(ctx context.Context, req CreateCampaignRequest) (CreateCampaignResponse, error) {
	if err := domain.ValidateCommission(req.Commission); err != nil {
		return CreateCampaignResponse{}, err
	}
	if err := domain.ValidateCampaignDuration(req.CampaignDuration); err != nil {
		return CreateCampaignResponse{}, err
	}
	if req.CollaborationID == "" {
		return CreateCampaignResponse{}, fmt.Errorf("%w: collaboration_id is required", domain.ErrInvalidInput)
	}

	var resp CreateCampaignResponse
	var sagaCommitted bool
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		collab := snap.CollaborationByID(req.CollaborationID)
		if collab == nil {
			return fmt.Errorf("%w: collaboration request %s", domain.ErrNotFound, req.CollaborationID)
		}

		// A saga from an earlier attempt means this is a retry. Repair
		// whatever the earlier attempt left unfinished and hand back the
		// existing campaign.
		if saga := snap.SagaByID(collab.RequestID); saga != nil {
			existing := snap.CampaignByID(saga.CampaignRequestID)
			if existing == nil {
				return fmt.Errorf("%w: campaign %s referenced by saga %s is missing",
					domain.ErrPartialFailure, saga.CampaignRequestID, saga.SagaID)
			}
			s.repairCampaignCommit(snap, collab, existing)
			resp = CreateCampaignResponse{Campaign: *existing, Created: false}
			sagaCommitted = saga.State == domain.SagaCommitted
			return nil
		}

		if collab.Status != domain.CollaborationAccepted {
			return fmt.Errorf("%w: collaboration request %s is %s, campaigns need an accepted collaboration",
				domain.ErrConflict, collab.RequestID, collab.Status)
		}
		if collab.CampaignRequestID != "" {
			return fmt.Errorf("%w: collaboration request %s already has campaign %s",
				domain.ErrConflict, collab.RequestID, collab.CampaignRequestID)
		}

		product := snap.ProductByID(req.ProductID)
		if product == nil {
			return fmt.Errorf("%w: product %d", domain.ErrNotFound, req.ProductID)
		}
		if product.SellerID != collab.SellerID {
			return fmt.Errorf("%w: product %d does not belong to seller %d", domain.ErrForbidden, req.ProductID, collab.SellerID)
		}
		if !product.Verified {
			return fmt.Errorf("%w: product %d is not verified", domain.ErrInvalidInput, req.ProductID)
		}

		seller := snap.UserByID(collab.SellerID)
		influencer := snap.UserByID(collab.InfluencerID)
		if seller == nil || influencer == nil {
			return fmt.Errorf("%w: collaboration %s references a missing user", domain.ErrNotFound, collab.RequestID)
		}

		now := s.nowFn()
		campaign := domain.CampaignRequest{
			RequestID:        s.newID(),
			CollaborationID:  collab.RequestID,
			SellerID:         collab.SellerID,
			InfluencerID:     collab.InfluencerID,
			ProductID:        product.ProductID,
			ProductName:      product.ProductName,
			Commission:       req.Commission,
			CampaignDuration: req.CampaignDuration,
			Status:           domain.CampaignPending,
			Timestamp:        now,
		}
		snap.CampaignRequests = append(snap.CampaignRequests, campaign)

		details, _ := json.Marshal(adminActionDetails{
			CampaignRequestID: campaign.RequestID,
			ProductName:       product.ProductName,
			SellerName:        seller.Name,
			InfluencerName:    influencer.Name,
			Commission:        req.Commission,
			CampaignDuration:  req.CampaignDuration,
		})
		snap.AdminActions = append(snap.AdminActions, domain.AdminAction{
			AdminActionID:     snap.NextAdminActionID(),
			Action:            domain.AdminActionCampaignApproval,
			UserID:            collab.SellerID,
			Status:            domain.AdminActionPending,
			Timestamp:         now,
			Details:           string(details),
			CampaignRequestID: campaign.RequestID,
		})

		collab.CampaignRequestID = campaign.RequestID
		snap.Sagas = append(snap.Sagas, domain.CampaignSaga{
			SagaID:            collab.RequestID,
			CampaignRequestID: campaign.RequestID,
			State:             domain.SagaPending,
			StartedAt:         now,
		})

		payload, _ := json.Marshal(contracts.CampaignEvent{
			RequestID:       campaign.RequestID,
			CollaborationID: campaign.CollaborationID,
			SellerID:        campaign.SellerID,
			InfluencerID:    campaign.InfluencerID,
			ProductID:       campaign.ProductID,
			Status:          string(campaign.Status),
			OccurredAt:      now,
		})
		snap.AppendOutbox(s.newID(), contracts.EventCampaignRequested, campaign.RequestID, payload, now)

		resp = CreateCampaignResponse{Campaign: campaign, Created: true}
		return nil
	})
	if err != nil {
		return CreateCampaignResponse{}, err
	}

	// The influencer message is the saga's last leg. If it fails the saga
	// stays pending and a retry with the same collaboration re-dispatches.
	if !sagaCommitted {
		dispatchErr := s.dispatchMessage(ctx, resp.Campaign.SellerID, resp.Campaign.InfluencerID, "campaign",
			fmt.Sprintf("A campaign for %s was created with %.1f%% commission over %d days",
				resp.Campaign.ProductName, resp.Campaign.Commission, resp.Campaign.CampaignDuration))
		if dispatchErr != nil {
			s.logger.WarnContext(ctx, "campaign message dispatch failed, saga left pending",
				"module", "application.campaign",
				"operation", "create_campaign",
				"outcome", "degraded",
				"campaign_request_id", resp.Campaign.RequestID,
				"error", dispatchErr,
			)
			return resp, nil
		}
		if err := s.commitCampaignSaga(ctx, resp.Campaign.CollaborationID); err != nil {
			s.logger.WarnContext(ctx, "campaign saga commit failed",
				"module", "application.campaign",
				"operation", "create_campaign",
				"outcome", "degraded",
				"campaign_request_id", resp.Campaign.RequestID,
				"error", err,
			)
		}
	}
	return resp, nil
}

// repairCampaignCommit re-applies the pieces of a campaign creation that a
// partially written document may be missing.
func (s *Service) repairCampaignCommit(snap *domain.Snapshot, collab *domain.CollaborationRequest, campaign *domain.CampaignRequest) {
	if collab.CampaignRequestID == "" {
		collab.CampaignRequestID = campaign.RequestID
	}
	for _, a := range snap.AdminActions {
		if a.CampaignRequestID == campaign.RequestID {
			return
		}
	}
	details, _ := json.Marshal(adminActionDetails{
		CampaignRequestID: campaign.RequestID,
		ProductName:       campaign.ProductName,
		Commission:        campaign.Commission,
		CampaignDuration:  campaign.CampaignDuration,
	})
	snap.AdminActions = append(snap.AdminActions, domain.AdminAction{
		AdminActionID:     snap.NextAdminActionID(),
		Action:            domain.AdminActionCampaignApproval,
		UserID:            campaign.SellerID,
		Status:            domain.AdminActionPending,
		Timestamp:         campaign.Timestamp,
		Details:           string(details),
		CampaignRequestID: campaign.RequestID,
	})
}

func (s *Service) commitCampaignSaga(ctx context.Context, collaborationID string) error {
	return s.store.Update(ctx, func(snap *domain.Snapshot) error {
		saga := snap.SagaByID(collaborationID)
		if saga == nil {
			return fmt.Errorf("%w: saga %s", domain.ErrNotFound, collaborationID)
		}
		saga.State = domain.SagaCommitted
		return nil
	})
}

// ListSellerCampaigns returns the seller's campaign requests, newest first.
func (s *Service) ListSellerCampaigns(ctx context.Context, sellerID int64) ([]domain.CampaignRequest, error) {
	return s.listCampaigns(ctx, func(c domain.CampaignRequest) bool { return c.SellerID == sellerID })
}

// ListInfluencerCampaigns returns campaigns the influencer takes part in,
// newest first.
func (s *Service) ListInfluencerCampaigns(ctx context.Context, influencerID int64) ([]domain.CampaignRequest, error) {
	return s.listCampaigns(ctx, func(c domain.CampaignRequest) bool { return c.InfluencerID == influencerID })
}

// ListPendingCampaigns returns campaigns awaiting an admin decision,
// oldest first so the approval queue is worked in order.
func (s *Service) ListPendingCampaigns(ctx context.Context) ([]domain.CampaignRequest, error) {
	out, err := s.listCampaigns(ctx, func(c domain.CampaignRequest) bool { return c.Status == domain.CampaignPending })
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *Service) listCampaigns(ctx context.Context, keep func(domain.CampaignRequest) bool) ([]domain.CampaignRequest, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CampaignRequest, 0)
	for _, c := range snap.CampaignRequests {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// CancelCampaign deletes a campaign request and releases the
// collaboration so a new campaign can be created for it. The linked
// pending approval action is marked rejected.
func (s *Service) CancelCampaign(ctx context.Context, campaignID string) error {
	return s.store.Update(ctx, func(snap *domain.Snapshot) error {
		idx := -1
		for i := range snap.CampaignRequests {
			if snap.CampaignRequests[i].RequestID == campaignID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: campaign request %s", domain.ErrNotFound, campaignID)
		}
		campaign := snap.CampaignRequests[idx]
		snap.CampaignRequests = append(snap.CampaignRequests[:idx], snap.CampaignRequests[idx+1:]...)

		if collab := snap.CollaborationByID(campaign.CollaborationID); collab != nil && collab.CampaignRequestID == campaignID {
			collab.CampaignRequestID = ""
		}
		for i := range snap.Sagas {
			if snap.Sagas[i].SagaID == campaign.CollaborationID {
				snap.Sagas = append(snap.Sagas[:i], snap.Sagas[i+1:]...)
				break
			}
		}
		for i := range snap.AdminActions {
			if snap.AdminActions[i].CampaignRequestID == campaignID && snap.AdminActions[i].Status == domain.AdminActionPending {
				snap.AdminActions[i].Status = domain.AdminActionRejected
			}
		}

		now := s.nowFn()
		payload, _ := json.Marshal(contracts.CampaignEvent{
			RequestID:       campaign.RequestID,
			CollaborationID: campaign.CollaborationID,
			SellerID:        campaign.SellerID,
			InfluencerID:    campaign.InfluencerID,
			ProductID:       campaign.ProductID,
			Status:          "Cancelled",
			OccurredAt:      now,
		})
		snap.AppendOutbox(s.newID(), contracts.EventCampaignRejected, campaign.RequestID, payload, now)
		return nil
	})
}
