package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/contracts"
	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

// CreateCollaboration opens a Pending collaboration request from a seller
// to an influencer. At most one active request may exist per pair;
// declined history does not block a new request.
func (s *Service) CreateCollaboration(ctx context.Context, req CreateCollaborationRequest) (domain.CollaborationRequest, error) {
	if err := domain.ValidateUserID(req.SellerID); err != nil {
		return domain.CollaborationRequest{}, err
	}
	if err := domain.ValidateUserID(req.InfluencerID); err != nil {
		return domain.CollaborationRequest{}, err
	}

	var created domain.CollaborationRequest
	var influencerID int64
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		seller := snap.UserByID(req.SellerID)
		if seller == nil {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, req.SellerID)
		}
		influencer := snap.UserByID(req.InfluencerID)
		if influencer == nil {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, req.InfluencerID)
		}
		if seller.AccountType != domain.AccountTypeSeller {
			return fmt.Errorf("%w: user %d is not a seller", domain.ErrRoleViolation, req.SellerID)
		}
		if influencer.AccountType != domain.AccountTypeInfluencer {
			return fmt.Errorf("%w: user %d is not an influencer", domain.ErrRoleViolation, req.InfluencerID)
		}
		for _, c := range snap.CollaborationRequests {
			if c.SellerID == req.SellerID && c.InfluencerID == req.InfluencerID && c.Active() {
				return fmt.Errorf("%w: active collaboration request %s already exists for this pair", domain.ErrConflict, c.RequestID)
			}
		}

		now := s.nowFn()
		created = domain.CollaborationRequest{
			RequestID:    s.newID(),
			SellerID:     req.SellerID,
			InfluencerID: req.InfluencerID,
			ProductName:  req.ProductName,
			Status:       domain.CollaborationPending,
			Timestamp:    now,
		}
		snap.CollaborationRequests = append(snap.CollaborationRequests, created)

		payload, _ := json.Marshal(contracts.CollaborationEvent{
			RequestID:    created.RequestID,
			SellerID:     created.SellerID,
			InfluencerID: created.InfluencerID,
			Status:       string(created.Status),
			OccurredAt:   now,
		})
		snap.AppendOutbox(s.newID(), contracts.EventCollabRequested, created.RequestID, payload, now)
		influencerID = influencer.UserID
		return nil
	})
	if err != nil {
		return domain.CollaborationRequest{}, err
	}
	s.dispatchNotification(ctx, created.SellerID, influencerID, "collaboration",
		"You have a new collaboration request")
	return created, nil
}

// UpdateCollaborationStatus moves a Pending request to Accepted or
// Declined. The caller must identify itself as the request's seller.
// Accepting checks the seller's subscription slot quota unless the admin
// override flag is set. Re-applying the status the request already has is
// a no-op.
func (s *Service) UpdateCollaborationStatus(ctx context.Context, requestID string, req UpdateCollaborationRequest) (domain.CollaborationRequest, error) {
	status, err := parseCollaborationStatus(req.Status)
	if err != nil {
		return domain.CollaborationRequest{}, err
	}
	if err := domain.ValidateUserID(req.SellerID); err != nil {
		return domain.CollaborationRequest{}, err
	}

	var updated domain.CollaborationRequest
	var changed bool
	err = s.store.Update(ctx, func(snap *domain.Snapshot) error {
		collab := snap.CollaborationByID(requestID)
		if collab == nil {
			return fmt.Errorf("%w: collaboration request %s", domain.ErrNotFound, requestID)
		}
		if collab.SellerID != req.SellerID {
			return fmt.Errorf("%w: collaboration request %s does not belong to seller %d",
				domain.ErrForbidden, requestID, req.SellerID)
		}
		if collab.Status == status {
			updated = *collab
			return nil
		}
		if collab.Status != domain.CollaborationPending {
			return fmt.Errorf("%w: collaboration request %s is already %s", domain.ErrConflict, requestID, collab.Status)
		}

		if status == domain.CollaborationAccepted && !req.Override {
			seller := snap.UserByID(collab.SellerID)
			if seller == nil {
				return fmt.Errorf("%w: user %d", domain.ErrNotFound, collab.SellerID)
			}
			active := snap.ActiveCollaborationCount(collab.SellerID, collab.RequestID)
			if !domain.CanAcceptCollaboration(active, seller.Tier) {
				return &domain.LimitError{
					Tier:    seller.Tier,
					Current: active,
					Limit:   domain.LimitsFor(seller.Tier).CollaborationLimit,
				}
			}
		}

		now := s.nowFn()
		collab.Status = status
		collab.StatusUpdatedAt = &now
		updated = *collab
		changed = true

		eventType := contracts.EventCollabDeclined
		if status == domain.CollaborationAccepted {
			eventType = contracts.EventCollabAccepted
		}
		payload, _ := json.Marshal(contracts.CollaborationEvent{
			RequestID:    collab.RequestID,
			SellerID:     collab.SellerID,
			InfluencerID: collab.InfluencerID,
			Status:       string(status),
			OccurredAt:   now,
		})
		snap.AppendOutbox(s.newID(), eventType, collab.RequestID, payload, now)
		return nil
	})
	if err != nil {
		return domain.CollaborationRequest{}, err
	}
	if changed && status == domain.CollaborationAccepted {
		s.dispatchNotification(ctx, updated.InfluencerID, updated.SellerID, "collaboration",
			"Your collaboration request was accepted")
	}
	return updated, nil
}

func parseCollaborationStatus(raw string) (domain.CollaborationStatus, error) {
	switch domain.CollaborationStatus(raw) {
	case domain.CollaborationAccepted:
		return domain.CollaborationAccepted, nil
	case domain.CollaborationDeclined:
		return domain.CollaborationDeclined, nil
	default:
		return "", fmt.Errorf("%w: status must be %s or %s, got %q",
			domain.ErrInvalidInput, domain.CollaborationAccepted, domain.CollaborationDeclined, raw)
	}
}

// ListSellerCollaborations returns the seller's requests, newest first.
// Duplicate rows for the same influencer and status can exist in documents
// written before write-time uniqueness; only the newest of each group is
// returned.
func (s *Service) ListSellerCollaborations(ctx context.Context, sellerID int64) ([]domain.CollaborationRequest, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.UserByID(sellerID) == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, sellerID)
	}

	type groupKey struct {
		influencerID int64
		status       domain.CollaborationStatus
	}
	newest := make(map[groupKey]domain.CollaborationRequest)
	for _, c := range snap.CollaborationRequests {
		if c.SellerID != sellerID {
			continue
		}
		key := groupKey{c.InfluencerID, c.Status}
		if existing, ok := newest[key]; !ok || c.Timestamp.After(existing.Timestamp) {
			newest[key] = c
		}
	}
	out := make([]domain.CollaborationRequest, 0, len(newest))
	for _, c := range newest {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// ListInfluencerCollaborations returns the influencer's incoming requests,
// newest first.
func (s *Service) ListInfluencerCollaborations(ctx context.Context, influencerID int64) ([]domain.CollaborationRequest, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.UserByID(influencerID) == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, influencerID)
	}
	out := make([]domain.CollaborationRequest, 0)
	for _, c := range snap.CollaborationRequests {
		if c.InfluencerID == influencerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
