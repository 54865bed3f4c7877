package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

// GetUser returns the user's directory summary with counters recomputed
// from the normalized follow lists.
func (s *Service) GetUser(ctx context.Context, userID int64) (UserSummary, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return UserSummary{}, err
	}
	user := snap.UserByID(userID)
	if user == nil {
		return UserSummary{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	snap.NormalizeFollowLists(user)
	return summarize(*user), nil
}

// ListUsers returns directory summaries ordered by user id.
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserSummary, 0, len(snap.Users))
	for i := range snap.Users {
		snap.NormalizeFollowLists(&snap.Users[i])
		out = append(out, summarize(snap.Users[i]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// UpdateUserRole updates a user's account type and/or subscription tier.
// Tier changes are not retroactive: existing collaborations stay as they
// are and only future accepts are checked against the new quota.
func (s *Service) UpdateUserRole(ctx context.Context, userID int64, req UpdateRoleRequest) (UserSummary, error) {
	if req.AccountType == "" && req.Tier == "" {
		return UserSummary{}, fmt.Errorf("%w: account_type or tier is required", domain.ErrInvalidInput)
	}
	if req.AccountType != "" {
		if err := domain.ValidateAccountType(domain.AccountType(req.AccountType)); err != nil {
			return UserSummary{}, err
		}
	}
	if err := domain.ValidateTier(domain.Tier(req.Tier)); err != nil {
		return UserSummary{}, err
	}

	var updated UserSummary
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		user := snap.UserByID(userID)
		if user == nil {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
		}
		if req.AccountType != "" {
			user.AccountType = domain.AccountType(req.AccountType)
		}
		if req.Tier != "" {
			user.Tier = domain.Tier(req.Tier)
		}
		snap.NormalizeFollowLists(user)
		updated = summarize(*user)
		return nil
	})
	if err != nil {
		return UserSummary{}, err
	}
	return updated, nil
}

// SellerProductQuota reports the seller's catalog counts against the
// subscription product limit.
func (s *Service) SellerProductQuota(ctx context.Context, sellerID int64) (ProductQuotaResponse, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return ProductQuotaResponse{}, err
	}
	seller := snap.UserByID(sellerID)
	if seller == nil {
		return ProductQuotaResponse{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, sellerID)
	}
	total, verified := 0, 0
	for _, p := range snap.Products {
		if p.SellerID != sellerID {
			continue
		}
		total++
		if p.Verified {
			verified++
		}
	}
	return ProductQuotaResponse{
		SellerID:      sellerID,
		TotalCount:    total,
		VerifiedCount: verified,
		MaxAllowed:    domain.LimitsFor(seller.Tier).ProductLimit,
		CanAddProduct: domain.CanAddProduct(total, seller.Tier),
	}, nil
}

// ListSellerProducts returns the seller's catalog, newest first.
func (s *Service) ListSellerProducts(ctx context.Context, sellerID int64) ([]domain.Product, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if snap.UserByID(sellerID) == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, sellerID)
	}
	out := make([]domain.Product, 0)
	for _, p := range snap.Products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
