package domain_test

import (
	"errors"
	"testing"

	"github.com/viralforge/mesh/services/core-platform/M07-social-collab-service/internal/domain"
)

func TestLimitsFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tier     domain.Tier
		products int
		collabs  int
		fee      float64
	}{
		{domain.TierBasic, 3, 1, 5},
		{domain.TierPro, 25, 50, 3},
		{domain.TierEnterprise, domain.Unlimited, domain.Unlimited, 2},
		{domain.Tier(""), 3, 1, 5},
		{domain.Tier("gold"), 3, 1, 5},
	}
	for _, tc := range cases {
		limits := domain.LimitsFor(tc.tier)
		if limits.ProductLimit != tc.products || limits.CollaborationLimit != tc.collabs || limits.FeePercent != tc.fee {
			t.Fatalf("tier %q: got %+v", tc.tier, limits)
		}
	}
}

func TestCanAcceptCollaboration(t *testing.T) {
	t.Parallel()

	if !domain.CanAcceptCollaboration(0, domain.TierBasic) {
		t.Fatalf("basic seller with no active collaborations should accept")
	}
	if domain.CanAcceptCollaboration(1, domain.TierBasic) {
		t.Fatalf("basic seller at the limit should be rejected")
	}
	if !domain.CanAcceptCollaboration(49, domain.TierPro) {
		t.Fatalf("pro seller below the limit should accept")
	}
	if domain.CanAcceptCollaboration(50, domain.TierPro) {
		t.Fatalf("pro seller at the limit should be rejected")
	}
	if !domain.CanAcceptCollaboration(10_000, domain.TierEnterprise) {
		t.Fatalf("enterprise seller should never be rejected")
	}
}

func TestPlatformFee(t *testing.T) {
	t.Parallel()

	if fee := domain.PlatformFee(200, domain.TierBasic); fee != 10 {
		t.Fatalf("basic fee: got %v, want 10", fee)
	}
	if fee := domain.PlatformFee(200, domain.TierEnterprise); fee != 4 {
		t.Fatalf("enterprise fee: got %v, want 4", fee)
	}
}

func TestLimitErrorMatchesSentinel(t *testing.T) {
	t.Parallel()

	err := &domain.LimitError{Tier: domain.TierBasic, Current: 1, Limit: 1}
	if !errors.Is(err, domain.ErrLimitExceeded) {
		t.Fatalf("LimitError should match ErrLimitExceeded")
	}
}
