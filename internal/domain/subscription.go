package domain

import "fmt"

type Tier string

const (
	TierBasic      Tier = "basic"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Unlimited marks a quota with no cap.
const Unlimited = -1

type TierLimits struct {
	ProductLimit       int
	CollaborationLimit int
	FeePercent         float64
}

var tierTable = map[Tier]TierLimits{
	TierBasic:      {ProductLimit: 3, CollaborationLimit: 1, FeePercent: 5},
	TierPro:        {ProductLimit: 25, CollaborationLimit: 50, FeePercent: 3},
	TierEnterprise: {ProductLimit: Unlimited, CollaborationLimit: Unlimited, FeePercent: 2},
}

// LimitsFor resolves the quota table entry for a tier. Unknown or empty
// tiers fall back to basic.
func LimitsFor(tier Tier) TierLimits {
	if limits, ok := tierTable[tier]; ok {
		return limits
	}
	return tierTable[TierBasic]
}

// CanAcceptCollaboration reports whether a seller with activeCount active
// collaborations may take on one more.
func CanAcceptCollaboration(activeCount int, tier Tier) bool {
	limit := LimitsFor(tier).CollaborationLimit
	return limit == Unlimited || activeCount < limit
}

// CanAddProduct reports whether a seller with productCount listed products
// may list one more.
func CanAddProduct(productCount int, tier Tier) bool {
	limit := LimitsFor(tier).ProductLimit
	return limit == Unlimited || productCount < limit
}

// PlatformFee computes the marketplace cut for a sale at the given tier.
func PlatformFee(amount float64, tier Tier) float64 {
	return amount * LimitsFor(tier).FeePercent / 100
}

// LimitError carries the quota numbers a rejected caller needs to render
// an upgrade prompt. It matches ErrLimitExceeded under errors.Is.
type LimitError struct {
	Tier    Tier
	Current int
	Limit   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("subscription limit exceeded: tier %s allows %d active collaborations, currently %d", e.Tier, e.Limit, e.Current)
}

func (e *LimitError) Unwrap() error { return ErrLimitExceeded }
