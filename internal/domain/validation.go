package domain

import "fmt"

// ValidateCommission checks a campaign commission percentage.
func ValidateCommission(commission float64) error {
	if commission <= 0 || commission > 100 {
		return fmt.Errorf("%w: commission must be between 0 and 100, got %.2f", ErrInvalidInput, commission)
	}
	return nil
}

// ValidateCampaignDuration checks a campaign duration in days.
func ValidateCampaignDuration(days int) error {
	if days <= 0 {
		return fmt.Errorf("%w: campaign duration must be a positive number of days, got %d", ErrInvalidInput, days)
	}
	return nil
}

// ValidateAccountType rejects account types outside the known set.
func ValidateAccountType(t AccountType) error {
	switch t {
	case AccountTypeBuyer, AccountTypeSeller, AccountTypeInfluencer, AccountTypeAdmin:
		return nil
	default:
		return fmt.Errorf("%w: unknown account type %q", ErrInvalidInput, t)
	}
}

// ValidateTier rejects tiers outside the known set. Empty is allowed and
// treated as basic.
func ValidateTier(t Tier) error {
	switch t {
	case "", TierBasic, TierPro, TierEnterprise:
		return nil
	default:
		return fmt.Errorf("%w: unknown subscription tier %q", ErrInvalidInput, t)
	}
}

// ValidateUserID rejects non-positive identifiers.
func ValidateUserID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: user id must be positive, got %d", ErrInvalidInput, id)
	}
	return nil
}

// CanFollow enforces the directed-follow role rules: buyers follow, sellers
// and influencers are followed.
func CanFollow(actor, target *User) error {
	if actor.AccountType != AccountTypeBuyer {
		return fmt.Errorf("%w: account type %s cannot follow other users", ErrRoleViolation, actor.AccountType)
	}
	if target.AccountType != AccountTypeSeller && target.AccountType != AccountTypeInfluencer {
		return fmt.Errorf("%w: account type %s cannot be followed", ErrRoleViolation, target.AccountType)
	}
	return nil
}
