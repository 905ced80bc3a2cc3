package service

import (
	"github.com/shopspring/decimal"

	"seva-ledger/internal/domain"
)

// RewardPolicy is the tunable price list for platform actions, in smallest
// token units. Percentages and multipliers are decimals so policy math never
// goes through floats.
type RewardPolicy struct {
	ListingBasic    int64
	ListingPremium  int64
	Repair          int64
	Upcycle         int64
	Referral        int64
	EventAttendance int64
	// CashbackPercent of the purchase value, e.g. 2 for 2%.
	CashbackPercent decimal.Decimal
	// QualityMultiplier applies to listing/repair actions with the quality flag.
	QualityMultiplier decimal.Decimal
}

func DefaultRewardPolicy() RewardPolicy {
	return RewardPolicy{
		ListingBasic:      5,
		ListingPremium:    20,
		Repair:            50,
		Upcycle:           100,
		Referral:          100,
		EventAttendance:   10,
		CashbackPercent:   decimal.NewFromInt(2),
		QualityMultiplier: decimal.RequireFromString("1.5"),
	}
}

// RewardCalculator maps an action to a token amount. Pure and deterministic:
// no storage access, no clock, no side effects. Results are floored to whole
// token units and never negative.
type RewardCalculator struct {
	policy RewardPolicy
}

func NewRewardCalculator(policy RewardPolicy) *RewardCalculator {
	return &RewardCalculator{policy: policy}
}

func (c *RewardCalculator) Amount(action domain.RewardAction) int64 {
	switch a := action.(type) {
	case domain.ListingAction:
		base := c.policy.ListingBasic
		if a.Premium {
			base = c.policy.ListingPremium
		}
		if a.Quality {
			return c.applyMultiplier(base)
		}
		return base
	case domain.RepairAction:
		if a.Quality {
			return c.applyMultiplier(c.policy.Repair)
		}
		return c.policy.Repair
	case domain.UpcycleAction:
		return c.policy.Upcycle
	case domain.ReferralAction:
		return c.policy.Referral
	case domain.EventAttendanceAction:
		return c.policy.EventAttendance
	case domain.PurchaseAction:
		if a.PurchaseValue <= 0 {
			return 0
		}
		return decimal.NewFromInt(a.PurchaseValue).
			Mul(c.policy.CashbackPercent).
			Div(decimal.NewFromInt(100)).
			Floor().IntPart()
	default:
		return 0
	}
}

func (c *RewardCalculator) applyMultiplier(base int64) int64 {
	return decimal.NewFromInt(base).Mul(c.policy.QualityMultiplier).Floor().IntPart()
}
