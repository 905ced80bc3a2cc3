package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"seva-ledger/internal/domain"
)

func TestRewardCalculator_Amount(t *testing.T) {
	calc := NewRewardCalculator(DefaultRewardPolicy())

	tests := []struct {
		name   string
		action domain.RewardAction
		want   int64
	}{
		{"BasicListing", domain.ListingAction{}, 5},
		{"PremiumListing", domain.ListingAction{Premium: true}, 20},
		{"QualityListing", domain.ListingAction{Quality: true}, 7}, // floor(5 * 1.5)
		{"PremiumQualityListing", domain.ListingAction{Premium: true, Quality: true}, 30},
		{"Repair", domain.RepairAction{}, 50},
		{"QualityRepair", domain.RepairAction{Quality: true}, 75},
		{"Upcycle", domain.UpcycleAction{}, 100},
		{"Referral", domain.ReferralAction{ReferredOwnerID: 9}, 100},
		{"EventAttendance", domain.EventAttendanceAction{EventID: "evt-1"}, 10},
		{"Cashback", domain.PurchaseAction{PurchaseValue: 1000}, 20}, // 2%
		{"CashbackFloors", domain.PurchaseAction{PurchaseValue: 149}, 2},
		{"CashbackRoundsToZero", domain.PurchaseAction{PurchaseValue: 49}, 0},
		{"CashbackNegativeValue", domain.PurchaseAction{PurchaseValue: -100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Amount(tt.action))
		})
	}
}

func TestRewardCalculator_CustomPolicy(t *testing.T) {
	policy := DefaultRewardPolicy()
	policy.CashbackPercent = decimal.RequireFromString("2.5")
	policy.QualityMultiplier = decimal.NewFromInt(2)
	calc := NewRewardCalculator(policy)

	assert.Equal(t, int64(25), calc.Amount(domain.PurchaseAction{PurchaseValue: 1000}))
	assert.Equal(t, int64(10), calc.Amount(domain.ListingAction{Quality: true}))
}
