package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StakeStatus string

const (
	// StakeStatusActive: principal reserved, rewards accruing.
	StakeStatusActive StakeStatus = "ACTIVE"
	// StakeStatusCompleted: period elapsed, rewards finalized, funds not yet returned.
	StakeStatusCompleted StakeStatus = "COMPLETED"
	// StakeStatusWithdrawn: principal (and rewards, if matured) returned to the wallet.
	StakeStatusWithdrawn StakeStatus = "WITHDRAWN"
)

// StakePosition is a time-boxed deposit drawn from a wallet's spendable
// balance. RewardRate is an annualized percentage fixed at creation time;
// later policy changes never touch existing positions. EarnedRewards is a
// materialized snapshot of the accrual: it only grows while the position is
// ACTIVE or COMPLETED, and on withdrawal it is set to the rewards actually
// paid out, so a closed record never claims more than the wallet received
// (zero when an early withdrawal forfeits the accrual).
type StakePosition struct {
	ID            string          `json:"id"`
	WalletID      int64           `json:"wallet_id"`
	StakedAmount  int64           `json:"staked_amount"`
	PeriodDays    int             `json:"period_days"`
	RewardRate    decimal.Decimal `json:"reward_rate"`
	EarnedRewards int64           `json:"earned_rewards"`
	Status        StakeStatus     `json:"status"`
	StakedAt      time.Time       `json:"staked_at"`
	UnstakedAt    *time.Time      `json:"unstaked_at,omitempty"`
}

// MaturesAt is the instant the position completes its period.
func (s *StakePosition) MaturesAt() time.Time {
	return s.StakedAt.Add(time.Duration(s.PeriodDays) * 24 * time.Hour)
}

// Matured reports whether the full staking period has elapsed at t.
func (s *StakePosition) Matured(t time.Time) bool {
	return !t.Before(s.MaturesAt())
}
