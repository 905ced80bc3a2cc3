package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"seva-ledger/internal/domain"
)

// EntryParams describes a single-wallet ledger entry (award or spend).
type EntryParams struct {
	OwnerID       int64
	Amount        int64
	Type          domain.TransactionType
	Category      string
	Description   string
	RelatedEntity *string
}

type WalletRepository interface {
	// GetOrCreate returns the owner's wallet, creating a zero-balance one if
	// absent. Safe under a concurrent first-call race: the implementation
	// relies on the owner_id uniqueness constraint, not read-then-insert.
	GetOrCreate(ctx context.Context, ownerID int64) (*domain.Wallet, error)
	GetByOwner(ctx context.Context, ownerID int64) (*domain.Wallet, error)
	GetByID(ctx context.Context, id int64) (*domain.Wallet, error)
}

// LedgerRepository executes the balance-mutating units. Each call is one
// all-or-nothing database transaction: wallet row lock(s), conditional
// balance update, transaction append, commit.
type LedgerRepository interface {
	Award(ctx context.Context, p EntryParams) (*domain.Transaction, error)
	Spend(ctx context.Context, p EntryParams) (*domain.Transaction, error)
	Transfer(ctx context.Context, fromOwnerID, toOwnerID, amount int64, description string) (*domain.Transaction, error)
}

type TransactionRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// ListByWallet returns entries touching the wallet in reverse
	// chronological order. cursor is the Seq of the last entry of the
	// previous page (0 for the first page); the returned cursor is 0 when
	// no further page exists.
	ListByWallet(ctx context.Context, walletID int64, limit int, cursor int64) ([]domain.Transaction, int64, error)
}

type StakeRepository interface {
	// Create reserves amount from the wallet's spendable balance, records a
	// STAKE transaction and inserts the active position, all in one unit.
	Create(ctx context.Context, walletID int64, amount int64, periodDays int, rewardRate decimal.Decimal, now time.Time) (*domain.StakePosition, error)
	GetByID(ctx context.Context, id string) (*domain.StakePosition, error)
	ListByWallet(ctx context.Context, walletID int64) ([]domain.StakePosition, error)
	// Withdraw transitions the position to WITHDRAWN and credits principal
	// plus rewards back to the wallet, recording UNSTAKE (and REWARD, when
	// rewards > 0) transactions. The stored earned_rewards is settled to the
	// rewards argument, replacing any materialized accrual the payout
	// forfeits. Fails with ErrStakeNotActive if the position is already
	// withdrawn.
	Withdraw(ctx context.Context, id string, rewards int64, now time.Time) (*domain.Transaction, error)
	// ListMatured returns ACTIVE positions whose period elapsed at or before now.
	ListMatured(ctx context.Context, now time.Time) ([]domain.StakePosition, error)
	ListActive(ctx context.Context) ([]domain.StakePosition, error)
	// Complete finalizes a matured position (ACTIVE -> COMPLETED). Idempotent:
	// a position that is no longer ACTIVE is left untouched.
	Complete(ctx context.Context, id string, rewards int64) error
	// MaterializeRewards persists the accrued reward snapshot for reporting.
	// Idempotent and monotonic: earned_rewards never decreases.
	MaterializeRewards(ctx context.Context, id string, rewards int64) error
}

type QueryRepository interface {
	Leaderboard(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error)
	AggregateStats(ctx context.Context) (*domain.LedgerStats, error)
}
