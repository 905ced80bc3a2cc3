package service

import (
	"context"

	"github.com/shopspring/decimal"

	"seva-ledger/internal/domain"
)

// LedgerService is the only write path into the token ledger. Every
// operation is atomic: the wallet mutation and its transaction-log entry
// commit together or not at all. Conflicting concurrent mutations are
// retried a bounded number of times before ErrConcurrentConflict surfaces.
type LedgerService interface {
	Award(ctx context.Context, ownerID, amount int64, category, description string, relatedEntity *string) (*domain.Transaction, error)
	// AwardForAction prices a platform action through the reward policy and
	// awards the result. Actions whose reward rounds down to zero are
	// acknowledged without a ledger entry (nil transaction, nil error).
	AwardForAction(ctx context.Context, ownerID int64, action domain.RewardAction, description string, relatedEntity *string) (*domain.Transaction, error)
	Spend(ctx context.Context, ownerID, amount int64, category, description string, relatedEntity *string) (*domain.Transaction, error)
	Transfer(ctx context.Context, fromOwnerID, toOwnerID, amount int64, description string) (*domain.Transaction, error)
}

type StakingService interface {
	Stake(ctx context.Context, ownerID, amount int64, periodDays int, rewardRate decimal.Decimal) (*domain.StakePosition, error)
	// Unstake withdraws a position owned by ownerID. After maturity the
	// principal plus finalized rewards return to the wallet; before maturity
	// the accrued rewards are forfeited and only the principal returns.
	Unstake(ctx context.Context, ownerID int64, positionID string) (*domain.Transaction, error)
	ListStakes(ctx context.Context, ownerID int64) ([]domain.StakePosition, error)
}

// QueryService is the read-only facade for dashboards and admin tooling.
// Its answers may lag committed writes (balance reads can come from the
// cache); it is never consulted to authorize a mutation.
type QueryService interface {
	GetBalance(ctx context.Context, ownerID int64) (int64, error)
	GetWallet(ctx context.Context, ownerID int64) (*domain.Wallet, error)
	GetHistory(ctx context.Context, ownerID int64, limit int, cursor int64) ([]domain.Transaction, int64, error)
	GetLeaderboard(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error)
	GetStats(ctx context.Context) (*domain.LedgerStats, error)
}
