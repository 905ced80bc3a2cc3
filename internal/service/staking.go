package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"seva-ledger/internal/cache"
	"seva-ledger/internal/domain"
	"seva-ledger/internal/logger"
	"seva-ledger/internal/repository"
)

// StakingLimits bound what callers may open. Rates are annualized percentages.
type StakingLimits struct {
	MinAmount     int64
	MinPeriodDays int
	MaxPeriodDays int
	MaxRewardRate decimal.Decimal
}

func DefaultStakingLimits() StakingLimits {
	return StakingLimits{
		MinAmount:     1,
		MinPeriodDays: 7,
		MaxPeriodDays: 365,
		MaxRewardRate: decimal.NewFromInt(20),
	}
}

type stakingService struct {
	stakeRepo  repository.StakeRepository
	walletRepo repository.WalletRepository
	balances   cache.BalanceCache
	limits     StakingLimits
	maxRetries int
	backoff    time.Duration
	now        func() time.Time
}

func NewStakingService(stakeRepo repository.StakeRepository, walletRepo repository.WalletRepository, balances cache.BalanceCache, limits StakingLimits, maxRetries int) StakingService {
	if maxRetries <= 0 {
		maxRetries = defaultConflictRetries
	}
	return &stakingService{
		stakeRepo:  stakeRepo,
		walletRepo: walletRepo,
		balances:   balances,
		limits:     limits,
		maxRetries: maxRetries,
		backoff:    25 * time.Millisecond,
		now:        time.Now,
	}
}

func (s *stakingService) Stake(ctx context.Context, ownerID, amount int64, periodDays int, rewardRate decimal.Decimal) (*domain.StakePosition, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if amount < s.limits.MinAmount ||
		periodDays < s.limits.MinPeriodDays || periodDays > s.limits.MaxPeriodDays ||
		rewardRate.LessThanOrEqual(decimal.Zero) || rewardRate.GreaterThan(s.limits.MaxRewardRate) {
		return nil, domain.ErrInvalidStake
	}

	wallet, err := s.walletRepo.GetOrCreate(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	pos, err := retryOnConflict(ctx, s.maxRetries, s.backoff, "stake", func() (*domain.StakePosition, error) {
		return s.stakeRepo.Create(ctx, wallet.ID, amount, periodDays, rewardRate, s.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	s.balances.Invalidate(ctx, ownerID)
	logger.Info("stake opened", "owner_id", ownerID, "amount", amount, "period_days", periodDays, "rate", rewardRate.String(), "stake_id", pos.ID)
	return pos, nil
}

func (s *stakingService) Unstake(ctx context.Context, ownerID int64, positionID string) (*domain.Transaction, error) {
	pos, err := s.stakeRepo.GetByID(ctx, positionID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.walletRepo.GetByID(ctx, pos.WalletID)
	if err != nil {
		return nil, err
	}
	// Hide other owners' positions rather than acknowledging them.
	if wallet.OwnerID != ownerID {
		return nil, domain.ErrStakeNotFound
	}

	now := s.now().UTC()
	rewards, err := withdrawableRewards(pos, now)
	if err != nil {
		return nil, err
	}

	t, err := retryOnConflict(ctx, s.maxRetries, s.backoff, "unstake", func() (*domain.Transaction, error) {
		return s.stakeRepo.Withdraw(ctx, positionID, rewards, now)
	})
	if err != nil {
		return nil, err
	}
	s.balances.Invalidate(ctx, ownerID)
	logger.Info("stake withdrawn", "owner_id", ownerID, "stake_id", positionID, "principal", pos.StakedAmount, "rewards", rewards)
	return t, nil
}

func (s *stakingService) ListStakes(ctx context.Context, ownerID int64) ([]domain.StakePosition, error) {
	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	stakes, err := s.stakeRepo.ListByWallet(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}
	// Show the live accrual for positions the maturity job has not visited yet.
	now := s.now().UTC()
	for i := range stakes {
		if stakes[i].Status == domain.StakeStatusActive {
			if accrued := AccruedRewards(&stakes[i], now); accrued > stakes[i].EarnedRewards {
				stakes[i].EarnedRewards = accrued
			}
		}
	}
	return stakes, nil
}

// withdrawableRewards applies the early-withdrawal policy: a matured position
// pays its full-term rewards, an early withdrawal forfeits the accrual and
// returns the principal alone.
func withdrawableRewards(pos *domain.StakePosition, now time.Time) (int64, error) {
	switch pos.Status {
	case domain.StakeStatusCompleted:
		return pos.EarnedRewards, nil
	case domain.StakeStatusActive:
		if pos.Matured(now) {
			return AccruedRewards(pos, pos.MaturesAt()), nil
		}
		return 0, nil
	default:
		return 0, domain.ErrStakeNotActive
	}
}

// AccruedRewards computes the simple (non-compounding) annualized accrual
// for a position as of a point in time, capped at maturity and floored to
// whole token units:
//
//	earned = stakedAmount * rate/100 * elapsedDays/365
//
// Pure; callers materialize the result when they need it persisted.
func AccruedRewards(pos *domain.StakePosition, asOf time.Time) int64 {
	if asOf.Before(pos.StakedAt) {
		return 0
	}
	if end := pos.MaturesAt(); asOf.After(end) {
		asOf = end
	}
	elapsedDays := int64(asOf.Sub(pos.StakedAt).Hours() / 24)
	if elapsedDays <= 0 {
		return 0
	}
	return decimal.NewFromInt(pos.StakedAmount).
		Mul(pos.RewardRate).
		Mul(decimal.NewFromInt(elapsedDays)).
		Div(decimal.NewFromInt(36500)).
		Floor().IntPart()
}
