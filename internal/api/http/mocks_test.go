package http

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"seva-ledger/internal/domain"
)

// MockLedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Award(ctx context.Context, ownerID, amount int64, category, description string, relatedEntity *string) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, amount, category, description, relatedEntity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) AwardForAction(ctx context.Context, ownerID int64, action domain.RewardAction, description string, relatedEntity *string) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, action, description, relatedEntity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) Spend(ctx context.Context, ownerID, amount int64, category, description string, relatedEntity *string) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, amount, category, description, relatedEntity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) Transfer(ctx context.Context, fromOwnerID, toOwnerID, amount int64, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, fromOwnerID, toOwnerID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// MockStakingService
type MockStakingService struct {
	mock.Mock
}

func (m *MockStakingService) Stake(ctx context.Context, ownerID, amount int64, periodDays int, rewardRate decimal.Decimal) (*domain.StakePosition, error) {
	args := m.Called(ctx, ownerID, amount, periodDays, rewardRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StakePosition), args.Error(1)
}
func (m *MockStakingService) Unstake(ctx context.Context, ownerID int64, positionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, ownerID, positionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockStakingService) ListStakes(ctx context.Context, ownerID int64) ([]domain.StakePosition, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StakePosition), args.Error(1)
}

// MockQueryService
type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) GetBalance(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQueryService) GetWallet(ctx context.Context, ownerID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockQueryService) GetHistory(ctx context.Context, ownerID int64, limit int, cursor int64) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, ownerID, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}
func (m *MockQueryService) GetLeaderboard(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}
func (m *MockQueryService) GetStats(ctx context.Context) (*domain.LedgerStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerStats), args.Error(1)
}
