package service

import (
	"context"

	"seva-ledger/internal/cache"
	"seva-ledger/internal/domain"
	"seva-ledger/internal/repository"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type queryService struct {
	walletRepo repository.WalletRepository
	txRepo     repository.TransactionRepository
	queryRepo  repository.QueryRepository
	balances   cache.BalanceCache
}

func NewQueryService(walletRepo repository.WalletRepository, txRepo repository.TransactionRepository, queryRepo repository.QueryRepository, balances cache.BalanceCache) QueryService {
	return &queryService{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		queryRepo:  queryRepo,
		balances:   balances,
	}
}

func (s *queryService) GetBalance(ctx context.Context, ownerID int64) (int64, error) {
	if balance, ok := s.balances.Get(ctx, ownerID); ok {
		return balance, nil
	}
	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	s.balances.Set(ctx, ownerID, wallet.Balance)
	return wallet.Balance, nil
}

func (s *queryService) GetWallet(ctx context.Context, ownerID int64) (*domain.Wallet, error) {
	return s.walletRepo.GetByOwner(ctx, ownerID)
}

func (s *queryService) GetHistory(ctx context.Context, ownerID int64, limit int, cursor int64) ([]domain.Transaction, int64, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	return s.txRepo.ListByWallet(ctx, wallet.ID, limit, cursor)
}

func (s *queryService) GetLeaderboard(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error) {
	if topN <= 0 {
		topN = 10
	}
	return s.queryRepo.Leaderboard(ctx, topN)
}

func (s *queryService) GetStats(ctx context.Context) (*domain.LedgerStats, error) {
	return s.queryRepo.AggregateStats(ctx)
}
