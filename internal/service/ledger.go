package service

import (
	"context"
	"time"

	"seva-ledger/internal/cache"
	"seva-ledger/internal/domain"
	"seva-ledger/internal/logger"
	"seva-ledger/internal/repository"
)

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
	calculator *RewardCalculator
	balances   cache.BalanceCache
	maxRetries int
	backoff    time.Duration
}

func NewLedgerService(ledgerRepo repository.LedgerRepository, calculator *RewardCalculator, balances cache.BalanceCache, maxRetries int) LedgerService {
	if maxRetries <= 0 {
		maxRetries = defaultConflictRetries
	}
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		calculator: calculator,
		balances:   balances,
		maxRetries: maxRetries,
		backoff:    25 * time.Millisecond,
	}
}

func (s *ledgerService) Award(ctx context.Context, ownerID, amount int64, category, description string, relatedEntity *string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	t, err := s.withRetry(ctx, "award", func() (*domain.Transaction, error) {
		return s.ledgerRepo.Award(ctx, repository.EntryParams{
			OwnerID:       ownerID,
			Amount:        amount,
			Type:          domain.TransactionTypeEarn,
			Category:      category,
			Description:   description,
			RelatedEntity: relatedEntity,
		})
	})
	if err != nil {
		return nil, err
	}
	s.balances.Invalidate(ctx, ownerID)
	logger.Info("tokens awarded", "owner_id", ownerID, "amount", amount, "category", category, "tx_id", t.ID)
	return t, nil
}

func (s *ledgerService) AwardForAction(ctx context.Context, ownerID int64, action domain.RewardAction, description string, relatedEntity *string) (*domain.Transaction, error) {
	amount := s.calculator.Amount(action)
	if amount == 0 {
		logger.Debug("action earned no tokens", "owner_id", ownerID, "category", action.Category())
		return nil, nil
	}
	return s.Award(ctx, ownerID, amount, action.Category(), description, relatedEntity)
}

func (s *ledgerService) Spend(ctx context.Context, ownerID, amount int64, category, description string, relatedEntity *string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	t, err := s.withRetry(ctx, "spend", func() (*domain.Transaction, error) {
		return s.ledgerRepo.Spend(ctx, repository.EntryParams{
			OwnerID:       ownerID,
			Amount:        amount,
			Type:          domain.TransactionTypeSpend,
			Category:      category,
			Description:   description,
			RelatedEntity: relatedEntity,
		})
	})
	if err != nil {
		return nil, err
	}
	s.balances.Invalidate(ctx, ownerID)
	logger.Info("tokens spent", "owner_id", ownerID, "amount", amount, "category", category, "tx_id", t.ID)
	return t, nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromOwnerID, toOwnerID, amount int64, description string) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if fromOwnerID == toOwnerID {
		return nil, domain.ErrSameWalletTransfer
	}
	t, err := s.withRetry(ctx, "transfer", func() (*domain.Transaction, error) {
		return s.ledgerRepo.Transfer(ctx, fromOwnerID, toOwnerID, amount, description)
	})
	if err != nil {
		return nil, err
	}
	s.balances.Invalidate(ctx, fromOwnerID)
	s.balances.Invalidate(ctx, toOwnerID)
	logger.Info("tokens transferred", "from_owner_id", fromOwnerID, "to_owner_id", toOwnerID, "amount", amount, "tx_id", t.ID)
	return t, nil
}

func (s *ledgerService) withRetry(ctx context.Context, op string, fn func() (*domain.Transaction, error)) (*domain.Transaction, error) {
	return retryOnConflict(ctx, s.maxRetries, s.backoff, op, fn)
}
