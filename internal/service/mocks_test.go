package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/repository"
)

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) GetOrCreate(ctx context.Context, ownerID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) GetByOwner(ctx context.Context, ownerID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Award(ctx context.Context, p repository.EntryParams) (*domain.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerRepo) Spend(ctx context.Context, p repository.EntryParams) (*domain.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerRepo) Transfer(ctx context.Context, fromOwnerID, toOwnerID, amount int64, description string) (*domain.Transaction, error) {
	args := m.Called(ctx, fromOwnerID, toOwnerID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// MockStakeRepo
type MockStakeRepo struct {
	mock.Mock
}

func (m *MockStakeRepo) Create(ctx context.Context, walletID int64, amount int64, periodDays int, rewardRate decimal.Decimal, now time.Time) (*domain.StakePosition, error) {
	args := m.Called(ctx, walletID, amount, periodDays, rewardRate, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StakePosition), args.Error(1)
}
func (m *MockStakeRepo) GetByID(ctx context.Context, id string) (*domain.StakePosition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StakePosition), args.Error(1)
}
func (m *MockStakeRepo) ListByWallet(ctx context.Context, walletID int64) ([]domain.StakePosition, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StakePosition), args.Error(1)
}
func (m *MockStakeRepo) Withdraw(ctx context.Context, id string, rewards int64, now time.Time) (*domain.Transaction, error) {
	args := m.Called(ctx, id, rewards, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockStakeRepo) ListMatured(ctx context.Context, now time.Time) ([]domain.StakePosition, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StakePosition), args.Error(1)
}
func (m *MockStakeRepo) ListActive(ctx context.Context) ([]domain.StakePosition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StakePosition), args.Error(1)
}
func (m *MockStakeRepo) Complete(ctx context.Context, id string, rewards int64) error {
	args := m.Called(ctx, id, rewards)
	return args.Error(0)
}
func (m *MockStakeRepo) MaterializeRewards(ctx context.Context, id string, rewards int64) error {
	args := m.Called(ctx, id, rewards)
	return args.Error(0)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByWallet(ctx context.Context, walletID int64, limit int, cursor int64) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, walletID, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

// MockQueryRepo
type MockQueryRepo struct {
	mock.Mock
}

func (m *MockQueryRepo) Leaderboard(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error) {
	args := m.Called(ctx, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LeaderboardEntry), args.Error(1)
}
func (m *MockQueryRepo) AggregateStats(ctx context.Context) (*domain.LedgerStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerStats), args.Error(1)
}

// recordingCache is an in-memory BalanceCache that remembers what was
// invalidated, for asserting the cache discipline of the write path.
type recordingCache struct {
	mu          sync.Mutex
	values      map[int64]int64
	invalidated []int64
}

func newRecordingCache() *recordingCache {
	return &recordingCache{values: make(map[int64]int64)}
}

func (c *recordingCache) Get(_ context.Context, ownerID int64) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[ownerID]
	return v, ok
}

func (c *recordingCache) Set(_ context.Context, ownerID, balance int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[ownerID] = balance
}

func (c *recordingCache) Invalidate(_ context.Context, ownerID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, ownerID)
	c.invalidated = append(c.invalidated, ownerID)
}

// memoryLedger is a thread-safe in-memory LedgerRepository used to exercise
// the service under real goroutine contention, where testify mocks would
// serialize everything. walletView and stakeView expose the same store
// through the wallet and stake repository interfaces, so a whole
// award/stake/spend/unstake flow can run against one shared balance.
type memoryLedger struct {
	mu       sync.Mutex
	wallets  map[int64]*domain.Wallet
	entries  []domain.Transaction
	stakes   map[string]*domain.StakePosition
	nextID   int64
	stakeSeq int
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{
		wallets: make(map[int64]*domain.Wallet),
		stakes:  make(map[string]*domain.StakePosition),
	}
}

func (m *memoryLedger) wallet(ownerID int64) *domain.Wallet {
	w, ok := m.wallets[ownerID]
	if !ok {
		m.nextID++
		w = &domain.Wallet{ID: m.nextID, OwnerID: ownerID}
		m.wallets[ownerID] = w
	}
	return w
}

func (m *memoryLedger) append(t domain.Transaction) *domain.Transaction {
	t.Seq = int64(len(m.entries) + 1)
	t.Status = domain.TransactionStatusCompleted
	t.CreatedAt = time.Now().UTC()
	m.entries = append(m.entries, t)
	return &t
}

func (m *memoryLedger) Award(_ context.Context, p repository.EntryParams) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.wallet(p.OwnerID)
	w.Balance += p.Amount
	w.TotalEarned += p.Amount
	return m.append(domain.Transaction{
		ToWalletID: &w.ID,
		Amount:     p.Amount,
		Type:       p.Type,
		Category:   p.Category,
	}), nil
}

func (m *memoryLedger) Spend(_ context.Context, p repository.EntryParams) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[p.OwnerID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	if w.Balance < p.Amount {
		return nil, domain.ErrInsufficientBalance
	}
	w.Balance -= p.Amount
	w.TotalSpent += p.Amount
	return m.append(domain.Transaction{
		FromWalletID: &w.ID,
		Amount:       p.Amount,
		Type:         p.Type,
		Category:     p.Category,
	}), nil
}

func (m *memoryLedger) Transfer(_ context.Context, fromOwnerID, toOwnerID, amount int64, _ string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	from, ok := m.wallets[fromOwnerID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	if from.Balance < amount {
		return nil, domain.ErrInsufficientBalance
	}
	to := m.wallet(toOwnerID)
	from.Balance -= amount
	from.TotalSpent += amount
	to.Balance += amount
	to.TotalEarned += amount
	return m.append(domain.Transaction{
		FromWalletID: &from.ID,
		ToWalletID:   &to.ID,
		Amount:       amount,
		Type:         domain.TransactionTypeTransfer,
		Category:     domain.CategoryP2PTransfer,
	}), nil
}

func (m *memoryLedger) balance(ownerID int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[ownerID]; ok {
		return w.Balance
	}
	return 0
}

func (m *memoryLedger) entryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// walletView adapts memoryLedger to repository.WalletRepository. A separate
// type because GetByID takes an int64 here and a string on the stake side.
type walletView struct{ m *memoryLedger }

func (v walletView) GetOrCreate(_ context.Context, ownerID int64) (*domain.Wallet, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	w := *v.m.wallet(ownerID)
	return &w, nil
}

func (v walletView) GetByOwner(_ context.Context, ownerID int64) (*domain.Wallet, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	w, ok := v.m.wallets[ownerID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	out := *w
	return &out, nil
}

func (v walletView) GetByID(_ context.Context, id int64) (*domain.Wallet, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	for _, w := range v.m.wallets {
		if w.ID == id {
			out := *w
			return &out, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

// stakeView adapts memoryLedger to repository.StakeRepository with the same
// balance semantics as the postgres implementation: Create reserves the
// amount out of the spendable balance, Withdraw returns principal plus the
// rewards the caller decided on.
type stakeView struct{ m *memoryLedger }

func (v stakeView) walletByID(id int64) *domain.Wallet {
	for _, w := range v.m.wallets {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (v stakeView) Create(_ context.Context, walletID, amount int64, periodDays int, rewardRate decimal.Decimal, now time.Time) (*domain.StakePosition, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	w := v.walletByID(walletID)
	if w == nil {
		return nil, domain.ErrWalletNotFound
	}
	if w.Balance < amount {
		return nil, domain.ErrInsufficientBalance
	}
	w.Balance -= amount
	v.m.stakeSeq++
	pos := &domain.StakePosition{
		ID:           fmt.Sprintf("stk-%d", v.m.stakeSeq),
		WalletID:     walletID,
		StakedAmount: amount,
		PeriodDays:   periodDays,
		RewardRate:   rewardRate,
		Status:       domain.StakeStatusActive,
		StakedAt:     now,
	}
	v.m.stakes[pos.ID] = pos
	v.m.append(domain.Transaction{
		FromWalletID:  &w.ID,
		Amount:        amount,
		Type:          domain.TransactionTypeStake,
		Category:      domain.CategoryStakeDeposit,
		RelatedEntity: &pos.ID,
	})
	out := *pos
	return &out, nil
}

func (v stakeView) GetByID(_ context.Context, id string) (*domain.StakePosition, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	pos, ok := v.m.stakes[id]
	if !ok {
		return nil, domain.ErrStakeNotFound
	}
	out := *pos
	return &out, nil
}

func (v stakeView) ListByWallet(_ context.Context, walletID int64) ([]domain.StakePosition, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	var out []domain.StakePosition
	for _, pos := range v.m.stakes {
		if pos.WalletID == walletID {
			out = append(out, *pos)
		}
	}
	return out, nil
}

func (v stakeView) Withdraw(_ context.Context, id string, rewards int64, now time.Time) (*domain.Transaction, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	pos, ok := v.m.stakes[id]
	if !ok {
		return nil, domain.ErrStakeNotFound
	}
	if pos.Status == domain.StakeStatusWithdrawn {
		return nil, domain.ErrStakeNotActive
	}
	w := v.walletByID(pos.WalletID)
	pos.Status = domain.StakeStatusWithdrawn
	pos.EarnedRewards = rewards
	pos.UnstakedAt = &now
	w.Balance += pos.StakedAmount + rewards
	w.TotalEarned += rewards
	t := v.m.append(domain.Transaction{
		ToWalletID:    &w.ID,
		Amount:        pos.StakedAmount,
		Type:          domain.TransactionTypeUnstake,
		Category:      domain.CategoryStakeReturn,
		RelatedEntity: &pos.ID,
	})
	if rewards > 0 {
		v.m.append(domain.Transaction{
			ToWalletID:    &w.ID,
			Amount:        rewards,
			Type:          domain.TransactionTypeReward,
			Category:      domain.CategoryStakingReward,
			RelatedEntity: &pos.ID,
		})
	}
	return t, nil
}

func (v stakeView) ListMatured(_ context.Context, now time.Time) ([]domain.StakePosition, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	var out []domain.StakePosition
	for _, pos := range v.m.stakes {
		if pos.Status == domain.StakeStatusActive && pos.Matured(now) {
			out = append(out, *pos)
		}
	}
	return out, nil
}

func (v stakeView) ListActive(_ context.Context) ([]domain.StakePosition, error) {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	var out []domain.StakePosition
	for _, pos := range v.m.stakes {
		if pos.Status == domain.StakeStatusActive {
			out = append(out, *pos)
		}
	}
	return out, nil
}

func (v stakeView) Complete(_ context.Context, id string, rewards int64) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	pos, ok := v.m.stakes[id]
	if !ok {
		return domain.ErrStakeNotFound
	}
	if pos.Status != domain.StakeStatusActive {
		return nil
	}
	pos.Status = domain.StakeStatusCompleted
	if rewards > pos.EarnedRewards {
		pos.EarnedRewards = rewards
	}
	return nil
}

func (v stakeView) MaterializeRewards(_ context.Context, id string, rewards int64) error {
	v.m.mu.Lock()
	defer v.m.mu.Unlock()
	pos, ok := v.m.stakes[id]
	if !ok {
		return domain.ErrStakeNotFound
	}
	if pos.Status == domain.StakeStatusActive && rewards > pos.EarnedRewards {
		pos.EarnedRewards = rewards
	}
	return nil
}

// flakyLedger fails the first n calls with ErrConcurrentConflict, then
// delegates, for exercising the retry loop.
type flakyLedger struct {
	mu       sync.Mutex
	failures int
	inner    repository.LedgerRepository
}

func (f *flakyLedger) trip() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return domain.ErrConcurrentConflict
	}
	return nil
}

func (f *flakyLedger) Award(ctx context.Context, p repository.EntryParams) (*domain.Transaction, error) {
	if err := f.trip(); err != nil {
		return nil, err
	}
	return f.inner.Award(ctx, p)
}

func (f *flakyLedger) Spend(ctx context.Context, p repository.EntryParams) (*domain.Transaction, error) {
	if err := f.trip(); err != nil {
		return nil, err
	}
	return f.inner.Spend(ctx, p)
}

func (f *flakyLedger) Transfer(ctx context.Context, fromOwnerID, toOwnerID, amount int64, description string) (*domain.Transaction, error) {
	if err := f.trip(); err != nil {
		return nil, err
	}
	return f.inner.Transfer(ctx, fromOwnerID, toOwnerID, amount, description)
}
