package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/repository"
)

const stakeColumns = `id, wallet_id, staked_amount, period_days, reward_rate, earned_rewards, status, staked_at, unstaked_at`

type stakeRepository struct {
	db *sql.DB
}

func NewStakeRepository(db *sql.DB) repository.StakeRepository {
	return &stakeRepository{db: db}
}

// Create reserves the principal out of the spendable balance and opens the
// position in one database transaction. The reservation is a conditional
// debit (balance >= amount in the predicate), the same discipline Spend uses;
// the lifetime counters are untouched because staking is not consumption.
func (r *stakeRepository) Create(ctx context.Context, walletID int64, amount int64, periodDays int, rewardRate decimal.Decimal, now time.Time) (*domain.StakePosition, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer dbTx.Rollback()

	reserve := `UPDATE wallets SET balance = balance - $1, version = version + 1, updated_at = NOW()
	            WHERE id = $2 AND balance >= $1`
	res, err := dbTx.ExecContext(ctx, reserve, amount, walletID)
	if err != nil {
		return nil, translateConflict(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrInsufficientBalance
	}

	pos := &domain.StakePosition{
		ID:           uuid.NewString(),
		WalletID:     walletID,
		StakedAmount: amount,
		PeriodDays:   periodDays,
		RewardRate:   rewardRate,
		Status:       domain.StakeStatusActive,
		StakedAt:     now,
	}
	insert := `INSERT INTO stake_positions (id, wallet_id, staked_amount, period_days, reward_rate, earned_rewards, status, staked_at)
	           VALUES ($1, $2, $3, $4, $5, 0, $6, $7)`
	if _, err := dbTx.ExecContext(ctx, insert, pos.ID, pos.WalletID, pos.StakedAmount, pos.PeriodDays, pos.RewardRate.String(), pos.Status, pos.StakedAt); err != nil {
		return nil, translateConflict(err)
	}

	t := &domain.Transaction{
		ID:            uuid.NewString(),
		FromWalletID:  &walletID,
		Amount:        amount,
		Type:          domain.TransactionTypeStake,
		Category:      domain.CategoryStakeDeposit,
		Description:   "stake deposit",
		RelatedEntity: &pos.ID,
		Status:        domain.TransactionStatusCompleted,
		CreatedAt:     now,
	}
	if err := insertTransaction(ctx, dbTx, t); err != nil {
		return nil, translateConflict(err)
	}
	if err := dbTx.Commit(); err != nil {
		return nil, translateConflict(err)
	}
	return pos, nil
}

func (r *stakeRepository) GetByID(ctx context.Context, id string) (*domain.StakePosition, error) {
	query := `SELECT ` + stakeColumns + ` FROM stake_positions WHERE id = $1`
	pos, err := scanStake(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStakeNotFound
	}
	return pos, err
}

func (r *stakeRepository) ListByWallet(ctx context.Context, walletID int64) ([]domain.StakePosition, error) {
	query := `SELECT ` + stakeColumns + ` FROM stake_positions WHERE wallet_id = $1 ORDER BY staked_at DESC`
	rows, err := r.db.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStakes(rows)
}

// Withdraw closes the position and returns principal plus rewards to the
// wallet in one database transaction. The position row is locked first and
// its status re-checked under the lock, so a doubled unstake call cannot pay
// out twice. earned_rewards is set to the amount actually paid, replacing any
// materialized accrual: on an early withdrawal that is zero, and the closed
// record must agree with the wallet credit and the transaction log.
func (r *stakeRepository) Withdraw(ctx context.Context, id string, rewards int64, now time.Time) (*domain.Transaction, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer dbTx.Rollback()

	query := `SELECT ` + stakeColumns + ` FROM stake_positions WHERE id = $1 FOR UPDATE`
	pos, err := scanStake(dbTx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStakeNotFound
	}
	if err != nil {
		return nil, translateConflict(err)
	}
	if pos.Status == domain.StakeStatusWithdrawn {
		return nil, domain.ErrStakeNotActive
	}

	markWithdrawn := `UPDATE stake_positions SET status = $2, earned_rewards = $3, unstaked_at = $4 WHERE id = $1`
	if _, err := dbTx.ExecContext(ctx, markWithdrawn, id, domain.StakeStatusWithdrawn, rewards, now); err != nil {
		return nil, translateConflict(err)
	}

	credit := `UPDATE wallets SET balance = balance + $1, total_earned = total_earned + $2,
	           version = version + 1, updated_at = NOW() WHERE id = $3`
	if _, err := dbTx.ExecContext(ctx, credit, pos.StakedAmount+rewards, rewards, pos.WalletID); err != nil {
		return nil, translateConflict(err)
	}

	t := &domain.Transaction{
		ID:            uuid.NewString(),
		ToWalletID:    &pos.WalletID,
		Amount:        pos.StakedAmount,
		Type:          domain.TransactionTypeUnstake,
		Category:      domain.CategoryStakeReturn,
		Description:   "stake principal returned",
		RelatedEntity: &pos.ID,
		Status:        domain.TransactionStatusCompleted,
		CreatedAt:     now,
	}
	if err := insertTransaction(ctx, dbTx, t); err != nil {
		return nil, translateConflict(err)
	}
	if rewards > 0 {
		rt := &domain.Transaction{
			ID:            uuid.NewString(),
			ToWalletID:    &pos.WalletID,
			Amount:        rewards,
			Type:          domain.TransactionTypeReward,
			Category:      domain.CategoryStakingReward,
			Description:   "staking reward",
			RelatedEntity: &pos.ID,
			Status:        domain.TransactionStatusCompleted,
			CreatedAt:     now,
		}
		if err := insertTransaction(ctx, dbTx, rt); err != nil {
			return nil, translateConflict(err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return nil, translateConflict(err)
	}
	return t, nil
}

func (r *stakeRepository) ListMatured(ctx context.Context, now time.Time) ([]domain.StakePosition, error) {
	query := `SELECT ` + stakeColumns + ` FROM stake_positions
	          WHERE status = $1 AND staked_at + make_interval(days => period_days) <= $2`
	rows, err := r.db.QueryContext(ctx, query, domain.StakeStatusActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStakes(rows)
}

func (r *stakeRepository) ListActive(ctx context.Context) ([]domain.StakePosition, error) {
	query := `SELECT ` + stakeColumns + ` FROM stake_positions WHERE status = $1`
	rows, err := r.db.QueryContext(ctx, query, domain.StakeStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStakes(rows)
}

func (r *stakeRepository) Complete(ctx context.Context, id string, rewards int64) error {
	query := `UPDATE stake_positions SET status = $2, earned_rewards = GREATEST(earned_rewards, $3)
	          WHERE id = $1 AND status = $4`
	_, err := r.db.ExecContext(ctx, query, id, domain.StakeStatusCompleted, rewards, domain.StakeStatusActive)
	return err
}

func (r *stakeRepository) MaterializeRewards(ctx context.Context, id string, rewards int64) error {
	query := `UPDATE stake_positions SET earned_rewards = GREATEST(earned_rewards, $2)
	          WHERE id = $1 AND status = $3`
	_, err := r.db.ExecContext(ctx, query, id, rewards, domain.StakeStatusActive)
	return err
}

func scanStake(row rowScanner) (*domain.StakePosition, error) {
	var (
		s    domain.StakePosition
		rate string
	)
	err := row.Scan(&s.ID, &s.WalletID, &s.StakedAmount, &s.PeriodDays, &rate,
		&s.EarnedRewards, &s.Status, &s.StakedAt, &s.UnstakedAt)
	if err != nil {
		return nil, err
	}
	s.RewardRate, err = decimal.NewFromString(rate)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectStakes(rows *sql.Rows) ([]domain.StakePosition, error) {
	var stakes []domain.StakePosition
	for rows.Next() {
		s, err := scanStake(rows)
		if err != nil {
			return nil, err
		}
		stakes = append(stakes, *s)
	}
	return stakes, rows.Err()
}
