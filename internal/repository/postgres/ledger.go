package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/repository"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Award credits the owner's wallet and appends the EARN/REWARD entry in one
// database transaction. The wallet is created on first use; the credit is a
// self-contained increment, so no prior read is involved.
func (r *ledgerRepository) Award(ctx context.Context, p repository.EntryParams) (*domain.Transaction, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer dbTx.Rollback()

	w, err := upsertWallet(ctx, dbTx, p.OwnerID)
	if err != nil {
		return nil, translateConflict(err)
	}

	query := `UPDATE wallets SET balance = balance + $1, total_earned = total_earned + $1,
	          version = version + 1, updated_at = NOW() WHERE id = $2`
	if _, err := dbTx.ExecContext(ctx, query, p.Amount, w.ID); err != nil {
		return nil, translateConflict(err)
	}

	t := &domain.Transaction{
		ID:            uuid.NewString(),
		ToWalletID:    &w.ID,
		Amount:        p.Amount,
		Type:          p.Type,
		Category:      p.Category,
		Description:   p.Description,
		RelatedEntity: p.RelatedEntity,
		Status:        domain.TransactionStatusCompleted,
		CreatedAt:     time.Now().UTC(),
	}
	if err := insertTransaction(ctx, dbTx, t); err != nil {
		return nil, translateConflict(err)
	}
	if err := dbTx.Commit(); err != nil {
		return nil, translateConflict(err)
	}
	return t, nil
}

// Spend debits the owner's wallet and appends the SPEND entry in one database
// transaction. The balance check and the debit are the same statement
// (balance >= amount in the UPDATE predicate), so a concurrent spend can
// never pass the check against a stale balance.
func (r *ledgerRepository) Spend(ctx context.Context, p repository.EntryParams) (*domain.Transaction, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer dbTx.Rollback()

	var walletID int64
	err = dbTx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE owner_id = $1`, p.OwnerID).Scan(&walletID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, translateConflict(err)
	}

	query := `UPDATE wallets SET balance = balance - $1, total_spent = total_spent + $1,
	          version = version + 1, updated_at = NOW() WHERE id = $2 AND balance >= $1`
	res, err := dbTx.ExecContext(ctx, query, p.Amount, walletID)
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

	t := &domain.Transaction{
		ID:            uuid.NewString(),
		FromWalletID:  &walletID,
		Amount:        p.Amount,
		Type:          p.Type,
		Category:      p.Category,
		Description:   p.Description,
		RelatedEntity: p.RelatedEntity,
		Status:        domain.TransactionStatusCompleted,
		CreatedAt:     time.Now().UTC(),
	}
	if err := insertTransaction(ctx, dbTx, t); err != nil {
		return nil, translateConflict(err)
	}
	if err := dbTx.Commit(); err != nil {
		return nil, translateConflict(err)
	}
	return t, nil
}

// Transfer moves amount between two wallets and appends a single entry
// referencing both. Rows are locked in ascending wallet-id order regardless
// of direction, so two opposite transfers between the same pair cannot
// deadlock. The receiver wallet is created when absent; resolution takes no
// row lock (DO NOTHING plus a plain SELECT, not the Award upsert, whose
// DO UPDATE would lock an existing row ahead of the ordered loop).
func (r *ledgerRepository) Transfer(ctx context.Context, fromOwnerID, toOwnerID, amount int64, description string) (*domain.Transaction, error) {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer dbTx.Rollback()

	var fromID int64
	err = dbTx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE owner_id = $1`, fromOwnerID).Scan(&fromID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWalletNotFound
	}
	if err != nil {
		return nil, translateConflict(err)
	}

	ensure := `INSERT INTO wallets (owner_id) VALUES ($1) ON CONFLICT (owner_id) DO NOTHING`
	if _, err := dbTx.ExecContext(ctx, ensure, toOwnerID); err != nil {
		return nil, translateConflict(err)
	}
	var toID int64
	if err := dbTx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE owner_id = $1`, toOwnerID).Scan(&toID); err != nil {
		return nil, translateConflict(err)
	}

	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}
	for _, id := range []int64{first, second} {
		var locked int64
		if err := dbTx.QueryRowContext(ctx, `SELECT id FROM wallets WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
			return nil, translateConflict(err)
		}
	}

	debit := `UPDATE wallets SET balance = balance - $1, total_spent = total_spent + $1,
	          version = version + 1, updated_at = NOW() WHERE id = $2 AND balance >= $1`
	res, err := dbTx.ExecContext(ctx, debit, amount, fromID)
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

	credit := `UPDATE wallets SET balance = balance + $1, total_earned = total_earned + $1,
	           version = version + 1, updated_at = NOW() WHERE id = $2`
	if _, err := dbTx.ExecContext(ctx, credit, amount, toID); err != nil {
		return nil, translateConflict(err)
	}

	t := &domain.Transaction{
		ID:           uuid.NewString(),
		FromWalletID: &fromID,
		ToWalletID:   &toID,
		Amount:       amount,
		Type:         domain.TransactionTypeTransfer,
		Category:     domain.CategoryP2PTransfer,
		Description:  description,
		Status:       domain.TransactionStatusCompleted,
		CreatedAt:    time.Now().UTC(),
	}
	if err := insertTransaction(ctx, dbTx, t); err != nil {
		return nil, translateConflict(err)
	}
	if err := dbTx.Commit(); err != nil {
		return nil, translateConflict(err)
	}
	return t, nil
}

// upsertWallet is the same insert-or-fetch-on-conflict used by
// WalletRepository.GetOrCreate, runnable inside an open transaction.
func upsertWallet(ctx context.Context, q dbtx, ownerID int64) (*domain.Wallet, error) {
	query := `INSERT INTO wallets (owner_id) VALUES ($1)
	          ON CONFLICT (owner_id) DO UPDATE SET owner_id = EXCLUDED.owner_id
	          RETURNING ` + walletColumns
	return scanWallet(q.QueryRowContext(ctx, query, ownerID))
}
