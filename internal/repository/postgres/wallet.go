package postgres

import (
	"context"
	"database/sql"
	"errors"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/repository"
)

const walletColumns = `id, owner_id, balance, total_earned, total_spent, version, created_at, updated_at`

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

// GetOrCreate is a single upsert so two concurrent first calls for the same
// owner cannot create two wallets. The no-op DO UPDATE makes RETURNING yield
// the existing row on conflict.
func (r *walletRepository) GetOrCreate(ctx context.Context, ownerID int64) (*domain.Wallet, error) {
	query := `INSERT INTO wallets (owner_id) VALUES ($1)
	          ON CONFLICT (owner_id) DO UPDATE SET owner_id = EXCLUDED.owner_id
	          RETURNING ` + walletColumns
	return scanWallet(r.db.QueryRowContext(ctx, query, ownerID))
}

func (r *walletRepository) GetByOwner(ctx context.Context, ownerID int64) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1`
	w, err := scanWallet(r.db.QueryRowContext(ctx, query, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWalletNotFound
	}
	return w, err
}

func (r *walletRepository) GetByID(ctx context.Context, id int64) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	w, err := scanWallet(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrWalletNotFound
	}
	return w, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*domain.Wallet, error) {
	var w domain.Wallet
	err := row.Scan(&w.ID, &w.OwnerID, &w.Balance, &w.TotalEarned, &w.TotalSpent, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
