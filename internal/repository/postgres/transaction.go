package postgres

import (
	"context"
	"database/sql"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/repository"
)

const transactionColumns = `id, seq, from_wallet_id, to_wallet_id, amount, type, category, description, related_entity, status, created_at`

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.db.QueryRowContext(ctx, query, id))
}

// ListByWallet pages the history newest-first with a keyset cursor on seq,
// so pages stay stable while new entries are appended.
func (r *transactionRepository) ListByWallet(ctx context.Context, walletID int64, limit int, cursor int64) ([]domain.Transaction, int64, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE (from_wallet_id = $1 OR to_wallet_id = $1) AND ($2 = 0 OR seq < $2)
	          ORDER BY seq DESC LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, walletID, cursor, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var next int64
	if len(txs) == limit && limit > 0 {
		next = txs[len(txs)-1].Seq
	}
	return txs, next, nil
}

// insertTransaction appends one immutable ledger entry. It is the only
// statement in this package that writes the transactions table.
func insertTransaction(ctx context.Context, q dbtx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, from_wallet_id, to_wallet_id, amount, type, category, description, related_entity, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING seq`
	return q.QueryRowContext(ctx, query,
		t.ID, t.FromWalletID, t.ToWalletID, t.Amount, t.Type, t.Category,
		t.Description, t.RelatedEntity, t.Status, t.CreatedAt,
	).Scan(&t.Seq)
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.Seq, &t.FromWalletID, &t.ToWalletID, &t.Amount, &t.Type,
		&t.Category, &t.Description, &t.RelatedEntity, &t.Status, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
