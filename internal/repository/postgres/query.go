package postgres

import (
	"context"
	"database/sql"

	"seva-ledger/internal/domain"
	"seva-ledger/internal/repository"
)

type queryRepository struct {
	db *sql.DB
}

func NewQueryRepository(db *sql.DB) repository.QueryRepository {
	return &queryRepository{db: db}
}

func (r *queryRepository) Leaderboard(ctx context.Context, topN int) ([]domain.LeaderboardEntry, error) {
	query := `SELECT owner_id, id, total_earned FROM wallets
	          ORDER BY total_earned DESC, id ASC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.OwnerID, &e.WalletID, &e.TotalEarned); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *queryRepository) AggregateStats(ctx context.Context) (*domain.LedgerStats, error) {
	stats := &domain.LedgerStats{}

	query := `SELECT
	            COALESCE(SUM(amount) FILTER (WHERE type IN ('EARN', 'REWARD')), 0),
	            COALESCE(SUM(amount) FILTER (WHERE type = 'SPEND'), 0),
	            COUNT(*)
	          FROM transactions`
	if err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalIssued, &stats.TotalSpent, &stats.TransactionCount); err != nil {
		return nil, err
	}

	staked := `SELECT COALESCE(SUM(staked_amount), 0) FROM stake_positions WHERE status IN ($1, $2)`
	if err := r.db.QueryRowContext(ctx, staked, domain.StakeStatusActive, domain.StakeStatusCompleted).Scan(&stats.TotalStaked); err != nil {
		return nil, err
	}

	wallets := `SELECT COUNT(*) FROM wallets WHERE total_earned > 0 OR total_spent > 0`
	if err := r.db.QueryRowContext(ctx, wallets).Scan(&stats.ActiveWallets); err != nil {
		return nil, err
	}
	return stats, nil
}
