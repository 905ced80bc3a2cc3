package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"seva-ledger/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.WalletRepository
	repository.LedgerRepository
	repository.TransactionRepository
	repository.StakeRepository
	repository.QueryRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		WalletRepository:      NewWalletRepository(db),
		LedgerRepository:      NewLedgerRepository(db),
		TransactionRepository: NewTransactionRepository(db),
		StakeRepository:       NewStakeRepository(db),
		QueryRepository:       NewQueryRepository(db),
	}
}
