package domain

import "errors"

// Ledger error taxonomy. All of these are recoverable, typed errors that
// surface to the caller; any failure aborts the whole atomic unit.
var (
	ErrInvalidAmount       = errors.New("amount must be a positive number of token units")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient spendable balance")
	ErrSameWalletTransfer  = errors.New("cannot transfer to the same wallet")
	ErrStakeNotFound       = errors.New("stake position not found")
	ErrStakeNotActive      = errors.New("stake position is not withdrawable")
	ErrInvalidStake        = errors.New("invalid stake parameters")
	ErrConcurrentConflict  = errors.New("concurrent modification conflict, retry the operation")
)
