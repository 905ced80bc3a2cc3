package domain

import "time"

type TransactionType string

const (
	TransactionTypeEarn     TransactionType = "EARN"
	TransactionTypeSpend    TransactionType = "SPEND"
	TransactionTypeTransfer TransactionType = "TRANSFER"
	TransactionTypeStake    TransactionType = "STAKE"
	TransactionTypeUnstake  TransactionType = "UNSTAKE"
	TransactionTypeReward   TransactionType = "REWARD"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusPending   TransactionStatus = "PENDING"
)

// Common transaction categories. Category is free-form; these are the
// values the platform callers use today.
const (
	CategoryListing       = "listing"
	CategoryRepair        = "repair"
	CategoryUpcycle       = "upcycle"
	CategoryReferral      = "referral"
	CategoryCashback      = "purchase_cashback"
	CategoryEvent         = "event_attendance"
	CategoryAdminGrant    = "admin_grant"
	CategoryCheckout      = "checkout"
	CategoryRegistration  = "registration"
	CategoryP2PTransfer   = "p2p_transfer"
	CategoryStakeDeposit  = "stake_deposit"
	CategoryStakeReturn   = "stake_return"
	CategoryStakingReward = "staking_reward"
)

// Transaction is one immutable ledger entry. Rows are append-only: never
// updated, never deleted. Seq is a monotonically increasing sequence used
// as the history-pagination cursor; ID is the stable public identifier.
// FromWalletID is nil for pure awards, ToWalletID is nil for pure spends,
// transfers carry both.
type Transaction struct {
	ID            string            `json:"id"`
	Seq           int64             `json:"-"`
	FromWalletID  *int64            `json:"from_wallet_id,omitempty"`
	ToWalletID    *int64            `json:"to_wallet_id,omitempty"`
	Amount        int64             `json:"amount"`
	Type          TransactionType   `json:"type"`
	Category      string            `json:"category"`
	Description   string            `json:"description"`
	RelatedEntity *string           `json:"related_entity,omitempty"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}
