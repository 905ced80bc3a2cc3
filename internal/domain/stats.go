package domain

// LeaderboardEntry is one row of the earned-by-owner ranking.
type LeaderboardEntry struct {
	OwnerID     int64 `json:"owner_id"`
	WalletID    int64 `json:"wallet_id"`
	TotalEarned int64 `json:"total_earned"`
}

// LedgerStats are the aggregate figures shown on admin dashboards. They are
// computed from committed state and may lag writes slightly; they are never
// an input to an award/spend/transfer decision.
type LedgerStats struct {
	TotalIssued      int64 `json:"total_issued"`
	TotalSpent       int64 `json:"total_spent"`
	TotalStaked      int64 `json:"total_staked"`
	ActiveWallets    int64 `json:"active_wallets"`
	TransactionCount int64 `json:"transaction_count"`
}
