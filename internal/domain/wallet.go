package domain

import "time"

// Wallet is the per-owner token account. Balance is kept in the smallest
// token unit and is never negative. TotalEarned and TotalSpent only grow;
// balance == total_earned - total_spent - sum(active stakes) at every
// committed state. Version increments on every balance mutation.
type Wallet struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Balance     int64     `json:"balance"`
	TotalEarned int64     `json:"total_earned"`
	TotalSpent  int64     `json:"total_spent"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
