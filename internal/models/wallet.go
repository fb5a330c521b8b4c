// internal/models/wallet.go
package models

import "time"

// Wallet is the current-balance cache for one user. The ledger is the
// source of truth; the balance is only ever mutated through atomic
// increments against the latest persisted value.
type Wallet struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"` // "client", "artist", "platform"
	Balance   Money     `json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}
