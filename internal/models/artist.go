// internal/models/artist.go
package models

import "time"

// Artist is the provider-side projection of a user record. Only the
// fields settlement needs: the payout destination registered with the
// payment gateway and the account age that drives commission tiering.
type Artist struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	PayoutAccountID string    `json:"payoutAccountId,omitempty"` // empty = not onboarded
	CreatedAt       time.Time `json:"createdAt"`
}

// Onboarded reports whether the artist can receive payouts.
func (a *Artist) Onboarded() bool {
	return a.PayoutAccountID != ""
}

// AccountAgeDays is measured against the given clock for testability.
func (a *Artist) AccountAgeDays(now time.Time) int {
	return int(now.Sub(a.CreatedAt).Hours() / 24)
}
