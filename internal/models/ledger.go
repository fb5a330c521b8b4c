// internal/models/ledger.go
package models

import "time"

type LedgerKind string

const (
	LedgerHalf       LedgerKind = "half"
	LedgerFull       LedgerKind = "full"
	LedgerRefund     LedgerKind = "refund"
	LedgerAdminFee   LedgerKind = "admin-fee"
	LedgerWithdrawal LedgerKind = "withdrawal"
)

// LedgerEntry is one row in the append-only money-movement record.
// Entries are immutable after creation, with a single exception: a prior
// half/full entry for a booking may be rewritten in place to kind=refund
// with the reduced amount when the booking is cancelled after payment.
type LedgerEntry struct {
	ID         string     `json:"id"`
	SenderID   string     `json:"senderId"`
	ReceiverID string     `json:"receiverId"`
	BookingID  string     `json:"bookingId"`
	Amount     Money      `json:"amount"`
	Kind       LedgerKind `json:"kind"`
	Commission Money      `json:"commission"` // sweep metadata only, zero elsewhere
	CreatedAt  time.Time  `json:"createdAt"`
}
