// internal/models/booking.go
package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingInReview  BookingStatus = "in_review"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// NormalizeBookingStatus maps legacy aliases onto the canonical set.
// Older clients still send "in_progress" for in_review.
func NormalizeBookingStatus(s string) BookingStatus {
	if s == "in_progress" {
		return BookingInReview
	}
	return BookingStatus(s)
}

// IsTerminal reports whether no further status writes are allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type PaymentState string

const (
	PaymentNone    PaymentState = "none"
	PaymentPartial PaymentState = "partial"
	PaymentFull    PaymentState = "full"
)

type Booking struct {
	ID                 string        `json:"id"`
	ClientID           string        `json:"clientId"`
	Status             BookingStatus `json:"status"`
	EventDate          time.Time     `json:"eventDate"`
	MinimumBudget      Money         `json:"minimumBudget"`
	AssignedArtists    []string      `json:"assignedArtists"`
	AppliedArtists     []string      `json:"appliedArtists"`
	AmountPaid         Money         `json:"amountPaid"`
	AmountRemaining    Money         `json:"amountRemaining"`
	PaymentState       PaymentState  `json:"paymentState"`
	CancellationReason string        `json:"cancellationReason,omitempty"`
	CancellationDetail string        `json:"cancellationDetail,omitempty"`
	Rated              bool          `json:"rated"`
	CompletionImages   []string      `json:"completionImages,omitempty"`
	CompletionVideo    string        `json:"completionVideo,omitempty"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

// PrimaryArtist returns the artist settlement assumes, the first assignee.
func (b *Booking) PrimaryArtist() string {
	if len(b.AssignedArtists) == 0 {
		return ""
	}
	return b.AssignedArtists[0]
}

func (b *Booking) HasAppliedArtist(artistID string) bool {
	for _, id := range b.AppliedArtists {
		if id == artistID {
			return true
		}
	}
	return false
}
