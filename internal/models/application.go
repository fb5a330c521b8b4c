// internal/models/application.go
package models

import "time"

type ApplicationStatus string

const (
	ApplicationApplied   ApplicationStatus = "applied"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationDeclined  ApplicationStatus = "declined"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
	ApplicationCancelled ApplicationStatus = "cancelled"
	ApplicationCompleted ApplicationStatus = "completed"
	ApplicationExpired   ApplicationStatus = "expired"
)

// ApplicationEntry is one artist's bid on a booking. One row per
// (booking, artist) pair, enforced by a unique index; withdrawal deletes
// the row rather than flipping status.
type ApplicationEntry struct {
	ID                 string            `json:"id"`
	BookingID          string            `json:"bookingId"`
	ArtistID           string            `json:"artistId"`
	Status             ApplicationStatus `json:"status"`
	ProposedBudget     Money             `json:"proposedBudget"`
	ProposedDuration   int               `json:"proposedDuration"` // days
	Experience         string            `json:"experience"`
	Notes              []ApplicationNote `json:"notes,omitempty"`
	Images             []string          `json:"images,omitempty"` // completion media, max 3
	Video              string            `json:"video,omitempty"`
	CancellationReason string            `json:"cancellationReason,omitempty"`
	CancellationDetail string            `json:"cancellationDetail,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

type ApplicationNote struct {
	Text      string    `json:"text"`
	FollowUp  bool      `json:"followUp"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProposedTerms is the artist-supplied part of an application.
type ProposedTerms struct {
	Budget      Money  `json:"budget"`
	Duration    int    `json:"duration"` // days
	Message     string `json:"message"`
	AgreedTerms bool   `json:"agreedTerms"`
}
