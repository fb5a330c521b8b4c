// internal/models/notification.go
package models

import "time"

type NotificationType string

const (
	NotifyApplicationReceived  NotificationType = "application_received"
	NotifyApplicationWithdrawn NotificationType = "application_withdrawn"
	NotifyApplicationAccepted  NotificationType = "application_accepted"
	NotifyApplicationDeclined  NotificationType = "application_declined"
	NotifyBookingCancelled     NotificationType = "booking_cancelled"
	NotifyBookingCompleted     NotificationType = "booking_completed"
	NotifyPaymentReceived      NotificationType = "payment_received"
)

// Notification is a fire-and-forget event record for the opposite party.
// Failure to write one never rolls back the triggering financial write.
type Notification struct {
	ID            string                 `json:"id"`
	TargetUser    string                 `json:"targetUser"`
	TriggeredBy   string                 `json:"triggeredBy"`
	Type          NotificationType       `json:"type"`
	BookingID     string                 `json:"bookingId,omitempty"`
	ApplicationID string                 `json:"applicationId,omitempty"`
	Payload       map[string]interface{} `json:"payload,omitempty"`
	Read          bool                   `json:"read"`
	CreatedAt     time.Time              `json:"createdAt"`
}
