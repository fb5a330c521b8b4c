// internal/workers/booking/respond-application/models.go
package respondapplication

type Input struct {
	ClientID      string        `json:"clientId"`
	BookingID     string        `json:"bookingId"`
	ApplicationID string        `json:"applicationId"`
	Accept        bool          `json:"accept"`
	Payment       *PaymentInput `json:"payment,omitempty"`
}

// PaymentInput mirrors the optional payment block a process may attach
// when accepting on an already part-paid booking.
type PaymentInput struct {
	State           string `json:"state"`
	AmountPaid      int64  `json:"amountPaid"`
	AmountRemaining int64  `json:"amountRemaining"`
}

type Output struct {
	Accepted bool   `json:"accepted"`
	Status   string `json:"status"`
}
