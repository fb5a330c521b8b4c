// internal/workers/booking/cancel-booking/models.go
package cancelbooking

type Input struct {
	CallerID  string `json:"callerId"`
	BookingID string `json:"bookingId"`
	Reason    string `json:"reason"`
	Detail    string `json:"detail,omitempty"`
}

type Output struct {
	Cancelled bool `json:"cancelled"`
}
