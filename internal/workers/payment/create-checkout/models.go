// internal/workers/payment/create-checkout/models.go
package createcheckout

type Input struct {
	ClientID      string `json:"clientId"`
	BookingID     string `json:"bookingId"`
	ApplicationID string `json:"applicationId"`
}

type Output struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"checkoutUrl"`
	Amount    int64  `json:"amount"`
	Percent   int64  `json:"percent"`
}
