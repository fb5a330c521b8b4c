// internal/workers/payment/payment-confirmed/models.go
package paymentconfirmed

// Input carries the raw gateway callback: the payload exactly as
// received, plus the signature header. The payload is not parsed before
// the signature passes.
type Input struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type Output struct {
	Processed bool   `json:"processed"`
	EventID   string `json:"eventId,omitempty"`
}
