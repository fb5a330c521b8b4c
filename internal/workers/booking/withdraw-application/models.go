// internal/workers/booking/withdraw-application/models.go
package withdrawapplication

type Input struct {
	BookingID string `json:"bookingId"`
	ArtistID  string `json:"artistId"`
}

type Output struct {
	Withdrawn bool `json:"withdrawn"`
}
