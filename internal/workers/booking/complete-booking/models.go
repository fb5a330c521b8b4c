// internal/workers/booking/complete-booking/models.go
package completebooking

type Input struct {
	ArtistID  string   `json:"artistId"`
	BookingID string   `json:"bookingId"`
	Images    []string `json:"images,omitempty"`
	Video     string   `json:"video,omitempty"`
}

type Output struct {
	Completed bool `json:"completed"`
}
