// internal/workers/booking/apply-to-booking/models.go
package applytobooking

type Input struct {
	BookingID        string `json:"bookingId"`
	ArtistID         string `json:"artistId"`
	ProposedBudget   int64  `json:"proposedBudget"`
	ProposedDuration int    `json:"proposedDuration"`
	Message          string `json:"message"`
	AgreedTerms      bool   `json:"agreedTerms"`
}

// Output carries either the created application or an onboarding
// redirect, never both.
type Output struct {
	ApplicationID      string `json:"applicationId,omitempty"`
	OnboardingURL      string `json:"onboardingUrl,omitempty"`
	OnboardingRequired bool   `json:"onboardingRequired"`
}
