package settlement

import (
	"context"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/notify"
)

// minApplicationMessageChars guards against throwaway applications.
const minApplicationMessageChars = 50

// ApplyResult is the outcome of an application attempt. Exactly one of
// ApplicationID or OnboardingURL is set: an artist without a payout
// destination gets an onboarding redirect and nothing is written.
type ApplyResult struct {
	ApplicationID string `json:"applicationId,omitempty"`
	OnboardingURL string `json:"onboardingUrl,omitempty"`
}

// Apply registers an artist's bid on a booking.
func (e *Engine) Apply(ctx context.Context, bookingID, artistID string, terms models.ProposedTerms) (*ApplyResult, error) {
	if err := validateTerms(terms); err != nil {
		return nil, err
	}

	artist, err := e.artists.GetByID(ctx, artistID)
	if err != nil {
		return nil, err
	}

	booking, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingPending && booking.Status != models.BookingInReview {
		return nil, errors.NewConflictError("booking is not open for applications")
	}

	// No payout destination: hand back an onboarding URL before touching
	// any record.
	if !artist.Onboarded() {
		link, err := e.gateway.CreateOnboardingLink(ctx, artistID)
		if err != nil {
			return nil, err
		}
		return &ApplyResult{OnboardingURL: link.URL}, nil
	}

	entry := &models.ApplicationEntry{
		BookingID:        bookingID,
		ArtistID:         artistID,
		Status:           models.ApplicationApplied,
		ProposedBudget:   terms.Budget,
		ProposedDuration: terms.Duration,
		Experience:       terms.Message,
		Notes: []models.ApplicationNote{
			{Text: terms.Message, FollowUp: false, CreatedAt: e.now().UTC()},
		},
	}
	if err := e.apps.Create(ctx, entry); err != nil {
		return nil, err
	}

	if err := e.bookings.AddAppliedArtist(ctx, bookingID, artistID); err != nil {
		return nil, err
	}
	if err := e.bookings.MarkInReview(ctx, bookingID); err != nil {
		return nil, err
	}

	e.notify(&models.Notification{
		TargetUser:    booking.ClientID,
		TriggeredBy:   artistID,
		Type:          models.NotifyApplicationReceived,
		BookingID:     bookingID,
		ApplicationID: entry.ID,
		Payload: map[string]interface{}{
			"proposedBudget":   int64(terms.Budget),
			"proposedDuration": terms.Duration,
		},
	}, notify.Recipient{})

	return &ApplyResult{ApplicationID: entry.ID}, nil
}

func validateTerms(terms models.ProposedTerms) error {
	if terms.Budget <= 0 {
		return errors.NewValidationError("proposed budget must be positive")
	}
	if terms.Duration <= 0 {
		return errors.NewValidationError("proposed duration must be positive")
	}
	if len(terms.Message) < minApplicationMessageChars {
		return errors.NewValidationError("application message must be at least 50 characters")
	}
	if !terms.AgreedTerms {
		return errors.NewValidationError("terms must be explicitly agreed")
	}
	return nil
}
