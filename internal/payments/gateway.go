// Package payments adapts the external payment gateway: onboarding links,
// hosted checkout sessions, payouts and signed event callbacks.
package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

// OnboardingLink is a hosted URL where an artist sets up a payout account.
type OnboardingLink struct {
	URL       string `json:"url"`
	ExpiresAt int64  `json:"expires_at"`
}

// CheckoutSession is a hosted payment page created for a client.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutMetadata travels with the session and comes back on the
// payment-confirmed event. It is the only correlation between a gateway
// event and our booking.
type CheckoutMetadata struct {
	BookingID     string `json:"bookingId"`
	ApplicationID string `json:"applicationId"`
	ArtistID      string `json:"artistId"`
	ClientID      string `json:"clientId"`
	// Percent is the share of the agreed budget being collected, 50 or 100.
	Percent int64 `json:"percent,string"`
}

// CheckoutRequest describes the session to create.
type CheckoutRequest struct {
	Amount      models.Money
	Currency    string
	Description string
	Metadata    CheckoutMetadata
}

// Event is a gateway callback, already signature-verified by the caller.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID          string            `json:"id"`
			AmountTotal int64             `json:"amount_total"`
			Metadata    map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// EventTypeCheckoutCompleted is the only event type the settlement engine
// acts on. Everything else is acknowledged and ignored.
const EventTypeCheckoutCompleted = "checkout.session.completed"

// Metadata extracts the checkout metadata carried on an event.
func (e *Event) Metadata() (CheckoutMetadata, error) {
	raw, err := json.Marshal(e.Data.Object.Metadata)
	if err != nil {
		return CheckoutMetadata{}, fmt.Errorf("marshal event metadata: %w", err)
	}
	var meta CheckoutMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return CheckoutMetadata{}, fmt.Errorf("unmarshal event metadata: %w", err)
	}
	return meta, nil
}

// Gateway is the payment provider abstraction. The HTTP client implements
// it; tests substitute a stub.
type Gateway interface {
	// CreateOnboardingLink returns a hosted onboarding URL for an artist
	// without a payout account.
	CreateOnboardingLink(ctx context.Context, artistID string) (*OnboardingLink, error)

	// CreateCheckoutSession creates a hosted payment page for the given
	// amount with correlation metadata attached.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// Payout transfers funds from the platform to an artist payout account.
	Payout(ctx context.Context, payoutAccountID string, amount models.Money, currency string) error
}
