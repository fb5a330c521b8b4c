package settlement

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/payments"
)

// CheckoutResult carries the hosted payment page for the client.
type CheckoutResult struct {
	SessionID string       `json:"sessionId"`
	URL       string       `json:"url"`
	Amount    models.Money `json:"amount"`
	Percent   int64        `json:"percent"`
}

// Checkout computes the deposit and opens a gateway checkout session.
// The deposit is half the agreed budget when the event is more than the
// configured threshold away, the full budget otherwise. Gateway failures
// surface unchanged; nothing is retried in the request path.
func (e *Engine) Checkout(ctx context.Context, callerID, bookingID, applicationID string) (*CheckoutResult, error) {
	booking, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.ClientID != callerID {
		return nil, errors.NewForbiddenError("only the booking owner may start checkout")
	}
	if booking.Status.IsTerminal() {
		return nil, errors.NewConflictError("booking is already closed")
	}

	entry, err := e.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if entry.BookingID != bookingID {
		return nil, errors.NewValidationError("application does not belong to this booking")
	}

	percent := DepositPercent(booking.EventDate, e.now(), e.settlementCfg.DepositThresholdDays)
	amount := entry.ProposedBudget.Percent(percent)

	session, err := e.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		Amount:      amount,
		Currency:    e.currency,
		Description: fmt.Sprintf("Booking %s deposit (%d%%)", bookingID, percent),
		Metadata: payments.CheckoutMetadata{
			BookingID:     bookingID,
			ApplicationID: applicationID,
			ArtistID:      entry.ArtistID,
			ClientID:      booking.ClientID,
			Percent:       percent,
		},
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("checkout session opened", map[string]interface{}{
		"bookingId":     bookingID,
		"applicationId": applicationID,
		"amount":        int64(amount),
		"percent":       strconv.FormatInt(percent, 10),
	})

	return &CheckoutResult{
		SessionID: session.ID,
		URL:       session.URL,
		Amount:    amount,
		Percent:   percent,
	}, nil
}
