package settlement

import (
	"context"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

// PaymentUpdate is the optional payment-field change accompanying an
// accept decision (operator-driven flows).
type PaymentUpdate struct {
	State           models.PaymentState `json:"state"`
	AmountPaid      models.Money        `json:"amountPaid"`
	AmountRemaining models.Money        `json:"amountRemaining"`
}

// Respond applies the client's accept or decline decision to one
// application. It never calls the payment gateway; payment has either
// been confirmed already (callback path) or is an operator decision.
func (e *Engine) Respond(ctx context.Context, callerID, bookingID, applicationID string, accept bool, payment *PaymentUpdate) error {
	booking, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.ClientID != callerID {
		return errors.NewForbiddenError("only the booking owner may respond to applications")
	}
	if booking.Status.IsTerminal() {
		return errors.NewConflictError("booking is already closed")
	}

	entry, err := e.apps.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if entry.BookingID != bookingID {
		return errors.NewValidationError("application does not belong to this booking")
	}
	if entry.Status != models.ApplicationApplied {
		return errors.NewConflictError("application is not open")
	}

	if !accept {
		if err := e.apps.UpdateStatus(ctx, applicationID, models.ApplicationDeclined); err != nil {
			return err
		}
		e.notify(&models.Notification{
			TargetUser:    entry.ArtistID,
			TriggeredBy:   callerID,
			Type:          models.NotifyApplicationDeclined,
			BookingID:     bookingID,
			ApplicationID: applicationID,
		}, e.artistRecipient(ctx, entry.ArtistID))
		return nil
	}

	if err := e.apps.UpdateStatus(ctx, applicationID, models.ApplicationAccepted); err != nil {
		return err
	}
	if err := e.bookings.AssignArtist(ctx, bookingID, entry.ArtistID); err != nil {
		return err
	}

	if payment != nil {
		paid := payment.AmountPaid
		remaining := payment.AmountRemaining
		// Half-paid going full: the increment is the artist's agreed
		// budget, not a caller-supplied number, and nothing remains.
		if booking.PaymentState == models.PaymentPartial && payment.State == models.PaymentFull {
			paid = booking.AmountPaid + entry.ProposedBudget
			remaining = 0
		}
		if err := e.bookings.UpdatePayment(ctx, bookingID, paid, remaining, payment.State); err != nil {
			return err
		}
	}

	if _, err := e.bookings.MarkConfirmed(ctx, bookingID); err != nil {
		return err
	}

	e.notify(&models.Notification{
		TargetUser:    entry.ArtistID,
		TriggeredBy:   callerID,
		Type:          models.NotifyApplicationAccepted,
		BookingID:     bookingID,
		ApplicationID: applicationID,
	}, e.artistRecipient(ctx, entry.ArtistID))

	return nil
}
