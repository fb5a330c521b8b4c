package settlement

import (
	"context"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/notify"
)

// Withdraw removes an artist's open application. An accepted application
// cannot be withdrawn; that path is cancellation, which settles money.
func (e *Engine) Withdraw(ctx context.Context, bookingID, artistID string) error {
	entry, err := e.apps.GetByBookingAndArtist(ctx, bookingID, artistID)
	if err != nil {
		return err
	}
	if entry.Status == models.ApplicationAccepted {
		return errors.NewConflictError("an accepted application cannot be withdrawn")
	}

	booking, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := e.apps.Delete(ctx, entry.ID); err != nil {
		return err
	}
	if err := e.bookings.RemoveAppliedArtist(ctx, bookingID, artistID); err != nil {
		return err
	}

	e.notify(&models.Notification{
		TargetUser:    booking.ClientID,
		TriggeredBy:   artistID,
		Type:          models.NotifyApplicationWithdrawn,
		BookingID:     bookingID,
		ApplicationID: entry.ID,
	}, notify.Recipient{})

	return nil
}
