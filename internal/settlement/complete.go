package settlement

import (
	"context"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/metrics"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/notify"
)

const maxCompletionImages = 3

// Complete is the artist-driven completion: attach proof media, release
// the paid amount to the artist and close the booking.
func (e *Engine) Complete(ctx context.Context, artistID, bookingID string, images []string, video string) error {
	if err := validateCompletionMedia(images, video); err != nil {
		return err
	}

	booking, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status.IsTerminal() {
		return errors.NewConflictError("booking is already closed")
	}
	if booking.PrimaryArtist() != artistID {
		return errors.NewForbiddenError("only the assigned artist may complete the booking")
	}
	if booking.AmountPaid <= 0 {
		return errors.NewConflictError("booking has no settled payment to release")
	}

	artist, err := e.artists.GetByID(ctx, artistID)
	if err != nil {
		return err
	}
	if !artist.Onboarded() {
		return errors.NewConflictError("assigned artist has no payout destination")
	}

	if err := e.settleCompletion(ctx, booking, artist, 0); err != nil {
		return err
	}

	flipped, err := e.bookings.MarkCompleted(ctx, bookingID, images, video)
	if err != nil {
		return err
	}
	if !flipped {
		return errors.NewConflictError("booking was closed concurrently")
	}

	if entry, err := e.apps.GetByBookingAndArtist(ctx, bookingID, artistID); err == nil {
		if err := e.apps.MarkCompleted(ctx, entry.ID, images, video); err != nil {
			return err
		}
	}

	e.notify(&models.Notification{
		TargetUser:  booking.ClientID,
		TriggeredBy: artistID,
		Type:        models.NotifyBookingCompleted,
		BookingID:   bookingID,
	}, notify.Recipient{})

	return nil
}

// settleCompletion releases the paid amount to the artist, less any
// commission, and appends the full ledger row for the whole paid amount
// with commission recorded as metadata. Shared by the manual path
// (commission zero) and the sweep.
func (e *Engine) settleCompletion(ctx context.Context, booking *models.Booking, artist *models.Artist, commission models.Money) error {
	payout := booking.AmountPaid - commission

	if err := e.wallets.Credit(ctx, artist.ID, "artist", payout); err != nil {
		return err
	}

	if err := e.appendLedger(ctx, &models.LedgerEntry{
		SenderID:   e.settlementCfg.PlatformAccountID,
		ReceiverID: artist.ID,
		BookingID:  booking.ID,
		Amount:     booking.AmountPaid,
		Kind:       models.LedgerFull,
		Commission: commission,
	}); err != nil {
		return err
	}

	metrics.SettlementAmountMoved.WithLabelValues(string(models.LedgerFull)).Add(float64(booking.AmountPaid))
	if commission > 0 {
		metrics.SettlementCommission.Add(float64(commission))
	}
	return nil
}

func validateCompletionMedia(images []string, video string) error {
	if len(images) > maxCompletionImages {
		return errors.NewValidationError("at most 3 completion images are allowed")
	}
	if len(images) == 0 && video == "" {
		return errors.NewValidationError("at least one media item is required")
	}
	for _, img := range images {
		if img == "" {
			return errors.NewValidationError("completion image reference must not be empty")
		}
	}
	return nil
}
