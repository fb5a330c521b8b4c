package settlement

import (
	"context"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/metrics"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/notify"
)

// cancellationReasonOther requires a free-text detail.
const cancellationReasonOther = "Other"

// Cancel closes a booking with the tiered refund split. The refund and
// the platform fee always sum to exactly what was paid.
func (e *Engine) Cancel(ctx context.Context, callerID, bookingID, reason, detail string) error {
	if reason == "" {
		return errors.NewValidationError("cancellation reason is required")
	}
	if reason == cancellationReasonOther && detail == "" {
		return errors.NewValidationError("cancellation detail is required when reason is Other")
	}

	booking, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status.IsTerminal() {
		return errors.NewConflictError("booking is already closed")
	}

	artistID := booking.PrimaryArtist()
	if callerID != booking.ClientID && callerID != artistID {
		return errors.NewForbiddenError("only the booking parties may cancel")
	}

	paid := booking.AmountPaid
	var refund, fee models.Money
	var tier string

	if paid > 0 {
		daysUntil := DaysUntil(booking.EventDate, e.now())
		refund, fee = RefundSplit(paid, daysUntil,
			int64(e.settlementCfg.RefundEarlyPercent),
			int64(e.settlementCfg.RefundMidPercent))
		tier = refundTier(daysUntil)

		// Money first, terminal status last. Two overlapping closers can
		// both reach the credits; MarkCancelled below is the deciding
		// compare-and-set, and the loser returns a conflict so its
		// credits are visible for reconciliation instead of silently
		// kept.
		if fee > 0 {
			if err := e.wallets.Credit(ctx, e.settlementCfg.PlatformAccountID, "platform", fee); err != nil {
				return err
			}
		}
		if refund > 0 {
			if err := e.wallets.Credit(ctx, booking.ClientID, "client", refund); err != nil {
				return err
			}
		}

		// Rewrite the original payment row to a refund rather than
		// duplicating it; skip silently when no payment row exists.
		paymentEntry, err := e.ledger.FindPaymentEntry(ctx, bookingID)
		switch {
		case err == nil:
			if err := e.ledger.UpgradeToRefund(ctx, paymentEntry.ID, refund); err != nil {
				return err
			}
		case errors.HasCode(err, errors.ErrCodeNotFound):
			// No prior payment row to upgrade.
		default:
			return err
		}

		if err := e.appendLedger(ctx, &models.LedgerEntry{
			SenderID:   booking.ClientID,
			ReceiverID: e.settlementCfg.PlatformAccountID,
			BookingID:  bookingID,
			Amount:     fee,
			Kind:       models.LedgerAdminFee,
		}); err != nil {
			return err
		}

		metrics.SettlementRefunds.WithLabelValues(tier).Inc()
		metrics.SettlementAmountMoved.WithLabelValues(string(models.LedgerAdminFee)).Add(float64(fee))
	}

	flipped, err := e.bookings.MarkCancelled(ctx, bookingID, reason, detail)
	if err != nil {
		return err
	}
	if !flipped {
		return errors.NewConflictError("booking was closed concurrently")
	}

	if artistID != "" {
		if entry, err := e.apps.GetByBookingAndArtist(ctx, bookingID, artistID); err == nil {
			if err := e.apps.MarkCancelled(ctx, entry.ID, reason, detail); err != nil {
				return err
			}
		}
	}

	e.logger.Info("booking cancelled", map[string]interface{}{
		"bookingId": bookingID,
		"paid":      int64(paid),
		"refund":    int64(refund),
		"fee":       int64(fee),
		"reason":    reason,
	})

	// Notify whichever party did not initiate.
	target := booking.ClientID
	rcpt := notify.Recipient{}
	if callerID == booking.ClientID && artistID != "" {
		target = artistID
		rcpt = e.artistRecipient(ctx, artistID)
	}
	e.notify(&models.Notification{
		TargetUser:  target,
		TriggeredBy: callerID,
		Type:        models.NotifyBookingCancelled,
		BookingID:   bookingID,
		Payload: map[string]interface{}{
			"reason": reason,
			"refund": int64(refund),
		},
	}, rcpt)

	return nil
}

func refundTier(daysUntilEvent int) string {
	switch {
	case daysUntilEvent > 14:
		return "early"
	case daysUntilEvent >= 7:
		return "mid"
	default:
		return "late"
	}
}
