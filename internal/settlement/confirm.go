package settlement

import (
	"context"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/metrics"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/notify"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/payments"
)

// ConfirmPayment applies a verified payment-confirmed gateway event.
// Idempotent: a redelivered event is dropped by the dedupe key, and an
// already-confirmed pair short-circuits before any write. A failed write
// releases the dedupe key again, so the gateway's redelivery retries the
// event instead of hitting a key left over from an unapplied attempt.
// Unmatched bookings or applications are logged and acknowledged so the
// gateway stops retrying a permanently unresolvable event.
func (e *Engine) ConfirmPayment(ctx context.Context, event *payments.Event) (err error) {
	if event.Type != payments.EventTypeCheckoutCompleted {
		e.logger.Info("ignoring gateway event", map[string]interface{}{
			"eventId": event.ID,
			"type":    event.Type,
		})
		return nil
	}

	dedupeKey := ""
	if e.dedupe != nil && event.ID != "" {
		key := "payments:event:" + event.ID
		ttl := time.Duration(e.settlementCfg.EventDedupeTTLHours) * time.Hour
		seen, derr := e.dedupe.Seen(ctx, key, ttl)
		switch {
		case derr != nil:
			// Dedupe store down: fall through to the terminal-state
			// check rather than dropping a real payment.
			e.logger.Warn("event dedupe unavailable", map[string]interface{}{
				"eventId": event.ID,
				"error":   derr.Error(),
			})
		case seen:
			e.logger.Info("duplicate gateway event dropped", map[string]interface{}{
				"eventId": event.ID,
			})
			return nil
		default:
			dedupeKey = key
		}
	}
	defer func() {
		if err == nil || dedupeKey == "" {
			return
		}
		if ferr := e.dedupe.Forget(ctx, dedupeKey); ferr != nil {
			e.logger.Error("failed to release event dedupe key", map[string]interface{}{
				"eventId": event.ID,
				"error":   ferr.Error(),
			})
		}
	}()

	meta, err := event.Metadata()
	if err != nil || meta.BookingID == "" || meta.ApplicationID == "" {
		e.logger.Warn("gateway event without usable metadata acknowledged", map[string]interface{}{
			"eventId": event.ID,
		})
		return nil
	}

	booking, err := e.bookings.GetByID(ctx, meta.BookingID)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			e.logger.Warn("gateway event for unknown booking acknowledged", map[string]interface{}{
				"eventId":   event.ID,
				"bookingId": meta.BookingID,
			})
			return nil
		}
		return err
	}

	entry, err := e.apps.GetByID(ctx, meta.ApplicationID)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			e.logger.Warn("gateway event for unknown application acknowledged", map[string]interface{}{
				"eventId":       event.ID,
				"applicationId": meta.ApplicationID,
			})
			return nil
		}
		return err
	}

	// Terminal-state short circuit: the pair already reflects this
	// payment, so a redelivery has nothing left to do.
	if entry.Status == models.ApplicationAccepted && booking.Status == models.BookingConfirmed {
		e.logger.Info("payment already applied, acknowledging", map[string]interface{}{
			"eventId":   event.ID,
			"bookingId": booking.ID,
		})
		return nil
	}
	if booking.Status.IsTerminal() {
		e.logger.Warn("payment event for closed booking acknowledged", map[string]interface{}{
			"eventId":   event.ID,
			"bookingId": booking.ID,
			"status":    string(booking.Status),
		})
		return nil
	}

	paid := models.Money(event.Data.Object.AmountTotal)
	kind := models.LedgerFull
	state := models.PaymentFull
	remaining := models.Money(0)
	if meta.Percent == 50 {
		kind = models.LedgerHalf
		state = models.PaymentPartial
		remaining = entry.ProposedBudget - paid
		if remaining < 0 {
			remaining = 0
		}
	}

	// Ledger before status: the status flip is the commit point.
	if err := e.appendLedger(ctx, &models.LedgerEntry{
		SenderID:   booking.ClientID,
		ReceiverID: entry.ArtistID,
		BookingID:  booking.ID,
		Amount:     paid,
		Kind:       kind,
	}); err != nil {
		return err
	}
	metrics.SettlementAmountMoved.WithLabelValues(string(kind)).Add(float64(paid))

	if err := e.apps.UpdateStatus(ctx, entry.ID, models.ApplicationAccepted); err != nil {
		return err
	}
	declined, err := e.apps.DeclineSiblings(ctx, booking.ID, entry.ArtistID)
	if err != nil {
		return err
	}
	if err := e.bookings.AssignArtist(ctx, booking.ID, entry.ArtistID); err != nil {
		return err
	}
	if err := e.bookings.UpdatePayment(ctx, booking.ID, booking.AmountPaid+paid, remaining, state); err != nil {
		return err
	}
	if _, err := e.bookings.MarkConfirmed(ctx, booking.ID); err != nil {
		return err
	}

	e.logger.Info("payment confirmed", map[string]interface{}{
		"eventId":          event.ID,
		"bookingId":        booking.ID,
		"applicationId":    entry.ID,
		"amount":           int64(paid),
		"siblingsDeclined": declined,
	})

	e.notify(&models.Notification{
		TargetUser:    booking.ClientID,
		TriggeredBy:   entry.ArtistID,
		Type:          models.NotifyPaymentReceived,
		BookingID:     booking.ID,
		ApplicationID: entry.ID,
		Payload:       map[string]interface{}{"amount": int64(paid)},
	}, notify.Recipient{})
	e.notify(&models.Notification{
		TargetUser:    entry.ArtistID,
		TriggeredBy:   booking.ClientID,
		Type:          models.NotifyApplicationAccepted,
		BookingID:     booking.ID,
		ApplicationID: entry.ID,
	}, e.artistRecipient(ctx, entry.ArtistID))

	return nil
}
