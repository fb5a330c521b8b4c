package settlement

import (
	"context"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/metrics"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

// ListStale returns confirmed bookings whose event date passed the
// staleness window, for the sweep to drive through AutoComplete.
func (e *Engine) ListStale(ctx context.Context) ([]*models.Booking, error) {
	cutoff := e.now().Add(-time.Duration(e.sweepCfg.StalenessHours) * time.Hour)
	return e.bookings.ListStaleConfirmed(ctx, cutoff, e.sweepCfg.BatchLimit)
}

// AutoComplete settles one stale confirmed booking without human action.
// Commission applies only to established artist accounts. Skips (no
// artist, no payout destination, nothing paid) are not errors; the sweep
// logs and moves on.
func (e *Engine) AutoComplete(ctx context.Context, booking *models.Booking) (completed bool, err error) {
	artistID := booking.PrimaryArtist()
	if artistID == "" {
		e.logger.Warn("stale booking has no assigned artist, skipping", map[string]interface{}{
			"bookingId": booking.ID,
		})
		return false, nil
	}

	artist, err := e.artists.GetByID(ctx, artistID)
	if err != nil {
		return false, err
	}
	if !artist.Onboarded() {
		e.logger.Warn("assigned artist has no payout destination, skipping", map[string]interface{}{
			"bookingId": booking.ID,
			"artistId":  artistID,
		})
		return false, nil
	}
	if booking.AmountPaid <= 0 {
		e.logger.Warn("stale booking has no settled payment, skipping", map[string]interface{}{
			"bookingId": booking.ID,
		})
		return false, nil
	}

	commission := Commission(
		booking.AmountPaid,
		artist.AccountAgeDays(e.now()),
		e.sweepCfg.MinAccountAgeDays,
		int64(e.sweepCfg.CommissionPercent),
	)

	if err := e.settleCompletion(ctx, booking, artist, commission); err != nil {
		return false, err
	}

	flipped, err := e.bookings.MarkCompleted(ctx, booking.ID, nil, "")
	if err != nil {
		return false, err
	}
	if !flipped {
		// Completed or cancelled under us; the money writes above were
		// driven by the confirmed snapshot, so log loudly.
		e.logger.Error("stale booking closed concurrently during auto-complete", map[string]interface{}{
			"bookingId": booking.ID,
		})
		return false, nil
	}

	if entry, err := e.apps.GetByBookingAndArtist(ctx, booking.ID, artistID); err == nil {
		if err := e.apps.MarkCompleted(ctx, entry.ID, nil, ""); err != nil {
			return false, err
		}
	}

	e.logger.Info("booking auto-completed", map[string]interface{}{
		"bookingId":  booking.ID,
		"artistId":   artistID,
		"paid":       int64(booking.AmountPaid),
		"commission": int64(commission),
	})

	e.notify(&models.Notification{
		TargetUser:  artistID,
		TriggeredBy: booking.ClientID,
		Type:        models.NotifyBookingCompleted,
		BookingID:   booking.ID,
		Payload: map[string]interface{}{
			"payout":     int64(booking.AmountPaid - commission),
			"commission": int64(commission),
		},
	}, e.artistRecipient(ctx, artistID))

	metrics.SweepBookingsProcessed.WithLabelValues("completed").Inc()
	return true, nil
}
