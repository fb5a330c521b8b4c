package settlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/payments"
)

func paymentEvent(id, bookingID, appID string, percent string, amount int64) *payments.Event {
	ev := &payments.Event{ID: id, Type: payments.EventTypeCheckoutCompleted}
	ev.Data.Object.ID = "cs_" + id
	ev.Data.Object.AmountTotal = amount
	ev.Data.Object.Metadata = map[string]string{
		"bookingId":     bookingID,
		"applicationId": appID,
		"artistId":      "artist_1",
		"clientId":      "client_1",
		"percent":       percent,
	}
	return ev
}

func TestConfirmPayment_PartialPayment(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	err := w.engine.ConfirmPayment(context.Background(), paymentEvent("evt_1", "bk_1", appID, "50", 15000))
	require.NoError(t, err)

	booking, _ := w.bookings.get("bk_1")
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, models.PaymentPartial, booking.PaymentState)
	assert.Equal(t, models.Money(15000), booking.AmountPaid)
	assert.Equal(t, models.Money(15000), booking.AmountRemaining)
	assert.Equal(t, []string{"artist_1"}, booking.AssignedArtists)

	assert.Equal(t, models.ApplicationAccepted, w.apps.m[appID].Status)

	halves := w.ledger.byKind(models.LedgerHalf)
	require.Len(t, halves, 1)
	assert.Equal(t, models.Money(15000), halves[0].Amount)
	assert.Equal(t, "client_1", halves[0].SenderID)
	assert.Equal(t, "artist_1", halves[0].ReceiverID)
}

func TestConfirmPayment_SiblingDecline(t *testing.T) {
	w := newTestWorld()
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	for _, id := range []string{"artist_1", "artist_2", "artist_3"} {
		w.addArtist(id, true, 100)
	}
	appID := applyAs(t, w, "bk_1", "artist_1")
	applyAs(t, w, "bk_1", "artist_2")
	applyAs(t, w, "bk_1", "artist_3")

	err := w.engine.ConfirmPayment(context.Background(), paymentEvent("evt_1", "bk_1", appID, "100", 30000))
	require.NoError(t, err)

	var accepted, declined int
	for _, e := range w.apps.m {
		switch e.Status {
		case models.ApplicationAccepted:
			accepted++
		case models.ApplicationDeclined:
			declined++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 2, declined)
}

func TestConfirmPayment_RedeliveryIsIdempotent(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	ev := paymentEvent("evt_1", "bk_1", appID, "50", 15000)
	require.NoError(t, w.engine.ConfirmPayment(context.Background(), ev))
	require.NoError(t, w.engine.ConfirmPayment(context.Background(), ev))

	booking, _ := w.bookings.get("bk_1")
	assert.Equal(t, models.Money(15000), booking.AmountPaid, "no double credit")
	assert.Len(t, w.ledger.byKind(models.LedgerHalf), 1, "no duplicate ledger row")
}

func TestConfirmPayment_RedeliveryAfterFailedWriteApplies(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	ev := paymentEvent("evt_1", "bk_1", appID, "50", 15000)

	w.apps.updateStatusErr = errors.NewQueryExecutionFailedError("update application status", context.DeadlineExceeded)
	require.Error(t, w.engine.ConfirmPayment(context.Background(), ev))
	assert.False(t, w.dedupe.seen["payments:event:evt_1"], "dedupe key released on failure")

	// The gateway redelivers; the payment must still go through.
	require.NoError(t, w.engine.ConfirmPayment(context.Background(), ev))

	booking, _ := w.bookings.get("bk_1")
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, models.PaymentPartial, booking.PaymentState)
	assert.Equal(t, models.Money(15000), booking.AmountPaid)
	assert.Equal(t, models.ApplicationAccepted, w.apps.m[appID].Status)

	// A third delivery is a plain duplicate again.
	halves := len(w.ledger.byKind(models.LedgerHalf))
	require.NoError(t, w.engine.ConfirmPayment(context.Background(), ev))
	assert.Equal(t, models.Money(15000), booking.AmountPaid)
	assert.Len(t, w.ledger.byKind(models.LedgerHalf), halves, "duplicate appends nothing")
}

func TestConfirmPayment_TerminalStateShortCircuitWithoutDedupe(t *testing.T) {
	w := newTestWorld()
	w.engine.dedupe = nil // dedupe store unavailable
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	require.NoError(t, w.engine.ConfirmPayment(context.Background(), paymentEvent("evt_1", "bk_1", appID, "50", 15000)))
	require.NoError(t, w.engine.ConfirmPayment(context.Background(), paymentEvent("evt_2", "bk_1", appID, "50", 15000)))

	booking, _ := w.bookings.get("bk_1")
	assert.Equal(t, models.Money(15000), booking.AmountPaid)
	assert.Len(t, w.ledger.byKind(models.LedgerHalf), 1)
}

func TestConfirmPayment_UnknownBookingIsAcknowledged(t *testing.T) {
	w := newTestWorld()

	err := w.engine.ConfirmPayment(context.Background(), paymentEvent("evt_1", "bk_ghost", "app_ghost", "50", 15000))
	require.NoError(t, err)
	assert.Empty(t, w.ledger.entries)
}

func TestConfirmPayment_ForeignEventTypeIgnored(t *testing.T) {
	w := newTestWorld()
	ev := &payments.Event{ID: "evt_1", Type: "invoice.created"}

	require.NoError(t, w.engine.ConfirmPayment(context.Background(), ev))
	assert.Empty(t, w.ledger.entries)
}
