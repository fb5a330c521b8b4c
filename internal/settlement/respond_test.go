package settlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

func applyAs(t *testing.T, w *testWorld, bookingID, artistID string) string {
	t.Helper()
	result, err := w.engine.Apply(context.Background(), bookingID, artistID, validTerms())
	require.NoError(t, err)
	require.NotEmpty(t, result.ApplicationID)
	return result.ApplicationID
}

func TestRespond_NonOwnerIsForbidden(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	err := w.engine.Respond(context.Background(), "client_other", "bk_1", appID, true, nil)
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeForbidden))
}

func TestRespond_Decline(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	require.NoError(t, w.engine.Respond(context.Background(), "client_1", "bk_1", appID, false, nil))

	assert.Equal(t, models.ApplicationDeclined, w.apps.m[appID].Status)
	booking, _ := w.bookings.get("bk_1")
	assert.Empty(t, booking.AssignedArtists)
	require.Len(t, w.notifier.ofType(models.NotifyApplicationDeclined), 1)
}

func TestRespond_AcceptAssignsAndConfirms(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	require.NoError(t, w.engine.Respond(context.Background(), "client_1", "bk_1", appID, true, nil))

	assert.Equal(t, models.ApplicationAccepted, w.apps.m[appID].Status)
	booking, _ := w.bookings.get("bk_1")
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, []string{"artist_1"}, booking.AssignedArtists)
	require.Len(t, w.notifier.ofType(models.NotifyApplicationAccepted), 1)
}

func TestRespond_HalfPaidToFullUsesProposedBudget(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	b, _ := w.bookings.get("bk_1")
	b.AmountPaid = 15000
	b.AmountRemaining = 15000
	b.PaymentState = models.PaymentPartial

	// Caller-supplied numbers are ignored on the partial-to-full path.
	err := w.engine.Respond(context.Background(), "client_1", "bk_1", appID, true, &PaymentUpdate{
		State:           models.PaymentFull,
		AmountPaid:      99999,
		AmountRemaining: 42,
	})
	require.NoError(t, err)

	booking, _ := w.bookings.get("bk_1")
	assert.Equal(t, models.Money(15000+30000), booking.AmountPaid)
	assert.Equal(t, models.Money(0), booking.AmountRemaining)
	assert.Equal(t, models.PaymentFull, booking.PaymentState)
}

func TestRespond_AlreadyRespondedIsConflict(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	require.NoError(t, w.engine.Respond(context.Background(), "client_1", "bk_1", appID, false, nil))

	err := w.engine.Respond(context.Background(), "client_1", "bk_1", appID, true, nil)
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeConflict))
}

func TestRespond_WrongBookingIsValidationError(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)
	w.addBooking("bk_2", "client_1", 20, models.BookingPending)
	appID := applyAs(t, w, "bk_1", "artist_1")

	err := w.engine.Respond(context.Background(), "client_1", "bk_2", appID, true, nil)
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeValidation))
}
