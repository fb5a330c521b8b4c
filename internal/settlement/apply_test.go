package settlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

func TestApply_CreatesEntryAndFlipsBookingToInReview(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)

	result, err := w.engine.Apply(context.Background(), "bk_1", "artist_1", validTerms())
	require.NoError(t, err)
	require.NotEmpty(t, result.ApplicationID)
	assert.Empty(t, result.OnboardingURL)

	entry := w.apps.m[result.ApplicationID]
	require.NotNil(t, entry)
	assert.Equal(t, models.ApplicationApplied, entry.Status)
	assert.Equal(t, models.Money(30000), entry.ProposedBudget)

	booking, _ := w.bookings.get("bk_1")
	assert.Equal(t, models.BookingInReview, booking.Status)
	assert.Equal(t, []string{"artist_1"}, booking.AppliedArtists)

	require.Len(t, w.notifier.ofType(models.NotifyApplicationReceived), 1)
}

func TestApply_ValidationErrors(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)

	cases := []struct {
		name  string
		mut   func(*models.ProposedTerms)
	}{
		{"zero budget", func(terms *models.ProposedTerms) { terms.Budget = 0 }},
		{"negative budget", func(terms *models.ProposedTerms) { terms.Budget = -5 }},
		{"zero duration", func(terms *models.ProposedTerms) { terms.Duration = 0 }},
		{"short message", func(terms *models.ProposedTerms) { terms.Message = "too short" }},
		{"terms not agreed", func(terms *models.ProposedTerms) { terms.AgreedTerms = false }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			terms := validTerms()
			tc.mut(&terms)
			_, err := w.engine.Apply(context.Background(), "bk_1", "artist_1", terms)
			require.Error(t, err)
			assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeValidation))
			assert.Empty(t, w.apps.m)
		})
	}
}

func TestApply_OnboardingShortCircuitWritesNothing(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_new", false, 5)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)

	result, err := w.engine.Apply(context.Background(), "bk_1", "artist_new", validTerms())
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example/onboard/artist_new", result.OnboardingURL)
	assert.Empty(t, result.ApplicationID)

	// Zero writes anywhere.
	assert.Empty(t, w.apps.m)
	booking, _ := w.bookings.get("bk_1")
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Empty(t, booking.AppliedArtists)
	assert.Empty(t, w.notifier.sent)
	assert.Equal(t, 1, w.gateway.onboardingCalls)
}

func TestApply_DuplicateIsConflict(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)

	_, err := w.engine.Apply(context.Background(), "bk_1", "artist_1", validTerms())
	require.NoError(t, err)

	_, err = w.engine.Apply(context.Background(), "bk_1", "artist_1", validTerms())
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeConflict))
	assert.Len(t, w.apps.m, 1)
}

func TestApply_ClosedBookingIsConflict(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingConfirmed)

	_, err := w.engine.Apply(context.Background(), "bk_1", "artist_1", validTerms())
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeConflict))
}

func TestApply_MissingBookingIsNotFound(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)

	_, err := w.engine.Apply(context.Background(), "bk_none", "artist_1", validTerms())
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeNotFound))
}

func TestWithdraw_DeletesEntryAndReversesAppliedList(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)

	result, err := w.engine.Apply(context.Background(), "bk_1", "artist_1", validTerms())
	require.NoError(t, err)

	require.NoError(t, w.engine.Withdraw(context.Background(), "bk_1", "artist_1"))

	assert.NotContains(t, w.apps.m, result.ApplicationID)
	booking, _ := w.bookings.get("bk_1")
	assert.Empty(t, booking.AppliedArtists)
	require.Len(t, w.notifier.ofType(models.NotifyApplicationWithdrawn), 1)

	// The artist can apply again after withdrawing.
	_, err = w.engine.Apply(context.Background(), "bk_1", "artist_1", validTerms())
	require.NoError(t, err)
}

func TestWithdraw_AcceptedEntryIsConflict(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addBooking("bk_1", "client_1", 20, models.BookingPending)

	result, err := w.engine.Apply(context.Background(), "bk_1", "artist_1", validTerms())
	require.NoError(t, err)
	require.NoError(t, w.apps.UpdateStatus(context.Background(), result.ApplicationID, models.ApplicationAccepted))

	err = w.engine.Withdraw(context.Background(), "bk_1", "artist_1")
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeConflict))
	assert.Contains(t, w.apps.m, result.ApplicationID)
}
