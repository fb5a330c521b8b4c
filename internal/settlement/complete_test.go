package settlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

func TestComplete_ReleasesFullPaidAmountToArtist(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	appID := confirmedBooking(t, w, "bk_1", 2, 30000)

	images := []string{"s3://proof/1.jpg", "s3://proof/2.jpg"}
	require.NoError(t, w.engine.Complete(context.Background(), "artist_1", "bk_1", images, ""))

	// Manual completion carries no commission.
	assert.Equal(t, models.Money(30000), w.wallets.balances["artist_1"])

	fulls := w.ledger.byKind(models.LedgerFull)
	require.Len(t, fulls, 1)
	assert.Equal(t, models.Money(30000), fulls[0].Amount)
	assert.Equal(t, models.Money(0), fulls[0].Commission)
	assert.Equal(t, platformAccount, fulls[0].SenderID)
	assert.Equal(t, "artist_1", fulls[0].ReceiverID)

	booking, _ := w.bookings.get("bk_1")
	assert.Equal(t, models.BookingCompleted, booking.Status)
	assert.Equal(t, images, booking.CompletionImages)
	assert.Equal(t, models.ApplicationCompleted, w.apps.m[appID].Status)
	require.Len(t, w.notifier.ofType(models.NotifyBookingCompleted), 1)
}

func TestComplete_MediaValidation(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	confirmedBooking(t, w, "bk_1", 2, 30000)

	cases := []struct {
		name   string
		images []string
		video  string
	}{
		{"no media at all", nil, ""},
		{"too many images", []string{"a", "b", "c", "d"}, ""},
		{"empty image reference", []string{"a", ""}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := w.engine.Complete(context.Background(), "artist_1", "bk_1", tc.images, tc.video)
			require.Error(t, err)
			assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeValidation))
		})
	}

	// Video alone satisfies the media requirement.
	require.NoError(t, w.engine.Complete(context.Background(), "artist_1", "bk_1", nil, "s3://proof/final.mp4"))
}

func TestComplete_OnlyAssignedArtist(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	w.addArtist("artist_2", true, 100)
	confirmedBooking(t, w, "bk_1", 2, 30000)

	err := w.engine.Complete(context.Background(), "artist_2", "bk_1", []string{"x"}, "")
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeForbidden))
	assert.Empty(t, w.wallets.balances)
}

func TestComplete_UnpaidBookingIsConflict(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", true, 100)
	confirmedBooking(t, w, "bk_1", 2, 0)

	err := w.engine.Complete(context.Background(), "artist_1", "bk_1", []string{"x"}, "")
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeConflict))
}

func TestComplete_ArtistWithoutPayoutDestinationIsConflict(t *testing.T) {
	w := newTestWorld()
	w.addArtist("artist_1", false, 100)
	confirmedBooking(t, w, "bk_1", 2, 30000)

	err := w.engine.Complete(context.Background(), "artist_1", "bk_1", []string{"x"}, "")
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeConflict))
	assert.Empty(t, w.wallets.balances)
}
