// internal/workers/booking/apply-to-booking/handler_test.go
package applytobooking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/settlement"
)

type fakeEngine struct {
	result *settlement.ApplyResult
	err    error

	gotBookingID string
	gotArtistID  string
	gotTerms     models.ProposedTerms
}

func (f *fakeEngine) Apply(_ context.Context, bookingID, artistID string, terms models.ProposedTerms) (*settlement.ApplyResult, error) {
	f.gotBookingID = bookingID
	f.gotArtistID = artistID
	f.gotTerms = terms
	return f.result, f.err
}

func createTestHandler(t *testing.T, engine *fakeEngine) *Handler {
	t.Helper()
	return NewHandler(&Config{Timeout: 10 * time.Second}, engine, logger.NewTestLogger(t))
}

func validInput() *Input {
	return &Input{
		BookingID:        "bk_1",
		ArtistID:         "artist_1",
		ProposedBudget:   30000,
		ProposedDuration: 2,
		Message:          "Over ten years of bridal mehndi experience with intricate traditional patterns.",
		AgreedTerms:      true,
	}
}

func TestExecute_Success(t *testing.T) {
	engine := &fakeEngine{result: &settlement.ApplyResult{ApplicationID: "app_1"}}
	handler := createTestHandler(t, engine)

	output, err := handler.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "app_1", output.ApplicationID)
	assert.False(t, output.OnboardingRequired)
	assert.Empty(t, output.OnboardingURL)

	assert.Equal(t, "bk_1", engine.gotBookingID)
	assert.Equal(t, "artist_1", engine.gotArtistID)
	assert.Equal(t, models.Money(30000), engine.gotTerms.Budget)
	assert.True(t, engine.gotTerms.AgreedTerms)
}

func TestExecute_OnboardingRedirect(t *testing.T) {
	engine := &fakeEngine{result: &settlement.ApplyResult{OnboardingURL: "https://gateway.example/onboard/artist_1"}}
	handler := createTestHandler(t, engine)

	output, err := handler.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, output.OnboardingRequired)
	assert.Equal(t, "https://gateway.example/onboard/artist_1", output.OnboardingURL)
	assert.Empty(t, output.ApplicationID)
}

func TestExecute_EngineErrorPropagates(t *testing.T) {
	engine := &fakeEngine{err: commonerrors.NewConflictError("artist already applied to this booking")}
	handler := createTestHandler(t, engine)

	output, err := handler.Execute(context.Background(), validInput())
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeConflict))
}
