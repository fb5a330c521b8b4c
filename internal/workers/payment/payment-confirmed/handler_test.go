// internal/workers/payment/payment-confirmed/handler_test.go
package paymentconfirmed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/payments"
)

const testSecret = "whsec_worker_test"

type fakeEngine struct {
	err      error
	gotEvent *payments.Event
}

func (f *fakeEngine) ConfirmPayment(_ context.Context, event *payments.Event) error {
	f.gotEvent = event
	return f.err
}

func createTestHandler(t *testing.T, engine *fakeEngine, now time.Time) *Handler {
	t.Helper()
	h := NewHandler(&Config{Timeout: 10 * time.Second, WebhookSecret: testSecret}, engine, logger.NewTestLogger(t))
	h.now = func() time.Time { return now }
	return h
}

func signedInput(t *testing.T, payload string, now time.Time) *Input {
	t.Helper()
	return &Input{
		Payload:   payload,
		Signature: payments.SignPayload([]byte(payload), testSecret, now),
	}
}

func TestExecute_VerifiesAndApplies(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := &fakeEngine{}
	handler := createTestHandler(t, engine, now)

	payload := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","amount_total":15000,"metadata":{"bookingId":"bk_1","applicationId":"app_1","percent":"50"}}}}`

	output, err := handler.Execute(context.Background(), signedInput(t, payload, now))
	require.NoError(t, err)
	assert.True(t, output.Processed)
	assert.Equal(t, "evt_1", output.EventID)

	require.NotNil(t, engine.gotEvent)
	assert.Equal(t, payments.EventTypeCheckoutCompleted, engine.gotEvent.Type)
	assert.Equal(t, int64(15000), engine.gotEvent.Data.Object.AmountTotal)
}

func TestExecute_BadSignatureIsAuthenticationError(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := &fakeEngine{}
	handler := createTestHandler(t, engine, now)

	payload := `{"id":"evt_1","type":"checkout.session.completed"}`
	input := &Input{
		Payload:   payload,
		Signature: payments.SignPayload([]byte(payload), "whsec_wrong", now),
	}

	output, err := handler.Execute(context.Background(), input)
	require.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeAuthentication))
	assert.Nil(t, engine.gotEvent, "event never reaches the engine")
}

func TestExecute_TamperedPayloadRejected(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := &fakeEngine{}
	handler := createTestHandler(t, engine, now)

	original := `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"amount_total":15000}}}`
	input := signedInput(t, original, now)
	input.Payload = `{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"amount_total":99999}}}`

	_, err := handler.Execute(context.Background(), input)
	require.Error(t, err)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeAuthentication))
}

func TestExecute_EngineErrorPropagates(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := &fakeEngine{err: commonerrors.NewQueryExecutionFailedError("wallet credit", assert.AnError)}
	handler := createTestHandler(t, engine, now)

	payload := `{"id":"evt_1","type":"checkout.session.completed"}`
	_, err := handler.Execute(context.Background(), signedInput(t, payload, now))
	require.Error(t, err)
}
