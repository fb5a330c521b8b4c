package settlement

import (
	"context"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/errors"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/metrics"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

// WithdrawFunds moves wallet balance out to the artist's payout account.
// The wallet debit guards against overdraw; the gateway transfer happens
// only after the debit and the ledger row land.
func (e *Engine) WithdrawFunds(ctx context.Context, artistID string, amount models.Money) error {
	artist, err := e.artists.GetByID(ctx, artistID)
	if err != nil {
		return err
	}
	if !artist.Onboarded() {
		return errors.NewConflictError("no payout destination registered")
	}

	if err := e.wallets.Withdraw(ctx, artistID, amount); err != nil {
		return err
	}

	if err := e.appendLedger(ctx, &models.LedgerEntry{
		SenderID:   artistID,
		ReceiverID: artist.PayoutAccountID,
		Amount:     amount,
		Kind:       models.LedgerWithdrawal,
	}); err != nil {
		return err
	}
	metrics.SettlementAmountMoved.WithLabelValues(string(models.LedgerWithdrawal)).Add(float64(amount))

	if err := e.gateway.Payout(ctx, artist.PayoutAccountID, amount, e.currency); err != nil {
		// The debit and ledger row stand; the transfer is retried out of
		// band by operations. Surface the gateway error.
		e.logger.Error("payout transfer failed after debit", map[string]interface{}{
			"artistId": artistID,
			"amount":   int64(amount),
			"error":    err.Error(),
		})
		return err
	}
	return nil
}
