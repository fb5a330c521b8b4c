package settlement

import (
	"math"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

// DaysUntil counts whole days from now to the event, rounding partial
// days up. An event 10 days and 2 hours away counts as 11.
func DaysUntil(eventDate, now time.Time) int {
	return int(math.Ceil(eventDate.Sub(now).Hours() / 24))
}

// DepositPercent returns the checkout share of the agreed budget: 50 when
// the event is more than thresholdDays away, otherwise the full amount.
func DepositPercent(eventDate, now time.Time, thresholdDays int) int64 {
	if DaysUntil(eventDate, now) > thresholdDays {
		return 50
	}
	return 100
}

// RefundSplit divides the paid amount between the client refund and the
// platform fee by cancellation tier. The fee is the exact remainder so
// refund+fee always reconstructs paid.
func RefundSplit(paid models.Money, daysUntilEvent int, earlyPercent, midPercent int64) (refund, fee models.Money) {
	switch {
	case daysUntilEvent > 14:
		refund = paid.Percent(earlyPercent)
	case daysUntilEvent >= 7:
		refund = paid.Percent(midPercent)
	default:
		refund = 0
	}
	return refund, paid - refund
}

// Commission returns the platform's cut of an auto-completed payout.
// Young accounts settle commission-free.
func Commission(paid models.Money, accountAgeDays, minAccountAgeDays int, percent int64) models.Money {
	if accountAgeDays < minAccountAgeDays {
		return 0
	}
	return paid.Percent(percent)
}
