// internal/models/money.go
package models

import "fmt"

// Money is an amount in minor currency units (e.g. cents, pence).
// Stored as int64 everywhere; never a string, never a float.
type Money int64

// Percent applies an integer percentage with round-half-up.
func (m Money) Percent(pct int64) Money {
	if m < 0 || pct < 0 {
		return 0
	}
	return Money((int64(m)*pct + 50) / 100)
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", int64(m)/100, int64(m)%100)
}
