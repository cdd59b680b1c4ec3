package booking

import (
	"math/big"
	"time"
)

// RefundPercentage maps the time left before the ride to the share of the
// fare returned on cancellation.
func RefundPercentage(untilRide time.Duration) int {
	hours := untilRide.Hours()
	switch {
	case hours >= 24:
		return 90
	case hours >= 12:
		return 50
	case hours >= 6:
		return 25
	}
	return 0
}

// RefundAmount is total * pct / 100, exact.
func RefundAmount(total int64, pct int) *big.Rat {
	return new(big.Rat).SetFrac(
		new(big.Int).Mul(big.NewInt(total), big.NewInt(int64(pct))),
		big.NewInt(100),
	)
}

// roundHalfUp rounds a non-negative rational to the nearest integer, halves up.
func roundHalfUp(r *big.Rat) int64 {
	num := new(big.Int).Mul(r.Num(), big.NewInt(2))
	num.Add(num, r.Denom())
	den := new(big.Int).Mul(r.Denom(), big.NewInt(2))
	return new(big.Int).Quo(num, den).Int64()
}
