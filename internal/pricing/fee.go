// Package pricing computes the checkout fee for a parking session. The
// whole tariff scheme is three rows of reference data: a flat half-hour
// fee, a flat one-hour fee, and a per-hour rate for anything longer.
package pricing

import "github.com/shopspring/decimal"

// Fee maps elapsed minutes to a monetary cost:
//
//	minutes <= 30      -> halfHour (flat)
//	30 < minutes <= 60 -> oneHour (flat)
//	minutes > 60       -> (minutes/60) * hourly, fractional hours uncapped
//
// Both boundaries belong to the lower branch, so exactly 30.0 minutes bills
// the half-hour fee and exactly 60.0 the one-hour fee. The long-stay branch
// keeps full fractional precision; rounding to cents happens only when the
// value is persisted.
func Fee(minutes float64, halfHour, oneHour, hourly decimal.Decimal) decimal.Decimal {
	switch {
	case minutes <= 30:
		return halfHour
	case minutes <= 60:
		return oneHour
	default:
		hours := decimal.NewFromFloat(minutes / 60)
		return hours.Mul(hourly)
	}
}
