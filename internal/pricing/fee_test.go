package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestFeeBranches(t *testing.T) {
	halfHour := d("100")
	oneHour := d("150")
	hourly := d("80")

	cases := []struct {
		name    string
		minutes float64
		want    decimal.Decimal
	}{
		{"zero minutes bills half hour", 0, d("100")},
		{"short stay", 12.5, d("100")},
		{"exactly 30 stays on half-hour fee", 30, d("100")},
		{"just over 30 moves to one-hour fee", 30.0001, d("150")},
		{"45 minutes", 45, d("150")},
		{"exactly 60 stays on one-hour fee", 60, d("150")},
		{"90 minutes is 1.5 hours at the hourly rate", 90, d("120")},
		{"two hours", 120, d("160")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Fee(tc.minutes, halfHour, oneHour, hourly)
			if !got.Equal(tc.want) {
				t.Fatalf("Fee(%v) = %s, want %s", tc.minutes, got, tc.want)
			}
		})
	}
}

func TestFeeFractionalHoursNotRounded(t *testing.T) {
	// 61 minutes at 80/h -> 61/60*80 = 81.333..., the raw value must keep
	// the fraction; rounding to cents is the persistence layer's concern.
	got := Fee(61, d("100"), d("150"), d("80"))
	if got.LessThanOrEqual(d("81.33")) || got.GreaterThanOrEqual(d("81.34")) {
		t.Fatalf("Fee(61) = %s, want a value between 81.33 and 81.34", got)
	}
}
