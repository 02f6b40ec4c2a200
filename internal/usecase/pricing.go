package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the priced breakdown of a reservation window. Amounts are in the
// studio's currency with two decimal places.
type Quote struct {
	DurationHours float64
	Subtotal      float64
	FeeAmount     float64
	TotalAmount   float64
}

// Price quotes a window at the given hourly rate. The platform fee is a
// fraction of the subtotal. All arithmetic runs in decimal and every amount
// is rounded half up to two places exactly once, at the end.
func Price(hourlyRate float64, start, end time.Time, feeRate float64) (*Quote, error) {
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}

	minutes := decimal.NewFromInt(int64(end.Sub(start) / time.Minute))
	hours := minutes.Div(decimal.NewFromInt(60))

	subtotal := hours.Mul(decimal.NewFromFloat(hourlyRate))
	fee := subtotal.Mul(decimal.NewFromFloat(feeRate))
	total := subtotal.Add(fee)

	return &Quote{
		DurationHours: hours.InexactFloat64(),
		Subtotal:      subtotal.Round(2).InexactFloat64(),
		FeeAmount:     fee.Round(2).InexactFloat64(),
		TotalAmount:   total.Round(2).InexactFloat64(),
	}, nil
}
