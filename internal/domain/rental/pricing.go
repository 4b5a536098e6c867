package rental

import (
	"math"
	"time"
)

// Quote is the result of a price calculation.
type Quote struct {
	Days  int
	Total float64
}

// PricingStrategy defines the interface for calculating rental prices.
type PricingStrategy interface {
	// Quote returns the day count and total price for the given date range.
	// Callers must reject ranges where end is not after start before
	// charging; such ranges produce a non-positive day count and zero total.
	Quote(start, end time.Time, dailyRate, addOnDailyRate float64) Quote
}

// StandardPricingStrategy implements day-count pricing: any partial
// calendar day is billed as a full day.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// Quote computes ceil((end-start)/24h) days at dailyRate plus the optional
// add-on daily rate (insurance). The total carries whatever precision the
// rates carry; no currency rounding is applied.
func (s *StandardPricingStrategy) Quote(start, end time.Time, dailyRate, addOnDailyRate float64) Quote {
	days := DaysBetween(start, end)
	if days <= 0 {
		return Quote{Days: days}
	}
	return Quote{
		Days:  days,
		Total: float64(days)*dailyRate + float64(days)*addOnDailyRate,
	}
}

// DaysBetween returns the billable day count for a rental spanning the
// given range. Fractional days round up, never down.
func DaysBetween(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}
