package domain

import "time"

// Direction is the tri-state outcome of evaluating the latest bar.
type Direction string

const (
	DirectionNone  Direction = "NONE"
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// PricingMode selects how take-profit and stop-loss targets are derived.
type PricingMode string

const (
	// PricingModeATR scales targets by the current Average True Range.
	PricingModeATR PricingMode = "atr"
	// PricingModePercentage uses fixed percentage offsets from the entry price.
	PricingModePercentage PricingMode = "percentage"
)

// Verdict is the result of one signal evaluation. Targets are only populated
// when Direction is not DirectionNone.
type Verdict struct {
	Symbol            string    // Trading symbol the verdict applies to
	BarTime           time.Time // Open time of the evaluated bar
	Direction         Direction // NONE, LONG or SHORT
	EntryPrice        float64   // Close of the evaluated bar
	TakeProfit        float64   // Absolute take-profit price
	StopLoss          float64   // Absolute stop-loss price
	ExpectedReturnPct float64   // Leverage-scaled expected return in percent
	PricingMode       PricingMode
}

// HasSignal reports whether the verdict fired in either direction.
func (v Verdict) HasSignal() bool {
	return v.Direction == DirectionLong || v.Direction == DirectionShort
}
