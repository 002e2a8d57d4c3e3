package indicator

import (
	"fmt"

	"cryptoSignalBot/internal/domain"
)

// Config holds all window lengths, multipliers and thresholds for one
// evaluation run. It is created once from caller-supplied settings merged over
// DefaultConfig and never mutated during a run.
type Config struct {
	EMAFastLen int `yaml:"emaFastLen"`
	EMASlowLen int `yaml:"emaSlowLen"`

	RSILen            int     `yaml:"rsiLen"`
	RSIThresholdLong  float64 `yaml:"rsiThresholdLong"`
	RSIThresholdShort float64 `yaml:"rsiThresholdShort"`

	StochLen     int `yaml:"stochLen"`
	StochSmoothK int `yaml:"stochSmoothK"`
	StochSmoothD int `yaml:"stochSmoothD"`

	BBLen  int     `yaml:"bbLen"`
	BBMult float64 `yaml:"bbMult"`

	MACDFast   int `yaml:"macdFast"`
	MACDSlow   int `yaml:"macdSlow"`
	MACDSignal int `yaml:"macdSignal"`

	VolAvgWindow int `yaml:"volAvgWindow"`

	ATRWindow int `yaml:"atrWindow"`

	// Target pricing. PricingMode selects which pair of parameters applies;
	// the other pair is ignored for that run.
	PricingMode             domain.PricingMode `yaml:"pricingMode"`
	TakeProfitATRMultiplier float64            `yaml:"takeProfitAtrMultiplier"`
	StopLossATRMultiplier   float64            `yaml:"stopLossAtrMultiplier"`
	TakeProfitPct           float64            `yaml:"takeProfitPct"`
	StopLossPct             float64            `yaml:"stopLossPct"`
	Leverage                float64            `yaml:"leverage"`
}

// DefaultConfig returns the built-in parameter set. Caller-supplied settings
// are merged over these values.
func DefaultConfig() Config {
	return Config{
		EMAFastLen:              50,
		EMASlowLen:              200,
		RSILen:                  14,
		RSIThresholdLong:        55,
		RSIThresholdShort:       45,
		StochLen:                14,
		StochSmoothK:            3,
		StochSmoothD:            3,
		BBLen:                   20,
		BBMult:                  2.0,
		MACDFast:                12,
		MACDSlow:                26,
		MACDSignal:              9,
		VolAvgWindow:            20,
		ATRWindow:               14,
		PricingMode:             domain.PricingModeATR,
		TakeProfitATRMultiplier: 2,
		StopLossATRMultiplier:   1,
		TakeProfitPct:           0.04,
		StopLossPct:             0.02,
		Leverage:                10,
	}
}

// Validate checks the configuration for values the pipeline cannot work with.
// An empty pricing mode is normalized to ATR by the evaluator, so it is
// accepted here.
func (c Config) Validate() error {
	if c.EMAFastLen <= 0 || c.EMASlowLen <= 0 || c.RSILen <= 0 || c.StochLen <= 0 ||
		c.StochSmoothK <= 0 || c.StochSmoothD <= 0 || c.MACDFast <= 0 || c.MACDSlow <= 0 ||
		c.MACDSignal <= 0 || c.VolAvgWindow <= 0 || c.ATRWindow <= 0 {
		return fmt.Errorf("indicator window lengths must be positive")
	}
	if c.BBLen < 2 {
		return fmt.Errorf("bollinger window must be at least 2 for a sample standard deviation")
	}
	if c.EMAFastLen >= c.EMASlowLen {
		return fmt.Errorf("fast EMA length (%d) must be less than slow EMA length (%d)", c.EMAFastLen, c.EMASlowLen)
	}
	if c.MACDFast >= c.MACDSlow {
		return fmt.Errorf("MACD fast span (%d) must be less than slow span (%d)", c.MACDFast, c.MACDSlow)
	}
	if c.RSIThresholdLong < 0 || c.RSIThresholdLong > 100 || c.RSIThresholdShort < 0 || c.RSIThresholdShort > 100 {
		return fmt.Errorf("RSI thresholds must be within 0-100")
	}
	if c.Leverage <= 0 {
		return fmt.Errorf("leverage must be positive")
	}
	if c.TakeProfitATRMultiplier <= 0 || c.StopLossATRMultiplier <= 0 {
		return fmt.Errorf("ATR target multipliers must be positive")
	}
	if c.TakeProfitPct <= 0 || c.StopLossPct <= 0 {
		return fmt.Errorf("percentage targets must be positive")
	}
	switch c.PricingMode {
	case domain.PricingModeATR, domain.PricingModePercentage, "":
	default:
		return fmt.Errorf("unknown pricing mode %q", c.PricingMode)
	}
	return nil
}

// RequiredBars returns the minimum series length for which every field of the
// latest row is defined. The stochastic chain is the deepest dependency: RSI
// needs RSILen changes, the rolling min/max another StochLen-1 samples, and
// each smoothing stage one window less one.
func (c Config) RequiredBars() int {
	required := c.RSILen + c.StochLen + c.StochSmoothK + c.StochSmoothD - 2
	for _, n := range []int{c.EMASlowLen, c.MACDSlow + c.MACDSignal, c.BBLen, c.VolAvgWindow, c.ATRWindow, 2} {
		if n > required {
			required = n
		}
	}
	return required
}
