package indicator

import (
	"fmt"
	"math"

	"cryptoSignalBot/internal/domain"
	"cryptoSignalBot/internal/ports"
)

// Row holds the derived values aligned to one input bar. Only the latest row
// is consumed by the evaluator; earlier rows exist to satisfy the rolling
// window dependencies.
type Row struct {
	Bar *domain.Bar

	EMAFast Value
	EMASlow Value

	MACDLine   Value
	SignalLine Value
	MACDHist   Value

	RSI      Value
	RSIMin   Value
	RSIMax   Value
	StochRSI Value
	K        Value
	D        Value

	Basis   Value
	StdDev  Value
	UpperBB Value
	LowerBB Value

	VolAvg Value

	PrevHigh         Value
	PrevLow          Value
	BullishBreakout  bool
	BearishBreakdown bool

	ATR Value
}

// Compute runs the full indicator pipeline over a chronologically ordered bar
// series and returns one row per input bar, index-aligned. The input is only
// read; the bars are never mutated.
//
// RSI and ATR both use Wilder smoothing, matching each other as the two must.
// The EMAs (and therefore MACD) follow the recursive seeded-by-first-close
// form and are defined from the first bar; all windowed fields stay undefined
// until their window has filled.
func Compute(bars []*domain.Bar, cfg Config) ([]Row, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrInvalidInput, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: empty bar series", ports.ErrInvalidInput)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].OpenTime.After(bars[i-1].OpenTime) {
			return nil, fmt.Errorf("%w: bar timestamps must be strictly increasing (index %d)", ports.ErrInvalidInput, i)
		}
	}

	n := len(bars)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	emaFast := emaSeries(closes, cfg.EMAFastLen)
	emaSlow := emaSeries(closes, cfg.EMASlowLen)

	macdFast := emaSeries(closes, cfg.MACDFast)
	macdSlow := emaSeries(closes, cfg.MACDSlow)
	macdLine := make([]float64, n)
	for i := range macdLine {
		macdLine[i] = macdFast[i] - macdSlow[i]
	}
	signalLine := emaSeries(macdLine, cfg.MACDSignal)

	rsi := rsiSeries(closes, cfg.RSILen)
	rsiMin := rollingMin(rsi, cfg.StochLen)
	rsiMax := rollingMax(rsi, cfg.StochLen)

	stochRSI := make([]Value, n)
	for i := 0; i < n; i++ {
		if !AllDefined(rsi[i], rsiMin[i], rsiMax[i]) {
			continue
		}
		span := rsiMax[i].Float64 - rsiMin[i].Float64
		if span == 0 {
			// Flat RSI window; the oscillator has no range to measure.
			stochRSI[i] = Defined(0)
			continue
		}
		stochRSI[i] = Defined((rsi[i].Float64 - rsiMin[i].Float64) / span)
	}
	k := rollingMean(stochRSI, cfg.StochSmoothK)
	d := rollingMean(k, cfg.StochSmoothD)

	closeValues := definedSeries(closes)
	basis := rollingMean(closeValues, cfg.BBLen)
	stdDev := rollingStdDev(closeValues, cfg.BBLen)

	volAvg := rollingMean(definedSeries(volumes), cfg.VolAvgWindow)

	atr := atrSeries(bars, cfg.ATRWindow)

	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		row := Row{
			Bar:        bars[i],
			EMAFast:    Defined(emaFast[i]),
			EMASlow:    Defined(emaSlow[i]),
			MACDLine:   Defined(macdLine[i]),
			SignalLine: Defined(signalLine[i]),
			MACDHist:   Defined(macdLine[i] - signalLine[i]),
			RSI:        rsi[i],
			RSIMin:     rsiMin[i],
			RSIMax:     rsiMax[i],
			StochRSI:   stochRSI[i],
			K:          k[i],
			D:          d[i],
			Basis:      basis[i],
			StdDev:     stdDev[i],
			VolAvg:     volAvg[i],
			ATR:        atr[i],
		}
		if basis[i].Valid && stdDev[i].Valid {
			row.UpperBB = Defined(basis[i].Float64 + cfg.BBMult*stdDev[i].Float64)
			row.LowerBB = Defined(basis[i].Float64 - cfg.BBMult*stdDev[i].Float64)
		}
		if i > 0 {
			row.PrevHigh = Defined(bars[i-1].High)
			row.PrevLow = Defined(bars[i-1].Low)
			row.BullishBreakout = bars[i].Close > bars[i-1].High
			row.BearishBreakdown = bars[i].Close < bars[i-1].Low
		}
		rows[i] = row
	}
	return rows, nil
}

// emaSeries computes an exponential moving average with smoothing factor
// 2/(span+1), seeded by the first value. Every index carries a value; callers
// that need a converged reading should feed at least `span` samples.
func emaSeries(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// rsiSeries computes the Wilder-smoothed Relative Strength Index. The first
// `period` indices are undefined because the initial averages need that many
// bar-to-bar changes.
func rsiSeries(closes []float64, period int) []Value {
	out := make([]Value, len(closes))
	if len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = Defined(rsiFromAverages(avgGain, avgLoss))

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		var gain, loss float64
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = Defined(rsiFromAverages(avgGain, avgLoss))
	}
	return out
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50 // Neutral if no change
		}
		return 100 // Max RSI if only gains
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// atrSeries computes the Wilder-smoothed Average True Range. The first bar's
// true range is its high-low span since there is no previous close. Defined
// from index period-1 onward.
func atrSeries(bars []*domain.Bar, period int) []Value {
	out := make([]Value, len(bars))
	if len(bars) < period {
		return out
	}

	tr := make([]float64, len(bars))
	tr[0] = bars[0].High - bars[0].Low
	for i := 1; i < len(bars); i++ {
		highLow := bars[i].High - bars[i].Low
		highClose := math.Abs(bars[i].High - bars[i-1].Close)
		lowClose := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(highLow, math.Max(highClose, lowClose))
	}

	var atr float64
	for i := 0; i < period; i++ {
		atr += tr[i]
	}
	atr /= float64(period)
	out[period-1] = Defined(atr)

	for i := period; i < len(bars); i++ {
		atr = (atr*float64(period-1) + tr[i]) / float64(period)
		out[i] = Defined(atr)
	}
	return out
}

func definedSeries(values []float64) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Defined(v)
	}
	return out
}

// window returns the trailing slice ending at index i, or nil when fewer than
// `size` defined samples are available.
func window(values []Value, i, size int) []Value {
	if i+1 < size {
		return nil
	}
	w := values[i+1-size : i+1]
	for _, v := range w {
		if !v.Valid {
			return nil
		}
	}
	return w
}

func rollingMean(values []Value, size int) []Value {
	out := make([]Value, len(values))
	for i := range values {
		w := window(values, i, size)
		if w == nil {
			continue
		}
		sum := 0.0
		for _, v := range w {
			sum += v.Float64
		}
		out[i] = Defined(sum / float64(size))
	}
	return out
}

// rollingStdDev computes the sample standard deviation over the trailing
// window (n-1 divisor, matching the usual Bollinger definition).
func rollingStdDev(values []Value, size int) []Value {
	out := make([]Value, len(values))
	for i := range values {
		w := window(values, i, size)
		if w == nil {
			continue
		}
		mean := 0.0
		for _, v := range w {
			mean += v.Float64
		}
		mean /= float64(size)
		var sumSq float64
		for _, v := range w {
			diff := v.Float64 - mean
			sumSq += diff * diff
		}
		out[i] = Defined(math.Sqrt(sumSq / float64(size-1)))
	}
	return out
}

func rollingMin(values []Value, size int) []Value {
	out := make([]Value, len(values))
	for i := range values {
		w := window(values, i, size)
		if w == nil {
			continue
		}
		min := w[0].Float64
		for _, v := range w[1:] {
			if v.Float64 < min {
				min = v.Float64
			}
		}
		out[i] = Defined(min)
	}
	return out
}

func rollingMax(values []Value, size int) []Value {
	out := make([]Value, len(values))
	for i := range values {
		w := window(values, i, size)
		if w == nil {
			continue
		}
		max := w[0].Float64
		for _, v := range w[1:] {
			if v.Float64 > max {
				max = v.Float64
			}
		}
		out[i] = Defined(max)
	}
	return out
}
