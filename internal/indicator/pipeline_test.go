package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoSignalBot/internal/domain"
	"cryptoSignalBot/internal/ports"
)

// flatBars builds a constant-price series: open=high=low=close for every bar.
func flatBars(n int, price, volume float64) []*domain.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]*domain.Bar, n)
	for i := range bars {
		bars[i] = &domain.Bar{
			OpenTime:  start.Add(time.Duration(i) * time.Hour),
			CloseTime: start.Add(time.Duration(i+1) * time.Hour),
			Symbol:    "TESTUSDT",
			Interval:  "1h",
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    volume,
			IsFinal:   true,
		}
	}
	return bars
}

// risingBars builds a series whose close rises by exactly one unit per bar.
func risingBars(n int) []*domain.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]*domain.Bar, n)
	for i := range bars {
		price := float64(i + 1)
		bars[i] = &domain.Bar{
			OpenTime:  start.Add(time.Duration(i) * time.Hour),
			CloseTime: start.Add(time.Duration(i+1) * time.Hour),
			Symbol:    "TESTUSDT",
			Interval:  "1h",
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    100,
			IsFinal:   true,
		}
	}
	return bars
}

func TestCompute_InvalidInput(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("empty series", func(t *testing.T) {
		rows, err := Compute(nil, cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ports.ErrInvalidInput)
		assert.Nil(t, rows)
	})

	t.Run("non-monotonic timestamps", func(t *testing.T) {
		bars := flatBars(10, 100, 50)
		bars[5].OpenTime = bars[4].OpenTime // duplicate timestamp
		rows, err := Compute(bars, cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ports.ErrInvalidInput)
		assert.Nil(t, rows)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		bad := cfg
		bad.RSILen = 0
		_, err := Compute(flatBars(10, 100, 50), bad)
		require.Error(t, err)
		assert.ErrorIs(t, err, ports.ErrInvalidInput)
	})
}

func TestCompute_IndexAlignment(t *testing.T) {
	bars := flatBars(50, 100, 50)
	rows, err := Compute(bars, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, rows, len(bars))
	for i := range rows {
		assert.Same(t, bars[i], rows[i].Bar)
	}
}

func TestCompute_ConstantPrice(t *testing.T) {
	bars := flatBars(300, 100, 50)
	rows, err := Compute(bars, DefaultConfig())
	require.NoError(t, err)

	latest := rows[len(rows)-1]

	require.True(t, latest.RSI.Valid)
	assert.InDelta(t, 50.0, latest.RSI.Float64, 1e-9, "flat series RSI should be neutral")

	require.True(t, latest.MACDHist.Valid)
	assert.InDelta(t, 0.0, latest.MACDHist.Float64, 1e-9)

	require.True(t, latest.StdDev.Valid)
	assert.InDelta(t, 0.0, latest.StdDev.Float64, 1e-9)
	assert.InDelta(t, latest.Basis.Float64, latest.UpperBB.Float64, 1e-9)
	assert.InDelta(t, latest.Basis.Float64, latest.LowerBB.Float64, 1e-9)

	// Flat RSI window engages the zero-range guard on every converged row.
	require.True(t, latest.StochRSI.Valid)
	assert.Zero(t, latest.StochRSI.Float64)

	require.True(t, latest.ATR.Valid)
	assert.Zero(t, latest.ATR.Float64)

	for i, row := range rows {
		assert.False(t, row.BullishBreakout, "row %d", i)
		assert.False(t, row.BearishBreakdown, "row %d", i)
	}
}

func TestCompute_ShortSeriesStaysUndefined(t *testing.T) {
	// 10 bars is below every default window (RSI 14, BB 20, ATR 14, vol 20).
	bars := flatBars(10, 100, 50)
	rows, err := Compute(bars, DefaultConfig())
	require.NoError(t, err)

	for i, row := range rows {
		assert.False(t, row.RSI.Valid, "RSI row %d", i)
		assert.False(t, row.K.Valid, "K row %d", i)
		assert.False(t, row.D.Valid, "D row %d", i)
		assert.False(t, row.Basis.Valid, "Basis row %d", i)
		assert.False(t, row.StdDev.Valid, "StdDev row %d", i)
		assert.False(t, row.UpperBB.Valid, "UpperBB row %d", i)
		assert.False(t, row.VolAvg.Valid, "VolAvg row %d", i)
		assert.False(t, row.ATR.Valid, "ATR row %d", i)
		// EMAs follow the seeded recursive form and are always defined.
		assert.True(t, row.EMAFast.Valid, "EMAFast row %d", i)
		assert.True(t, row.MACDLine.Valid, "MACDLine row %d", i)
	}
}

func TestCompute_ConvergenceBoundaries(t *testing.T) {
	cfg := DefaultConfig()
	bars := flatBars(60, 100, 50)
	rows, err := Compute(bars, cfg)
	require.NoError(t, err)

	// RSI needs RSILen changes, so it first appears at index RSILen.
	assert.False(t, rows[cfg.RSILen-1].RSI.Valid)
	assert.True(t, rows[cfg.RSILen].RSI.Valid)

	// ATR is seeded by the average of the first ATRWindow true ranges.
	assert.False(t, rows[cfg.ATRWindow-2].ATR.Valid)
	assert.True(t, rows[cfg.ATRWindow-1].ATR.Valid)

	// Bollinger and volume averages need a full window of samples.
	assert.False(t, rows[cfg.BBLen-2].Basis.Valid)
	assert.True(t, rows[cfg.BBLen-1].Basis.Valid)
	assert.False(t, rows[cfg.VolAvgWindow-2].VolAvg.Valid)
	assert.True(t, rows[cfg.VolAvgWindow-1].VolAvg.Valid)

	// The stochastic chain is the deepest: RSI, then min/max, then k, then d.
	dIndex := cfg.RSILen + cfg.StochLen + cfg.StochSmoothK + cfg.StochSmoothD - 3
	assert.False(t, rows[dIndex-1].D.Valid)
	assert.True(t, rows[dIndex].D.Valid)

	// RequiredBars covers the whole chain for the default configuration.
	assert.Equal(t, cfg.EMASlowLen, cfg.RequiredBars())
}

func TestCompute_RisingSeriesClosedForm(t *testing.T) {
	cfg := DefaultConfig()
	bars := risingBars(300)
	rows, err := Compute(bars, cfg)
	require.NoError(t, err)

	latest := rows[len(rows)-1]

	// Only gains: Wilder RSI saturates at 100.
	require.True(t, latest.RSI.Valid)
	assert.InDelta(t, 100.0, latest.RSI.Float64, 1e-6)

	// Every true range is exactly 1 (|close - prevClose| dominates the zero
	// high-low span), so the Wilder average is exactly 1.
	require.True(t, latest.ATR.Valid)
	assert.InDelta(t, 1.0, latest.ATR.Float64, 1e-6)

	// For a unit-slope ramp an EMA converges to price minus its lag
	// (span-1)/2, so the MACD line converges to the lag difference:
	// (26-1)/2 - (12-1)/2 = 7. After 300 bars the transient is far below
	// the 1e-6 tolerance, and the signal line has converged onto the MACD.
	require.True(t, latest.MACDLine.Valid)
	assert.InDelta(t, 7.0, latest.MACDLine.Float64, 1e-6)
	assert.InDelta(t, 7.0, latest.SignalLine.Float64, 1e-6)
	assert.InDelta(t, 0.0, latest.MACDHist.Float64, 1e-6)

	// Each close is one unit above the previous high.
	assert.True(t, latest.BullishBreakout)
	assert.False(t, latest.BearishBreakdown)
	require.True(t, latest.PrevHigh.Valid)
	assert.Equal(t, 299.0, latest.PrevHigh.Float64)

	// Basis trails the close by (BBLen-1)/2 on a unit ramp.
	require.True(t, latest.Basis.Valid)
	assert.InDelta(t, 300.0-float64(cfg.BBLen-1)/2, latest.Basis.Float64, 1e-9)

	// Constant volume: the average equals the sample.
	require.True(t, latest.VolAvg.Valid)
	assert.InDelta(t, 100.0, latest.VolAvg.Float64, 1e-9)
}

func TestCompute_StochRSIZeroRangeGuard(t *testing.T) {
	// Rise first, then hold the price flat long enough for the RSI rolling
	// window to flatten out completely.
	bars := risingBars(100)
	last := bars[len(bars)-1]
	start := last.OpenTime
	for i := 1; i <= 100; i++ {
		price := last.Close
		bars = append(bars, &domain.Bar{
			OpenTime:  start.Add(time.Duration(i) * time.Hour),
			CloseTime: start.Add(time.Duration(i+1) * time.Hour),
			Symbol:    "TESTUSDT",
			Interval:  "1h",
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    100,
			IsFinal:   true,
		})
	}

	rows, err := Compute(bars, DefaultConfig())
	require.NoError(t, err)

	for i, row := range rows {
		if !row.StochRSI.Valid {
			continue
		}
		assert.False(t, math.IsNaN(row.StochRSI.Float64), "row %d", i)
		if row.RSIMax.Float64 == row.RSIMin.Float64 {
			assert.Zero(t, row.StochRSI.Float64, "row %d", i)
		}
	}
	// The tail of the series must actually exercise the guard.
	tail := rows[len(rows)-1]
	require.True(t, tail.StochRSI.Valid)
	assert.Equal(t, tail.RSIMin.Float64, tail.RSIMax.Float64)
	assert.Zero(t, tail.StochRSI.Float64)
}

func TestCompute_BollingerSampleStdDev(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BBLen = 4
	// Closes 1,2,3,4: mean 2.5, sample variance 5/3.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]*domain.Bar, 4)
	for i := range bars {
		price := float64(i + 1)
		bars[i] = &domain.Bar{
			OpenTime: start.Add(time.Duration(i) * time.Hour),
			Open:     price, High: price, Low: price, Close: price,
			Volume: 10,
		}
	}
	rows, err := Compute(bars, cfg)
	require.NoError(t, err)

	latest := rows[3]
	require.True(t, latest.Basis.Valid)
	assert.InDelta(t, 2.5, latest.Basis.Float64, 1e-9)
	require.True(t, latest.StdDev.Valid)
	assert.InDelta(t, math.Sqrt(5.0/3.0), latest.StdDev.Float64, 1e-9)
	assert.InDelta(t, 2.5+cfg.BBMult*latest.StdDev.Float64, latest.UpperBB.Float64, 1e-9)
	assert.InDelta(t, 2.5-cfg.BBMult*latest.StdDev.Float64, latest.LowerBB.Float64, 1e-9)
}
