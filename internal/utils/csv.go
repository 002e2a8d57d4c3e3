package utils

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"cryptoSignalBot/internal/domain"
	"cryptoSignalBot/internal/indicator"
)

func WriteBarsToCSV(bars []*domain.Bar, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"open_time", "close_time", "symbol", "interval", "open", "high", "low", "close", "volume"})

	for _, b := range bars {
		writer.Write([]string{
			b.OpenTime.Format(time.RFC3339),
			b.CloseTime.Format(time.RFC3339),
			b.Symbol,
			b.Interval,
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		})
	}
	return writer.Error()
}

// WriteIndicatorRowsToCSV dumps the derived series next to their bars.
// Unconverged fields are written as empty cells.
func WriteIndicatorRowsToCSV(rows []indicator.Row, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{
		"open_time", "close", "volume",
		"ema_fast", "ema_slow", "macd_line", "signal_line", "macd_hist",
		"rsi", "stoch_rsi", "k", "d",
		"basis", "upper_bb", "lower_bb", "vol_avg", "atr",
		"bullish_breakout", "bearish_breakdown",
	})

	for _, r := range rows {
		writer.Write([]string{
			r.Bar.OpenTime.Format(time.RFC3339),
			formatFloat(r.Bar.Close),
			formatFloat(r.Bar.Volume),
			formatValue(r.EMAFast),
			formatValue(r.EMASlow),
			formatValue(r.MACDLine),
			formatValue(r.SignalLine),
			formatValue(r.MACDHist),
			formatValue(r.RSI),
			formatValue(r.StochRSI),
			formatValue(r.K),
			formatValue(r.D),
			formatValue(r.Basis),
			formatValue(r.UpperBB),
			formatValue(r.LowerBB),
			formatValue(r.VolAvg),
			formatValue(r.ATR),
			strconv.FormatBool(r.BullishBreakout),
			strconv.FormatBool(r.BearishBreakdown),
		})
	}
	return writer.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatValue(v indicator.Value) string {
	if !v.Valid {
		return ""
	}
	return formatFloat(v.Float64)
}
