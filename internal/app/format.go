package app

import (
	"fmt"

	"cryptoSignalBot/internal/domain"
)

// FormatAlert renders a fired verdict as a Telegram-ready message, including
// the worked profit formula so the reader can sanity-check the numbers.
func FormatAlert(v domain.Verdict, interval string, leverage float64) string {
	var header, formula string
	switch v.Direction {
	case domain.DirectionLong:
		header = fmt.Sprintf("🟢 <b>Buy signal</b> for %s (%s) at %.6f", v.Symbol, interval, v.EntryPrice)
		formula = fmt.Sprintf(
			"Profit formula (Long): ((TakeProfit - Entry) / Entry) * Leverage * 100%%\n"+
				"In numbers: ((%.6f - %.6f) / %.6f) * %.0f * 100 = %.6f%%",
			v.TakeProfit, v.EntryPrice, v.EntryPrice, leverage, v.ExpectedReturnPct)
	case domain.DirectionShort:
		header = fmt.Sprintf("🔴 <b>Sell signal</b> for %s (%s) at %.6f", v.Symbol, interval, v.EntryPrice)
		formula = fmt.Sprintf(
			"Profit formula (Short): ((Entry - TakeProfit) / Entry) * Leverage * 100%%\n"+
				"In numbers: ((%.6f - %.6f) / %.6f) * %.0f * 100 = %.6f%%",
			v.EntryPrice, v.TakeProfit, v.EntryPrice, leverage, v.ExpectedReturnPct)
	default:
		return fmt.Sprintf("No signal for %s (%s)", v.Symbol, interval)
	}

	return fmt.Sprintf("%s\nTake Profit: %.6f, Stop Loss: %.6f (%s pricing)\n%s",
		header, v.TakeProfit, v.StopLoss, v.PricingMode, formula)
}
