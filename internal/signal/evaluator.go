package signal

import (
	"cryptoSignalBot/internal/domain"
	"cryptoSignalBot/internal/indicator"
)

// Evaluate reduces the latest indicator row to a trade verdict and, when a
// signal fires, a take-profit/stop-loss target pair. It is a pure function of
// its arguments: identical inputs always produce identical verdicts.
//
// Long and Short conditions are evaluated independently. With the default
// thresholds they are mutually exclusive; if a user-supplied configuration
// makes both hold simultaneously, Long takes precedence.
//
// Insufficient history (undefined required fields) or a non-positive close is
// never an error: the verdict is simply None, so the caller skips the symbol
// for this cycle.
func Evaluate(row indicator.Row, cfg indicator.Config) domain.Verdict {
	verdict := domain.Verdict{
		Direction:   domain.DirectionNone,
		PricingMode: pricingMode(cfg),
	}
	if row.Bar == nil {
		return verdict
	}
	verdict.Symbol = row.Bar.Symbol
	verdict.BarTime = row.Bar.OpenTime

	price := row.Bar.Close
	if price <= 0 {
		return verdict
	}
	if !indicator.AllDefined(
		row.EMAFast, row.EMASlow,
		row.MACDLine, row.SignalLine, row.MACDHist,
		row.RSI, row.K, row.D,
		row.Basis, row.VolAvg,
	) {
		return verdict
	}

	volumeAboveAvg := row.Bar.Volume > row.VolAvg.Float64

	long := price > row.EMAFast.Float64 &&
		price > row.EMASlow.Float64 &&
		row.MACDLine.Float64 > row.SignalLine.Float64 &&
		row.MACDHist.Float64 > 0 &&
		row.RSI.Float64 > cfg.RSIThresholdLong &&
		row.K.Float64 > row.D.Float64 &&
		price > row.Basis.Float64 &&
		volumeAboveAvg &&
		row.BullishBreakout

	short := price < row.EMAFast.Float64 &&
		price < row.EMASlow.Float64 &&
		row.MACDLine.Float64 < row.SignalLine.Float64 &&
		row.MACDHist.Float64 < 0 &&
		row.RSI.Float64 < cfg.RSIThresholdShort &&
		row.K.Float64 < row.D.Float64 &&
		price < row.Basis.Float64 &&
		volumeAboveAvg &&
		row.BearishBreakdown

	switch {
	case long:
		verdict.Direction = domain.DirectionLong
	case short:
		verdict.Direction = domain.DirectionShort
	default:
		return verdict
	}

	takeProfit, stopLoss, ok := priceTargets(verdict.Direction, price, row.ATR, cfg)
	if !ok {
		verdict.Direction = domain.DirectionNone
		return verdict
	}

	verdict.EntryPrice = price
	verdict.TakeProfit = takeProfit
	verdict.StopLoss = stopLoss
	if verdict.Direction == domain.DirectionLong {
		verdict.ExpectedReturnPct = (takeProfit - price) / price * cfg.Leverage * 100
	} else {
		verdict.ExpectedReturnPct = (price - takeProfit) / price * cfg.Leverage * 100
	}
	return verdict
}

// priceTargets derives the take-profit/stop-loss pair for the chosen pricing
// mode. In ATR mode an undefined ATR means the window has not converged yet,
// so no targets can be priced and the verdict must fall back to None.
func priceTargets(dir domain.Direction, price float64, atr indicator.Value, cfg indicator.Config) (takeProfit, stopLoss float64, ok bool) {
	switch pricingMode(cfg) {
	case domain.PricingModePercentage:
		if dir == domain.DirectionLong {
			return price * (1 + cfg.TakeProfitPct), price * (1 - cfg.StopLossPct), true
		}
		return price * (1 - cfg.TakeProfitPct), price * (1 + cfg.StopLossPct), true
	default:
		if !atr.Valid {
			return 0, 0, false
		}
		if dir == domain.DirectionLong {
			return price + atr.Float64*cfg.TakeProfitATRMultiplier, price - atr.Float64*cfg.StopLossATRMultiplier, true
		}
		return price - atr.Float64*cfg.TakeProfitATRMultiplier, price + atr.Float64*cfg.StopLossATRMultiplier, true
	}
}

func pricingMode(cfg indicator.Config) domain.PricingMode {
	if cfg.PricingMode == domain.PricingModePercentage {
		return domain.PricingModePercentage
	}
	return domain.PricingModeATR
}
