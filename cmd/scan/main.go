package main

import (
	"context"
	"fmt"
	"log"

	"cryptoSignalBot/config"
	"cryptoSignalBot/internal/adapters/binanceclient"
	"cryptoSignalBot/internal/adapters/logger"
	"cryptoSignalBot/internal/indicator"
	"cryptoSignalBot/internal/signal"
)

// One-shot dry run: evaluates every configured symbol once and prints the
// verdicts to stdout without alerting or journaling.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	params, err := config.LoadStrategyParams(cfg.StrategyParamsFile)
	if err != nil {
		log.Fatalf("FATAL: Failed to load strategy parameters: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)

	market, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	ctx := context.Background()
	for _, symbol := range cfg.Symbols {
		bars, err := market.GetBars(ctx, symbol, cfg.Interval, cfg.HistoryLimit)
		if err != nil {
			appLogger.Error(ctx, err, "Failed to fetch bars", map[string]interface{}{"symbol": symbol})
			continue
		}
		rows, err := indicator.Compute(bars, params)
		if err != nil {
			appLogger.Error(ctx, err, "Failed to compute indicators", map[string]interface{}{"symbol": symbol})
			continue
		}

		latest := rows[len(rows)-1]
		verdict := signal.Evaluate(latest, params)
		if verdict.HasSignal() {
			fmt.Printf("%s: %s at %.6f (TP %.6f / SL %.6f, expected %.4f%%)\n",
				symbol, verdict.Direction, verdict.EntryPrice, verdict.TakeProfit, verdict.StopLoss, verdict.ExpectedReturnPct)
		} else {
			fmt.Printf("%s: no signal (close %.6f at %s)\n", symbol, latest.Bar.Close, latest.Bar.OpenTime)
		}
	}
}
