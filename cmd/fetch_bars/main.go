package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cryptoSignalBot/config"
	"cryptoSignalBot/internal/adapters/binanceclient"
	"cryptoSignalBot/internal/adapters/logger"
	"cryptoSignalBot/internal/utils"
)

// Fetches recent bar history for each configured symbol and dumps it to CSV,
// handy for inspecting the data the scanner works on.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
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
	end := time.Now()
	start := end.AddDate(0, -3, 0) // 3 months of history

	for _, symbol := range cfg.Symbols {
		fmt.Printf("Fetching bars for %s %s from %s to %s...\n", symbol, cfg.Interval, start, end)
		bars, err := market.GetBarsRange(ctx, symbol, cfg.Interval, start, end)
		if err != nil {
			log.Fatalf("Error fetching bars for %s: %v", symbol, err)
		}
		appLogger.Info(ctx, "Fetched bars", map[string]interface{}{"symbol": symbol, "count": len(bars)})

		filename := fmt.Sprintf("data/%s_%s_%s_to_%s.csv", symbol, cfg.Interval, start.Format("20060102"), end.Format("20060102"))
		if err := utils.WriteBarsToCSV(bars, filename); err != nil {
			log.Fatalf("Error writing CSV for %s: %v", symbol, err)
		}
		appLogger.Info(ctx, "Saved bars", map[string]interface{}{"filename": filename})
	}
}
