package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"cryptoSignalBot/config"
	"cryptoSignalBot/internal/adapters/binanceclient"
	"cryptoSignalBot/internal/adapters/logger"
	"cryptoSignalBot/internal/adapters/sqlite"
	"cryptoSignalBot/internal/adapters/telegram"
	"cryptoSignalBot/internal/app"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	params, err := config.LoadStrategyParams(cfg.StrategyParamsFile)
	if err != nil {
		log.Fatalf("FATAL: Failed to load strategy parameters: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize signal repository")
		log.Fatalf("FATAL: Failed to initialize signal repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing signal repository")
		}
	}()

	// 4. Initialize Exchange Client (Binance Adapter)
	market, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	// 5. Initialize Notifier (Telegram Adapter)
	notifier, err := telegram.New(telegram.Config{
		BotToken: cfg.TelegramBotToken,
		ChatID:   cfg.TelegramChatID,
		Logger:   appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Telegram notifier")
		log.Fatalf("FATAL: Failed to initialize Telegram notifier: %v", err)
	}

	// 6. Initialize and start the scanning service
	service, err := app.NewScanService(cfg, params, appLogger, market, repo, notifier)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize scan service")
		log.Fatalf("FATAL: Failed to initialize scan service: %v", err)
	}

	if err := service.Start(context.Background()); err != nil {
		appLogger.Error(context.Background(), err, "Scan service exited with error")
		log.Fatalf("FATAL: Scan service exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
