package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"cryptoSignalBot/internal/adapters/logger"
	"cryptoSignalBot/internal/indicator"
)

// Config holds all application configuration.
type Config struct {
	// Binance API (optional; market data endpoints are public)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Scan Parameters
	Symbols      []string // Symbols to evaluate each cycle
	Interval     string   // Bar interval (e.g., "1h")
	HistoryLimit int      // Bars fetched per symbol; must cover the slowest window

	// Telegram
	TelegramBotToken string
	TelegramChatID   string

	// Scheduling
	ScanCron   string // Cron spec with seconds field
	RunOnStart bool   // Run one scan immediately on startup

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel

	// Strategy parameter file (YAML merged over built-in defaults)
	StrategyParamsFile string
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string

	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	symbolsStr := getEnv("SYMBOLS", "BTCUSDT,ETHUSDT,SUIUSDT")
	for _, s := range strings.Split(symbolsStr, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			cfg.Symbols = append(cfg.Symbols, strings.ToUpper(s))
		}
	}
	if len(cfg.Symbols) == 0 {
		errs = append(errs, "SYMBOLS must list at least one symbol")
	}

	cfg.Interval = getEnv("INTERVAL", "1h")

	historyLimit, err := getEnvAsIntRequired("HISTORY_LIMIT", 300)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid HISTORY_LIMIT: %v", err))
	} else if historyLimit <= 0 {
		errs = append(errs, "HISTORY_LIMIT must be positive")
	}
	cfg.HistoryLimit = historyLimit

	// Telegram credentials are validated by the notifier constructor, so
	// binaries that never alert (cmd/scan, cmd/fetch_bars) run without them.
	cfg.TelegramBotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	cfg.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", "")

	// Default: top of every hour, matching the default 1h bar interval.
	cfg.ScanCron = getEnv("SCAN_CRON", "0 0 * * * *")
	cfg.RunOnStart = getEnvAsBool("RUN_ON_START", true)

	cfg.DBPath = getEnv("DB_PATH", "./data/signals.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))

	cfg.StrategyParamsFile = getEnv("STRATEGY_PARAMS_FILE", "")

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// LoadStrategyParams builds the immutable indicator configuration: built-in
// defaults, overridden by whatever keys the YAML file at path provides. An
// empty path or a missing file yields the defaults unchanged.
func LoadStrategyParams(path string) (indicator.Config, error) {
	cfg := indicator.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return indicator.Config{}, fmt.Errorf("read strategy params: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return indicator.Config{}, fmt.Errorf("parse strategy params: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return indicator.Config{}, fmt.Errorf("invalid strategy params in %s: %w", path, err)
	}
	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
