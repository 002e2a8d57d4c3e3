package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoSignalBot/internal/domain"
	"cryptoSignalBot/internal/indicator"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "SUIUSDT"}, cfg.Symbols)
	assert.Equal(t, "1h", cfg.Interval)
	assert.Equal(t, 300, cfg.HistoryLimit)
	assert.Equal(t, "0 0 * * * *", cfg.ScanCron)
	assert.True(t, cfg.RunOnStart)
	assert.Equal(t, "./data/signals.db", cfg.DBPath)
	assert.False(t, cfg.IsTestnet)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SYMBOLS", " btcusdt, solusdt ")
	t.Setenv("INTERVAL", "4h")
	t.Setenv("HISTORY_LIMIT", "500")
	t.Setenv("RUN_ON_START", "false")
	t.Setenv("IS_TESTNET", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "SOLUSDT"}, cfg.Symbols)
	assert.Equal(t, "4h", cfg.Interval)
	assert.Equal(t, 500, cfg.HistoryLimit)
	assert.False(t, cfg.RunOnStart)
	assert.True(t, cfg.IsTestnet)
}

func TestLoadConfig_TelegramOptional(t *testing.T) {
	// The alert-free binaries load configuration without telegram credentials;
	// only the notifier constructor demands them.
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.TelegramBotToken)
	assert.Empty(t, cfg.TelegramChatID)
}

func TestLoadConfig_InvalidHistoryLimit(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HISTORY_LIMIT")
}

func TestLoadStrategyParams_EmptyPathYieldsDefaults(t *testing.T) {
	params, err := LoadStrategyParams("")
	require.NoError(t, err)
	assert.Equal(t, indicator.DefaultConfig(), params)
}

func TestLoadStrategyParams_MissingFileYieldsDefaults(t *testing.T) {
	params, err := LoadStrategyParams(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, indicator.DefaultConfig(), params)
}

func TestLoadStrategyParams_FileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	content := "rsiLen: 21\npricingMode: percentage\ntakeProfitPct: 0.05\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	params, err := LoadStrategyParams(path)
	require.NoError(t, err)

	assert.Equal(t, 21, params.RSILen)
	assert.Equal(t, domain.PricingModePercentage, params.PricingMode)
	assert.Equal(t, 0.05, params.TakeProfitPct)
	// Untouched keys keep their defaults.
	defaults := indicator.DefaultConfig()
	assert.Equal(t, defaults.EMASlowLen, params.EMASlowLen)
	assert.Equal(t, defaults.BBMult, params.BBMult)
}

func TestLoadStrategyParams_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	content := "emaFastLen: 200\nemaSlowLen: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadStrategyParams(path)
	require.Error(t, err)
}

func TestLoadStrategyParams_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rsiLen: [not an int"), 0644))

	_, err := LoadStrategyParams(path)
	require.Error(t, err)
}
