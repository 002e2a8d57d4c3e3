package ports

import (
	"context"
	"time"

	"cryptoSignalBot/internal/domain"
)

// MarketDataClient defines the interface for fetching market data from an exchange.
// This abstraction decouples the scanning service from specific exchange implementations.
type MarketDataClient interface {
	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context) error

	// GetServerTime retrieves the current server time from the exchange.
	GetServerTime(ctx context.Context) (time.Time, error)

	// GetBars retrieves the most recent historical bars for the given symbol,
	// ordered oldest to newest.
	GetBars(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Bar, error)

	// GetBarsRange retrieves historical bars between start and end, ordered oldest
	// to newest, paging through the exchange's per-request limit as needed.
	GetBarsRange(ctx context.Context, symbol string, interval string, start, end time.Time) ([]*domain.Bar, error)
}
