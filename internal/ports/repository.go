package ports

import (
	"context"

	"cryptoSignalBot/internal/domain"
)

// SignalRepository defines the interface for journaling emitted signal verdicts.
type SignalRepository interface {
	// RecordVerdict saves a fired verdict and returns its assigned ID.
	RecordVerdict(ctx context.Context, v *domain.Verdict) (int64, error)
	// FindRecentBySymbol retrieves the most recent verdicts for a given symbol, up to a limit.
	FindRecentBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.Verdict, error)
	// CountTodayBySymbol counts the number of verdicts recorded today for a given symbol.
	CountTodayBySymbol(ctx context.Context, symbol string) (int, error)
}
