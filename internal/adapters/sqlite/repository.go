package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"cryptoSignalBot/internal/domain"
	"cryptoSignalBot/internal/ports"
)

// Repository implements the ports.SignalRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/signals.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		bar_time TIMESTAMP NOT NULL,
		direction TEXT NOT NULL,
		entry_price REAL NOT NULL,
		take_profit REAL NOT NULL,
		stop_loss REAL NOT NULL,
		expected_return_pct REAL NOT NULL,
		pricing_mode TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_signals_symbol_bar_time ON signals (symbol, bar_time);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: creating signals schema: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// RecordVerdict saves a fired verdict and returns its assigned ID.
func (r *Repository) RecordVerdict(ctx context.Context, v *domain.Verdict) (int64, error) {
	const query = `
	INSERT INTO signals (symbol, bar_time, direction, entry_price, take_profit, stop_loss, expected_return_pct, pricing_mode)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		v.Symbol, v.BarTime, string(v.Direction),
		v.EntryPrice, v.TakeProfit, v.StopLoss, v.ExpectedReturnPct, string(v.PricingMode))
	if err != nil {
		err = fmt.Errorf("%w: inserting signal: %v", ports.ErrQueryFailed, err)
		r.logger.Error(ctx, err, "Failed to record verdict", map[string]interface{}{"symbol": v.Symbol})
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: fetching signal insert id: %v", ports.ErrQueryFailed, err)
	}
	r.logger.Debug(ctx, "Verdict recorded", map[string]interface{}{"id": id, "symbol": v.Symbol, "direction": v.Direction})
	return id, nil
}

// FindRecentBySymbol retrieves the most recent verdicts for a symbol, newest first.
func (r *Repository) FindRecentBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.Verdict, error) {
	const query = `
	SELECT symbol, bar_time, direction, entry_price, take_profit, stop_loss, expected_return_pct, pricing_mode
	FROM signals WHERE symbol = ? ORDER BY bar_time DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying signals for %s: %v", ports.ErrQueryFailed, symbol, err)
	}
	defer rows.Close()

	var verdicts []*domain.Verdict
	for rows.Next() {
		var v domain.Verdict
		var direction, mode string
		if err := rows.Scan(&v.Symbol, &v.BarTime, &direction, &v.EntryPrice, &v.TakeProfit, &v.StopLoss, &v.ExpectedReturnPct, &mode); err != nil {
			return nil, fmt.Errorf("%w: scanning signal row: %v", ports.ErrQueryFailed, err)
		}
		v.Direction = domain.Direction(direction)
		v.PricingMode = domain.PricingMode(mode)
		verdicts = append(verdicts, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating signal rows: %v", ports.ErrQueryFailed, err)
	}
	return verdicts, nil
}

// CountTodayBySymbol counts the verdicts recorded today (UTC) for a symbol.
func (r *Repository) CountTodayBySymbol(ctx context.Context, symbol string) (int, error) {
	const query = `
	SELECT COUNT(*) FROM signals WHERE symbol = ? AND created_at >= ?`

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	var count int
	if err := r.db.QueryRowContext(ctx, query, symbol, startOfDay).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting today's signals for %s: %v", ports.ErrQueryFailed, symbol, err)
	}
	return count, nil
}
