package app

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"cryptoSignalBot/config"
	"cryptoSignalBot/internal/indicator"
	"cryptoSignalBot/internal/ports"
	"cryptoSignalBot/internal/signal"
)

// ScanService orchestrates the periodic signal scans: fetch bar history for
// each configured symbol, run the indicator pipeline, evaluate the latest row
// and deliver/record any verdict that fires.
type ScanService struct {
	cfg      *config.Config
	params   indicator.Config
	logger   ports.Logger
	market   ports.MarketDataClient
	repo     ports.SignalRepository
	notifier ports.Notifier
	cron     *cron.Cron
}

// NewScanService creates a new scanning service instance.
func NewScanService(
	cfg *config.Config,
	params indicator.Config,
	logger ports.Logger,
	market ports.MarketDataClient,
	repo ports.SignalRepository,
	notifier ports.Notifier,
) (*ScanService, error) {
	if cfg == nil || logger == nil || market == nil || repo == nil || notifier == nil {
		return nil, fmt.Errorf("missing required dependencies for ScanService")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy parameters: %w", err)
	}
	if cfg.HistoryLimit < params.RequiredBars() {
		return nil, fmt.Errorf("HISTORY_LIMIT (%d) is below the %d bars the configured windows need",
			cfg.HistoryLimit, params.RequiredBars())
	}

	return &ScanService{
		cfg:      cfg,
		params:   params,
		logger:   logger,
		market:   market,
		repo:     repo,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds()),
	}, nil
}

// Start runs the scan schedule until the context is canceled or a shutdown
// signal arrives.
func (s *ScanService) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting scan service...", map[string]interface{}{
		"symbols":  s.cfg.Symbols,
		"interval": s.cfg.Interval,
		"cron":     s.cfg.ScanCron,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	ossignal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	if err := s.market.Ping(ctx); err != nil {
		return fmt.Errorf("exchange connectivity check failed: %w", err)
	}
	serverTime, err := s.market.GetServerTime(ctx)
	if err != nil {
		return fmt.Errorf("failed to read exchange server time: %w", err)
	}
	s.logger.Info(ctx, "Exchange reachable", map[string]interface{}{"serverTime": serverTime})

	if _, err := s.cron.AddFunc(s.cfg.ScanCron, func() { s.ScanAll(ctx) }); err != nil {
		return fmt.Errorf("failed to register scan schedule %q: %w", s.cfg.ScanCron, err)
	}
	s.cron.Start()
	defer s.cron.Stop()

	if s.cfg.RunOnStart {
		s.ScanAll(ctx)
	}

	<-ctx.Done()
	s.logger.Info(ctx, "Scan service stopped")
	return nil
}

// ScanAll evaluates every configured symbol once. Failures on one symbol are
// logged and do not abort the rest of the cycle.
func (s *ScanService) ScanAll(ctx context.Context) {
	for _, symbol := range s.cfg.Symbols {
		if ctx.Err() != nil {
			return
		}
		if err := s.ScanSymbol(ctx, symbol); err != nil {
			s.logger.Error(ctx, err, "Scan failed, skipping symbol", map[string]interface{}{"symbol": symbol})
		}
		// Brief pause between symbols to stay friendly to the API rate limits.
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// ScanSymbol fetches history for one symbol, evaluates the latest bar and, if
// a signal fires, sends the alert and journals the verdict.
func (s *ScanService) ScanSymbol(ctx context.Context, symbol string) error {
	bars, err := s.market.GetBars(ctx, symbol, s.cfg.Interval, s.cfg.HistoryLimit)
	if err != nil {
		return fmt.Errorf("fetching bars: %w", err)
	}
	if len(bars) < s.params.RequiredBars() {
		s.logger.Warn(ctx, "Not enough history for evaluation", map[string]interface{}{
			"symbol":   symbol,
			"fetched":  len(bars),
			"required": s.params.RequiredBars(),
		})
		return nil
	}

	rows, err := indicator.Compute(bars, s.params)
	if err != nil {
		return fmt.Errorf("computing indicators: %w", err)
	}

	latest := rows[len(rows)-1]
	verdict := signal.Evaluate(latest, s.params)
	if !verdict.HasSignal() {
		s.logger.Info(ctx, "No signal", map[string]interface{}{
			"symbol":  symbol,
			"barTime": latest.Bar.OpenTime,
			"close":   latest.Bar.Close,
		})
		return nil
	}

	// A run-on-start scan and the first cron tick can both see the same closed
	// bar; alert on it only once.
	recent, err := s.repo.FindRecentBySymbol(ctx, symbol, 1)
	if err != nil {
		return fmt.Errorf("checking recent verdicts: %w", err)
	}
	if len(recent) > 0 && recent[0].BarTime.Equal(verdict.BarTime) && recent[0].Direction == verdict.Direction {
		s.logger.Info(ctx, "Signal already journaled for this bar, skipping alert", map[string]interface{}{
			"symbol":  symbol,
			"barTime": verdict.BarTime,
		})
		return nil
	}

	s.logger.Info(ctx, "Signal fired", map[string]interface{}{
		"symbol":     symbol,
		"direction":  verdict.Direction,
		"entryPrice": verdict.EntryPrice,
		"takeProfit": verdict.TakeProfit,
		"stopLoss":   verdict.StopLoss,
	})

	if err := s.notifier.Send(ctx, FormatAlert(verdict, s.cfg.Interval, s.params.Leverage)); err != nil {
		// Alert delivery failing should not stop the verdict being journaled.
		s.logger.Error(ctx, err, "Failed to deliver alert", map[string]interface{}{"symbol": symbol})
	}
	if _, err := s.repo.RecordVerdict(ctx, &verdict); err != nil {
		return fmt.Errorf("recording verdict: %w", err)
	}
	if count, err := s.repo.CountTodayBySymbol(ctx, symbol); err == nil {
		s.logger.Debug(ctx, "Signals journaled today", map[string]interface{}{
			"symbol": symbol,
			"count":  count,
		})
	}
	return nil
}
