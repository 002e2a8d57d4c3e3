package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cryptoSignalBot/internal/ports"
)

// Notifier implements the ports.Notifier interface via the Telegram Bot API.
type Notifier struct {
	botToken   string
	chatID     string
	baseURL    string
	maxRetries int
	client     *http.Client
	logger     ports.Logger
}

// Config holds configuration for the Telegram notifier.
type Config struct {
	BotToken   string
	ChatID     string
	BaseURL    string // Defaults to the public Bot API endpoint
	MaxRetries int    // Retries after the first attempt; defaults to 3
	Logger     ports.Logger
}

// New creates a new Telegram notifier.
func New(cfg Config) (*Notifier, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Telegram notifier")
	}
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, fmt.Errorf("%w: telegram bot token and chat id are required", ports.ErrConfigurationError)
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &Notifier{
		botToken:   cfg.BotToken,
		chatID:     cfg.ChatID,
		baseURL:    baseURL,
		maxRetries: maxRetries,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     cfg.Logger,
	}, nil
}

// Send delivers a message to the configured chat, retrying transient failures
// with exponential backoff.
func (n *Notifier) Send(ctx context.Context, text string) error {
	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		if err := n.send(ctx, text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			n.logger.Warn(ctx, "Telegram send failed, retrying", map[string]interface{}{
				"attempt": attempt + 1,
				"backoff": backoff.String(),
				"error":   err.Error(),
			})
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ports.ErrContextCanceled, ctx.Err())
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("%w: all %d attempts exhausted: %w", ports.ErrNotificationFailed, n.maxRetries+1, lastErr)
}

func (n *Notifier) send(ctx context.Context, text string) error {
	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	payload := map[string]string{
		"chat_id":    n.chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
