package ports

import "context"

// Notifier delivers alert messages to a human. Implementations decide the
// channel and formatting constraints (Telegram, email, webhook, ...).
type Notifier interface {
	// Send delivers a single message, retrying transient failures internally.
	Send(ctx context.Context, text string) error
}
