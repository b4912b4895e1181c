package notify

import "context"

// Notifier 单一推播通道
type Notifier interface {
	Notify(ctx context.Context, text string) error
	Name() string
}
