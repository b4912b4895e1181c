package notify

import (
	"context"
	"log/slog"
)

var _ Notifier = (*Fanout)(nil)

// Fanout 多通道推播, 各通道独立尽力而为, 单一通道失败不影响其他通道
type Fanout struct {
	notifiers []Notifier
}

func NewFanout(notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

func (f *Fanout) Name() string {
	return "fanout"
}

func (f *Fanout) Notify(ctx context.Context, text string) error {
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, text); err != nil {
			slog.Error("failed to push notification", "channel", n.Name(), "error", err)
		}
	}
	return nil
}
