package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twquant/stock-sentinel/internal/service/alert"
	"github.com/twquant/stock-sentinel/internal/service/indicator"
	"github.com/twquant/stock-sentinel/internal/service/notify"
	"github.com/twquant/stock-sentinel/internal/service/quote"
	"github.com/twquant/stock-sentinel/internal/service/resolver"
)

type IntradayMonitor struct {
	quoteSvc  quote.Service
	evaluator *indicator.Evaluator
	resolver  resolver.Resolver
	sink      alert.Sink
	notifier  notify.Notifier

	cooldown time.Duration

	// lastAlert 各代号最近一次发出告警的时间, 进程内状态, 重启归零
	lastAlert map[string]time.Time
	now       func() time.Time
}

type consoleNotifier struct{}

func (c consoleNotifier) Name() string {
	return "console"
}

func (c consoleNotifier) Notify(ctx context.Context, text string) error {
	fmt.Println(text)
	return nil
}

type Option func(m *IntradayMonitor)

func WithNotifier(notifier notify.Notifier) Option {
	return func(m *IntradayMonitor) {
		m.notifier = notifier
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *IntradayMonitor) {
		m.now = now
	}
}

func NewIntradayMonitor(quoteSvc quote.Service, evaluator *indicator.Evaluator, r resolver.Resolver,
	sink alert.Sink, cooldown time.Duration, opts ...Option) *IntradayMonitor {
	m := &IntradayMonitor{
		quoteSvc:  quoteSvc,
		evaluator: evaluator,
		resolver:  r,
		sink:      sink,
		notifier:  consoleNotifier{},
		cooldown:  cooldown,
		lastAlert: make(map[string]time.Time),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *IntradayMonitor) Scan(ctx context.Context, codes []string) error {
	for _, code := range codes {
		m.scanOne(ctx, code)
	}
	return nil
}

// scanOne 单一代号的完整评估, 任何失败只跳过该代号, 不中断整轮扫描
func (m *IntradayMonitor) scanOne(ctx context.Context, code string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while scanning symbol", "code", code, "panic", r)
		}
	}()

	sec, err := m.resolver.Resolve(ctx, code)
	if err != nil {
		slog.Warn("skip unknown symbol", "code", code, "error", err)
		return
	}

	chart, err := m.quoteSvc.IntradayChart(ctx, sec)
	if err != nil {
		slog.Error("failed to fetch intraday chart", "code", code, "error", err)
		return
	}

	eval := m.evaluator.Evaluate(chart)
	if eval.Insufficient {
		slog.Debug("not enough samples", "code", code)
		return
	}
	if eval.Direction == indicator.DirectionNone {
		return
	}

	now := m.now()
	if last, ok := m.lastAlert[code]; ok && now.Sub(last) < m.cooldown {
		// 冷却期内即使条件仍成立也不重发
		slog.Debug("alert suppressed by cooldown", "code", code, "last", last)
		return
	}

	msg := alert.FormatMessage(code, sec.Name, eval)
	a := alert.Alert{
		Kind:    alert.KindIntradaySignal,
		Code:    code,
		Name:    sec.Name,
		Status:  string(eval.Direction),
		Price:   eval.Price,
		Pct:     eval.Pct,
		RSI:     eval.RSI,
		Volume:  eval.Volume,
		Message: msg,
		Ts:      now.Unix(),
	}

	// 先落盘再推播, 推播失败不会弄丢告警
	if err = m.sink.Append(ctx, a); err != nil {
		slog.Error("failed to append alert", "code", code, "error", err)
	}
	if err = m.notifier.Notify(ctx, msg); err != nil {
		slog.Error("failed to notify alert", "code", code, "error", err)
	}

	m.lastAlert[code] = now
	slog.Info("alert emitted", "code", code, "status", eval.Direction)
}
