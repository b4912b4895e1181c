package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twquant/stock-sentinel/internal/entity"
	"github.com/twquant/stock-sentinel/internal/service/alert"
	"github.com/twquant/stock-sentinel/internal/service/indicator"
	"github.com/twquant/stock-sentinel/internal/service/quote"
	"github.com/twquant/stock-sentinel/internal/service/resolver"
)

type fakeResolver struct {
	universe map[string]entity.Security
}

func (r *fakeResolver) Resolve(ctx context.Context, code string) (entity.Security, error) {
	sec, ok := r.universe[code]
	if !ok {
		return entity.Security{}, resolver.ErrUnknownIdentifier
	}
	return sec, nil
}

func (r *fakeResolver) Exists(ctx context.Context, code string) bool {
	_, ok := r.universe[code]
	return ok
}

type fakeQuote struct {
	charts map[string]quote.Chart
	errs   map[string]error
	calls  []string
}

func (q *fakeQuote) IntradayChart(ctx context.Context, sec entity.Security) (quote.Chart, error) {
	q.calls = append(q.calls, sec.Code)
	if err, ok := q.errs[sec.Code]; ok {
		return quote.Chart{}, err
	}
	return q.charts[sec.Code], nil
}

type memorySink struct {
	appended []alert.Alert
	events   *[]string
}

func (s *memorySink) Append(ctx context.Context, a alert.Alert) error {
	s.appended = append(s.appended, a)
	if s.events != nil {
		*s.events = append(*s.events, "sink")
	}
	return nil
}

type countNotifier struct {
	sent   []string
	events *[]string
}

func (n *countNotifier) Name() string {
	return "count"
}

func (n *countNotifier) Notify(ctx context.Context, text string) error {
	n.sent = append(n.sent, text)
	if n.events != nil {
		*n.events = append(*n.events, "notify")
	}
	return nil
}

func testConfig() indicator.Config {
	return indicator.Config{
		UpPct:              decimal.NewFromFloat(2.0),
		DownPct:            decimal.NewFromFloat(-2.0),
		Overbought:         70,
		Oversold:           30,
		VolumeSpikeMult:    decimal.NewFromFloat(2.5),
		VolumeSpikeEnabled: true,
	}
}

// upChart 会触发 UP 告警的行情: +3%, RSI 接近 100, 末根 3 倍均量
func upChart() quote.Chart {
	chart := quote.Chart{PrevClose: decimal.NewFromFloat(100)}
	for i := 0; i < 30; i++ {
		chart.Closes = append(chart.Closes, decimal.NewFromFloat(100+float64(i)*0.1))
		chart.Volumes = append(chart.Volumes, decimal.NewFromInt(1000))
	}
	chart.Volumes[len(chart.Volumes)-1] = decimal.NewFromInt(3000)
	return chart
}

// flatChart 不触发任何方向
func flatChart() quote.Chart {
	chart := quote.Chart{PrevClose: decimal.NewFromFloat(100)}
	for i := 0; i < 30; i++ {
		chart.Closes = append(chart.Closes, decimal.NewFromFloat(100))
		chart.Volumes = append(chart.Volumes, decimal.NewFromInt(1000))
	}
	return chart
}

func tsmc() map[string]entity.Security {
	return map[string]entity.Security{
		"2330": {Code: "2330", Name: "台積電", Market: entity.MarketListed},
		"2317": {Code: "2317", Name: "鴻海", Market: entity.MarketListed},
	}
}

func TestIntradayMonitor_EmitsUpAlert(t *testing.T) {
	var events []string
	sink := &memorySink{events: &events}
	notifier := &countNotifier{events: &events}
	quotes := &fakeQuote{charts: map[string]quote.Chart{"2330": upChart()}}

	m := NewIntradayMonitor(quotes, indicator.NewEvaluator(testConfig()), &fakeResolver{universe: tsmc()},
		sink, 30*time.Minute, WithNotifier(notifier))

	require.NoError(t, m.Scan(context.Background(), []string{"2330"}))

	require.Len(t, sink.appended, 1)
	a := sink.appended[0]
	assert.Equal(t, alert.KindIntradaySignal, a.Kind)
	assert.Equal(t, "2330", a.Code)
	assert.Equal(t, "台積電", a.Name)
	assert.Equal(t, "UP", a.Status)
	assert.Greater(t, a.Ts, int64(0))
	assert.NotEmpty(t, a.Message)

	// 每个通道恰好一次推播尝试
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, a.Message, notifier.sent[0])

	// 先落盘再推播
	assert.Equal(t, []string{"sink", "notify"}, events)
}

func TestIntradayMonitor_CooldownSuppression(t *testing.T) {
	now := time.Date(2024, 5, 6, 9, 30, 0, 0, time.Local)
	sink := &memorySink{}
	notifier := &countNotifier{}
	quotes := &fakeQuote{charts: map[string]quote.Chart{"2330": upChart()}}

	m := NewIntradayMonitor(quotes, indicator.NewEvaluator(testConfig()), &fakeResolver{universe: tsmc()},
		sink, 30*time.Minute,
		WithNotifier(notifier),
		WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	// 条件持续成立, 10分钟后的第二轮要被冷却压掉
	require.NoError(t, m.Scan(ctx, []string{"2330"}))
	now = now.Add(10 * time.Minute)
	require.NoError(t, m.Scan(ctx, []string{"2330"}))

	assert.Len(t, sink.appended, 1)
	assert.Len(t, notifier.sent, 1)

	// 冷却窗过了才会再发
	now = now.Add(21 * time.Minute)
	require.NoError(t, m.Scan(ctx, []string{"2330"}))
	assert.Len(t, sink.appended, 2)

	// 两次发出的间隔不小于冷却窗
	assert.GreaterOrEqual(t, sink.appended[1].Ts-sink.appended[0].Ts, int64((30 * time.Minute).Seconds()))
}

func TestIntradayMonitor_FetchFailureSkipsSymbolOnly(t *testing.T) {
	sink := &memorySink{}
	notifier := &countNotifier{}
	quotes := &fakeQuote{
		charts: map[string]quote.Chart{"2317": upChart()},
		errs:   map[string]error{"2330": errors.New("timeout")},
	}

	m := NewIntradayMonitor(quotes, indicator.NewEvaluator(testConfig()), &fakeResolver{universe: tsmc()},
		sink, 30*time.Minute, WithNotifier(notifier))

	require.NoError(t, m.Scan(context.Background(), []string{"2330", "2317"}))

	// 2330 抓取失败只跳过自己, 2317 照常发出
	assert.Equal(t, []string{"2330", "2317"}, quotes.calls)
	require.Len(t, sink.appended, 1)
	assert.Equal(t, "2317", sink.appended[0].Code)
}

func TestIntradayMonitor_UnknownCodeSkipped(t *testing.T) {
	sink := &memorySink{}
	quotes := &fakeQuote{}
	m := NewIntradayMonitor(quotes, indicator.NewEvaluator(testConfig()), &fakeResolver{universe: tsmc()},
		sink, 30*time.Minute, WithNotifier(&countNotifier{}))

	require.NoError(t, m.Scan(context.Background(), []string{"9999"}))
	assert.Empty(t, quotes.calls)
	assert.Empty(t, sink.appended)
}

func TestIntradayMonitor_NoSignalNoAlert(t *testing.T) {
	sink := &memorySink{}
	notifier := &countNotifier{}
	quotes := &fakeQuote{charts: map[string]quote.Chart{"2330": flatChart()}}

	m := NewIntradayMonitor(quotes, indicator.NewEvaluator(testConfig()), &fakeResolver{universe: tsmc()},
		sink, 30*time.Minute, WithNotifier(notifier))

	require.NoError(t, m.Scan(context.Background(), []string{"2330"}))
	assert.Empty(t, sink.appended)
	assert.Empty(t, notifier.sent)
}
