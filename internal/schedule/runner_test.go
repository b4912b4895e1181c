package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTask struct {
	name string
	runs int
}

func (t *countingTask) Run(ctx context.Context) error {
	t.runs++
	return nil
}

func (t *countingTask) Name() string {
	return t.name
}

func mustHours(t *testing.T, open, close string) TradingHours {
	t.Helper()
	h, err := NewTradingHours(open, close)
	require.NoError(t, err)
	return h
}

func TestTradingHours(t *testing.T) {
	h := mustHours(t, "0900", "1330")

	at := func(hour, min int) time.Time {
		return time.Date(2024, 5, 6, hour, min, 0, 0, time.Local)
	}

	// 首尾皆含
	assert.True(t, h.Open(at(9, 0)))
	assert.True(t, h.Open(at(13, 30)))
	assert.True(t, h.Open(at(11, 15)))
	assert.False(t, h.Open(at(8, 59)))
	assert.False(t, h.Open(at(13, 31)))
	assert.False(t, h.Open(at(20, 0)))
}

func TestNewTradingHours_Invalid(t *testing.T) {
	for _, tc := range [][2]string{
		{"900", "1330"},
		{"09:0", "1330"},
		{"2500", "1330"},
		{"0960", "1330"},
		{"1400", "0900"},
	} {
		_, err := NewTradingHours(tc[0], tc[1])
		assert.Error(t, err, "open=%s close=%s", tc[0], tc[1])
	}
}

func TestRunner_IndependentIntervals(t *testing.T) {
	scan := &countingTask{name: "scan"}
	poll := &countingTask{name: "poll"}
	r := NewRunner(scan, poll, mustHours(t, "0000", "2359"), RunnerConfig{
		ScanInterval: 60 * time.Second,
		PollInterval: 10 * time.Second,
	})
	ctx := context.Background()

	start := time.Date(2024, 5, 6, 10, 0, 0, 0, time.Local)
	for i := 0; i <= 60; i++ {
		r.step(ctx, start.Add(time.Duration(i)*time.Second))
	}

	// 61秒内: 扫描在 0s 和 60s 各一次, 轮询每10秒一次
	assert.Equal(t, 2, scan.runs)
	assert.Equal(t, 7, poll.runs)
}

func TestRunner_MarketClosedBackoff(t *testing.T) {
	scan := &countingTask{name: "scan"}
	poll := &countingTask{name: "poll"}
	r := NewRunner(scan, poll, mustHours(t, "0900", "1330"), RunnerConfig{
		ScanInterval: 60 * time.Second,
		PollInterval: 10 * time.Second,
	})
	ctx := context.Background()

	// 开盘前: 不扫描, 下一次扫描排在 5 倍周期之后
	start := time.Date(2024, 5, 6, 8, 50, 0, 0, time.Local)
	r.step(ctx, start)
	assert.Zero(t, scan.runs)
	assert.Equal(t, start.Add(300*time.Second), r.nextScan)

	// 普通周期点不会提前重试
	r.step(ctx, start.Add(60*time.Second))
	assert.Zero(t, scan.runs)

	// 轮询不受市场闸门影响
	assert.Equal(t, 2, poll.runs)

	// 长退避到期后仍未开盘, 继续延后
	r.step(ctx, start.Add(300*time.Second))
	assert.Zero(t, scan.runs)

	// 开盘后的到期点正常扫描
	open := time.Date(2024, 5, 6, 9, 1, 0, 0, time.Local)
	r.nextScan = open
	r.step(ctx, open)
	assert.Equal(t, 1, scan.runs)
}

func TestRunner_TaskErrorDoesNotStopLoop(t *testing.T) {
	scan := &countingTask{name: "scan"}
	r := NewRunner(scan, &failingTask{}, mustHours(t, "0000", "2359"), RunnerConfig{
		ScanInterval: 60 * time.Second,
		PollInterval: 10 * time.Second,
	})
	ctx := context.Background()

	now := time.Date(2024, 5, 6, 10, 0, 0, 0, time.Local)
	r.step(ctx, now)
	r.step(ctx, now.Add(10*time.Second))

	// 轮询一直失败也不影响扫描
	assert.Equal(t, 1, scan.runs)
}

type failingTask struct{}

func (t *failingTask) Run(ctx context.Context) error {
	return assert.AnError
}

func (t *failingTask) Name() string {
	return "failing"
}
