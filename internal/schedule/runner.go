package schedule

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultBaseTick     = time.Second
	closedBackoffFactor = 5
	defaultScanInterval = 60 * time.Second
	defaultPollInterval = 10 * time.Second
)

// RunnerConfig 两个活动的周期设定, 零值使用预设
type RunnerConfig struct {
	ScanInterval time.Duration
	PollInterval time.Duration

	// ClosedBackoff 非盘中时间下一次扫描的延后量, 预设 5 倍扫描周期,
	// 避免收盘后空转
	ClosedBackoff time.Duration

	// TaskTimeout 单次任务执行的超时, 预设等于扫描周期,
	// 挂住的抓取不能拖住整个循环
	TaskTimeout time.Duration

	BaseTick time.Duration
}

func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.ScanInterval <= 0 {
		c.ScanInterval = defaultScanInterval
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.ClosedBackoff <= 0 {
		c.ClosedBackoff = closedBackoffFactor * c.ScanInterval
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = c.ScanInterval
	}
	if c.BaseTick <= 0 {
		c.BaseTick = defaultBaseTick
	}
	return c
}

// Runner 单线程协作式排程: 一个基础 tick 驱动扫描与指令轮询两个独立周期,
// 两个活动共享一个 goroutine, 所以不需要再为共享状态加锁
type Runner struct {
	scan Task
	poll Task

	hours TradingHours
	cfg   RunnerConfig
	now   func() time.Time

	nextScan time.Time
	nextPoll time.Time
}

func NewRunner(scan, poll Task, hours TradingHours, cfg RunnerConfig) *Runner {
	return &Runner{
		scan:  scan,
		poll:  poll,
		hours: hours,
		cfg:   cfg.withDefaults(),
		now:   time.Now,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.BaseTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.step(ctx, r.now())
		}
	}
}

// step 检查每个活动是否到期, 到期就执行并排下一次
func (r *Runner) step(ctx context.Context, now time.Time) {
	if r.poll != nil && !now.Before(r.nextPoll) {
		r.runTask(ctx, r.poll)
		r.nextPoll = now.Add(r.cfg.PollInterval)
	}

	if r.scan == nil || now.Before(r.nextScan) {
		return
	}
	if !r.hours.Open(now) {
		r.nextScan = now.Add(r.cfg.ClosedBackoff)
		slog.Info("market closed, deferring scan", "next", r.nextScan)
		return
	}
	r.runTask(ctx, r.scan)
	r.nextScan = now.Add(r.cfg.ScanInterval)
}

func (r *Runner) runTask(ctx context.Context, t Task) {
	tctx, cancel := context.WithTimeout(ctx, r.cfg.TaskTimeout)
	defer cancel()

	if err := t.Run(tctx); err != nil {
		slog.Error("task run failed", "task", t.Name(), "error", err)
	}
}
