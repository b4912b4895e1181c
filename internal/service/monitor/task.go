package monitor

import (
	"context"
	"log/slog"

	"github.com/twquant/stock-sentinel/internal/schedule"
	"github.com/twquant/stock-sentinel/internal/service/watchlist"
)

var _ schedule.Task = (*ScanTask)(nil)

// ScanTask 每轮从存储重新读取自选清单再扫描, 不跨轮缓存,
// 这样指令循环的修改在下一轮自然生效
type ScanTask struct {
	svc   Service
	store watchlist.Store
	seed  []string
}

func NewScanTask(svc Service, store watchlist.Store, seed []string) *ScanTask {
	return &ScanTask{
		svc:   svc,
		store: store,
		seed:  seed,
	}
}

func (t *ScanTask) Run(ctx context.Context) error {
	codes, err := t.store.Load(ctx)
	if err != nil {
		return err
	}
	if len(codes) == 0 {
		codes = t.seed
	}
	if len(codes) == 0 {
		slog.Warn("watchlist is empty, nothing to scan")
		return nil
	}
	return t.svc.Scan(ctx, codes)
}

func (t *ScanTask) Name() string {
	return "intraday_scan"
}
