package monitor

import "context"

// Service 盘中扫描服务接口
type Service interface {
	Scan(ctx context.Context, codes []string) error
}
