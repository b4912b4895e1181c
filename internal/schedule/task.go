package schedule

import "context"

// Task 可被排程器周期执行的活动
type Task interface {
	Run(ctx context.Context) error
	Name() string
}
