package alert

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Sink 告警的追加式持久化, 读取端是外部系统
type Sink interface {
	Append(ctx context.Context, a Alert) error
}

var _ Sink = (*fileSink)(nil)

type fileSink struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

func NewFileSink(path string) Sink {
	return &fileSink{
		path: path,
		now:  time.Now,
	}
}

func (s *fileSink) Append(ctx context.Context, a Alert) error {
	if a.Ts == 0 {
		a.Ts = s.now().Unix()
	}

	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}
