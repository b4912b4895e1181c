package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingService struct {
	scans [][]string
}

func (s *recordingService) Scan(ctx context.Context, codes []string) error {
	s.scans = append(s.scans, codes)
	return nil
}

type stubStore struct {
	codes []string
}

func (s *stubStore) Load(ctx context.Context) ([]string, error) {
	return s.codes, nil
}

func (s *stubStore) Save(ctx context.Context, codes []string) error {
	s.codes = codes
	return nil
}

func TestScanTask_LoadsWatchlistEveryRun(t *testing.T) {
	svc := &recordingService{}
	store := &stubStore{codes: []string{"2330"}}
	task := NewScanTask(svc, store, nil)
	ctx := context.Background()

	require.NoError(t, task.Run(ctx))

	// 清单在两轮之间被指令循环改掉, 下一轮要看到新清单
	store.codes = []string{"2317", "2330"}
	require.NoError(t, task.Run(ctx))

	require.Len(t, svc.scans, 2)
	assert.Equal(t, []string{"2330"}, svc.scans[0])
	assert.Equal(t, []string{"2317", "2330"}, svc.scans[1])
}

func TestScanTask_SeedFallback(t *testing.T) {
	svc := &recordingService{}
	task := NewScanTask(svc, &stubStore{}, []string{"1101"})

	require.NoError(t, task.Run(context.Background()))
	require.Len(t, svc.scans, 1)
	assert.Equal(t, []string{"1101"}, svc.scans[0])
}

func TestScanTask_EmptyWatchlist(t *testing.T) {
	svc := &recordingService{}
	task := NewScanTask(svc, &stubStore{}, nil)

	require.NoError(t, task.Run(context.Background()))
	assert.Empty(t, svc.scans)
}
