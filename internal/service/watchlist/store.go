package watchlist

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Store 自选清单持久化
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, codes []string) error
}

// Mirror 清单的外部镜像, 尽力而为, 失败不影响主存储
type Mirror interface {
	Sync(ctx context.Context, codes []string) error
}

var _ Store = (*fileStore)(nil)

type fileStore struct {
	path   string
	mirror Mirror

	mu sync.Mutex
}

type Option func(s *fileStore)

func WithMirror(mirror Mirror) Option {
	return func(s *fileStore) {
		s.mirror = mirror
	}
}

func NewFileStore(path string, opts ...Option) Store {
	s := &fileStore{
		path: path,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load 文件不存在或损坏时回传空清单, 系统退化为无清单而不是崩溃
func (s *fileStore) Load(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil
	}

	var codes []string
	if err = json.Unmarshal(data, &codes); err != nil {
		slog.Warn("watchlist file corrupted, treating as empty", "path", s.path, "error", err)
		return nil, nil
	}
	return normalize(codes), nil
}

func (s *fileStore) Save(ctx context.Context, codes []string) error {
	normalized := normalize(codes)

	s.mu.Lock()
	data, err := json.MarshalIndent(normalized, "", "  ")
	if err == nil {
		err = os.WriteFile(s.path, data, 0644)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if s.mirror != nil {
		if err := s.mirror.Sync(ctx, normalized); err != nil {
			slog.Error("failed to sync watchlist mirror", "error", err)
		}
	}
	return nil
}

// normalize 去空白去重排序, 保证存档内容确定且 diff 友好
func normalize(codes []string) []string {
	cleaned := lo.FilterMap(codes, func(code string, _ int) (string, bool) {
		code = strings.TrimSpace(code)
		return code, code != ""
	})
	cleaned = lo.Uniq(cleaned)
	sort.Strings(cleaned)
	return cleaned
}
