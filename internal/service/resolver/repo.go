package resolver

import (
	"context"
	"sync"

	"github.com/samber/lo"
	"github.com/twquant/stock-sentinel/internal/entity"
	"github.com/twquant/stock-sentinel/internal/repo"
)

var _ Resolver = (*repoResolver)(nil)

// repoResolver 把证券表缓存在内存, 只有重新汇入基本资料时才会变动
type repoResolver struct {
	repo repo.SecurityRepo

	mu    sync.RWMutex
	cache map[string]entity.Security
}

func NewRepoResolver(ctx context.Context, securityRepo repo.SecurityRepo) (Resolver, error) {
	r := &repoResolver{
		repo: securityRepo,
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *repoResolver) Refresh(ctx context.Context) error {
	securities, err := r.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	cache := lo.SliceToMap(securities, func(item entity.Security) (string, entity.Security) {
		return item.Code, item
	})

	r.mu.Lock()
	r.cache = cache
	r.mu.Unlock()
	return nil
}

func (r *repoResolver) Resolve(ctx context.Context, code string) (entity.Security, error) {
	r.mu.RLock()
	security, ok := r.cache[code]
	r.mu.RUnlock()
	if !ok {
		return entity.Security{}, ErrUnknownIdentifier
	}
	return security, nil
}

func (r *repoResolver) Exists(ctx context.Context, code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.cache[code]
	return ok
}
