package resolver

import (
	"context"
	"errors"

	"github.com/twquant/stock-sentinel/internal/entity"
)

var ErrUnknownIdentifier = errors.New("unknown security identifier")

// Resolver 把证券代号解析成完整的证券资料
type Resolver interface {
	Resolve(ctx context.Context, code string) (entity.Security, error)
	Exists(ctx context.Context, code string) bool
}
