package infra

import (
	"context"
	"time"

	"pos-service/internal/domain"

	"github.com/go-redis/redis/v8"
)

// Cache is the subset of *redis.Client used for read-through caching.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var _ Cache = (*redis.Client)(nil)

type IdentityResolver interface {
	ResolveUser(ctx context.Context, token string) (*domain.User, error)
}

var _ IdentityResolver = (*IdentityClient)(nil)
