package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pos-service/internal/domain"
	"pos-service/internal/infra"
	"pos-service/internal/repository"

	"github.com/sirupsen/logrus"
)

var ErrProductNotFound = fmt.Errorf("product %w", domain.ErrNotFound)

type MenuService struct {
	repo  repository.MenuRepository
	cache infra.Cache
	ttl   time.Duration
}

func NewMenuService(repo repository.MenuRepository) *MenuService {
	return &MenuService{repo: repo, ttl: 5 * time.Minute}
}

func (s *MenuService) SetCache(cache infra.Cache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.ttl = ttl
	}
}

// GetProduct reads through the cache. Prices captured into order lines come
// from here, so a cached product can lag a menu edit by at most the TTL.
func (s *MenuService) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	key := productKey(id)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var p domain.Product
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	p, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	s.store(ctx, p)
	return p, nil
}

func (s *MenuService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *MenuService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *MenuService) WarmupProductCache(ctx context.Context, productIDs []uint64) error {
	if s.cache == nil {
		return nil
	}

	for _, id := range productIDs {
		p, err := s.repo.FindProduct(ctx, id)
		if err != nil {
			logrus.WithField("product_id", id).WithError(err).Warn("cache warmup failed")
			continue
		}
		if p != nil {
			s.store(ctx, p)
		}
	}
	return nil
}

func (s *MenuService) store(ctx context.Context, p *domain.Product) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, productKey(p.ID), data, s.ttl).Err(); err != nil {
		logrus.WithField("product_id", p.ID).WithError(err).Warn("product cache write failed")
	}
}

func productKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}
