package application

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/avrele/storefront/internal/catalog/domain"
)

// Service serves catalog reads. Listings may come from a short-TTL cache;
// single-product lookups always hit the repository because checkout
// re-pricing depends on reading the freshest committed price.
type Service struct {
	log   *slog.Logger
	repo  Repository
	cache Cache
}

func NewService(log *slog.Logger, repo Repository, cache Cache) *Service {
	return &Service{log: log, repo: repo, cache: cache}
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, query string) ([]domain.Product, error) {
	key := "catalog:list:" + query

	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, key); err != nil {
			s.log.Warn("catalog cache read failed", "err", err)
		} else if ok {
			var products []domain.Product
			if err := json.Unmarshal(raw, &products); err == nil {
				return products, nil
			}
			s.log.Warn("catalog cache entry unreadable, falling through", "key", key)
		}
	}

	products, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(products); err == nil {
			if err := s.cache.Set(ctx, key, raw); err != nil {
				s.log.Warn("catalog cache write failed", "err", err)
			}
		}
	}
	return products, nil
}
