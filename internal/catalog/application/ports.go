package application

import (
	"context"

	"github.com/avrele/storefront/internal/catalog/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (domain.Product, error)
	List(ctx context.Context, query string) ([]domain.Product, error)
}

// Cache holds serialized product listings. Get returns ok=false on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
