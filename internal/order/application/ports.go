package application

import (
	"context"

	"github.com/avrele/storefront/internal/order/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
}
