package application

import (
	"context"

	"github.com/avrele/storefront/internal/order/domain"
)

// Service serves buyer-scoped order reads.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetForBuyer hides orders belonging to other buyers behind the same
// not-found error as genuinely missing ids.
func (s *Service) GetForBuyer(ctx context.Context, buyerID, orderID string) (domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.BuyerID != buyerID {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) ListForBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	return s.repo.ListByBuyer(ctx, buyerID)
}
