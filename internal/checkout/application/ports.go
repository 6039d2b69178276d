package application

import (
	"context"

	catalogdomain "github.com/avrele/storefront/internal/catalog/domain"
	orderdomain "github.com/avrele/storefront/internal/order/domain"
	"github.com/avrele/storefront/internal/payment"
)

type CatalogReader interface {
	GetByID(ctx context.Context, id int64) (catalogdomain.Product, error)
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64) (payment.Intent, error)
	GetIntent(ctx context.Context, id string) (payment.Intent, error)
}

// OrderStore persists an order together with its outbox event in one
// transaction. When the order's payment intent id was already persisted by
// an earlier attempt, Create returns that existing order instead of writing
// a second one.
type OrderStore interface {
	Create(ctx context.Context, o orderdomain.Order, eventType string, payload []byte, traceparent string) (orderdomain.Order, error)
}

// Notifier delivers the buyer confirmation. Errors are reported so the
// orchestrator can log them, but they never fail the checkout.
type Notifier interface {
	OrderConfirmed(ctx context.Context, o orderdomain.Order, email, phone string) error
}
