package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	catalogdomain "github.com/avrele/storefront/internal/catalog/domain"
	"github.com/avrele/storefront/internal/checkout/domain"
	orderdomain "github.com/avrele/storefront/internal/order/domain"
	"github.com/avrele/storefront/internal/payment"
	"github.com/avrele/storefront/pkg/tracing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Buyer identifies the authenticated customer completing a checkout.
// Contact fields feed the confirmation notification only.
type Buyer struct {
	ID    string
	Email string
	Phone string
}

type Config struct {
	// Orders with a subtotal strictly above the threshold ship free,
	// everything else pays the flat fee.
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

// Orchestrator drives a checkout attempt through its fixed step order:
// re-price, verify payment, persist, notify. The catalog is the only price
// authority and the order store write is the single commit point.
type Orchestrator struct {
	log      *slog.Logger
	catalog  CatalogReader
	gateway  PaymentGateway
	orders   OrderStore
	notifier Notifier
	cfg      Config
}

func NewOrchestrator(log *slog.Logger, catalog CatalogReader, gateway PaymentGateway, orders OrderStore, notifier Notifier, cfg Config) *Orchestrator {
	return &Orchestrator{
		log:      log,
		catalog:  catalog,
		gateway:  gateway,
		orders:   orders,
		notifier: notifier,
		cfg:      cfg,
	}
}

// Quote re-prices the proposed cart against the current catalog. It is a
// pure read: safe to call any number of times, no state is touched. A single
// missing product fails the whole quote.
func (o *Orchestrator) Quote(ctx context.Context, lines []domain.CartLine) (domain.Quote, error) {
	if len(lines) == 0 {
		return domain.Quote{}, domain.ErrEmptyCart
	}
	for _, l := range lines {
		if l.Qty <= 0 {
			return domain.Quote{}, &domain.InvalidQuantityError{ProductID: l.ProductID, Qty: l.Qty}
		}
	}

	priced := make([]domain.PricedLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		p, err := o.catalog.GetByID(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, catalogdomain.ErrNotFound) {
				return domain.Quote{}, &domain.ProductNotFoundError{ProductID: l.ProductID}
			}
			return domain.Quote{}, fmt.Errorf("catalog lookup for product %d: %w", l.ProductID, err)
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
		priced = append(priced, domain.PricedLine{
			ProductID: p.ID,
			Title:     p.Title,
			UnitPrice: p.Price,
			Qty:       l.Qty,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	shipping := o.cfg.ShippingFee
	if subtotal.GreaterThan(o.cfg.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return domain.Quote{
		Lines:    priced,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}, nil
}

// InitiatePayment creates a gateway intent for the given major-unit amount.
// The minor-unit conversion happens here, at this boundary, exactly once.
// The returned client secret goes to the buyer's device; confirmation is
// entirely client-side and this call does not wait for it.
func (o *Orchestrator) InitiatePayment(ctx context.Context, amount decimal.Decimal) (payment.Intent, error) {
	if amount.Sign() <= 0 {
		return payment.Intent{}, domain.ErrInvalidAmount
	}

	intent, err := o.gateway.CreateIntent(ctx, payment.MinorUnits(amount))
	if err != nil {
		if errors.Is(err, payment.ErrUnavailable) {
			return payment.Intent{}, fmt.Errorf("%w: create intent: %s", domain.ErrGatewayUnavailable, err)
		}
		return payment.Intent{}, fmt.Errorf("create intent: %w", err)
	}
	return intent, nil
}

// CompleteOrder is the commit point. Steps run strictly in order:
//
//  1. re-quote the cart (a previously quoted total is never trusted)
//  2. verify the payment intent against the fresh total
//  3. persist the order and its outbox event in one transaction
//  4. notify the buyer, best-effort
//
// A retry after a crash between gateway confirmation and persistence must
// carry the same payment reference: the store's unique index on the intent
// id makes the write idempotent and returns the order from the attempt that
// won.
func (o *Orchestrator) CompleteOrder(ctx context.Context, buyer Buyer, lines []domain.CartLine, paymentRef string) (orderdomain.Order, error) {
	q, err := o.Quote(ctx, lines)
	if err != nil {
		return orderdomain.Order{}, err
	}

	if paymentRef != "" {
		if err := o.verifyPayment(ctx, paymentRef, q.Total); err != nil {
			return orderdomain.Order{}, err
		}
	}

	ord := orderdomain.Order{
		ID:              uuid.NewString(),
		BuyerID:         buyer.ID,
		Lines:           q.Lines,
		Total:           q.Total,
		Status:          orderdomain.StatusConfirmed,
		PaymentIntentID: paymentRef,
	}

	payload, err := json.Marshal(orderdomain.OrderConfirmed{
		OrderID:    ord.ID,
		BuyerID:    buyer.ID,
		BuyerEmail: buyer.Email,
		BuyerPhone: buyer.Phone,
		Total:      q.Total,
		Lines:      q.Lines,
	})
	if err != nil {
		return orderdomain.Order{}, fmt.Errorf("marshal order event: %w", err)
	}

	persisted, err := o.orders.Create(ctx, ord, orderdomain.EventOrderConfirmed, payload, tracing.Traceparent(ctx))
	if err != nil {
		return orderdomain.Order{}, fmt.Errorf("%w: %s", domain.ErrPersistence, err)
	}

	if persisted.ID != ord.ID {
		// An earlier attempt with the same intent already committed; that
		// attempt owns the notification too.
		o.log.Info("order already persisted for payment intent",
			"order_id", persisted.ID, "payment_intent_id", paymentRef)
		return persisted, nil
	}

	if o.notifier != nil {
		if err := o.notifier.OrderConfirmed(ctx, persisted, buyer.Email, buyer.Phone); err != nil {
			o.log.Error("order confirmation notification failed",
				"order_id", persisted.ID, "err", err)
		}
	}

	return persisted, nil
}

func (o *Orchestrator) verifyPayment(ctx context.Context, paymentRef string, total decimal.Decimal) error {
	intent, err := o.gateway.GetIntent(ctx, paymentRef)
	if err != nil {
		if errors.Is(err, payment.ErrUnavailable) {
			return fmt.Errorf("%w: verify intent %s: %s", domain.ErrGatewayUnavailable, paymentRef, err)
		}
		return fmt.Errorf("verify intent %s: %w", paymentRef, err)
	}

	if intent.Status != payment.StatusSucceeded {
		return &domain.PaymentVerificationError{
			IntentID: paymentRef,
			Reason:   fmt.Sprintf("intent status is %q, not succeeded", intent.Status),
		}
	}
	if want := payment.MinorUnits(total); intent.AmountMinor != want {
		return &domain.PaymentVerificationError{
			IntentID: paymentRef,
			Reason:   fmt.Sprintf("intent amount %d does not match order total %d", intent.AmountMinor, want),
		}
	}
	return nil
}
