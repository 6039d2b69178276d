package application

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/avrele/storefront/internal/catalog/domain"
	orderdomain "github.com/avrele/storefront/internal/order/domain"
	"github.com/avrele/storefront/internal/payment"
)

// fakeCatalog implements CatalogReader over a fixed product map.
type fakeCatalog struct {
	products map[int64]catalogdomain.Product
	err      error
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (catalogdomain.Product, error) {
	if f.err != nil {
		return catalogdomain.Product{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return catalogdomain.Product{}, catalogdomain.ErrNotFound
	}
	return p, nil
}

// fakeGateway implements PaymentGateway. Intents registered in the map are
// returned by GetIntent; CreateIntent records what the orchestrator asked
// for.
type fakeGateway struct {
	intents   map[string]payment.Intent
	createErr error
	getErr    error

	createdAmounts []int64
	getCalls       int
}

func (f *fakeGateway) CreateIntent(_ context.Context, amountMinor int64) (payment.Intent, error) {
	if f.createErr != nil {
		return payment.Intent{}, f.createErr
	}
	f.createdAmounts = append(f.createdAmounts, amountMinor)
	return payment.Intent{
		ID:           "pi_test_1",
		ClientSecret: "pi_test_1_secret",
		AmountMinor:  amountMinor,
		Status:       "requires_payment_method",
	}, nil
}

func (f *fakeGateway) GetIntent(_ context.Context, id string) (payment.Intent, error) {
	f.getCalls++
	if f.getErr != nil {
		return payment.Intent{}, f.getErr
	}
	intent, ok := f.intents[id]
	if !ok {
		return payment.Intent{}, errors.New("no such intent")
	}
	return intent, nil
}

// fakeStore implements OrderStore in memory with the same idempotency
// contract as the Postgres repository: a repeated payment intent id returns
// the order that was written first.
type fakeStore struct {
	createErr error
	orders    []orderdomain.Order
	byIntent  map[string]orderdomain.Order
	payloads  [][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{byIntent: map[string]orderdomain.Order{}}
}

func (f *fakeStore) Create(_ context.Context, o orderdomain.Order, _ string, payload []byte, _ string) (orderdomain.Order, error) {
	if f.createErr != nil {
		return orderdomain.Order{}, f.createErr
	}
	if o.PaymentIntentID != "" {
		if existing, ok := f.byIntent[o.PaymentIntentID]; ok {
			return existing, nil
		}
	}
	o.CreatedAt = time.Now().UTC()
	f.orders = append(f.orders, o)
	f.payloads = append(f.payloads, payload)
	if o.PaymentIntentID != "" {
		f.byIntent[o.PaymentIntentID] = o
	}
	return o, nil
}

type fakeNotifier struct {
	err   error
	calls int
	last  orderdomain.Order
}

func (f *fakeNotifier) OrderConfirmed(_ context.Context, o orderdomain.Order, _, _ string) error {
	f.calls++
	f.last = o
	return f.err
}
