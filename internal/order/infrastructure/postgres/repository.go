package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	checkout "github.com/avrele/storefront/internal/checkout/domain"
	"github.com/avrele/storefront/internal/order/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// Create writes the order row and its outbox event in one transaction. The
// priced lines are frozen as JSON. A payment intent id that already exists
// means an earlier attempt committed; the existing order is returned and
// nothing is written, so crash-retries with the same reference stay
// idempotent.
func (r *Repository) Create(ctx context.Context, o domain.Order, eventType string, payload []byte, traceparent string) (domain.Order, error) {
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return domain.Order{}, err
	}
	o.CreatedAt = time.Now().UTC()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Order{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ct, err := tx.Exec(ctx, `
		INSERT INTO orders (id, buyer_id, lines, total_amount, status, payment_intent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		ON CONFLICT (payment_intent_id) DO NOTHING
	`, o.ID, o.BuyerID, lines, o.Total, o.Status, o.PaymentIntentID, o.CreatedAt)
	if err != nil {
		return domain.Order{}, err
	}
	if ct.RowsAffected() == 0 {
		// Lost the race (or this is a retry): hand back the order that won.
		_ = tx.Rollback(ctx)
		existing, err := r.getByPaymentIntent(ctx, o.PaymentIntentID)
		if err != nil {
			return domain.Order{}, err
		}
		r.log.Info("duplicate order write skipped", "payment_intent_id", o.PaymentIntentID, "order_id", existing.ID)
		return existing, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, traceparent, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
	`, "order", o.ID, eventType, payload, traceparent)
	if err != nil {
		return domain.Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (domain.Order, error) {
	return r.scanOne(ctx, `
		SELECT id, buyer_id, lines, total_amount, status, COALESCE(payment_intent_id, ''), created_at
		FROM orders WHERE id = $1
	`, id)
}

func (r *Repository) getByPaymentIntent(ctx context.Context, intentID string) (domain.Order, error) {
	return r.scanOne(ctx, `
		SELECT id, buyer_id, lines, total_amount, status, COALESCE(payment_intent_id, ''), created_at
		FROM orders WHERE payment_intent_id = $1
	`, intentID)
}

func (r *Repository) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, buyer_id, lines, total_amount, status, COALESCE(payment_intent_id, ''), created_at
		FROM orders WHERE buyer_id = $1
		ORDER BY created_at DESC
	`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *Repository) scanOne(ctx context.Context, sql string, arg any) (domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, sql, arg).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, err
	}
	return o, nil
}

func scanOrder(scan func(dest ...any) error) (domain.Order, error) {
	var (
		o     domain.Order
		lines []byte
	)
	if err := scan(&o.ID, &o.BuyerID, &lines, &o.Total, &o.Status, &o.PaymentIntentID, &o.CreatedAt); err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(lines, &o.Lines); err != nil {
		return domain.Order{}, err
	}
	if o.Lines == nil {
		o.Lines = []checkout.PricedLine{}
	}
	return o, nil
}
