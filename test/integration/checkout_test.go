package integration

import (
	"context"
	"log/slog"
	"testing"
	"time"

	checkout "github.com/avrele/storefront/internal/checkout/domain"
	orderdomain "github.com/avrele/storefront/internal/order/domain"
	orderpg "github.com/avrele/storefront/internal/order/infrastructure/postgres"
	"github.com/avrele/storefront/migrations"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPersistence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	env, err := Setup(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { env.Teardown(context.Background()) })

	require.NoError(t, migrations.Up(env.PGURL))

	pool, err := pgxpool.New(ctx, env.PGURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := orderpg.NewRepository(slog.Default(), pool)
	store := orderpg.NewOutboxStore(slog.Default(), pool)

	ord := orderdomain.Order{
		ID:      uuid.NewString(),
		BuyerID: "7",
		Lines: []checkout.PricedLine{
			{ProductID: 1, Title: "Mug", UnitPrice: decimal.NewFromInt(50), Qty: 2, LineTotal: decimal.NewFromInt(100)},
		},
		Total:           decimal.NewFromInt(120),
		Status:          orderdomain.StatusConfirmed,
		PaymentIntentID: "pi_integration_1",
	}

	t.Run("create persists order and outbox event", func(t *testing.T) {
		persisted, err := repo.Create(ctx, ord, orderdomain.EventOrderConfirmed, []byte(`{"orderId":"`+ord.ID+`"}`), "")
		require.NoError(t, err)
		assert.Equal(t, ord.ID, persisted.ID)

		got, err := repo.GetByID(ctx, ord.ID)
		require.NoError(t, err)
		assert.Equal(t, "7", got.BuyerID)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(120)))
		require.Len(t, got.Lines, 1)
		assert.Equal(t, "Mug", got.Lines[0].Title)
	})

	t.Run("retry with same payment intent returns existing order", func(t *testing.T) {
		retry := ord
		retry.ID = uuid.NewString()

		persisted, err := repo.Create(ctx, retry, orderdomain.EventOrderConfirmed, []byte(`{}`), "")
		require.NoError(t, err)
		assert.Equal(t, ord.ID, persisted.ID, "the first attempt's order must win")

		orders, err := repo.ListByBuyer(ctx, "7")
		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("outbox relay lifecycle", func(t *testing.T) {
		events, err := store.LockBatch(ctx, "relay-it", 10, 5*time.Second)
		require.NoError(t, err)
		require.Len(t, events, 1, "the retry must not enqueue a second event")
		assert.Equal(t, ord.ID, events[0].AggregateID)
		assert.Equal(t, orderdomain.EventOrderConfirmed, events[0].Type)

		require.NoError(t, store.MarkSent(ctx, []int64{events[0].ID}))

		again, err := store.LockBatch(ctx, "relay-it", 10, 5*time.Second)
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("unknown order id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, orderdomain.ErrNotFound)
	})
}
