package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresOrderRepository(t *testing.T) {
	pool, reset := setupPostgres(t)
	testOrderRepository(t, NewOrderRepository(pool, zerolog.Nop()), reset)
}

func TestMongoOrderRepository(t *testing.T) {
	db, reset := setupMongo(t)
	testOrderRepository(t, NewMongoOrderRepository(db, zerolog.Nop()), reset)
}

func newTestOrder(userID string, createdAt time.Time, items ...model.OrderItem) *model.Order {
	return &model.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Items:       items,
		TotalAmount: 42.5,
		Status:      model.OrderStatusPending,
		ShippingAddress: model.ShippingAddress{
			Name:       "Ada Lovelace",
			Address:    "12 St James's Square",
			City:       "London",
			PostalCode: "SW1Y 4JH",
			Country:    "UK",
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// testOrderRepository exercises the OrderRepository contract shared by
// every backend.
func testOrderRepository(t *testing.T, repo OrderRepository, reset func()) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("Create persists items and total unchanged", func(t *testing.T) {
		reset()

		order := newTestOrder("user-1", base,
			model.OrderItem{ProductID: "P002", Quantity: 3},
			model.OrderItem{ProductID: "P001", Quantity: 1},
		)
		require.NoError(t, repo.Create(ctx, order))

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, order.ID, got.ID)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, 42.5, got.TotalAmount)
		assert.Equal(t, model.OrderStatusPending, got.Status)
		assert.Equal(t, order.ShippingAddress, got.ShippingAddress)
		assert.Equal(t, []model.OrderItem{
			{ProductID: "P002", Quantity: 3},
			{ProductID: "P001", Quantity: 1},
		}, got.Items)
	})

	t.Run("GetByID of unknown ID returns nil without error", func(t *testing.T) {
		reset()

		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("List scopes by user and sorts newest first", func(t *testing.T) {
		reset()

		older := newTestOrder("user-1", base, model.OrderItem{ProductID: "P001", Quantity: 1})
		newer := newTestOrder("user-1", base.Add(time.Minute), model.OrderItem{ProductID: "P002", Quantity: 2})
		other := newTestOrder("user-2", base.Add(time.Second), model.OrderItem{ProductID: "P003", Quantity: 1})
		for _, o := range []*model.Order{older, newer, other} {
			require.NoError(t, repo.Create(ctx, o))
		}

		mine, err := repo.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, newer.ID, mine[0].ID)
		assert.Equal(t, older.ID, mine[1].ID)
		assert.Equal(t, []model.OrderItem{{ProductID: "P002", Quantity: 2}}, mine[0].Items)

		all, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		none, err := repo.List(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("UpdateStatus moves order from its current status", func(t *testing.T) {
		reset()

		order := newTestOrder("user-1", base, model.OrderItem{ProductID: "P001", Quantity: 1})
		require.NoError(t, repo.Create(ctx, order))

		later := base.Add(time.Hour)
		require.NoError(t, repo.UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusPaid, later))

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.OrderStatusPaid, got.Status)
		assert.WithinDuration(t, later, got.UpdatedAt, time.Millisecond)
		assert.Len(t, got.Items, 1)
	})

	t.Run("UpdateStatus from a stale status is rejected", func(t *testing.T) {
		reset()

		order := newTestOrder("user-1", base, model.OrderItem{ProductID: "P001", Quantity: 1})
		require.NoError(t, repo.Create(ctx, order))
		require.NoError(t, repo.UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusCancelled, base))

		err := repo.UpdateStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusPaid, base)
		assert.ErrorIs(t, err, model.ErrStatusTransition)

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.OrderStatusCancelled, got.Status)
	})

	t.Run("concurrent UpdateStatus from the same status applies once", func(t *testing.T) {
		reset()

		order := newTestOrder("user-1", base, model.OrderItem{ProductID: "P001", Quantity: 1})
		require.NoError(t, repo.Create(ctx, order))

		targets := []model.OrderStatus{model.OrderStatusCancelled, model.OrderStatusPaid}
		errs := make([]error, len(targets))
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i, to := range targets {
			wg.Add(1)
			go func(i int, to model.OrderStatus) {
				defer wg.Done()
				<-start
				errs[i] = repo.UpdateStatus(ctx, order.ID, model.OrderStatusPending, to, base)
			}(i, to)
		}
		close(start)
		wg.Wait()

		var applied model.OrderStatus
		succeeded := 0
		for i, err := range errs {
			if err == nil {
				succeeded++
				applied = targets[i]
				continue
			}
			assert.ErrorIs(t, err, model.ErrStatusTransition)
		}
		require.Equal(t, 1, succeeded)

		got, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, applied, got.Status)
	})

	t.Run("UpdateStatus of unknown ID is rejected", func(t *testing.T) {
		reset()

		err := repo.UpdateStatus(ctx, uuid.New(), model.OrderStatusPending, model.OrderStatusPaid, base)
		assert.ErrorIs(t, err, model.ErrStatusTransition)
	})
}
