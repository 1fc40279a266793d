package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"hamburgueria/internal/storefront/adapter/kv"
	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/models"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct {
	*kv.Memory
	getErr    error
	setErr    error
	updateErr error
}

func (b *brokenStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b.getErr != nil {
		return nil, false, b.getErr
	}
	return b.Memory.Get(ctx, key)
}

func (b *brokenStore) Set(ctx context.Context, key string, value []byte) error {
	if b.setErr != nil {
		return b.setErr
	}
	return b.Memory.Set(ctx, key, value)
}

func (b *brokenStore) Update(ctx context.Context, key string, fn func([]byte, bool) ([]byte, error)) error {
	if b.updateErr != nil {
		return b.updateErr
	}
	return b.Memory.Update(ctx, key, fn)
}

func burger(qty int) models.CartLine {
	return models.CartLine{
		Product:  models.Product{ID: "1", Name: "BIG-BASIC", Price: decimal.RequireFromString("12.99")},
		Quantity: qty,
	}
}

func TestCartRepoRoundTripPerSession(t *testing.T) {
	ctx := context.Background()
	r := NewCartRepo(kv.NewMemory(), logger.Nop())

	require.NoError(t, r.Save(ctx, "a", models.Cart{Lines: []models.CartLine{burger(2)}}))

	a, err := r.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, a.ItemCount())

	b, err := r.Load(ctx, "b")
	require.NoError(t, err)
	assert.True(t, b.Empty())
}

func TestCartRepoCorruptValueResetsToEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, core.CartKeyPrefix+"s", []byte("{not json")))

	cart, err := NewCartRepo(store, logger.Nop()).Load(ctx, "s")
	require.NoError(t, err)
	assert.True(t, cart.Empty())

	raw, ok, err := store.Get(ctx, core.CartKeyPrefix+"s")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(raw))
}

func TestCartRepoInvalidLineResetsToEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, core.CartKeyPrefix+"s", []byte(`[{"product":{"id":"1","price":"1"},"quantity":0}]`)))

	cart, err := NewCartRepo(store, logger.Nop()).Load(ctx, "s")
	require.NoError(t, err)
	assert.True(t, cart.Empty())
}

func TestCartRepoFoldsDuplicateLines(t *testing.T) {
	ctx := context.Background()
	r := NewCartRepo(kv.NewMemory(), logger.Nop())
	require.NoError(t, r.Save(ctx, "s", models.Cart{Lines: []models.CartLine{burger(1), burger(2)}}))

	cart, err := r.Load(ctx, "s")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
}

func TestRepoReadFailureIsPersistenceError(t *testing.T) {
	store := &brokenStore{Memory: kv.NewMemory(), getErr: errors.New("io")}

	_, err := NewOrderRepo(store, logger.Nop()).Load(context.Background())
	assert.ErrorIs(t, err, xerrors.ErrPersistence)
}

func TestRepoWriteFailureIsPersistenceError(t *testing.T) {
	store := &brokenStore{Memory: kv.NewMemory(), setErr: errors.New("quota exceeded")}

	err := NewProductRepo(store, logger.Nop()).Save(context.Background(), []models.Product{{ID: "1", Name: "BIG-BASIC", Price: decimal.RequireFromString("12.99")}})
	assert.ErrorIs(t, err, xerrors.ErrPersistence)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestOrderRepoRejectsCompletedOrdersOnRead(t *testing.T) {
	ctx := context.Background()
	r := NewOrderRepo(kv.NewMemory(), logger.Nop())

	good := models.Order{ID: "a", Number: 1001, Status: models.StatusKitchen, Items: []models.CartLine{burger(1)}, CreatedAt: time.Now()}
	require.NoError(t, r.Update(ctx, func([]models.Order) ([]models.Order, error) {
		return []models.Order{good}, nil
	}))

	orders, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(1001), orders[0].Number)
	assert.True(t, orders[0].Items[0].Product.Price.Equal(decimal.RequireFromString("12.99")))

	bad := good
	bad.Status = models.StatusCompleted
	require.NoError(t, r.Update(ctx, func([]models.Order) ([]models.Order, error) {
		return []models.Order{good, bad}, nil
	}))

	orders, err = r.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepoUpdate(t *testing.T) {
	ctx := context.Background()
	r := NewOrderRepo(kv.NewMemory(), logger.Nop())
	first := models.Order{ID: "a", Number: 1001, Status: models.StatusKitchen, Items: []models.CartLine{burger(1)}, CreatedAt: time.Now()}

	require.NoError(t, r.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		assert.Empty(t, orders)
		return append(orders, first), nil
	}))

	notFound := errors.New("missing")
	err := r.Update(ctx, func([]models.Order) ([]models.Order, error) {
		return nil, notFound
	})
	assert.ErrorIs(t, err, notFound)
	assert.NotErrorIs(t, err, xerrors.ErrPersistence)

	orders, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "a", orders[0].ID)
}

func TestOrderRepoUpdateReplacesCorruptValue(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, core.OrdersKey, []byte("{not json")))
	r := NewOrderRepo(store, logger.Nop())

	order := models.Order{ID: "a", Number: 1001, Status: models.StatusKitchen, Items: []models.CartLine{burger(2)}, CreatedAt: time.Now()}
	require.NoError(t, r.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		assert.Empty(t, orders)
		return append(orders, order), nil
	}))

	orders, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestRepoUpdateFailureIsPersistenceError(t *testing.T) {
	store := &brokenStore{Memory: kv.NewMemory(), updateErr: errors.New("database is locked")}

	err := NewLogRepo(store, logger.Nop()).Update(context.Background(), func(entries []models.LogEntry) ([]models.LogEntry, error) {
		return entries, nil
	})
	assert.ErrorIs(t, err, xerrors.ErrPersistence)
	assert.ErrorContains(t, err, "database is locked")
}

func TestUpdateToNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, NewLogRepo(store, logger.Nop()).Update(ctx, func([]models.LogEntry) ([]models.LogEntry, error) {
		return nil, nil
	}))

	raw, _, err := store.Get(ctx, core.LogsKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestCounterRepo(t *testing.T) {
	ctx := context.Background()
	c := NewCounterRepo(kv.NewMemory(), 1000)

	first, err := c.Next(ctx)
	require.NoError(t, err)
	second, err := c.Next(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1001), first)
	assert.Equal(t, int64(1002), second)
}

func TestProductRepo(t *testing.T) {
	ctx := context.Background()
	r := NewProductRepo(kv.NewMemory(), logger.Nop())

	products, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	require.NoError(t, r.Save(ctx, []models.Product{{ID: "1", Name: "BIG-BASIC", Price: decimal.RequireFromString("12.99")}}))
	products, err = r.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}
