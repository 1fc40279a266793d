package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamburgueria/internal/storefront/adapter/kv"
	"hamburgueria/internal/storefront/adapter/repo"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

func newCartService(t *testing.T) (*CartService, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	return NewCartService(repo.NewCartRepo(store, logger.Nop()), logger.Nop()), store
}

func TestCartAddItemMergesLines(t *testing.T) {
	cs, _ := newCartService(t)
	ctx := context.Background()

	_, err := cs.AddItem(ctx, "s1", bigBasic)
	require.NoError(t, err)
	_, err = cs.AddItem(ctx, "s1", bigBacon)
	require.NoError(t, err)
	cart, err := cs.AddItem(ctx, "s1", bigBasic)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "1", cart.Lines[0].Product.ID)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, "43.97", cart.Subtotal().StringFixed(2))

	count, err := cs.ItemCount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCartMutationsArePersisted(t *testing.T) {
	cs, store := newCartService(t)
	ctx := context.Background()

	_, err := cs.AddItem(ctx, "s1", bigBasic)
	require.NoError(t, err)

	reopened := NewCartService(repo.NewCartRepo(store, logger.Nop()), logger.Nop())
	cart, err := reopened.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount())
}

func TestCartSetQuantity(t *testing.T) {
	cs, _ := newCartService(t)
	ctx := context.Background()
	_, err := cs.AddItem(ctx, "s1", bigBasic)
	require.NoError(t, err)
	_, err = cs.AddItem(ctx, "s1", bigBacon)
	require.NoError(t, err)

	cart, err := cs.SetQuantity(ctx, "s1", "1", 4)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.ItemCount())

	cart, err = cs.SetQuantity(ctx, "s1", "missing", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.ItemCount())

	cart, err = cs.SetQuantity(ctx, "s1", "2", 0)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "1", cart.Lines[0].Product.ID)

	cart, err = cs.SetQuantity(ctx, "s1", "1", -2)
	require.NoError(t, err)
	assert.True(t, cart.Empty())
}

func TestCartClear(t *testing.T) {
	cs, _ := newCartService(t)
	ctx := context.Background()
	_, err := cs.AddItem(ctx, "s1", bigBasic)
	require.NoError(t, err)
	_, err = cs.AddItem(ctx, "s2", bigBacon)
	require.NoError(t, err)

	require.NoError(t, cs.Clear(ctx, "s1"))

	cart, err := cs.Cart(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, cart.Empty())

	other, err := cs.Cart(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, other.ItemCount())
}

func TestCartRejectsEmptySession(t *testing.T) {
	cs, _ := newCartService(t)
	ctx := context.Background()

	_, err := cs.AddItem(ctx, " ", bigBasic)
	assert.ErrorIs(t, err, xerrors.ErrValidation)
	_, err = cs.Cart(ctx, "")
	assert.ErrorIs(t, err, xerrors.ErrValidation)
	assert.ErrorIs(t, cs.Clear(ctx, ""), xerrors.ErrValidation)
}

func TestCartRejectsInvalidProduct(t *testing.T) {
	cs, _ := newCartService(t)
	noID := bigBasic
	noID.ID = ""
	_, err := cs.AddItem(context.Background(), "s1", noID)
	assert.ErrorIs(t, err, xerrors.ErrValidation)
}
