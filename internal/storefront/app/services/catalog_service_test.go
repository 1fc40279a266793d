package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamburgueria/internal/storefront/domain/models"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

type stubProvider struct {
	products []models.Product
	err      error
	calls    int
}

func (s *stubProvider) FetchProducts(context.Context) ([]models.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

type adminProvider struct {
	stubProvider
}

func (a *adminProvider) AddProduct(_ context.Context, p models.Product) (models.Product, error) {
	p.ID = "99"
	a.products = append(a.products, p)
	return p, nil
}

func (a *adminProvider) DeleteProduct(_ context.Context, id string) error {
	for i, p := range a.products {
		if p.ID == id {
			a.products = append(a.products[:i], a.products[i+1:]...)
			return nil
		}
	}
	return xerrors.ErrNotFound
}

func TestCatalogLazyLoadAndLookup(t *testing.T) {
	provider := &stubProvider{products: []models.Product{bigBasic, bigBacon}}
	cs := NewCatalogService(provider, logger.Nop())
	ctx := context.Background()

	products, err := cs.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	p, err := cs.Product(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "BIG-BACON", p.Name)

	_, err = cs.Product(ctx, "404")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.Equal(t, 1, provider.calls)
}

func TestCatalogRefreshKeepsLastKnownGood(t *testing.T) {
	provider := &stubProvider{products: []models.Product{bigBasic}}
	cs := NewCatalogService(provider, logger.Nop())
	ctx := context.Background()
	require.NoError(t, cs.Refresh(ctx))

	provider.err = errors.New("timeout")
	require.Error(t, cs.Refresh(ctx))

	products, err := cs.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "1", products[0].ID)
}

func TestCatalogFailedFirstLoadServesEmptyAndRetries(t *testing.T) {
	provider := &stubProvider{err: errors.New("network down")}
	cs := NewCatalogService(provider, logger.Nop())
	ctx := context.Background()

	products, err := cs.Products(ctx)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	categories, err := cs.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	_, err = cs.Product(ctx, "1")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	err = cs.Refresh(ctx)
	assert.ErrorIs(t, err, xerrors.ErrRemote)
	assert.Equal(t, 4, provider.calls)

	provider.err = nil
	provider.products = []models.Product{bigBasic}
	products, err = cs.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 5, provider.calls)

	_, err = cs.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, provider.calls)
}

func TestCatalogRefreshSkipsInvalidAndDuplicates(t *testing.T) {
	bad := models.Product{Name: "no id"}
	provider := &stubProvider{products: []models.Product{bigBasic, bad, bigBasic, bigBacon}}
	cs := NewCatalogService(provider, logger.Nop())

	products, err := cs.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestCatalogCategories(t *testing.T) {
	drink := models.Product{ID: "9", Name: "COCA", Category: "Bebidas"}
	provider := &stubProvider{products: []models.Product{bigBasic, drink, bigBacon}}
	cs := NewCatalogService(provider, logger.Nop())

	categories, err := cs.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hambúrgueres", "Bebidas"}, categories)
}

func TestCatalogAdmin(t *testing.T) {
	provider := &adminProvider{stubProvider{products: []models.Product{bigBasic}}}
	cs := NewCatalogService(provider, logger.Nop())
	ctx := context.Background()

	created, err := cs.AddProduct(ctx, models.Product{Name: " X-TUDO ", Price: bigBacon.Price})
	require.NoError(t, err)
	assert.Equal(t, "99", created.ID)
	assert.Equal(t, "X-TUDO", created.Name)

	products, err := cs.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	require.NoError(t, cs.DeleteProduct(ctx, "1"))
	products, err = cs.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "99", products[0].ID)

	_, err = cs.AddProduct(ctx, models.Product{Name: ""})
	assert.ErrorIs(t, err, xerrors.ErrValidation)
}

func TestCatalogReadOnlyProvider(t *testing.T) {
	cs := NewCatalogService(&stubProvider{}, logger.Nop())
	_, err := cs.AddProduct(context.Background(), models.Product{Name: "X"})
	assert.ErrorIs(t, err, xerrors.ErrRemote)
	assert.ErrorIs(t, cs.DeleteProduct(context.Background(), "1"), xerrors.ErrRemote)
}
