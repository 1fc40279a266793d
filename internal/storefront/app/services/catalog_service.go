package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/models"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

// CatalogService serves a read-only snapshot of the menu. The provider owns
// the products; the snapshot is replaced only by a successful Refresh.
type CatalogService struct {
	mu       sync.RWMutex
	products []models.Product
	loaded   bool

	provider core.ICatalogProvider
	mylog    logger.Logger
}

func NewCatalogService(provider core.ICatalogProvider, mylogger logger.Logger) *CatalogService {
	return &CatalogService{
		provider: provider,
		mylog:    mylogger,
	}
}

// Refresh fetches the provider list. On failure the last known snapshot is kept.
func (cs *CatalogService) Refresh(ctx context.Context) error {
	mylog := cs.mylog.Action("catalog_refresh")

	products, err := cs.provider.FetchProducts(ctx)
	if err != nil {
		mylog.Error("Failed to fetch catalog, keeping last snapshot", err)
		if !errors.Is(err, xerrors.ErrRemote) {
			err = xerrors.Remote("fetch catalog", err)
		}
		return err
	}

	valid := make([]models.Product, 0, len(products))
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			mylog.Warn("Skipping product", "reason", err.Error())
			continue
		}
		if seen[p.ID] {
			mylog.Warn("Skipping duplicate product", "product_id", p.ID)
			continue
		}
		seen[p.ID] = true
		valid = append(valid, p)
	}

	cs.mu.Lock()
	cs.products = valid
	cs.loaded = true
	cs.mu.Unlock()

	mylog.Info("Catalog refreshed", "products", len(valid))
	return nil
}

// ensureLoaded fetches the first snapshot. Until a fetch succeeds the catalog
// is served empty and every call tries the provider again.
func (cs *CatalogService) ensureLoaded(ctx context.Context) {
	cs.mu.RLock()
	loaded := cs.loaded
	cs.mu.RUnlock()
	if loaded {
		return
	}
	if err := cs.Refresh(ctx); err != nil {
		cs.mylog.Action("catalog_load").Warn("Serving an empty catalog", "reason", err.Error())
	}
}

func (cs *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	cs.ensureLoaded(ctx)
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := make([]models.Product, len(cs.products))
	copy(out, cs.products)
	return out, nil
}

func (cs *CatalogService) Product(ctx context.Context, id string) (models.Product, error) {
	cs.ensureLoaded(ctx)
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	for _, p := range cs.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("product %s: %w", id, xerrors.ErrNotFound)
}

// Categories lists distinct categories in first-seen order.
func (cs *CatalogService) Categories(ctx context.Context) ([]string, error) {
	products, err := cs.Products(ctx)
	if err != nil {
		return nil, err
	}
	categories := []string{}
	seen := map[string]bool{}
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories, nil
}

func (cs *CatalogService) admin() (core.IProductAdmin, error) {
	admin, ok := cs.provider.(core.IProductAdmin)
	if !ok {
		return nil, fmt.Errorf("catalog provider is read-only: %w", xerrors.ErrRemote)
	}
	return admin, nil
}

// AddProduct asks the provider to create p and refreshes the snapshot.
func (cs *CatalogService) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	mylog := cs.mylog.Action("catalog_add_product")

	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return models.Product{}, xerrors.NewValidation("name", "must not be empty")
	}
	if p.Price.IsNegative() {
		return models.Product{}, xerrors.NewValidation("price", "must not be negative")
	}

	admin, err := cs.admin()
	if err != nil {
		return models.Product{}, err
	}
	created, err := admin.AddProduct(ctx, p)
	if err != nil {
		mylog.Error("Failed to add product", err, "name", p.Name)
		return models.Product{}, err
	}
	mylog.Info("Product added", "product_id", created.ID)

	if err := cs.Refresh(ctx); err != nil {
		return created, err
	}
	return created, nil
}

func (cs *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	mylog := cs.mylog.Action("catalog_delete_product")

	if strings.TrimSpace(id) == "" {
		return xerrors.NewValidation("id", "must not be empty")
	}
	admin, err := cs.admin()
	if err != nil {
		return err
	}
	if err := admin.DeleteProduct(ctx, id); err != nil {
		mylog.Error("Failed to delete product", err, "product_id", id)
		return err
	}
	mylog.Info("Product deleted", "product_id", id)
	return cs.Refresh(ctx)
}
