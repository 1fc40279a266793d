package repo

import (
	"context"
	"fmt"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/models"
	"hamburgueria/internal/xpkg/logger"
)

type LogRepo struct {
	logs collection[models.LogEntry]
}

func NewLogRepo(store core.IStore, mylog logger.Logger) *LogRepo {
	return &LogRepo{
		logs: collection[models.LogEntry]{
			store:    store,
			key:      core.LogsKey,
			validate: validateLogEntry,
			mylog:    mylog,
		},
	}
}

func (lr *LogRepo) Load(ctx context.Context) ([]models.LogEntry, error) {
	return lr.logs.load(ctx)
}

func (lr *LogRepo) Update(ctx context.Context, fn func([]models.LogEntry) ([]models.LogEntry, error)) error {
	return lr.logs.update(ctx, fn)
}

func validateLogEntry(e models.LogEntry) error {
	if e.OrderNumber <= 0 {
		return fmt.Errorf("log entry has order number %d", e.OrderNumber)
	}
	if e.Total.IsNegative() {
		return fmt.Errorf("log entry %d has negative total", e.OrderNumber)
	}
	return nil
}

type ProductRepo struct {
	products collection[models.Product]
}

func NewProductRepo(store core.IStore, mylog logger.Logger) *ProductRepo {
	return &ProductRepo{
		products: collection[models.Product]{
			store:    store,
			key:      core.ProductsKey,
			validate: models.Product.Validate,
			mylog:    mylog,
		},
	}
}

func (pr *ProductRepo) Load(ctx context.Context) ([]models.Product, error) {
	return pr.products.load(ctx)
}

func (pr *ProductRepo) Save(ctx context.Context, products []models.Product) error {
	return pr.products.save(ctx, products)
}
