package repo

import (
	"context"
	"errors"
	"fmt"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/models"
	"hamburgueria/internal/xpkg/logger"
)

type OrderRepo struct {
	orders collection[models.Order]
}

func NewOrderRepo(store core.IStore, mylog logger.Logger) *OrderRepo {
	return &OrderRepo{
		orders: collection[models.Order]{
			store:    store,
			key:      core.OrdersKey,
			validate: validateOrder,
			mylog:    mylog,
		},
	}
}

func (or *OrderRepo) Load(ctx context.Context) ([]models.Order, error) {
	return or.orders.load(ctx)
}

func (or *OrderRepo) Update(ctx context.Context, fn func([]models.Order) ([]models.Order, error)) error {
	return or.orders.update(ctx, fn)
}

func validateOrder(o models.Order) error {
	if o.ID == "" {
		return errors.New("order id is empty")
	}
	if o.Number <= 0 {
		return fmt.Errorf("order %s has number %d", o.ID, o.Number)
	}
	if !o.Status.Active() {
		return fmt.Errorf("order %s has status %q in the active set", o.ID, o.Status)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("order %s has no items", o.ID)
	}
	for _, item := range o.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("order %s: %w", o.ID, err)
		}
	}
	return nil
}

type CounterRepo struct {
	store   core.IStore
	initial int64
}

// NewCounterRepo hands out order numbers starting at initial+1.
func NewCounterRepo(store core.IStore, initial int64) *CounterRepo {
	return &CounterRepo{store: store, initial: initial}
}

func (cr *CounterRepo) Next(ctx context.Context) (int64, error) {
	return cr.store.Increment(ctx, core.OrderCounterKey, cr.initial)
}
