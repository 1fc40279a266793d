package core

import (
	"context"

	"hamburgueria/internal/storefront/domain/dto"
	"hamburgueria/internal/storefront/domain/models"
)

// IStore is the local persistent key-value store every repository sits on.
type IStore interface {
	// Get returns ok=false when key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// Update replaces the value at key with what fn returns. No other writer
	// touches key between the read and the write, across every process
	// sharing the store. An error from fn aborts the write and is returned
	// as is.
	Update(ctx context.Context, key string, fn func(value []byte, ok bool) ([]byte, error)) error
	// Increment atomically bumps the counter at key and returns the new
	// value. An absent counter starts from initial, so the first call
	// returns initial+1.
	Increment(ctx context.Context, key string, initial int64) (int64, error)
	IsAlive(ctx context.Context) error
	Close() error
}

type ICartRepo interface {
	Load(ctx context.Context, sessionID string) (models.Cart, error)
	Save(ctx context.Context, sessionID string, cart models.Cart) error
}

type IOrderRepo interface {
	Load(ctx context.Context) ([]models.Order, error)
	// Update applies fn to the active set atomically.
	Update(ctx context.Context, fn func([]models.Order) ([]models.Order, error)) error
}

type ILogRepo interface {
	Load(ctx context.Context) ([]models.LogEntry, error)
	Update(ctx context.Context, fn func([]models.LogEntry) ([]models.LogEntry, error)) error
}

type IProductRepo interface {
	Load(ctx context.Context) ([]models.Product, error)
	Save(ctx context.Context, products []models.Product) error
}

type ICounter interface {
	Next(ctx context.Context) (int64, error)
}

type ICatalogProvider interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

// IProductAdmin is implemented by providers that accept catalog edits.
type IProductAdmin interface {
	AddProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type IOrderSink interface {
	Submit(ctx context.Context, payload dto.OrderPayload) error
}

// ICart is the slice of the cart service the order lifecycle needs.
type ICart interface {
	Cart(ctx context.Context, sessionID string) (models.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// ILogAppender is the only way the lifecycle writes history.
type ILogAppender interface {
	Append(ctx context.Context, entry models.LogEntry) error
}

type IAuthenticator interface {
	Login(password string) (token string, err error)
	IsAuthenticated(token string) bool
	Logout(token string)
}
