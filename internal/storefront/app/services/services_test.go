package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"hamburgueria/internal/storefront/adapter/kv"
	"hamburgueria/internal/storefront/adapter/repo"
	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/dto"
	"hamburgueria/internal/storefront/domain/models"
	"hamburgueria/internal/xpkg/logger"
)

var (
	bigBasic = models.Product{ID: "1", Name: "BIG-BASIC", Price: decimal.RequireFromString("12.99"), Category: "Hambúrgueres"}
	bigBacon = models.Product{ID: "2", Name: "BIG-BACON", Price: decimal.RequireFromString("17.99"), Category: "Hambúrgueres"}
	fixedNow = time.Date(2025, 3, 14, 18, 30, 5, 0, time.UTC)
)

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Submit(ctx context.Context, payload dto.OrderPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, models.LogEntry) error {
	return errors.New("disk full")
}

type harness struct {
	store     core.IStore
	cart      *CartService
	orders    *repo.OrderRepo
	history   *HistoryService
	lifecycle *Lifecycle
}

func newHarness(t *testing.T, sink core.IOrderSink) *harness {
	t.Helper()
	store := kv.NewMemory()
	t.Cleanup(func() { _ = store.Close() })
	return newHarnessOn(t, store, sink)
}

// newHarnessOn builds a storefront on store, which other harnesses may share.
func newHarnessOn(t *testing.T, store core.IStore, sink core.IOrderSink) *harness {
	t.Helper()
	log := logger.Nop()
	h := &harness{
		store:   store,
		cart:    NewCartService(repo.NewCartRepo(store, log), log),
		orders:  repo.NewOrderRepo(store, log),
		history: NewHistoryService(repo.NewLogRepo(store, log), 0, log),
	}
	params := LifecycleParams{
		DeliveryFee:    decimal.RequireFromString("5.00"),
		PaymentMethods: []string{"pix", "cash", "card"},
		Location:       time.UTC,
	}
	h.lifecycle = NewLifecycle(h.cart, h.orders, repo.NewCounterRepo(store, 1000), h.history, sink, params, log)
	h.lifecycle.now = func() time.Time { return fixedNow }

	seq := 0
	h.lifecycle.newID = func() string {
		seq++
		return fmt.Sprintf("order-%d", seq)
	}
	return h
}

// fillCart adds one BIG-BASIC and one BIG-BACON: subtotal 30.98.
func (h *harness) fillCart(t *testing.T, session string) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []models.Product{bigBasic, bigBacon} {
		if _, err := h.cart.AddItem(ctx, session, p); err != nil {
			t.Fatalf("add item: %v", err)
		}
	}
}
