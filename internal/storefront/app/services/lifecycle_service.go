package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/dto"
	"hamburgueria/internal/storefront/domain/models"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

type LifecycleParams struct {
	DeliveryFee    decimal.Decimal
	PaymentMethods []string
	Location       *time.Location
}

// Lifecycle moves orders kitchen -> payment -> completed. It is the only
// writer of the active order set and the only producer of log entries.
// Every change to the active set is one atomic store update, so several
// lifecycles may share a store; mu only orders the calls of this process.
type Lifecycle struct {
	mu sync.Mutex

	cart      core.ICart
	orderRepo core.IOrderRepo
	counter   core.ICounter
	history   core.ILogAppender
	sink      core.IOrderSink

	fee     decimal.Decimal
	methods map[string]bool
	loc     *time.Location

	now   func() time.Time
	newID func() string

	mylog logger.Logger
}

// NewLifecycle builds the order lifecycle. sink may be nil, in which case
// finalize only touches local state.
func NewLifecycle(
	cart core.ICart,
	orderRepo core.IOrderRepo,
	counter core.ICounter,
	history core.ILogAppender,
	sink core.IOrderSink,
	params LifecycleParams,
	mylogger logger.Logger,
) *Lifecycle {
	methods := make(map[string]bool, len(params.PaymentMethods))
	for _, m := range params.PaymentMethods {
		methods[normalizeMethod(m)] = true
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	return &Lifecycle{
		cart:      cart,
		orderRepo: orderRepo,
		counter:   counter,
		history:   history,
		sink:      sink,
		fee:       params.DeliveryFee,
		methods:   methods,
		loc:       loc,
		now:       time.Now,
		newID:     uuid.NewString,
		mylog:     mylogger,
	}
}

func normalizeMethod(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}

func validateCustomer(c models.Customer, isDelivery bool) (models.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)

	if c.Name == "" {
		return c, xerrors.NewValidation("customer.name", "must not be empty")
	}
	if len(c.Name) > core.MaxCustomerNameLen {
		return c, xerrors.NewValidation("customer.name", fmt.Sprintf("must be at most %d bytes", core.MaxCustomerNameLen))
	}

	if !isDelivery {
		c.Address = ""
		return c, nil
	}
	if c.Address == "" {
		return c, xerrors.NewValidation("customer.address", "is required for delivery")
	}
	if len(c.Address) > core.MaxAddressLen {
		return c, xerrors.NewValidation("customer.address", fmt.Sprintf("must be at most %d bytes", core.MaxAddressLen))
	}
	return c, nil
}

// SubmitOrder turns the session cart into a kitchen order and empties the cart.
// Nothing is mutated when a precondition fails.
func (ls *Lifecycle) SubmitOrder(ctx context.Context, sessionID string, req dto.SubmitOrderRequest) (models.Order, error) {
	mylog := ls.mylog.Action("submit_order")

	customer, err := validateCustomer(req.Customer, req.IsDelivery)
	if err != nil {
		mylog.Debug("Rejected order", "reason", err.Error())
		return models.Order{}, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	cart, err := ls.cart.Cart(ctx, sessionID)
	if err != nil {
		return models.Order{}, err
	}
	if cart.Empty() {
		return models.Order{}, xerrors.NewValidation("cart", "is empty")
	}

	number, err := ls.counter.Next(ctx)
	if err != nil {
		mylog.Error("Failed to allocate order number", err)
		return models.Order{}, err
	}

	subtotal := cart.Subtotal()
	fee := decimal.Zero
	if req.IsDelivery {
		fee = ls.fee
	}
	items := make([]models.CartLine, len(cart.Lines))
	copy(items, cart.Lines)

	order := models.Order{
		ID:          ls.newID(),
		Number:      number,
		Customer:    customer,
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		IsDelivery:  req.IsDelivery,
		Status:      models.StatusKitchen,
		CreatedAt:   ls.now().UTC(),
	}

	err = ls.orderRepo.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		return append(orders, order), nil
	})
	if err != nil {
		mylog.Error("Failed to save order", err, "order_number", number)
		return models.Order{}, err
	}

	if err := ls.cart.Clear(ctx, sessionID); err != nil {
		mylog.Error("Failed to clear cart, rolling back order", err, "order_number", number)
		if rbErr := ls.removeOrder(ctx, order.ID); rbErr != nil {
			mylog.Error("Failed to roll back order", rbErr, "order_number", number)
		}
		return models.Order{}, err
	}

	mylog.Info("Order sent to kitchen", "order_id", order.ID, "order_number", number, "total", order.Total.StringFixed(2))
	return order, nil
}

func findOrder(orders []models.Order, orderID string) int {
	for i, o := range orders {
		if o.ID == orderID {
			return i
		}
	}
	return -1
}

func notFound(orderID string) error {
	return fmt.Errorf("order %s: %w", orderID, xerrors.ErrNotFound)
}

func (ls *Lifecycle) removeOrder(ctx context.Context, orderID string) error {
	return ls.orderRepo.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		if i := findOrder(orders, orderID); i >= 0 {
			orders = append(orders[:i], orders[i+1:]...)
		}
		return orders, nil
	})
}

// restoreOrder puts order back into the active set unless it is already there.
func (ls *Lifecycle) restoreOrder(ctx context.Context, order models.Order) error {
	return ls.orderRepo.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		if findOrder(orders, order.ID) < 0 {
			orders = append(orders, order)
		}
		return orders, nil
	})
}

// MarkReady moves a kitchen order to payment.
func (ls *Lifecycle) MarkReady(ctx context.Context, orderID string) (models.Order, error) {
	mylog := ls.mylog.Action("mark_ready")

	ls.mu.Lock()
	defer ls.mu.Unlock()

	var order models.Order
	err := ls.orderRepo.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		i := findOrder(orders, orderID)
		if i < 0 {
			return nil, notFound(orderID)
		}
		if orders[i].Status != models.StatusKitchen {
			return nil, xerrors.NewState(orderID, string(orders[i].Status), string(models.StatusKitchen))
		}
		orders[i].Status = models.StatusPayment
		order = orders[i]
		return orders, nil
	})
	if err != nil {
		if errors.Is(err, xerrors.ErrState) {
			mylog.Warn("Order is not in the kitchen", "order_id", orderID, "reason", err.Error())
		}
		return models.Order{}, err
	}

	mylog.Info("Order ready for payment", "order_id", orderID, "order_number", order.Number)
	return order, nil
}

// Finalize completes a payment order. The remote sink, when configured, is
// called first; a sink failure leaves the order in payment.
//
// A retry after a local failure posts the same payload again. The sink
// deduplicates on the payload's order id ("#<number>"), which never changes
// for an order.
func (ls *Lifecycle) Finalize(ctx context.Context, orderID, paymentMethod string) (models.LogEntry, error) {
	mylog := ls.mylog.Action("finalize_order")

	method := normalizeMethod(paymentMethod)
	if method == "" {
		return models.LogEntry{}, xerrors.NewValidation("payment_method", "must not be empty")
	}
	if !ls.methods[method] {
		return models.LogEntry{}, xerrors.NewValidation("payment_method", fmt.Sprintf("%q is not accepted", paymentMethod))
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	pending, err := ls.Get(ctx, orderID)
	if err != nil {
		return models.LogEntry{}, err
	}
	if pending.Status != models.StatusPayment {
		mylog.Warn("Order is not waiting for payment", "order_id", orderID, "status", pending.Status)
		return models.LogEntry{}, xerrors.NewState(orderID, string(pending.Status), string(models.StatusPayment))
	}

	if ls.sink != nil {
		if err := ls.sink.Submit(ctx, dto.NewOrderPayload(pending, method)); err != nil {
			mylog.Error("Order sink rejected the order", err, "order_number", pending.Number)
			return models.LogEntry{}, xerrors.Remote("submit order", err)
		}
	}

	// another storefront may have finalized it while the sink was called
	err = ls.orderRepo.Update(ctx, func(orders []models.Order) ([]models.Order, error) {
		i := findOrder(orders, orderID)
		if i < 0 {
			return nil, notFound(orderID)
		}
		if orders[i].Status != models.StatusPayment {
			return nil, xerrors.NewState(orderID, string(orders[i].Status), string(models.StatusPayment))
		}
		return append(orders[:i], orders[i+1:]...), nil
	})
	if err != nil {
		mylog.Error("Failed to remove completed order", err, "order_id", orderID)
		return models.LogEntry{}, err
	}

	completed := pending
	completed.Status = models.StatusCompleted
	completed.PaymentMethod = method
	entry := ls.newLogEntry(completed)

	if err := ls.history.Append(ctx, entry); err != nil {
		mylog.Error("Failed to log order, restoring it", err, "order_number", pending.Number)
		if rbErr := ls.restoreOrder(ctx, pending); rbErr != nil {
			mylog.Error("Failed to restore order", rbErr, "order_id", orderID)
		}
		return models.LogEntry{}, err
	}

	mylog.Info("Order completed", "order_number", pending.Number, "payment_method", method, "total", pending.Total.StringFixed(2))
	return entry, nil
}

func (ls *Lifecycle) newLogEntry(order models.Order) models.LogEntry {
	completedAt := ls.now()
	return models.LogEntry{
		OrderNumber:   order.Number,
		DateTime:      completedAt.In(ls.loc).Format(core.LogDateTimeLayout),
		CompletedAt:   completedAt.UTC(),
		CustomerName:  order.Customer.Name,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		Customer:      order.Customer,
		Items:         order.Items,
		Subtotal:      order.Subtotal,
		DeliveryFee:   order.DeliveryFee,
		IsDelivery:    order.IsDelivery,
	}
}

// ListByStatus returns the active orders in status, oldest number first.
// Completed orders live in the history, so that status always lists nothing.
func (ls *Lifecycle) ListByStatus(ctx context.Context, status models.Status) ([]models.Order, error) {
	if !status.Valid() {
		return nil, xerrors.NewValidation("status", fmt.Sprintf("unknown status %q", status))
	}
	result := []models.Order{}
	if !status.Active() {
		return result, nil
	}

	orders, err := ls.orderRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Status == status {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (ls *Lifecycle) Get(ctx context.Context, orderID string) (models.Order, error) {
	orders, err := ls.orderRepo.Load(ctx)
	if err != nil {
		return models.Order{}, err
	}
	i := findOrder(orders, orderID)
	if i < 0 {
		return models.Order{}, notFound(orderID)
	}
	return orders[i], nil
}

// Counts returns how many orders wait in the kitchen and at payment.
func (ls *Lifecycle) Counts(ctx context.Context) (kitchen, payment int, err error) {
	orders, err := ls.orderRepo.Load(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, o := range orders {
		switch o.Status {
		case models.StatusKitchen:
			kitchen++
		case models.StatusPayment:
			payment++
		}
	}
	return kitchen, payment, nil
}
