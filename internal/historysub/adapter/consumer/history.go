package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"hamburgueria/internal/historysub/domain/dto"
	"hamburgueria/internal/xpkg/config"
	"hamburgueria/internal/xpkg/logger"
	"hamburgueria/internal/xpkg/rabbitmq"
)

const prefetch = 10

// History follows the completed orders published by the storefront and logs
// one record per order.
type History struct {
	cfg    *config.Config
	mylog  logger.Logger
	mb     *rabbitmq.Conn
	ctx    context.Context
	appCtx context.Context

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewHistory(ctx, appCtx context.Context, cfg *config.Config, mylog logger.Logger) *History {
	return &History{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
	}
}

// Run blocks until ctx is done or the broker closes the delivery channel.
func (h *History) Run() error {
	mylog := h.mylog.Action("history_subscriber_run")

	mb, err := rabbitmq.Connect(h.appCtx, h.cfg.RMQ, h.mylog)
	if err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	h.mu.Lock()
	h.mb = mb
	h.mu.Unlock()
	mylog.Action("mb_connected").Info("Successful message broker connection")

	ch := mb.Channel()
	if err := rabbitmq.DeclareQueue(ch, h.cfg.RMQ.Exchange, h.cfg.RMQ.Queue, rabbitmq.CompletedKey); err != nil {
		return err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.ConsumeWithContext(h.ctx, h.cfg.RMQ.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume message from rabbitmq: %w", err)
	}
	mylog.Info("Waiting for completed orders", "queue", h.cfg.RMQ.Queue)

	h.work(deliveries)
	return nil
}

func (h *History) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.mylog.Action("graceful_shutdown_started").Info("Shutting down")
	h.wg.Wait()

	if h.mb != nil {
		if err := h.mb.Close(); err != nil {
			h.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		h.mylog.Action("mb_closed").Info("Message broker closed")
	}

	h.mylog.Action("graceful_shutdown_completed").Info("Successfully shut down")
	return nil
}

func (h *History) work(deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-h.ctx.Done():
			h.mylog.Action("work_shutdown").Info("Stopping message consumption due to context cancel")
			return

		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			h.wg.Add(1)
			go func(msg amqp.Delivery) {
				defer h.wg.Done()
				h.handle(msg)
			}(msg)
		}
	}
}

// handle acks logged orders and rejects malformed ones without requeue.
func (h *History) handle(msg amqp.Delivery) {
	order, number, err := decode(msg.Body)
	if err != nil {
		h.mylog.Action("history_message_rejected").Warn("Rejecting malformed message", "error", err.Error(), "message_id", msg.MessageId)
		if err := msg.Reject(false); err != nil {
			h.mylog.Action("reject").Error("Failed to reject message", err)
		}
		return
	}

	h.mylog.Action("order_completed").WithGroup("details").Info("Order completed",
		"order_number", number,
		"customer", order.Customer.Name,
		"delivery_type", order.DeliveryType,
		"payment_method", order.PaymentMethod,
		"total", order.Total.StringFixed(2),
		"items", strings.Count(order.ItemsSummary, "\n")+1,
	)

	if err := msg.Ack(false); err != nil {
		h.mylog.Action("ack").Error("Failed to ack message", err, "order_number", number)
	}
}

func decode(body []byte) (dto.CompletedOrder, int64, error) {
	var order dto.CompletedOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return order, 0, fmt.Errorf("unmarshal message: %w", err)
	}
	number, err := order.Number()
	if err != nil {
		return order, 0, err
	}
	if order.Total.IsNegative() {
		return order, 0, fmt.Errorf("order %d has negative total", number)
	}
	return order, number, nil
}
