package brokermessage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hamburgueria/internal/storefront/domain/dto"
	"hamburgueria/internal/xpkg/logger"
	"hamburgueria/internal/xpkg/rabbitmq"
)

// IPublisher is the part of *amqp.Channel the sink publishes through.
type IPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// OrderSink publishes completed orders to the orders topic exchange.
type OrderSink struct {
	ch       IPublisher
	exchange string
	mylog    logger.Logger
}

func NewOrderSink(ch IPublisher, exchange string, mylog logger.Logger) *OrderSink {
	return &OrderSink{ch: ch, exchange: exchange, mylog: mylog}
}

func (s *OrderSink) Submit(ctx context.Context, payload dto.OrderPayload) error {
	log := s.mylog.Action("publish_completed_order")

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode order payload: %w", err)
	}

	err = s.ch.PublishWithContext(ctx, s.exchange, rabbitmq.CompletedKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    strconv.FormatInt(payload.OrderNumber, 10),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		log.Error("Failed to publish order", err, "order_number", payload.OrderNumber)
		return err
	}
	log.Debug("Order published", "order_number", payload.OrderNumber, "exchange", s.exchange)
	return nil
}
