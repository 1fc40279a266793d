package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"hamburgueria/internal/xpkg/config"
	xerrors "hamburgueria/internal/xpkg/errors"
	"hamburgueria/internal/xpkg/logger"
)

// CompletedKey routes finalized orders on the orders exchange.
const CompletedKey = "orders.completed"

// Declarer is the part of *amqp.Channel that sets up the topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

type Conn struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	mu    sync.Mutex
	mylog logger.Logger
}

// Connect dials the broker and declares the orders topic exchange.
func Connect(ctx context.Context, cfg *config.RabbitMQ, mylog logger.Logger) (*Conn, error) {
	log := mylog.Action("rabbitmq_connect")

	conn, err := amqp.DialConfig(cfg.URL(), amqp.Config{
		Properties: amqp.Table{"connection_name": "hamburgueria"},
	})
	if err != nil {
		log.Error("Failed to dial rabbitmq", err, "host", cfg.Host)
		return nil, fmt.Errorf("%w: %w", xerrors.ErrRMQConn, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: open channel: %w", xerrors.ErrRMQConn, err)
	}

	if err := DeclareExchange(ch, cfg.Exchange); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("Connected to rabbitmq", "host", cfg.Host, "exchange", cfg.Exchange)
	return &Conn{conn: conn, ch: ch, mylog: mylog}, nil
}

func DeclareExchange(d Declarer, exchange string) error {
	if err := d.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

// DeclareQueue creates the durable queue and binds it to key on exchange.
func DeclareQueue(d Declarer, exchange, queue, key string) error {
	if err := DeclareExchange(d, exchange); err != nil {
		return err
	}
	if _, err := d.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := d.QueueBind(queue, key, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}
	return nil
}

// Channel returns the live channel. Callers must not close it.
func (c *Conn) Channel() *amqp.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ch
}

// IsAlive reports whether both the connection and the channel are open.
func (c *Conn) IsAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && !c.conn.IsClosed() && c.ch != nil && !c.ch.IsClosed()
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil && !c.ch.IsClosed() {
		if err := c.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}
	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}
