package events

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Connection struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Dial connects to RabbitMQ and declares the durable queue order events are routed to.
func Dial(url, queueName string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp.Dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("conn.Channel: %w", err), conn.Close())
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("ch.QueueDeclare: %w", err), ch.Close(), conn.Close())
	}

	return &Connection{conn: conn, ch: ch}, nil
}

func (c *Connection) Channel() Channel {
	return c.ch
}

func (c *Connection) Close() error {
	var errs []error
	if err := c.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, fmt.Errorf("ch.Close: %w", err))
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		errs = append(errs, fmt.Errorf("conn.Close: %w", err))
	}
	return errors.Join(errs...)
}
