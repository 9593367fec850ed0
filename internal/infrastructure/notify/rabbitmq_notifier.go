package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"workshopd/internal/domain/workshop"
	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

// RabbitMQNotifier publishes notifications to a durable topic exchange with the
// event name as routing key.
type RabbitMQNotifier struct {
	conn     *amqp.Connection
	exchange string

	// amqp channels are not safe for concurrent publishes.
	mu      sync.Mutex
	channel *amqp.Channel
}

var _ ports.Notifier = (*RabbitMQNotifier)(nil)

func DialRabbitMQ(url string, exchange string) (*RabbitMQNotifier, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if strings.TrimSpace(exchange) == "" {
		exchange = "workshop.events"
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "dial rabbitmq")
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open rabbitmq channel")
	}

	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, errs.Wrapf(err, "declare exchange %q", exchange)
	}

	return &RabbitMQNotifier{conn: conn, channel: channel, exchange: exchange}, nil
}

func (p *RabbitMQNotifier) Notify(ctx context.Context, n workshop.Notification) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	body, err := json.Marshal(n)
	if err != nil {
		return errs.Wrap(err, "marshal notification")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, p.exchange, string(n.Event), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(n.Event),
		Body:         body,
	}); err != nil {
		return errs.Wrapf(err, "publish %s", n.Event)
	}
	return nil
}

func (p *RabbitMQNotifier) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			_ = p.conn.Close()
			return errs.Wrap(err, "close rabbitmq channel")
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return errs.Wrap(err, "close rabbitmq connection")
		}
	}
	return nil
}
