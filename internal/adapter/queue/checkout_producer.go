package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yenminh269/themepark-checkout/internal/usecase"
)

// CheckoutProducer implements usecase.EventPublisher. The ops portal
// subscribes to the bound queue to learn about created orders.
type CheckoutProducer struct {
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// NewCheckoutProducer sets up the exchange, queue, and binding once at startup.
func NewCheckoutProducer(ch *amqp.Channel, exchange, routingKey string) (*CheckoutProducer, error) {
	// 1. declare exchange (topic type, durable)
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	// 2. declare queue
	q, err := ch.QueueDeclare(
		routingKey+".q",
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	// 3. bind queue → exchange
	if err := ch.QueueBind(
		q.Name,
		routingKey,
		exchange,
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	// 4. publisher confirms so a dropped event is at least visible
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &CheckoutProducer{ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

func (p *CheckoutProducer) PublishCheckoutCompleted(ctx context.Context, msg usecase.CheckoutCompletedMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         body,
	}

	if err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

var _ usecase.EventPublisher = (*CheckoutProducer)(nil)
