package events

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const (
	EventsExchange            = "ecommerce.events"
	CartItemAddedRoutingKey   = "cart.item.added.v1"
	CartItemRemovedRoutingKey = "cart.item.removed.v1"
	CartUndoneRoutingKey      = "cart.undone.v1"
	storefrontProducer        = "storefront"
)

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

func declareEventsExchange(ch Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

func routingKey(a session.Action) string {
	switch a {
	case session.ActionAdd:
		return CartItemAddedRoutingKey
	case session.ActionRemove:
		return CartItemRemovedRoutingKey
	default:
		return CartUndoneRoutingKey
	}
}
