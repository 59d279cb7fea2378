package events

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const (
	CartItemAddedEventName   = "CartItemAdded"
	CartItemRemovedEventName = "CartItemRemoved"
	CartUndoneEventName      = "CartUndone"
	CartChangedEventVersion  = 1
	cartChangedSchema        = "contracts/events/cart/CartChanged.v1.enveloped.schema.json"
)

type CartChangedPayload struct {
	SessionID  string         `json:"sessionId"`
	Action     string         `json:"action"`
	ItemID     int            `json:"itemId,omitempty"`
	Items      []CartLineItem `json:"items"`
	TotalItems int            `json:"totalItems"`
	Timestamp  time.Time      `json:"timestamp"`
}

type CartLineItem struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Amount int     `json:"amount"`
}

type CartChangedEvent = EventEnvelope[CartChangedPayload]

func eventName(a session.Action) string {
	switch a {
	case session.ActionAdd:
		return CartItemAddedEventName
	case session.ActionRemove:
		return CartItemRemovedEventName
	default:
		return CartUndoneEventName
	}
}

func newCartChangedEvent(c session.Change, correlationID string, seq int64, occurredAt time.Time) CartChangedEvent {
	payload := CartChangedPayload{
		SessionID:  c.SessionID,
		Action:     string(c.Action),
		ItemID:     c.ItemID,
		Items:      make([]CartLineItem, 0, len(c.After)),
		TotalItems: cart.TotalItems(c.After),
		Timestamp:  occurredAt,
	}
	for _, it := range c.After {
		payload.Items = append(payload.Items, CartLineItem{
			ID:     it.ID,
			Title:  it.Title,
			Price:  it.Price,
			Amount: it.Amount,
		})
	}

	return wrap(eventMeta{
		name:          eventName(c.Action),
		version:       CartChangedEventVersion,
		schema:        cartChangedSchema,
		partitionKey:  c.SessionID,
		sequence:      seq,
		correlationID: correlationID,
		occurredAt:    occurredAt,
	}, payload)
}
