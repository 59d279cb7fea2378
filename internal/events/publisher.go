package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const publishTimeout = 3 * time.Second

// Publisher turns accepted cart changes into CartChanged events on the topic exchange.
// It implements session.Listener; publish failures are logged and never reach the cart.
type Publisher struct {
	ch     Channel
	seq    *Sequencer
	logger *zap.Logger
	now    func() time.Time
}

func NewPublisher(conn *amqp.Connection, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := NewPublisherWithChannel(ch, logger)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func NewPublisherWithChannel(ch Channel, logger *zap.Logger) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare %s: %w", EventsExchange, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		ch:     ch,
		seq:    NewSequencer(),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) CartChanged(ctx context.Context, c session.Change) {
	if err := p.PublishCartChanged(ctx, c); err != nil {
		p.logger.Warn("publish cart event failed",
			zap.String("session_id", c.SessionID),
			zap.String("action", string(c.Action)),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
	}
}

func (p *Publisher) PublishCartChanged(ctx context.Context, c session.Change) error {
	seq, err := p.sequence(c)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ev := newCartChangedEvent(c, middleware.GetCorrelationID(ctx), seq, p.now())
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.EventName, err)
	}

	return p.publishJSON(ctx, routingKey(c.Action), ev, body)
}

// sequence prefers the version the store stamped at commit time. Changes built
// outside a store carry none and are numbered here.
func (p *Publisher) sequence(c session.Change) (int64, error) {
	if c.SessionID == "" {
		return 0, fmt.Errorf("partition key is required")
	}
	if c.Version > 0 {
		return c.Version, nil
	}
	return p.seq.Next(c.SessionID)
}

func (p *Publisher) publishJSON(ctx context.Context, key string, ev CartChangedEvent, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     ev.EventID,
			CorrelationId: ev.CorrelationID,
			Timestamp:     ev.OccurredAt,
			Type:          ev.EventName,
			Body:          body,
		},
	)
}
