package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventEnvelope is the common wrapper for every event the storefront emits.
type EventEnvelope[T any] struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	Sequence      int64     `json:"sequence"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
	Payload       T         `json:"payload"`
}

// eventMeta is what every envelope needs besides its payload.
type eventMeta struct {
	name          string
	version       int
	schema        string
	partitionKey  string
	sequence      int64
	correlationID string
	occurredAt    time.Time
}

func wrap[T any](m eventMeta, payload T) EventEnvelope[T] {
	return EventEnvelope[T]{
		EventName:     m.name,
		EventVersion:  m.version,
		EventID:       uuid.NewString(),
		CorrelationID: m.correlationID,
		Producer:      storefrontProducer,
		PartitionKey:  m.partitionKey,
		Sequence:      m.sequence,
		OccurredAt:    m.occurredAt,
		Schema:        m.schema,
		Payload:       payload,
	}
}

// Validate reports every way e differs from an envelope a consumer would accept.
func (e EventEnvelope[T]) Validate(expectedName string, expectedVersion int) error {
	var errs []error
	if e.EventName != expectedName {
		errs = append(errs, fmt.Errorf("unexpected eventName: %s", e.EventName))
	}
	if e.EventVersion != expectedVersion {
		errs = append(errs, fmt.Errorf("unexpected eventVersion: %d", e.EventVersion))
	}
	if e.PartitionKey == "" {
		errs = append(errs, errors.New("missing partitionKey"))
	}
	if e.Sequence <= 0 {
		errs = append(errs, errors.New("sequence must be positive"))
	}
	return errors.Join(errs...)
}
