package service

import (
	"context"
	"time"

	"ciaohost/pkg/kafka"
	"ciaohost/pkg/model"
)

// EventPublisher notifies downstream consumers of booking lifecycle
// changes. Publishing is best-effort: the booking write has already
// committed by the time an event goes out.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking) error
}

type kafkaEventPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaEventPublisher(producer *kafka.Producer, source string) EventPublisher {
	return &kafkaEventPublisher{
		producer: producer,
		source:   source,
	}
}

// Publish keys the message by property ID so all events for one property
// land on the same partition, preserving order.
func (p *kafkaEventPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	msg := kafka.NewMessage().
		WithKey(booking.PropertyID).
		WithValue(model.BookingEvent{
			EventType:  eventType,
			OccurredAt: time.Now().UTC(),
			Booking:    *booking,
		}).
		WithEventType(eventType).
		WithSource(p.source).
		WithSchemaVersion("1").
		Build()

	return p.producer.Publish(ctx, msg)
}
