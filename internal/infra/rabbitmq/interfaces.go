package rabbitmq

import "context"

// PublisherInterface emits domain events keyed by event name
// (order.opened, payment.settled, ...).
type PublisherInterface interface {
	Publish(ctx context.Context, event string, data any) error
}

// NopPublisher drops every event. Used when RABBITMQ_URL is empty.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

var (
	_ PublisherInterface = (*Publisher)(nil)
	_ PublisherInterface = NopPublisher{}
)
