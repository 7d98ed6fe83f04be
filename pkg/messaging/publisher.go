package messaging

import (
	"context"
)

// Subjects of catalog change events.
const (
	ProductAddedSubject   = "catalog.product.added"
	ProductDeletedSubject = "catalog.product.deleted"
	ProductUpdatedSubject = "catalog.product.updated"
)

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
