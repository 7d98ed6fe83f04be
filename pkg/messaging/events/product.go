package events

import (
	"encoding/json"
	"time"

	"github.com/abgdnv/xmlcatalog/pkg/messaging"
	"github.com/google/uuid"
)

// ProductEvent describes a change applied to the catalog file.
type ProductEvent struct {
	Carrier    map[string]string `json:"carrier,omitempty"`
	EventID    uuid.UUID         `json:"event_id"`
	ProductID  int               `json:"product_id"`
	Name       string            `json:"name,omitempty"`
	Price      string            `json:"price,omitempty"`
	Quantity   string            `json:"quantity,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	subject    string
}

// NewProductAdded builds the event published after a product is appended.
func NewProductAdded(id int, name, price, quantity string) ProductEvent {
	return newProductEvent(messaging.ProductAddedSubject, id, name, price, quantity)
}

// NewProductUpdated builds the event published after a product is patched.
// The fields carry the stored values after the update.
func NewProductUpdated(id int, name, price, quantity string) ProductEvent {
	return newProductEvent(messaging.ProductUpdatedSubject, id, name, price, quantity)
}

// NewProductDeleted builds the event published after a product is removed.
func NewProductDeleted(id int) ProductEvent {
	return newProductEvent(messaging.ProductDeletedSubject, id, "", "", "")
}

func newProductEvent(subject string, id int, name, price, quantity string) ProductEvent {
	return ProductEvent{
		EventID:    uuid.New(),
		ProductID:  id,
		Name:       name,
		Price:      price,
		Quantity:   quantity,
		OccurredAt: time.Now().UTC(),
		subject:    subject,
	}
}

func (e ProductEvent) Subject() string {
	return e.subject
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
