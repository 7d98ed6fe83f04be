package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// CatalogStream is the JetStream stream that stores catalog events.
const CatalogStream = "CATALOG"

func NewClient(url string, timeout time.Duration) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Timeout(timeout), nats.Name("xmlcatalog"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// NewJetStreamContext creates a JetStream context and makes sure the catalog stream exists.
func NewJetStreamContext(ctx context.Context, nc *nats.Conn) (jetstream.JetStream, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     CatalogStream,
		Subjects: []string{"catalog.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create %s stream: %w", CatalogStream, err)
	}
	return js, nil
}
