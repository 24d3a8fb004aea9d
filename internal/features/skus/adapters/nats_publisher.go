package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sku-tracker/internal/features/skus/domain"

	"github.com/nats-io/nats.go"
)

const natsFlushTimeout = 2 * time.Second

// NATSPublisher announces persisted events on a NATS subject, one message per event.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// NewNATSPublisher connects to url and publishes on subject.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("sku-tracker"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSPublisher{nc: nc, subject: subject}, nil
}

// Publish sends every event and waits for the server to acknowledge the batch.
func (p *NATSPublisher) Publish(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal event %d: %w", e.ID, err)
		}

		msg := nats.NewMsg(p.subject)
		msg.Data = data
		msg.Header.Set("Sku-Id", fmt.Sprintf("%d", e.SkuID))
		if e.IngestionID != "" {
			msg.Header.Set("Ingestion-Id", e.IngestionID)
		}

		if err := p.nc.PublishMsg(msg); err != nil {
			return fmt.Errorf("failed to publish event %d: %w", e.ID, err)
		}
	}

	if err := p.nc.FlushTimeout(natsFlushTimeout); err != nil {
		return fmt.Errorf("failed to flush nats connection: %w", err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
