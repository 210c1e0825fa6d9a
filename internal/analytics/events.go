package analytics

import (
	"context"
	"encoding/json"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/samboni/storefront-backend/pkg/logger"
	"github.com/samboni/storefront-backend/pkg/pubsub"
)

// Event types for cart interactions.
const (
	EventCartCreated  = "cart.created"
	EventLinesAdded   = "cart.lines_added"
	EventLinesUpdated = "cart.lines_updated"
	EventLinesRemoved = "cart.lines_removed"
)

// CartEvent describes one cart interaction for the analytics pipeline.
type CartEvent struct {
	Type       string    `json:"type"`
	CartID     string    `json:"cart_id"`
	LineCount  int       `json:"line_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits cart events. Failures are the publisher's problem:
// callers never see them.
type Publisher interface {
	PublishCartEvent(ctx context.Context, event CartEvent)
}

// NoopPublisher is used when analytics publishing is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishCartEvent(context.Context, CartEvent) {}

const publishTimeout = 5 * time.Second

type pubsubPublisher struct {
	publisher *gcppubsub.Publisher
	logger    *logger.Logger
}

// NewPubSubPublisher wires cart events onto the configured topic.
func NewPubSubPublisher(client *pubsub.Client, logg *logger.Logger) Publisher {
	if client == nil {
		return NoopPublisher{}
	}
	pub := client.CartEventsPublisher()
	if pub == nil {
		return NoopPublisher{}
	}
	return &pubsubPublisher{publisher: pub, logger: logg}
}

// PublishCartEvent sends the event without blocking the request path.
// Publish errors are logged and dropped; analytics loss never fails a
// cart interaction.
func (p *pubsubPublisher) PublishCartEvent(ctx context.Context, event CartEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		if p.logger != nil {
			p.logger.Error(ctx, "encoding cart event", err)
		}
		return
	}

	result := p.publisher.Publish(ctx, &gcppubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event_type": event.Type},
	})

	go func() {
		waitCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if _, err := result.Get(waitCtx); err != nil && p.logger != nil {
			p.logger.Error(waitCtx, "publishing cart event", err)
		}
	}()
}
