package webhook

import (
	"context"
	"fmt"

	"github.com/seology-ai/eventgate/internal/events"
)

// ForwardingProcessor hands accepted deliveries to downstream workers over
// the event bus, one subject per platform topic.
type ForwardingProcessor struct {
	publisher events.Publisher
}

func NewForwardingProcessor(publisher events.Publisher) *ForwardingProcessor {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &ForwardingProcessor{publisher: publisher}
}

func (p *ForwardingProcessor) Process(ctx context.Context, d *Delivery) error {
	subject := events.WebhookSubject(string(d.Platform), d.Topic)
	err := p.publisher.Publish(ctx, subject, events.WebhookReceived{
		EventKey:   d.EventKey,
		Platform:   string(d.Platform),
		Source:     d.Source,
		Topic:      d.Topic,
		Headers:    d.Headers,
		Payload:    string(d.Body),
		ReceivedAt: d.ReceivedAt,
	})
	if err != nil {
		return fmt.Errorf("forward to %s: %w", subject, err)
	}
	return nil
}
