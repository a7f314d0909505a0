package events

import (
	"context"
	"strings"
	"time"
)

// Publisher publishes events to a message bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Ledger lifecycle topics
const (
	TopicDuplicateObserved = "seology.ledger.duplicate"
	TopicProcessingFailed  = "seology.ledger.failed"
	TopicLedgerSwept       = "seology.ledger.swept"

	// TopicWebhookPrefix prefixes forwarded deliveries:
	// seology.webhooks.<platform>.<topic>
	TopicWebhookPrefix = "seology.webhooks"
)

// Event types

type DuplicateObserved struct {
	EventKey     string    `json:"event_key"`
	Source       string    `json:"source"`
	Topic        string    `json:"topic"`
	AttemptCount int       `json:"attempt_count"`
	ObservedAt   time.Time `json:"observed_at"`
}

type ProcessingFailed struct {
	EventKey string    `json:"event_key"`
	Source   string    `json:"source"`
	Topic    string    `json:"topic"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

type LedgerSwept struct {
	Deleted  int64     `json:"deleted"`
	Archived int64     `json:"archived"`
	Cutoff   time.Time `json:"cutoff"`
}

// WebhookReceived is the payload forwarded to downstream workers.
type WebhookReceived struct {
	EventKey   string            `json:"event_key"`
	Platform   string            `json:"platform"`
	Source     string            `json:"source"`
	Topic      string            `json:"topic"`
	Headers    map[string]string `json:"headers,omitempty"`
	Payload    string            `json:"payload"`
	ReceivedAt time.Time         `json:"received_at"`
}

// WebhookSubject builds the forwarding subject for a platform topic.
// Subject tokens cannot contain "/", whitespace or wildcards, so
// "orders/create" becomes "orders.create".
func WebhookSubject(platform, topic string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', ' ', '\t', '*', '>':
			return '.'
		}
		return r
	}, strings.ToLower(topic))
	clean = strings.Trim(clean, ".")
	for strings.Contains(clean, "..") {
		clean = strings.ReplaceAll(clean, "..", ".")
	}
	if clean == "" {
		clean = "unknown"
	}
	return TopicWebhookPrefix + "." + strings.ToLower(platform) + "." + clean
}
