package v1

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventRecord is one row of the webhook ledger.
// A record is created the first time a delivery is seen and lives until
// ExpiresAt, after which the sweeper removes it.
type EventRecord struct {
	// ID is a surrogate identifier assigned on insert.
	ID uuid.UUID `json:"id"`

	// EventKey is the derived idempotency key (provider event id or content hash).
	// Unique across the whole ledger.
	EventKey string `json:"event_key"`

	// Source identifies the sender, e.g. a Shopify shop domain or WordPress site URL.
	Source string `json:"source"`

	// Topic is the provider event name, e.g. "orders/create".
	Topic string `json:"topic"`

	// RawPayload is the exact request body. Only kept when payload storage is enabled.
	RawPayload *string `json:"raw_payload,omitempty"`

	// ReceivedHeaders is a snapshot of the provider headers of the delivery.
	ReceivedHeaders map[string]string `json:"received_headers,omitempty"`

	Processed    bool    `json:"processed"`
	AttemptCount int     `json:"attempt_count"`
	LastError    *string `json:"last_error,omitempty"`

	// FirstSeenAt never changes after insert. LastSeenAt only moves forward.
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`

	// ExpiresAt is set to (markProcessed time + retention) and is never earlier than FirstSeenAt.
	ExpiresAt time.Time `json:"expires_at"`
}

// Failed reports whether the last processing attempt ended with an error.
func (r *EventRecord) Failed() bool {
	return !r.Processed && r.LastError != nil && *r.LastError != ""
}

// Validate ensures the record carries its identifying attributes.
func (r *EventRecord) Validate() error {
	if strings.TrimSpace(r.EventKey) == "" {
		return fmt.Errorf("event_key is required")
	}

	if strings.TrimSpace(r.Source) == "" {
		return fmt.Errorf("source is required")
	}

	if strings.TrimSpace(r.Topic) == "" {
		return fmt.Errorf("topic is required")
	}

	if r.AttemptCount < 1 {
		return fmt.Errorf("attempt_count must be >= 1")
	}

	if !r.ExpiresAt.IsZero() && r.ExpiresAt.Before(r.FirstSeenAt) {
		return fmt.Errorf("expires_at must not be before first_seen_at")
	}

	return nil
}

// Observation is the outcome of recording one sighting of an event key.
type Observation struct {
	AttemptCount int
	Processed    bool
	LastError    *string
	FirstSeenAt  time.Time
}

// ActivityQuery selects recent ledger records for one source.
type ActivityQuery struct {
	Source string
	Topic  string // empty means all topics
	Limit  int
}

// Stats summarises the ledger for one source.
type Stats struct {
	Source        string           `json:"source"`
	Since         *time.Time       `json:"since,omitempty"`
	Total         int64            `json:"total"`
	Duplicates    int64            `json:"duplicates"`
	Failed        int64            `json:"failed"`
	ByTopic       map[string]int64 `json:"by_topic"`
	DuplicateRate decimal.Decimal  `json:"duplicate_rate"`
}
