package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/seology-ai/eventgate/internal/api/v1"
)

// ErrNotFound is returned when no ledger record exists for an event key.
var ErrNotFound = errors.New("event record not found")

// EventLedger is the durable store behind the idempotency gate.
type EventLedger interface {
	// Observe records one sighting of rec.EventKey.
	// An absent key is inserted with attempt_count=1; a present key has its
	// attempt_count incremented and last_seen_at advanced. Both happen in one
	// atomic statement so concurrent first deliveries see exactly one insert.
	Observe(ctx context.Context, rec *v1.EventRecord) (v1.Observation, error)

	// Upsert writes the processing outcome, creating the record when absent.
	// Nil RawPayload / ReceivedHeaders keep the stored values.
	Upsert(ctx context.Context, rec *v1.EventRecord) error

	Find(ctx context.Context, eventKey string) (*v1.EventRecord, error)

	// DeleteExpired removes all records with expires_at < before.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)

	// ListExpired returns up to limit records with expires_at < before, oldest expiry first.
	ListExpired(ctx context.Context, before time.Time, limit int) ([]*v1.EventRecord, error)

	// DeleteKeys removes the given keys, but only those still expired at before.
	DeleteKeys(ctx context.Context, keys []string, before time.Time) (int64, error)

	ListActivity(ctx context.Context, q v1.ActivityQuery) ([]*v1.EventRecord, error)

	// Stats aggregates one source. A zero since means all time.
	Stats(ctx context.Context, source string, since time.Time) (*v1.Stats, error)
}
