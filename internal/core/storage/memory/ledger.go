package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	v1 "github.com/seology-ai/eventgate/internal/api/v1"
	"github.com/seology-ai/eventgate/internal/core/storage"
	"github.com/shopspring/decimal"
)

// Ledger is an in-memory implementation of storage.EventLedger.
// Useful for testing and single-node development.
type Ledger struct {
	mu      sync.RWMutex
	records map[string]*v1.EventRecord
}

// NewLedger creates an empty in-memory ledger.
func NewLedger() *Ledger {
	return &Ledger{
		records: make(map[string]*v1.EventRecord),
	}
}

func (l *Ledger) Observe(ctx context.Context, rec *v1.EventRecord) (v1.Observation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.records[rec.EventKey]; ok {
		existing.AttemptCount++
		if rec.LastSeenAt.After(existing.LastSeenAt) {
			existing.LastSeenAt = rec.LastSeenAt
		}
		return v1.Observation{
			AttemptCount: existing.AttemptCount,
			Processed:    existing.Processed,
			LastError:    cloneString(existing.LastError),
			FirstSeenAt:  existing.FirstSeenAt,
		}, nil
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	l.records[rec.EventKey] = &v1.EventRecord{
		ID:           rec.ID,
		EventKey:     rec.EventKey,
		Source:       rec.Source,
		Topic:        rec.Topic,
		AttemptCount: 1,
		FirstSeenAt:  rec.LastSeenAt,
		LastSeenAt:   rec.LastSeenAt,
		ExpiresAt:    rec.ExpiresAt,
	}
	return v1.Observation{AttemptCount: 1, FirstSeenAt: rec.LastSeenAt}, nil
}

func (l *Ledger) Upsert(ctx context.Context, rec *v1.EventRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.records[rec.EventKey]
	if !ok {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		stored := cloneRecord(rec)
		stored.AttemptCount = 1
		stored.FirstSeenAt = rec.LastSeenAt
		l.records[rec.EventKey] = stored
		return nil
	}

	existing.Processed = rec.Processed
	existing.LastError = cloneString(rec.LastError)
	if rec.RawPayload != nil {
		existing.RawPayload = cloneString(rec.RawPayload)
	}
	if len(rec.ReceivedHeaders) > 0 {
		existing.ReceivedHeaders = cloneHeaders(rec.ReceivedHeaders)
	}
	existing.ExpiresAt = rec.ExpiresAt
	if existing.ExpiresAt.Before(existing.FirstSeenAt) {
		existing.ExpiresAt = existing.FirstSeenAt
	}
	return nil
}

func (l *Ledger) Find(ctx context.Context, eventKey string) (*v1.EventRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[eventKey]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (l *Ledger) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int64
	for key, rec := range l.records {
		if rec.ExpiresAt.Before(before) {
			delete(l.records, key)
			n++
		}
	}
	return n, nil
}

func (l *Ledger) ListExpired(ctx context.Context, before time.Time, limit int) ([]*v1.EventRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []*v1.EventRecord
	for _, rec := range l.records {
		if rec.ExpiresAt.Before(before) {
			result = append(result, cloneRecord(rec))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ExpiresAt.Equal(result[j].ExpiresAt) {
			return result[i].ExpiresAt.Before(result[j].ExpiresAt)
		}
		return result[i].EventKey < result[j].EventKey
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (l *Ledger) DeleteKeys(ctx context.Context, keys []string, before time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int64
	for _, key := range keys {
		rec, ok := l.records[key]
		if !ok || !rec.ExpiresAt.Before(before) {
			continue
		}
		delete(l.records, key)
		n++
	}
	return n, nil
}

func (l *Ledger) ListActivity(ctx context.Context, q v1.ActivityQuery) ([]*v1.EventRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []*v1.EventRecord
	for _, rec := range l.records {
		if rec.Source != q.Source {
			continue
		}
		if q.Topic != "" && rec.Topic != q.Topic {
			continue
		}
		result = append(result, cloneRecord(rec))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].LastSeenAt.Equal(result[j].LastSeenAt) {
			return result[i].LastSeenAt.After(result[j].LastSeenAt)
		}
		return result[i].EventKey < result[j].EventKey
	})
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

func (l *Ledger) Stats(ctx context.Context, source string, since time.Time) (*v1.Stats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := &v1.Stats{
		Source:        source,
		ByTopic:       make(map[string]int64),
		DuplicateRate: decimal.Zero,
	}
	if !since.IsZero() {
		s := since
		stats.Since = &s
	}

	for _, rec := range l.records {
		if rec.Source != source {
			continue
		}
		if !since.IsZero() && rec.FirstSeenAt.Before(since) {
			continue
		}
		stats.Total++
		stats.ByTopic[rec.Topic]++
		if rec.AttemptCount > 1 {
			stats.Duplicates++
		}
		if rec.Failed() {
			stats.Failed++
		}
	}

	if stats.Total > 0 {
		stats.DuplicateRate = decimal.NewFromInt(stats.Duplicates).
			Div(decimal.NewFromInt(stats.Total)).
			Round(4)
	}
	return stats, nil
}

// Len returns the number of stored records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Copies keep callers from mutating stored records.

func cloneRecord(rec *v1.EventRecord) *v1.EventRecord {
	c := *rec
	c.RawPayload = cloneString(rec.RawPayload)
	c.LastError = cloneString(rec.LastError)
	c.ReceivedHeaders = cloneHeaders(rec.ReceivedHeaders)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	c := make(map[string]string, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}
