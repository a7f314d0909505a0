package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/seology-ai/eventgate/internal/archive"
	v1 "github.com/seology-ai/eventgate/internal/api/v1"
	"github.com/seology-ai/eventgate/internal/core/storage"
	"github.com/seology-ai/eventgate/internal/events"
	"github.com/seology-ai/eventgate/internal/metrics"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRetention       = 24 * time.Hour
	DefaultInFlightTimeout = 10 * time.Minute
	defaultSweepBatchSize  = 1000
	defaultActivityLimit   = 50
	maxActivityLimit       = 500
	maxSweepBatches        = 1000 // Bounds one sweep; the rest waits for the next tick
	statsQueryTimeout      = 30 * time.Second
)

var (
	// ErrInvalidQuery marks reporting requests that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid ledger query")

	// ErrNotFound is returned by Find for unknown keys.
	ErrNotFound = storage.ErrNotFound
)

// Service is the idempotency gate in front of webhook handlers.
// The hot path (IsDuplicate, MarkProcessed) never returns storage errors.
type Service struct {
	ledger         storage.EventLedger
	publisher      events.Publisher
	archiver       archive.Archiver
	retention      time.Duration
	sweepBatchSize int
	activityLimit  int
	inFlight       time.Duration
	statsGroup     singleflight.Group
	nowFn          func() time.Time
}

// NewService creates a gate over the given ledger.
// A nil publisher disables lifecycle events.
func NewService(ledger storage.EventLedger, publisher events.Publisher, opts Options) *Service {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.SweepBatchSize <= 0 {
		opts.SweepBatchSize = defaultSweepBatchSize
	}
	if opts.ActivityLimit <= 0 || opts.ActivityLimit > maxActivityLimit {
		opts.ActivityLimit = defaultActivityLimit
	}
	if opts.InFlightTimeout <= 0 {
		opts.InFlightTimeout = DefaultInFlightTimeout
	}

	return &Service{
		ledger:         ledger,
		publisher:      publisher,
		retention:      opts.Retention,
		sweepBatchSize: opts.SweepBatchSize,
		activityLimit:  opts.ActivityLimit,
		inFlight:       opts.InFlightTimeout,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// WithArchiver makes CleanupExpired archive records before deleting them.
func (s *Service) WithArchiver(a archive.Archiver) *Service {
	s.archiver = a
	return s
}

// Retention is how long a record lives after it was last marked.
func (s *Service) Retention() time.Duration {
	return s.retention
}

// IsDuplicate records a sighting of eventKey and reports whether it was seen before.
// The first sighting inserts the record (processed=false, attempt_count=1).
// Storage failures fail open with Degraded=true.
func (s *Service) IsDuplicate(ctx context.Context, eventKey, source, topic string) CheckResult {
	if strings.TrimSpace(eventKey) == "" {
		slog.Warn("[Gate] Empty event key, skipping duplicate check", "source", source, "topic", topic)
		metrics.ChecksTotal.WithLabelValues(metrics.OutcomeDegraded).Inc()
		return CheckResult{Degraded: true}
	}

	now := s.nowFn()
	obs, err := s.ledger.Observe(ctx, &v1.EventRecord{
		EventKey:   eventKey,
		Source:     source,
		Topic:      topic,
		LastSeenAt: now,
		ExpiresAt:  now.Add(s.retention),
	})
	if err != nil {
		slog.Error("[Gate] Duplicate check failed, failing open",
			"event_key", eventKey,
			"source", source,
			"topic", topic,
			"error", err)
		metrics.ChecksTotal.WithLabelValues(metrics.OutcomeDegraded).Inc()
		return CheckResult{Degraded: true}
	}

	result := CheckResult{
		Duplicate:    obs.AttemptCount > 1,
		AttemptCount: obs.AttemptCount,
		Processed:    obs.Processed,
	}
	if obs.LastError != nil {
		result.LastError = *obs.LastError
	}
	if result.Duplicate && !obs.Processed && result.LastError == "" &&
		!obs.FirstSeenAt.IsZero() && now.Sub(obs.FirstSeenAt) >= s.inFlight {
		result.Stale = true
	}

	if !result.Duplicate {
		metrics.ChecksTotal.WithLabelValues(metrics.OutcomeNew).Inc()
		return result
	}

	slog.Info("[Gate] Duplicate webhook detected",
		"event_key", eventKey,
		"source", source,
		"topic", topic,
		"attempt_count", obs.AttemptCount,
		"processed", obs.Processed,
		"stale", result.Stale)
	metrics.ChecksTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()

	s.publish(ctx, events.TopicDuplicateObserved, events.DuplicateObserved{
		EventKey:     eventKey,
		Source:       source,
		Topic:        topic,
		AttemptCount: obs.AttemptCount,
		ObservedAt:   now,
	})
	return result
}

// MarkProcessed records the processing outcome and resets the expiry to now+retention.
// Best effort: write failures are logged and counted, never returned.
// Records without a key, source or topic are rejected without touching the ledger.
func (s *Service) MarkProcessed(ctx context.Context, eventKey, source, topic string, out Outcome) {
	now := s.nowFn()
	rec := &v1.EventRecord{
		EventKey:        eventKey,
		Source:          source,
		Topic:           topic,
		ReceivedHeaders: out.Headers,
		Processed:       out.Processed,
		AttemptCount:    1, // insert value; kept as stored on conflict
		FirstSeenAt:     now,
		LastSeenAt:      now,
		ExpiresAt:       now.Add(s.retention),
	}
	if err := rec.Validate(); err != nil {
		slog.Error("[Gate] Refusing to record processing outcome",
			"event_key", eventKey,
			"source", source,
			"topic", topic,
			"error", err)
		metrics.MarkProcessedTotal.WithLabelValues(metrics.ResultWriteError).Inc()
		return
	}
	if out.RawPayload != nil {
		payload := string(out.RawPayload)
		rec.RawPayload = &payload
	}
	if !out.Processed && out.Error != "" {
		errMsg := out.Error
		rec.LastError = &errMsg
	}

	if err := s.ledger.Upsert(ctx, rec); err != nil {
		slog.Error("[Gate] Failed to record processing outcome",
			"event_key", eventKey,
			"source", source,
			"topic", topic,
			"processed", out.Processed,
			"error", err)
		metrics.MarkProcessedTotal.WithLabelValues(metrics.ResultWriteError).Inc()
		return
	}

	if out.Processed {
		metrics.MarkProcessedTotal.WithLabelValues(metrics.ResultProcessed).Inc()
		slog.Debug("[Gate] Marked event processed", "event_key", eventKey, "expires_at", rec.ExpiresAt)
		return
	}

	metrics.MarkProcessedTotal.WithLabelValues(metrics.ResultFailed).Inc()
	slog.Warn("[Gate] Marked event failed",
		"event_key", eventKey,
		"source", source,
		"topic", topic,
		"error", out.Error)
	s.publish(ctx, events.TopicProcessingFailed, events.ProcessingFailed{
		EventKey: eventKey,
		Source:   source,
		Topic:    topic,
		Error:    out.Error,
		FailedAt: now,
	})
}

// CleanupExpired deletes every record with expires_at < now and returns the count.
// With an archiver configured, records are archived batch by batch first and an
// archive failure stops the sweep before anything unarchived is deleted.
func (s *Service) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted, archived int64
	var err error

	if s.archiver == nil {
		deleted, err = s.ledger.DeleteExpired(ctx, now)
		if err != nil {
			return 0, fmt.Errorf("cleanup expired events: %w", err)
		}
	} else {
		deleted, archived, err = s.archiveAndDelete(ctx, now)
		if err != nil {
			s.recordSweep(ctx, now, deleted, archived)
			return deleted, err
		}
	}

	s.recordSweep(ctx, now, deleted, archived)
	return deleted, nil
}

func (s *Service) archiveAndDelete(ctx context.Context, cutoff time.Time) (deleted, archived int64, err error) {
	for batch := 0; batch < maxSweepBatches; batch++ {
		if err := ctx.Err(); err != nil {
			return deleted, archived, err
		}

		records, err := s.ledger.ListExpired(ctx, cutoff, s.sweepBatchSize)
		if err != nil {
			return deleted, archived, fmt.Errorf("list expired events: %w", err)
		}
		if len(records) == 0 {
			return deleted, archived, nil
		}

		if err := s.archiver.Archive(ctx, records); err != nil {
			return deleted, archived, fmt.Errorf("archive expired events: %w", err)
		}
		archived += int64(len(records))
		metrics.ArchivedRecordsTotal.Add(float64(len(records)))

		keys := make([]string, len(records))
		for i, rec := range records {
			keys[i] = rec.EventKey
		}
		n, err := s.ledger.DeleteKeys(ctx, keys, cutoff)
		if err != nil {
			return deleted, archived, fmt.Errorf("delete archived events: %w", err)
		}
		deleted += n

		if len(records) < s.sweepBatchSize {
			return deleted, archived, nil
		}
	}

	slog.Warn("[Gate] Max sweep batches reached, remaining records wait for the next sweep",
		"max_batches", maxSweepBatches,
		"deleted", deleted)
	return deleted, archived, nil
}

func (s *Service) recordSweep(ctx context.Context, cutoff time.Time, deleted, archived int64) {
	metrics.SweptRecordsTotal.Add(float64(deleted))
	if deleted == 0 && archived == 0 {
		return
	}

	slog.Info("[Gate] Expired ledger records removed",
		"deleted", deleted,
		"archived", archived,
		"cutoff", cutoff)
	s.publish(ctx, events.TopicLedgerSwept, events.LedgerSwept{
		Deleted:  deleted,
		Archived: archived,
		Cutoff:   cutoff,
	})
}

// GetActivity lists the newest ledger records of a source.
func (s *Service) GetActivity(ctx context.Context, source, topic string, limit int) ([]*v1.EventRecord, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: source is required", ErrInvalidQuery)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0", ErrInvalidQuery)
	}

	records, err := s.ledger.ListActivity(ctx, v1.ActivityQuery{
		Source: source,
		Topic:  topic,
		Limit:  s.effectiveLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if records == nil {
		records = []*v1.EventRecord{}
	}
	return records, nil
}

// effectiveLimit applies the default and the hard cap to a requested page size.
func (s *Service) effectiveLimit(limit int) int {
	if limit <= 0 {
		return s.activityLimit
	}
	return min(limit, maxActivityLimit)
}

// GetStats summarises a source. Concurrent identical calls share one query.
func (s *Service) GetStats(ctx context.Context, source string, since time.Time) (*v1.Stats, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: source is required", ErrInvalidQuery)
	}
	if !since.IsZero() && since.After(s.nowFn()) {
		return nil, fmt.Errorf("%w: since must not be in the future", ErrInvalidQuery)
	}

	// The shared query is detached from any single caller; each caller
	// still gives up when its own context ends.
	key := source + "|" + since.UTC().Format(time.RFC3339Nano)
	ch := s.statsGroup.DoChan(key, func() (interface{}, error) {
		queryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statsQueryTimeout)
		defer cancel()
		return s.ledger.Stats(queryCtx, source, since)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get stats: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("get stats: %w", res.Err)
		}
		return res.Val.(*v1.Stats), nil
	}
}

// Find returns the ledger record for one key.
func (s *Service) Find(ctx context.Context, eventKey string) (*v1.EventRecord, error) {
	if strings.TrimSpace(eventKey) == "" {
		return nil, fmt.Errorf("%w: event key is required", ErrInvalidQuery)
	}
	return s.ledger.Find(ctx, eventKey)
}

func (s *Service) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("[Gate] Failed to publish ledger event", "topic", topic, "error", err)
	}
}
