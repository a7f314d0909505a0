package gate

import (
	"time"

	v1 "github.com/seology-ai/eventgate/internal/api/v1"
)

// CheckResult is the answer of IsDuplicate.
// Degraded means the ledger could not be consulted and the delivery was let
// through (fail open); Duplicate is always false in that case.
type CheckResult struct {
	Duplicate    bool   `json:"duplicate"`
	Degraded     bool   `json:"degraded"`
	AttemptCount int    `json:"attempt_count,omitempty"`
	Processed    bool   `json:"processed"`
	LastError    string `json:"last_error,omitempty"`

	// Stale marks a repeat of an event first seen longer than the in-flight
	// timeout ago that still has no recorded outcome.
	Stale bool `json:"stale,omitempty"`
}

// Retryable reports a repeat delivery whose earlier attempt failed or was
// abandoned without an outcome.
func (r CheckResult) Retryable() bool {
	return r.Duplicate && !r.Processed && (r.LastError != "" || r.Stale)
}

// Outcome is what MarkProcessed records for one event.
type Outcome struct {
	Processed bool

	// RawPayload and Headers are optional; nil keeps whatever is stored.
	RawPayload []byte
	Headers    map[string]string

	// Error is stored as last_error when Processed is false.
	Error string
}

// ActivityResponse is the body of GET /v1/ledger/:source/activity.
type ActivityResponse struct {
	Source string            `json:"source"`
	Topic  string            `json:"topic,omitempty"`
	Limit  int               `json:"limit"`
	Events []*v1.EventRecord `json:"events"`
}

// Options tunes the gate. Zero values fall back to defaults.
type Options struct {
	Retention       time.Duration
	SweepBatchSize  int
	ActivityLimit   int
	InFlightTimeout time.Duration
}
