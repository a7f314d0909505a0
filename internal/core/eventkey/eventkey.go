// Package eventkey derives the idempotency key of an inbound webhook delivery.
package eventkey

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultBucket is the timestamp granularity mixed into content hashes.
const DefaultBucket = 5 * time.Minute

// ErrMissingContext is returned when source or topic is empty.
var ErrMissingContext = errors.New("event key requires source and topic")

var (
	// DefaultIDHeaders are provider headers that carry a unique delivery/event id.
	// Checked in order; the first non-blank value wins.
	DefaultIDHeaders = []string{
		"X-Shopify-Webhook-Id",
		"X-Shopify-Event-Id",
		"X-WC-Webhook-Delivery-ID",
		"X-Seology-Event-Id",
		"X-Event-Id",
		"Event-Id",
		"EventId",
		"X-Webhook-Id",
		"Idempotency-Key",
	}

	// DefaultTimestampHeaders carry the provider's trigger time.
	DefaultTimestampHeaders = []string{
		"X-Shopify-Triggered-At",
		"X-WC-Webhook-Timestamp",
		"X-Seology-Timestamp",
		"X-Webhook-Timestamp",
	}
)

// Context is the delivery metadata the key is scoped to.
type Context struct {
	Source string
	Topic  string

	// Timestamp overrides any timestamp header when non-zero.
	Timestamp time.Time
}

// Deriver computes event keys. It performs no I/O and never reads the clock,
// so the same inputs always give the same key.
type Deriver struct {
	idHeaders        []string
	timestampHeaders []string
	bucket           time.Duration
}

// NewDeriver builds a deriver. Empty header lists fall back to the defaults;
// a bucket <= 0 disables timestamp truncation.
func NewDeriver(idHeaders []string, bucket time.Duration) *Deriver {
	if len(idHeaders) == 0 {
		idHeaders = DefaultIDHeaders
	}
	return &Deriver{
		idHeaders:        idHeaders,
		timestampHeaders: DefaultTimestampHeaders,
		bucket:           bucket,
	}
}

// Derive returns the provider event id when one is present, verbatim.
// Otherwise it returns the hex SHA-256 of source, topic, body and the
// timestamp bucket, NUL separated so no field can bleed into the next.
func (d *Deriver) Derive(headers http.Header, body []byte, c Context) (string, error) {
	if strings.TrimSpace(c.Source) == "" || strings.TrimSpace(c.Topic) == "" {
		return "", ErrMissingContext
	}

	if id, ok := Lookup(headers, d.idHeaders...); ok {
		return id, nil
	}

	h := sha256.New()
	h.Write([]byte(c.Source))
	h.Write([]byte{0})
	h.Write([]byte(c.Topic))
	h.Write([]byte{0})
	h.Write(body)
	h.Write([]byte{0})
	h.Write([]byte(d.timestampBucket(headers, c.Timestamp)))

	return hex.EncodeToString(h.Sum(nil)), nil
}

func (d *Deriver) timestampBucket(headers http.Header, ts time.Time) string {
	if ts.IsZero() {
		raw, ok := Lookup(headers, d.timestampHeaders...)
		if !ok {
			return ""
		}
		parsed, ok := parseTimestamp(raw)
		if !ok {
			// Unknown format: still deterministic, just not bucketed.
			return strings.TrimSpace(raw)
		}
		ts = parsed
	}

	if d.bucket > 0 {
		ts = ts.Truncate(d.bucket)
	}
	return strconv.FormatInt(ts.Unix(), 10)
}

// parseTimestamp accepts RFC 3339 strings and unix seconds or milliseconds.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), true
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}
	return time.Time{}, false
}

// Lookup returns the first non-blank value among names, matching header
// names case-insensitively. Header maps built by hand are not always in
// canonical form, so http.Header.Get alone is not enough. The canonical
// key wins; other spellings of the same name are tried in sorted order.
func Lookup(headers http.Header, names ...string) (string, bool) {
	for _, name := range names {
		if v := headers.Get(name); strings.TrimSpace(v) != "" {
			return v, true
		}

		var variants []string
		for key := range headers {
			if strings.EqualFold(key, name) {
				variants = append(variants, key)
			}
		}
		slices.Sort(variants)

		for _, key := range variants {
			for _, v := range headers[key] {
				if strings.TrimSpace(v) != "" {
					return v, true
				}
			}
		}
	}
	return "", false
}
