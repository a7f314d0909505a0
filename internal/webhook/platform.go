package webhook

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/seology-ai/eventgate/internal/core/eventkey"
)

// Platform names a webhook sender family.
type Platform string

const (
	PlatformShopify   Platform = "shopify"
	PlatformWordPress Platform = "wordpress"
	PlatformCustom    Platform = "custom"
)

var (
	// ErrUnknownPlatform is returned for platforms without a header profile.
	ErrUnknownPlatform = errors.New("unknown webhook platform")

	// ErrMissingMetadata is returned when source or topic headers are absent.
	ErrMissingMetadata = errors.New("webhook source and topic headers are required")
)

// headerProfile lists where a platform puts its delivery metadata.
type headerProfile struct {
	signature string
	source    string
	topic     string
}

var profiles = map[Platform]headerProfile{
	PlatformShopify: {
		signature: "X-Shopify-Hmac-Sha256",
		source:    "X-Shopify-Shop-Domain",
		topic:     "X-Shopify-Topic",
	},
	PlatformWordPress: {
		signature: "X-WC-Webhook-Signature",
		source:    "X-WC-Webhook-Source",
		topic:     "X-WC-Webhook-Topic",
	},
	PlatformCustom: {
		signature: "X-Seology-Signature",
		source:    "X-Seology-Source",
		topic:     "X-Seology-Topic",
	},
}

// ParsePlatform normalises a platform path segment.
func ParsePlatform(raw string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := profiles[p]; !ok {
		return "", ErrUnknownPlatform
	}
	return p, nil
}

// SignatureHeader is the header carrying the platform's HMAC.
func (p Platform) SignatureHeader() string {
	return profiles[p].signature
}

// resolveMetadata reads source and topic from the platform headers.
// WooCommerce sends the site URL as source; a trailing slash is dropped so
// "https://shop.example/" and "https://shop.example" are the same source.
func resolveMetadata(p Platform, headers http.Header) (source, topic string, err error) {
	profile := profiles[p]
	source, okSource := eventkey.Lookup(headers, profile.source)
	topic, okTopic := eventkey.Lookup(headers, profile.topic)
	if !okSource || !okTopic {
		return "", "", ErrMissingMetadata
	}
	source = strings.TrimRight(strings.TrimSpace(source), "/")
	topic = strings.TrimSpace(topic)
	if source == "" || topic == "" {
		return "", "", ErrMissingMetadata
	}
	return source, topic, nil
}

// Delivery is one accepted webhook request handed to a Processor.
type Delivery struct {
	EventKey   string
	Platform   Platform
	Source     string
	Topic      string
	Headers    map[string]string
	Body       []byte
	ReceivedAt time.Time

	// Retry is set when an earlier attempt of the same event failed or
	// was abandoned past the in-flight timeout.
	Retry bool
}

// Processor performs the side effects of a webhook delivery.
// A returned error is recorded as last_error and answered with HTTP 500.
type Processor interface {
	Process(ctx context.Context, d *Delivery) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, d *Delivery) error

func (f ProcessorFunc) Process(ctx context.Context, d *Delivery) error {
	return f(ctx, d)
}

// Headers that are never copied into the ledger snapshot.
var redactedHeaders = map[string]bool{
	"Authorization":          true,
	"Cookie":                 true,
	"Proxy-Authorization":    true,
	"X-Shopify-Hmac-Sha256":  true,
	"X-Wc-Webhook-Signature": true,
	"X-Seology-Signature":    true,
}

// snapshotHeaders flattens request headers for storage, first value wins.
func snapshotHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		canonical := http.CanonicalHeaderKey(name)
		if redactedHeaders[canonical] || len(values) == 0 {
			continue
		}
		out[canonical] = values[0]
	}
	return out
}
