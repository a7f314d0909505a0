package webhook

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seology-ai/eventgate/internal/core/eventkey"
	"github.com/seology-ai/eventgate/internal/gate"
)

// Gate is the part of the idempotency gate the receiver depends on.
type Gate interface {
	IsDuplicate(ctx context.Context, eventKey, source, topic string) gate.CheckResult
	MarkProcessed(ctx context.Context, eventKey, source, topic string, out gate.Outcome)
}

// Options configures the receiver.
type Options struct {
	// Secrets maps a platform to its HMAC secret. Platforms without a
	// secret accept unsigned deliveries.
	Secrets map[Platform]string

	MaxBodySizeMB int

	// StorePayload keeps the raw body and headers in the ledger record.
	StorePayload bool
}

type Service struct {
	gate             Gate
	deriver          *eventkey.Deriver
	processor        Processor
	secrets          map[Platform]string
	maxBodySizeBytes int
	storePayload     bool
	nowFn            func() time.Time
}

func NewService(g Gate, deriver *eventkey.Deriver, processor Processor, opts Options) *Service {
	if g == nil {
		panic("webhook: gate must not be nil")
	}
	if deriver == nil {
		panic("webhook: deriver must not be nil")
	}
	if processor == nil {
		panic("webhook: processor must not be nil")
	}
	if opts.MaxBodySizeMB <= 0 {
		opts.MaxBodySizeMB = 1
	}

	secrets := make(map[Platform]string, len(opts.Secrets))
	for p, secret := range opts.Secrets {
		if secret != "" {
			secrets[p] = secret
		}
	}

	return &Service{
		gate:             g,
		deriver:          deriver,
		processor:        processor,
		secrets:          secrets,
		maxBodySizeBytes: opts.MaxBodySizeMB * 1024 * 1024,
		storePayload:     opts.StorePayload,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// RegisterRoutes registers the webhook intake route.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/webhooks/:platform", s.WebhookHandler)
}
