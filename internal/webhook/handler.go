package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	httperr "github.com/seology-ai/eventgate/internal/core/errors"
	"github.com/seology-ai/eventgate/internal/core/eventkey"
	"github.com/seology-ai/eventgate/internal/gate"
	"github.com/seology-ai/eventgate/internal/metrics"
)

const (
	msgReadBodyFailed     = "Failed to read request body"
	msgBodyTooLarge       = "Request body exceeds maximum allowed size"
	msgUnknownPlatform    = "Unknown webhook platform"
	msgSignatureMismatch  = "Webhook signature verification failed"
	msgMissingMetadata    = "Webhook source and topic headers are required"
	msgKeyDerivation      = "Could not derive event key"
	msgProcessingFailed   = "Webhook processing failed"
	statusAccepted        = "accepted"
	statusDuplicate       = "duplicate"
	unknownPlatformMetric = "unknown"
)

// webhookError carries the HTTP error shape from a helper back to the handler.
type webhookError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *webhookError) Error() string {
	return e.message
}

// WebhookResponse is the body of a successful or duplicate delivery.
type WebhookResponse struct {
	Status   string `json:"status"`
	EventKey string `json:"event_key"`
	Degraded bool   `json:"degraded,omitempty"`
}

// WebhookHandler handles POST /v1/webhooks/:platform
func (s *Service) WebhookHandler(c *gin.Context) {
	start := time.Now()
	platformLabel := unknownPlatformMetric
	defer func() {
		metrics.WebhookRequestsTotal.WithLabelValues(platformLabel, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.WebhookDuration.WithLabelValues(platformLabel).Observe(time.Since(start).Seconds())
	}()

	platform, err := ParsePlatform(c.Param("platform"))
	if err != nil {
		writeError(c, &webhookError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpUnknownPlatformError,
			message:    msgUnknownPlatform,
			details:    map[string]interface{}{"platform": c.Param("platform")},
		})
		return
	}
	platformLabel = string(platform)

	body, werr := s.readBody(c)
	if werr != nil {
		writeError(c, werr)
		return
	}

	if werr := s.verifySignature(platform, c.Request.Header, body); werr != nil {
		writeError(c, werr)
		return
	}

	delivery, werr := s.buildDelivery(platform, c.Request.Header, body, s.nowFn())
	if werr != nil {
		writeError(c, werr)
		return
	}

	ctx := c.Request.Context()
	check := s.gate.IsDuplicate(ctx, delivery.EventKey, delivery.Source, delivery.Topic)
	if check.Duplicate && !check.Retryable() {
		slog.Info("[Webhook] Duplicate delivery acknowledged",
			"event_key", delivery.EventKey,
			"platform", platform,
			"source", delivery.Source,
			"topic", delivery.Topic,
			"attempt_count", check.AttemptCount,
			"processed", check.Processed)
		c.JSON(http.StatusOK, WebhookResponse{Status: statusDuplicate, EventKey: delivery.EventKey})
		return
	}
	delivery.Retry = check.Retryable()

	if err := s.process(ctx, delivery); err != nil {
		writeError(c, &webhookError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgProcessingFailed,
			details:    map[string]interface{}{"event_key": delivery.EventKey},
		})
		return
	}

	c.JSON(http.StatusAccepted, WebhookResponse{
		Status:   statusAccepted,
		EventKey: delivery.EventKey,
		Degraded: check.Degraded,
	})
}

// readBody reads the raw request body, rejecting anything over the size limit.
func (s *Service) readBody(c *gin.Context) ([]byte, *webhookError) {
	maxBytes := int64(s.maxBodySizeBytes)
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
	if err != nil {
		slog.Error("[Webhook] Failed to read request body", "error", err)
		return nil, &webhookError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(body)) > maxBytes {
		slog.Warn("[Webhook] Request body exceeds maximum size", "size", len(body), "max", maxBytes)
		return nil, &webhookError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpPayloadTooLargeError,
			message:    msgBodyTooLarge,
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}
	return body, nil
}

func (s *Service) verifySignature(platform Platform, headers http.Header, body []byte) *webhookError {
	secret, ok := s.secrets[platform]
	if !ok {
		return nil
	}

	signature, _ := eventkey.Lookup(headers, platform.SignatureHeader())
	if err := Verify(platform, signature, body, secret); err != nil {
		slog.Warn("[Webhook] Signature verification failed", "platform", platform, "error", err)
		return &webhookError{
			statusCode: http.StatusUnauthorized,
			errorType:  httperr.HttpSignatureMismatchError,
			message:    msgSignatureMismatch,
		}
	}
	return nil
}

func (s *Service) buildDelivery(platform Platform, headers http.Header, body []byte, receivedAt time.Time) (*Delivery, *webhookError) {
	source, topic, err := resolveMetadata(platform, headers)
	if err != nil {
		slog.Warn("[Webhook] Delivery without source or topic", "platform", platform)
		return nil, &webhookError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    msgMissingMetadata,
			details: map[string]interface{}{
				"source_header": profiles[platform].source,
				"topic_header":  profiles[platform].topic,
			},
		}
	}

	key, err := s.deriver.Derive(headers, body, eventkey.Context{Source: source, Topic: topic})
	if err != nil {
		return nil, &webhookError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRequestError,
			message:    msgKeyDerivation,
			details:    err.Error(),
		}
	}

	return &Delivery{
		EventKey:   key,
		Platform:   platform,
		Source:     source,
		Topic:      topic,
		Headers:    snapshotHeaders(headers),
		Body:       body,
		ReceivedAt: receivedAt,
	}, nil
}

// process runs the processor and records the outcome in the ledger.
func (s *Service) process(ctx context.Context, d *Delivery) error {
	procErr := s.processor.Process(ctx, d)

	out := gate.Outcome{Processed: procErr == nil}
	if procErr != nil {
		out.Error = procErr.Error()
	}
	if s.storePayload {
		out.RawPayload = d.Body
		out.Headers = d.Headers
	}

	// The outcome is recorded even when the client went away mid-request.
	s.gate.MarkProcessed(context.WithoutCancel(ctx), d.EventKey, d.Source, d.Topic, out)

	if procErr != nil {
		if errors.Is(procErr, context.Canceled) {
			slog.Warn("[Webhook] Processing cancelled", "event_key", d.EventKey)
		} else {
			slog.Error("[Webhook] Processing failed",
				"event_key", d.EventKey,
				"platform", d.Platform,
				"source", d.Source,
				"topic", d.Topic,
				"retry", d.Retry,
				"error", procErr)
		}
		return procErr
	}

	slog.Info("[Webhook] Delivery accepted",
		"event_key", d.EventKey,
		"platform", d.Platform,
		"source", d.Source,
		"topic", d.Topic,
		"retry", d.Retry,
		"payload_size", len(d.Body))
	return nil
}

func writeError(c *gin.Context, err *webhookError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
