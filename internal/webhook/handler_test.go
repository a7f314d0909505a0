package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	v1 "github.com/seology-ai/eventgate/internal/api/v1"
	httperr "github.com/seology-ai/eventgate/internal/core/errors"
	"github.com/seology-ai/eventgate/internal/core/eventkey"
	"github.com/seology-ai/eventgate/internal/core/storage/memory"
	"github.com/seology-ai/eventgate/internal/gate"
	"github.com/seology-ai/eventgate/internal/metrics"
	webhookmocks "github.com/seology-ai/eventgate/internal/mocks/webhook"
	"github.com/seology-ai/eventgate/internal/webhook"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router    *gin.Engine
	ledger    *memory.Ledger
	gate      *gate.Service
	processor *webhookmocks.Processor
}

func setup(t *testing.T, opts webhook.Options) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ledger := memory.NewLedger()
	g := gate.NewService(ledger, nil, gate.Options{})
	processor := webhookmocks.NewProcessor(t)
	svc := webhook.NewService(g, eventkey.NewDeriver(nil, eventkey.DefaultBucket), processor, opts)

	r := gin.New()
	svc.RegisterRoutes(r)
	return &testEnv{router: r, ledger: ledger, gate: g, processor: processor}
}

func shopifyRequest(body string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/shopify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Shop-Domain", "shop1.myshopify.com")
	req.Header.Set("X-Shopify-Topic", "orders/create")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) webhook.WebhookResponse {
	t.Helper()
	var resp webhook.WebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httperr.ErrorResponse {
	t.Helper()
	var resp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestWebhookHandler_AcceptsOnceThenDuplicate(t *testing.T) {
	env := setup(t, webhook.Options{})

	env.processor.EXPECT().
		Process(mock.Anything, mock.MatchedBy(func(d *webhook.Delivery) bool {
			return d.EventKey == "wh-1" &&
				d.Platform == webhook.PlatformShopify &&
				d.Source == "shop1.myshopify.com" &&
				d.Topic == "orders/create" &&
				string(d.Body) == `{"id":1}` &&
				!d.Retry
		})).
		Return(nil).
		Once()

	headers := map[string]string{"X-Shopify-Webhook-Id": "wh-1"}

	w := serve(env.router, shopifyRequest(`{"id":1}`, headers))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	require.Equal(t, "accepted", resp.Status)
	require.Equal(t, "wh-1", resp.EventKey)
	require.False(t, resp.Degraded)

	w = serve(env.router, shopifyRequest(`{"id":1}`, headers))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "duplicate", decodeResponse(t, w).Status)

	rec, err := env.ledger.Find(context.Background(), "wh-1")
	require.NoError(t, err)
	require.True(t, rec.Processed)
	require.Equal(t, 2, rec.AttemptCount)
	require.Nil(t, rec.RawPayload)
}

func TestWebhookHandler_ContentHashKey(t *testing.T) {
	env := setup(t, webhook.Options{})

	var seen string
	env.processor.EXPECT().
		Process(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, d *webhook.Delivery) error {
			seen = d.EventKey
			return nil
		}).
		Once()

	w := serve(env.router, shopifyRequest(`{"id":1}`, nil))
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, seen, 64)

	w = serve(env.router, shopifyRequest(`{"id":1}`, nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, seen, decodeResponse(t, w).EventKey)
}

func TestWebhookHandler_FailureIsRecordedAndRetried(t *testing.T) {
	env := setup(t, webhook.Options{StorePayload: true})
	headers := map[string]string{"X-Shopify-Webhook-Id": "wh-fail"}

	env.processor.EXPECT().
		Process(mock.Anything, mock.MatchedBy(func(d *webhook.Delivery) bool { return !d.Retry })).
		Return(errors.New("timeout")).
		Once()

	w := serve(env.router, shopifyRequest(`{"id":2}`, headers))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, httperr.HttpInternalError, decodeError(t, w).ErrorType)

	rec, err := env.ledger.Find(context.Background(), "wh-fail")
	require.NoError(t, err)
	require.False(t, rec.Processed)
	require.Equal(t, "timeout", *rec.LastError)
	require.Equal(t, `{"id":2}`, *rec.RawPayload)
	require.Equal(t, "orders/create", rec.ReceivedHeaders["X-Shopify-Topic"])

	stats, err := env.gate.GetStats(context.Background(), "shop1.myshopify.com", rec.FirstSeenAt)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Failed)

	// The provider's retry is processed again.
	env.processor.EXPECT().
		Process(mock.Anything, mock.MatchedBy(func(d *webhook.Delivery) bool { return d.Retry })).
		Return(nil).
		Once()

	w = serve(env.router, shopifyRequest(`{"id":2}`, headers))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	rec, err = env.ledger.Find(context.Background(), "wh-fail")
	require.NoError(t, err)
	require.True(t, rec.Processed)
	require.Nil(t, rec.LastError)
	require.Equal(t, 2, rec.AttemptCount)
}

func TestWebhookHandler_Signatures(t *testing.T) {
	env := setup(t, webhook.Options{Secrets: map[webhook.Platform]string{
		webhook.PlatformShopify: "shpss_secret",
		webhook.PlatformCustom:  "custom_secret",
	}})
	body := `{"id":3}`

	shopifySig, err := webhook.Sign(webhook.PlatformShopify, []byte(body), "shpss_secret")
	require.NoError(t, err)

	env.processor.EXPECT().Process(mock.Anything, mock.Anything).Return(nil).Twice()

	w := serve(env.router, shopifyRequest(body, map[string]string{
		"X-Shopify-Webhook-Id":  "wh-signed",
		"X-Shopify-Hmac-Sha256": shopifySig,
	}))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	rec, err := env.ledger.Find(context.Background(), "wh-signed")
	require.NoError(t, err)
	require.Nil(t, rec.ReceivedHeaders)

	w = serve(env.router, shopifyRequest(body, map[string]string{
		"X-Shopify-Webhook-Id":  "wh-forged",
		"X-Shopify-Hmac-Sha256": "Zm9yZ2Vk",
	}))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, httperr.HttpSignatureMismatchError, decodeError(t, w).ErrorType)

	// A rejected delivery never reaches the ledger.
	_, err = env.ledger.Find(context.Background(), "wh-forged")
	require.Error(t, err)

	customSig, err := webhook.Sign(webhook.PlatformCustom, []byte(body), "custom_secret")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/custom", strings.NewReader(body))
	req.Header.Set("X-Seology-Source", "crm")
	req.Header.Set("X-Seology-Topic", "contact.created")
	req.Header.Set("X-Seology-Event-Id", "crm-1")
	req.Header.Set("X-Seology-Signature", customSig)
	w = serve(env.router, req)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	// WordPress has no secret configured and accepts unsigned deliveries.
	env.processor.EXPECT().Process(mock.Anything, mock.Anything).Return(nil).Once()
	req = httptest.NewRequest(http.MethodPost, "/v1/webhooks/wordpress", strings.NewReader(body))
	req.Header.Set("X-WC-Webhook-Source", "https://blog.example/")
	req.Header.Set("X-WC-Webhook-Topic", "order.created")
	req.Header.Set("X-WC-Webhook-Delivery-ID", "wc-9")
	w = serve(env.router, req)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	stats, err := env.gate.GetStats(context.Background(), "https://blog.example", rec.FirstSeenAt.Add(-1))
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Total)
}

func TestWebhookHandler_RejectsBadRequests(t *testing.T) {
	env := setup(t, webhook.Options{MaxBodySizeMB: 1})

	tests := []struct {
		name       string
		req        func() *http.Request
		wantStatus int
		wantType   string
	}{
		{
			name: "unknown platform",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/v1/webhooks/stripe", strings.NewReader(`{}`))
			},
			wantStatus: http.StatusNotFound,
			wantType:   httperr.HttpUnknownPlatformError,
		},
		{
			name: "missing topic",
			req: func() *http.Request {
				req := shopifyRequest(`{}`, nil)
				req.Header.Del("X-Shopify-Topic")
				return req
			},
			wantStatus: http.StatusBadRequest,
			wantType:   httperr.HttpInvalidRequestError,
		},
		{
			name: "blank source",
			req: func() *http.Request {
				return shopifyRequest(`{}`, map[string]string{"X-Shopify-Shop-Domain": "  "})
			},
			wantStatus: http.StatusBadRequest,
			wantType:   httperr.HttpInvalidRequestError,
		},
		{
			name: "body too large",
			req: func() *http.Request {
				return shopifyRequest(strings.Repeat("a", 1024*1024+1), nil)
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   httperr.HttpPayloadTooLargeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(env.router, tt.req())
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			require.Equal(t, tt.wantType, decodeError(t, w).ErrorType)
		})
	}

	require.Zero(t, env.ledger.Len())
}

func TestWebhookHandler_RecordsMetrics(t *testing.T) {
	env := setup(t, webhook.Options{})
	env.processor.EXPECT().Process(mock.Anything, mock.Anything).Return(nil).Once()

	accepted := metrics.WebhookRequestsTotal.WithLabelValues("shopify", "202")
	duplicate := metrics.WebhookRequestsTotal.WithLabelValues("shopify", "200")
	unknown := metrics.WebhookRequestsTotal.WithLabelValues("unknown", "404")
	acceptedBefore := testutil.ToFloat64(accepted)
	duplicateBefore := testutil.ToFloat64(duplicate)
	unknownBefore := testutil.ToFloat64(unknown)

	headers := map[string]string{"X-Shopify-Webhook-Id": "wh-metrics"}
	serve(env.router, shopifyRequest(`{}`, headers))
	serve(env.router, shopifyRequest(`{}`, headers))
	serve(env.router, httptest.NewRequest(http.MethodPost, "/v1/webhooks/paypal", strings.NewReader(`{}`)))

	require.Equal(t, acceptedBefore+1, testutil.ToFloat64(accepted))
	require.Equal(t, duplicateBefore+1, testutil.ToFloat64(duplicate))
	require.Equal(t, unknownBefore+1, testutil.ToFloat64(unknown))
}

// degradedGate simulates a ledger outage.
type degradedGate struct {
	marked []gate.Outcome
}

func (g *degradedGate) IsDuplicate(ctx context.Context, eventKey, source, topic string) gate.CheckResult {
	return gate.CheckResult{Degraded: true}
}

func (g *degradedGate) MarkProcessed(ctx context.Context, eventKey, source, topic string, out gate.Outcome) {
	g.marked = append(g.marked, out)
}

func TestWebhookHandler_FailsOpenWhenLedgerIsDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := &degradedGate{}
	processor := webhookmocks.NewProcessor(t)
	svc := webhook.NewService(g, eventkey.NewDeriver(nil, 0), processor, webhook.Options{})
	r := gin.New()
	svc.RegisterRoutes(r)

	processor.EXPECT().Process(mock.Anything, mock.Anything).Return(nil).Twice()

	headers := map[string]string{"X-Shopify-Webhook-Id": "wh-down"}
	for i := 0; i < 2; i++ {
		w := serve(r, shopifyRequest(`{}`, headers))
		require.Equal(t, http.StatusAccepted, w.Code)
		require.True(t, decodeResponse(t, w).Degraded)
	}
	require.Len(t, g.marked, 2)
}

func TestNewService_PanicsOnMissingDependencies(t *testing.T) {
	deriver := eventkey.NewDeriver(nil, 0)
	processor := webhook.ProcessorFunc(func(ctx context.Context, d *webhook.Delivery) error { return nil })

	require.Panics(t, func() { webhook.NewService(nil, deriver, processor, webhook.Options{}) })
	require.Panics(t, func() { webhook.NewService(&degradedGate{}, nil, processor, webhook.Options{}) })
	require.Panics(t, func() { webhook.NewService(&degradedGate{}, deriver, nil, webhook.Options{}) })
}

func TestWebhookHandler_AbandonedDeliveryIsRetried(t *testing.T) {
	env := setup(t, webhook.Options{})
	ctx := context.Background()

	// First attempts that never recorded an outcome: one long ago, one just now.
	seenAt := time.Now().UTC()
	for key, at := range map[string]time.Time{
		"wh-stuck":    seenAt.Add(-time.Hour),
		"wh-inflight": seenAt,
	} {
		_, err := env.ledger.Observe(ctx, &v1.EventRecord{
			EventKey:   key,
			Source:     "shop1.myshopify.com",
			Topic:      "orders/create",
			LastSeenAt: at,
			ExpiresAt:  at.Add(gate.DefaultRetention),
		})
		require.NoError(t, err)
	}

	env.processor.EXPECT().
		Process(mock.Anything, mock.MatchedBy(func(d *webhook.Delivery) bool {
			return d.EventKey == "wh-stuck" && d.Retry
		})).
		Return(nil).
		Once()

	w := serve(env.router, shopifyRequest(`{"id":9}`, map[string]string{"X-Shopify-Webhook-Id": "wh-stuck"}))
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	rec, err := env.ledger.Find(ctx, "wh-stuck")
	require.NoError(t, err)
	require.True(t, rec.Processed)

	w = serve(env.router, shopifyRequest(`{"id":9}`, map[string]string{"X-Shopify-Webhook-Id": "wh-stuck"}))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "duplicate", decodeResponse(t, w).Status)

	w = serve(env.router, shopifyRequest(`{"id":10}`, map[string]string{"X-Shopify-Webhook-Id": "wh-inflight"}))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "duplicate", decodeResponse(t, w).Status)
}
