package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = &NoopPublisher{}
	if err := pub.Publish(context.Background(), TopicLedgerSwept, LedgerSwept{Deleted: 3}); err != nil {
		t.Fatalf("NoopPublisher.Publish returned unexpected error: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("NoopPublisher.Close returned unexpected error: %v", err)
	}
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicDuplicateObserved, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	event := DuplicateObserved{EventKey: "abc123", Source: "shop1", Topic: "orders/create", AttemptCount: 2}
	if err := pub.Publish(context.Background(), TopicDuplicateObserved, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		var got DuplicateObserved
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.EventKey != "abc123" || got.AttemptCount != 2 {
			t.Errorf("got %+v, want event_key=abc123 attempt_count=2", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_CancelledContext(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.Publish(ctx, TopicLedgerSwept, LedgerSwept{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewNATSPublisher_BadURL(t *testing.T) {
	if _, err := NewNATSPublisher("nats://127.0.0.1:1", nats.Timeout(200*time.Millisecond)); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestWebhookSubject(t *testing.T) {
	tests := []struct {
		platform, topic, want string
	}{
		{"shopify", "orders/create", "seology.webhooks.shopify.orders.create"},
		{"Shopify", "Products/Update", "seology.webhooks.shopify.products.update"},
		{"wordpress", "post.updated", "seology.webhooks.wordpress.post.updated"},
		{"custom", "/weird//topic/ ", "seology.webhooks.custom.weird.topic"},
		{"custom", "a.*.>", "seology.webhooks.custom.a"},
		{"custom", "", "seology.webhooks.custom.unknown"},
	}
	for _, tt := range tests {
		if got := WebhookSubject(tt.platform, tt.topic); got != tt.want {
			t.Errorf("WebhookSubject(%q, %q) = %q, want %q", tt.platform, tt.topic, got, tt.want)
		}
	}
}
