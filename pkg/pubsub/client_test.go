package pubsub

import (
	"context"
	"testing"

	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
)

func TestTopicResourceName(t *testing.T) {
	cases := []struct {
		project, name, want string
	}{
		{"lockerbox", "lb-order-events", "projects/lockerbox/topics/lb-order-events"},
		{"lockerbox", "projects/other/topics/t1", "projects/other/topics/t1"},
		{"lockerbox", "  ", ""},
		{"", "lb-order-events", ""},
	}
	for _, tc := range cases {
		if got := TopicResourceName(tc.project, tc.name); got != tc.want {
			t.Fatalf("TopicResourceName(%q, %q) = %q, want %q", tc.project, tc.name, got, tc.want)
		}
	}
}

func TestClientOptionsPrecedence(t *testing.T) {
	if got := clientOptions(config.GCPConfig{}); len(got) != 0 {
		t.Fatalf("expected ADC with no options, got %d", len(got))
	}
	if got := clientOptions(config.GCPConfig{CredentialsJSON: `{"type":"service_account"}`, ApplicationCredentials: "/tmp/sa.json"}); len(got) != 1 {
		t.Fatalf("expected one option, got %d", len(got))
	}
	if got := clientOptions(config.GCPConfig{ApplicationCredentials: "/tmp/sa.json"}); len(got) != 1 {
		t.Fatalf("expected one option, got %d", len(got))
	}
}

func TestTopicForAggregates(t *testing.T) {
	cfg := config.PubSubConfig{OrdersTopic: "lb-order-events", MachinesTopic: " lb-machine-events "}

	if got, ok := TopicFor(cfg, enums.AggregateOrder); !ok || got != "lb-order-events" {
		t.Fatalf("order topic = %q, %v", got, ok)
	}
	if got, ok := TopicFor(cfg, enums.AggregateVendingMachine); !ok || got != "lb-machine-events" {
		t.Fatalf("machine topic = %q, %v", got, ok)
	}
	if _, ok := TopicFor(cfg, enums.OutboxAggregateType("locker")); ok {
		t.Fatal("unknown aggregate should have no topic")
	}
	if _, ok := TopicFor(config.PubSubConfig{OrdersTopic: "orders"}, enums.AggregateVendingMachine); ok {
		t.Fatal("blank machines topic should be reported as missing")
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.PublisherFor(enums.AggregateOrder) != nil {
		t.Fatal("nil client returned a publisher")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close nil client: %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping on nil client to fail")
	}
}
