package pubsub

import (
	"context"
	"testing"

	"github.com/angelmondragon/planfinderz-storefront/pkg/config"
)

func TestTopicResourceName(t *testing.T) {
	c := &Client{projectID: "planfinderz-dev"}
	if got := c.topicResourceName("checkout-submissions"); got != "projects/planfinderz-dev/topics/checkout-submissions" {
		t.Fatalf("unexpected resource name %s", got)
	}
	full := "projects/other/topics/orders"
	if got := c.topicResourceName(full); got != full {
		t.Fatalf("full resource names should pass through, got %s", got)
	}
	if got := c.topicResourceName("  "); got != "" {
		t.Fatalf("blank topic should resolve to empty, got %s", got)
	}
	if got := (&Client{}).topicResourceName("orders"); got != "" {
		t.Fatalf("missing project should resolve to empty, got %s", got)
	}
}

func TestNewClientRequiresProject(t *testing.T) {
	if _, err := NewClient(context.Background(), config.GCPConfig{}, []string{"t"}, nil); err != errProjectIDRequired {
		t.Fatalf("expected project id error, got %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Publisher("t") != nil {
		t.Fatalf("nil client should not hand out publishers")
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error on nil client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close on nil client should be a no-op: %v", err)
	}
	if _, err := c.Publish(context.Background(), "t", nil, nil); err == nil {
		t.Fatalf("expected publish error on nil client")
	}
}

func TestCleanNames(t *testing.T) {
	got := cleanNames([]string{" a ", "", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected names %v", got)
	}
}
