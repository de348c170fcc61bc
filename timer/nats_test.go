package timer

import (
	"testing"
	"time"
)

func TestNATSConfigAppliesDefaults(t *testing.T) {
	cfg := NATSConfig{URL: "nats://localhost:4222", Subject: "ticks"}.applyDefaults()
	if cfg.ConnectTimeout != 5*time.Second {
		t.Fatalf("ConnectTimeout = %v, want 5s", cfg.ConnectTimeout)
	}
	if cfg.Logger == nil {
		t.Fatal("Logger = nil, want default logger")
	}
}

func TestNATSConfigKeepsExplicitValues(t *testing.T) {
	cfg := NATSConfig{ConnectTimeout: 2 * time.Second}.applyDefaults()
	if cfg.ConnectTimeout != 2*time.Second {
		t.Fatalf("ConnectTimeout = %v, want 2s", cfg.ConnectTimeout)
	}
}

func TestNATSStopBeforeRunIsSafe(t *testing.T) {
	n := NewNATS(NATSConfig{URL: "nats://localhost:4222", Subject: "ticks"})
	if n.Stopped() {
		t.Fatal("Stopped() = true before Stop, want false")
	}
	n.Stop()
	if !n.Stopped() {
		t.Fatal("Stopped() = false after Stop, want true")
	}
}
