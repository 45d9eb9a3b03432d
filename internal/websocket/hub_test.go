package websocket

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNewHubUsesConfiguredTiming(t *testing.T) {
	log := logrus.New()

	hub := NewHub(Config{
		PingInterval: 15 * time.Second,
		PongTimeout:  45 * time.Second,
		WriteTimeout: 5 * time.Second,
	}, log)

	if hub.timing.PingInterval != 15*time.Second {
		t.Errorf("PingInterval = %v, want 15s", hub.timing.PingInterval)
	}
	if hub.timing.PongTimeout != 45*time.Second {
		t.Errorf("PongTimeout = %v, want 45s", hub.timing.PongTimeout)
	}
	if hub.timing.WriteTimeout != 5*time.Second {
		t.Errorf("WriteTimeout = %v, want 5s", hub.timing.WriteTimeout)
	}
}

func TestNewHubFillsTimingDefaults(t *testing.T) {
	hub := NewHub(Config{}, logrus.New())

	if hub.timing.PingInterval != defaultPingInterval {
		t.Errorf("PingInterval = %v, want %v", hub.timing.PingInterval, defaultPingInterval)
	}
	if hub.timing.PongTimeout != defaultPongTimeout {
		t.Errorf("PongTimeout = %v, want %v", hub.timing.PongTimeout, defaultPongTimeout)
	}
	if hub.timing.WriteTimeout != defaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want %v", hub.timing.WriteTimeout, defaultWriteTimeout)
	}
}

func TestConfigClampsPingBelowPongDeadline(t *testing.T) {
	cfg := Config{
		PingInterval: 2 * time.Minute,
		PongTimeout:  time.Minute,
		WriteTimeout: 10 * time.Second,
	}.withDefaults()

	if cfg.PingInterval >= cfg.PongTimeout {
		t.Errorf("PingInterval %v not below PongTimeout %v", cfg.PingInterval, cfg.PongTimeout)
	}
	if want := 54 * time.Second; cfg.PingInterval != want {
		t.Errorf("PingInterval = %v, want %v", cfg.PingInterval, want)
	}
}
