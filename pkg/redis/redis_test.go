package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestOptionsAppliesTimeouts(t *testing.T) {
	cfg := Config{URL: "redis://localhost:6379/2", ReadTimeout: 1, WriteTimeout: 2, DialTimeout: 4}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.DB != 2 {
		t.Errorf("DB = %d, want 2", opts.DB)
	}
	if opts.ReadTimeout != time.Second || opts.WriteTimeout != 2*time.Second || opts.DialTimeout != 4*time.Second {
		t.Errorf("timeouts not applied: %+v", opts)
	}
}

func TestNewWithoutURL(t *testing.T) {
	var cfg Config
	if _, err := cfg.New(context.Background()); !errors.Is(err, ErrNoURL) {
		t.Fatalf("New() error = %v, want ErrNoURL", err)
	}
}

func TestOptionsRejectsBadURL(t *testing.T) {
	cfg := Config{URL: "http://not-redis"}
	if _, err := cfg.Options(); err == nil {
		t.Fatalf("expected parse error")
	}
}
