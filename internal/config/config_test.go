package config

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lojasmm/rbm/internal/rbm"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RBM_SERVICE_ACCOUNT_FILE", "/etc/rbm/key.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Endpoint != rbm.DefaultEndpoint {
		t.Errorf("endpoint = %q", cfg.Endpoint)
	}
	if cfg.Port != "8080" || cfg.DataDir != "." {
		t.Errorf("port/data dir = %q/%q", cfg.Port, cfg.DataDir)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("timeout = %v", cfg.HTTPTimeout)
	}
	if cfg.Retry != rbm.DefaultRetryPolicy() {
		t.Errorf("retry = %+v", cfg.Retry)
	}
	if cfg.LogLevel != zerolog.InfoLevel {
		t.Errorf("log level = %v", cfg.LogLevel)
	}
	if len(cfg.ClientToken) != 32 {
		t.Errorf("expected a generated 32 char client token, got %q", cfg.ClientToken)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RBM_SERVICE_ACCOUNT_FILE", "/etc/rbm/key.json")
	t.Setenv("RBM_ENDPOINT", "http://localhost:9999")
	t.Setenv("RBM_CLIENT_TOKEN", "shared-token")
	t.Setenv("RBM_HTTP_TIMEOUT", "3s")
	t.Setenv("RBM_RETRY_INITIAL_INTERVAL", "100ms")
	t.Setenv("RBM_RETRY_MULTIPLIER", "2")
	t.Setenv("RBM_RETRY_MAX_RETRIES", "4")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Endpoint != "http://localhost:9999" || cfg.ClientToken != "shared-token" {
		t.Errorf("unexpected endpoint/token %q/%q", cfg.Endpoint, cfg.ClientToken)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("timeout = %v", cfg.HTTPTimeout)
	}
	if cfg.Retry.InitialInterval != 100*time.Millisecond || cfg.Retry.Multiplier != 2 || cfg.Retry.MaxRetries != 4 {
		t.Errorf("retry = %+v", cfg.Retry)
	}
	if cfg.LogLevel != zerolog.DebugLevel {
		t.Errorf("log level = %v", cfg.LogLevel)
	}
}

func TestLoad_MissingServiceAccount(t *testing.T) {
	t.Setenv("RBM_SERVICE_ACCOUNT_FILE", "")

	if _, err := Load(); !errors.Is(err, rbm.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"RBM_HTTP_TIMEOUT", "soon"},
		{"RBM_RETRY_MULTIPLIER", "0.5"},
		{"RBM_RETRY_MULTIPLIER", "fast"},
		{"RBM_RETRY_MAX_RETRIES", "-1"},
		{"RBM_RETRY_MAX_ELAPSED", "forever"},
		{"LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("RBM_SERVICE_ACCOUNT_FILE", "/etc/rbm/key.json")
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
