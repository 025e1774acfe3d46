package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iwvelando/loan-report/pkg/constants"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address == "" {
		t.Fatalf("expected default address, got empty")
	}
	if cfg.UploadSizeBytes() <= 0 {
		t.Fatalf("expected positive default max upload size, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "" || cfg.Logging.Format != "" || cfg.Logging.OutputFile != "" {
		t.Fatalf("expected empty logging defaults, got %+v", cfg.Logging)
	}
	if cfg.RateLimit.Requests != constants.DefaultRateLimitRequests || cfg.RateLimit.Window != time.Minute {
		t.Fatalf("expected default rate limit, got %+v", cfg.RateLimit)
	}
	if cfg.Store.Backend != StoreMemory || cfg.Store.TTL != time.Hour || cfg.Store.MaxEntries != constants.DefaultMaxArtifacts {
		t.Fatalf("expected in-memory store with one hour ttl, got %+v", cfg.Store)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("expected all origins allowed by default, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`address: 127.0.0.1:9000
maxUploadSize: 2M
logging:
  level: debug
  format: console
  outputFile: /tmp/server.log
allowedOrigins:
  - https://bank.example
rateLimit:
  requests: 10
  window: 30s
store:
  backend: Redis
  redisAddress: localhost:6379
  ttl: 15m
report:
  currencySymbol: Rs.
appraisal:
  minHorizon: 10
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.UploadSizeBytes() != 2*1024*1024 {
		t.Fatalf("expected max upload override, got %d", cfg.UploadSizeBytes())
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected logging format console, got %s", cfg.Logging.Format)
	}
	if cfg.Logging.OutputFile != "/tmp/server.log" {
		t.Fatalf("expected logging outputFile /tmp/server.log, got %s", cfg.Logging.OutputFile)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://bank.example" {
		t.Fatalf("expected allowed origins override, got %v", cfg.AllowedOrigins)
	}
	if cfg.RateLimit.Requests != 10 || cfg.RateLimit.Window != 30*time.Second {
		t.Fatalf("expected rate limit override, got %+v", cfg.RateLimit)
	}
	if cfg.Store.Backend != StoreRedis || cfg.Store.RedisAddress != "localhost:6379" || cfg.Store.TTL != 15*time.Minute {
		t.Fatalf("expected redis store override, got %+v", cfg.Store)
	}
	if cfg.Report.CurrencySymbol != "Rs." {
		t.Fatalf("expected currency symbol Rs., got %s", cfg.Report.CurrencySymbol)
	}
	if cfg.Appraisal.MinHorizon != 10 {
		t.Fatalf("expected minimum horizon 10, got %d", cfg.Appraisal.MinHorizon)
	}
}

func TestLoadConfigRejectsBadStore(t *testing.T) {
	tests := map[string]string{
		"unknown backend":      "store:\n  backend: s3\n",
		"redis without addr":   "store:\n  backend: redis\n",
		"negative rate limit":  "rateLimit:\n  requests: -1\n",
		"negative max entries": "store:\n  maxEntries: -1\n",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "server-config.yaml")
			if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Fatalf("expected error for %s but got nil", name)
			}
		})
	}
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	if err := os.WriteFile(path, []byte("maxUploadSize: invalid"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"":          constants.DefaultMaxUploadSizeBytes,
		"1024":      1024,
		"512b":      512,
		"256K":      256 * 1024,
		"1m":        1024 * 1024,
		"3MB":       3 * 1024 * 1024,
		"2G":        2 * 1024 * 1024 * 1024,
		"  4096   ": 4096,
	}

	for input, expected := range tests {
		got, err := ParseSize(input)
		if err != nil {
			t.Fatalf("parseSize(%q) returned error: %v", input, err)
		}
		if got != expected {
			t.Fatalf("parseSize(%q) = %d, expected %d", input, got, expected)
		}
	}

	if _, err := ParseSize("1TB"); err == nil {
		t.Fatal("expected error for unsupported unit")
	}
	if _, err := ParseSize("abc"); err == nil {
		t.Fatal("expected error for invalid number")
	}
}
