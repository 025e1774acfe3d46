package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/loan-report/internal/config"
	"github.com/iwvelando/loan-report/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address         string                 `yaml:"address"`
	MaxUploadSize   string                 `yaml:"maxUploadSize"`
	Logging         config.LoggingConfig   `yaml:"logging"`
	AllowedOrigins  []string               `yaml:"allowedOrigins"`
	RateLimit       RateLimitConfig        `yaml:"rateLimit"`
	Store           StoreConfig            `yaml:"store"`
	Report          config.ReportConfig    `yaml:"report"`
	Appraisal       config.AppraisalConfig `yaml:"appraisal"`
	uploadSizeBytes int64
}

// RateLimitConfig bounds how many requests one client address may make per
// window. Zero requests disables limiting.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// StoreConfig selects where rendered artifacts are kept for download.
type StoreConfig struct {
	Backend      string        `yaml:"backend"` // memory, redis
	RedisAddress string        `yaml:"redisAddress"`
	TTL          time.Duration `yaml:"ttl"`
	MaxEntries   int           `yaml:"maxEntries"` // memory backend only
}

func defaultConfig() *Config {
	return &Config{
		Address:        constants.DefaultServerAddress,
		MaxUploadSize:  fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes),
		Logging:        config.LoggingConfig{},
		AllowedOrigins: []string{"*"},
		RateLimit: RateLimitConfig{
			Requests: constants.DefaultRateLimitRequests,
			Window:   time.Minute,
		},
		Store:           StoreConfig{Backend: StoreMemory, TTL: constants.DefaultArtifactTTL, MaxEntries: constants.DefaultMaxArtifacts},
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured upload size.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = fmt.Sprintf("%d", size)
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("invalid rate limit: %d requests", c.RateLimit.Requests)
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case "":
		c.Store.Backend = StoreMemory
	case StoreMemory:
	case StoreRedis:
		if c.Store.RedisAddress == "" {
			return errors.New("store backend redis requires redisAddress")
		}
	default:
		return fmt.Errorf("unsupported store backend %q", c.Store.Backend)
	}
	if c.Store.TTL <= 0 {
		c.Store.TTL = constants.DefaultArtifactTTL
	}
	if c.Store.MaxEntries < 0 {
		return fmt.Errorf("invalid store maxEntries: %d", c.Store.MaxEntries)
	}
	if c.Store.MaxEntries == 0 {
		c.Store.MaxEntries = constants.DefaultMaxArtifacts
	}

	sizeStr := strings.TrimSpace(c.MaxUploadSize)
	if sizeStr == "" {
		c.uploadSizeBytes = constants.DefaultMaxUploadSizeBytes
		c.MaxUploadSize = fmt.Sprintf("%d", constants.DefaultMaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	if numPart == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
