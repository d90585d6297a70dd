package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the Bitget REST API host.
const DefaultBaseURL = "https://api.bitget.com"

// Credentials holds API authentication credentials for an exchange.
// All three values are issued together when the API key is created.
type Credentials struct {
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key" yaml:"api_key" validate:"required"`
	// SecretKey is the private key used for signing requests.
	SecretKey string `json:"secret_key" yaml:"secret_key" validate:"required"`
	// Passphrase is the extra secret chosen by the user when the key was created.
	Passphrase string `json:"passphrase" yaml:"passphrase" validate:"required"`
}

// String returns a masked representation safe for logs.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{APIKey:%s}", maskKey(c.APIKey))
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler. Secrets are never emitted.
func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("api_key", maskKey(c.APIKey))
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

// Config contains all configuration options for a client.
// It covers authentication, networking, execution mode and throttling.
type Config struct {
	Credentials *Credentials `json:"credentials" yaml:"credentials" validate:"required"`

	BaseURL string `json:"base_url" yaml:"base_url" validate:"required,url"`
	// Proxy is an optional "host:port" or "user:pass@host:port" address, with or without scheme.
	Proxy string `json:"proxy,omitempty" yaml:"proxy"`

	// Mode selects the transport implementation once, at construction.
	Mode Mode `json:"mode" yaml:"mode" validate:"oneof=0 1"`
	// Workers is the size of the concurrent transport's worker pool.
	Workers int `json:"workers" yaml:"workers" validate:"min=0"`

	// Timeout is the maximum duration for a single HTTP exchange.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"min=1ms"`

	// RateLimitRequests per RateLimitPeriod is applied per endpoint. Zero disables throttling.
	RateLimitRequests int           `json:"rate_limit_requests" yaml:"rate_limit_requests" validate:"min=0"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" yaml:"rate_limit_period" validate:"min=0"`

	// QuoteCoin is appended to a coin to form spot symbols (ETH -> ETHUSDT).
	QuoteCoin string `json:"quote_coin" yaml:"quote_coin" validate:"required,alphanum"`
	Locale    string `json:"locale" yaml:"locale" validate:"required"`

	// LogLevel overrides the level of the injected logger. Empty keeps the logger's own.
	LogLevel string `json:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with sensible defaults for the given credentials.
// Default values: blocking mode, 8 workers, 10s timeout, 10 requests/s per endpoint,
// USDT quote coin, en-US locale.
func DefaultConfig(creds *Credentials) *Config {
	return &Config{
		Credentials: creds,
		BaseURL:     DefaultBaseURL,
		Mode:        ModeBlocking,
		Workers:     8,
		Timeout:     10 * time.Second,

		RateLimitRequests: 10,
		RateLimitPeriod:   time.Second,

		QuoteCoin: "USDT",
		Locale:    "en-US",
	}
}

var validate = validator.New()

// Validate checks the struct tags and the cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.RateLimitRequests > 0 && c.RateLimitPeriod <= 0 {
		return errors.New("RateLimitPeriod must be positive when RateLimitRequests is set")
	}
	if c.Mode == ModeConcurrent && c.Workers == 0 {
		return errors.New("Workers must be positive in concurrent mode")
	}
	return nil
}

// WithMode sets the execution mode and returns the config for chaining.
func (c *Config) WithMode(mode Mode) *Config {
	c.Mode = mode
	return c
}

// WithProxy sets the proxy address and returns the config for chaining.
func (c *Config) WithProxy(proxy string) *Config {
	c.Proxy = proxy
	return c
}

// WithBaseURL overrides the API host and returns the config for chaining.
func (c *Config) WithBaseURL(url string) *Config {
	c.BaseURL = url
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRateLimit sets the per-endpoint throttle and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.RateLimitRequests = requests
	c.RateLimitPeriod = period
	return c
}

// LoadConfig reads a YAML config file. ${VAR} references are expanded from the
// environment before decoding so secrets can stay out of the file. Fields absent
// from the file keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := DefaultConfig(nil)
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return config, nil
}
