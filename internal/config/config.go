package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the rooms-api service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"rooms-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"ROOMS_API_PORT" envDefault:"8190"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// 100ms management API
	HMSAccessKey    string        `env:"HMS_ACCESS_KEY"`
	HMSSecret       string        `env:"HMS_SECRET"`
	HMSBaseURL      string        `env:"HMS_API_BASE_URL" envDefault:"https://api.100ms.live/v2"`
	HMSTemplateID   string        `env:"HMS_TEMPLATE_ID"`
	HMSTokenRefresh time.Duration `env:"HMS_TOKEN_REFRESH" envDefault:"12h"`
	HMSTokenTTL     time.Duration `env:"HMS_TOKEN_TTL" envDefault:"24h"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	// Rooms
	RoomNamePrefix    string        `env:"ROOM_NAME_PREFIX" envDefault:"room"`
	RoomIdleTimeout   time.Duration `env:"ROOM_IDLE_TIMEOUT" envDefault:"5m"`
	RoomSweepInterval time.Duration `env:"ROOM_SWEEP_INTERVAL" envDefault:"1m"`

	// Rate limiting
	RateLimitWindow          time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"10m"`
	RateLimitMax             int           `env:"RATE_LIMIT_MAX" envDefault:"300"`
	RateLimitTrustRemoteAddr bool          `env:"RATE_LIMIT_TRUST_REMOTE_ADDR" envDefault:"false"`

	// RateLimitTrustedProxies lists proxy IPs or CIDRs. When set, forwarded
	// headers are honoured only from these peers.
	RateLimitTrustedProxies []string `env:"RATE_LIMIT_TRUSTED_PROXIES" envSeparator:","`

	// Identity lookup (optional)
	IdentityAPIURL  string        `env:"IDENTITY_API_URL" envDefault:"https://api.neynar.com/v2"`
	IdentityAPIKey  string        `env:"IDENTITY_API_KEY"`
	IdentityTimeout time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"3s"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	// Validate 100ms configuration
	if strings.TrimSpace(c.HMSAccessKey) == "" {
		return fmt.Errorf("HMS_ACCESS_KEY is required")
	}
	if strings.TrimSpace(c.HMSSecret) == "" {
		return fmt.Errorf("HMS_SECRET is required")
	}
	if strings.TrimSpace(c.HMSTemplateID) == "" {
		return fmt.Errorf("HMS_TEMPLATE_ID is required")
	}
	if c.HMSTokenRefresh <= 0 || c.HMSTokenTTL <= 0 {
		return fmt.Errorf("HMS_TOKEN_REFRESH and HMS_TOKEN_TTL must be positive")
	}
	if c.HMSTokenRefresh >= c.HMSTokenTTL {
		return fmt.Errorf("HMS_TOKEN_REFRESH (%s) must be shorter than HMS_TOKEN_TTL (%s)", c.HMSTokenRefresh, c.HMSTokenTTL)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	// Validate room settings
	if strings.TrimSpace(c.RoomNamePrefix) == "" {
		return fmt.Errorf("ROOM_NAME_PREFIX is required")
	}
	if c.RoomIdleTimeout <= 0 || c.RoomSweepInterval <= 0 {
		return fmt.Errorf("ROOM_IDLE_TIMEOUT and ROOM_SWEEP_INTERVAL must be positive")
	}

	// Validate rate limiting
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if _, err := c.TrustedProxyNets(); err != nil {
		return err
	}

	return nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// TrustedProxyNets parses RATE_LIMIT_TRUSTED_PROXIES. Bare IPs become
// single-host networks.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, raw := range c.RateLimitTrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("RATE_LIMIT_TRUSTED_PROXIES: invalid address %q", entry)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			entry = fmt.Sprintf("%s/%d", ip.String(), bits)
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT_TRUSTED_PROXIES: invalid network %q: %w", entry, err)
		}
		nets = append(nets, network)
	}
	return nets, nil
}
