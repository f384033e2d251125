// Package config loads the bellwether service's runtime configuration: the
// vendor bearer credential, venue base URLs, cache backend selection, Redis
// address, HTTP bind address and log level (spec.md §6 "Configuration" — the
// numeric policy values are compile-time constants in internal/domain). Backed by spf13/viper with BELLWETHER_* environment
// overrides, following the env-driven pattern used throughout the pack.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// CacheBackend selects the Store implementation the service wires up.
type CacheBackend string

const (
	CacheBackendNone   CacheBackend = "none"
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

// Config is the full set of runtime-tunable values.
type Config struct {
	VendorBearerToken string       `mapstructure:"vendor_bearer_token"`
	PolymarketBaseURL string       `mapstructure:"polymarket_base_url"`
	KalshiBaseURL     string       `mapstructure:"kalshi_base_url"`
	CacheBackend      CacheBackend `mapstructure:"cache_backend"`
	RedisAddr         string       `mapstructure:"redis_addr"`
	HTTPAddr          string       `mapstructure:"http_addr"`
	LogLevel          string       `mapstructure:"log_level"`
}

// Load reads configuration from BELLWETHER_* environment variables, falling
// back to sane development defaults for anything non-sensitive.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BELLWETHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("polymarket_base_url", "https://clob.polymarket.com")
	v.SetDefault("kalshi_base_url", "https://trading-api.kalshi.com/trade-api/v2")
	v.SetDefault("cache_backend", string(CacheBackendMemory))
	v.SetDefault("redis_addr", "")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")

	cfg := &Config{
		VendorBearerToken: v.GetString("vendor_bearer_token"),
		PolymarketBaseURL: v.GetString("polymarket_base_url"),
		KalshiBaseURL:     v.GetString("kalshi_base_url"),
		CacheBackend:      CacheBackend(v.GetString("cache_backend")),
		RedisAddr:         v.GetString("redis_addr"),
		HTTPAddr:          v.GetString("http_addr"),
		LogLevel:          v.GetString("log_level"),
	}
	return cfg, nil
}

// CredentialConfigured reports whether a vendor bearer token was supplied.
func (c *Config) CredentialConfigured() bool {
	return c.VendorBearerToken != ""
}
