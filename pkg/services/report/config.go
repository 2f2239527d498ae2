package report

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sell-tools/margin-atlas/pkg/gateway"
)

// Config is the service-level configuration file: upstream endpoints plus
// gateway tuning. Account credentials live in the profile registry, not
// here.
type Config struct {
	MarketBaseURL string `mapstructure:"market_base_url"`
	AdsBaseURL    string `mapstructure:"ads_base_url"`
	AdsTokenURL   string `mapstructure:"ads_token_url"`
	PageLimit     int    `mapstructure:"page_limit"`

	Gateway GatewayConfig `mapstructure:"gateway"`
}

type GatewayConfig struct {
	Capacity    int `mapstructure:"capacity"`
	IntervalMs  int `mapstructure:"interval_ms"`
	Workers     int `mapstructure:"workers"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

// LoadConfig reads the service config file. Missing tuning values fall back
// to the gateway defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("page_limit", 500)
	v.SetDefault("gateway.capacity", 5)
	v.SetDefault("gateway.interval_ms", 1000)
	v.SetDefault("gateway.workers", 2)
	v.SetDefault("gateway.max_attempts", 5)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse service config: %w", err)
	}
	if cfg.MarketBaseURL == "" {
		return nil, fmt.Errorf("market_base_url is required")
	}
	return &cfg, nil
}

// GatewayConfig converts the file values into a gateway.Config.
func (c *Config) GatewayConfig() gateway.Config {
	retry := gateway.DefaultRetryPolicy()
	if c.Gateway.MaxAttempts > 0 {
		retry.MaxAttempts = c.Gateway.MaxAttempts
	}
	return gateway.Config{
		Capacity: c.Gateway.Capacity,
		Interval: time.Duration(c.Gateway.IntervalMs) * time.Millisecond,
		Workers:  c.Gateway.Workers,
		Retry:    retry,
	}
}

// Endpoints extracts the upstream locations for the report service.
func (c *Config) Endpoints() Endpoints {
	return Endpoints{
		MarketBaseURL: c.MarketBaseURL,
		AdsBaseURL:    c.AdsBaseURL,
		AdsTokenURL:   c.AdsTokenURL,
	}
}
