package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// defaultProducts is the static keyword list tracked when none is
// configured.
var defaultProducts = []string{
	"wireless earbuds", "air fryer", "neck massager", "led strip lights",
	"portable blender", "car vacuum", "pet grooming brush", "smartwatch",
	"projector", "mini printer", "heated blanket", "aroma diffuser",
}

// Config holds all application configuration.
type Config struct {
	Products []string `yaml:"products"`
	Pricing  struct {
		MarkupMultiplier float64 `yaml:"markup_multiplier"`
		ShippingCost     float64 `yaml:"shipping_cost"`
	} `yaml:"pricing"`
	Sources struct {
		TrendsBaseURL      string `yaml:"trends_base_url"`
		MarketplaceBaseURL string `yaml:"marketplace_base_url"`
		BuzzBaseURL        string `yaml:"buzz_base_url"`
		AdsBaseURL         string `yaml:"ads_base_url"`
		TimeoutSeconds     int    `yaml:"timeout_seconds"`
	} `yaml:"sources"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Server struct {
		ListenAddr  string `yaml:"listen_addr"`
		ReleaseMode bool   `yaml:"release_mode"`
	} `yaml:"server"`
	Ads struct {
		CacheTTLMinutes int `yaml:"cache_ttl_minutes"`
	} `yaml:"ads"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PRODUCTS"); v != "" {
		parts := strings.Split(v, ",")
		cfg.Products = cfg.Products[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Products = append(cfg.Products, p)
			}
		}
	}
	if v := os.Getenv("TRENDS_BASE_URL"); v != "" {
		cfg.Sources.TrendsBaseURL = v
	}
	if v := os.Getenv("MARKETPLACE_BASE_URL"); v != "" {
		cfg.Sources.MarketplaceBaseURL = v
	}
	if v := os.Getenv("BUZZ_BASE_URL"); v != "" {
		cfg.Sources.BuzzBaseURL = v
	}
	if v := os.Getenv("ADS_BASE_URL"); v != "" {
		cfg.Sources.AdsBaseURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("MARKUP_MULTIPLIER"); v != "" {
		var markup float64
		if _, err := fmt.Sscanf(v, "%f", &markup); err == nil {
			cfg.Pricing.MarkupMultiplier = markup
		}
	}
	if v := os.Getenv("SHIPPING_COST"); v != "" {
		var shipping float64
		if _, err := fmt.Sscanf(v, "%f", &shipping); err == nil {
			cfg.Pricing.ShippingCost = shipping
		}
	}

	// Defaults
	if len(cfg.Products) == 0 {
		cfg.Products = append([]string(nil), defaultProducts...)
	}
	if cfg.Pricing.MarkupMultiplier == 0 {
		cfg.Pricing.MarkupMultiplier = 2.5
	}
	if cfg.Pricing.ShippingCost == 0 {
		cfg.Pricing.ShippingCost = 3.0
	}
	if cfg.Sources.MarketplaceBaseURL == "" {
		cfg.Sources.MarketplaceBaseURL = "https://www.aliexpress.com"
	}
	if cfg.Sources.TimeoutSeconds == 0 {
		cfg.Sources.TimeoutSeconds = 6
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/trends.db"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */5 * * * *"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8050"
	}
	if cfg.Ads.CacheTTLMinutes == 0 {
		cfg.Ads.CacheTTLMinutes = 30
	}

	return cfg, nil
}

// SourceTimeout returns the bounded per-request timeout for signal sources.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Sources.TimeoutSeconds) * time.Second
}

// AdsCacheTTL returns the freshness window for cached ad creatives.
func (c *Config) AdsCacheTTL() time.Duration {
	return time.Duration(c.Ads.CacheTTLMinutes) * time.Minute
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Products) == 0 {
		return fmt.Errorf("products list must not be empty")
	}
	if c.Pricing.MarkupMultiplier <= 1 {
		return fmt.Errorf("pricing.markup_multiplier must be greater than 1")
	}
	if c.Pricing.ShippingCost < 0 {
		return fmt.Errorf("pricing.shipping_cost must not be negative")
	}
	if c.Sources.TimeoutSeconds <= 0 {
		return fmt.Errorf("sources.timeout_seconds must be positive")
	}
	return nil
}
