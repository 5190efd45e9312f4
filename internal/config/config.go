// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Headless  HeadlessConfig  `mapstructure:"headless"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	DB        DBConfig        `mapstructure:"db"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ScraperConfig governs the crawl controller.
type ScraperConfig struct {
	MaxDepth        int    `mapstructure:"max_depth"`
	MaxCardsPerPage int    `mapstructure:"max_cards_per_page"`
	MaxListingJobs  int    `mapstructure:"max_listing_jobs"`
	MaxGatewayLinks int    `mapstructure:"max_gateway_links"`
	Concurrency     int    `mapstructure:"concurrency"`
	Country         string `mapstructure:"country"`
	RoleMode        string `mapstructure:"role_mode"`
}

// FetchConfig configures the light fetch tier.
type FetchConfig struct {
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	SettleDelay   time.Duration `mapstructure:"settle_delay"`
	MinWordCount  int           `mapstructure:"min_word_count"`
	MinTextLength int           `mapstructure:"min_text_length"`
}

// HeadlessConfig configures the heavy browser-automation tier.
type HeadlessConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxParallel  int           `mapstructure:"max_parallel"`
	NavTimeout   time.Duration `mapstructure:"nav_timeout"`
	ElementWait  time.Duration `mapstructure:"element_wait"`
	ScrollCycles int           `mapstructure:"scroll_cycles"`
	DomainQPS    float64       `mapstructure:"domain_qps"`
}

// DiscoveryConfig configures the seed company provider.
type DiscoveryConfig struct {
	APIKey       string `mapstructure:"api_key"`
	MaxCompanies int    `mapstructure:"max_companies"`
	BatchSize    int    `mapstructure:"batch_size"`
}

// DBConfig controls access to the relational job store.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// ArchiveConfig controls optional raw-page snapshot archival.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Backend   string `mapstructure:"backend"` // "fs" or "gcs"
	Dir       string `mapstructure:"dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JOBRAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scraper.max_depth", 2)
	v.SetDefault("scraper.max_cards_per_page", 20)
	v.SetDefault("scraper.max_listing_jobs", 15)
	v.SetDefault("scraper.max_gateway_links", 8)
	v.SetDefault("scraper.concurrency", 2)
	v.SetDefault("scraper.role_mode", "internship")
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("fetch.timeout", 15*time.Second)
	v.SetDefault("fetch.settle_delay", 3*time.Second)
	v.SetDefault("fetch.min_word_count", 100)
	v.SetDefault("fetch.min_text_length", 500)
	v.SetDefault("headless.enabled", true)
	v.SetDefault("headless.max_parallel", 1)
	v.SetDefault("headless.nav_timeout", 60*time.Second)
	v.SetDefault("headless.element_wait", 10*time.Second)
	v.SetDefault("headless.scroll_cycles", 10)
	v.SetDefault("headless.domain_qps", 1.0)
	v.SetDefault("discovery.max_companies", 5)
	v.SetDefault("discovery.batch_size", 20)
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.backend", "fs")
	v.SetDefault("archive.dir", "snapshots")
	v.SetDefault("archive.prefix", "pages")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Scraper.MaxDepth < 0 {
		return fmt.Errorf("scraper.max_depth must be >= 0")
	}
	if c.Scraper.MaxCardsPerPage <= 0 {
		return fmt.Errorf("scraper.max_cards_per_page must be > 0")
	}
	if c.Fetch.UserAgent == "" {
		return fmt.Errorf("fetch.user_agent must be set")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if c.Headless.Enabled && c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0 when headless is enabled")
	}
	if c.Headless.ScrollCycles < 0 {
		return fmt.Errorf("headless.scroll_cycles must be >= 0")
	}
	if c.Archive.Enabled && c.Archive.Backend == "gcs" && c.Archive.GCSBucket == "" {
		return fmt.Errorf("archive.gcs_bucket must be set for the gcs backend")
	}
	return nil
}
