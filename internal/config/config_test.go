package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
scraper:
  max_depth: 3
  max_cards_per_page: 30
  country: Germany
  role_mode: internship
fetch:
  user_agent: test-agent
  timeout: 20s
  settle_delay: 2s
headless:
  enabled: true
  max_parallel: 2
  nav_timeout: 45s
  element_wait: 5s
  scroll_cycles: 6
discovery:
  max_companies: 8
db:
  dsn: postgres://localhost/jobs
archive:
  enabled: true
  backend: fs
  dir: /tmp/snapshots
logging:
  development: false
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scraper.MaxDepth != 3 || cfg.Scraper.MaxCardsPerPage != 30 {
		t.Fatalf("expected scraper overrides to apply: %+v", cfg.Scraper)
	}
	if cfg.Scraper.Country != "Germany" {
		t.Fatalf("expected country Germany, got %q", cfg.Scraper.Country)
	}
	if cfg.Fetch.UserAgent != "test-agent" || cfg.Fetch.Timeout != 20*time.Second {
		t.Fatalf("expected fetch overrides to apply: %+v", cfg.Fetch)
	}
	if cfg.Headless.NavTimeout != 45*time.Second || cfg.Headless.ScrollCycles != 6 {
		t.Fatalf("expected headless overrides to apply: %+v", cfg.Headless)
	}
	if cfg.Logging.Development {
		t.Fatal("expected logging.development to be false")
	}
	// Defaults survive partial files.
	if cfg.Scraper.MaxListingJobs != 15 {
		t.Fatalf("expected default max_listing_jobs 15, got %d", cfg.Scraper.MaxListingJobs)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scraper.MaxDepth != 2 {
		t.Fatalf("expected default max depth 2, got %d", cfg.Scraper.MaxDepth)
	}
	if cfg.Fetch.SettleDelay != 3*time.Second {
		t.Fatalf("expected default settle delay 3s, got %v", cfg.Fetch.SettleDelay)
	}
	if cfg.Headless.ElementWait != 10*time.Second {
		t.Fatalf("expected default element wait 10s, got %v", cfg.Headless.ElementWait)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "negative depth",
			mutate:  func(c *Config) { c.Scraper.MaxDepth = -1 },
			wantErr: "max_depth",
		},
		{
			name:    "missing user agent",
			mutate:  func(c *Config) { c.Fetch.UserAgent = "" },
			wantErr: "user_agent",
		},
		{
			name:    "headless without slots",
			mutate:  func(c *Config) { c.Headless.Enabled = true; c.Headless.MaxParallel = 0 },
			wantErr: "max_parallel",
		},
		{
			name: "gcs archive without bucket",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Backend = "gcs"
				c.Archive.GCSBucket = ""
			},
			wantErr: "gcs_bucket",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tc.mutate(&cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
