package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobrake/jobrake/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Scraper: config.ScraperConfig{
			MaxDepth:        2,
			MaxCardsPerPage: 20,
			MaxListingJobs:  15,
			MaxGatewayLinks: 8,
			RoleMode:        "internship",
		},
		Fetch: config.FetchConfig{
			UserAgent: "test-agent",
			Timeout:   5 * time.Second,
		},
	}
}

func TestNewWithoutExternalServices(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Logger())
	assert.NotNil(t, a.Store())
	assert.NotNil(t, a.Fetcher())
	assert.Nil(t, a.Discovery())
	assert.Nil(t, a.Archiver())

	engineCfg := a.EngineConfig()
	assert.Equal(t, 2, engineCfg.MaxDepth)
	assert.Equal(t, "internship", engineCfg.RoleMode)
}

func TestNewWithArchive(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Archive.Enabled = true
	cfg.Archive.Backend = "fs"
	cfg.Archive.Dir = t.TempDir()

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Archiver())
}

func TestBuildArchiveProviderUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Archive.Backend = "s3"
	a := &App{cfg: cfg, logger: zap.NewNop()}

	_, err := a.buildArchiveProvider(context.Background())
	assert.Error(t, err)
}
