package fetch

import (
	"context"

	"go.uber.org/zap"

	"github.com/jobrake/jobrake/internal/metrics"
)

// Client is the escalating two-tier fetcher. The light tier runs first;
// a failed or low-quality light fetch is retried once on the heavy tier.
// Callers guarantee each URL reaches Page at most once per crawl session,
// so the browser is never invoked twice for the same URL.
type Client struct {
	light   Fetcher
	heavy   Fetcher
	quality QualityConfig
	log     *zap.Logger
}

// NewClient wires the two tiers. heavy may be nil to disable escalation.
func NewClient(light, heavy Fetcher, quality QualityConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{light: light, heavy: heavy, quality: quality, log: log}
}

// Page fetches one URL, escalating to the browser tier when needed. When the
// heavy tier fails after a usable light result, the light result is kept.
func (c *Client) Page(ctx context.Context, url string) (Result, error) {
	res, err := c.light.Fetch(ctx, url)
	if err != nil {
		if c.heavy == nil {
			return Result{}, err
		}
		c.log.Warn("light fetch failed, escalating",
			zap.String("url", url), zap.Error(err))
		metrics.EscalationsTotal.Inc()
		return c.heavy.Fetch(ctx, url)
	}

	if c.heavy != nil && NeedsEscalation(res, c.quality) {
		c.log.Debug("escalating low quality result", zap.String("url", url))
		metrics.EscalationsTotal.Inc()
		heavyRes, herr := c.heavy.Fetch(ctx, url)
		if herr != nil {
			c.log.Warn("browser fetch failed, keeping light result",
				zap.String("url", url), zap.Error(herr))
			return res, nil
		}
		return heavyRes, nil
	}
	return res, nil
}

// PageHeavy forces a browser fetch, bypassing the light tier. Used by the
// degraded recovery path.
func (c *Client) PageHeavy(ctx context.Context, url string) (Result, error) {
	if c.heavy == nil {
		return c.light.Fetch(ctx, url)
	}
	return c.heavy.Fetch(ctx, url)
}
