package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/jobrake/jobrake/internal/metrics"
)

// LightConfig controls the HTTP tier.
type LightConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// Light fetches pages with a plain HTTP GET through a Colly collector.
type Light struct {
	cfg           LightConfig
	baseCollector *colly.Collector
}

// NewLight builds the HTTP-tier fetcher.
func NewLight(cfg LightConfig) *Light {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &Light{cfg: cfg, baseCollector: c}
}

// Fetch executes a single GET. The collector is cloned per call so request
// state never leaks between fetches.
func (l *Light) Fetch(ctx context.Context, url string) (Result, error) {
	metrics.FetchesTotal.WithLabelValues(string(TierLight)).Inc()

	collector := l.baseCollector.Clone()
	if l.cfg.UserAgent != "" {
		collector.UserAgent = l.cfg.UserAgent
	}
	collector.SetRequestTimeout(l.cfg.Timeout)

	var (
		result   Result
		fetchErr error
	)
	start := time.Now()
	collector.OnResponse(func(r *colly.Response) {
		result = Result{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			HTML:       string(r.Body),
			Tier:       TierLight,
			Duration:   time.Since(start),
		}
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		metrics.FetchErrorsTotal.WithLabelValues(string(TierLight)).Inc()
		return Result{}, fmt.Errorf("light fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			metrics.FetchErrorsTotal.WithLabelValues(string(TierLight)).Inc()
			return Result{}, fmt.Errorf("light visit failed: %w", err)
		}
		if fetchErr != nil {
			metrics.FetchErrorsTotal.WithLabelValues(string(TierLight)).Inc()
			return Result{}, fmt.Errorf("light response failed: %w", fetchErr)
		}
		return result, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
