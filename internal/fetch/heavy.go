package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/jobrake/jobrake/internal/metrics"
)

// HeavyConfig controls the headless browser tier.
type HeavyConfig struct {
	MaxParallel       int
	UserAgent         string
	NavigationTimeout time.Duration
	ElementWait       time.Duration
	SettleDelay       time.Duration
	ScrollCycles      int
	DomainQPS         float64
}

// Heavy fetches pages through headless Chrome, waiting for job-content
// markers to render and scrolling to trigger lazy-loaded listings. Browser
// tabs are scoped to a single Fetch call and torn down on every exit path.
type Heavy struct {
	cfg         HeavyConfig
	limiter     chan struct{}
	domains     *domainLimiter
	allocator   context.Context
	allocCancel context.CancelFunc
}

// NewHeavy creates the browser-tier fetcher. Close must be called to release
// the Chrome allocator.
func NewHeavy(cfg HeavyConfig) (*Heavy, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 60 * time.Second
	}
	if cfg.ElementWait <= 0 {
		cfg.ElementWait = 10 * time.Second
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 3 * time.Second
	}
	if cfg.ScrollCycles <= 0 {
		cfg.ScrollCycles = 10
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Heavy{
		cfg:         cfg,
		limiter:     limiter,
		domains:     newDomainLimiter(cfg.DomainQPS),
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Close cancels the allocator context.
func (h *Heavy) Close() {
	h.allocCancel()
}

// jobSignalSelectors are waited for after navigation; if none appears within
// ElementWait the page is captured as-is.
const jobSignalSelectors = `div[class*='job'], li[class*='job'], div[role='listitem'], table, ` +
	`div[class*='career'], div[id*='job'], a[href*='job'], h3, h2`

// Fetch renders one page and returns the settled DOM.
func (h *Heavy) Fetch(ctx context.Context, url string) (Result, error) {
	metrics.FetchesTotal.WithLabelValues(string(TierHeavy)).Inc()

	if err := h.domains.wait(ctx, url); err != nil {
		return Result{}, err
	}
	if err := h.acquire(ctx); err != nil {
		return Result{}, err
	}
	defer h.release()

	taskCtx, taskCancel := chromedp.NewContext(h.allocator)
	defer taskCancel()
	taskCtx, cancel := context.WithTimeout(taskCtx, h.cfg.NavigationTimeout)
	defer cancel()

	meta := newResponseMeta()
	chromedp.ListenTarget(taskCtx, meta.captureEvent)

	start := time.Now()
	var html, finalURL string
	actions := []chromedp.Action{
		h.networkSetupAction(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		h.waitForJobSignals(),
		h.scrollUntilSettled(),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(string(TierHeavy)).Inc()
		return Result{}, fmt.Errorf("chromedp run: %w", err)
	}

	status, responseURL := meta.snapshotWithFallbacks(url, finalURL)
	return Result{
		URL:        responseURL,
		StatusCode: status,
		HTML:       html,
		Tier:       TierHeavy,
		Duration:   time.Since(start),
	}, nil
}

func (h *Heavy) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if h.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(h.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

// waitForJobSignals waits up to ElementWait for a job-content marker. A site
// with no such markup still gets captured, so the timeout is not an error.
func (h *Heavy) waitForJobSignals() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var found bool
		expr := fmt.Sprintf(`document.querySelector(%q) !== null`, jobSignalSelectors)
		err := chromedp.Poll(expr, &found, chromedp.WithPollingTimeout(h.cfg.ElementWait)).Do(ctx)
		if err != nil && !errors.Is(err, chromedp.ErrPollingTimeout) {
			return fmt.Errorf("wait for job content: %w", err)
		}
		return nil
	})
}

// scrollUntilSettled scrolls to the bottom repeatedly to trigger lazy
// loading, stopping early once the document height stabilizes.
func (h *Heavy) scrollUntilSettled() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var lastHeight float64
		for i := 0; i < h.cfg.ScrollCycles; i++ {
			if err := chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil).Do(ctx); err != nil {
				return fmt.Errorf("scroll: %w", err)
			}
			select {
			case <-time.After(h.cfg.SettleDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			var height float64
			if err := chromedp.Evaluate(`document.body.scrollHeight`, &height).Do(ctx); err != nil {
				return fmt.Errorf("measure height: %w", err)
			}
			if height == lastHeight {
				break
			}
			lastHeight = height
		}
		return nil
	})
}

func (h *Heavy) acquire(ctx context.Context) error {
	if h.limiter == nil {
		return nil
	}
	select {
	case h.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("browser slot wait canceled: %w", ctx.Err())
	}
}

func (h *Heavy) release() {
	if h.limiter == nil {
		return
	}
	select {
	case <-h.limiter:
	default:
	}
}

type responseMeta struct {
	mu     sync.RWMutex
	status int
	url    string
}

func newResponseMeta() *responseMeta {
	return &responseMeta{}
}

func (m *responseMeta) captureEvent(ev any) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok || resp.Type != network.ResourceTypeDocument || resp.Response == nil {
		return
	}
	m.mu.Lock()
	m.status = int(resp.Response.Status)
	m.url = resp.Response.URL
	m.mu.Unlock()
}

func (m *responseMeta) snapshotWithFallbacks(requestURL, finalURL string) (int, string) {
	m.mu.RLock()
	status, url := m.status, m.url
	m.mu.RUnlock()

	switch {
	case url != "":
	case finalURL != "":
		url = finalURL
	default:
		url = requestURL
	}
	if status == 0 {
		status = http.StatusOK
	}
	return status, url
}
