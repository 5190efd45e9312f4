// Package scraper is the crawl controller: it walks a career site from a
// root URL, classifies each page, and branches into extraction, fan-out, or
// rejection. Traversal is depth-first and sequential within one session;
// independent root URLs may be crawled concurrently since sessions share no
// state.
package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jobrake/jobrake/internal/classify"
	"github.com/jobrake/jobrake/internal/extract"
	"github.com/jobrake/jobrake/internal/fetch"
	"github.com/jobrake/jobrake/internal/jobs"
	"github.com/jobrake/jobrake/internal/metrics"
	"github.com/jobrake/jobrake/internal/urlguard"
	"github.com/jobrake/jobrake/internal/validate"
)

// Config bounds the crawl.
type Config struct {
	MaxDepth           int
	MaxCardsPerPage    int
	MaxListingJobs     int
	MaxGatewayLinks    int
	MaxSupplementLinks int
	MinListingJobs     int
	RoleMode           string
}

func (c *Config) applyDefaults() {
	if c.MaxDepth <= 0 {
		c.MaxDepth = 2
	}
	if c.MaxCardsPerPage <= 0 {
		c.MaxCardsPerPage = classify.DefaultCardCap
	}
	if c.MaxListingJobs <= 0 {
		c.MaxListingJobs = 15
	}
	if c.MaxGatewayLinks <= 0 {
		c.MaxGatewayLinks = classify.DefaultCategoryCap
	}
	if c.MaxSupplementLinks <= 0 {
		c.MaxSupplementLinks = 10
	}
	if c.MinListingJobs <= 0 {
		c.MinListingJobs = 3
	}
}

// PageFetcher is the slice of the fetch client the engine needs.
type PageFetcher interface {
	Page(ctx context.Context, url string) (fetch.Result, error)
	PageHeavy(ctx context.Context, url string) (fetch.Result, error)
}

// Engine crawls one site per ExtractJobsFromSite call.
type Engine struct {
	fetcher PageFetcher
	cfg     Config
	log     *zap.Logger
}

// New builds an Engine.
func New(fetcher PageFetcher, cfg Config, log *zap.Logger) *Engine {
	cfg.applyDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{fetcher: fetcher, cfg: cfg, log: log}
}

// ExtractJobsFromSite crawls a career site and returns the validated,
// deduplicated job records found. It never returns an error for
// site-structure failures: a broken site yields an empty list, and a crash
// of the whole pipeline falls back to the degraded single-page path.
func (e *Engine) ExtractJobsFromSite(ctx context.Context, rootURL, country string) (records []jobs.Record) {
	cleanRoot := urlguard.ToDetailURL(rootURL)
	cleanRoot, err := urlguard.Normalize(cleanRoot)
	if err != nil {
		e.log.Info("root url rejected", zap.String("url", rootURL), zap.Error(err))
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("crawl pipeline crashed, running degraded extraction",
				zap.String("url", cleanRoot), zap.Any("panic", r))
			records = e.emergencyExtract(ctx, cleanRoot)
		}
	}()

	sess := newSession(e.log, cleanRoot, country)
	sess.log.Info("starting extraction")

	// Scan the root once to look for a search filter form. The page cache
	// hands the same result to the recursive crawl.
	if res, err := e.fetchPage(ctx, sess, cleanRoot); err == nil {
		if doc, derr := parseHTML(res.HTML); derr == nil {
			if filtered := searchFilterURL(doc, cleanRoot, country); filtered != "" {
				sess.log.Info("search filter detected, trying filtered crawl",
					zap.String("filtered_url", filtered))
				if recs := e.visit(ctx, sess, filtered, 0); len(recs) > 0 {
					return validate.Deduplicate(recs)
				}
				sess.log.Info("filtered crawl empty, rolling back to root")
			}
		}
	}

	return validate.Deduplicate(e.visit(ctx, sess, cleanRoot, 0))
}

// visit is one recursive crawl step. A panic anywhere in the branch is
// contained here: the branch contributes nothing and siblings continue.
func (e *Engine) visit(ctx context.Context, sess *session, rawURL string, depth int) (records []jobs.Record) {
	defer func() {
		if r := recover(); r != nil {
			metrics.BranchCrashesTotal.Inc()
			sess.log.Warn("crawl branch crashed",
				zap.String("url", rawURL), zap.Int("depth", depth), zap.Any("panic", r))
			records = nil
		}
	}()

	if depth > e.cfg.MaxDepth {
		return nil
	}
	url, err := urlguard.Normalize(rawURL)
	if err != nil {
		return nil
	}
	if sess.seen(url) || sess.isGateway(url) {
		return nil
	}
	sess.markSeen(url)

	res, err := e.fetchPage(ctx, sess, url)
	if err != nil {
		sess.log.Warn("fetch failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	doc, err := parseHTML(res.HTML)
	if err != nil {
		return nil
	}

	pageType := classify.Classify(doc, url)
	metrics.ClassificationsTotal.WithLabelValues(pageType.String()).Inc()
	sess.log.Info("page classified",
		zap.String("url", url), zap.Int("depth", depth), zap.Stringer("page_type", pageType))

	switch pageType {
	case classify.CareerInfo:
		// Marketing page, hard stop.
		return nil

	case classify.JobSearchApp:
		return e.extractFromListing(ctx, sess, doc, url)

	case classify.JobDetail:
		if rec := e.extractOne(ctx, sess, url, doc); rec != nil {
			return []jobs.Record{*rec}
		}
		return nil

	case classify.JobListing:
		found := e.extractFromListing(ctx, sess, doc, url)
		if len(found) > 0 {
			return found
		}
		// A listing without extractable jobs is often a mislabeled hub.
		return e.descendCategories(ctx, sess, doc, url, depth)

	case classify.CareerGateway:
		sess.markGateway(url)
		all := e.descendCategories(ctx, sess, doc, url, depth)
		// Mixed hub+listing pages exist, so also try the page itself.
		all = append(all, e.extractFromListing(ctx, sess, doc, url)...)
		return validate.Deduplicate(all)

	default:
		found := e.extractFromListing(ctx, sess, doc, url)
		if len(found) == 0 {
			return e.descendCategories(ctx, sess, doc, url, depth)
		}
		return found
	}
}

// descendCategories recurses into the hub links on a page, one at a time.
func (e *Engine) descendCategories(ctx context.Context, sess *session, doc *goquery.Document, pageURL string, depth int) []jobs.Record {
	links := classify.FindCategoryLinks(doc, pageURL, e.cfg.MaxGatewayLinks)
	if len(links) == 0 {
		return nil
	}
	sess.log.Info("descending into categories",
		zap.String("url", pageURL), zap.Int("count", len(links)))

	var all []jobs.Record
	for _, link := range links {
		if sess.isGateway(link.URL) {
			continue
		}
		all = append(all, e.visit(ctx, sess, link.URL, depth+1)...)
	}
	return validate.Deduplicate(all)
}

// extractFromListing resolves each job card to its detail page and extracts
// the jobs individually. When cards yield too few results, anchors that look
// like job links supplement the set.
func (e *Engine) extractFromListing(ctx context.Context, sess *session, doc *goquery.Document, pageURL string) []jobs.Record {
	cards := classify.FindJobCards(doc, e.cfg.MaxCardsPerPage)
	if len(cards) > e.cfg.MaxListingJobs {
		cards = cards[:e.cfg.MaxListingJobs]
	}

	var out []jobs.Record
	for _, card := range cards {
		jobURL := classify.CardDetailURL(card, pageURL)
		if jobURL == "" || urlguard.IsApplyURL(jobURL) {
			continue
		}
		if rec := e.extractFromURL(ctx, sess, jobURL); rec != nil {
			out = append(out, *rec)
		}
	}

	if len(out) < e.cfg.MinListingJobs {
		links := classify.FindJobLinks(doc, pageURL)
		if len(links) > e.cfg.MaxSupplementLinks {
			links = links[:e.cfg.MaxSupplementLinks]
		}
		for _, link := range links {
			if urlguard.IsApplyURL(link) {
				continue
			}
			if rec := e.extractFromURL(ctx, sess, link); rec != nil {
				out = append(out, *rec)
			}
		}
	}
	return out
}

// extractFromURL fetches a detail page and extracts it. A crash while
// processing one candidate only loses that candidate.
func (e *Engine) extractFromURL(ctx context.Context, sess *session, jobURL string) (rec *jobs.Record) {
	defer func() {
		if r := recover(); r != nil {
			metrics.BranchCrashesTotal.Inc()
			sess.log.Warn("job extraction crashed", zap.String("url", jobURL), zap.Any("panic", r))
			rec = nil
		}
	}()

	if sess.jobSeen(jobURL) {
		return nil
	}
	res, err := e.fetchPage(ctx, sess, jobURL)
	if err != nil {
		sess.log.Warn("job page fetch failed", zap.String("url", jobURL), zap.Error(err))
		return nil
	}
	doc, err := parseHTML(res.HTML)
	if err != nil {
		return nil
	}
	return e.extractOne(ctx, sess, jobURL, doc)
}

// extractOne runs detail extraction and the validation gate for one page.
// First pass on a URL wins; repeats return nothing.
func (e *Engine) extractOne(_ context.Context, sess *session, jobURL string, doc *goquery.Document) *jobs.Record {
	if sess.jobSeen(jobURL) {
		return nil
	}
	sess.markJobSeen(jobURL)

	rec, err := extract.Detail(doc, jobURL)
	if err != nil {
		metrics.JobsRejectedTotal.WithLabelValues("extraction").Inc()
		return nil
	}
	metrics.JobsExtractedTotal.Inc()

	if !validate.Record(*rec, sess.country, e.cfg.RoleMode) {
		metrics.JobsRejectedTotal.WithLabelValues("validation").Inc()
		sess.log.Debug("record rejected by validation",
			zap.String("url", jobURL), zap.String("title", rec.Title))
		return nil
	}
	metrics.JobsValidatedTotal.Inc()
	rec.NormalizeSkills()
	return rec
}

// fetchPage fetches through the session cache so no URL hits the network
// twice within one crawl.
func (e *Engine) fetchPage(ctx context.Context, sess *session, url string) (fetch.Result, error) {
	if res, ok := sess.pages[url]; ok {
		return res, nil
	}
	res, err := e.fetcher.Page(ctx, url)
	if err != nil {
		return fetch.Result{}, err
	}
	sess.pages[url] = res
	return res, nil
}

func parseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}
