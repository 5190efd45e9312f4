package scraper

import (
	"context"

	"go.uber.org/zap"

	"github.com/jobrake/jobrake/internal/classify"
	"github.com/jobrake/jobrake/internal/jobs"
	"github.com/jobrake/jobrake/internal/metrics"
	"github.com/jobrake/jobrake/internal/urlguard"
)

// emergencyExtract is the degraded path after a pipeline crash: one forced
// browser fetch of the root page, card detection, and minimal records built
// from what the cards show. Records carry placeholder fields and skip deep
// extraction; a resolvable job link is still required.
func (e *Engine) emergencyExtract(ctx context.Context, rootURL string) []jobs.Record {
	metrics.EmergencyExtractionsTotal.Inc()

	res, err := e.fetcher.PageHeavy(ctx, rootURL)
	if err != nil {
		e.log.Error("degraded fetch failed", zap.String("url", rootURL), zap.Error(err))
		return nil
	}
	doc, err := parseHTML(res.HTML)
	if err != nil {
		return nil
	}

	var out []jobs.Record
	for _, card := range classify.FindJobCards(doc, e.cfg.MaxCardsPerPage) {
		jobURL := classify.CardDetailURL(card, rootURL)
		if jobURL == "" {
			continue
		}
		title := classify.CardTitle(card)
		if title == "" {
			continue
		}
		out = append(out, jobs.Record{
			ID:             jobs.StableID(jobURL),
			Title:          title,
			Company:        "Unknown - Extracted from Listing",
			Location:       "See Job Link",
			EmploymentType: "See Job Link",
			Description:    "Extracted from listing page only. Visit the link for details.",
			SourceURL:      jobURL,
		})
	}

	if len(out) == 0 {
		links := classify.FindJobLinks(doc, rootURL)
		if len(links) > e.cfg.MaxSupplementLinks {
			links = links[:e.cfg.MaxSupplementLinks]
		}
		for _, link := range links {
			if urlguard.IsApplyURL(link) {
				continue
			}
			out = append(out, jobs.Record{
				ID:          jobs.StableID(link),
				Title:       "Job Link Found",
				Company:     "Unknown",
				Location:    "Unknown",
				Description: "Link discovered on a degraded crawl.",
				SourceURL:   link,
			})
		}
	}

	e.log.Info("degraded extraction finished",
		zap.String("url", rootURL), zap.Int("count", len(out)))
	return out
}
