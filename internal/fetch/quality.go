package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobrake/jobrake/internal/urlguard"
)

// QualityConfig sets the thresholds below which a light-tier result is
// considered unusable for classification.
type QualityConfig struct {
	MinWordCount  int
	MinTextLength int
}

// spaShellMarkers show up in server responses that render client-side only.
var spaShellMarkers = []string{
	"enable javascript",
	"__next",
	`id="root"`,
	`id="app"`,
	"data-reactroot",
}

// NeedsEscalation reports whether a light-tier result must be re-fetched
// with the browser: too little visible text, an empty SPA shell, or a URL on
// a platform known to render client-side.
func NeedsEscalation(res Result, cfg QualityConfig) bool {
	if cfg.MinWordCount <= 0 {
		cfg.MinWordCount = 100
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 500
	}

	if urlguard.SPAHint(res.URL) {
		return true
	}

	lower := strings.ToLower(res.HTML)
	for _, marker := range spaShellMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	text := visibleText(res.HTML)
	if len(text) < cfg.MinTextLength {
		return true
	}
	return len(strings.Fields(text)) < cfg.MinWordCount
}

// visibleText strips markup and scripts from an HTML body.
func visibleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return strings.TrimSpace(doc.Text())
}
