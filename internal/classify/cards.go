package classify

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobrake/jobrake/internal/urlguard"
)

// DefaultCardCap bounds how many job cards one page can contribute.
const DefaultCardCap = 20

// cardSelectors is evaluated in priority order: structural job-list
// containers first, then card/item class patterns, then generic tags that
// need the stricter signal check.
var cardSelectors = []string{
	`ul#jobs li`,
	`li[class*="jobs-list-item"]`,
	`[data-testid*="job"]`,
	`[class*="job-card"]`,
	`[class*="job-item"]`,
	`[class*="position"]`,
	`article`,
	`li[class*="job"]`,
	`div[class*="card"]`,
	`div[class*="item"]`,
	`div[class*="listing"]`,
	`tr[class*="job"]`,
	`.job-list-item`,
	`li`,
	`.search-result`,
	`.list-row`,
	`.row`,
}

// genericSelectors match so much of the average page that an extra
// job-signal check is required before accepting an element.
var genericSelectors = map[string]struct{}{
	`li`:        {},
	`.row`:      {},
	`.list-row`: {},
}

// cardSignals are phrases a generic element must contain to count as a card.
var cardSignals = []string{
	"workplace type", "location:", "posted", "apply", "job id", "employment type",
}

var blogMarkers = []string{"min read", "read more", "posted by", "blog", "article"}

var chromeMarkers = []string{"navigation", "footer", "header", "menu"}

// FindJobCards returns up to limit card elements, deduplicated by visible text.
func FindJobCards(doc *goquery.Document, limit int) []*goquery.Selection {
	if limit <= 0 {
		limit = DefaultCardCap
	}
	var cards []*goquery.Selection
	seenTexts := make(map[string]struct{})

	for _, sel := range cardSelectors {
		_, generic := genericSelectors[sel]
		doc.Find(sel).Each(func(_ int, elem *goquery.Selection) {
			if generic && !isDefinitelyJobCard(elem) {
				return
			}
			text := strings.TrimSpace(elem.Text())
			if text == "" {
				return
			}
			if _, dup := seenTexts[text]; dup {
				return
			}
			if !isValidJobCard(elem) {
				return
			}
			cards = append(cards, elem)
			seenTexts[text] = struct{}{}
		})
	}

	if len(cards) > limit {
		cards = cards[:limit]
	}
	return cards
}

// isDefinitelyJobCard is the stricter check for generic tags: short text and
// at least one unmistakable job signal.
func isDefinitelyJobCard(elem *goquery.Selection) bool {
	text := strings.ToLower(elem.Text())
	if len(text) > 500 {
		return false
	}
	for _, s := range cardSignals {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// isValidJobCard requires minimum content, an embedded link, and no
// blog/news or page-chrome vocabulary.
func isValidJobCard(elem *goquery.Selection) bool {
	text := strings.ToLower(elem.Text())
	if len(text) < 20 {
		return false
	}
	if elem.Find("a").Length() == 0 {
		return false
	}
	for _, m := range blogMarkers {
		if strings.Contains(text, m) {
			return false
		}
	}
	for _, m := range chromeMarkers {
		if strings.Contains(text, m) {
			return false
		}
	}
	return true
}

// CardDetailURL resolves a card's first link to an absolute job-detail URL,
// normalizing apply links to their parent detail page. Returns "" when the
// card has no usable link.
func CardDetailURL(card *goquery.Selection, baseURL string) string {
	href, ok := card.Find("a").First().Attr("href")
	if !ok {
		return ""
	}
	resolved := urlguard.Resolve(baseURL, href)
	if resolved == "" {
		return ""
	}
	return urlguard.ToDetailURL(resolved)
}

// CardTitle takes a best-effort title from a card: the first heading or
// anchor, else the first line of card text. Used only on the degraded path
// when full detail extraction is unavailable.
func CardTitle(card *goquery.Selection) string {
	if el := card.Find("h2, h3, h4, a").First(); el.Length() > 0 {
		if title := strings.TrimSpace(el.Text()); title != "" {
			return title
		}
	}
	text := strings.TrimSpace(card.Text())
	if i := strings.IndexByte(text, '\n'); i > 0 {
		return strings.TrimSpace(text[:i])
	}
	return text
}
