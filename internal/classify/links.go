package classify

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobrake/jobrake/internal/urlguard"
)

// DefaultCategoryCap bounds gateway fan-out per page.
const DefaultCategoryCap = 8

// CandidateLink is an href plus its visible text. It never outlives a single
// classification or extraction pass.
type CandidateLink struct {
	URL  string
	Name string
}

// atsDomains always qualify as category links: a hosted ATS link from a
// company page is a direct route to its job inventory.
var atsDomains = []string{
	"myworkdayjobs.com", "taleo.net", "icims.com",
	"greenhouse.io", "lever.co", "oraclecloud.com",
}

// hubPhrases is the curated vocabulary of career-hub and category anchors.
var hubPhrases = []string{
	"explore all opportunities", "explore all",

	// General career hubs
	"careers", "career", "career hub", "career site", "career portal",
	"career opportunities", "job opportunities", "work with us",
	"join us", "life at", "why join", "your career", "our people",

	// Audience / entry paths
	"professionals", "experienced professionals", "experienced",
	"students", "student opportunities",
	"graduates", "graduate programs", "graduate roles",
	"early careers", "early talent", "entry level", "junior roles",
	"internships", "interns", "internship program",
	"apprenticeships", "apprentice", "trainees",
	"campus", "campus hiring", "university", "college hiring",
	"new grads", "freshers",

	// Career paths / tracks
	"career paths", "career tracks", "career areas",
	"career options", "career categories", "job families",
	"job categories", "role categories",

	// Departments / functions
	"engineering", "technology", "software", "it",
	"data", "analytics", "ai", "machine learning",
	"product", "design", "ux", "ui",
	"sales", "marketing", "growth",
	"customer service", "customer support",
	"operations", "business operations",
	"finance", "accounting", "audit",
	"hr", "human resources", "people",
	"legal", "compliance",
	"administrative", "admin",
	"supply chain", "logistics",
	"manufacturing", "production",
	"security", "cybersecurity",

	// Industry / workforce hubs
	"corporate", "retail", "store jobs",
	"warehouse", "fulfillment", "distribution",
	"drivers", "delivery",
	"field jobs", "field service",
	"healthcare", "medical", "clinical",
	"aviation", "airlines",
	"banking", "financial services",
	"insurance",
	"energy", "utilities",
	"construction", "infrastructure",

	// Navigation / discovery triggers
	"explore careers", "explore jobs",
	"find your path", "find your career",
	"search jobs", "job search",
	"view all jobs", "browse jobs",
	"see roles", "see opportunities",
	"discover roles", "open roles",
}

var excludedHrefTerms = []string{"login", "signin", "privacy", "terms"}

// FindCategoryLinks scans all anchors for hub/category candidates:
// ATS-hosted links always match, curated hub phrases match when the anchor
// text is short, and card/tile-classed parents promote short anchors too.
// Results are deduplicated by resolved URL and capped.
func FindCategoryLinks(doc *goquery.Document, baseURL string, limit int) []CandidateLink {
	if limit <= 0 {
		limit = DefaultCategoryCap
	}
	var categories []CandidateLink
	seen := make(map[string]struct{})

	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		text := strings.ToLower(strings.TrimSpace(link.Text()))
		fullURL := urlguard.Resolve(baseURL, href)
		if fullURL == "" {
			return true
		}

		lowerHref := strings.ToLower(href)
		for _, term := range excludedHrefTerms {
			if strings.Contains(lowerHref, term) {
				return true
			}
		}

		if !matchesCategory(link, lowerHref, text) {
			return true
		}
		if _, dup := seen[fullURL]; dup {
			return true
		}
		seen[fullURL] = struct{}{}
		categories = append(categories, CandidateLink{
			URL:  fullURL,
			Name: strings.Title(text), //nolint:staticcheck // display name only
		})
		return len(categories) < limit
	})

	return categories
}

func matchesCategory(link *goquery.Selection, lowerHref, text string) bool {
	for _, domain := range atsDomains {
		if strings.Contains(lowerHref, domain) {
			return true
		}
	}

	if len(text) < 50 {
		for _, phrase := range hubPhrases {
			if strings.Contains(text, phrase) {
				return true
			}
		}
	}

	// Structural hint: a card/tile/category parent with short anchor text.
	if parentClass, ok := link.Parent().Attr("class"); ok {
		lower := strings.ToLower(parentClass)
		if strings.Contains(lower, "card") || strings.Contains(lower, "tile") || strings.Contains(lower, "category") {
			if len(text) > 3 && len(text) < 50 {
				return true
			}
		}
	}
	return false
}

// roleKeywords promote short anchors to job-link candidates even without a
// recognizable path segment.
var roleKeywords = []string{"engineer", "manager", "developer"}

var jobPathSegments = []string{"/job/", "/career/", "/position/", "/vacancy/"}

// FindJobLinks is the secondary link-heuristic pass used when card detection
// comes up short: anchors with job-like path segments, or short anchors whose
// text names a role. Apply links are normalized to their detail page.
func FindJobLinks(doc *goquery.Document, baseURL string) []string {
	var links []string
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		fullURL := urlguard.Resolve(baseURL, href)
		if fullURL == "" {
			return
		}
		if _, dup := seen[fullURL]; dup {
			return
		}

		lowerHref := strings.ToLower(href)
		matched := false
		for _, seg := range jobPathSegments {
			if strings.Contains(lowerHref, seg) {
				matched = true
				break
			}
		}
		if !matched {
			text := strings.ToLower(a.Text())
			if len(text) < 50 {
				for _, kw := range roleKeywords {
					if strings.Contains(text, kw) {
						matched = true
						break
					}
				}
			}
		}
		if matched {
			links = append(links, urlguard.ToDetailURL(fullURL))
			seen[fullURL] = struct{}{}
		}
	})

	return links
}
