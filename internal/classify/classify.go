// Package classify assigns a page type to a fetched careers-site DOM and
// discovers the job cards and hub links the crawl controller branches on.
// Classification is a pure function of (DOM, URL): no fetching, no state.
package classify

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageType is the outcome of classifying one fetched page.
type PageType int

// The six page types, in rule-priority order.
const (
	// Other is the fallback when no rule matches strongly.
	Other PageType = iota
	// CareerInfo is a marketing page (benefits, culture, FAQ); a hard stop.
	CareerInfo
	// JobSearchApp is a hash-routed SPA search shell with no server-rendered cards.
	JobSearchApp
	// JobDetail is a single job posting page.
	JobDetail
	// JobListing carries one or more job cards.
	JobListing
	// CareerGateway is a hub page offering category links instead of jobs.
	CareerGateway
)

// String implements fmt.Stringer for log output.
func (t PageType) String() string {
	switch t {
	case CareerInfo:
		return "CAREER_INFO"
	case JobSearchApp:
		return "JOB_SEARCH_APP"
	case JobDetail:
		return "JOB_DETAIL"
	case JobListing:
		return "JOB_LISTING"
	case CareerGateway:
		return "CAREER_GATEWAY"
	default:
		return "OTHER"
	}
}

// infoMarkers flag career-marketing content. A page containing any of these
// with zero job cards is rejected outright.
var infoMarkers = []string{
	"employee benefits",
	"our culture",
	"frequently asked questions",
	"diversity and inclusion",
	"life at",
	"why work here",
}

var searchAppURLMarkers = []string{"#/job", "#search", "myworkday", "taleo"}

var jobLanguagePattern = regexp.MustCompile(`(?i)responsibilities|requirements|qualifications|job description`)

// detailSelectors indicate a structured single-job container.
var detailSelectors = []string{
	`[data-testid*="job-detail"]`,
	`section[role="main"]`,
	`article`,
	`div[class*="job-detail"]`,
	`div[class*="position-detail"]`,
	`div[class*="opening-detail"]`,
}

// Classify runs the ordered rule set and returns the first matching type.
func Classify(doc *goquery.Document, rawURL string) PageType {
	text := strings.ToLower(doc.Text())
	cards := FindJobCards(doc, DefaultCardCap)

	for _, marker := range infoMarkers {
		if strings.Contains(text, marker) && len(cards) == 0 {
			return CareerInfo
		}
	}

	lowerURL := strings.ToLower(rawURL)
	for _, marker := range searchAppURLMarkers {
		if strings.Contains(lowerURL, marker) && len(cards) == 0 {
			return JobSearchApp
		}
	}

	if isSingleJobPage(doc, len(cards)) {
		return JobDetail
	}

	if len(cards) > 0 {
		return JobListing
	}

	if len(FindCategoryLinks(doc, rawURL, DefaultCategoryCap)) > 0 {
		return CareerGateway
	}

	return Other
}

// isSingleJobPage applies the single-job-detail heuristic: a structured
// detail container, or repeated responsibility/requirement language with no
// cards. A known multi-item job list rules it out regardless.
func isSingleJobPage(doc *goquery.Document, cardCount int) bool {
	if doc.Find(`ul#jobs li`).Length() > 0 {
		return false
	}

	for _, sel := range detailSelectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}

	hits := jobLanguagePattern.FindAllStringIndex(doc.Text(), -1)
	return len(hits) > 2 && cardCount == 0
}
