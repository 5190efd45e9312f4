// Package extract turns a job-detail DOM into a normalized job record.
// Embedded JSON-LD JobPosting data wins outright; otherwise fields are pulled
// independently from the most specific job-content container, with
// platform-specific (Workday-style) selectors tried before generic ones.
// Extraction is pure: no fetching, no session state.
package extract

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobrake/jobrake/internal/jobs"
)

var (
	// ErrApplyPage marks an application-form page; the caller drops it silently.
	ErrApplyPage = errors.New("extract: application form page")
	// ErrInvalidTitle marks a page whose best title candidate is a form/nav label.
	ErrInvalidTitle = errors.New("extract: no valid job title")
)

var applyIndicators = []string{
	"provide your contact information", "upload resume", "application form", "recaptcha",
}

// Detail extracts one job record from a detail page. The URL-level dedup
// guard belongs to the crawl session, not here.
func Detail(doc *goquery.Document, pageURL string) (*jobs.Record, error) {
	if isApplyPage(doc) {
		return nil, ErrApplyPage
	}

	if posting := jobPostingJSONLD(doc); posting != nil {
		return recordFromJSONLD(posting, pageURL), nil
	}

	container := findContainer(doc)

	title := extractTitle(container)
	if IsInvalidTitle(title) {
		return nil, ErrInvalidTitle
	}

	description := extractDescription(container)
	rec := &jobs.Record{
		ID:               jobs.StableID(pageURL),
		Title:            title,
		Company:          extractCompany(container, pageURL),
		Location:         extractLocation(container),
		EmploymentType:   extractEmploymentType(container, description),
		Description:      description,
		Responsibilities: extractResponsibilities(container),
		Skills:           Skills(description),
		SourceURL:        pageURL,
	}
	return rec, nil
}

func isApplyPage(doc *goquery.Document) bool {
	if doc.Find("form").Length() > 1 {
		return true
	}
	text := strings.ToLower(doc.Text())
	for _, ind := range applyIndicators {
		if strings.Contains(text, ind) {
			return true
		}
	}
	return false
}

var containerSelectors = []string{
	`[data-testid*="job-detail"]`, `section[role="main"]`, `article`, `main`,
	`div[class*="job-detail"]`, `div[class*="position-detail"]`,
	`div[class*="job-content"]`, `div[class*="opening-detail"]`,
}

var contentClassPattern = regexp.MustCompile(`(?i)content|main|body`)

// findContainer picks the most specific job-content element, falling back to
// the largest content-classed div, then the whole document.
func findContainer(doc *goquery.Document) *goquery.Selection {
	for _, sel := range containerSelectors {
		if c := doc.Find(sel).First(); c.Length() > 0 {
			return c
		}
	}

	var best *goquery.Selection
	bestLen := 0
	doc.Find("div[class]").Each(func(_ int, div *goquery.Selection) {
		class, _ := div.Attr("class")
		if !contentClassPattern.MatchString(class) {
			return
		}
		if n := len(div.Text()); n > bestLen {
			best, bestLen = div, n
		}
	})
	if best != nil {
		return best
	}
	return doc.Selection
}

// Workday-style selectors get first shot at the title, then generic patterns.
var titleSelectors = []string{
	`h1[data-automation-id="jobPostingHeader"]`,
	`h2[class*="JobTitle"]`,
	`[data-automation-id*="jobTitle"]`,

	`h1[data-testid*="job-title"]`, `h1[class*="job-title"]`,
	`h1[class*="position-title"]`, `[data-testid*="job-title"]`,
	`h1`, `h2[class*="job"]`, `[role="heading"][aria-level="1"]`,
}

func extractTitle(container *goquery.Selection) string {
	for _, sel := range titleSelectors {
		el := container.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		title := strings.TrimSpace(el.Text())
		if title != "" && !IsInvalidTitle(title) {
			return title
		}
	}
	return jobs.TitleUnavailable
}

// invalidTitles are form/navigation labels that can never name a job.
var invalidTitles = []string{
	"apply", "provide", "upload resume", "join us", "login", "create account",
	"careers", "jobs", "work with us", "search", "results", "filter",
	"please wait", "loading", "application", "job title not available",
	"profile", "member", "blog", "news", "events",
}

// IsInvalidTitle reports whether a title candidate is too short or matches
// the form/navigation vocabulary. Shared with the validator's scoring.
func IsInvalidTitle(title string) bool {
	if len(title) < 3 {
		return true
	}
	lower := strings.ToLower(title)
	for _, term := range invalidTitles {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

var workdayLocationSelectors = []string{
	`[data-automation-id="locations"]`,
	`div[class*="Location"]`,
	`span[data-automation-id*="location"]`,
}

var locationSelectors = []string{
	`[data-testid*="location"]`, `[class*="location"]`,
	`[class*="job-location"]`, `span[class*="location"]`,
	`div[class*="location"]`,
}

var titleAnchorSelectors = []string{
	`h1`, `h2`, `h3`, `[data-testid*="job-title"]`, `[class*="job-title"]`,
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z][a-z]+,\s*[A-Z]{2})\b`),
	regexp.MustCompile(`\b([A-Z][a-z]+,\s*[A-Z][a-z]+)\b`),
	regexp.MustCompile(`\b(Remote)\b`),
}

// extractLocation tries platform selectors, then the element right after the
// title (locations are typically a short comma-separated line there), then
// generic selectors, then City/Country regexes over the container text.
func extractLocation(container *goquery.Selection) string {
	for _, sel := range workdayLocationSelectors {
		if loc := firstText(container, sel); isValidLocation(loc) {
			return loc
		}
	}

	for _, sel := range titleAnchorSelectors {
		title := container.Find(sel).First()
		if title.Length() == 0 {
			continue
		}
		sib := strings.TrimSpace(title.Next().Text())
		lower := strings.ToLower(sib)
		if len(sib) > 2 && len(sib) < 50 &&
			!strings.Contains(lower, "apply") && !strings.Contains(lower, "job") {
			if strings.Contains(sib, ",") || isValidLocation(sib) {
				return sib
			}
		}
		break
	}

	for _, sel := range locationSelectors {
		if loc := firstText(container, sel); isValidLocation(loc) {
			return loc
		}
	}

	text := container.Text()
	for _, p := range locationPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return jobs.LocationNotSpecified
}

var placeholderLocations = []string{"location", "city", "state", "country", "where", "anywhere"}

func isValidLocation(location string) bool {
	if len(location) < 3 {
		return false
	}
	lower := strings.ToLower(location)
	for _, p := range placeholderLocations {
		if lower == p {
			return false
		}
	}
	return true
}

var descriptionSelectors = []string{
	`[data-automation-id="jobPostingDescription"]`,
	`div[class*="JobDescription"]`,
	`div[data-automation-id*="description"]`,

	`[data-testid*="description"]`, `[class*="job-description"]`,
	`[class*="description"]`, `[class*="job-details"]`, `[class*="job-content"]`,
	`div[id*="description"]`, `section[id*="description"]`,
}

var sectionHeadingPattern = regexp.MustCompile(`(?i)responsibilities|requirements|qualifications|about|role overview`)

func extractDescription(container *goquery.Selection) string {
	for _, sel := range descriptionSelectors {
		el := container.Find(sel).First()
		if el.Length() > 0 {
			return cleanDescription(el.Text())
		}
	}

	// Last resort: the block around the first responsibilities/requirements
	// heading usually is the description.
	var parent *goquery.Selection
	container.Find("h1, h2, h3, h4, b, strong, p").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if !sectionHeadingPattern.MatchString(el.Text()) {
			return true
		}
		if p := el.ParentsFiltered("div, section, article").First(); p.Length() > 0 {
			parent = p
			return false
		}
		return true
	})
	if parent != nil {
		return cleanDescription(parent.Text())
	}
	return jobs.DescriptionUnavailable
}

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	applyTailPattern  = regexp.MustCompile(`(?i)apply now.*$`)
)

// cleanDescription strips markup, collapses whitespace, and cuts trailing
// "apply now" call-to-action boilerplate.
func cleanDescription(text string) string {
	if strings.ContainsAny(text, "<>") {
		if frag, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = frag.Text()
		}
	}
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = applyTailPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

var responsibilitiesPattern = regexp.MustCompile(`(?i)responsibilit`)

const responsibilitiesMax = 500

// extractResponsibilities bullet-joins the block following a
// "Responsibilities" heading, truncated to a bounded length.
func extractResponsibilities(container *goquery.Selection) string {
	var out string
	container.Find("h2, h3, h4, b, strong").EachWithBreak(func(_ int, header *goquery.Selection) bool {
		if !responsibilitiesPattern.MatchString(header.Text()) {
			return true
		}
		section := header.NextAllFiltered("ul, div, p").First()
		if section.Length() == 0 {
			return true
		}

		var parts []string
		if items := section.Find("li"); items.Length() > 0 {
			items.Each(func(_ int, li *goquery.Selection) {
				if t := strings.TrimSpace(li.Text()); t != "" {
					parts = append(parts, t)
				}
			})
		} else {
			parts = append(parts, strings.TrimSpace(section.Text()))
		}
		out = strings.Join(parts, " • ")
		return false
	})

	if len(out) > responsibilitiesMax {
		out = out[:responsibilitiesMax]
	}
	return out
}

var companySelectors = []string{
	`[data-testid*="company"]`, `[class*="company"]`, `[class*="employer"]`,
}

// extractCompany reads a company-labeled element, else titleizes the first
// segment of the page's domain.
func extractCompany(container *goquery.Selection, pageURL string) string {
	for _, sel := range companySelectors {
		if name := firstText(container, sel); len(name) > 1 {
			return name
		}
	}

	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return jobs.CompanyNotSpecified
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	first, _, _ := strings.Cut(host, ".")
	return strings.Title(first) //nolint:staticcheck // single ASCII word
}

// extractEmploymentType scans container and description text. Explicit
// "workplace type" labels win over loose keyword hits.
func extractEmploymentType(container *goquery.Selection, description string) string {
	text := strings.ToLower(container.Text() + " " + description)

	switch {
	case strings.Contains(text, "workplace type: remote"):
		return "Remote"
	case strings.Contains(text, "workplace type: on-site"),
		strings.Contains(text, "workplace type: onsite"):
		return "On-site"
	case strings.Contains(text, "workplace type: hybrid"):
		return "Hybrid"
	case strings.Contains(text, "remote"):
		return "Remote"
	case strings.Contains(text, "part-time"), strings.Contains(text, "part time"):
		return "Part-time"
	case strings.Contains(text, "contract"), strings.Contains(text, "temporary"):
		return "Contract"
	}
	return "Full-time"
}

func firstText(container *goquery.Selection, sel string) string {
	el := container.Find(sel).First()
	if el.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
