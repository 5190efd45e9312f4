// Package urlguard normalizes candidate URLs and filters out the ones the
// crawler must never follow: auth and legal pages, tracking links, and
// non-HTTP schemes. It also resolves apply-page URLs back to their parent
// job-detail page.
package urlguard

import (
	"net/url"
	"strings"
)

// ErrRejected is returned by Normalize for URLs the crawler must not visit.
type rejectError string

func (e rejectError) Error() string { return string(e) }

// Rejection reasons surfaced by Normalize.
var (
	ErrEmptyURL      = rejectError("empty url")
	ErrBadScheme     = rejectError("unsupported scheme")
	ErrBlockedURL    = rejectError("blocklisted url")
	ErrUnparsableURL = rejectError("unparsable url")
)

// blockedSubstrings matches auth, profile, and legal pages anywhere in the
// lowercased URL. Identity-provider hosts are included because following a
// login redirect burns a fetch and never yields a job.
var blockedSubstrings = []string{
	"login", "sign-in", "my-profile", "benefits",
	"skip-to-main", "candidateexperience",
	"auth", "sso", "oraclecloud.com",
	"privacy", "terms", "cookie",
}

// spaHints marks hosted ATS platforms and hash-routed job search apps that
// need a JavaScript-capable fetch from the start.
var spaHints = []string{
	"myworkdayjobs.com",
	"taleo.net",
	"icims.com",
	"greenhouse.io",
	"lever.co",
	"startup.jobs",
	"#/job",
	"#search",
}

// Normalize trims whitespace, rejects non-HTTP schemes and fragment-only
// URLs, and rejects any URL containing a blocklisted substring. On success it
// returns the trimmed URL unchanged.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}
	lower := strings.ToLower(raw)
	for _, prefix := range []string{"mailto:", "tel:", "javascript:", "data:", "#"} {
		if strings.HasPrefix(lower, prefix) {
			return "", ErrBadScheme
		}
	}
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", ErrBadScheme
	}
	if _, err := url.Parse(raw); err != nil {
		return "", ErrUnparsableURL
	}
	for _, term := range blockedSubstrings {
		if strings.Contains(lower, term) {
			return "", ErrBlockedURL
		}
	}
	return raw, nil
}

// IsBlocked reports whether Normalize would reject the URL.
func IsBlocked(raw string) bool {
	_, err := Normalize(raw)
	return err != nil
}

// ToDetailURL truncates apply-page URLs to their parent job-detail page.
// Apply pages are never crawled directly; the detail page carries the
// description the extractor needs.
func ToDetailURL(raw string) string {
	if i := strings.Index(raw, "/apply"); i >= 0 {
		return raw[:i]
	}
	if i := strings.Index(raw, "/application"); i >= 0 {
		return raw[:i]
	}
	return raw
}

// IsApplyURL reports whether the URL points at an application form.
func IsApplyURL(raw string) bool {
	return strings.Contains(raw, "/apply") || strings.Contains(raw, "/application")
}

// SPAHint reports whether the URL belongs to a known single-page-application
// careers platform or uses hash routing, both of which imply the light fetch
// tier will see an empty shell.
func SPAHint(raw string) bool {
	lower := strings.ToLower(raw)
	for _, hint := range spaHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// Resolve joins href against base and returns the absolute detail URL, or ""
// when href is unusable (empty, fragment-only, javascript:).
func Resolve(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" || strings.HasPrefix(strings.ToLower(href), "javascript") {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
