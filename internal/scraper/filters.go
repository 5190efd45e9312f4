package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// searchFilterURL detects a job-search filter form and synthesizes a
// pre-filtered URL for the target country, imitating a visitor filling the
// form. Sites ignore the parameter names they don't recognize, so all common
// ones are set at once. Returns "" when no filter inputs are present.
func searchFilterURL(doc *goquery.Document, baseURL, country string) string {
	if country == "" {
		return ""
	}

	hasLocation, hasKeyword := false, false
	doc.Find("input, select").Each(func(_ int, el *goquery.Selection) {
		attrs := attrString(el)
		if strings.Contains(attrs, "location") || strings.Contains(attrs, "place") ||
			strings.Contains(attrs, "country") {
			hasLocation = true
		}
		if strings.Contains(attrs, "keyword") || strings.Contains(attrs, "search") ||
			strings.Contains(attrs, "q=") {
			hasKeyword = true
		}
	})
	if !hasLocation && !hasKeyword {
		return ""
	}

	params := url.Values{}
	if hasLocation {
		params.Set("location", country)
		params.Set("loc", country)
		params.Set("country", country)
	}
	if hasKeyword {
		params.Set("q", country)
		params.Set("keywords", country)
	}

	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + params.Encode()
}

func attrString(el *goquery.Selection) string {
	if len(el.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	for _, attr := range el.Nodes[0].Attr {
		fmt.Fprintf(&b, "%s=%s ", attr.Key, attr.Val)
	}
	return strings.ToLower(b.String())
}
