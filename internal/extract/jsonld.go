package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobrake/jobrake/internal/jobs"
)

// jobPostingJSONLD finds the first schema.org JobPosting object embedded in
// the page, whether it appears top-level, as the first array element, or
// nested one level inside a wrapper object. Malformed blocks are skipped.
func jobPostingJSONLD(doc *goquery.Document) map[string]any {
	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}
		if list, ok := raw.([]any); ok {
			if len(list) == 0 {
				return true
			}
			raw = list[0]
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			return true
		}
		if obj["@type"] == "JobPosting" {
			found = obj
			return false
		}
		for _, v := range obj {
			if inner, ok := v.(map[string]any); ok && inner["@type"] == "JobPosting" {
				found = inner
				return false
			}
		}
		return true
	})
	return found
}

// recordFromJSONLD maps a JobPosting object onto a Record. Structured data
// is authoritative for every field it carries; skills still come from the
// description text.
func recordFromJSONLD(posting map[string]any, pageURL string) *jobs.Record {
	rec := &jobs.Record{
		ID:             jobs.StableID(pageURL),
		Title:          stringField(posting, "title"),
		Company:        jobs.CompanyNotSpecified,
		Location:       jsonLDLocation(posting),
		EmploymentType: "Full-time",
		Description:    jobs.DescriptionUnavailable,
		SourceURL:      pageURL,
	}

	if org, ok := posting["hiringOrganization"].(map[string]any); ok {
		if name := stringField(org, "name"); name != "" {
			rec.Company = name
		}
	}
	if desc := stringField(posting, "description"); desc != "" {
		rec.Description = cleanDescription(desc)
	}
	if et := stringField(posting, "employmentType"); et != "" {
		rec.EmploymentType = et
	}
	rec.Skills = Skills(rec.Description)
	return rec
}

// jsonLDLocation flattens jobLocation.address into "Locality, Region,
// Country". Address parts may be plain strings or {name: ...} objects.
func jsonLDLocation(posting map[string]any) string {
	loc := posting["jobLocation"]
	if list, ok := loc.([]any); ok && len(list) > 0 {
		loc = list[0]
	}

	switch v := loc.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		switch addr := v["address"].(type) {
		case string:
			if addr != "" {
				return addr
			}
		case map[string]any:
			var parts []string
			for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
				switch p := addr[key].(type) {
				case string:
					if p != "" {
						parts = append(parts, p)
					}
				case map[string]any:
					if name := stringField(p, "name"); name != "" {
						parts = append(parts, name)
					}
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
	}
	return jobs.LocationNotSpecified
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
