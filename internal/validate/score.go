// Package validate gates extracted job records before they are kept:
// a role-mode filter, a confidence score, a target-country check, and a
// junk/ad filter, plus order-preserving deduplication.
package validate

import (
	"strings"

	"github.com/jobrake/jobrake/internal/extract"
	"github.com/jobrake/jobrake/internal/jobs"
)

// MinScore is the confidence threshold a record must reach.
const MinScore = 3

var roleFamilies = []string{
	"engineer", "developer", "manager", "analyst",
	"consultant", "specialist", "director", "intern",
}

var marketingPhrases = []string{
	"employee benefits", "our culture", "frequently asked questions",
}

// Score computes the confidence score for an extracted record. Positive
// signals reward a usable title, substantial description, skills, and a
// known location; marketing boilerplate and application-form language in the
// description penalize hard.
func Score(rec jobs.Record) int {
	title := strings.ToLower(rec.Title)
	desc := strings.ToLower(rec.Description)

	score := 0
	if len(title) > 3 && !extract.IsInvalidTitle(title) {
		score += 2
	}
	if len(desc) > 200 {
		score += 2
	}
	if len(rec.Skills) > 0 {
		score++
	}
	if rec.Location != "" && !strings.EqualFold(rec.Location, jobs.LocationNotSpecified) {
		score++
	}
	for _, role := range roleFamilies {
		if strings.Contains(title, role) {
			score++
			break
		}
	}

	for _, phrase := range marketingPhrases {
		if strings.Contains(desc, phrase) {
			score -= 3
			break
		}
	}
	if strings.Contains(desc, "application form") || strings.Contains(desc, "upload resume") {
		score -= 5
	}
	return score
}

// junkTerms in the title or company mark ad/consent/legal artifacts scraped
// off page chrome rather than a job.
var junkTerms = []string{
	"youradchoices", "privacy policy", "cookie policy", "terms of use",
	"do not sell my info", "opt out", "digital advertising alliance",
	"interest-based ads", "browser cookies", "javascript error",
}

// IsJunk rejects records whose title/company carry ad or consent-banner
// vocabulary, whose description is too short to be a posting, or whose
// description is a short privacy-policy blob with no job content.
func IsJunk(rec jobs.Record) bool {
	if rec.Title == "" || rec.Company == "" {
		return true
	}

	titleCompany := strings.ToLower(rec.Title + " " + rec.Company)
	for _, term := range junkTerms {
		if strings.Contains(titleCompany, term) {
			return true
		}
	}

	if len(rec.Description) < 50 {
		return true
	}
	desc := strings.ToLower(rec.Description)
	if strings.Contains(desc, "privacy policy") && len(rec.Description) < 500 &&
		!strings.Contains(desc, "responsibilities") {
		return true
	}
	return false
}

// CountryMatches reports whether a record's location is compatible with the
// target country. Remote, worldwide, and unspecified locations never
// disqualify.
func CountryMatches(rec jobs.Record, country string) bool {
	if country == "" {
		return true
	}
	loc := strings.ToLower(rec.Location)
	if loc == "" || strings.EqualFold(rec.Location, jobs.LocationNotSpecified) {
		return true
	}
	if strings.Contains(loc, "remote") || strings.Contains(loc, "worldwide") {
		return true
	}
	return strings.Contains(loc, strings.ToLower(country))
}

// Record runs the crawl-time gate sequence: role mode first (hard reject),
// then the score threshold, then the country check. IsJunk is applied
// separately at the persistence boundary.
func Record(rec jobs.Record, country, roleMode string) bool {
	if !MatchesRole(rec.Title, roleMode) {
		return false
	}
	if Score(rec) < MinScore {
		return false
	}
	return CountryMatches(rec, country)
}
