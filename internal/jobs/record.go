// Package jobs defines the normalized job record exchanged between the
// extraction engine, the validator, and the persistence store.
package jobs

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Sentinel values used when a field cannot be extracted. The extractor never
// returns an empty title, company, or description; callers can test against
// these instead of the empty string.
const (
	TitleUnavailable       = "Job Title Not Available"
	LocationNotSpecified   = "Location not specified"
	DescriptionUnavailable = "Job description not available"
	CompanyNotSpecified    = "Company not specified"
)

// Record is the sole boundary object produced by the extraction engine.
// Title and Company are non-empty for every record the extractor returns;
// Description falls back to DescriptionUnavailable rather than "".
type Record struct {
	ID               string   `json:"job_id,omitempty"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	EmploymentType   string   `json:"employment_type"`
	Description      string   `json:"description"`
	Responsibilities string   `json:"responsibilities,omitempty"`
	Skills           []string `json:"skills"`
	SourceURL        string   `json:"source_url"`
}

// DedupKey returns the key used for within-session deduplication: the stable
// job identifier when present, else a composite of title, location, and
// company.
func (r Record) DedupKey() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Title + "\x00" + r.Location + "\x00" + r.Company
}

// NormalizeSkills sorts the skill set and removes duplicates in place,
// comparing case-insensitively but keeping the first spelling seen.
func (r *Record) NormalizeSkills() {
	if len(r.Skills) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(r.Skills))
	out := r.Skills[:0]
	for _, s := range r.Skills {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(s))
	}
	sort.Strings(out)
	r.Skills = out
}

// Flatten serializes the record losslessly into a flat string map. Skills are
// joined with ", "; the vocabulary never contains commas so the join is
// reversible via Unflatten.
func (r Record) Flatten() map[string]string {
	return map[string]string{
		"job_id":           r.ID,
		"title":            r.Title,
		"company":          r.Company,
		"location":         r.Location,
		"employment_type":  r.EmploymentType,
		"description":      r.Description,
		"responsibilities": r.Responsibilities,
		"skills":           strings.Join(r.Skills, ", "),
		"source_url":       r.SourceURL,
	}
}

// Unflatten rebuilds a Record from the map produced by Flatten.
func Unflatten(m map[string]string) Record {
	var skills []string
	if raw := m["skills"]; raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}
	return Record{
		ID:               m["job_id"],
		Title:            m["title"],
		Company:          m["company"],
		Location:         m["location"],
		EmploymentType:   m["employment_type"],
		Description:      m["description"],
		Responsibilities: m["responsibilities"],
		Skills:           skills,
		SourceURL:        m["source_url"],
	}
}

// StableID derives a stable job identifier from the detail-page URL, used
// when the page carries no explicit identifier of its own.
func StableID(sourceURL string) string {
	sum := sha256.Sum256([]byte(sourceURL))
	return "job_" + hex.EncodeToString(sum[:])[:12]
}
