package validate

import "github.com/jobrake/jobrake/internal/jobs"

// Deduplicate drops later duplicates, keyed by stable job ID when present
// and by (title, location, company) otherwise. First occurrence wins and
// relative order is preserved.
func Deduplicate(records []jobs.Record) []jobs.Record {
	out := make([]jobs.Record, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		key := rec.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out
}
