// Package store persists scraped job records. The Postgres implementation
// keys rows on (job_id, company) with update-in-place on conflict; a memory
// implementation backs tests and dry runs.
package store

import (
	"context"

	"github.com/jobrake/jobrake/internal/jobs"
)

// Store is the persistence contract the scrape pipeline writes through.
type Store interface {
	// UpsertJobs saves records for a country and returns how many were written.
	UpsertJobs(ctx context.Context, records []jobs.Record, country string) (int, error)
	// ClearAllForCountry removes every job stored for a country.
	ClearAllForCountry(ctx context.Context, country string) (int64, error)
	// SaveCompany records or refreshes a company roll-up row.
	SaveCompany(ctx context.Context, name, website, country string, jobCount int) error
	// Close releases underlying resources.
	Close()
}
