package store

import (
	"context"
	"strings"
	"sync"

	"github.com/jobrake/jobrake/internal/jobs"
)

// Memory is an in-process Store used by tests and dry runs.
type Memory struct {
	mu        sync.Mutex
	rows      map[string]memoryRow
	companies map[string]memoryCompany
}

type memoryRow struct {
	record  jobs.Record
	country string
}

type memoryCompany struct {
	website  string
	country  string
	jobCount int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		rows:      make(map[string]memoryRow),
		companies: make(map[string]memoryCompany),
	}
}

func (m *Memory) key(rec jobs.Record) string {
	return rec.ID + "\x00" + strings.ToLower(rec.Company)
}

// UpsertJobs stores records keyed by (job_id, company).
func (m *Memory) UpsertJobs(_ context.Context, records []jobs.Record, country string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		m.rows[m.key(rec)] = memoryRow{record: rec, country: country}
	}
	return len(records), nil
}

// ClearAllForCountry drops all rows for a country.
func (m *Memory) ClearAllForCountry(_ context.Context, country string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var deleted int64
	for k, row := range m.rows {
		if strings.EqualFold(row.country, country) {
			delete(m.rows, k)
			deleted++
		}
	}
	return deleted, nil
}

// SaveCompany records a company roll-up.
func (m *Memory) SaveCompany(_ context.Context, name, website, country string, jobCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[name] = memoryCompany{website: website, country: country, jobCount: jobCount}
	return nil
}

// Close is a no-op.
func (m *Memory) Close() {}

// Jobs returns a snapshot of stored records, for assertions.
func (m *Memory) Jobs() []jobs.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]jobs.Record, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row.record)
	}
	return out
}
