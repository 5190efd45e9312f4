package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobrake/jobrake/internal/jobs"
)

// PostgresConfig controls the connection pool.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Postgres writes job and company rows into Postgres.
type Postgres struct {
	pool execCloser
}

// NewPostgres creates a Postgres-backed store using the provided config.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgresWithPool constructs a store from an existing pool (primarily for testing).
func NewPostgresWithPool(pool execCloser) (*Postgres, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Postgres) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

const upsertJobSQL = `
INSERT INTO jobs (
	job_id,
	company,
	title,
	location,
	employment_type,
	description,
	responsibilities,
	skills,
	source_url,
	country,
	extracted_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
)
ON CONFLICT (job_id, company) DO UPDATE SET
	title = EXCLUDED.title,
	location = EXCLUDED.location,
	employment_type = EXCLUDED.employment_type,
	description = EXCLUDED.description,
	responsibilities = EXCLUDED.responsibilities,
	skills = EXCLUDED.skills,
	source_url = EXCLUDED.source_url,
	country = EXCLUDED.country,
	extracted_at = EXCLUDED.extracted_at`

// UpsertJobs saves records for a country. A failure on one record skips that
// record and continues; the count covers rows actually written.
func (s *Postgres) UpsertJobs(ctx context.Context, records []jobs.Record, country string) (int, error) {
	if s == nil || s.pool == nil {
		return 0, fmt.Errorf("store is not configured")
	}

	extractedAt := time.Now().UTC()
	saved := 0
	var lastErr error
	for _, rec := range records {
		args := []any{
			rec.ID,
			rec.Company,
			rec.Title,
			rec.Location,
			rec.EmploymentType,
			rec.Description,
			rec.Responsibilities,
			strings.Join(rec.Skills, ", "),
			rec.SourceURL,
			country,
			extractedAt,
		}
		if _, err := s.pool.Exec(ctx, upsertJobSQL, args...); err != nil {
			lastErr = fmt.Errorf("upsert job %q: %w", rec.ID, err)
			continue
		}
		saved++
	}
	if saved == 0 && lastErr != nil {
		return 0, lastErr
	}
	return saved, nil
}

// ClearAllForCountry removes every job stored for a country and returns the
// number of deleted rows.
func (s *Postgres) ClearAllForCountry(ctx context.Context, country string) (int64, error) {
	if s == nil || s.pool == nil {
		return 0, fmt.Errorf("store is not configured")
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE country = $1`, country)
	if err != nil {
		return 0, fmt.Errorf("clear jobs for %q: %w", country, err)
	}
	return tag.RowsAffected(), nil
}

const saveCompanySQL = `
INSERT INTO companies (name, website, country, total_jobs, last_scraped)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (name) DO UPDATE SET
	website = EXCLUDED.website,
	country = EXCLUDED.country,
	total_jobs = EXCLUDED.total_jobs,
	last_scraped = EXCLUDED.last_scraped`

// SaveCompany records or refreshes a company roll-up row.
func (s *Postgres) SaveCompany(ctx context.Context, name, website, country string, jobCount int) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("store is not configured")
	}
	if name == "" {
		return fmt.Errorf("company name is required")
	}
	if _, err := s.pool.Exec(ctx, saveCompanySQL, name, website, country, jobCount, time.Now().UTC()); err != nil {
		return fmt.Errorf("save company %q: %w", name, err)
	}
	return nil
}
