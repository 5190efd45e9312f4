package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/jobrake/jobrake/internal/jobs"
)

// Snapshot is the archived payload for one company scrape.
type Snapshot struct {
	Country    string        `json:"country"`
	Company    string        `json:"company"`
	ArchivedAt time.Time     `json:"archived_at"`
	JobCount   int           `json:"job_count"`
	Jobs       []jobs.Record `json:"jobs"`
}

// Archiver writes per-company job snapshots through a Provider.
type Archiver struct {
	provider Provider
	now      func() time.Time
	log      *zap.Logger
}

// NewArchiver wraps the provider. A nil logger is replaced with a no-op.
func NewArchiver(provider Provider, log *zap.Logger) *Archiver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Archiver{provider: provider, now: time.Now, log: log}
}

// SaveJobs archives the records for one company and returns the object name.
func (a *Archiver) SaveJobs(ctx context.Context, country, company string, records []jobs.Record) (string, error) {
	snap := Snapshot{
		Country:    country,
		Company:    company,
		ArchivedAt: a.now().UTC(),
		JobCount:   len(records),
		Jobs:       records,
	}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	name := objectName(country, company, snap.ArchivedAt)
	if err := a.provider.Save(ctx, name, payload); err != nil {
		return "", fmt.Errorf("save snapshot %s: %w", name, err)
	}
	a.log.Info("archived job snapshot",
		zap.String("object", name), zap.Int("jobs", len(records)))
	return name, nil
}

func objectName(country, company string, ts time.Time) string {
	return path.Join("archives", slug(country), slug(company),
		ts.Format("20060102T150405Z")+".json")
}

// slug makes a path-safe lowercase label from free text.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case b.Len() > 0 && b.String()[b.Len()-1] != '-':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "unknown"
	}
	return out
}
