// Package fetch retrieves career pages through two tiers: a plain HTTP
// fetch for server-rendered pages and a headless browser for script-heavy
// sites. The client escalates when the light tier's result looks too thin
// to classify, at most once per URL.
package fetch

import (
	"context"
	"time"
)

// Tier identifies which fetch path produced a result.
type Tier string

const (
	// TierLight is the plain HTTP path.
	TierLight Tier = "light"
	// TierHeavy is the headless browser path.
	TierHeavy Tier = "heavy"
)

// Result is a fetched page.
type Result struct {
	URL        string
	StatusCode int
	HTML       string
	Tier       Tier
	Duration   time.Duration
}

// Fetcher retrieves one page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Result, error)
}
