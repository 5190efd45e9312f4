// Package discovery finds seed companies hiring in a country through the
// Serper search API. Results are paginated, deduplicated by domain, and
// filtered to links that carry career/job vocabulary.
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the Serper search endpoint.
const DefaultBaseURL = "https://google.serper.dev/search"

// Company is one discovered seed site.
type Company struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// Config controls the Serper client.
type Config struct {
	APIKey       string
	BaseURL      string
	BatchSize    int
	MaxCompanies int
	Timeout      time.Duration
}

// Serper queries the Serper API for companies with open roles.
type Serper struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

// NewSerper builds the client. A missing API key is a configuration error
// and fails hard.
func NewSerper(cfg Config, log *zap.Logger) (*Serper, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("serper api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxCompanies <= 0 {
		cfg.MaxCompanies = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Serper{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}, nil
}

type searchRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
	Start int    `json:"start"`
}

type searchResponse struct {
	Organic []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"organic"`
}

// Find returns up to limit companies hiring in the country. Pagination stops
// when a batch produces nothing new, or after a bounded number of pages.
func (s *Serper) Find(ctx context.Context, country string, limit int) ([]Company, error) {
	if limit <= 0 {
		limit = s.cfg.MaxCompanies
	}
	query := fmt.Sprintf("jobs careers hiring %s site:careers OR site:jobs", country)

	var companies []Company
	seenDomains := make(map[string]struct{})
	start := 0

	for len(companies) < limit {
		remaining := limit - len(companies)
		num := remaining * 2
		if num > s.cfg.BatchSize {
			num = s.cfg.BatchSize
		}

		resp, err := s.search(ctx, searchRequest{Query: query, Num: num, Start: start})
		if err != nil {
			if len(companies) > 0 {
				s.log.Warn("company search batch failed, keeping partial results", zap.Error(err))
				break
			}
			return nil, err
		}

		foundNew := false
		for _, result := range resp.Organic {
			if len(companies) >= limit {
				break
			}
			domain := hostnameOf(result.Link)
			if domain == "" {
				continue
			}
			if _, dup := seenDomains[domain]; dup {
				continue
			}
			if !isCareerSite(result.Title, result.Link) {
				continue
			}
			companies = append(companies, Company{
				Name:   companyName(domain, result.Title),
				URL:    result.Link,
				Domain: domain,
			})
			seenDomains[domain] = struct{}{}
			foundNew = true
		}

		if !foundNew && len(resp.Organic) < num {
			break
		}
		start += num
		if start > limit*5 {
			break
		}
	}

	s.log.Info("company discovery finished",
		zap.String("country", country), zap.Int("count", len(companies)))
	return companies, nil
}

func (s *Serper) search(ctx context.Context, req searchRequest) (*searchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("X-API-KEY", s.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("serper search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper search: unexpected status %d", resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &out, nil
}

var careerIndicators = []string{"career", "job", "hiring", "work", "employment", "opportunity"}

func isCareerSite(title, link string) bool {
	titleLower := strings.ToLower(title)
	for _, ind := range careerIndicators {
		if strings.Contains(titleLower, ind) {
			return true
		}
	}
	linkLower := strings.ToLower(link)
	for _, ind := range []string{"career", "job", "hiring"} {
		if strings.Contains(linkLower, ind) {
			return true
		}
	}
	return false
}

// companyName prefers the first plain word in the result title, falling back
// to the first domain label.
func companyName(domain, title string) string {
	for _, word := range strings.Fields(title) {
		if len(word) > 3 && isAlpha(word) {
			return strings.Title(strings.ToLower(word)) //nolint:staticcheck // single ASCII word
		}
	}
	clean := strings.TrimPrefix(domain, "www.")
	first, _, _ := strings.Cut(clean, ".")
	return strings.Title(first) //nolint:staticcheck // single ASCII word
}

// FromURL builds a Company for an explicitly supplied career-site URL,
// deriving the name from the domain.
func FromURL(rawURL string) Company {
	domain := hostnameOf(rawURL)
	name := companyName(domain, "")
	if name == "" {
		name = "Unknown"
	}
	return Company{
		Name:   name,
		URL:    rawURL,
		Domain: domain,
	}
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}

func hostnameOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
