package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobrake/jobrake/internal/app"
	"github.com/jobrake/jobrake/internal/discovery"
	"github.com/jobrake/jobrake/internal/jobs"
	"github.com/jobrake/jobrake/internal/runner"
	"github.com/jobrake/jobrake/internal/scraper"
	"github.com/jobrake/jobrake/internal/validate"
)

// newScrapeCmd creates the 'scrape' subcommand. With positional URLs it
// scrapes those career sites directly; without, it discovers companies via
// the configured search provider.
func newScrapeCmd() *cobra.Command {
	var (
		country     string
		limit       int
		fresh       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "scrape [career-site-url...]",
		Short: "Crawl career sites and persist extracted job postings",
		Long: `Crawls each career site, classifying pages and following listing and
category links up to the depth limit. Extracted postings pass a role,
confidence, and country gate before being written to the store. When no
URLs are given, seed companies are discovered through the search API.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if country == "" {
				country = appInstance.Config().Scraper.Country
			}
			if country == "" {
				return fmt.Errorf("a target country is required (--country or JOBRAKE_SCRAPER_COUNTRY)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if metricsAddr != "" {
				stopMetrics := serveMetrics(metricsAddr, appInstance.Logger())
				defer stopMetrics()
			}

			companies, err := seedCompanies(ctx, appInstance, args, country, limit)
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				appInstance.Logger().Warn("no companies to scrape", zap.String("country", country))
				return nil
			}

			if fresh {
				deleted, err := appInstance.Store().ClearAllForCountry(ctx, country)
				if err != nil {
					return fmt.Errorf("clear existing jobs: %w", err)
				}
				appInstance.Logger().Info("cleared existing jobs",
					zap.String("country", country), zap.Int64("deleted", deleted))
			}

			return runScrape(ctx, appInstance, companies, country)
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "target country for role filtering")
	cmd.Flags().IntVar(&limit, "companies", 0, "max companies to discover (0 uses the configured default)")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "delete the country's existing jobs before scraping")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}

func seedCompanies(ctx context.Context, appInstance *app.App, args []string, country string, limit int) ([]discovery.Company, error) {
	if len(args) > 0 {
		companies := make([]discovery.Company, 0, len(args))
		for _, raw := range args {
			companies = append(companies, discovery.FromURL(raw))
		}
		return companies, nil
	}
	serper := appInstance.Discovery()
	if serper == nil {
		return nil, fmt.Errorf("no career-site URLs given and no search API key configured")
	}
	companies, err := serper.Find(ctx, country, limit)
	if err != nil {
		return nil, fmt.Errorf("discover companies: %w", err)
	}
	return companies, nil
}

func runScrape(ctx context.Context, appInstance *app.App, companies []discovery.Company, country string) error {
	logger := appInstance.Logger()
	engine := scraper.New(appInstance.Fetcher(), appInstance.EngineConfig(), logger)

	queue := runner.NewQueue(len(companies))
	for _, company := range companies {
		if err := queue.Enqueue(ctx, company); err != nil {
			return err
		}
	}
	queue.Close()

	var (
		mu         sync.Mutex
		totalSaved int
	)
	pool := runner.New(queue, appInstance.Config().Scraper.Concurrency,
		func(ctx context.Context, company discovery.Company) {
			saved := scrapeCompany(ctx, appInstance, engine, company, country)
			mu.Lock()
			totalSaved += saved
			mu.Unlock()
		}, logger)
	pool.Run(ctx)

	logger.Info("scrape finished",
		zap.String("country", country),
		zap.Int("companies", len(companies)), zap.Int("jobs_saved", totalSaved))
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func scrapeCompany(ctx context.Context, appInstance *app.App, engine *scraper.Engine, company discovery.Company, country string) int {
	logger := appInstance.Logger()
	logger.Info("scraping company",
		zap.String("company", company.Name), zap.String("url", company.URL))

	records := engine.ExtractJobsFromSite(ctx, company.URL, country)
	records = dropJunk(records)
	fillCompany(records, company.Name)

	saved, err := appInstance.Store().UpsertJobs(ctx, records, country)
	if err != nil {
		logger.Error("persisting jobs failed",
			zap.String("company", company.Name), zap.Error(err))
		return 0
	}

	if archiver := appInstance.Archiver(); archiver != nil && len(records) > 0 {
		if _, err := archiver.SaveJobs(ctx, country, company.Name, records); err != nil {
			logger.Warn("archiving snapshot failed",
				zap.String("company", company.Name), zap.Error(err))
		}
	}

	if err := appInstance.Store().SaveCompany(ctx, company.Name, company.URL, country, saved); err != nil {
		logger.Warn("saving company roll-up failed",
			zap.String("company", company.Name), zap.Error(err))
	}
	logger.Info("company scrape finished",
		zap.String("company", company.Name),
		zap.Int("extracted", len(records)), zap.Int("saved", saved))
	return saved
}

// dropJunk removes ad and consent-page artifacts before persistence. The
// crawl gate scores relevance; this is a final quality check on what lands
// in the store.
func dropJunk(records []jobs.Record) []jobs.Record {
	out := records[:0]
	for _, rec := range records {
		if validate.IsJunk(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// fillCompany backfills the discovered company name on records whose pages
// never named their employer.
func fillCompany(records []jobs.Record, name string) {
	if name == "" {
		return
	}
	for i := range records {
		if records[i].Company == jobs.CompanyNotSpecified {
			records[i].Company = name
		}
	}
}

func serveMetrics(addr string, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown error", zap.Error(err))
		}
	}
}
