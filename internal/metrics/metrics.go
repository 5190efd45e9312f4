// Package metrics exposes Prometheus counters for the scraping pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal tracks fetches by tier ("light" or "heavy").
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobrake_fetches_total",
		Help: "The total number of page fetches, by tier.",
	}, []string{"tier"})
	// FetchErrorsTotal tracks fetches that returned an error, by tier.
	FetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobrake_fetch_errors_total",
		Help: "The total number of failed page fetches, by tier.",
	}, []string{"tier"})
	// EscalationsTotal tracks light-tier results promoted to the heavy tier.
	EscalationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobrake_escalations_total",
		Help: "The total number of fetches escalated to the browser tier.",
	})
	// ClassificationsTotal tracks classified pages by resulting page type.
	ClassificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobrake_classifications_total",
		Help: "The total number of page classifications, by page type.",
	}, []string{"page_type"})
	// JobsExtractedTotal tracks job records produced by the extractor.
	JobsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobrake_jobs_extracted_total",
		Help: "The total number of job records extracted.",
	})
	// JobsValidatedTotal tracks records that passed the validation gate.
	JobsValidatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobrake_jobs_validated_total",
		Help: "The total number of job records that passed validation.",
	})
	// JobsRejectedTotal tracks records dropped by a validation gate.
	JobsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobrake_jobs_rejected_total",
		Help: "The total number of job records rejected, by gate.",
	}, []string{"gate"})
	// BranchCrashesTotal tracks crawl branches that failed and returned empty.
	BranchCrashesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobrake_branch_crashes_total",
		Help: "The total number of crawl branches that crashed and were dropped.",
	})
	// EmergencyExtractionsTotal tracks uses of the degraded extraction path.
	EmergencyExtractionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobrake_emergency_extractions_total",
		Help: "The total number of crawls that fell back to degraded extraction.",
	})
)
