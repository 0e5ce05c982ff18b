// Package metrics exposes Prometheus counters for the enrichment pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventintel"

var (
	// RegistrationsTotal counts attendees accepted by registration intake.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Attendee registrations accepted.",
	})

	// EnrichmentRunsTotal counts full pipeline runs, keyed by outcome
	// ("scored" or "key_lead").
	EnrichmentRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_runs_total",
		Help:      "Enrichment-and-scoring pipeline runs by outcome.",
	}, []string{"outcome"})

	// ProviderFailuresTotal counts enrichment/notification/transaction
	// provider calls that errored or returned non-2xx.
	ProviderFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_failures_total",
		Help:      "External provider call failures by provider.",
	}, []string{"provider"})

	// NotificationsTotal counts dispatch attempts by result
	// ("sent", "failed", "skipped").
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Key-lead notification dispatches by result.",
	}, []string{"result"})

	// ExpensePullsTotal counts expense aggregation runs.
	ExpensePullsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expense_pulls_total",
		Help:      "Expense aggregation runs.",
	})
)

// Handler returns the Prometheus scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
