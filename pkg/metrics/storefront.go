package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records catalog, cart and checkout activity.
type StorefrontMetrics struct {
	fetchDuration *prometheus.HistogramVec
	fetchFailure  *prometheus.CounterVec
	browseResults *prometheus.HistogramVec
	cartMutations *prometheus.CounterVec
	checkouts     *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_fetch_duration_seconds",
		Help:    "Duration of remote catalog fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	fetchFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_fetch_failures_total",
		Help: "Failed remote catalog fetches.",
	}, []string{"source"})
	browseResults := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_browse_results",
		Help:    "Number of records matching a browse query.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	}, []string{"status"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions_total",
		Help: "Checkout submissions, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(fetchDuration, fetchFailure, browseResults, cartMutations, checkouts)
	return &StorefrontMetrics{
		fetchDuration: fetchDuration,
		fetchFailure:  fetchFailure,
		browseResults: browseResults,
		cartMutations: cartMutations,
		checkouts:     checkouts,
	}
}

// ObserveFetch records the duration of a remote catalog fetch and counts failures.
func (m *StorefrontMetrics) ObserveFetch(source string, duration time.Duration, err error) {
	if m == nil || m.fetchDuration == nil {
		return
	}
	label := normalizeLabel(source)
	m.fetchDuration.WithLabelValues(label).Observe(duration.Seconds())
	if err != nil {
		m.fetchFailure.WithLabelValues(label).Inc()
	}
}

// ObserveBrowse records how many records a browse evaluation matched.
func (m *StorefrontMetrics) ObserveBrowse(status string, matched int) {
	if m == nil || m.browseResults == nil {
		return
	}
	m.browseResults.WithLabelValues(normalizeLabel(status)).Observe(float64(matched))
}

// IncCartMutation counts one applied cart operation.
func (m *StorefrontMetrics) IncCartMutation(op string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncCheckout counts one checkout attempt by outcome.
func (m *StorefrontMetrics) IncCheckout(outcome string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
