package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatMessagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nosol_chat_messages_total",
		Help: "The total number of chat messages evaluated",
	}, []string{"status"})

	ChatMessagesSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nosol_chat_suppressed_total",
		Help: "The total number of chat messages suppressed, by reason",
	}, []string{"reason"})

	ListingsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nosol_listings_total",
		Help: "The total number of party finder listings evaluated",
	}, []string{"status"})

	ListingsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nosol_listings_suppressed_total",
		Help: "The total number of party finder listings suppressed, by reason",
	}, []string{"reason"})

	BatchesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nosol_listing_batches_total",
		Help: "The total number of listing batches received",
	}, []string{"status"})

	ClassifierRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nosol_classifier_request_duration_seconds",
		Help:    "Duration of classifier requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	HistorySize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nosol_history_entries",
		Help: "Number of entries currently held per history partition",
	}, []string{"partition"})
)

// Status label values.
const (
	StatusPassed     = "passed"
	StatusSuppressed = "suppressed"
	StatusOK         = "ok"
	StatusMalformed  = "malformed"
)

// StartClassifierTimer times one classifier request for the given model.
func StartClassifierTimer(model string) *prometheus.Timer {
	return prometheus.NewTimer(ClassifierRequestDuration.WithLabelValues(model))
}
