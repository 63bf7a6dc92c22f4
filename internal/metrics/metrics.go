package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Interactions counts webhook calls by stage and outcome
	Interactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartdisplay_interactions_total",
			Help: "The total number of chat interactions handled",
		},
		[]string{"stage", "outcome"},
	)

	// EventsCreated counts events persisted from modal submissions
	EventsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smartdisplay_events_created_total",
			Help: "The total number of events written to the event store",
		},
	)

	// Publishes counts topic publishes by granularity and status
	Publishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartdisplay_publishes_total",
			Help: "The total number of topic publishes attempted by the distribution job",
		},
		[]string{"granularity", "status"},
	)

	DistributionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "smartdisplay_distribution_duration_seconds",
			Help:    "The duration of distribution runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// UpcomingEvents is the number of future events seen by the last run
	UpcomingEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "smartdisplay_upcoming_events",
			Help: "The number of future events found by the last distribution run",
		},
	)
)
