package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesRoutedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hurliman_queries_routed_total",
		Help: "Routed queries by the stage that produced the answer",
	}, []string{"matched_by"})

	RouteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hurliman_route_latency_seconds",
		Help:    "End-to-end answer routing latency",
		Buckets: prometheus.DefBuckets,
	})

	ClassifierFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hurliman_classifier_failures_total",
		Help: "Classifier fallback calls absorbed as no-match",
	})

	TranscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hurliman_transcriptions_total",
		Help: "Speech-to-text requests by outcome",
	}, []string{"status"})

	TranscriptionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hurliman_transcription_latency_seconds",
		Help:    "Audio conversion plus recognition latency",
		Buckets: prometheus.DefBuckets,
	})
)
