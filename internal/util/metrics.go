package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReturnsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "returns_processed_total",
		Help: "Total number of returns processed, by disposition",
	}, []string{"action"})

	ReturnsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "returns_failed_total",
		Help: "Total number of failed return submissions",
	}, []string{"reason"})

	ReturnsShippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "returns_shipped_total",
		Help: "Total number of records marked shipped",
	})

	LabelsMintedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "labels_minted_total",
		Help: "Total number of shipping labels derived",
	})

	EstimatedValueRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "estimated_value_recovered_total",
		Help: "Cumulative estimated recovery value across processed returns",
	})

	CO2SavedKgTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "co2_saved_kg_total",
		Help: "Cumulative estimated CO2 savings in kg",
	})

	RecordLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_record_latency_seconds",
		Help:    "Latency of ledger record operations",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
