// Package metrics exposes Prometheus collectors for the note enrichment
// pipeline. Collectors are registered on the default registry via promauto
// and served by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Enrichment pipeline metrics
	EnrichmentSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindweave_enrichment_steps_total",
		Help: "Enrichment step executions by step (tags, vectors, autolink) and outcome (ok, failed, skipped)",
	}, []string{"step", "outcome"})

	AutoLinkEdgesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindweave_autolink_edges_created_total",
		Help: "Graph edges created by the auto-link engine, by embedding basis",
	}, []string{"basis"})

	AutoLinkCandidatesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindweave_autolink_candidates_skipped_total",
		Help: "Similarity candidates skipped during auto-linking, by reason",
	}, []string{"reason"})

	// Embedding provider metrics
	EmbeddingRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindweave_embedding_requests_total",
		Help: "Embedding provider calls by outcome (ok, failed)",
	}, []string{"outcome"})

	EmbeddingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mindweave_embedding_request_seconds",
		Help:    "Embedding provider call latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// Vector store metrics
	VectorUpserts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindweave_vector_upserts_total",
		Help: "Vector store upserts by embedding basis",
	}, []string{"basis"})

	VectorSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindweave_vector_searches_total",
		Help: "Vector store similarity searches by outcome (ok, failed)",
	}, []string{"outcome"})
)

// Step and outcome label values used across the pipeline.
const (
	StepTags     = "tags"
	StepVectors  = "vectors"
	StepAutoLink = "autolink"

	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)
