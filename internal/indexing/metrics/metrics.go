package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BlocksProcessed tracks total blocks whose events were flushed
	BlocksProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ftindexer_blocks_processed_total",
			Help: "Total number of blocks processed",
		},
	)

	// ReceiptsProcessed tracks receipts seen, by execution outcome
	ReceiptsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftindexer_receipts_processed_total",
			Help: "Total number of receipts inspected",
		},
		[]string{"outcome"},
	)

	// DetectorMatches tracks events produced by each detector
	DetectorMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftindexer_detector_matches_total",
			Help: "Total number of events produced per detector",
		},
		[]string{"detector"},
	)

	// EventsEmitted tracks events written to the streams
	EventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftindexer_events_emitted_total",
			Help: "Total number of events appended to streams",
		},
		[]string{"kind"},
	)

	// StreamWriteErrors tracks failed appends and flushes
	StreamWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftindexer_stream_write_errors_total",
			Help: "Total number of failed stream writes",
		},
		[]string{"kind"},
	)

	// FlushLatency tracks the time spent flushing buffered events per block
	FlushLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ftindexer_flush_latency_seconds",
			Help:    "Stream flush latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FetchLatency tracks block fetch latency from the block source
	FetchLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ftindexer_fetch_latency_seconds",
			Help:    "Block fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FetchErrors tracks failed block fetch attempts
	FetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ftindexer_fetch_errors_total",
			Help: "Total number of failed block fetch attempts",
		},
	)

	// IndexerLatestBlock tracks the latest block height flushed by the indexer
	IndexerLatestBlock = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ftindexer_indexer_latest_block",
			Help: "Latest block height flushed by the indexer",
		},
	)
)
