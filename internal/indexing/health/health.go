// Package health provides system health monitoring and status reporting.
package health

import "time"

// SystemStatus represents the overall health state of the system or a component.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
)

// IndexerHealth describes how far the checkpoint trails the chain.
type IndexerHealth struct {
	Status          SystemStatus `json:"status"`
	CheckpointBlock uint64       `json:"checkpoint_block"`
	LatestBlock     uint64       `json:"latest_block"`
	BlockLag        uint64       `json:"block_lag"`
	BlocksPerSecond float64      `json:"blocks_per_second"`
}

// ComponentHealth is the result of one dependency check.
type ComponentHealth struct {
	Status SystemStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// HealthReport contains the full system health report.
type HealthReport struct {
	RunID        string                     `json:"run_id"`
	StartedAt    time.Time                  `json:"started_at"`
	SystemStatus SystemStatus               `json:"system_status"`
	Indexer      IndexerHealth              `json:"indexer"`
	Components   map[string]ComponentHealth `json:"components"`
}

func worst(a, b SystemStatus) SystemStatus {
	rank := map[SystemStatus]int{StatusHealthy: 0, StatusDegraded: 1, StatusCritical: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
