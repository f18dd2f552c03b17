package cursor

import (
	"time"
)

// blockRecord holds timing data for a checkpointed block.
type blockRecord struct {
	BlockHeight uint64
	ProcessedAt time.Time
}

// Metrics holds cursor throughput data.
type Metrics struct {
	BlocksPerSecond  float64
	AverageBlockTime time.Duration
	LastBlock        uint64
}

// MetricsCollector keeps a sliding window of checkpoint times.
type MetricsCollector struct {
	windowSize int
	blockTimes []blockRecord // ring buffer, oldest first
}

// RecordBlock records the time height was checkpointed.
func (mc *MetricsCollector) RecordBlock(height uint64, processedAt time.Time) {
	record := blockRecord{
		BlockHeight: height,
		ProcessedAt: processedAt,
	}

	if len(mc.blockTimes) >= mc.windowSize {
		copy(mc.blockTimes, mc.blockTimes[1:])
		mc.blockTimes[len(mc.blockTimes)-1] = record
	} else {
		mc.blockTimes = append(mc.blockTimes, record)
	}
}

// GetMetrics returns current metrics.
func (mc *MetricsCollector) GetMetrics() Metrics {
	var m Metrics
	if len(mc.blockTimes) == 0 {
		return m
	}
	last := mc.blockTimes[len(mc.blockTimes)-1]
	m.LastBlock = last.BlockHeight

	if len(mc.blockTimes) >= 2 {
		first := mc.blockTimes[0]
		duration := last.ProcessedAt.Sub(first.ProcessedAt)

		if duration > 0 {
			blockCount := float64(len(mc.blockTimes) - 1)
			m.BlocksPerSecond = blockCount / duration.Seconds()
			m.AverageBlockTime = time.Duration(float64(duration) / blockCount)
		}
	}

	return m
}

// Reset clears all collected metrics.
func (mc *MetricsCollector) Reset() {
	mc.blockTimes = mc.blockTimes[:0]
}
