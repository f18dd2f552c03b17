package health

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/ftindexer/internal/core/cursor"
)

const (
	degradedLag = 60
	criticalLag = 600
)

// BlockHeightFetcher fetches the latest final block height.
type BlockHeightFetcher interface {
	GetLatestBlock(ctx context.Context) (uint64, error)
}

// CursorReader is the part of the cursor manager the monitor reads.
type CursorReader interface {
	Get(ctx context.Context) (*cursor.Cursor, error)
	GetMetrics() cursor.Metrics
}

// Checker is a dependency that can report its own health.
type Checker interface {
	Health(ctx context.Context) error
}

// Monitor aggregates health status from various system components.
type Monitor struct {
	runID         string
	startedAt     time.Time
	cursor        CursorReader
	heightFetcher BlockHeightFetcher
	components    map[string]Checker
	cacheTTL      time.Duration

	mu         sync.Mutex
	lastCheck  time.Time
	lastReport *HealthReport
}

// NewMonitor creates a new health monitor with a fresh run id.
func NewMonitor(cur CursorReader, heightFetcher BlockHeightFetcher) *Monitor {
	return &Monitor{
		runID:         uuid.NewString(),
		startedAt:     time.Now(),
		cursor:        cur,
		heightFetcher: heightFetcher,
		components:    make(map[string]Checker),
		cacheTTL:      10 * time.Second,
	}
}

// AddComponent registers a dependency checked on every report.
// A failing component makes the system critical.
func (m *Monitor) AddComponent(name string, c Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components[name] = c
}

// RunID identifies this process in reports and logs.
func (m *Monitor) RunID() string {
	return m.runID
}

// CheckHealth builds a report, reusing the previous one for cacheTTL.
func (m *Monitor) CheckHealth(ctx context.Context) HealthReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastReport != nil && time.Since(m.lastCheck) < m.cacheTTL {
		return *m.lastReport
	}

	report := HealthReport{
		RunID:        m.runID,
		StartedAt:    m.startedAt,
		SystemStatus: StatusHealthy,
		Indexer:      m.checkIndexer(ctx),
		Components:   make(map[string]ComponentHealth, len(m.components)),
	}
	report.SystemStatus = worst(report.SystemStatus, report.Indexer.Status)

	for name, c := range m.components {
		ch := ComponentHealth{Status: StatusHealthy}
		if err := c.Health(ctx); err != nil {
			ch = ComponentHealth{Status: StatusCritical, Error: err.Error()}
		}
		report.Components[name] = ch
		report.SystemStatus = worst(report.SystemStatus, ch.Status)
	}

	m.lastCheck = time.Now()
	m.lastReport = &report
	return report
}

func (m *Monitor) checkIndexer(ctx context.Context) IndexerHealth {
	h := IndexerHealth{
		Status:          StatusHealthy,
		BlocksPerSecond: m.cursor.GetMetrics().BlocksPerSecond,
	}

	c, err := m.cursor.Get(ctx)
	if err != nil {
		h.Status = StatusCritical
		return h
	}
	if c != nil {
		h.CheckpointBlock = c.BlockHeight
	}

	latest, err := m.heightFetcher.GetLatestBlock(ctx)
	if err != nil {
		// can't see the chain, but indexing may still be fine
		h.Status = StatusDegraded
		return h
	}
	h.LatestBlock = latest
	if c != nil && latest > c.BlockHeight {
		h.BlockLag = latest - c.BlockHeight
	}

	switch {
	case c == nil:
		h.Status = StatusDegraded
	case h.BlockLag > criticalLag:
		h.Status = StatusCritical
	case h.BlockLag > degradedLag:
		h.Status = StatusDegraded
	}
	return h
}
