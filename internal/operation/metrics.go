package operation

import (
	"sort"
	"sync"
	"time"
)

// MetricsCollector tracks operation execution metrics for observability.
// It holds everything in process; there is no exporter because the
// connector runs as a short-lived invocation, not a scraped server.
type MetricsCollector struct {
	mu sync.RWMutex

	requestsByOperation map[string]int64
	requestsByStatus    map[string]map[int]int64
	durations           map[string][]time.Duration
	lastEventTime       time.Time
}

// OperationStats summarizes recorded activity for one operation.
type OperationStats struct {
	Requests int64
	ByStatus map[int]int64
	// P50 and P95 are duration percentiles over the retained window.
	P50 time.Duration
	P95 time.Duration
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		requestsByOperation: make(map[string]int64),
		requestsByStatus:    make(map[string]map[int]int64),
		durations:           make(map[string][]time.Duration),
		lastEventTime:       time.Now(),
	}
}

// RecordRequest records an operation execution.
func (m *MetricsCollector) RecordRequest(operation string, statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastEventTime = time.Now()
	m.requestsByOperation[operation]++

	if m.requestsByStatus[operation] == nil {
		m.requestsByStatus[operation] = make(map[int]int64)
	}
	m.requestsByStatus[operation][statusCode]++

	// Keep the last 1000 samples per operation for percentiles.
	m.durations[operation] = append(m.durations[operation], duration)
	if len(m.durations[operation]) > 1000 {
		m.durations[operation] = m.durations[operation][1:]
	}
}

// Stats returns a snapshot of per-operation statistics.
func (m *MetricsCollector) Stats() map[string]OperationStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]OperationStats, len(m.requestsByOperation))
	for op, count := range m.requestsByOperation {
		stats := OperationStats{
			Requests: count,
			ByStatus: make(map[int]int64, len(m.requestsByStatus[op])),
		}
		for code, n := range m.requestsByStatus[op] {
			stats.ByStatus[code] = n
		}

		if samples := m.durations[op]; len(samples) > 0 {
			sorted := make([]time.Duration, len(samples))
			copy(sorted, samples)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
			stats.P50 = sorted[len(sorted)/2]
			stats.P95 = sorted[(len(sorted)*95)/100]
		}

		out[op] = stats
	}
	return out
}

// LastEventTime returns the timestamp of the most recent recorded event.
func (m *MetricsCollector) LastEventTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastEventTime
}
