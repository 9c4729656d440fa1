package metrics

import (
	"sync"
	"time"
)

// Counter names used across the service.
const (
	CounterBatchesApplied       = "progress_batches_applied"
	CounterBatchesFailed        = "progress_batches_failed"
	CounterUpdatesApplied       = "progress_updates_applied"
	CounterMismatches           = "reconciliation_mismatches"
	CounterStockDecrements      = "stock_pool_decrements"
	CounterSaveFailures         = "dataset_save_failures"
	CounterLoadFailures         = "dataset_load_failures"
	CounterCacheHits            = "orders_cache_hits"
	CounterCacheMisses          = "orders_cache_misses"
	CounterEventsPublished      = "progress_events_published"
	CounterEventPublishFailures = "progress_event_publish_failures"
)

// Health component names.
const (
	HealthStore     = "store"
	HealthInvariant = "dataset_invariants"
)

// TimerStat summarizes recorded durations for one operation.
type TimerStat struct {
	Count         int64   `json:"count"`
	TotalTimeMs   int64   `json:"total_time_ms"`
	AverageTimeMs float64 `json:"average_time_ms"`
	MaxTimeMs     int64   `json:"max_time_ms"`
}

// Metrics is an in-process metrics collector exposed on /metrics. It tracks
// counters, operation timers and component health for the tracking service.
type Metrics struct {
	mu        sync.RWMutex
	counters  map[string]int64
	timers    map[string]*timerData
	health    map[string]bool
	startTime time.Time
}

type timerData struct {
	count   int64
	totalMs int64
	maxMs   int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		counters:  make(map[string]int64),
		timers:    make(map[string]*timerData),
		health:    make(map[string]bool),
		startTime: time.Now(),
	}
}

// IncrementCounter increments a counter by 1.
func (m *Metrics) IncrementCounter(name string) {
	m.IncrementCounterBy(name, 1)
}

// IncrementCounterBy increments a counter by the given value.
func (m *Metrics) IncrementCounterBy(name string, value int64) {
	m.mu.Lock()
	m.counters[name] += value
	m.mu.Unlock()
}

// RecordTimer records one duration sample for the named operation.
func (m *Metrics) RecordTimer(name string, d time.Duration) {
	ms := d.Milliseconds()

	m.mu.Lock()
	t, ok := m.timers[name]
	if !ok {
		t = &timerData{}
		m.timers[name] = t
	}
	t.count++
	t.totalMs += ms
	if ms > t.maxMs {
		t.maxMs = ms
	}
	m.mu.Unlock()
}

// SetHealth records a component's health status.
func (m *Metrics) SetHealth(component string, healthy bool) {
	m.mu.Lock()
	m.health[component] = healthy
	m.mu.Unlock()
}

// GetCounters returns a copy of all counters.
func (m *Metrics) GetCounters() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int64, len(m.counters))
	for name, v := range m.counters {
		out[name] = v
	}
	return out
}

// GetTimers returns a summary of all timers.
func (m *Metrics) GetTimers() map[string]TimerStat {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]TimerStat, len(m.timers))
	for name, t := range m.timers {
		stat := TimerStat{
			Count:       t.count,
			TotalTimeMs: t.totalMs,
			MaxTimeMs:   t.maxMs,
		}
		if t.count > 0 {
			stat.AverageTimeMs = float64(t.totalMs) / float64(t.count)
		}
		out[name] = stat
	}
	return out
}

// GetHealthChecks returns all recorded component health states.
func (m *Metrics) GetHealthChecks() map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]bool, len(m.health))
	for name, v := range m.health {
		out[name] = v
	}
	return out
}

// GetAllMetrics returns every metric in a structured format for exposition.
func (m *Metrics) GetAllMetrics() map[string]interface{} {
	return map[string]interface{}{
		"uptime_seconds": int64(time.Since(m.startTime).Seconds()),
		"counters":       m.GetCounters(),
		"timers":         m.GetTimers(),
		"health_checks":  m.GetHealthChecks(),
	}
}
