package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// LoopMonitor tracks update loop metrics. Counters are atomic so a reporter
// may read them while the loop runs.
type LoopMonitor struct {
	// Fixed update metrics
	fixedUpdates    atomic.Uint64
	fixedUpdateTime atomic.Uint64 // nanoseconds, last call
	fixedPeriod     atomic.Uint64 // nanoseconds
	lastBacklog     atomic.Uint64
	maxBacklog      atomic.Uint64

	// Variable update metrics
	variableUpdates   atomic.Uint64
	lastVariableDelta atomic.Uint64 // nanoseconds

	// Dispatch metrics
	eventsDispatched atomic.Uint64
	idleMarkers      atomic.Uint64
	handlerErrors    atomic.Uint64

	// Statistics
	mutex                 sync.RWMutex
	totalVariableDelta    time.Duration
	avgFixedUpdateTime    float64
	startTime             time.Time
	backlogAlertThreshold uint64

	// Configuration
	enableDetailed atomic.Bool
}

// NewLoopMonitor creates a new loop monitor
func NewLoopMonitor() *LoopMonitor {
	lm := &LoopMonitor{
		startTime:             time.Now(),
		backlogAlertThreshold: 10,
	}
	lm.enableDetailed.Store(true)
	return lm
}

// SetFixedPeriod records the configured fixed update period, used by alerts.
func (lm *LoopMonitor) SetFixedPeriod(period time.Duration) {
	lm.fixedPeriod.Store(uint64(period.Nanoseconds()))
}

// SetBacklogAlertThreshold sets how many fixed updates a single idle marker
// may run before CheckPerformanceAlerts reports a backlog.
func (lm *LoopMonitor) SetBacklogAlertThreshold(n int) {
	if n < 0 {
		n = 0
	}
	lm.mutex.Lock()
	lm.backlogAlertThreshold = uint64(n)
	lm.mutex.Unlock()
}

// FixedUpdateTimer measures a single fixed update call
type FixedUpdateTimer struct {
	monitor   *LoopMonitor
	startTime time.Time
}

// StartFixedUpdate begins fixed update timing
func (lm *LoopMonitor) StartFixedUpdate() *FixedUpdateTimer {
	return &FixedUpdateTimer{
		monitor:   lm,
		startTime: time.Now(),
	}
}

// EndFixedUpdate completes fixed update timing
func (ft *FixedUpdateTimer) EndFixedUpdate() {
	elapsed := time.Since(ft.startTime)
	ft.monitor.fixedUpdateTime.Store(uint64(elapsed.Nanoseconds()))
	count := ft.monitor.fixedUpdates.Add(1)

	if ft.monitor.enableDetailed.Load() {
		ft.monitor.mutex.Lock()
		// running mean
		ft.monitor.avgFixedUpdateTime += (float64(elapsed.Nanoseconds()) - ft.monitor.avgFixedUpdateTime) / float64(count)
		ft.monitor.mutex.Unlock()
	}
}

// RecordVariableUpdate records a fired variable update and its delta
func (lm *LoopMonitor) RecordVariableUpdate(dt time.Duration) {
	lm.variableUpdates.Add(1)
	lm.lastVariableDelta.Store(uint64(dt.Nanoseconds()))

	lm.mutex.Lock()
	lm.totalVariableDelta += dt
	lm.mutex.Unlock()
}

// RecordIdleMarker records one update phase and the number of fixed
// updates it ran to catch up.
func (lm *LoopMonitor) RecordIdleMarker(fixedUpdatesRun int) {
	lm.idleMarkers.Add(1)
	backlog := uint64(fixedUpdatesRun)
	lm.lastBacklog.Store(backlog)
	for {
		peak := lm.maxBacklog.Load()
		if backlog <= peak || lm.maxBacklog.CompareAndSwap(peak, backlog) {
			return
		}
	}
}

// RecordEvent atomically counts a dispatched event
func (lm *LoopMonitor) RecordEvent() {
	lm.eventsDispatched.Add(1)
}

// RecordError atomically counts a handler failure
func (lm *LoopMonitor) RecordError() {
	lm.handlerErrors.Add(1)
}

// LoopMetrics is a snapshot of the loop counters
type LoopMetrics struct {
	FixedUpdates      uint64
	VariableUpdates   uint64
	EventsDispatched  uint64
	IdleMarkers       uint64
	HandlerErrors     uint64
	LastVariableDelta time.Duration
	AvgVariableDelta  time.Duration
	UpdatesPerSecond  float64
	MaxBacklog        uint64
	MemoryUsageMB     uint64
}

// GetCurrentMetrics returns current loop metrics
func (lm *LoopMonitor) GetCurrentMetrics() LoopMetrics {
	lm.mutex.RLock()
	defer lm.mutex.RUnlock()

	variableUpdates := lm.variableUpdates.Load()
	var avgDelta time.Duration
	ups := 0.0
	if variableUpdates > 0 {
		avgDelta = lm.totalVariableDelta / time.Duration(variableUpdates)
		if avgDelta > 0 {
			ups = float64(time.Second) / float64(avgDelta)
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return LoopMetrics{
		FixedUpdates:      lm.fixedUpdates.Load(),
		VariableUpdates:   variableUpdates,
		EventsDispatched:  lm.eventsDispatched.Load(),
		IdleMarkers:       lm.idleMarkers.Load(),
		HandlerErrors:     lm.handlerErrors.Load(),
		LastVariableDelta: time.Duration(lm.lastVariableDelta.Load()),
		AvgVariableDelta:  avgDelta,
		UpdatesPerSecond:  ups,
		MaxBacklog:        lm.maxBacklog.Load(),
		MemoryUsageMB:     memStats.Alloc / 1024 / 1024,
	}
}

// GetDetailedStats returns detailed loop statistics
func (lm *LoopMonitor) GetDetailedStats() map[string]interface{} {
	metrics := lm.GetCurrentMetrics()

	lm.mutex.RLock()
	defer lm.mutex.RUnlock()

	return map[string]interface{}{
		"uptime_seconds":         time.Since(lm.startTime).Seconds(),
		"fixed_updates":          metrics.FixedUpdates,
		"variable_updates":       metrics.VariableUpdates,
		"events_dispatched":      metrics.EventsDispatched,
		"idle_markers":           metrics.IdleMarkers,
		"handler_errors":         metrics.HandlerErrors,
		"avg_fixed_update_ms":    lm.avgFixedUpdateTime / 1000000,
		"last_variable_delta_ms": float64(metrics.LastVariableDelta) / float64(time.Millisecond),
		"avg_variable_delta_ms":  float64(metrics.AvgVariableDelta) / float64(time.Millisecond),
		"variable_updates_per_s": metrics.UpdatesPerSecond,
		"last_backlog":           lm.lastBacklog.Load(),
		"max_backlog":            metrics.MaxBacklog,
		"memory_alloc_mb":        metrics.MemoryUsageMB,
		"goroutines":             runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a loop health warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for loop issues and returns alerts
func (lm *LoopMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	currentTime := time.Now()

	lm.mutex.RLock()
	threshold := lm.backlogAlertThreshold
	lm.mutex.RUnlock()

	// The host stalled long enough for fixed updates to pile up
	if backlog := lm.lastBacklog.Load(); threshold > 0 && backlog > threshold {
		alerts = append(alerts, PerformanceAlert{
			Type:      "fixed_backlog",
			Message:   "Fixed updates are catching up after a stall",
			Value:     float64(backlog),
			Threshold: float64(threshold),
			Timestamp: currentTime,
		})
	}

	// A fixed update that takes longer than its period can never catch up
	period := lm.fixedPeriod.Load()
	if last := lm.fixedUpdateTime.Load(); period > 0 && last > period {
		alerts = append(alerts, PerformanceAlert{
			Type:      "slow_fixed_update",
			Message:   "Fixed update takes longer than the fixed period",
			Value:     float64(last) / float64(time.Millisecond),
			Threshold: float64(period) / float64(time.Millisecond),
			Timestamp: currentTime,
		})
	}

	if errs := lm.handlerErrors.Load(); errs > 0 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "handler_error",
			Message:   "The event handler reported an error",
			Value:     float64(errs),
			Threshold: 0,
			Timestamp: currentTime,
		})
	}

	return alerts
}

// EnableDetailedLogging enables/disables detailed timing statistics
func (lm *LoopMonitor) EnableDetailedLogging(enabled bool) {
	lm.enableDetailed.Store(enabled)
}

// DetailedLogging reports whether detailed timing statistics are kept.
func (lm *LoopMonitor) DetailedLogging() bool {
	return lm.enableDetailed.Load()
}
