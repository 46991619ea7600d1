package monitoring

import (
	"sync"
	"testing"
	"time"
)

func TestNewLoopMonitor(t *testing.T) {
	lm := NewLoopMonitor()

	if lm == nil {
		t.Fatal("NewLoopMonitor returned nil")
	}

	if lm.enableDetailed.Load() != true {
		t.Error("Expected enableDetailed to be true")
	}

	// Check that start time is recent
	if time.Since(lm.startTime) > time.Second {
		t.Error("Start time should be recent")
	}
}

func TestLoopMonitorFixedUpdateTiming(t *testing.T) {
	lm := NewLoopMonitor()

	timer := lm.StartFixedUpdate()
	time.Sleep(5 * time.Millisecond) // Simulate some work
	timer.EndFixedUpdate()

	if lm.fixedUpdates.Load() != 1 {
		t.Errorf("Expected 1 fixed update, got %d", lm.fixedUpdates.Load())
	}

	minExpected := uint64(5 * time.Millisecond)
	if got := lm.fixedUpdateTime.Load(); got < minExpected {
		t.Errorf("Expected fixed update time of at least %d ns, got %d ns", minExpected, got)
	}
}

func TestLoopMonitorVariableUpdates(t *testing.T) {
	lm := NewLoopMonitor()

	lm.RecordVariableUpdate(10 * time.Millisecond)
	lm.RecordVariableUpdate(30 * time.Millisecond)

	metrics := lm.GetCurrentMetrics()
	if metrics.VariableUpdates != 2 {
		t.Errorf("Expected 2 variable updates, got %d", metrics.VariableUpdates)
	}
	if metrics.LastVariableDelta != 30*time.Millisecond {
		t.Errorf("Expected last delta 30ms, got %v", metrics.LastVariableDelta)
	}
	if metrics.AvgVariableDelta != 20*time.Millisecond {
		t.Errorf("Expected average delta 20ms, got %v", metrics.AvgVariableDelta)
	}
	if metrics.UpdatesPerSecond != 50 {
		t.Errorf("Expected 50 updates per second, got %v", metrics.UpdatesPerSecond)
	}
}

func TestLoopMonitorBacklog(t *testing.T) {
	lm := NewLoopMonitor()

	lm.RecordIdleMarker(3)
	lm.RecordIdleMarker(12)
	lm.RecordIdleMarker(1)

	metrics := lm.GetCurrentMetrics()
	if metrics.IdleMarkers != 3 {
		t.Errorf("Expected 3 idle markers, got %d", metrics.IdleMarkers)
	}
	if metrics.MaxBacklog != 12 {
		t.Errorf("Expected max backlog 12, got %d", metrics.MaxBacklog)
	}
	if lm.lastBacklog.Load() != 1 {
		t.Errorf("Expected last backlog 1, got %d", lm.lastBacklog.Load())
	}
}

func TestLoopMonitorAlerts(t *testing.T) {
	lm := NewLoopMonitor()
	lm.SetBacklogAlertThreshold(5)

	if alerts := lm.CheckPerformanceAlerts(); len(alerts) != 0 {
		t.Fatalf("Expected no alerts on a fresh monitor, got %v", alerts)
	}

	lm.RecordIdleMarker(6)
	lm.SetFixedPeriod(time.Nanosecond)
	timer := lm.StartFixedUpdate()
	time.Sleep(time.Millisecond)
	timer.EndFixedUpdate()
	lm.RecordError()

	types := map[string]bool{}
	for _, alert := range lm.CheckPerformanceAlerts() {
		types[alert.Type] = true
	}
	for _, want := range []string{"fixed_backlog", "slow_fixed_update", "handler_error"} {
		if !types[want] {
			t.Errorf("Expected a %s alert", want)
		}
	}
}

func TestLoopMonitorDetailedStats(t *testing.T) {
	lm := NewLoopMonitor()
	lm.RecordEvent()
	lm.RecordEvent()

	stats := lm.GetDetailedStats()
	if stats["events_dispatched"] != uint64(2) {
		t.Errorf("Expected 2 dispatched events, got %v", stats["events_dispatched"])
	}
	for _, key := range []string{"uptime_seconds", "fixed_updates", "max_backlog", "goroutines"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("Expected key %q in detailed stats", key)
		}
	}
}

func TestEnableDetailedLogging(t *testing.T) {
	lm := NewLoopMonitor()
	if !lm.DetailedLogging() {
		t.Error("Expected detailed statistics by default")
	}

	timer := lm.StartFixedUpdate()
	time.Sleep(time.Millisecond)
	timer.EndFixedUpdate()
	if avg := lm.GetDetailedStats()["avg_fixed_update_ms"].(float64); avg <= 0 {
		t.Errorf("Expected a positive average fixed update time, got %v", avg)
	}

	lm.EnableDetailedLogging(false)
	if lm.DetailedLogging() {
		t.Error("Expected detailed statistics to be off")
	}
	before := lm.GetDetailedStats()["avg_fixed_update_ms"].(float64)
	timer = lm.StartFixedUpdate()
	time.Sleep(5 * time.Millisecond)
	timer.EndFixedUpdate()
	if after := lm.GetDetailedStats()["avg_fixed_update_ms"].(float64); after != before {
		t.Errorf("Expected the average to stay at %v while disabled, got %v", before, after)
	}
	if lm.GetCurrentMetrics().FixedUpdates != 2 {
		t.Error("Expected fixed updates to be counted while disabled")
	}
}

func TestLoopMonitorConcurrency(t *testing.T) {
	lm := NewLoopMonitor()
	var wg sync.WaitGroup

	// One writer like the loop, several readers like reporters
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			timer := lm.StartFixedUpdate()
			timer.EndFixedUpdate()
			lm.RecordVariableUpdate(time.Millisecond)
			lm.RecordIdleMarker(i % 7)
			lm.RecordEvent()
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = lm.GetCurrentMetrics()
				_ = lm.CheckPerformanceAlerts()
				lm.EnableDetailedLogging(i%2 == 0)
			}
		}()
	}
	wg.Wait()

	metrics := lm.GetCurrentMetrics()
	if metrics.FixedUpdates != 200 || metrics.EventsDispatched != 200 {
		t.Errorf("Expected 200 fixed updates and events, got %+v", metrics)
	}
	if metrics.MaxBacklog != 6 {
		t.Errorf("Expected max backlog 6, got %d", metrics.MaxBacklog)
	}
}

func BenchmarkLoopMonitorFixedUpdateTiming(b *testing.B) {
	lm := NewLoopMonitor()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		timer := lm.StartFixedUpdate()
		timer.EndFixedUpdate()
	}
}
