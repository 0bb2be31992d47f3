package queue

import (
	"math"
	"testing"
	"time"
)

func TestHealth_Predicates(t *testing.T) {
	tests := []struct {
		name             string
		lambda           float64
		mu               float64
		wantHealthy      bool
		wantBackpressure bool
		wantUtilPct      float64
	}{
		{"underloaded", 10, 12, true, false, 100.0 * 10 / 12},
		{"overloaded", 15, 10, false, true, 150.0},
		{"idle", 0, 0, true, false, 0},
		{"no completions yet", 5, 0, true, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Health{ArrivalRate: tt.lambda, ServiceRate: tt.mu}
			if got := h.IsHealthy(); got != tt.wantHealthy {
				t.Errorf("IsHealthy() = %v, want %v", got, tt.wantHealthy)
			}
			if got := h.ShouldApplyBackpressure(); got != tt.wantBackpressure {
				t.Errorf("ShouldApplyBackpressure() = %v, want %v", got, tt.wantBackpressure)
			}
			if got := h.UtilizationPercentage(); math.Abs(got-tt.wantUtilPct) > 1e-9 {
				t.Errorf("UtilizationPercentage() = %v, want %v", got, tt.wantUtilPct)
			}
		})
	}
}

func TestHealth_ThresholdBoundaryHysteresis(t *testing.T) {
	// Exactly at the threshold neither predicate fires: the queue is
	// healthy-but-watched rather than backpressured.
	h := Health{ArrivalRate: 85, ServiceRate: 100}
	if h.IsHealthy() {
		t.Error("IsHealthy() should be false at exactly the threshold")
	}
	if h.ShouldApplyBackpressure() {
		t.Error("ShouldApplyBackpressure() should be false at exactly the threshold")
	}
}

func TestHealth_EstimatedQueueLength(t *testing.T) {
	h := Health{ArrivalRate: 5, ServiceRate: 10}
	if got, want := h.EstimatedQueueLength(), 1.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("EstimatedQueueLength() = %v, want %v", got, want)
	}

	saturated := Health{ArrivalRate: 10, ServiceRate: 10}
	if got := saturated.EstimatedQueueLength(); !math.IsInf(got, 1) {
		t.Errorf("EstimatedQueueLength() at rho=1 = %v, want +Inf", got)
	}
}

func TestHealth_WorkInProgress(t *testing.T) {
	h := Health{ArrivalRate: 4, AvgWait: 500 * time.Millisecond}
	if got, want := h.WorkInProgress(), 2.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("WorkInProgress() = %v, want %v", got, want)
	}
}

// fixedClock returns a monitor whose clock is pinned to a fixed instant so
// window pruning never interferes with the test.
func fixedClock(m *Monitor) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return at }
}

func TestMonitor_SnapshotRates(t *testing.T) {
	m := NewMonitor(10*time.Second, 0)
	fixedClock(m)

	for i := 0; i < 20; i++ {
		m.RecordArrival()
	}
	for i := 0; i < 40; i++ {
		m.RecordCompletion(100 * time.Millisecond)
	}

	h := m.Snapshot()
	if got, want := h.ArrivalRate, 2.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("ArrivalRate = %v, want %v", got, want)
	}
	if got, want := h.ServiceRate, 4.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("ServiceRate = %v, want %v", got, want)
	}
	if got := h.AvgWait; got != 100*time.Millisecond {
		t.Errorf("AvgWait = %v, want 100ms", got)
	}
	if !h.IsHealthy() {
		t.Error("monitor at rho=0.5 should be healthy")
	}
}

func TestMonitor_DisciplineSwitching(t *testing.T) {
	m := NewMonitor(10*time.Second, 0)
	fixedClock(m)

	if got := m.Discipline(); got != DisciplineFIFO {
		t.Fatalf("initial discipline = %q, want fifo", got)
	}

	// Overload: 30 arrivals against 10 completions.
	for i := 0; i < 30; i++ {
		m.RecordArrival()
	}
	for i := 0; i < 10; i++ {
		m.RecordCompletion(50 * time.Millisecond)
	}
	m.Snapshot()
	if got := m.Discipline(); got != DisciplineSRPT {
		t.Errorf("discipline under overload = %q, want srpt", got)
	}

	// Recover: completions catch up, utilization drops below threshold.
	for i := 0; i < 90; i++ {
		m.RecordCompletion(50 * time.Millisecond)
	}
	m.Snapshot()
	if got := m.Discipline(); got != DisciplineFIFO {
		t.Errorf("discipline after recovery = %q, want fifo", got)
	}
}

func TestMonitor_ShouldAcceptTask(t *testing.T) {
	m := NewMonitor(10*time.Second, 0)
	fixedClock(m)

	// Without backpressure everything is accepted.
	if !m.ShouldAcceptTask(0.25) {
		t.Error("low priority should be accepted while healthy")
	}

	// Overload the queue.
	for i := 0; i < 30; i++ {
		m.RecordArrival()
	}
	for i := 0; i < 10; i++ {
		m.RecordCompletion(50 * time.Millisecond)
	}

	if m.ShouldAcceptTask(0.5) {
		t.Error("normal priority should be deferred under backpressure")
	}
	if !m.ShouldAcceptTask(0.75) {
		t.Error("high priority should be accepted under backpressure")
	}
	if !m.ShouldAcceptTask(1.0) {
		t.Error("critical priority should be accepted under backpressure")
	}
}

func TestMonitor_WindowPruning(t *testing.T) {
	m := NewMonitor(10*time.Second, 0)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return at }

	for i := 0; i < 10; i++ {
		m.RecordArrival()
	}

	// Advance past the window; old arrivals no longer count.
	at = at.Add(time.Minute)
	h := m.Snapshot()
	if h.ArrivalRate != 0 {
		t.Errorf("ArrivalRate after window = %v, want 0", h.ArrivalRate)
	}
}

func TestMonitor_SetThreshold(t *testing.T) {
	m := NewMonitor(10*time.Second, 0)
	fixedClock(m)
	m.SetThreshold(0.5)

	// rho = 0.6 exceeds the lowered threshold.
	for i := 0; i < 6; i++ {
		m.RecordArrival()
	}
	for i := 0; i < 10; i++ {
		m.RecordCompletion(10 * time.Millisecond)
	}
	if !m.Snapshot().ShouldApplyBackpressure() {
		t.Error("lowered threshold should trigger backpressure at rho=0.6")
	}
}
