// Package queue tracks arrival and service rates for the dispatch queue and
// derives the admission-control signal from queueing theory.
package queue

import (
	"math"
	"sync"
	"time"
)

// DefaultBackpressureThreshold is the utilization above which the queue
// applies backpressure and switches scheduling discipline.
const DefaultBackpressureThreshold = 0.85

// backpressureAdmissionFloor is the minimum priority admission value that
// clears backpressure.
const backpressureAdmissionFloor = 0.7

// Discipline is the scheduling discipline the dispatcher should use.
type Discipline string

const (
	// DisciplineFIFO serves tasks in arrival order.
	DisciplineFIFO Discipline = "fifo"
	// DisciplineSRPT serves the shortest remaining processing time first.
	// Used while utilization exceeds the backpressure threshold.
	DisciplineSRPT Discipline = "srpt"
)

// Health is a point-in-time queue health snapshot.
//
// The predicates are deliberately not perfect complements at the threshold:
// utilization exactly at the threshold is healthy but not yet backpressured,
// which gives the discipline switch hysteresis.
type Health struct {
	// ArrivalRate is lambda, in tasks per second.
	ArrivalRate float64
	// ServiceRate is mu, in tasks per second.
	ServiceRate float64
	// AvgWait is the mean service time over the window.
	AvgWait time.Duration
	// Threshold is the backpressure utilization threshold.
	Threshold float64
}

// Utilization returns rho = lambda/mu, or 0 when mu is 0.
func (h Health) Utilization() float64 {
	if h.ServiceRate == 0 {
		return 0
	}
	return h.ArrivalRate / h.ServiceRate
}

// UtilizationPercentage returns utilization as a percentage.
func (h Health) UtilizationPercentage() float64 {
	return h.Utilization() * 100
}

// IsHealthy reports whether utilization is strictly below the threshold.
func (h Health) IsHealthy() bool {
	return h.Utilization() < h.threshold()
}

// ShouldApplyBackpressure reports whether utilization strictly exceeds the
// threshold.
func (h Health) ShouldApplyBackpressure() bool {
	return h.Utilization() > h.threshold()
}

// WorkInProgress estimates tasks in the system via Little's Law (L = lambda * W).
func (h Health) WorkInProgress() float64 {
	return h.ArrivalRate * h.AvgWait.Seconds()
}

// EstimatedQueueLength returns rho/(1-rho) for rho < 1 and +Inf otherwise.
func (h Health) EstimatedQueueLength() float64 {
	rho := h.Utilization()
	if rho >= 1 {
		return math.Inf(1)
	}
	return rho / (1 - rho)
}

func (h Health) threshold() float64 {
	if h.Threshold == 0 {
		return DefaultBackpressureThreshold
	}
	return h.Threshold
}

// Monitor tracks recent dispatch history and recomputes queue health on
// demand. Safe for concurrent use; all checks are synchronous and never
// touch I/O.
type Monitor struct {
	mu sync.RWMutex

	// window bounds how far back arrivals and completions count.
	window time.Duration
	// threshold is the backpressure utilization threshold.
	threshold float64

	arrivals    []time.Time
	completions []completion

	discipline Discipline

	// now is replaceable for tests.
	now func() time.Time
}

type completion struct {
	at      time.Time
	service time.Duration
}

// NewMonitor creates a Monitor over the given rolling window. A zero window
// defaults to one minute, a zero threshold to DefaultBackpressureThreshold.
func NewMonitor(window time.Duration, threshold float64) *Monitor {
	if window <= 0 {
		window = time.Minute
	}
	if threshold <= 0 {
		threshold = DefaultBackpressureThreshold
	}
	return &Monitor{
		window:     window,
		threshold:  threshold,
		discipline: DisciplineFIFO,
		now:        time.Now,
	}
}

// SetThreshold updates the backpressure threshold. Used by config reload.
func (m *Monitor) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

// RecordArrival records one task arriving at the queue.
func (m *Monitor) RecordArrival() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arrivals = append(m.arrivals, m.now())
	m.pruneLocked()
}

// RecordCompletion records one task completing service.
func (m *Monitor) RecordCompletion(service time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions = append(m.completions, completion{at: m.now(), service: service})
	m.pruneLocked()
}

// Snapshot computes current queue health from the rolling window and
// updates the scheduling discipline accordingly.
func (m *Monitor) Snapshot() Health {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()

	seconds := m.window.Seconds()
	h := Health{
		ArrivalRate: float64(len(m.arrivals)) / seconds,
		ServiceRate: float64(len(m.completions)) / seconds,
		Threshold:   m.threshold,
	}
	if n := len(m.completions); n > 0 {
		var total time.Duration
		for _, c := range m.completions {
			total += c.service
		}
		h.AvgWait = total / time.Duration(n)
	}

	// FIFO while utilization stays at or below the threshold, SRPT once it
	// exceeds it.
	if h.Utilization() > m.threshold {
		m.discipline = DisciplineSRPT
	} else {
		m.discipline = DisciplineFIFO
	}

	return h
}

// Discipline returns the scheduling discipline selected by the most recent
// snapshot.
func (m *Monitor) Discipline() Discipline {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.discipline
}

// ShouldAcceptTask decides admission for a task with the given priority
// admission value. Under backpressure only priorities above 0.7 are
// admitted; otherwise everything is. A false result is a deferral signal,
// not an error.
func (m *Monitor) ShouldAcceptTask(admissionValue float64) bool {
	if !m.Snapshot().ShouldApplyBackpressure() {
		return true
	}
	return admissionValue > backpressureAdmissionFloor
}

// pruneLocked drops records older than the window. Caller must hold m.mu.
func (m *Monitor) pruneLocked() {
	cutoff := m.now().Add(-m.window)

	i := 0
	for i < len(m.arrivals) && m.arrivals[i].Before(cutoff) {
		i++
	}
	m.arrivals = m.arrivals[i:]

	j := 0
	for j < len(m.completions) && m.completions[j].at.Before(cutoff) {
		j++
	}
	m.completions = m.completions[j:]
}
