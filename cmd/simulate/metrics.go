package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Outcome classifies one simulated call.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeConflict
	OutcomeError
)

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, outcome Outcome) {
	atomic.AddInt64(&om.Total, 1)
	switch outcome {
	case OutcomeSuccess:
		atomic.AddInt64(&om.Success, 1)
	case OutcomeConflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.latencies = append(om.latencies, latency)
	om.mu.Unlock()
}

// LatencyStats summarises recorded latencies.
type LatencyStats struct {
	Avg, Min, Max, P50, P95 time.Duration
}

func (om *OperationMetrics) Stats() LatencyStats {
	om.mu.Lock()
	latencies := make([]time.Duration, len(om.latencies))
	copy(latencies, om.latencies)
	om.mu.Unlock()

	if len(latencies) == 0 {
		return LatencyStats{}
	}

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	return LatencyStats{
		Avg: sum / time.Duration(len(latencies)),
		Min: latencies[0],
		Max: latencies[len(latencies)-1],
		P50: percentile(latencies, 50),
		P95: percentile(latencies, 95),
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

type Metrics struct {
	Booking    OperationMetrics
	Cancel     OperationMetrics
	Attend     OperationMetrics
	ReadByID   OperationMetrics
	ListByDate OperationMetrics
}

func writeReport(w io.Writer, cfg SimConfig, m *Metrics) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 80))
	fmt.Fprintln(w, "SIMULATION REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "Duration: %s\n", cfg.Duration)
	fmt.Fprintf(w, "Workers: %d\n", cfg.Workers)
	fmt.Fprintln(w)

	writeOperation(w, "Booking", &m.Booking)
	writeOperation(w, "Cancel", &m.Cancel)
	writeOperation(w, "Attend", &m.Attend)
	writeOperation(w, "Read by ID", &m.ReadByID)
	writeOperation(w, "List by date", &m.ListByDate)
}

func writeOperation(w io.Writer, name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	errs := atomic.LoadInt64(&om.Error)
	st := om.Stats()

	fmt.Fprintf(w, "%s:\n", name)
	fmt.Fprintf(w, "  Total: %d\n", total)
	fmt.Fprintf(w, "  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Fprintf(w, "  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if errs > 0 {
		fmt.Fprintf(w, "  Errors: %d (%.1f%%)\n", errs, float64(errs)/float64(total)*100)
	}
	fmt.Fprintf(w, "  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		st.Avg.Round(time.Millisecond), st.Min.Round(time.Millisecond), st.Max.Round(time.Millisecond),
		st.P50.Round(time.Millisecond), st.P95.Round(time.Millisecond))
	fmt.Fprintln(w)
}
