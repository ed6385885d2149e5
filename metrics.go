package arraybench

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives per-phase measurements as a run progresses.
// Implement it to feed monitoring systems; see package metric for Prometheus.
type MetricsCollector interface {
	// RecordPhase is called after every write, read and validate phase.
	// err is nil if the phase succeeded.
	RecordPhase(codec string, phase Phase, elapsed time.Duration, bytes int64, err error)

	// RecordRun is called once per completed run.
	RecordRun(elapsed time.Duration, failures int)
}

// NoopMetricsCollector discards all measurements.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPhase(string, Phase, time.Duration, int64, error) {}
func (NoopMetricsCollector) RecordRun(time.Duration, int)                           {}

// BasicMetricsCollector keeps in-memory counters across all codecs.
type BasicMetricsCollector struct {
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	WriteBytes      atomic.Int64
	WriteTotalNanos atomic.Int64
	ReadCount       atomic.Int64
	ReadErrors      atomic.Int64
	ReadBytes       atomic.Int64
	ReadTotalNanos  atomic.Int64
	ValidateCount   atomic.Int64
	ValidateErrors  atomic.Int64
	RunCount        atomic.Int64
	RunFailures     atomic.Int64
}

// RecordPhase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPhase(_ string, phase Phase, elapsed time.Duration, bytes int64, err error) {
	switch phase {
	case PhaseWrite:
		b.WriteCount.Add(1)
		b.WriteBytes.Add(bytes)
		b.WriteTotalNanos.Add(elapsed.Nanoseconds())
		if err != nil {
			b.WriteErrors.Add(1)
		}
	case PhaseRead:
		b.ReadCount.Add(1)
		b.ReadBytes.Add(bytes)
		b.ReadTotalNanos.Add(elapsed.Nanoseconds())
		if err != nil {
			b.ReadErrors.Add(1)
		}
	case PhaseValidate:
		b.ValidateCount.Add(1)
		if err != nil {
			b.ValidateErrors.Add(1)
		}
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ time.Duration, failures int) {
	b.RunCount.Add(1)
	b.RunFailures.Add(int64(failures))
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	WriteCount     int64
	WriteErrors    int64
	WriteBytes     int64
	WriteAvgNanos  int64
	ReadCount      int64
	ReadErrors     int64
	ReadBytes      int64
	ReadAvgNanos   int64
	ValidateCount  int64
	ValidateErrors int64
	RunCount       int64
	RunFailures    int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		WriteCount:     b.WriteCount.Load(),
		WriteErrors:    b.WriteErrors.Load(),
		WriteBytes:     b.WriteBytes.Load(),
		WriteAvgNanos:  avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		ReadCount:      b.ReadCount.Load(),
		ReadErrors:     b.ReadErrors.Load(),
		ReadBytes:      b.ReadBytes.Load(),
		ReadAvgNanos:   avg(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		ValidateCount:  b.ValidateCount.Load(),
		ValidateErrors: b.ValidateErrors.Load(),
		RunCount:       b.RunCount.Load(),
		RunFailures:    b.RunFailures.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}
