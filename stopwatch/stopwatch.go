// Package stopwatch measures elapsed wall-clock time for a single benchmark phase.
//
// Readings come from time.Now, which carries Go's monotonic clock, so the
// measured interval is immune to wall-clock adjustments. A Stopwatch is not
// safe for concurrent use; each phase takes its own instance.
package stopwatch

import "time"

// Stopwatch records a start instant and computes the elapsed duration on Stop.
type Stopwatch struct {
	start   time.Time
	elapsed time.Duration
	running bool
}

// New returns a stopped Stopwatch.
func New() *Stopwatch {
	return &Stopwatch{}
}

// Start records the current monotonic instant. Calling Start on a running
// Stopwatch restarts the measurement.
func (s *Stopwatch) Start() {
	s.start = time.Now()
	s.running = true
}

// Stop records a second instant, stores the elapsed duration and returns it.
// Stop on a stopwatch that was never started returns 0.
func (s *Stopwatch) Stop() time.Duration {
	if !s.running {
		return s.elapsed
	}
	s.elapsed = time.Since(s.start)
	s.running = false
	return s.elapsed
}

// Elapsed returns the duration computed by the last Stop.
func (s *Stopwatch) Elapsed() time.Duration {
	return s.elapsed
}

// Running reports whether Start was called without a matching Stop.
func (s *Stopwatch) Running() bool {
	return s.running
}

// Time runs fn between Start and Stop on a fresh Stopwatch.
// The duration is returned even when fn fails.
func Time(fn func() error) (time.Duration, error) {
	sw := New()
	sw.Start()
	err := fn()
	return sw.Stop(), err
}
