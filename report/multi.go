package report

import (
	"context"
	"errors"

	"github.com/hupe1980/arraybench"
)

// Multi forwards every call to all sinks. A failing sink does not stop the
// others; the errors are joined.
type Multi []arraybench.ReportSink

// Timings implements arraybench.ReportSink.
func (m Multi) Timings(ctx context.Context, records []arraybench.TimingRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.Timings(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Failures implements arraybench.ReportSink.
func (m Multi) Failures(ctx context.Context, failures []arraybench.Failure) error {
	var errs []error
	for _, s := range m {
		if err := s.Failures(ctx, failures); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
