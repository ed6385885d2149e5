package report

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hupe1980/arraybench"
)

// Text writes timings as an aligned table and failures one per line.
type Text struct {
	w io.Writer
}

// NewText returns a Text sink writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Timings implements arraybench.ReportSink.
func (t *Text) Timings(_ context.Context, records []arraybench.TimingRecord) error {
	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CODEC\tPHASE\tSECONDS\tBYTES\tMB/s\t")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%.6f\t%d\t%.2f\t\n",
			r.Codec, r.Phase, r.Elapsed.Seconds(), r.Bytes, r.Throughput())
	}
	return tw.Flush()
}

// Failures implements arraybench.ReportSink.
func (t *Text) Failures(_ context.Context, failures []arraybench.Failure) error {
	for _, f := range failures {
		if _, err := fmt.Fprintln(t.w, f.String()); err != nil {
			return err
		}
	}
	return nil
}
