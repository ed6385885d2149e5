package report

import (
	"context"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/arraybench"
)

// JSON writes one indented JSON document per call:
// {"timings": [...]} followed by {"failures": [...]}.
type JSON struct {
	enc *gojson.Encoder
}

// NewJSON returns a JSON sink writing to w.
func NewJSON(w io.Writer) *JSON {
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &JSON{enc: enc}
}

// Timings implements arraybench.ReportSink.
func (j *JSON) Timings(_ context.Context, records []arraybench.TimingRecord) error {
	if records == nil {
		records = []arraybench.TimingRecord{}
	}
	return j.enc.Encode(struct {
		Timings []arraybench.TimingRecord `json:"timings"`
	}{records})
}

// Failures implements arraybench.ReportSink.
func (j *JSON) Failures(_ context.Context, failures []arraybench.Failure) error {
	if failures == nil {
		failures = []arraybench.Failure{}
	}
	return j.enc.Encode(struct {
		Failures []arraybench.Failure `json:"failures"`
	}{failures})
}
