package arraybench

import (
	"context"
	"fmt"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Phase is a step of a codec's round trip.
type Phase string

const (
	PhaseWrite    Phase = "write"
	PhaseRead     Phase = "read"
	PhaseValidate Phase = "validate"
)

// TimingRecord is the measurement of one write or read phase.
type TimingRecord struct {
	Codec   string        `json:"codec"`
	Phase   Phase         `json:"phase"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Bytes   int64         `json:"bytes"`
}

// Throughput returns the phase throughput in MB/s (10^6 bytes per second).
func (r TimingRecord) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Bytes) / 1e6 / r.Elapsed.Seconds()
}

// Failure records a codec that failed at some phase.
type Failure struct {
	Codec string
	Phase Phase
	Err   error
}

// Kind returns "io", "encode", "decode" or "fidelity".
func (f Failure) Kind() string {
	return kindOf(f.Err)
}

func (f Failure) String() string {
	return fmt.Sprintf("codec %s failed at phase %s: reason %v", f.Codec, f.Phase, f.Err)
}

// MarshalJSON renders the error as its kind and message.
func (f Failure) MarshalJSON() ([]byte, error) {
	reason := ""
	if f.Err != nil {
		reason = f.Err.Error()
	}
	return gojson.Marshal(struct {
		Codec  string `json:"codec"`
		Phase  Phase  `json:"phase"`
		Kind   string `json:"kind"`
		Reason string `json:"reason"`
	}{f.Codec, f.Phase, f.Kind(), reason})
}

// Artifact is a codec output file left on disk after a run.
type Artifact struct {
	Codec string `json:"codec"`
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

// Report is the result of one Run.
type Report struct {
	RunID        uuid.UUID      `json:"run_id"`
	ElementCount int            `json:"element_count"`
	Records      []TimingRecord `json:"records"`
	Failures     []Failure      `json:"failures"`
	Artifacts    []Artifact     `json:"artifacts"`
	Started      time.Time      `json:"started"`
	Finished     time.Time      `json:"finished"`
}

// OK reports whether every codec completed its round trip.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// Failed reports whether the named codec recorded a failure.
func (r *Report) Failed(codec string) bool {
	for _, f := range r.Failures {
		if f.Codec == codec {
			return true
		}
	}
	return false
}

// Marshal encodes the report as indented JSON.
func (r *Report) Marshal() ([]byte, error) {
	return gojson.MarshalIndent(r, "", "  ")
}

// ReportSink consumes the results of a run. Records arrive in execution order.
type ReportSink interface {
	Timings(ctx context.Context, records []TimingRecord) error
	Failures(ctx context.Context, failures []Failure) error
}
