// Package arraybench benchmarks persistence strategies for large float64 arrays.
//
// A Runner builds one randomized buffer, then writes and reads it through every
// configured codec in turn, timing each phase with a fresh stopwatch and
// checking the decoded data against the original under the codec's declared
// fidelity. Per-codec failures are recorded and never stop the run.
//
// # Quick Start
//
//	reg := codec.Defaults(codec.Config{})
//	r, _ := arraybench.NewRunner(reg.Codecs(),
//	    arraybench.WithElementCount(10_000_000),
//	    arraybench.WithOutputDir("./out"),
//	    arraybench.WithSink(report.NewText(os.Stdout)),
//	)
//	rep, err := r.Run(ctx)
//
// # Codecs
//
//   - text: one decimal value per line, 6 significant digits by default
//   - raw: native-endian float64 bytes, no header
//   - self-describing: a hierarchical container recording its own shape
//
// # State Machine
//
// Run moves through Idle, Preparing, then per codec Writing, Written, Reading
// and Validated (or Failed), then Reporting and back to Idle. Observe the
// transitions with WithStateObserver.
//
// # Publishing
//
// Publish uploads a finished run's artifacts and its JSON report to a
// blobstore.Store (local directory, MinIO or S3).
//
// # Concurrency
//
// The measured path is strictly sequential. A Runner executes one Run at a time.
package arraybench
