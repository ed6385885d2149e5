package arraybench

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/arraybench/buffer"
	"github.com/hupe1980/arraybench/codec"
	"github.com/hupe1980/arraybench/persistence"
	"github.com/hupe1980/arraybench/stopwatch"
)

// Runner benchmarks a fixed list of codecs against one shared buffer.
type Runner struct {
	codecs []codec.Codec
	opts   options

	busy  atomic.Bool
	state atomic.Int32
}

// NewRunner creates a runner for codecs, which are benchmarked in order.
func NewRunner(codecs []codec.Codec, opts ...Option) (*Runner, error) {
	if len(codecs) == 0 {
		return nil, ErrNoCodecs
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Runner{
		codecs: append([]codec.Codec(nil), codecs...),
		opts:   o,
	}, nil
}

// State returns the current state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Codecs returns the codecs in benchmark order.
func (r *Runner) Codecs() []codec.Codec {
	return append([]codec.Codec(nil), r.codecs...)
}

// OutputPath returns the file a codec writes to.
func (r *Runner) OutputPath(c codec.Codec) string {
	return filepath.Join(r.opts.outputDir, "file."+c.Extension())
}

// Run executes one benchmark pass over every codec.
//
// Only fatal conditions return an error: the output directory cannot be
// created or the buffer does not fit the memory budget. A codec that fails
// is recorded in the report and the next codec runs. ctx is not consulted
// during measured phases.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer r.busy.Store(false)

	rep := &Report{
		RunID:        uuid.New(),
		ElementCount: r.opts.elementCount,
		Started:      time.Now(),
	}
	log := r.opts.logger.WithRunID(rep.RunID.String())

	r.transition("", StatePreparing)
	src, release, err := r.prepare()
	if err != nil {
		log.ErrorContext(ctx, "prepare failed", "error", err)
		r.transition("", StateIdle)
		return nil, err
	}
	defer release()

	var outputs []string
	for _, c := range r.codecs {
		path := r.OutputPath(c)
		outputs = append(outputs, path)
		r.benchmark(ctx, log, rep, src, c, path)
	}

	r.transition("", StateReporting)
	rep.Finished = time.Now()
	r.report(ctx, log, rep)

	if !r.opts.keepArtifacts {
		for _, path := range outputs {
			if err := persistence.RemoveStale(path); err != nil {
				log.WarnContext(ctx, "remove artifact", "path", path, "error", err)
			}
		}
		rep.Artifacts = nil
	}

	r.opts.metricsCollector.RecordRun(rep.Finished.Sub(rep.Started), len(rep.Failures))
	log.LogRun(ctx, rep)
	r.transition("", StateIdle)

	return rep, nil
}

// prepare creates the output directory and the shared buffer. The memory
// reservation covers the source and one decoded buffer.
func (r *Runner) prepare() (*buffer.Buffer, func(), error) {
	if err := os.MkdirAll(r.opts.outputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrOutputDir, r.opts.outputDir, err)
	}

	reserve := 2 * int64(r.opts.elementCount) * buffer.ElementWidth
	if err := r.opts.resources.ReserveMemory(reserve); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBufferAllocation, err)
	}
	release := func() { r.opts.resources.ReleaseMemory(reserve) }

	src, err := buffer.New(r.opts.elementCount, r.opts.fill)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("%w: %w", ErrBufferAllocation, err)
	}
	return src, release, nil
}

func (r *Runner) benchmark(ctx context.Context, log *Logger, rep *Report, src *buffer.Buffer, c codec.Codec, path string) {
	desc := c.Descriptor()
	name := desc.Name
	log = log.WithCodec(name)
	r.transition(name, StateWriting)

	if err := persistence.RemoveStale(path); err != nil {
		r.fail(ctx, log, rep, name, PhaseWrite, fmt.Errorf("%w: remove stale output: %w", ErrIO, err))
		return
	}

	var wrote codec.Outcome
	elapsed, err := stopwatch.Time(func() error {
		var werr error
		wrote, werr = c.Write(src, path)
		return werr
	})
	r.opts.metricsCollector.RecordPhase(name, PhaseWrite, elapsed, wrote.Bytes, err)
	log.LogPhase(ctx, PhaseWrite, elapsed, wrote.Bytes, err)
	if err != nil {
		r.fail(ctx, log, rep, name, PhaseWrite, err)
		return
	}
	rep.Records = append(rep.Records, TimingRecord{Codec: name, Phase: PhaseWrite, Elapsed: elapsed, Bytes: wrote.Bytes})
	rep.Artifacts = append(rep.Artifacts, Artifact{Codec: name, Path: path, Bytes: wrote.Bytes})
	r.transition(name, StateWritten)

	r.transition(name, StateReading)
	n := src.Len()
	if desc.SelfDescribing {
		n = -1
	}

	var (
		got  *buffer.Buffer
		read codec.Outcome
	)
	elapsed, err = stopwatch.Time(func() error {
		var rerr error
		got, read, rerr = c.Read(path, n)
		return rerr
	})
	r.opts.metricsCollector.RecordPhase(name, PhaseRead, elapsed, read.Bytes, err)
	log.LogPhase(ctx, PhaseRead, elapsed, read.Bytes, err)
	if err != nil {
		r.fail(ctx, log, rep, name, PhaseRead, err)
		return
	}
	rep.Records = append(rep.Records, TimingRecord{Codec: name, Phase: PhaseRead, Elapsed: elapsed, Bytes: read.Bytes})

	mm := buffer.Compare(src, got, desc.Fidelity)
	if !mm.OK() {
		err = &FidelityError{Codec: name, Fidelity: desc.Fidelity, Mismatch: mm}
	}
	r.opts.metricsCollector.RecordPhase(name, PhaseValidate, 0, 0, err)
	if err != nil {
		r.fail(ctx, log, rep, name, PhaseValidate, err)
		return
	}
	r.transition(name, StateValidated)
}

func (r *Runner) fail(ctx context.Context, log *Logger, rep *Report, name string, phase Phase, err error) {
	f := Failure{Codec: name, Phase: phase, Err: err}
	rep.Failures = append(rep.Failures, f)
	log.LogFailure(ctx, f)
	r.transition(name, StateFailed)
}

func (r *Runner) report(ctx context.Context, log *Logger, rep *Report) {
	sink := r.opts.sink
	if sink == nil {
		return
	}
	if err := sink.Timings(ctx, rep.Records); err != nil {
		log.ErrorContext(ctx, "report timings", "error", err)
	}
	if err := sink.Failures(ctx, rep.Failures); err != nil {
		log.ErrorContext(ctx, "report failures", "error", err)
	}
}

func (r *Runner) transition(name string, to State) {
	from := State(r.state.Swap(int32(to)))
	if r.opts.observer != nil {
		r.opts.observer(Transition{Codec: name, From: from, To: to})
	}
}
