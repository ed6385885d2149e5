package arraybench

import (
	"github.com/hupe1980/arraybench/buffer"
	"github.com/hupe1980/arraybench/resource"
)

// DefaultElementCount is the buffer length used when none is configured.
const DefaultElementCount = 10_000_000

type options struct {
	elementCount     int
	fill             buffer.FillFunc
	outputDir        string
	sink             ReportSink
	logger           *Logger
	metricsCollector MetricsCollector
	resources        *resource.Controller
	keepArtifacts    bool
	observer         StateObserver
}

func defaultOptions() options {
	return options{
		elementCount:     DefaultElementCount,
		fill:             buffer.Integers(1),
		outputDir:        ".",
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		keepArtifacts:    true,
	}
}

// Option configures a Runner.
type Option func(*options)

// WithElementCount sets the number of float64 elements in the shared buffer.
// Zero is valid and benchmarks empty files. Negative values are ignored.
func WithElementCount(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.elementCount = n
		}
	}
}

// WithFill sets the generator used to populate the shared buffer.
//
// If nil is passed, buffer.Integers(1) is used.
func WithFill(fill buffer.FillFunc) Option {
	return func(o *options) {
		if fill == nil {
			fill = buffer.Integers(1)
		}
		o.fill = fill
	}
}

// WithOutputDir sets the directory codec output files are written to.
// It is created on Run if missing.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.outputDir = dir
		}
	}
}

// WithSink sets the destination of timings and failures.
func WithSink(sink ReportSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithLogger sets the logger.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
//
// If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResourceController bounds the memory reserved for buffers.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithKeepArtifacts controls whether codec output files are left on disk
// after the run. The default is true.
func WithKeepArtifacts(keep bool) Option {
	return func(o *options) {
		o.keepArtifacts = keep
	}
}

// WithStateObserver registers a callback for state transitions.
func WithStateObserver(fn StateObserver) Option {
	return func(o *options) {
		o.observer = fn
	}
}
