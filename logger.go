package arraybench

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with benchmark-specific helpers so every message
// uses the same field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// WithRunID tags every message with a run ID.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{Logger: l.Logger.With("run_id", id)}
}

// WithCodec tags every message with a codec name.
func (l *Logger) WithCodec(name string) *Logger {
	return &Logger{Logger: l.Logger.With("codec", name)}
}

// LogPhase logs a completed or failed phase. The codec is expected to be
// attached through WithCodec.
func (l *Logger) LogPhase(ctx context.Context, phase Phase, elapsed time.Duration, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "phase failed",
			"phase", phase,
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "phase completed",
		"phase", phase,
		"elapsed", elapsed,
		"bytes", bytes,
	)
}

// LogFailure logs a recorded failure on a codec-tagged logger.
func (l *Logger) LogFailure(ctx context.Context, f Failure) {
	l.WarnContext(ctx, "codec failed",
		"phase", f.Phase,
		"kind", f.Kind(),
		"error", f.Err,
	)
}

// LogRun logs the outcome of a run on a logger tagged by WithRunID.
func (l *Logger) LogRun(ctx context.Context, rep *Report) {
	elapsed := rep.Finished.Sub(rep.Started)
	if len(rep.Failures) > 0 {
		l.WarnContext(ctx, "run completed with failures",
			"elements", rep.ElementCount,
			"records", len(rep.Records),
			"failed", len(rep.Failures),
			"elapsed", elapsed,
		)
		return
	}
	l.InfoContext(ctx, "run completed",
		"elements", rep.ElementCount,
		"records", len(rep.Records),
		"elapsed", elapsed,
	)
}

// LogPublish logs an artifact upload.
func (l *Logger) LogPublish(ctx context.Context, name string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "publish failed",
			"object", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "published",
		"object", name,
		"bytes", bytes,
	)
}
