package arraybench

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LogPhase(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONLogger(&buf, slog.LevelDebug).WithRunID("run-1").WithCodec("raw")

	l.LogPhase(context.Background(), PhaseWrite, time.Millisecond, 64, nil)

	var entry map[string]any
	require.NoError(t, gojson.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "phase completed", entry["msg"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "raw", entry["codec"])
	assert.Equal(t, "write", entry["phase"])
	assert.EqualValues(t, 64, entry["bytes"])
}

func TestLogger_LogFailure(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf, slog.LevelInfo).WithCodec("text")

	l.LogFailure(context.Background(), Failure{Codec: "text", Phase: PhaseRead, Err: errors.Join(ErrDecode, errors.New("bad token"))})

	out := buf.String()
	assert.Contains(t, out, "codec failed")
	assert.Contains(t, out, "kind=decode")
	assert.Equal(t, 1, strings.Count(out, "codec=text"))
}

func TestLogger_LogRun(t *testing.T) {
	var buf bytes.Buffer
	id := uuid.New()
	l := NewTextLogger(&buf, slog.LevelInfo).WithRunID(id.String())

	start := time.Now()
	l.LogRun(context.Background(), &Report{RunID: id, ElementCount: 5, Started: start, Finished: start.Add(time.Second)})

	out := buf.String()
	assert.Contains(t, out, "run completed")
	assert.Equal(t, 1, strings.Count(out, "run_id="))
	assert.Contains(t, out, "run_id="+id.String())
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
