package arraybench

import (
	"fmt"
	"testing"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraybench/buffer"
	"github.com/hupe1980/arraybench/codec"
)

func TestTimingRecord_Throughput(t *testing.T) {
	r := TimingRecord{Elapsed: 2 * time.Second, Bytes: 80_000_000}
	assert.InDelta(t, 40.0, r.Throughput(), 1e-9)

	assert.Zero(t, TimingRecord{Bytes: 10}.Throughput())
}

func TestFailure_Kind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrapped: %w", ErrIO), "io"},
		{&codec.Error{Codec: "raw", Op: "write", Err: ErrEncode}, "encode"},
		{fmt.Errorf("x: %w", ErrDecode), "decode"},
		{&FidelityError{Codec: "text"}, "fidelity"},
		{fmt.Errorf("other"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Failure{Err: tt.err}.Kind())
	}
}

func TestFailure_String(t *testing.T) {
	f := Failure{Codec: "raw", Phase: PhaseRead, Err: fmt.Errorf("%w: short file", ErrDecode)}
	assert.Equal(t, "codec raw failed at phase read: reason decode failure: short file", f.String())
}

func TestFailure_MarshalJSON(t *testing.T) {
	f := Failure{Codec: "text", Phase: PhaseWrite, Err: fmt.Errorf("%w: disk full", ErrEncode)}
	data, err := gojson.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"codec":"text","phase":"write","kind":"encode","reason":"encode failure: disk full"}`, string(data))
}

func TestFidelityError(t *testing.T) {
	want := buffer.FromValues([]float64{1, 2, 3})
	got := buffer.FromValues([]float64{1, 2.5, 3})
	err := &FidelityError{Codec: "text", Fidelity: buffer.ExactFidelity, Mismatch: buffer.Compare(want, got, buffer.ExactFidelity)}

	assert.ErrorIs(t, err, ErrFidelity)
	assert.Contains(t, err.Error(), "fidelity failure")
	assert.Contains(t, err.Error(), "exact")
}

func TestReport_Marshal(t *testing.T) {
	rep := &Report{
		ElementCount: 3,
		Records:      []TimingRecord{{Codec: "raw", Phase: PhaseWrite, Elapsed: time.Millisecond, Bytes: 24}},
		Failures:     []Failure{{Codec: "text", Phase: PhaseRead, Err: ErrDecode}},
	}
	data, err := rep.Marshal()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, gojson.Unmarshal(data, &decoded))
	assert.EqualValues(t, 3, decoded["element_count"])
	records := decoded["records"].([]any)
	assert.EqualValues(t, 1_000_000, records[0].(map[string]any)["elapsed_ns"])
	failures := decoded["failures"].([]any)
	assert.Equal(t, "decode", failures[0].(map[string]any)["kind"])
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "validated", StateValidated.String())
	assert.Equal(t, "reporting", StateReporting.String())
	assert.Equal(t, "State(42)", State(42).String())
}
