package arraybench

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	var mc BasicMetricsCollector

	mc.RecordPhase("raw", PhaseWrite, 10*time.Millisecond, 80, nil)
	mc.RecordPhase("raw", PhaseWrite, 30*time.Millisecond, 80, errors.New("boom"))
	mc.RecordPhase("raw", PhaseRead, 4*time.Millisecond, 80, nil)
	mc.RecordPhase("raw", PhaseValidate, 0, 0, nil)
	mc.RecordRun(time.Second, 1)

	s := mc.GetStats()
	assert.Equal(t, int64(2), s.WriteCount)
	assert.Equal(t, int64(1), s.WriteErrors)
	assert.Equal(t, int64(160), s.WriteBytes)
	assert.Equal(t, (20 * time.Millisecond).Nanoseconds(), s.WriteAvgNanos)
	assert.Equal(t, int64(1), s.ReadCount)
	assert.Equal(t, (4 * time.Millisecond).Nanoseconds(), s.ReadAvgNanos)
	assert.Equal(t, int64(1), s.ValidateCount)
	assert.Zero(t, s.ValidateErrors)
	assert.Equal(t, int64(1), s.RunFailures)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	var mc BasicMetricsCollector
	s := mc.GetStats()
	assert.Zero(t, s.WriteAvgNanos)
	assert.Zero(t, s.ReadAvgNanos)
}
