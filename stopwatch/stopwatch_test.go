package stopwatch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopwatch_StartStop(t *testing.T) {
	sw := New()
	assert.False(t, sw.Running())

	sw.Start()
	assert.True(t, sw.Running())
	time.Sleep(5 * time.Millisecond)

	d := sw.Stop()
	assert.False(t, sw.Running())
	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	assert.Equal(t, d, sw.Elapsed())
}

func TestStopwatch_StopWithoutStart(t *testing.T) {
	sw := New()
	assert.Equal(t, time.Duration(0), sw.Stop())
	assert.Equal(t, time.Duration(0), sw.Elapsed())
}

func TestStopwatch_StopTwiceKeepsFirstReading(t *testing.T) {
	sw := New()
	sw.Start()
	first := sw.Stop()
	time.Sleep(2 * time.Millisecond)
	assert.Equal(t, first, sw.Stop())
}

func TestTime(t *testing.T) {
	boom := errors.New("boom")

	d, err := Time(func() error {
		time.Sleep(time.Millisecond)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Positive(t, d)
}
