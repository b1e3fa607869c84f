package ambient_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/myrjola/gumshoe/internal/ambient"
	"github.com/stretchr/testify/require"
)

func TestPulse_firesWhileArmed(t *testing.T) {
	var fires atomic.Int64
	pulse := ambient.NewPulse(time.Millisecond, func() {
		fires.Add(1)
	})
	t.Cleanup(pulse.Disarm)

	require.False(t, pulse.Armed())
	pulse.Arm()
	require.True(t, pulse.Armed())

	require.Eventually(t, func() bool {
		return fires.Load() >= 3
	}, time.Second, time.Millisecond, "pulse did not fire while armed")
}

func TestPulse_silentWhenDisarmed(t *testing.T) {
	var fires atomic.Int64
	pulse := ambient.NewPulse(time.Millisecond, func() {
		fires.Add(1)
	})

	pulse.Arm()
	require.Eventually(t, func() bool {
		return fires.Load() >= 1
	}, time.Second, time.Millisecond)

	pulse.Disarm()
	require.False(t, pulse.Armed())
	count := fires.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, count, fires.Load(), "pulse fired after disarm")
}

func TestPulse_armIsIdempotent(t *testing.T) {
	var fires atomic.Int64
	pulse := ambient.NewPulse(time.Millisecond, func() {
		fires.Add(1)
	})
	t.Cleanup(pulse.Disarm)

	pulse.Arm()
	pulse.Arm()
	pulse.Disarm()
	pulse.Disarm()
	require.False(t, pulse.Armed())

	// A fresh arm after the double disarm still works.
	pulse.Arm()
	require.Eventually(t, func() bool {
		return fires.Load() >= 1
	}, time.Second, time.Millisecond)
}
