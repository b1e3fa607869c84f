package session_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/myrjola/gumshoe/internal/ambient"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/session"
	"github.com/myrjola/gumshoe/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Get(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	factory := func() *session.Controller {
		return session.NewController(&fakeGenerator{newCase: testCase()}, logger)
	}
	registry := session.NewRegistry(factory, time.Hour, logger)

	first := registry.Get("alpha")
	require.NotNil(t, first)
	require.Same(t, first, registry.Get("alpha"), "same session ID must map to the same controller")
	require.NotSame(t, first, registry.Get("beta"))
	require.Equal(t, 2, registry.Len())
}

func TestRegistry_expiresIdleSessions(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	factory := func() *session.Controller {
		return session.NewController(&fakeGenerator{newCase: testCase()}, logger)
	}
	registry := session.NewRegistry(factory, 10*time.Millisecond, logger)
	go registry.Start(5 * time.Millisecond)
	t.Cleanup(registry.Stop)

	registry.Get("alpha")
	require.Equal(t, 1, registry.Len())

	require.Eventually(t, func() bool {
		return registry.Len() == 0
	}, time.Second, 5*time.Millisecond, "idle session was not expired")
}

func TestRegistry_disarmsPulseOnExpiry(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)
	pulse := ambient.NewPulse(time.Millisecond, func() {})
	t.Cleanup(pulse.Disarm)
	factory := func() *session.Controller {
		c := session.NewController(&fakeGenerator{newCase: testCase()}, logger)
		c.AddListener(func(screen models.Screen) {
			if screen == models.ScreenInvestigating {
				pulse.Arm()
			} else {
				pulse.Disarm()
			}
		})
		return c
	}
	registry := session.NewRegistry(factory, 10*time.Millisecond, logger)
	go registry.Start(5 * time.Millisecond)
	t.Cleanup(registry.Stop)

	controller := registry.Get("alpha")
	require.NoError(t, controller.Begin(context.Background(), models.DifficultyEasy))
	require.True(t, pulse.Armed())

	// Evicting a session mid-investigation must release its pulse, not leave
	// it ticking for the life of the process.
	require.Eventually(t, func() bool {
		return registry.Len() == 0 && !pulse.Armed()
	}, time.Second, 5*time.Millisecond, "pulse still armed after the session expired")
}
