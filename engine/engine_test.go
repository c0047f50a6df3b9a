package engine

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gamebase/engine/core"
)

func newGame(update Update) *Game {
	return &Game{
		ApplicationConfig: &ApplicationConfig{Name: "test", LogLevel: core.ErrorLevel, TickRate: 200},
		FnUpdate:          update,
	}
}

func TestEngineRunsUntilQuitEvent(t *testing.T) {
	var ticks int
	var initialized, shutdown bool
	g := newGame(func(delta float64) error {
		ticks++
		assert.GreaterOrEqual(t, delta, 0.0)
		if ticks == 3 {
			core.EventFire(core.EVENT_CODE_APPLICATION_QUIT, nil, core.EventContext{})
		}
		return nil
	})
	g.FnInitialize = func() error { initialized = true; return nil }
	g.FnShutdown = func() error { shutdown = true; return nil }

	e, err := New(g)
	require.NoError(t, err)
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	require.NoError(t, e.Initialize())
	assert.True(t, initialized)
	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Error(t, e.Initialize())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Run(ctx))
	assert.Equal(t, 3, ticks)
	assert.Equal(t, uint64(3), e.Ticks())

	require.NoError(t, e.Shutdown())
	assert.True(t, shutdown)
	assert.Equal(t, EngineStageShutdown, e.Stage())
	require.NoError(t, e.Shutdown())
}

func TestEngineStopsOnContext(t *testing.T) {
	e, err := New(newGame(func(float64) error { return nil }))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	require.NoError(t, e.Run(ctx))
}

func TestEngineUpdateFailure(t *testing.T) {
	boom := errors.New("boom")
	e, err := New(newGame(func(float64) error { return boom }))
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	err = e.Run(context.Background())
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, uint64(0), e.Ticks())
}

func TestEngineRequiresUpdate(t *testing.T) {
	_, err := New(&Game{ApplicationConfig: &ApplicationConfig{Name: "x"}})
	assert.Error(t, err)
	_, err = New(nil)
	assert.Error(t, err)

	e, err := New(newGame(func(float64) error { return nil }))
	require.NoError(t, err)
	assert.Error(t, e.Run(context.Background()))
}
