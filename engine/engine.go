package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/gamebase/engine/core"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has shut down
	EngineStageShutdown
)

func (s Stage) String() string {
	switch s {
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	case EngineStageShutdown:
		return "shutdown"
	}
	return "uninitialized"
}

// Engine runs a Game at a fixed tick rate until it is asked to quit.
type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    atomic.Bool
	clock        *core.Clock
	lastTime     time.Duration
	ticks        uint64
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, errors.New("game and application config are required")
	}
	if g.FnUpdate == nil {
		return nil, errors.Newf("game %s has no update function", g.ApplicationConfig.Name)
	}
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Ticks returns the number of completed update ticks.
func (e *Engine) Ticks() uint64 {
	return e.ticks
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return errors.Newf("engine can't be initialized in stage %s", e.currentStage)
	}
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig
	core.SetLogLevel(config.LogLevel)

	if !core.EventInitialize() {
		return errors.New("failed to initialize the event system")
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return errors.Wrapf(err, "can't initialize %s", config.Name)
		}
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized", config.Name)
	return nil
}

// Run ticks the game until an EVENT_CODE_APPLICATION_QUIT event, ctx
// cancellation or a failed update.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return errors.Newf("engine can't run in stage %s", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	rate := e.gameInstance.ApplicationConfig.TickRate
	if rate == 0 {
		rate = DefaultTickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	e.clock.Start()
	e.lastTime = 0

	for e.isRunning.Load() {
		select {
		case <-ctx.Done():
			e.isRunning.Store(false)
		case <-ticker.C:
			e.clock.Update()
			currentTime := e.clock.Elapsed()
			delta := (currentTime - e.lastTime).Seconds()

			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down: %s", err.Error())
				e.isRunning.Store(false)
				e.clock.Stop()
				return err
			}
			e.ticks++
			e.lastTime = currentTime
		}
	}
	e.clock.Stop()
	return nil
}

// Quit stops the loop after the current tick.
func (e *Engine) Quit() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning.Store(false)

	var err error
	if e.gameInstance.FnShutdown != nil {
		err = e.gameInstance.FnShutdown()
	}
	core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	if shutdownErr := core.EventShutdown(); shutdownErr != nil {
		err = errors.CombineErrors(err, shutdownErr)
	}
	e.currentStage = EngineStageShutdown
	return err
}

func (e *Engine) onEvent(code core.SystemEventCode, sender interface{}, listener interface{}, data core.EventContext) bool {
	switch code {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}
