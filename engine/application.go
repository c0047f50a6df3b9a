package engine

import "github.com/spaghettifunk/gamebase/engine/core"

type ApplicationConfig struct {
	// The application name used in logs.
	Name     string
	LogLevel core.LogLevel
	// Update ticks per second. Zero means DefaultTickRate.
	TickRate uint32
}

const DefaultTickRate uint32 = 30
