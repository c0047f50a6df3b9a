package engine

// Game is the application driven by the engine loop.
type Game struct {
	ApplicationConfig *ApplicationConfig
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Shutdown func() error
