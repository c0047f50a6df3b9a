package testbed

import (
	"github.com/spaghettifunk/gamebase/editor"
	"github.com/spaghettifunk/gamebase/engine"
	"github.com/spaghettifunk/gamebase/engine/core"
)

// EditorGame runs an editor inside the engine loop. With watching enabled
// in the settings every tick picks up changes of the design file.
type EditorGame struct {
	*engine.Game
	editor *editor.Editor
	design string
}

func NewEditorGame(ed *editor.Editor, design string, logLevel core.LogLevel) *EditorGame {
	g := &EditorGame{
		Game: &engine.Game{
			ApplicationConfig: &engine.ApplicationConfig{
				Name:     "Gamebase Editor",
				LogLevel: logLevel,
				TickRate: 10,
			},
		},
		editor: ed,
		design: design,
	}
	g.State = ed
	g.FnInitialize = g.Initialize
	g.FnUpdate = g.Update
	g.FnShutdown = g.Shutdown
	return g
}

func (g *EditorGame) Initialize() error {
	core.LogInfo("loading %s...", g.design)
	if err := g.editor.Load(g.design); err != nil {
		return err
	}
	if !g.editor.Settings().Watch {
		return nil
	}
	return g.editor.Watch(g.design)
}

func (g *EditorGame) Update(deltaTime float64) error {
	return g.editor.ProcessEvents()
}

func (g *EditorGame) Shutdown() error {
	core.LogInfo("stopping editor session %s", g.editor.Session())
	return g.editor.Close()
}
