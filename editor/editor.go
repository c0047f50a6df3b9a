package editor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/spaghettifunk/gamebase/engine/assets"
	"github.com/spaghettifunk/gamebase/engine/core"
	gmath "github.com/spaghettifunk/gamebase/engine/math"
	"github.com/spaghettifunk/gamebase/engine/objects"
	"github.com/spaghettifunk/gamebase/engine/reg"
	"github.com/spaghettifunk/gamebase/engine/serial"
)

// Editor owns one design: the root object, its tree view, property panels
// and the editable model they are bound to.
type Editor struct {
	session  uuid.UUID
	settings Settings
	registry *serial.Registry

	ids   *core.Identifiers
	tree  *TreeView
	menu  *PropertiesMenu
	model *DesignModel

	current   any
	path      string
	clipboard []byte

	watcher *assets.Watcher
	clock   *core.Clock
}

// New creates an empty editor. A nil registry means serial.Default().
func New(settings Settings, registry *serial.Registry) *Editor {
	if registry == nil {
		registry = serial.Default()
	}
	ids := core.NewIdentifiers(RootID + 1)
	e := &Editor{
		session:  uuid.New(),
		settings: settings,
		registry: registry,
		ids:      ids,
		tree:     NewTreeViewWithIDs(ids),
		menu:     NewPropertiesMenu(),
		model:    NewDesignModel(),
		clock:    core.NewClock(),
	}
	core.LogDebug("editor session %s started", e.session)
	return e
}

func (e *Editor) Session() uuid.UUID { return e.session }
func (e *Editor) Settings() Settings { return e.settings }
func (e *Editor) Tree() *TreeView { return e.tree }
func (e *Editor) Menu() *PropertiesMenu { return e.menu }
func (e *Editor) Model() *DesignModel { return e.model }
func (e *Editor) Current() any { return e.current }
func (e *Editor) Path() string { return e.path }
func (e *Editor) Registry() *serial.Registry { return e.registry }

// Load reads the design at path and makes it current.
func (e *Editor) Load(path string) error {
	loader := &assets.DesignLoader{}
	res, err := loader.Load(path, e.registry)
	if err != nil {
		return err
	}
	defer loader.Unload(res)
	if err := e.SetDesign(res.Data); err != nil {
		return errors.Wrapf(err, "can't show design %s", path)
	}
	e.path = path
	core.LogInfo("[%s] loaded %s (%d bytes)", e.session, path, res.DataSize)
	core.EventFire(core.EVENT_CODE_DESIGN_LOADED, e, core.EventContext{Path: path})
	return nil
}

// LoadDefault loads the configured default design, falling back to a
// small black rectangle.
func (e *Editor) LoadDefault() error {
	if path := e.settings.Resolve(e.settings.DefaultDesign); path != "" {
		err := e.Load(path)
		if err == nil {
			return nil
		}
		core.LogWarn("can't load default design: %s", err.Error())
	}
	rect := objects.NewFilledRect(gmath.NewBoundingBox(32, 32), gmath.NewColor(0, 0, 0, 1))
	return e.SetDesign(rect)
}

// SetDesign replaces the current design and rebuilds the views. On failure
// the previous design stays.
func (e *Editor) SetDesign(obj any) error {
	prev := e.current
	e.current = obj
	if err := e.Rebuild(); err != nil {
		e.current = prev
		return err
	}
	return nil
}

// Rebuild regenerates the tree, panels and model from the current design.
// The old views are replaced only if the walk succeeds.
func (e *Editor) Rebuild() error {
	tree, menu, model := NewTreeViewWithIDs(e.ids), NewPropertiesMenu(), NewDesignModel()
	b := NewDesignViewBuilder(tree, menu, RootID).WithModel(model)

	e.clock.Start()
	err := serial.NewSerializer(b, e.registry).Object("", e.current).Err()
	if err == nil {
		err = model.Finish()
	}
	e.clock.Stop()
	if err != nil {
		tree.Clear()
		core.MetricsBuildFailed()
		core.EventFire(core.EVENT_CODE_DESIGN_FAILED, e, core.EventContext{Path: e.path, Err: err})
		return errors.Wrap(err, "can't build design view")
	}

	// ids of the old tree are retired; they are never handed out again
	e.tree.Clear()
	e.tree, e.menu, e.model = tree, menu, model
	core.MetricsBuild(e.clock.Elapsed(), b.Nodes(), b.Rows())
	core.LogDebug("[%s] rebuilt design: %d nodes, %d rows in %s", e.session, b.Nodes(), b.Rows(), e.clock.Elapsed())
	core.EventFire(core.EVENT_CODE_DESIGN_REBUILT, e, core.EventContext{Path: e.path, Count: b.Nodes()})
	return nil
}

// Update decodes the model into a new design and shows it. If the model
// does not decode, the error is logged and the previous design stays.
func (e *Editor) Update() error {
	obj, err := serial.Unmarshal[any](e.model.JSON(), serial.WithRegistry(e.registry))
	if err != nil {
		core.LogError("[%s] can't update design: %s", e.session, err.Error())
		core.MetricsBuildFailed()
		core.EventFire(core.EVENT_CODE_DESIGN_FAILED, e, core.EventContext{Path: e.path, Err: err})
		return errors.Wrap(err, "can't update design")
	}
	return e.SetDesign(obj)
}

// Edit sets row index row of node nodeID to text and updates the design.
func (e *Editor) Edit(nodeID, row int, text string) error {
	panel, ok := e.menu.Panel(nodeID)
	if !ok {
		return errors.Newf("no properties for node #%d", nodeID)
	}
	if row < 0 || row >= len(panel.Rows) {
		return errors.Newf("node #%d has no row %d", nodeID, row)
	}
	return e.edit(nodeID, panel.Rows[row], text)
}

// EditByLabel is Edit addressing the row by its label.
func (e *Editor) EditByLabel(nodeID int, label, text string) error {
	panel, ok := e.menu.Panel(nodeID)
	if !ok {
		return errors.Newf("no properties for node #%d", nodeID)
	}
	r, ok := panel.Row(label)
	if !ok {
		return errors.Newf("node #%d has no property %s", nodeID, label)
	}
	return e.edit(nodeID, r, text)
}

func (e *Editor) edit(nodeID int, row *PropertyRow, text string) error {
	if err := e.model.Set(row, text); err != nil {
		return err
	}
	core.EventFire(core.EVENT_CODE_PROPERTY_EDITED, e, core.EventContext{Path: e.path, NodeID: nodeID, Detail: row.Label})
	return e.Update()
}

// Encode serializes the current design with the configured encoding.
func (e *Editor) Encode() ([]byte, error) {
	version, err := e.settings.Version()
	if err != nil {
		return nil, err
	}
	return serial.Marshal(e.current,
		serial.WithVersion(version),
		serial.WithIndent(e.settings.Indent),
		serial.WithRegistry(e.registry))
}

// Save writes the current design to path, or to the loaded path when
// path is empty. An existing file is rotated into .bak1, .bak2, ...
func (e *Editor) Save(path string) error {
	if path == "" {
		path = e.path
	}
	if path == "" {
		return errors.New("no path to save the design to")
	}
	data, err := e.Encode()
	if err != nil {
		return errors.Wrapf(err, "can't save design %s", path)
	}
	if e.settings.BackupsEnabled && e.settings.BackupsNum > 0 {
		if err := rotateBackups(path, e.settings.BackupsNum); err != nil {
			return err
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "can't create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "can't write design %s", path)
	}
	e.path = path
	core.LogInfo("[%s] saved %s", e.session, path)
	core.EventFire(core.EVENT_CODE_DESIGN_SAVED, e, core.EventContext{Path: path, Count: len(data)})
	return nil
}

func backupPath(path string, n int) string {
	return fmt.Sprintf("%s.bak%d", path, n)
}

func rotateBackups(path string, count int) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	for i := count - 1; i >= 1; i-- {
		from := backupPath(path, i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, backupPath(path, i+1)); err != nil {
			return errors.Wrapf(err, "can't rotate backup %s", from)
		}
	}
	return errors.Wrapf(os.Rename(path, backupPath(path, 1)), "can't back up %s", path)
}

// Copy puts the current design on the clipboard.
func (e *Editor) Copy() error {
	data, err := serial.Marshal(e.current, serial.WithRegistry(e.registry))
	if err != nil {
		return errors.Wrap(err, "can't copy design")
	}
	e.clipboard = data
	return nil
}

// Paste replaces the current design with the clipboard content.
func (e *Editor) Paste() error {
	if e.clipboard == nil {
		return errors.New("clipboard is empty")
	}
	obj, err := serial.Unmarshal[any](e.clipboard, serial.WithRegistry(e.registry))
	if err != nil {
		return errors.Wrap(err, "can't paste design")
	}
	if err := e.SetDesign(obj); err != nil {
		return err
	}
	core.EventFire(core.EVENT_CODE_DESIGN_LOADED, e, core.EventContext{})
	return nil
}

// Properties builds and returns the property register of the current
// design, or nil when the design has none.
func (e *Editor) Properties() (*reg.Register, error) {
	r, ok := e.current.(reg.Registrable)
	if !ok {
		return nil, nil
	}
	if err := reg.Build(r); err != nil {
		return nil, err
	}
	return r.Properties(), nil
}

// Watch reloads the design whenever path changes on disk; changes are
// picked up by ProcessEvents.
func (e *Editor) Watch(path string) error {
	if e.watcher == nil {
		w, err := assets.NewWatcher()
		if err != nil {
			return err
		}
		e.watcher = w
	}
	if err := e.watcher.WatchFile(path); err != nil {
		return errors.Wrapf(err, "can't watch %s", path)
	}
	if e.path == "" {
		e.path = path
	}
	return nil
}

// ProcessEvents handles pending file changes. A design that fails to
// reload is logged and the previous one is kept.
func (e *Editor) ProcessEvents() error {
	if e.watcher == nil || e.path == "" {
		return nil
	}
	abs, err := filepath.Abs(e.path)
	if err != nil {
		return errors.Wrapf(err, "can't resolve %s", e.path)
	}
	changed := false
	for _, c := range e.watcher.Poll() {
		if c.Path == abs && c.Op != assets.ChangeRemoved {
			changed = true
		}
	}
	if !changed {
		return nil
	}
	core.EventFire(core.EVENT_CODE_DESIGN_FILE_CHANGED, e, core.EventContext{Path: e.path})
	if err := e.Load(e.path); err != nil {
		core.LogError("[%s] can't reload %s: %s", e.session, e.path, err.Error())
	}
	return nil
}

func (e *Editor) Close() error {
	if e.watcher == nil {
		return nil
	}
	err := e.watcher.Close()
	e.watcher = nil
	return err
}
