package editor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/spaghettifunk/gamebase/engine/core"
	gmath "github.com/spaghettifunk/gamebase/engine/math"
	"github.com/spaghettifunk/gamebase/engine/objects"
	"github.com/spaghettifunk/gamebase/engine/serial"
)

type EditorSuite struct {
	suite.Suite
	dir    string
	editor *Editor
	events map[core.SystemEventCode]int
}

func (s *EditorSuite) SetupTest() {
	s.dir = s.T().TempDir()
	settings := DefaultSettings()
	settings.WorkingPath = s.dir
	settings.BackupsNum = 2
	s.editor = New(settings, nil)

	core.EventInitialize()
	s.events = make(map[core.SystemEventCode]int)
	for _, code := range []core.SystemEventCode{
		core.EVENT_CODE_DESIGN_LOADED,
		core.EVENT_CODE_DESIGN_REBUILT,
		core.EVENT_CODE_DESIGN_FAILED,
		core.EVENT_CODE_PROPERTY_EDITED,
		core.EVENT_CODE_DESIGN_SAVED,
	} {
		core.EventRegister(code, s, func(code core.SystemEventCode, _ interface{}, _ interface{}, _ core.EventContext) bool {
			s.events[code]++
			return false
		})
	}
}

func (s *EditorSuite) TearDownTest() {
	s.Require().NoError(s.editor.Close())
	s.Require().NoError(core.EventShutdown())
}

func (s *EditorSuite) labelNode() int {
	roots := s.editor.Tree().Children(RootID)
	s.Require().Len(roots, 1)
	return roots[0]
}

func (s *EditorSuite) TestLoadDefaultFallsBackToRect() {
	s.Require().NoError(s.editor.LoadDefault())
	rect, ok := s.editor.Current().(*objects.FilledRect)
	s.Require().True(ok)
	s.Equal(float32(32), rect.Box.Width())
	s.Equal(gmath.NewColor(0, 0, 0, 1), rect.Color)
	s.Equal(1, s.events[core.EVENT_CODE_DESIGN_REBUILT])
}

func (s *EditorSuite) TestEditUpdatesDesign() {
	s.Require().NoError(s.editor.SetDesign(objects.NewLabel("hi")))
	id := s.labelNode()

	s.Require().NoError(s.editor.EditByLabel(id, "text", "bye"))
	next := s.labelNode()
	s.Greater(next, id)
	s.Error(s.editor.EditByLabel(id, "position.x", "1"), "retired node id")
	s.Require().NoError(s.editor.EditByLabel(next, "position.x", "2.5"))

	l, ok := s.editor.Current().(*objects.Label)
	s.Require().True(ok)
	s.Equal("bye", l.Text)
	s.Equal(float32(2.5), l.Position.X)
	s.Equal(2, s.events[core.EVENT_CODE_PROPERTY_EDITED])

	p, ok := s.editor.Menu().Panel(s.labelNode())
	s.Require().True(ok)
	row, _ := p.Row("text")
	s.Equal("bye", row.Text)
}

func (s *EditorSuite) TestNodeIDsNeverReused() {
	s.Require().NoError(s.editor.SetDesign(objects.NewLinearLayout(objects.Vertical, objects.NewLabel("a"), objects.NewLabel("b"))))
	seen := map[int]bool{}
	collect := func() {
		s.editor.Tree().Walk(func(n *TreeNode, _ int) bool {
			s.False(seen[n.ID], "node #%d handed out twice", n.ID)
			seen[n.ID] = true
			return true
		})
	}
	collect()
	first := len(seen)
	s.Require().NoError(s.editor.Rebuild())
	collect()
	s.Len(seen, 2*first)
	s.Equal(first, s.editor.ids.Live())
}

func (s *EditorSuite) TestInvalidEditKeepsDesign() {
	s.Require().NoError(s.editor.SetDesign(objects.NewLabel("hi")))
	id := s.labelNode()

	s.Error(s.editor.EditByLabel(id, "fontSize", "big"))
	s.Error(s.editor.EditByLabel(id, "nope", "1"))
	s.Error(s.editor.Edit(id, 1000, "1"))
	s.Error(s.editor.Edit(12345, 0, "1"))
	s.Equal("hi", s.editor.Current().(*objects.Label).Text)
}

func (s *EditorSuite) TestFailedUpdateKeepsDesign() {
	prev := objects.NewLabel("hi")
	s.Require().NoError(s.editor.SetDesign(prev))

	row := &PropertyRow{Label: "type", Type: String, Path: serial.TypeField}
	s.Require().NoError(s.editor.Model().Set(row, "Unknown"))
	err := s.editor.Update()
	s.True(errors.Is(err, core.ErrNotRegistered), "got %v", err)
	s.Same(prev, s.editor.Current())
	s.Equal(1, s.events[core.EVENT_CODE_DESIGN_FAILED])
}

func (s *EditorSuite) TestSaveRotatesBackups() {
	target := filepath.Join(s.dir, "designs", "main.json")
	s.Require().NoError(s.editor.SetDesign(objects.NewLabel("one")))
	s.Require().NoError(s.editor.Save(target))
	s.Require().NoError(s.editor.SetDesign(objects.NewLabel("two")))
	s.Require().NoError(s.editor.Save(""))
	s.Require().NoError(s.editor.SetDesign(objects.NewLabel("three")))
	s.Require().NoError(s.editor.Save(""))

	read := func(p string) string {
		buf, err := os.ReadFile(p)
		s.Require().NoError(err)
		return gjson.GetBytes(buf, "text").String()
	}
	s.Equal("three", read(target))
	s.Equal("two", read(backupPath(target, 1)))
	s.Equal("one", read(backupPath(target, 2)))
	s.NoFileExists(backupPath(target, 3))
	s.Equal(3, s.events[core.EVENT_CODE_DESIGN_SAVED])

	s.Require().NoError(s.editor.Load(target))
	s.Equal("three", s.editor.Current().(*objects.Label).Text)
	s.Equal(1, s.events[core.EVENT_CODE_DESIGN_LOADED])
}

func (s *EditorSuite) TestSaveLegacyEncoding() {
	settings := s.editor.Settings()
	settings.SaveEncoding = "legacy"
	settings.BackupsEnabled = false
	e := New(settings, nil)

	layout := objects.NewLinearLayout(objects.Horizontal, objects.NewLabel("a"))
	s.Require().NoError(e.SetDesign(layout))
	target := filepath.Join(s.dir, "legacy.json")
	s.Require().NoError(e.Save(target))

	buf, err := os.ReadFile(target)
	s.Require().NoError(err)
	s.Equal(int64(serial.Legacy), gjson.GetBytes(buf, serial.VersionField).Int())
	s.Equal(int64(1), gjson.GetBytes(buf, "objects._size").Int())

	s.Require().NoError(s.editor.Load(target))
	s.IsType(&objects.LinearLayout{}, s.editor.Current())
}

func (s *EditorSuite) TestCopyPaste() {
	s.Error(s.editor.Paste())
	s.Require().NoError(s.editor.SetDesign(objects.NewLabel("copied")))
	s.Require().NoError(s.editor.Copy())
	s.Require().NoError(s.editor.SetDesign(objects.NewTextBank()))
	s.Require().NoError(s.editor.Paste())
	s.Equal("copied", s.editor.Current().(*objects.Label).Text)
}

func (s *EditorSuite) TestProperties() {
	l := objects.NewLabel("hi")
	l.SetName("title")
	s.Require().NoError(s.editor.SetDesign(l))
	r, err := s.editor.Properties()
	s.Require().NoError(err)
	p, err := r.Lookup("text")
	s.Require().NoError(err)
	s.Equal("hi", p.Get())

	s.Require().NoError(s.editor.SetDesign(objects.NewTextBank()))
	r, err = s.editor.Properties()
	s.NoError(err)
	s.Nil(r)
}

func TestEditorSuite(t *testing.T) {
	suite.Run(t, new(EditorSuite))
}

func TestModelSetWithoutPath(t *testing.T) {
	m := NewDesignModel()
	assert.Error(t, m.Set(&PropertyRow{Label: "x", Type: Int, Path: "x"}, "1"))

	v := build(t, nil, objects.NewLabel("hi"))
	assert.Error(t, v.model.Set(&PropertyRow{Label: "x", Type: Int}, "1"))

	row := &PropertyRow{Label: "fontSize", Type: Float, Path: "fontSize"}
	require.NoError(t, v.model.Set(row, "20.0"))
	assert.Equal(t, "20", row.Text)
	got, ok := v.model.Get("fontSize")
	require.True(t, ok)
	assert.Equal(t, "20", got)
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "editor.toml")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	s.Interface = InterfaceExtended
	s.SaveEncoding = "legacy"
	s.BackupsNum = 5
	s.DefaultDesign = "designs/main.json"
	s.Watch = true
	require.NoError(t, s.Save(path))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
	assert.True(t, loaded.IsInterfaceExtended())
	v, err := loaded.Version()
	require.NoError(t, err)
	assert.Equal(t, serial.Legacy, v)
	assert.Equal(t, filepath.Join(".", "designs/main.json"), loaded.Resolve(loaded.DefaultDesign))
}

func TestSettingsPartialAndInvalid(t *testing.T) {
	dir := t.TempDir()
	partial := filepath.Join(dir, "partial.toml")
	require.NoError(t, os.WriteFile(partial, []byte("indent = 4\nlog_level = \"debug\"\n"), 0o644))
	s, err := LoadSettings(partial)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Indent)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 3, s.BackupsNum)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("interface = \"fancy\"\n"), 0o644))
	_, err = LoadSettings(bad)
	assert.Error(t, err)

	bad = filepath.Join(dir, "enc.toml")
	require.NoError(t, os.WriteFile(bad, []byte("save_encoding = \"xml\"\n"), 0o644))
	_, err = LoadSettings(bad)
	assert.Error(t, err)
}

type pair struct {
	A, B int32
}

func (p *pair) Serialize(s *serial.Serializer) {
	s.Int("v", p.A).Int("v", p.B)
}

func TestEditRepeatedMemberName(t *testing.T) {
	r := serial.NewRegistry()
	serial.RegisterTypeIn(r, "Pair", func(d *serial.Deserializer) (*pair, error) {
		p := &pair{A: d.Int("v"), B: d.Int("v")}
		return p, d.Err()
	})
	ed := New(DefaultSettings(), r)
	require.NoError(t, ed.SetDesign(&pair{A: 1, B: 2}))

	roots := ed.Tree().Children(RootID)
	require.Len(t, roots, 1)
	panel, ok := ed.Menu().Panel(roots[0])
	require.True(t, ok)
	require.Len(t, panel.Rows, 2)
	assert.Equal(t, panel.Rows[0].Path, panel.Rows[1].Path)
	assert.NotEqual(t, panel.Rows[0].Location, panel.Rows[1].Location)

	require.NoError(t, ed.Edit(roots[0], 1, "9"))
	p, ok := ed.Current().(*pair)
	require.True(t, ok)
	assert.Equal(t, &pair{A: 1, B: 9}, p)

	roots = ed.Tree().Children(RootID)
	require.NoError(t, ed.Edit(roots[0], 0, "5"))
	assert.Equal(t, &pair{A: 5, B: 9}, ed.Current())
}
