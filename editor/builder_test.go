package editor

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gamebase/engine/core"
	gmath "github.com/spaghettifunk/gamebase/engine/math"
	"github.com/spaghettifunk/gamebase/engine/objects"
	"github.com/spaghettifunk/gamebase/engine/serial"
)

type catalog struct {
	Items map[int32]string
}

func (c *catalog) Serialize(s *serial.Serializer) {
	serial.WriteMap(s, "items", c.Items, (*serial.Serializer).Int, (*serial.Serializer).String)
}

func catalogRegistry() *serial.Registry {
	r := serial.NewRegistry()
	serial.RegisterTypeIn(r, "Catalog", func(d *serial.Deserializer) (*catalog, error) {
		c := &catalog{Items: serial.ReadMap(d, "items", (*serial.Deserializer).Int, (*serial.Deserializer).String)}
		return c, d.Err()
	})
	return r
}

type view struct {
	tree  *TreeView
	menu  *PropertiesMenu
	model *DesignModel
	b     *DesignViewBuilder
}

func build(t *testing.T, r *serial.Registry, obj any) *view {
	t.Helper()
	v := &view{tree: NewTreeView(), menu: NewPropertiesMenu(), model: NewDesignModel()}
	v.b = NewDesignViewBuilder(v.tree, v.menu, RootID).WithModel(v.model)
	require.NoError(t, serial.NewSerializer(v.b, r).Object("", obj).Err())
	require.NoError(t, v.model.Finish())
	return v
}

func (v *view) labels(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		n, _ := v.tree.Node(id)
		out = append(out, n.Label)
	}
	return out
}

func (v *view) rows(id int) map[string]string {
	p, ok := v.menu.Panel(id)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(p.Rows))
	for _, r := range p.Rows {
		out[r.Label] = r.Text
	}
	return out
}

func TestBuilderMapEntries(t *testing.T) {
	v := build(t, catalogRegistry(), &catalog{Items: map[int32]string{2: "b", 1: "a"}})

	roots := v.tree.Children(RootID)
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"Catalog"}, v.labels(roots))

	maps := v.tree.Children(roots[0])
	require.Len(t, maps, 1)
	assert.Equal(t, []string{"items : map"}, v.labels(maps))

	entries := v.tree.Children(maps[0])
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"key : int", "key : int"}, v.labels(entries))
	assert.Equal(t, map[string]string{"key": "1", "value": "a"}, v.rows(entries[0]))
	assert.Equal(t, map[string]string{"key": "2", "value": "b"}, v.rows(entries[1]))

	assert.Equal(t, 4, v.b.Nodes())
	assert.Equal(t, 4, v.b.Rows())
}

func TestBuilderLabelRows(t *testing.T) {
	l := objects.NewLabel("hi")
	l.SetName("title")
	l.Position = gmath.NewVec2(3, 4.5)
	v := build(t, nil, l)

	roots := v.tree.Children(RootID)
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"Label"}, v.labels(roots))
	assert.Empty(t, v.tree.Children(roots[0]))

	rows := v.rows(roots[0])
	assert.Equal(t, "hi", rows["text"])
	assert.Equal(t, "3", rows["position.x"])
	assert.Equal(t, "4.5", rows["position.y"])
	assert.Equal(t, "1", rows["color.a"])
	assert.Equal(t, "16", rows["fontSize"])
	assert.Equal(t, "title", rows[serial.NameField])
	assert.Equal(t, "true", rows[serial.VisibleField])

	p, _ := v.menu.Panel(roots[0])
	row, ok := p.Row("position.y")
	require.True(t, ok)
	assert.Equal(t, Float, row.Type)
	assert.Equal(t, "position.1", row.Path)
	row, _ = p.Row("text")
	assert.Equal(t, String, row.Type)
	assert.Equal(t, "text", row.Path)
}

func TestBuilderEmptyObjects(t *testing.T) {
	v := build(t, nil, nil)
	roots := v.tree.Children(RootID)
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"empty"}, v.labels(roots))

	v = build(t, nil, objects.NewButton(nil))
	roots = v.tree.Children(RootID)
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"Button"}, v.labels(roots))
	assert.Equal(t, []string{"skin : empty"}, v.labels(v.tree.Children(roots[0])))

	rows := v.rows(roots[0])
	assert.Equal(t, "1", rows["position.m[0, 0]"])
	assert.Equal(t, "0", rows["position.tx"])
	assert.Equal(t, "0.3", rows["clickTime"])
}

func TestBuilderArrayElements(t *testing.T) {
	layout := objects.NewLinearLayout(objects.Vertical, objects.NewLabel("a"), nil, objects.NewFilledRect(gmath.NewBoundingBox(2, 2), gmath.NewColor(1, 0, 0, 1)))
	v := build(t, nil, layout)

	roots := v.tree.Children(RootID)
	require.Len(t, roots, 1)
	assert.Equal(t, "1", v.rows(roots[0])["direction"])

	arrays := v.tree.Children(roots[0])
	assert.Equal(t, []string{"objects : array"}, v.labels(arrays))
	elems := v.tree.Children(arrays[0])
	assert.Equal(t, []string{"element : Label", "element : empty", "element : FilledRect"}, v.labels(elems))
	assert.Equal(t, "a", v.rows(elems[0])["text"])
	assert.Equal(t, "-1", v.rows(elems[2])["box.left"])

	p, _ := v.menu.Panel(elems[0])
	row, _ := p.Row("text")
	assert.Equal(t, "objects._elements.0.text", row.Path)
}

func TestBuilderPrimitiveArrayElements(t *testing.T) {
	r := serial.NewRegistry()
	serial.RegisterTypeIn(r, "Polyline", func(d *serial.Deserializer) (*polyline, error) {
		return &polyline{Points: serial.ReadArray(d, "points", (*serial.Deserializer).Vec2)}, d.Err()
	})
	v := build(t, r, &polyline{Points: []gmath.Vec2{gmath.NewVec2(1, 2), gmath.NewVec2(3, 4)}})

	roots := v.tree.Children(RootID)
	arrays := v.tree.Children(roots[0])
	assert.Equal(t, []string{"points : array"}, v.labels(arrays))
	elems := v.tree.Children(arrays[0])
	assert.Equal(t, []string{"element : primitive array", "element : primitive array"}, v.labels(elems))
	assert.Equal(t, map[string]string{"element.x": "3", "element.y": "4"}, v.rows(elems[1]))
}

type polyline struct {
	Points []gmath.Vec2
}

func (p *polyline) Serialize(s *serial.Serializer) {
	serial.WriteArray(s, "points", p.Points, (*serial.Serializer).Vec2)
}

func startMap(t *testing.T, b *DesignViewBuilder, keys ...int32) {
	t.Helper()
	require.NoError(t, b.StartObject(""))
	require.NoError(t, b.WriteBool(serial.EmptyField, false))
	require.NoError(t, b.WriteString(serial.TypeField, "Catalog"))
	require.NoError(t, b.StartObject("items"))
	require.NoError(t, b.WriteInt(serial.SizeField, int32(len(keys))))
	require.NoError(t, b.StartArray(serial.KeysField, serial.TagKeys))
	for _, k := range keys {
		require.NoError(t, b.WriteInt("", k))
	}
	require.NoError(t, b.FinishArray())
	require.NoError(t, b.StartArray(serial.ValuesField, serial.TagValues))
}

func TestBuilderMoreValuesThanKeys(t *testing.T) {
	b := NewDesignViewBuilder(NewTreeView(), NewPropertiesMenu(), RootID)
	startMap(t, b, 1)
	require.NoError(t, b.WriteString("", "a"))
	err := b.WriteString("", "b")
	assert.True(t, errors.Is(err, core.ErrBadMapShape), "got %v", err)
}

func TestBuilderFewerValuesThanKeys(t *testing.T) {
	b := NewDesignViewBuilder(NewTreeView(), NewPropertiesMenu(), RootID)
	startMap(t, b, 1, 2)
	require.NoError(t, b.WriteString("", "a"))
	err := b.FinishArray()
	assert.True(t, errors.Is(err, core.ErrBadMapShape), "got %v", err)
}

func TestBuilderRejectsCurrentShapes(t *testing.T) {
	b := NewDesignViewBuilder(NewTreeView(), NewPropertiesMenu(), RootID)
	assert.Equal(t, serial.Legacy, b.Version())
	require.NoError(t, b.StartObject(""))
	require.NoError(t, b.WriteString(serial.TypeField, "Catalog"))
	assert.Error(t, b.StartArray("items", serial.TagMap))
}

func TestBuilderTooManyComponents(t *testing.T) {
	b := NewDesignViewBuilder(NewTreeView(), NewPropertiesMenu(), RootID)
	require.NoError(t, b.StartObject(""))
	require.NoError(t, b.WriteString(serial.TypeField, "Label"))
	require.NoError(t, b.StartArray("position", serial.TagVec2))
	require.NoError(t, b.WriteFloat("", 1))
	require.NoError(t, b.WriteFloat("", 2))
	err := b.WriteFloat("", 3)
	assert.True(t, errors.Is(err, core.ErrMalformedWire), "got %v", err)
}
