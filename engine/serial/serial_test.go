package serial

import (
	"math"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/spaghettifunk/gamebase/engine/core"
	gmath "github.com/spaghettifunk/gamebase/engine/math"
)

type kind int32

const (
	kindPlain kind = iota
	kindFancy
)

type sprite struct {
	name    string
	visible bool

	Pos  gmath.Vec2
	UV   gmath.Matrix2
	Xf   gmath.Transform2
	Box  gmath.BoundingBox
	Tint gmath.Color
	F    float32
	D    float64
	I    int32
	U    uint32
	I64  int64
	U64  uint64
	B    bool
	S    string
	Kind kind
	Tick float32
}

func (sp *sprite) Name() string          { return sp.name }
func (sp *sprite) SetName(name string)   { sp.name = name }
func (sp *sprite) IsVisible() bool       { return sp.visible }
func (sp *sprite) SetVisible(value bool) { sp.visible = value }

func (sp *sprite) Serialize(s *Serializer) {
	s.Vec2("pos", sp.Pos).
		Matrix2("uv", sp.UV).
		Transform2("xf", sp.Xf).
		BoundingBox("box", sp.Box).
		Color("tint", sp.Tint).
		Float("f", sp.F).
		Double("d", sp.D).
		Int("i", sp.I).
		UInt("u", sp.U).
		Int64("i64", sp.I64).
		UInt64("u64", sp.U64).
		Bool("b", sp.B).
		String("s", sp.S).
		Float("tick", sp.Tick)
	WriteEnum(s, "kind", sp.Kind)
}

func deserializeSprite(d *Deserializer) (*sprite, error) {
	sp := &sprite{
		Pos:  d.Vec2("pos"),
		UV:   d.Matrix2("uv"),
		Xf:   d.Transform2("xf"),
		Box:  d.BoundingBox("box"),
		Tint: d.Color("tint"),
		F:    d.Float("f"),
		D:    d.Double("d"),
		I:    d.Int("i"),
		U:    d.UInt("u"),
		I64:  d.Int64("i64"),
		U64:  d.UInt64("u64"),
		B:    d.Bool("b"),
		S:    d.String("s"),
		Kind: ReadEnum[kind](d, "kind"),
		Tick: Optional(d, "tick", (*Deserializer).Float, 0.5),
	}
	return sp, d.Err()
}

type group struct {
	Children []any
	Points   []gmath.Vec2
	Layers   map[int32]*sprite
	Labels   map[string]string
	Skin     *sprite
}

func (g *group) Serialize(s *Serializer) {
	WriteArray(s, "children", g.Children, WriteObject[any])
	WriteArray(s, "points", g.Points, (*Serializer).Vec2)
	WriteMap(s, "layers", g.Layers, (*Serializer).Int, WriteObject[*sprite])
	WriteMap(s, "labels", g.Labels, (*Serializer).String, (*Serializer).String)
	s.Object("skin", g.Skin)
}

func deserializeGroup(d *Deserializer) (*group, error) {
	g := &group{
		Children: ReadArray(d, "children", ReadObject[any]),
		Points:   ReadArray(d, "points", (*Deserializer).Vec2),
		Layers:   ReadMap(d, "layers", (*Deserializer).Int, ReadObject[*sprite]),
		Labels:   ReadMap(d, "labels", (*Deserializer).String, (*Deserializer).String),
		Skin:     ReadObject[*sprite](d, "skin"),
	}
	return g, d.Err()
}

type twice struct {
	First, Second int32
}

func (t *twice) Serialize(s *Serializer) {
	s.Int("v", t.First).Int("v", t.Second)
}

type holder struct {
	Skin sprite
}

func (h *holder) Serialize(s *Serializer) {
	s.Object("skin", &h.Skin)
}

type opaque struct{}

func newRegistry() *Registry {
	r := NewRegistry()
	RegisterTypeIn(r, "Sprite", deserializeSprite)
	RegisterTypeIn(r, "Group", deserializeGroup)
	RegisterTypeIn(r, "Twice", func(d *Deserializer) (*twice, error) {
		t := &twice{}
		t.First = d.Int("v")
		t.Second = d.Int("v")
		return t, d.Err()
	})
	RegisterTypeIn(r, "Holder", func(d *Deserializer) (*holder, error) {
		h := &holder{}
		ReadValue(d, "skin", &h.Skin)
		return h, d.Err()
	})
	RegisterTypeIn(r, "Opaque", func(d *Deserializer) (*opaque, error) {
		return &opaque{}, nil
	})
	return r
}

func sampleSprite(name string) *sprite {
	return &sprite{
		name:    name,
		visible: true,
		Pos:     gmath.NewVec2(0.1, -2.5),
		UV:      gmath.NewMatrix2(1, 0.25, -0.25, 1),
		Xf:      gmath.Transform2{Matrix: gmath.NewMatrix2Rotation(0.3), Offset: gmath.NewVec2(10, 20)},
		Box:     gmath.NewBoundingBox(64, 32),
		Tint:    gmath.NewColor(1, 0.5, 0.25, 0.125),
		F:       float32(1.0 / 3.0),
		D:       math.Pi,
		I:       math.MinInt32,
		U:       math.MaxUint32,
		I64:     math.MinInt64,
		U64:     math.MaxUint64,
		B:       true,
		S:       "héllo \"world\"\n",
		Kind:    kindFancy,
		Tick:    1e-7,
	}
}

func sampleGroup() *group {
	return &group{
		Children: []any{sampleSprite("a"), &group{
			Children: []any{},
			Points:   []gmath.Vec2{},
			Layers:   map[int32]*sprite{},
			Labels:   map[string]string{},
		}},
		Points: []gmath.Vec2{{X: 1, Y: 2}, {X: 3.5, Y: -4}},
		Layers: map[int32]*sprite{2: sampleSprite("two"), -1: sampleSprite("minus")},
		Labels: map[string]string{"b": "bee", "a": "ay"},
	}
}

func TestRoundTrip(t *testing.T) {
	reg := newRegistry()
	for _, version := range []Version{Current, Legacy} {
		t.Run(version.String(), func(t *testing.T) {
			in := sampleGroup()
			data, err := Marshal(in, WithVersion(version), WithRegistry(reg), WithIndent(2))
			require.NoError(t, err)

			out, err := Unmarshal[*group](data, WithRegistry(reg))
			require.NoError(t, err)
			assert.Equal(t, in, out)

			sp := out.Children[0].(*sprite)
			assert.Equal(t, math.Float32bits(in.Children[0].(*sprite).F), math.Float32bits(sp.F))
			assert.Equal(t, "a", sp.Name())
			assert.True(t, sp.IsVisible())
		})
	}
}

func TestVersionEquivalence(t *testing.T) {
	reg := newRegistry()
	current, err := Marshal(sampleGroup(), WithRegistry(reg))
	require.NoError(t, err)
	legacy, err := Marshal(sampleGroup(), WithVersion(Legacy), WithRegistry(reg))
	require.NoError(t, err)
	assert.NotEqual(t, current, legacy)

	a, err := Unmarshal[*group](current, WithRegistry(reg))
	require.NoError(t, err)
	b, err := Unmarshal[*group](legacy, WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWireShapes(t *testing.T) {
	reg := newRegistry()

	current, err := Marshal(sampleGroup(), WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, int64(3), gjson.GetBytes(current, VersionField).Int())
	assert.Equal(t, "Group", gjson.GetBytes(current, TypeField).String())
	assert.True(t, gjson.GetBytes(current, "children").IsArray())
	assert.Equal(t, int64(-1), gjson.GetBytes(current, "layers.0._key").Int())
	assert.Equal(t, "Sprite", gjson.GetBytes(current, "layers.0._value._type").String())
	assert.Equal(t, "a", gjson.GetBytes(current, "labels.0._key").String())
	assert.True(t, gjson.GetBytes(current, "skin._empty").Bool())
	assert.False(t, gjson.GetBytes(current, "skin._type").Exists())
	assert.Equal(t, 2, len(gjson.GetBytes(current, "points.1").Array()))

	legacy, err := Marshal(sampleGroup(), WithVersion(Legacy), WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, int64(2), gjson.GetBytes(legacy, VersionField).Int())
	assert.Equal(t, int64(2), gjson.GetBytes(legacy, "children._size").Int())
	assert.True(t, gjson.GetBytes(legacy, "children._elements").IsArray())
	assert.Equal(t, `[-1,2]`, gjson.GetBytes(legacy, "layers._keys").Raw)
	assert.Equal(t, 2, len(gjson.GetBytes(legacy, "layers._values").Array()))
}

func TestMissingVersionIsLegacy(t *testing.T) {
	reg := newRegistry()
	legacy, err := Marshal(sampleGroup(), WithVersion(Legacy), WithRegistry(reg))
	require.NoError(t, err)
	stripped, err := sjson.DeleteBytes(legacy, VersionField)
	require.NoError(t, err)

	r, err := NewJSONReader(stripped)
	require.NoError(t, err)
	assert.Equal(t, Legacy, r.Version())

	out, err := Unmarshal[*group](stripped, WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, sampleGroup(), out)
}

func TestCurrentProbesOptionalMembers(t *testing.T) {
	reg := newRegistry()
	data, err := Marshal(sampleSprite("x"), WithRegistry(reg))
	require.NoError(t, err)
	for _, field := range []string{EmptyField, NameField, VisibleField, "tick"} {
		data, err = sjson.DeleteBytes(data, field)
		require.NoError(t, err)
	}

	sp, err := Unmarshal[*sprite](data, WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, "", sp.Name())
	assert.False(t, sp.IsVisible())
	assert.Equal(t, float32(0.5), sp.Tick)
}

func TestDuplicateNamesArePositional(t *testing.T) {
	reg := newRegistry()
	data, err := Marshal(&twice{First: 7, Second: 9}, WithRegistry(reg))
	require.NoError(t, err)

	out, err := Unmarshal[*twice](data, WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, &twice{First: 7, Second: 9}, out)
}

func TestRegistryLastWriteWins(t *testing.T) {
	reg := newRegistry()
	called := false
	RegisterTypeIn(reg, "Sprite", func(d *Deserializer) (*sprite, error) {
		called = true
		return deserializeSprite(d)
	})

	traits, err := reg.TypeTraits("Group")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf((**group)(nil)).Elem(), traits.Type)

	data, err := Marshal(sampleSprite("s"), WithRegistry(reg))
	require.NoError(t, err)
	_, err = Unmarshal[*sprite](data, WithRegistry(reg))
	require.NoError(t, err)
	assert.True(t, called)

	assert.Equal(t, []string{"Group", "Holder", "Opaque", "Sprite", "Twice"}, reg.Types())
	assert.True(t, reg.IsRegistered("Sprite"))
	assert.True(t, reg.IsTypeRegistered(reflect.TypeOf((**sprite)(nil)).Elem()))
	assert.False(t, reg.IsRegistered("Missing"))
}

func TestNameReuseResolvesToLatest(t *testing.T) {
	reg := NewRegistry()
	RegisterTypeIn(reg, "Thing", func(d *Deserializer) (*twice, error) {
		return &twice{}, nil
	}, func(obj *twice, s *Serializer) error { return nil })
	RegisterTypeIn(reg, "Thing", func(d *Deserializer) (*opaque, error) {
		return &opaque{}, nil
	}, func(obj *opaque, s *Serializer) error { return nil })

	data, err := Marshal(&twice{}, WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, "Thing", gjson.GetBytes(data, TypeField).String())

	out, err := Unmarshal[any](data, WithRegistry(reg))
	require.NoError(t, err)
	assert.IsType(t, &opaque{}, out)
}

func TestNotRegistered(t *testing.T) {
	reg := newRegistry()
	data, err := Marshal(sampleGroup(), WithRegistry(reg))
	require.NoError(t, err)

	partial := NewRegistry()
	RegisterTypeIn(partial, "Group", deserializeGroup)
	_, err = Unmarshal[*group](data, WithRegistry(partial))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotRegistered))
	assert.Contains(t, err.Error(), "can't deserialize collection children")
	assert.Contains(t, err.Error(), "(type: Group)")

	_, err = Marshal(&struct{ X int }{}, WithRegistry(reg))
	assert.ErrorIs(t, err, core.ErrNotRegistered)
}

func TestTypeMismatch(t *testing.T) {
	reg := newRegistry()
	data, err := Marshal(sampleSprite("s"), WithRegistry(reg))
	require.NoError(t, err)

	_, err = Unmarshal[*group](data, WithRegistry(reg))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "Sprite")

	_, err = Marshal(&opaque{}, WithRegistry(reg))
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
}

func TestEmptyIntoValue(t *testing.T) {
	reg := newRegistry()
	data, err := Marshal(&holder{Skin: *sampleSprite("skin")}, WithRegistry(reg))
	require.NoError(t, err)
	out, err := Unmarshal[*holder](data, WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, "skin", out.Skin.Name())

	empty := []byte(`{"_version": 3, "_type": "Holder", "skin": {"_empty": true}}`)
	_, err = Unmarshal[*holder](empty, WithRegistry(reg))
	assert.ErrorIs(t, err, core.ErrUnsupportedOperation)
}

func TestMalformedWire(t *testing.T) {
	reg := newRegistry()
	for name, doc := range map[string]string{
		"not json":      `{"_version": 3,`,
		"not object":    `[1, 2]`,
		"bad version":   `{"_version": 7}`,
		"missing field": `{"_version": 3, "_type": "Twice", "v": 1}`,
		"wrong type":    `{"_version": 3, "_type": "Twice", "v": "1", "v": 2}`,
		"short vec":     `{"_version": 3, "_type": "Group", "children": [], "points": [[1]]}`,
		"legacy size":   `{"_version": 2, "_empty": false, "_type": "Group", "children": {"_size": 3, "_elements": []}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal[any]([]byte(doc), WithRegistry(reg))
			assert.ErrorIs(t, err, core.ErrMalformedWire)
		})
	}
}

func TestTagSuffixes(t *testing.T) {
	assert.True(t, TagColor.IsPrimitive())
	assert.False(t, TagKeys.IsPrimitive())
	assert.Equal(t, 6, TagTransform2.Size())

	s, ok := TagTransform2.Suffix(4)
	require.True(t, ok)
	assert.Equal(t, ".tx", s)
	s, _ = TagMatrix2.Suffix(1)
	assert.Equal(t, "[0, 1]", s)
	_, ok = TagVec2.Suffix(2)
	assert.False(t, ok)
	assert.Equal(t, "BoundingBox", TagBoundingBox.String())
}

func TestJSONWriterPaths(t *testing.T) {
	w := NewJSONWriter(Current, 0)
	require.NoError(t, w.StartObject(""))
	require.NoError(t, w.WriteString("a.b", "x"))
	assert.Equal(t, `a\.b`, w.Path())
	require.NoError(t, w.StartArray("list", TagArray))
	require.NoError(t, w.WriteInt("", 1))
	require.NoError(t, w.WriteInt("", 2))
	assert.Equal(t, "list.1", w.Path())
	require.NoError(t, w.FinishArray())
	require.NoError(t, w.FinishObject())

	data, err := w.Bytes()
	require.NoError(t, err)
	assert.JSONEq(t, `{"_version": 3, "a.b": "x", "list": [1, 2]}`, string(data))
	assert.Equal(t, "x", gjson.GetBytes(data, `a\.b`).String())
	assert.Error(t, w.FinishObject())
}

func TestJSONWriterLocations(t *testing.T) {
	w := NewJSONWriter(Current, 0)
	require.NoError(t, w.StartObject(""))
	require.NoError(t, w.WriteInt("v", 1))
	first := w.Location()
	require.NoError(t, w.StartObject("v"))
	require.NoError(t, w.WriteString("s", "a"))
	inner := w.Location()
	require.NoError(t, w.FinishObject())
	require.NoError(t, w.StartArray("list", TagArray))
	require.NoError(t, w.WriteInt("", 5))
	require.NoError(t, w.WriteInt("", 6))
	elem := w.Location()
	require.NoError(t, w.FinishArray())
	require.NoError(t, w.FinishObject())

	assert.Equal(t, Location{{Name: "v"}}, first)
	assert.Equal(t, Location{{Name: "v", Index: 1}, {Name: "s"}}, inner)
	assert.Equal(t, "v[1].s", inner.String())
	assert.Equal(t, Location{{Name: "list"}, {Index: 1}}, elem)

	data, err := w.Bytes()
	require.NoError(t, err)
	r, err := Locate(data, inner)
	require.NoError(t, err)
	assert.Equal(t, "a", r.String())

	data, err = Replace(data, first, []byte("10"))
	require.NoError(t, err)
	data, err = Replace(data, elem, []byte("60"))
	require.NoError(t, err)
	data, err = Replace(data, inner, []byte(`"b"`))
	require.NoError(t, err)
	assert.Equal(t, `{"_version":3,"v":10,"v":{"s":"b"},"list":[5,60]}`, string(data))

	_, err = Locate(data, Location{{Name: "v", Index: 2}})
	assert.ErrorIs(t, err, core.ErrMalformedWire)
}
