package serial

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"

	"github.com/spaghettifunk/gamebase/engine/core"
	gmath "github.com/spaghettifunk/gamebase/engine/math"
)

// Deserializer is the typed read side. Reads return values directly; the
// first error sticks, later reads return zero values and Err reports it.
type Deserializer struct {
	r   Reader
	reg *Registry
	err error
}

// NewDeserializer reads from r resolving types in reg (nil means Default).
func NewDeserializer(r Reader, reg *Registry) *Deserializer {
	if reg == nil {
		reg = Default()
	}
	return &Deserializer{r: r, reg: reg}
}

func (d *Deserializer) Err() error {
	return d.err
}

func (d *Deserializer) Version() Version {
	return d.r.Version()
}

// Fail records err unless an earlier error is already recorded.
func (d *Deserializer) Fail(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

func (d *Deserializer) ok() bool {
	return d.err == nil
}

func (d *Deserializer) nested(fn func(), format string, args ...interface{}) {
	if !d.ok() {
		return
	}
	fn()
	if d.err != nil {
		d.err = errors.Wrapf(d.err, format, args...)
	}
}

func (d *Deserializer) HasMember(name string) bool {
	return d.ok() && d.r.HasMember(name)
}

func read[T any](d *Deserializer, name string, fn func(string) (T, error)) T {
	var v T
	if !d.ok() {
		return v
	}
	v, err := fn(name)
	d.Fail(err)
	return v
}

func (d *Deserializer) Float(name string) float32 {
	return read(d, name, d.r.ReadFloat)
}

func (d *Deserializer) Double(name string) float64 {
	return read(d, name, d.r.ReadDouble)
}

func (d *Deserializer) Int(name string) int32 {
	return read(d, name, d.r.ReadInt)
}

func (d *Deserializer) UInt(name string) uint32 {
	return read(d, name, d.r.ReadUInt)
}

func (d *Deserializer) Int64(name string) int64 {
	return read(d, name, d.r.ReadInt64)
}

func (d *Deserializer) UInt64(name string) uint64 {
	return read(d, name, d.r.ReadUInt64)
}

func (d *Deserializer) Bool(name string) bool {
	return read(d, name, d.r.ReadBool)
}

func (d *Deserializer) String(name string) string {
	return read(d, name, d.r.ReadString)
}

// composite reads the fixed-shape float sequence of a primitive tag.
func (d *Deserializer) composite(name string, tag Tag) []float32 {
	out := make([]float32, tag.Size())
	if !d.ok() {
		return out
	}
	n, err := d.r.StartArray(name, tag)
	if err != nil {
		d.Fail(err)
		return out
	}
	if n != len(out) {
		d.Fail(errors.Wrapf(core.ErrMalformedWire, "%s %s has %d components, want %d", tag, name, n, len(out)))
		return out
	}
	for i := range out {
		out[i] = d.Float("")
	}
	if d.ok() {
		d.Fail(d.r.FinishArray())
	}
	return out
}

func (d *Deserializer) Vec2(name string) gmath.Vec2 {
	c := d.composite(name, TagVec2)
	return gmath.Vec2{X: c[0], Y: c[1]}
}

func (d *Deserializer) Matrix2(name string) gmath.Matrix2 {
	c := d.composite(name, TagMatrix2)
	return gmath.Matrix2{M00: c[0], M01: c[1], M10: c[2], M11: c[3]}
}

func (d *Deserializer) Transform2(name string) gmath.Transform2 {
	c := d.composite(name, TagTransform2)
	return gmath.Transform2{
		Matrix: gmath.Matrix2{M00: c[0], M01: c[1], M10: c[2], M11: c[3]},
		Offset: gmath.Vec2{X: c[4], Y: c[5]},
	}
}

func (d *Deserializer) BoundingBox(name string) gmath.BoundingBox {
	c := d.composite(name, TagBoundingBox)
	return gmath.BoundingBox{
		BottomLeft: gmath.Vec2{X: c[0], Y: c[1]},
		TopRight:   gmath.Vec2{X: c[2], Y: c[3]},
	}
}

func (d *Deserializer) Color(name string) gmath.Color {
	c := d.composite(name, TagColor)
	return gmath.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// object reads one polymorphic object and hands the decoded value to
// accept. Legacy always carries the empty flag; Current carries it only
// when the writer emitted it.
func (d *Deserializer) object(name string, accept func(obj any, typeName string) error) (empty bool) {
	typeName := ""
	if !d.ok() {
		return false
	}
	legacy := d.Version() == Legacy
	fn := func() {
		if err := d.r.StartObject(name); err != nil {
			d.Fail(err)
			return
		}
		if legacy || d.r.HasMember(EmptyField) {
			empty = d.Bool(EmptyField)
		}
		if empty {
			if d.ok() {
				d.Fail(d.r.FinishObject())
			}
			return
		}

		typeName = d.String(TypeField)
		if !d.ok() {
			return
		}
		traits, err := d.reg.TypeTraits(typeName)
		if err != nil {
			d.Fail(err)
			return
		}
		obj, err := traits.Deserialize(d)
		d.Fail(err)
		if !d.ok() {
			return
		}

		named, isNamed := obj.(Named)
		if (legacy && isNamed) || (!legacy && d.r.HasMember(NameField)) {
			n := d.String(NameField)
			if isNamed {
				named.SetName(n)
			}
		}
		drawable, isDrawable := obj.(Drawable)
		if (legacy && isDrawable) || (!legacy && d.r.HasMember(VisibleField)) {
			visible := d.Bool(VisibleField)
			if isDrawable {
				drawable.SetVisible(visible)
			}
		}
		if !d.ok() {
			return
		}
		d.Fail(d.r.FinishObject())
		if d.ok() {
			d.Fail(accept(obj, typeName))
		}
	}
	fn()
	if d.err != nil {
		d.err = errors.Wrapf(d.err, "can't deserialize object %s (type: %s)", name, typeName)
	}
	return empty
}

// ReadObject reads an owned object. An empty object yields the zero T.
func ReadObject[T any](d *Deserializer, name string) T {
	var out T
	d.object(name, func(obj any, typeName string) error {
		v, ok := obj.(T)
		if !ok {
			return errors.Wrapf(core.ErrTypeMismatch, "can't cast object of type %s (%T) to %s", typeName, obj, reflect.TypeOf((*T)(nil)).Elem())
		}
		out = v
		return nil
	})
	return out
}

// ReadValue reads an object into dst. dst can't represent absence, so an
// empty object fails with ErrUnsupportedOperation. A decoded *T is
// dereferenced.
func ReadValue[T any](d *Deserializer, name string, dst *T) {
	empty := d.object(name, func(obj any, typeName string) error {
		switch v := obj.(type) {
		case T:
			*dst = v
		case *T:
			*dst = *v
		default:
			return errors.Wrapf(core.ErrTypeMismatch, "can't cast object of type %s (%T) to %s", typeName, obj, reflect.TypeOf((*T)(nil)).Elem())
		}
		return nil
	})
	if empty && d.ok() {
		d.Fail(errors.Wrapf(core.ErrUnsupportedOperation, "can't read empty object %s into a value of type %s", name, reflect.TypeOf((*T)(nil)).Elem()))
	}
}

// ReadFunc reads one value; the Deserializer methods satisfy it directly,
// e.g. (*Deserializer).String, as does ReadObject[T].
type ReadFunc[T any] func(d *Deserializer, name string) T

func ReadEnum[E constraints.Integer](d *Deserializer, name string) E {
	return E(d.Int(name))
}

// Optional reads name when present and returns def otherwise.
func Optional[T any](d *Deserializer, name string, read ReadFunc[T], def T) T {
	if !d.HasMember(name) {
		return def
	}
	return read(d, name)
}

// ReadArray reads a sequence written by WriteArray.
func ReadArray[T any](d *Deserializer, name string, read ReadFunc[T]) []T {
	var out []T
	d.nested(func() {
		if d.Version() == Legacy {
			if err := d.r.StartObject(name); err != nil {
				d.Fail(err)
				return
			}
			size := int(d.Int(SizeField))
			out = readPhase(d, ElementsField, TagArray, size, read)
			if d.ok() {
				d.Fail(d.r.FinishObject())
			}
			return
		}

		n, err := d.r.StartArray(name, TagArray)
		if err != nil {
			d.Fail(err)
			return
		}
		out = make([]T, 0, n)
		for i := 0; i < n && d.ok(); i++ {
			out = append(out, read(d, ""))
		}
		if d.ok() {
			d.Fail(d.r.FinishArray())
		}
	}, "can't deserialize collection %s", name)
	if !d.ok() {
		return nil
	}
	return out
}

// ReadMap reads a map written by WriteMap.
func ReadMap[K comparable, V any](d *Deserializer, name string, readKey ReadFunc[K], readValue ReadFunc[V]) map[K]V {
	var out map[K]V
	d.nested(func() {
		if d.Version() == Legacy {
			if err := d.r.StartObject(name); err != nil {
				d.Fail(err)
				return
			}
			size := int(d.Int(SizeField))
			keys := readPhase(d, KeysField, TagKeys, size, readKey)
			values := readPhase(d, ValuesField, TagValues, size, readValue)
			if d.ok() {
				d.Fail(d.r.FinishObject())
			}
			if !d.ok() {
				return
			}
			out = make(map[K]V, size)
			for i, k := range keys {
				out[k] = values[i]
			}
			return
		}

		n, err := d.r.StartArray(name, TagMap)
		if err != nil {
			d.Fail(err)
			return
		}
		out = make(map[K]V, n)
		for i := 0; i < n && d.ok(); i++ {
			if err := d.r.StartObject(""); err != nil {
				d.Fail(err)
				return
			}
			k := readKey(d, KeyField)
			v := readValue(d, ValueField)
			if !d.ok() {
				return
			}
			out[k] = v
			d.Fail(d.r.FinishObject())
		}
		if d.ok() {
			d.Fail(d.r.FinishArray())
		}
	}, "can't deserialize map %s", name)
	if !d.ok() {
		return nil
	}
	return out
}

// readPhase reads one tagged array of a Legacy wrapper, checking it holds
// exactly size elements.
func readPhase[T any](d *Deserializer, field string, tag Tag, size int, read ReadFunc[T]) []T {
	if !d.ok() {
		return nil
	}
	n, err := d.r.StartArray(field, tag)
	if err != nil {
		d.Fail(err)
		return nil
	}
	if n != size {
		d.Fail(errors.Wrapf(core.ErrMalformedWire, "declared size %d, found %d in %s", size, n, field))
		return nil
	}
	out := make([]T, 0, n)
	for i := 0; i < n && d.ok(); i++ {
		out = append(out, read(d, ""))
	}
	if d.ok() {
		d.Fail(d.r.FinishArray())
	}
	return out
}
