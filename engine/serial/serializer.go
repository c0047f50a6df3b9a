package serial

import (
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"golang.org/x/exp/constraints"

	gmath "github.com/spaghettifunk/gamebase/engine/math"
)

// Serializer is the typed write side. Calls chain; the first error sticks
// and turns every later call into a no-op.
type Serializer struct {
	w   Writer
	reg *Registry
	err error
}

// NewSerializer writes through w resolving types in reg (nil means Default).
func NewSerializer(w Writer, reg *Registry) *Serializer {
	if reg == nil {
		reg = Default()
	}
	return &Serializer{w: w, reg: reg}
}

func (s *Serializer) Err() error {
	return s.err
}

func (s *Serializer) Version() Version {
	return s.w.Version()
}

// Fail records err unless an earlier error is already recorded.
func (s *Serializer) Fail(err error) *Serializer {
	if s.err == nil && err != nil {
		s.err = err
	}
	return s
}

func (s *Serializer) ok() bool {
	return s.err == nil
}

// nested runs fn and annotates any error it produced.
func (s *Serializer) nested(fn func(), format string, args ...interface{}) {
	if !s.ok() {
		return
	}
	fn()
	if s.err != nil {
		s.err = errors.Wrapf(s.err, format, args...)
	}
}

func (s *Serializer) Float(name string, v float32) *Serializer {
	if s.ok() {
		s.Fail(s.w.WriteFloat(name, v))
	}
	return s
}

func (s *Serializer) Double(name string, v float64) *Serializer {
	if s.ok() {
		s.Fail(s.w.WriteDouble(name, v))
	}
	return s
}

func (s *Serializer) Int(name string, v int32) *Serializer {
	if s.ok() {
		s.Fail(s.w.WriteInt(name, v))
	}
	return s
}

func (s *Serializer) UInt(name string, v uint32) *Serializer {
	if s.ok() {
		s.Fail(s.w.WriteUInt(name, v))
	}
	return s
}

func (s *Serializer) Int64(name string, v int64) *Serializer {
	if s.ok() {
		s.Fail(s.w.WriteInt64(name, v))
	}
	return s
}

func (s *Serializer) UInt64(name string, v uint64) *Serializer {
	if s.ok() {
		s.Fail(s.w.WriteUInt64(name, v))
	}
	return s
}

func (s *Serializer) Bool(name string, v bool) *Serializer {
	if s.ok() {
		s.Fail(s.w.WriteBool(name, v))
	}
	return s
}

func (s *Serializer) String(name string, v string) *Serializer {
	if s.ok() {
		s.Fail(s.w.WriteString(name, v))
	}
	return s
}

// composite writes the fixed-shape float sequence of a primitive tag.
func (s *Serializer) composite(name string, tag Tag, values ...float32) *Serializer {
	if !s.ok() {
		return s
	}
	if err := s.w.StartArray(name, tag); err != nil {
		return s.Fail(err)
	}
	for _, v := range values {
		s.Float("", v)
	}
	if s.ok() {
		s.Fail(s.w.FinishArray())
	}
	return s
}

func (s *Serializer) Vec2(name string, v gmath.Vec2) *Serializer {
	return s.composite(name, TagVec2, v.X, v.Y)
}

func (s *Serializer) Matrix2(name string, m gmath.Matrix2) *Serializer {
	return s.composite(name, TagMatrix2, m.M00, m.M01, m.M10, m.M11)
}

func (s *Serializer) Transform2(name string, t gmath.Transform2) *Serializer {
	m := t.Matrix
	return s.composite(name, TagTransform2, m.M00, m.M01, m.M10, m.M11, t.Offset.X, t.Offset.Y)
}

func (s *Serializer) BoundingBox(name string, b gmath.BoundingBox) *Serializer {
	return s.composite(name, TagBoundingBox, b.BottomLeft.X, b.BottomLeft.Y, b.TopRight.X, b.TopRight.Y)
}

func (s *Serializer) Color(name string, c gmath.Color) *Serializer {
	return s.composite(name, TagColor, c.R, c.G, c.B, c.A)
}

// Object writes a polymorphic object: empty marker, registered type name,
// the type's own fields, then the name and visibility of objects that
// have them. A nil obj is written as an empty object.
func (s *Serializer) Object(name string, obj any) *Serializer {
	if !s.ok() {
		return s
	}
	if isNil(obj) {
		s.nested(func() {
			s.Fail(s.w.StartObject(name))
			s.Bool(EmptyField, true)
			if s.ok() {
				s.Fail(s.w.FinishObject())
			}
		}, "can't serialize empty object %s", name)
		return s
	}

	traits, err := s.reg.TypeTraitsOf(reflect.TypeOf(obj))
	if err != nil {
		return s.Fail(errors.Wrapf(err, "can't serialize object %s", name))
	}
	s.nested(func() {
		s.Fail(s.w.StartObject(name))
		s.Bool(EmptyField, false)
		s.String(TypeField, traits.Name)
		if !s.ok() {
			return
		}
		s.Fail(traits.Serialize(obj, s))
		if named, ok := obj.(Named); ok {
			s.String(NameField, named.Name())
		}
		if drawable, ok := obj.(Drawable); ok {
			s.Bool(VisibleField, drawable.IsVisible())
		}
		if s.ok() {
			s.Fail(s.w.FinishObject())
		}
	}, "can't serialize object %s (type: %s)", name, traits.Name)
	return s
}

func isNil(obj any) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// WriteFunc writes one value; the Serializer methods satisfy it directly,
// e.g. (*Serializer).String.
type WriteFunc[T any] func(s *Serializer, name string, v T) *Serializer

// WriteObject is the WriteFunc for polymorphic objects.
func WriteObject[T any](s *Serializer, name string, v T) *Serializer {
	return s.Object(name, v)
}

func WriteEnum[E constraints.Integer](s *Serializer, name string, v E) *Serializer {
	return s.Int(name, int32(v))
}

// WriteArray writes items in order. Legacy wraps the elements in an object
// carrying their count.
func WriteArray[T any](s *Serializer, name string, items []T, write WriteFunc[T]) *Serializer {
	s.nested(func() {
		legacy := s.Version() == Legacy
		if legacy {
			s.Fail(s.w.StartObject(name))
			s.Int(SizeField, int32(len(items)))
			if s.ok() {
				s.Fail(s.w.StartArray(ElementsField, TagArray))
			}
		} else {
			s.Fail(s.w.StartArray(name, TagArray))
		}
		for _, item := range items {
			if !s.ok() {
				return
			}
			write(s, "", item)
		}
		if s.ok() {
			s.Fail(s.w.FinishArray())
		}
		if legacy && s.ok() {
			s.Fail(s.w.FinishObject())
		}
	}, "can't serialize collection %s", name)
	return s
}

// WriteMap writes m in ascending key order. Current emits an array of
// key/value pair objects, Legacy a wrapper with parallel key and value
// arrays.
func WriteMap[K constraints.Ordered, V any](s *Serializer, name string, m map[K]V, writeKey WriteFunc[K], writeValue WriteFunc[V]) *Serializer {
	keys := lo.Keys(m)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	s.nested(func() {
		if s.Version() == Legacy {
			s.Fail(s.w.StartObject(name))
			s.Int(SizeField, int32(len(keys)))
			s.phase(KeysField, TagKeys, func() {
				for _, k := range keys {
					writeKey(s, "", k)
				}
			})
			s.phase(ValuesField, TagValues, func() {
				for _, k := range keys {
					writeValue(s, "", m[k])
				}
			})
			if s.ok() {
				s.Fail(s.w.FinishObject())
			}
			return
		}

		s.Fail(s.w.StartArray(name, TagMap))
		for _, k := range keys {
			if !s.ok() {
				return
			}
			s.Fail(s.w.StartObject(""))
			writeKey(s, KeyField, k)
			writeValue(s, ValueField, m[k])
			if s.ok() {
				s.Fail(s.w.FinishObject())
			}
		}
		if s.ok() {
			s.Fail(s.w.FinishArray())
		}
	}, "can't serialize map %s", name)
	return s
}

func (s *Serializer) phase(name string, tag Tag, fn func()) {
	if !s.ok() {
		return
	}
	if err := s.w.StartArray(name, tag); err != nil {
		s.Fail(err)
		return
	}
	fn()
	if s.ok() {
		s.Fail(s.w.FinishArray())
	}
}
