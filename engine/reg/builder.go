package reg

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/gamebase/engine/core"
	gmath "github.com/spaghettifunk/gamebase/engine/math"
)

// Builder fills the Register of the object currently being registered.
// The first error sticks.
type Builder struct {
	current Registrable
	err     error
}

// NewBuilder returns a root builder, not attached to any object.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) Fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Build registers root and its whole property tree with a fresh root builder.
func Build(root Registrable) error {
	return NewBuilder().RegisterObject(root).Err()
}

// RegisterObject registers obj under its own name, or anonymously when it
// has none.
func (b *Builder) RegisterObject(obj any) *Builder {
	if b.err != nil {
		return b
	}
	if registrable, ok := obj.(Registrable); ok {
		name := registrable.Name()
		b.registerInCurrent(name, obj)
		b.buildRegister(name, registrable)
	} else {
		b.registerInCurrent("", obj)
	}
	return b
}

// RegisterObjectNamed registers obj under name. A registrable object with
// a name of its own is additionally reachable under that name.
func (b *Builder) RegisterObjectNamed(name string, obj any) *Builder {
	if b.err != nil {
		return b
	}
	regName := name
	registrable, ok := obj.(Registrable)
	if ok {
		if own := registrable.Name(); own != "" {
			b.registerInCurrent(own, obj)
			if name == "" {
				regName = own
			}
		}
	}
	if regName == "" || name != "" {
		b.registerInCurrent(name, obj)
	}
	if ok {
		b.buildRegister(regName, registrable)
	}
	return b
}

func (b *Builder) registerInCurrent(name string, obj any) {
	if b.current != nil {
		b.current.Properties().addObject(name, obj)
	}
}

func (b *Builder) buildRegister(regName string, r Registrable) {
	props := r.Properties()
	props.current = r
	props.parent = b.current
	if props.built {
		return
	}
	props.Reset()
	sub := &Builder{current: r}
	r.RegisterObject(sub)
	if sub.err != nil {
		props.Reset()
		b.Fail(errors.Wrapf(sub.err, "can't register object %s", regName))
		return
	}
	props.built = true
}

func (b *Builder) add(p *Property) {
	if b.err != nil {
		return
	}
	if b.current == nil {
		b.Fail(errors.Newf("property %s registered outside of an object", p.name))
		return
	}
	b.current.Properties().addProperty(p)
}

// RegisterProperty binds name to *ptr. notify, when given, runs after
// every Set.
func RegisterProperty[T any](b *Builder, name string, ptr *T, notify ...func()) {
	var fn func()
	if len(notify) > 0 {
		fn = notify[0]
	}
	b.add(newProperty(name, ptr, fn))
}

func newProperty[T any](name string, ptr *T, notify func()) *Property {
	return &Property{
		name: name,
		typ:  reflect.TypeOf((*T)(nil)).Elem(),
		get:  func() any { return *ptr },
		set: func(v any) error {
			typed, ok := v.(T)
			if !ok {
				return errors.Wrapf(core.ErrTypeMismatch, "property %s holds %s, got %T", name, reflect.TypeOf((*T)(nil)).Elem(), v)
			}
			*ptr = typed
			if notify != nil {
				notify()
			}
			return nil
		},
	}
}

// RegisterColor binds the colour and its channels as <name>R/G/B/A.
func (b *Builder) RegisterColor(name string, c *gmath.Color, notify ...func()) *Builder {
	RegisterProperty(b, name, c, notify...)
	RegisterProperty(b, name+"R", &c.R, notify...)
	RegisterProperty(b, name+"G", &c.G, notify...)
	RegisterProperty(b, name+"B", &c.B, notify...)
	RegisterProperty(b, name+"A", &c.A, notify...)
	return b
}

// RegisterVec2 binds the vector and its components as <name>X/Y.
func (b *Builder) RegisterVec2(name string, v *gmath.Vec2, notify ...func()) *Builder {
	RegisterProperty(b, name, v, notify...)
	RegisterProperty(b, name+"X", &v.X, notify...)
	RegisterProperty(b, name+"Y", &v.Y, notify...)
	return b
}
