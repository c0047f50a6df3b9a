package reg

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/gamebase/engine/core"
)

var ErrNotFound = errors.New("property not found")

// Registrable objects expose named live properties and sub-objects.
type Registrable interface {
	Name() string
	SetName(name string)
	Properties() *Register
	RegisterObject(b *Builder)
}

// Property is a live binding to one value of a registered object.
type Property struct {
	name string
	typ  reflect.Type
	get  func() any
	set  func(any) error
}

func (p *Property) Name() string {
	return p.name
}

func (p *Property) Type() reflect.Type {
	return p.typ
}

func (p *Property) Get() any {
	return p.get()
}

// Set assigns v, which must have the property's exact type.
func (p *Property) Set(v any) error {
	return p.set(v)
}

func (p *Property) String() string {
	return fmt.Sprint(p.get())
}

// Entry is a sub-object registered under a name; the name may be empty.
type Entry struct {
	Name   string
	Object any
}

// Register holds the properties built for one registrable object. It is
// filled once and kept until Reset.
type Register struct {
	current Registrable
	parent  Registrable
	objects []Entry
	props   []*Property
	byName  map[string]*Property
	built   bool
}

// Empty reports whether nothing was registered. An object that registers
// nothing is still built once; see Built.
func (r *Register) Empty() bool {
	return len(r.objects) == 0 && len(r.props) == 0
}

// Reset drops the cached properties; the next registration pass rebuilds them.
func (r *Register) Reset() {
	r.objects = nil
	r.props = nil
	r.byName = nil
	r.built = false
}

// Built reports whether a registration pass completed for this register.
func (r *Register) Built() bool {
	return r.built
}

func (r *Register) Current() Registrable {
	return r.current
}

func (r *Register) Parent() Registrable {
	return r.parent
}

func (r *Register) Objects() []Entry {
	return r.objects
}

func (r *Register) Properties() []*Property {
	return r.props
}

func (r *Register) Property(name string) (*Property, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Object returns the first sub-object registered under name.
func (r *Register) Object(name string) (any, bool) {
	for _, e := range r.objects {
		if e.Name == name {
			return e.Object, true
		}
	}
	return nil, false
}

func (r *Register) addObject(name string, obj any) {
	r.objects = append(r.objects, Entry{Name: name, Object: obj})
}

func (r *Register) addProperty(p *Property) {
	if r.byName == nil {
		r.byName = make(map[string]*Property)
	}
	r.props = append(r.props, p)
	r.byName[p.name] = p
}

// Lookup resolves a dotted path such as "layout.ok.textColorR". Anonymous
// sub-objects are addressed as "#<index>".
func (r *Register) Lookup(path string) (*Property, error) {
	parts := strings.Split(path, ".")
	cur := r
	for _, part := range parts[:len(parts)-1] {
		obj, ok := cur.child(part)
		if !ok {
			return nil, errors.Wrapf(ErrNotFound, "no object %s in %s", part, path)
		}
		registrable, ok := obj.(Registrable)
		if !ok {
			return nil, errors.Wrapf(core.ErrTypeMismatch, "object %s in %s is not registrable", part, path)
		}
		cur = registrable.Properties()
	}
	p, ok := cur.Property(parts[len(parts)-1])
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	}
	return p, nil
}

func (r *Register) child(part string) (any, bool) {
	if strings.HasPrefix(part, "#") {
		i, err := strconv.Atoi(part[1:])
		if err != nil || i < 0 || i >= len(r.objects) {
			return nil, false
		}
		return r.objects[i].Object, true
	}
	return r.Object(part)
}

// Walk visits every property depth-first with its qualified name. Returning
// false from fn stops the walk.
func (r *Register) Walk(fn func(path string, p *Property) bool) {
	r.walk("", fn, map[*Register]bool{})
}

func (r *Register) walk(prefix string, fn func(string, *Property) bool, seen map[*Register]bool) bool {
	if seen[r] {
		return true
	}
	seen[r] = true
	defer delete(seen, r)

	for _, p := range r.props {
		if !fn(prefix+p.name, p) {
			return false
		}
	}
	for i, e := range r.objects {
		registrable, ok := e.Object.(Registrable)
		if !ok {
			continue
		}
		name := e.Name
		if name == "" {
			name = "#" + strconv.Itoa(i)
		}
		if !registrable.Properties().walk(prefix+name+".", fn, seen) {
			return false
		}
	}
	return true
}

// FindParentOfType returns the nearest registered ancestor of type T.
func FindParentOfType[T any](r *Register) (T, bool) {
	for p := r.parent; p != nil; p = p.Properties().parent {
		if t, ok := p.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
