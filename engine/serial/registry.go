package serial

import (
	"reflect"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/spaghettifunk/gamebase/engine/core"
)

type DeserializeFunc func(d *Deserializer) (any, error)
type SerializeFunc func(obj any, s *Serializer) error

// TypeTraits describes one registered type.
type TypeTraits struct {
	Name        string
	Type        reflect.Type
	Deserialize DeserializeFunc
	Serialize   SerializeFunc
}

// Registry maps wire type names and Go types to their traits. Entries are
// replaced on re-registration.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*TypeTraits
	byType map[reflect.Type]*TypeTraits
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry populated by package init funcs.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*TypeTraits),
		byType: make(map[reflect.Type]*TypeTraits),
	}
}

// Register adds or replaces the traits for name and typ. A nil serialize
// func requires the object to implement Serializable at run time.
func (r *Registry) Register(name string, typ reflect.Type, deserialize DeserializeFunc, serialize SerializeFunc) {
	if serialize == nil {
		serialize = serializeSerializable
	}
	traits := &TypeTraits{
		Name:        name,
		Type:        typ,
		Deserialize: deserialize,
		Serialize:   serialize,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byName[name]; ok && prev.Type != typ {
		core.LogDebug("type name %s now bound to %s (was %s)", name, typ, prev.Type)
	}
	r.byName[name] = traits
	r.byType[typ] = traits
}

// RegisterType registers T in the default registry.
func RegisterType[T any](name string, deserialize func(d *Deserializer) (T, error), serialize ...func(obj T, s *Serializer) error) {
	RegisterTypeIn(Default(), name, deserialize, serialize...)
}

// RegisterTypeIn registers T in r under name.
func RegisterTypeIn[T any](r *Registry, name string, deserialize func(d *Deserializer) (T, error), serialize ...func(obj T, s *Serializer) error) {
	var ser SerializeFunc
	if len(serialize) > 0 && serialize[0] != nil {
		fn := serialize[0]
		ser = func(obj any, s *Serializer) error {
			typed, ok := obj.(T)
			if !ok {
				return errors.Wrapf(core.ErrTypeMismatch, "can't serialize %T as %s", obj, name)
			}
			return fn(typed, s)
		}
	}
	r.Register(name, reflect.TypeOf((*T)(nil)).Elem(), func(d *Deserializer) (any, error) {
		v, err := deserialize(d)
		if err != nil {
			return nil, err
		}
		return v, nil
	}, ser)
}

func (r *Registry) TypeTraits(name string) (*TypeTraits, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	traits, ok := r.byName[name]
	if !ok {
		return nil, errors.Wrapf(core.ErrNotRegistered, "type name %q", name)
	}
	return traits, nil
}

func (r *Registry) TypeTraitsOf(typ reflect.Type) (*TypeTraits, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	traits, ok := r.byType[typ]
	if !ok {
		return nil, errors.Wrapf(core.ErrNotRegistered, "type %s", typ)
	}
	return traits, nil
}

func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

func (r *Registry) IsTypeRegistered(typ reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byType[typ]
	return ok
}

// Types lists the registered type names in ascending order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	names := lo.Keys(r.byName)
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func serializeSerializable(obj any, s *Serializer) error {
	ser, ok := obj.(Serializable)
	if !ok {
		return errors.Wrapf(core.ErrTypeMismatch, "object of type %T is not serializable", obj)
	}
	ser.Serialize(s)
	return nil
}
