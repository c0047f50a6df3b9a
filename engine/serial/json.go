package serial

import "github.com/cockroachdb/errors"

type options struct {
	version  Version
	indent   int
	registry *Registry
}

type Option func(*options)

func WithVersion(v Version) Option {
	return func(o *options) { o.version = v }
}

func WithIndent(spaces int) Option {
	return func(o *options) { o.indent = spaces }
}

func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

func buildOptions(opts []Option) options {
	o := options{version: Current, registry: Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Marshal encodes obj as the root object of a design document.
func Marshal(obj any, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	if !o.version.Valid() {
		return nil, errors.Newf("unsupported version %d", int(o.version))
	}
	w := NewJSONWriter(o.version, o.indent)
	s := NewSerializer(w, o.registry)
	if err := s.Object("", obj).Err(); err != nil {
		return nil, err
	}
	return w.Bytes()
}

// Unmarshal decodes the root object of a design document as T. The
// document version is taken from the data; WithVersion is ignored.
func Unmarshal[T any](data []byte, opts ...Option) (T, error) {
	var zero T
	o := buildOptions(opts)
	r, err := NewJSONReader(data)
	if err != nil {
		return zero, err
	}
	d := NewDeserializer(r, o.registry)
	v := ReadObject[T](d, "")
	if err := d.Err(); err != nil {
		return zero, err
	}
	return v, nil
}
