package serial

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"

	"github.com/spaghettifunk/gamebase/engine/core"
)

type readFrame struct {
	array bool
	name  string

	elems []gjson.Result
	next  int

	members map[string][]gjson.Result
	taken   map[string]int
}

func newObjectFrame(name string, v gjson.Result) *readFrame {
	f := &readFrame{
		name:    name,
		members: make(map[string][]gjson.Result),
		taken:   make(map[string]int),
	}
	v.ForEach(func(key, value gjson.Result) bool {
		f.members[key.Str] = append(f.members[key.Str], value)
		return true
	})
	return f
}

// JSONReader reads a document produced by JSONWriter. Members sharing a
// name are consumed in document order.
type JSONReader struct {
	root    gjson.Result
	version Version
	frames  []*readFrame
	started bool
}

// NewJSONReader parses data. A document without a version member is Legacy.
func NewJSONReader(data []byte) (*JSONReader, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.Wrap(core.ErrMalformedWire, "invalid JSON document")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.Wrap(core.ErrMalformedWire, "document root is not an object")
	}
	version := Legacy
	if v := root.Get(VersionField); v.Exists() {
		if v.Type != gjson.Number {
			return nil, errors.Wrapf(core.ErrMalformedWire, "%s is not a number", VersionField)
		}
		version = Version(v.Int())
		if !version.Valid() {
			return nil, errors.Wrapf(core.ErrMalformedWire, "unsupported version %d", v.Int())
		}
	}
	return &JSONReader{root: root, version: version}, nil
}

func (r *JSONReader) Version() Version {
	return r.version
}

func (r *JSONReader) top() *readFrame {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

func (r *JSONReader) HasMember(name string) bool {
	f := r.top()
	if f == nil || f.array {
		return false
	}
	return f.taken[name] < len(f.members[name])
}

func (r *JSONReader) take(name string) (gjson.Result, error) {
	f := r.top()
	if f == nil {
		return gjson.Result{}, errors.Wrapf(core.ErrMalformedWire, "member %q read outside of the root object", name)
	}
	if f.array {
		if f.next >= len(f.elems) {
			return gjson.Result{}, errors.Wrapf(core.ErrMalformedWire, "array %s has no element %d", f.name, f.next)
		}
		v := f.elems[f.next]
		f.next++
		return v, nil
	}
	if name == "" {
		return gjson.Result{}, errors.Wrapf(core.ErrMalformedWire, "anonymous read inside object %s", f.name)
	}
	i := f.taken[name]
	if i >= len(f.members[name]) {
		return gjson.Result{}, errors.Wrapf(core.ErrMalformedWire, "member %s not found", name)
	}
	f.taken[name] = i + 1
	return f.members[name][i], nil
}

func (r *JSONReader) number(name string) (string, error) {
	v, err := r.take(name)
	if err != nil {
		return "", err
	}
	if v.Type != gjson.Number {
		return "", errors.Wrapf(core.ErrMalformedWire, "%s is not a number: %s", name, v.Raw)
	}
	return v.Raw, nil
}

func parseErr(name string, err error) error {
	return errors.Wrapf(core.ErrMalformedWire, "can't parse %s: %v", name, err)
}

func (r *JSONReader) ReadFloat(name string) (float32, error) {
	raw, err := r.number(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, parseErr(name, err)
	}
	return float32(f), nil
}

func (r *JSONReader) ReadDouble(name string) (float64, error) {
	raw, err := r.number(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, parseErr(name, err)
	}
	return f, nil
}

func (r *JSONReader) ReadInt(name string) (int32, error) {
	raw, err := r.number(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, parseErr(name, err)
	}
	return int32(i), nil
}

func (r *JSONReader) ReadUInt(name string) (uint32, error) {
	raw, err := r.number(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, parseErr(name, err)
	}
	return uint32(i), nil
}

func (r *JSONReader) ReadInt64(name string) (int64, error) {
	raw, err := r.number(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, parseErr(name, err)
	}
	return i, nil
}

func (r *JSONReader) ReadUInt64(name string) (uint64, error) {
	raw, err := r.number(name)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, parseErr(name, err)
	}
	return i, nil
}

func (r *JSONReader) ReadBool(name string) (bool, error) {
	v, err := r.take(name)
	if err != nil {
		return false, err
	}
	switch v.Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	}
	return false, errors.Wrapf(core.ErrMalformedWire, "%s is not a boolean: %s", name, v.Raw)
}

func (r *JSONReader) ReadString(name string) (string, error) {
	v, err := r.take(name)
	if err != nil {
		return "", err
	}
	if v.Type != gjson.String {
		return "", errors.Wrapf(core.ErrMalformedWire, "%s is not a string: %s", name, v.Raw)
	}
	return v.Str, nil
}

func (r *JSONReader) StartObject(name string) error {
	if len(r.frames) == 0 {
		if r.started {
			return errors.Wrap(core.ErrMalformedWire, "root object already read")
		}
		r.started = true
		r.frames = append(r.frames, newObjectFrame(name, r.root))
		return nil
	}
	v, err := r.take(name)
	if err != nil {
		return err
	}
	if !v.IsObject() {
		return errors.Wrapf(core.ErrMalformedWire, "%s is not an object: %s", name, v.Raw)
	}
	r.frames = append(r.frames, newObjectFrame(name, v))
	return nil
}

func (r *JSONReader) FinishObject() error {
	return r.pop(false)
}

func (r *JSONReader) StartArray(name string, tag Tag) (int, error) {
	v, err := r.take(name)
	if err != nil {
		return 0, err
	}
	if !v.IsArray() {
		return 0, errors.Wrapf(core.ErrMalformedWire, "%s is not a %s array: %s", name, tag, v.Raw)
	}
	elems := v.Array()
	r.frames = append(r.frames, &readFrame{array: true, name: name, elems: elems})
	return len(elems), nil
}

func (r *JSONReader) FinishArray() error {
	return r.pop(true)
}

func (r *JSONReader) pop(array bool) error {
	f := r.top()
	if f == nil || f.array != array {
		return errors.Wrap(core.ErrMalformedWire, "unbalanced finish call")
	}
	r.frames = r.frames[:len(r.frames)-1]
	return nil
}
