package serial

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/spaghettifunk/gamebase/engine/core"
)

type writeFrame struct {
	array bool
	count int
	path  string
	loc   Location
	// occurrences of each member name written so far
	names map[string]int
}

// JSONWriter streams the protocol into a JSON document. The root object
// is opened with an empty name and gets the version as its first member.
type JSONWriter struct {
	stream   *jsoniter.Stream
	version  Version
	frames   []writeFrame
	lastPath string
	lastLoc  Location
	done     bool
}

// NewJSONWriter creates a writer; indent > 0 pretty-prints with that many
// spaces per level.
func NewJSONWriter(version Version, indent int) *JSONWriter {
	cfg := jsoniter.Config{IndentionStep: indent}.Froze()
	return &JSONWriter{
		stream:  jsoniter.NewStream(cfg, nil, 1024),
		version: version,
	}
}

func (w *JSONWriter) Version() Version {
	return w.version
}

// Path returns the sjson path of the last written member. A repeated
// member name resolves to its first occurrence; use Location to address
// the exact member.
func (w *JSONWriter) Path() string {
	return w.lastPath
}

// Location returns the positional address of the last written member.
func (w *JSONWriter) Location() Location {
	return w.lastLoc
}

// Bytes returns the finished document.
func (w *JSONWriter) Bytes() ([]byte, error) {
	if w.stream.Error != nil {
		return nil, errors.Wrap(w.stream.Error, "can't encode document")
	}
	if !w.done {
		return nil, errors.Wrap(core.ErrMalformedWire, "document is not finished")
	}
	buf := w.stream.Buffer()
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

func (w *JSONWriter) member(name string) error {
	if len(w.frames) == 0 {
		return errors.Wrapf(core.ErrMalformedWire, "member %q written outside of the root object", name)
	}
	top := &w.frames[len(w.frames)-1]
	var (
		path string
		step Step
	)
	if top.array {
		path = joinPath(top.path, strconv.Itoa(top.count))
		step = Step{Index: top.count}
	} else {
		if name == "" {
			return errors.Wrap(core.ErrMalformedWire, "anonymous member inside an object")
		}
		path = joinPath(top.path, EscapePath(name))
		if top.names == nil {
			top.names = make(map[string]int)
		}
		step = Step{Name: name, Index: top.names[name]}
		top.names[name]++
	}
	if top.count > 0 {
		w.stream.WriteMore()
	}
	if !top.array {
		w.stream.WriteObjectField(name)
	}
	top.count++
	w.lastPath = path
	w.lastLoc = append(top.loc[:len(top.loc):len(top.loc)], step)
	return nil
}

func (w *JSONWriter) check() error {
	if w.stream.Error != nil {
		return errors.Wrap(w.stream.Error, "can't encode value")
	}
	return nil
}

func (w *JSONWriter) WriteFloat(name string, v float32) error {
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteFloat32(v)
	return w.check()
}

func (w *JSONWriter) WriteDouble(name string, v float64) error {
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteFloat64(v)
	return w.check()
}

func (w *JSONWriter) WriteInt(name string, v int32) error {
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteInt32(v)
	return nil
}

func (w *JSONWriter) WriteUInt(name string, v uint32) error {
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteUint32(v)
	return nil
}

func (w *JSONWriter) WriteInt64(name string, v int64) error {
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteInt64(v)
	return nil
}

func (w *JSONWriter) WriteUInt64(name string, v uint64) error {
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteUint64(v)
	return nil
}

func (w *JSONWriter) WriteBool(name string, v bool) error {
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteBool(v)
	return nil
}

func (w *JSONWriter) WriteString(name string, v string) error {
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteString(v)
	return nil
}

func (w *JSONWriter) StartObject(name string) error {
	if len(w.frames) == 0 {
		if w.done {
			return errors.Wrap(core.ErrMalformedWire, "document already finished")
		}
		w.stream.WriteObjectStart()
		w.frames = append(w.frames, writeFrame{})
		return w.WriteInt(VersionField, int32(w.version))
	}
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteObjectStart()
	w.frames = append(w.frames, writeFrame{path: w.lastPath, loc: w.lastLoc})
	return nil
}

func (w *JSONWriter) FinishObject() error {
	if err := w.pop(false); err != nil {
		return err
	}
	w.stream.WriteObjectEnd()
	if len(w.frames) == 0 {
		w.done = true
	}
	return nil
}

func (w *JSONWriter) StartArray(name string, _ Tag) error {
	if err := w.member(name); err != nil {
		return err
	}
	w.stream.WriteArrayStart()
	w.frames = append(w.frames, writeFrame{array: true, path: w.lastPath, loc: w.lastLoc})
	return nil
}

func (w *JSONWriter) FinishArray() error {
	if err := w.pop(true); err != nil {
		return err
	}
	w.stream.WriteArrayEnd()
	return nil
}

func (w *JSONWriter) pop(array bool) error {
	if len(w.frames) == 0 || w.frames[len(w.frames)-1].array != array {
		return errors.Wrap(core.ErrMalformedWire, "unbalanced finish call")
	}
	w.frames = w.frames[:len(w.frames)-1]
	return nil
}

func joinPath(prefix, component string) string {
	if prefix == "" {
		return component
	}
	return prefix + "." + component
}

const pathSpecials = `\.*?|#@!=<>%:`

// EscapePath escapes a member name for use as one sjson/gjson path component.
func EscapePath(name string) string {
	if !strings.ContainsAny(name, pathSpecials) {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(pathSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
