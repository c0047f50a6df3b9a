package editor

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/spaghettifunk/gamebase/engine/containers"
	"github.com/spaghettifunk/gamebase/engine/core"
	"github.com/spaghettifunk/gamebase/engine/serial"
)

type objKind int

const (
	kindUnset objKind = iota
	kindPrimitiveArray
	kindObject
	kindArray
	kindMap
)

// properties is the node new rows attach to.
type properties struct {
	id    int
	panel *Panel
}

// mapProperties remembers the entry nodes created in a map's keys phase so
// the values phase attaches to them in the same order.
type mapProperties struct {
	elements []properties
	current  int
}

// DesignViewBuilder is a serial.Writer that turns the write calls of one
// object walk into tree nodes and property rows. It reports the Legacy
// version so collections arrive as {size, elements} and {size, keys,
// values} wrappers.
type DesignViewBuilder struct {
	tree  *TreeView
	menu  *PropertiesMenu
	model *DesignModel

	kinds *containers.Stack[objKind]
	tags  *containers.Stack[serial.Tag]
	props *containers.Stack[properties]
	maps  *containers.Stack[*mapProperties]

	curName        string
	primitiveIndex int

	nodes int
	rows  int
}

// NewDesignViewBuilder attaches new nodes under rootID of tree.
func NewDesignViewBuilder(tree *TreeView, menu *PropertiesMenu, rootID int) *DesignViewBuilder {
	b := &DesignViewBuilder{
		tree:  tree,
		menu:  menu,
		kinds: containers.NewStack[objKind](16),
		tags:  containers.NewStack[serial.Tag](16),
		props: containers.NewStack[properties](16),
		maps:  containers.NewStack[*mapProperties](4),
	}
	b.props.Push(properties{id: rootID})
	return b
}

// WithModel mirrors every write into m so rows get bound to model paths.
func (b *DesignViewBuilder) WithModel(m *DesignModel) *DesignViewBuilder {
	b.model = m
	return b
}

// Nodes returns the number of tree nodes created so far.
func (b *DesignViewBuilder) Nodes() int {
	return b.nodes
}

// Rows returns the number of property rows created so far.
func (b *DesignViewBuilder) Rows() int {
	return b.rows
}

func (b *DesignViewBuilder) Version() serial.Version {
	return serial.Legacy
}

func (b *DesignViewBuilder) tee(fn func(w serial.Writer) error) error {
	if b.model == nil {
		return nil
	}
	return fn(b.model.writer())
}

func (b *DesignViewBuilder) WriteFloat(name string, v float32) error {
	if err := b.tee(func(w serial.Writer) error { return w.WriteFloat(name, v) }); err != nil {
		return err
	}
	fullName, err := b.propertyName(name)
	if err != nil {
		return err
	}
	if b.topKind() == kindPrimitiveArray {
		tag, _ := b.tags.Top()
		suffix, ok := tag.Suffix(b.primitiveIndex)
		if !ok {
			return errors.Wrapf(core.ErrMalformedWire, "%s %s has more than %d components", tag, fullName, tag.Size())
		}
		b.primitiveIndex++
		fullName += suffix
	}
	return b.addProperty(fullName, Float, strconv.FormatFloat(float64(v), 'g', -1, 32))
}

func (b *DesignViewBuilder) WriteDouble(name string, v float64) error {
	if err := b.tee(func(w serial.Writer) error { return w.WriteDouble(name, v) }); err != nil {
		return err
	}
	return b.addNamedProperty(name, Double, strconv.FormatFloat(v, 'g', -1, 64))
}

func (b *DesignViewBuilder) WriteInt(name string, v int32) error {
	if err := b.tee(func(w serial.Writer) error { return w.WriteInt(name, v) }); err != nil {
		return err
	}
	if name == serial.SizeField {
		return nil
	}
	return b.addNamedProperty(name, Int, strconv.FormatInt(int64(v), 10))
}

func (b *DesignViewBuilder) WriteUInt(name string, v uint32) error {
	if err := b.tee(func(w serial.Writer) error { return w.WriteUInt(name, v) }); err != nil {
		return err
	}
	return b.addNamedProperty(name, UInt, strconv.FormatUint(uint64(v), 10))
}

func (b *DesignViewBuilder) WriteInt64(name string, v int64) error {
	if err := b.tee(func(w serial.Writer) error { return w.WriteInt64(name, v) }); err != nil {
		return err
	}
	return b.addNamedProperty(name, Int64, strconv.FormatInt(v, 10))
}

func (b *DesignViewBuilder) WriteUInt64(name string, v uint64) error {
	if err := b.tee(func(w serial.Writer) error { return w.WriteUInt64(name, v) }); err != nil {
		return err
	}
	return b.addNamedProperty(name, UInt64, strconv.FormatUint(v, 10))
}

func (b *DesignViewBuilder) WriteBool(name string, v bool) error {
	if err := b.tee(func(w serial.Writer) error { return w.WriteBool(name, v) }); err != nil {
		return err
	}
	if name == serial.EmptyField {
		// only a present-but-empty object needs a placeholder node
		if v && b.topKind() == kindUnset {
			p, err := b.createProperties(b.curName, "empty")
			if err != nil {
				return err
			}
			b.props.Push(p)
			return b.setTopKind(kindObject)
		}
		return nil
	}
	return b.addNamedProperty(name, Bool, strconv.FormatBool(v))
}

func (b *DesignViewBuilder) WriteString(name string, v string) error {
	if err := b.tee(func(w serial.Writer) error { return w.WriteString(name, v) }); err != nil {
		return err
	}
	if name == serial.TypeField {
		p, err := b.createProperties(b.curName, v)
		if err != nil {
			return err
		}
		b.props.Push(p)
		return b.setTopKind(kindObject)
	}
	return b.addNamedProperty(name, String, v)
}

func (b *DesignViewBuilder) StartObject(name string) error {
	if err := b.tee(func(w serial.Writer) error { return w.StartObject(name) }); err != nil {
		return err
	}
	b.kinds.Push(kindUnset)
	b.curName = name
	return nil
}

func (b *DesignViewBuilder) FinishObject() error {
	if err := b.tee(func(w serial.Writer) error { return w.FinishObject() }); err != nil {
		return err
	}
	kind, ok := b.kinds.Pop()
	if !ok {
		return errors.Wrap(core.ErrMalformedWire, "finishing an object that was not started")
	}
	switch kind {
	case kindObject, kindArray, kindMap:
		b.props.Pop()
	}
	if kind == kindMap {
		b.maps.Pop()
	}
	return nil
}

func (b *DesignViewBuilder) StartArray(name string, tag serial.Tag) error {
	if err := b.tee(func(w serial.Writer) error { return w.StartArray(name, tag) }); err != nil {
		return err
	}
	switch {
	case tag == serial.TagArray:
		p, err := b.createProperties(b.curName, "array")
		if err != nil {
			return err
		}
		b.props.Push(p)
		b.tags.Push(tag)
		return b.setTopKind(kindArray)

	case tag == serial.TagKeys:
		p, err := b.createProperties(b.curName, "map")
		if err != nil {
			return err
		}
		b.props.Push(p)
		b.tags.Push(tag)
		b.maps.Push(&mapProperties{})
		return b.setTopKind(kindMap)

	case tag == serial.TagValues:
		if b.topKind() != kindMap {
			return errors.Wrapf(core.ErrBadMapShape, "values of %s outside of a map", name)
		}
		b.tags.Push(tag)
		return nil

	case tag.IsPrimitive():
		b.curName = name
		if k := b.topKind(); k == kindArray || k == kindMap {
			p, err := b.currentPropertiesForPrimitive("primitive array")
			if err != nil {
				return err
			}
			b.props.Push(p)
		}
		b.kinds.Push(kindPrimitiveArray)
		b.primitiveIndex = 0
		b.tags.Push(tag)
		return nil
	}
	return errors.Wrapf(core.ErrMalformedWire, "unexpected %s array %s in a legacy walk", tag, name)
}

func (b *DesignViewBuilder) FinishArray() error {
	if err := b.tee(func(w serial.Writer) error { return w.FinishArray() }); err != nil {
		return err
	}
	if b.topKind() == kindPrimitiveArray {
		b.kinds.Pop()
		if k := b.topKind(); k == kindArray || k == kindMap {
			b.props.Pop()
		}
	}
	tag, ok := b.tags.Pop()
	if !ok {
		return errors.Wrap(core.ErrMalformedWire, "finishing an array that was not started")
	}
	if tag == serial.TagValues {
		if mp, ok := b.maps.Top(); ok && mp.current != len(mp.elements) {
			return errors.Wrapf(core.ErrBadMapShape, "map has %d keys but %d values", len(mp.elements), mp.current)
		}
	}
	return nil
}

func (b *DesignViewBuilder) topKind() objKind {
	k, _ := b.kinds.Top()
	return k
}

func (b *DesignViewBuilder) setTopKind(kind objKind) error {
	top := b.kinds.TopPtr()
	if top == nil {
		return errors.Wrap(core.ErrMalformedWire, "value written outside of an object")
	}
	*top = kind
	return nil
}

// parentKind is the nearest kind that is neither unset nor a primitive array.
func (b *DesignViewBuilder) parentKind() objKind {
	for i := 0; i < b.kinds.Len(); i++ {
		k, _ := b.kinds.Below(i)
		if k != kindUnset && k != kindPrimitiveArray {
			return k
		}
	}
	return kindUnset
}

// mapPhase returns Keys or Values for the innermost open map.
func (b *DesignViewBuilder) mapPhase() (serial.Tag, error) {
	tag, _ := b.tags.Top()
	if tag.IsPrimitive() {
		tag, _ = b.tags.Below(1)
	}
	if tag != serial.TagKeys && tag != serial.TagValues {
		return tag, errors.Wrapf(core.ErrBadMapShape, "bad map serialization tag: %s", tag)
	}
	return tag, nil
}

func mergeStrings(a, b string) string {
	if a != "" && b != "" {
		return a + " : " + b
	}
	return a + b
}

func (b *DesignViewBuilder) propertyName(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	switch b.parentKind() {
	case kindArray:
		return "element", nil
	case kindMap:
		phase, err := b.mapPhase()
		if err != nil {
			return "", err
		}
		if phase == serial.TagKeys {
			return "key", nil
		}
		return "value", nil
	}
	return b.curName, nil
}

func (b *DesignViewBuilder) createPropertiesImpl(parentID int, label string) (properties, error) {
	id, err := b.tree.AddObject(parentID, label)
	if err != nil {
		return properties{}, err
	}
	b.nodes++
	return properties{id: id, panel: b.menu.AddObject(id)}, nil
}

// createProperties allocates the node for a value named name of type
// typeName. Map values reuse the node of their key.
func (b *DesignViewBuilder) createProperties(name, typeName string) (properties, error) {
	parent, ok := b.props.Top()
	if !ok {
		return properties{}, errors.Wrap(core.ErrMalformedWire, "no parent node")
	}
	switch b.parentKind() {
	case kindArray:
		return b.createPropertiesImpl(parent.id, mergeStrings("element", typeName))

	case kindMap:
		phase, err := b.mapPhase()
		if err != nil {
			return properties{}, err
		}
		mp, ok := b.maps.Top()
		if !ok {
			return properties{}, errors.Wrap(core.ErrBadMapShape, "map without key tracker")
		}
		if phase == serial.TagKeys {
			p, err := b.createPropertiesImpl(parent.id, mergeStrings("key", typeName))
			if err != nil {
				return properties{}, err
			}
			mp.elements = append(mp.elements, p)
			return p, nil
		}
		if mp.current >= len(mp.elements) {
			return properties{}, errors.Wrapf(core.ErrBadMapShape, "value #%d has no matching key", mp.current)
		}
		p := mp.elements[mp.current]
		mp.current++
		return p, nil
	}
	return b.createPropertiesImpl(parent.id, mergeStrings(name, typeName))
}

func (b *DesignViewBuilder) currentPropertiesForPrimitive(typeName string) (properties, error) {
	if k := b.topKind(); k == kindArray || k == kindMap {
		return b.createProperties("", typeName)
	}
	p, ok := b.props.Top()
	if !ok {
		return properties{}, errors.Wrap(core.ErrMalformedWire, "no parent node")
	}
	return p, nil
}

func (b *DesignViewBuilder) addNamedProperty(name string, typ PrimitiveType, text string) error {
	fullName, err := b.propertyName(name)
	if err != nil {
		return err
	}
	return b.addProperty(fullName, typ, text)
}

func (b *DesignViewBuilder) addProperty(name string, typ PrimitiveType, text string) error {
	target, err := b.currentPropertiesForPrimitive(typ.String())
	if err != nil {
		return err
	}
	if target.panel == nil {
		target.panel = b.menu.AddObject(target.id)
	}
	row := &PropertyRow{Label: name, Type: typ, Text: text}
	if b.model != nil {
		row.Path = b.model.Path()
		row.Location = b.model.Location()
	}
	target.panel.Rows = append(target.panel.Rows, row)
	b.rows++
	return nil
}
