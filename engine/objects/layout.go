package objects

import (
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/spaghettifunk/gamebase/engine/reg"
	"github.com/spaghettifunk/gamebase/engine/serial"
)

type Direction int32

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// LinearLayout places its objects one after another.
type LinearLayout struct {
	Widget
	Direction  Direction
	Padding    float32
	AdjustSize bool
	Objects    []any
}

func NewLinearLayout(direction Direction, objects ...any) *LinearLayout {
	return &LinearLayout{Widget: newWidget(), Direction: direction, Objects: objects}
}

func (l *LinearLayout) Add(obj any) {
	l.Objects = append(l.Objects, obj)
}

func (l *LinearLayout) Serialize(s *serial.Serializer) {
	serial.WriteEnum(s, "direction", l.Direction)
	s.Float("padding", l.Padding).Bool("adjustSize", l.AdjustSize)
	serial.WriteArray(s, "objects", l.Objects, serial.WriteObject[any])
}

func (l *LinearLayout) RegisterObject(b *reg.Builder) {
	reg.RegisterProperty(b, "padding", &l.Padding)
	reg.RegisterProperty(b, "adjustSize", &l.AdjustSize)
	for _, obj := range l.Objects {
		registerChild(b, "", obj)
	}
}

func deserializeLinearLayout(d *serial.Deserializer) (*LinearLayout, error) {
	l := NewLinearLayout(serial.ReadEnum[Direction](d, "direction"))
	l.Padding = d.Float("padding")
	l.AdjustSize = d.Bool("adjustSize")
	l.Objects = serial.ReadArray(d, "objects", serial.ReadObject[any])
	return l, d.Err()
}

// GroupLayer keeps objects by integer id and draws them in id order.
type GroupLayer struct {
	Widget
	Objects map[int32]any
}

func NewGroupLayer() *GroupLayer {
	return &GroupLayer{Widget: newWidget(), Objects: make(map[int32]any)}
}

func (g *GroupLayer) Set(id int32, obj any) {
	g.Objects[id] = obj
}

// IDs returns the object ids in draw order.
func (g *GroupLayer) IDs() []int32 {
	ids := lo.Keys(g.Objects)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (g *GroupLayer) Serialize(s *serial.Serializer) {
	serial.WriteMap(s, "objects", g.Objects, (*serial.Serializer).Int, serial.WriteObject[any])
}

func (g *GroupLayer) RegisterObject(b *reg.Builder) {
	for _, id := range g.IDs() {
		registerChild(b, strconv.Itoa(int(id)), g.Objects[id])
	}
}

func deserializeGroupLayer(d *serial.Deserializer) (*GroupLayer, error) {
	g := NewGroupLayer()
	g.Objects = serial.ReadMap(d, "objects", (*serial.Deserializer).Int, serial.ReadObject[any])
	return g, d.Err()
}
