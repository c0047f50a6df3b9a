package objects

import (
	gmath "github.com/spaghettifunk/gamebase/engine/math"
	"github.com/spaghettifunk/gamebase/engine/reg"
	"github.com/spaghettifunk/gamebase/engine/serial"
)

type Label struct {
	Widget
	Text     string
	Position gmath.Vec2
	Color    gmath.Color
	FontSize float32
}

func NewLabel(text string) *Label {
	return &Label{
		Widget:   newWidget(),
		Text:     text,
		Color:    gmath.NewColor(0, 0, 0, 1),
		FontSize: 16,
	}
}

func (l *Label) Serialize(s *serial.Serializer) {
	s.String("text", l.Text).
		Vec2("position", l.Position).
		Color("color", l.Color).
		Float("fontSize", l.FontSize)
}

func (l *Label) RegisterObject(b *reg.Builder) {
	reg.RegisterProperty(b, "text", &l.Text)
	b.RegisterVec2("position", &l.Position)
	b.RegisterColor("color", &l.Color)
	reg.RegisterProperty(b, "fontSize", &l.FontSize)
}

func deserializeLabel(d *serial.Deserializer) (*Label, error) {
	l := NewLabel(d.String("text"))
	l.Position = d.Vec2("position")
	l.Color = d.Color("color")
	l.FontSize = serial.Optional(d, "fontSize", (*serial.Deserializer).Float, l.FontSize)
	return l, d.Err()
}
