package objects

import (
	gmath "github.com/spaghettifunk/gamebase/engine/math"
	"github.com/spaghettifunk/gamebase/engine/reg"
	"github.com/spaghettifunk/gamebase/engine/serial"
)

const DefaultClickTime float32 = 0.3

type Button struct {
	Widget
	Position  gmath.Transform2
	Skin      any
	ClickTime float32
}

func NewButton(skin any) *Button {
	return &Button{
		Widget:    newWidget(),
		Position:  gmath.NewTransform2Identity(),
		Skin:      skin,
		ClickTime: DefaultClickTime,
	}
}

func (b *Button) Serialize(s *serial.Serializer) {
	s.Transform2("position", b.Position).
		Object("skin", b.Skin).
		Float("clickTime", b.ClickTime)
}

func (b *Button) RegisterObject(builder *reg.Builder) {
	reg.RegisterProperty(builder, "position", &b.Position)
	reg.RegisterProperty(builder, "clickTime", &b.ClickTime)
	registerChild(builder, "skin", b.Skin)
}

func deserializeButton(d *serial.Deserializer) (*Button, error) {
	b := NewButton(nil)
	b.Position = d.Transform2("position")
	b.Skin = serial.ReadObject[any](d, "skin")
	// older files have no click time
	b.ClickTime = serial.Optional(d, "clickTime", (*serial.Deserializer).Float, DefaultClickTime)
	return b, d.Err()
}

// AnimatedButton is written under the Button type name, so it reads back
// as a plain Button without its animations.
type AnimatedButton struct {
	Button
	Animations []*SmoothChange
}

func NewAnimatedButton(skin any, animations ...*SmoothChange) *AnimatedButton {
	return &AnimatedButton{Button: *NewButton(skin), Animations: animations}
}

func (b *AnimatedButton) Serialize(s *serial.Serializer) {
	b.Button.Serialize(s)
	serial.WriteArray(s, "animations", b.Animations, serial.WriteObject[*SmoothChange])
}

func deserializeAnimatedButton(d *serial.Deserializer) (*AnimatedButton, error) {
	base, err := deserializeButton(d)
	if err != nil {
		return nil, err
	}
	b := &AnimatedButton{Button: *base}
	b.Animations = serial.ReadArray(d, "animations", serial.ReadObject[*SmoothChange])
	return b, d.Err()
}

type CheckBox struct {
	Widget
	Checked bool
	Group   uint32
	Skin    any
}

func NewCheckBox(skin any) *CheckBox {
	return &CheckBox{Widget: newWidget(), Skin: skin}
}

func (c *CheckBox) Serialize(s *serial.Serializer) {
	s.Bool("checked", c.Checked).
		UInt("group", c.Group).
		Object("skin", c.Skin)
}

func (c *CheckBox) RegisterObject(b *reg.Builder) {
	reg.RegisterProperty(b, "checked", &c.Checked)
	reg.RegisterProperty(b, "group", &c.Group)
	registerChild(b, "skin", c.Skin)
}

func deserializeCheckBox(d *serial.Deserializer) (*CheckBox, error) {
	c := NewCheckBox(nil)
	c.Checked = d.Bool("checked")
	c.Group = d.UInt("group")
	c.Skin = serial.ReadObject[any](d, "skin")
	return c, d.Err()
}
