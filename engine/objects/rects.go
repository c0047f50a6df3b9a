package objects

import (
	gmath "github.com/spaghettifunk/gamebase/engine/math"
	"github.com/spaghettifunk/gamebase/engine/reg"
	"github.com/spaghettifunk/gamebase/engine/serial"
)

// FilledRect is a solid coloured box.
type FilledRect struct {
	Widget
	Box   gmath.BoundingBox
	Color gmath.Color
}

func NewFilledRect(box gmath.BoundingBox, color gmath.Color) *FilledRect {
	return &FilledRect{Widget: newWidget(), Box: box, Color: color}
}

func (r *FilledRect) Serialize(s *serial.Serializer) {
	s.BoundingBox("box", r.Box).Color("color", r.Color)
}

func (r *FilledRect) RegisterObject(b *reg.Builder) {
	reg.RegisterProperty(b, "box", &r.Box)
	b.RegisterColor("color", &r.Color)
}

func deserializeFilledRect(d *serial.Deserializer) (*FilledRect, error) {
	r := NewFilledRect(d.BoundingBox("box"), d.Color("color"))
	return r, d.Err()
}

// TextureRect draws an image file mapped through UV.
type TextureRect struct {
	Widget
	Path string
	Box  gmath.BoundingBox
	UV   gmath.Matrix2
}

func NewTextureRect(path string, box gmath.BoundingBox) *TextureRect {
	return &TextureRect{Widget: newWidget(), Path: path, Box: box, UV: gmath.NewMatrix2Identity()}
}

func (r *TextureRect) Serialize(s *serial.Serializer) {
	s.String("path", r.Path).BoundingBox("box", r.Box).Matrix2("uv", r.UV)
}

func (r *TextureRect) RegisterObject(b *reg.Builder) {
	reg.RegisterProperty(b, "path", &r.Path)
	reg.RegisterProperty(b, "box", &r.Box)
	reg.RegisterProperty(b, "uv", &r.UV)
}

func deserializeTextureRect(d *serial.Deserializer) (*TextureRect, error) {
	r := NewTextureRect(d.String("path"), d.BoundingBox("box"))
	r.UV = d.Matrix2("uv")
	return r, d.Err()
}
