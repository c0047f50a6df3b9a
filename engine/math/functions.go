package math

import m "math"

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Length() float32 {
	return float32(m.Hypot(float64(v.X), float64(v.Y)))
}

func NewMatrix2(m00, m01, m10, m11 float32) Matrix2 {
	return Matrix2{M00: m00, M01: m01, M10: m10, M11: m11}
}

func NewMatrix2Identity() Matrix2 {
	return Matrix2{M00: 1, M11: 1}
}

// NewMatrix2Rotation builds a counter-clockwise rotation by angle radians.
func NewMatrix2Rotation(angle float32) Matrix2 {
	s, c := m.Sincos(float64(angle))
	return Matrix2{M00: float32(c), M01: float32(s), M10: float32(-s), M11: float32(c)}
}

func NewMatrix2Scale(sx, sy float32) Matrix2 {
	return Matrix2{M00: sx, M11: sy}
}

func (a Matrix2) Mul(b Matrix2) Matrix2 {
	return Matrix2{
		M00: a.M00*b.M00 + a.M01*b.M10,
		M01: a.M00*b.M01 + a.M01*b.M11,
		M10: a.M10*b.M00 + a.M11*b.M10,
		M11: a.M10*b.M01 + a.M11*b.M11,
	}
}

// Apply maps the row vector v through the matrix.
func (a Matrix2) Apply(v Vec2) Vec2 {
	return Vec2{
		X: v.X*a.M00 + v.Y*a.M10,
		Y: v.X*a.M01 + v.Y*a.M11,
	}
}

func (a Matrix2) Determinant() float32 {
	return a.M00*a.M11 - a.M01*a.M10
}

func NewTransform2Identity() Transform2 {
	return Transform2{Matrix: NewMatrix2Identity()}
}

func NewShiftTransform2(offset Vec2) Transform2 {
	return Transform2{Matrix: NewMatrix2Identity(), Offset: offset}
}

func (t Transform2) Apply(v Vec2) Vec2 {
	return t.Matrix.Apply(v).Add(t.Offset)
}

// Mul returns the transform applying t first and then o.
func (t Transform2) Mul(o Transform2) Transform2 {
	return Transform2{
		Matrix: t.Matrix.Mul(o.Matrix),
		Offset: o.Apply(t.Offset),
	}
}

func NewBoundingBox(width, height float32) BoundingBox {
	return BoundingBox{
		BottomLeft: Vec2{-width / 2, -height / 2},
		TopRight:   Vec2{width / 2, height / 2},
	}
}

func (b BoundingBox) Width() float32 {
	return b.TopRight.X - b.BottomLeft.X
}

func (b BoundingBox) Height() float32 {
	return b.TopRight.Y - b.BottomLeft.Y
}

func (b BoundingBox) Center() Vec2 {
	return b.BottomLeft.Add(b.TopRight).Scale(0.5)
}

func (b BoundingBox) IsValid() bool {
	return b.BottomLeft.X <= b.TopRight.X && b.BottomLeft.Y <= b.TopRight.Y
}

func (b BoundingBox) Contains(p Vec2) bool {
	return p.X >= b.BottomLeft.X && p.X <= b.TopRight.X &&
		p.Y >= b.BottomLeft.Y && p.Y <= b.TopRight.Y
}

// Extend grows the box so that it contains p.
func (b BoundingBox) Extend(p Vec2) BoundingBox {
	return BoundingBox{
		BottomLeft: Vec2{min(b.BottomLeft.X, p.X), min(b.BottomLeft.Y, p.Y)},
		TopRight:   Vec2{max(b.TopRight.X, p.X), max(b.TopRight.Y, p.Y)},
	}
}

func NewColor(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Clamped returns the colour with every channel clamped to [0, 1].
func (c Color) Clamped() Color {
	return Color{
		R: Clamp(c.R, 0, 1),
		G: Clamp(c.G, 0, 1),
		B: Clamp(c.B, 0, 1),
		A: Clamp(c.A, 0, 1),
	}
}
