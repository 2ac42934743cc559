package math

import "math"

// Vec2 holds a two-component float32 tuple. The rasterizer uses it for
// screen-space and texture-space coordinates: UVs, pixel offsets inside a
// tile, and the 2D edges fed to the triangle edge functions.
type Vec2 struct {
	X, Y float32
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vec2) Mul(scalar float32) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the Euclidean magnitude of v.
func (v Vec2) Length() float32 {
	sqr := v.Dot(v)
	return float32(math.Sqrt(float64(sqr)))
}

// Normalize returns v scaled to unit length, or v itself if v is the zero
// vector (a degenerate UV or screen-space edge shouldn't panic downstream).
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1.0 / l)
}

// Lerp linearly interpolates between v and other, used for UV interpolation
// across a clipped polygon edge.
func (v Vec2) Lerp(other Vec2, t float32) Vec2 {
	return v.Add(other.Sub(v).Mul(t))
}
