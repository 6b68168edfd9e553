// Package core provides fundamental types and utilities shared by the game
// packages. It contains no UI dependencies (especially no Bubble Tea)
// to keep game logic pure and testable.
package core

import "math"

// Vec3 is a float64 3D vector. Y is up.
type Vec3 struct {
	X, Y, Z float64
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// AABB is an axis-aligned box described by its center and half extents.
type AABB struct {
	Center Vec3
	Half   Vec3
}

// NewAABB creates a box centered at c with the given full size.
func NewAABB(c Vec3, size Vec3) AABB {
	return AABB{Center: c, Half: size.Scale(0.5)}
}

// Cube creates a cube of edge length size centered at c.
func Cube(c Vec3, size float64) AABB {
	return NewAABB(c, V3(size, size, size))
}

// Min returns the minimum corner.
func (b AABB) Min() Vec3 {
	return b.Center.Sub(b.Half)
}

// Max returns the maximum corner.
func (b AABB) Max() Vec3 {
	return b.Center.Add(b.Half)
}

// Top returns the y coordinate of the upper face.
func (b AABB) Top() float64 {
	return b.Center.Y + b.Half.Y
}

// Bottom returns the y coordinate of the lower face.
func (b AABB) Bottom() float64 {
	return b.Center.Y - b.Half.Y
}

// Touches reports whether two boxes overlap or touch within eps on every axis.
// Resting contact (bottom face exactly on a top face) counts as touching.
func (b AABB) Touches(o AABB, eps float64) bool {
	d := b.Center.Sub(o.Center)
	return math.Abs(d.X) <= b.Half.X+o.Half.X+eps &&
		math.Abs(d.Y) <= b.Half.Y+o.Half.Y+eps &&
		math.Abs(d.Z) <= b.Half.Z+o.Half.Z+eps
}

// OverlapsXZ reports whether the footprints of two boxes overlap strictly.
func (b AABB) OverlapsXZ(o AABB) bool {
	d := b.Center.Sub(o.Center)
	return math.Abs(d.X) < b.Half.X+o.Half.X &&
		math.Abs(d.Z) < b.Half.Z+o.Half.Z
}

// Translate returns the box moved by d.
func (b AABB) Translate(d Vec3) AABB {
	return AABB{Center: b.Center.Add(d), Half: b.Half}
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

