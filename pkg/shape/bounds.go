package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min r3.Vec
	Max r3.Vec
}

// EmptyBounds returns inverted bounds that any point will extend.
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: r3.Vec{X: inf, Y: inf, Z: inf},
		Max: r3.Vec{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether no point has been added.
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows b to include p.
func (b Bounds) Extend(p r3.Vec) Bounds {
	b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
	b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	return b
}

// Size returns the box extent along each axis.
func (b Bounds) Size() r3.Vec {
	if b.IsEmpty() {
		return r3.Vec{}
	}
	return r3.Sub(b.Max, b.Min)
}

// Center returns the box midpoint.
func (b Bounds) Center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Bounds returns the box enclosing every vertex of s.
func (s *Shape) Bounds() Bounds {
	b := EmptyBounds()
	for _, v := range s.Vertices {
		b = b.Extend(v)
	}
	return b
}

// AABBWireframe builds a 12-edge line shape outlining b grown by padding
// on every side. Empty bounds produce an empty shape.
func AABBWireframe(b Bounds, padding float64) *Shape {
	if b.IsEmpty() {
		return &Shape{Mode: Lines}
	}

	pad := r3.Vec{X: padding, Y: padding, Z: padding}
	lo := r3.Sub(b.Min, pad)
	hi := r3.Add(b.Max, pad)

	// Corners 0-3 form the low-Z face, 4-7 the high-Z face.
	vertices := []r3.Vec{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
	}
	indices := []uint32{
		0, 1, 1, 2, 2, 3, 3, 0,
		4, 5, 5, 6, 6, 7, 7, 4,
		0, 4, 1, 5, 2, 6, 3, 7,
	}

	return &Shape{Mode: Lines, Vertices: vertices, Indices: indices}
}
