package volume

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/volmesh/pkg/shape"
)

// BoundingBox outlines the volume as a line list: the grid perimeter on
// the top surface, the same loop lowered by the depth, and four vertical
// edges joining the loop corners. A 1x1 grid has no perimeter and yields
// an empty shape.
func (v *Volume) BoundingBox() *shape.Shape {
	loop, corners := v.perimeter()
	n := len(loop)
	if n == 0 {
		return &shape.Shape{Mode: shape.Lines}
	}

	s := &shape.Shape{
		Mode:     shape.Lines,
		Vertices: make([]r3.Vec, 0, 2*n),
		Indices:  make([]uint32, 0, 4*n+8),
	}
	for _, idx := range loop {
		s.Vertices = append(s.Vertices, vertex(v.top(v.grid.Samples[idx]).Sample))
	}
	for _, idx := range loop {
		s.Vertices = append(s.Vertices, vertex(v.bottom(v.grid.Samples[idx]).Sample))
	}

	for i := range n {
		next := (i + 1) % n
		s.Indices = append(s.Indices, uint32(i), uint32(next))
	}
	for i := range n {
		next := (i + 1) % n
		s.Indices = append(s.Indices, uint32(n+i), uint32(n+next))
	}
	for _, c := range corners {
		s.Indices = append(s.Indices, uint32(c), uint32(n+c))
	}

	return s
}

// perimeter walks the grid border clockwise from (0, 0): north, east,
// south, west, each side stopping before its last point. corners holds the
// loop positions where each side starts.
func (v *Volume) perimeter() (loop []int, corners [4]int) {
	w, h := v.grid.Width, v.grid.Height
	loop = make([]int, 0, 2*(w-1)+2*(h-1))

	corners[0] = len(loop)
	for x := 0; x < w-1; x++ {
		loop = append(loop, v.grid.Index(x, 0))
	}
	corners[1] = len(loop)
	for y := 0; y < h-1; y++ {
		loop = append(loop, v.grid.Index(w-1, y))
	}
	corners[2] = len(loop)
	for x := w - 1; x > 0; x-- {
		loop = append(loop, v.grid.Index(x, h-1))
	}
	corners[3] = len(loop)
	for y := h - 1; y > 0; y-- {
		loop = append(loop, v.grid.Index(0, y))
	}

	return loop, corners
}
