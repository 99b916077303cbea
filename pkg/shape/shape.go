// Package shape defines the renderable unit produced by the mesh
// generators: a vertex buffer, an optional index buffer, a draw mode and
// optional texture coordinates.
package shape

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Shape validation errors.
var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrElementCount     = errors.New("element count does not match draw mode")
	ErrTexCoordCount    = errors.New("texture coordinate count does not match vertex count")
	ErrUnknownDrawMode  = errors.New("unknown draw mode")
	ErrNotTriangleShape = errors.New("shape does not draw triangles")
)

// DrawMode tells the renderer how to assemble vertices into primitives.
type DrawMode int

// Draw modes.
const (
	Triangles     DrawMode = iota // every 3 elements form a triangle
	TriangleStrip                 // each element after the second forms a triangle with the previous two
	Lines                         // every 2 elements form a segment
)

// String returns the draw mode name.
func (m DrawMode) String() string {
	switch m {
	case Triangles:
		return "Triangles"
	case TriangleStrip:
		return "TriangleStrip"
	case Lines:
		return "Lines"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Shape is handed to the renderer as is. Vertices map X to the first
// horizontal coordinate, Y to the second and Z to the scalar value.
// When Indices is nil the vertices are drawn in order.
type Shape struct {
	Mode      DrawMode
	Vertices  []r3.Vec
	Indices   []uint32
	TexCoords [][2]float32
}

// VertexCount returns the number of vertices.
func (s *Shape) VertexCount() int {
	return len(s.Vertices)
}

// ElementCount returns the number of vertices the renderer will walk.
func (s *Shape) ElementCount() int {
	if s.Indices != nil {
		return len(s.Indices)
	}
	return len(s.Vertices)
}

// PrimitiveCount returns the number of triangles or line segments drawn.
func (s *Shape) PrimitiveCount() int {
	n := s.ElementCount()
	switch s.Mode {
	case Triangles:
		return n / 3
	case TriangleStrip:
		if n < 3 {
			return 0
		}
		return n - 2
	case Lines:
		return n / 2
	}
	return 0
}

// IsEmpty reports whether the shape draws nothing.
func (s *Shape) IsEmpty() bool {
	return s.PrimitiveCount() == 0
}

// element returns the vertex index of the i-th drawn element.
func (s *Shape) element(i int) int {
	if s.Indices != nil {
		return int(s.Indices[i])
	}
	return i
}

// Validate checks indices, element counts and texture coordinates.
func (s *Shape) Validate() error {
	for i, idx := range s.Indices {
		if int(idx) >= len(s.Vertices) {
			return fmt.Errorf("%w: element %d references vertex %d of %d", ErrIndexOutOfRange, i, idx, len(s.Vertices))
		}
	}

	n := s.ElementCount()
	switch s.Mode {
	case Triangles:
		if n%3 != 0 {
			return fmt.Errorf("%w: %d elements for %s", ErrElementCount, n, s.Mode)
		}
	case Lines:
		if n%2 != 0 {
			return fmt.Errorf("%w: %d elements for %s", ErrElementCount, n, s.Mode)
		}
	case TriangleStrip:
	default:
		return fmt.Errorf("%w: %d", ErrUnknownDrawMode, int(s.Mode))
	}

	if s.TexCoords != nil && len(s.TexCoords) != len(s.Vertices) {
		return fmt.Errorf("%w: %d for %d vertices", ErrTexCoordCount, len(s.TexCoords), len(s.Vertices))
	}
	return nil
}

// ToTriangleList returns s drawn as an indexed triangle list. Strips are
// unrolled with alternating winding so every triangle keeps the strip's
// orientation. Vertices and texture coordinates are shared with s.
// Triangle lists are returned unchanged; line shapes fail.
func (s *Shape) ToTriangleList() (*Shape, error) {
	switch s.Mode {
	case Triangles:
		return s, nil
	case TriangleStrip:
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotTriangleShape, s.Mode)
	}

	count := s.PrimitiveCount()
	indices := make([]uint32, 0, count*3)
	for i := range count {
		a, b, c := s.element(i), s.element(i+1), s.element(i+2)
		if i%2 == 1 {
			a, b = b, a
		}
		indices = append(indices, uint32(a), uint32(b), uint32(c))
	}

	return &Shape{
		Mode:      Triangles,
		Vertices:  s.Vertices,
		Indices:   indices,
		TexCoords: s.TexCoords,
	}, nil
}

// Triangles returns the vertex positions of every triangle drawn.
func (s *Shape) Triangles() ([][3]r3.Vec, error) {
	list, err := s.ToTriangleList()
	if err != nil {
		return nil, err
	}

	triangles := make([][3]r3.Vec, 0, list.PrimitiveCount())
	for i := 0; i+2 < list.ElementCount(); i += 3 {
		triangles = append(triangles, [3]r3.Vec{
			list.Vertices[list.element(i)],
			list.Vertices[list.element(i+1)],
			list.Vertices[list.element(i+2)],
		})
	}
	return triangles, nil
}

// Segments returns the end points of every line drawn by a Lines shape.
func (s *Shape) Segments() [][2]r3.Vec {
	if s.Mode != Lines {
		return nil
	}
	segments := make([][2]r3.Vec, 0, s.PrimitiveCount())
	for i := 0; i+1 < s.ElementCount(); i += 2 {
		segments = append(segments, [2]r3.Vec{
			s.Vertices[s.element(i)],
			s.Vertices[s.element(i+1)],
		})
	}
	return segments
}
