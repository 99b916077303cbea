package formats

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Faultbox/volmesh/pkg/shape"
)

// ErrEmptyMesh is returned when a shape has no triangles to export.
var ErrEmptyMesh = errors.New("shape has no triangles")

// ToMesh converts a triangle list or strip into sdfx triangles.
func ToMesh(s *shape.Shape) ([]*sdf.Triangle3, error) {
	triangles, err := s.Triangles()
	if err != nil {
		return nil, err
	}

	mesh := make([]*sdf.Triangle3, len(triangles))
	for i, tri := range triangles {
		mesh[i] = &sdf.Triangle3{
			v3.Vec{X: tri[0].X, Y: tri[0].Y, Z: tri[0].Z},
			v3.Vec{X: tri[1].X, Y: tri[1].Y, Z: tri[1].Z},
			v3.Vec{X: tri[2].X, Y: tri[2].Y, Z: tri[2].Z},
		}
	}
	return mesh, nil
}

// SaveSTL writes the triangles of one or more shapes to a binary STL file.
// Line shapes cannot be exported.
func SaveSTL(path string, shapes ...*shape.Shape) error {
	var mesh []*sdf.Triangle3
	for i, s := range shapes {
		m, err := ToMesh(s)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		mesh = append(mesh, m...)
	}
	if len(mesh) == 0 {
		return ErrEmptyMesh
	}

	if err := render.SaveSTL(path, mesh); err != nil {
		return fmt.Errorf("writing STL: %w", err)
	}
	return nil
}

