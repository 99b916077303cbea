package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// normalWeld is the distance below which vertices count as one position.
const normalWeld = 1e-6

// Normals returns a unit normal per vertex of a triangle or strip shape.
// Each vertex gets the area weighted average of the faces around it, and
// vertices at the same position share one normal so separately built
// shapes shade without seams. Vertices used by no face point up (+Z).
func (s *Shape) Normals() ([]r3.Vec, error) {
	list, err := s.ToTriangleList()
	if err != nil {
		return nil, err
	}

	sums := make([]r3.Vec, len(list.Vertices))
	for i := 0; i+2 < list.ElementCount(); i += 3 {
		a, b, c := list.element(i), list.element(i+1), list.element(i+2)
		// The unnormalized cross product weights by area.
		n := r3.Cross(r3.Sub(list.Vertices[b], list.Vertices[a]), r3.Sub(list.Vertices[c], list.Vertices[a]))
		sums[a] = r3.Add(sums[a], n)
		sums[b] = r3.Add(sums[b], n)
		sums[c] = r3.Add(sums[c], n)
	}

	welded := make(map[[3]int64][]int)
	for i, v := range list.Vertices {
		key := [3]int64{
			int64(math.Round(v.X / normalWeld)),
			int64(math.Round(v.Y / normalWeld)),
			int64(math.Round(v.Z / normalWeld)),
		}
		welded[key] = append(welded[key], i)
	}

	normals := make([]r3.Vec, len(list.Vertices))
	for _, group := range welded {
		var sum r3.Vec
		for _, i := range group {
			sum = r3.Add(sum, sums[i])
		}
		n := r3.Vec{Z: 1}
		if r3.Norm(sum) > 0 {
			n = r3.Unit(sum)
		}
		for _, i := range group {
			normals[i] = n
		}
	}
	return normals, nil
}
