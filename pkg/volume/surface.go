package volume

import (
	"fmt"

	"github.com/Faultbox/volmesh/pkg/grid"
	"github.com/Faultbox/volmesh/pkg/shape"
	"github.com/Faultbox/volmesh/pkg/tessellate"
)

// HorizontalSurface tessellates the top grid, or the part of it inside
// opts.Clip, into an indexed triangle list. Only samples referenced by a
// triangle become vertices. Texture coordinates follow the sample's
// position in the full grid, so clipped surfaces line up with unclipped
// ones.
func (v *Volume) HorizontalSurface(opts Options) (*shape.Shape, error) {
	g := v.grid
	origin := g.Bounds()

	if opts.Clip != nil {
		origin = g.Bounds().Intersect(*opts.Clip)
		if origin.Empty() {
			return nil, fmt.Errorf("volume: %w: clip %v outside %dx%d grid",
				grid.ErrInvalidArgument, *opts.Clip, g.Width, g.Height)
		}
		clipped, err := g.Clip(origin)
		if err != nil {
			return nil, fmt.Errorf("volume: %w", err)
		}
		g = clipped
	}

	var faces []tessellate.Face
	var err error
	if opts.FromCenter {
		faces, err = tessellate.FacesFromCenter(g, opts.MaxError)
	} else {
		faces, err = tessellate.Faces(g, opts.MaxError)
	}
	if err != nil {
		return nil, fmt.Errorf("volume: %w", err)
	}

	s := &shape.Shape{
		Mode:    shape.Triangles,
		Indices: make([]uint32, 0, len(faces)*3),
	}

	remap := make([]int32, len(g.Samples))
	for i := range remap {
		remap[i] = -1
	}

	for _, f := range faces {
		for _, idx := range f.Indices() {
			if remap[idx] < 0 {
				remap[idx] = int32(len(s.Vertices))
				s.Vertices = append(s.Vertices, vertex(g.Samples[idx]))
				if opts.GenerateTextureCoordinates {
					x, y := g.XY(idx)
					s.TexCoords = append(s.TexCoords, [2]float32{
						ratio(origin.X+x, v.grid.Width),
						ratio(origin.Y+y, v.grid.Height),
					})
				}
			}
			s.Indices = append(s.Indices, uint32(remap[idx]))
		}
	}

	return s, nil
}
