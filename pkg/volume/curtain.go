package volume

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/volmesh/pkg/grid"
	"github.com/Faultbox/volmesh/pkg/shape"
)

// LongitudeCurtain builds the vertical wall under grid column x, walking
// every row from y=0 down to y=Height-1.
func (v *Volume) LongitudeCurtain(x int, opts Options) (*shape.Shape, error) {
	if x < 0 || x >= v.grid.Width {
		return nil, fmt.Errorf("volume: %w: longitude curtain column %d outside [0,%d)",
			grid.ErrInvalidArgument, x, v.grid.Width)
	}

	samples := make([]grid.Sample, v.grid.Height)
	for y := range samples {
		samples[y] = v.grid.At(x, y)
	}
	return v.curtain(samples, opts)
}

// LatitudeCurtain builds the vertical wall under grid row y, walking every
// column from x=0 to x=Width-1.
func (v *Volume) LatitudeCurtain(y int, opts Options) (*shape.Shape, error) {
	if y < 0 || y >= v.grid.Height {
		return nil, fmt.Errorf("volume: %w: latitude curtain row %d outside [0,%d)",
			grid.ErrInvalidArgument, y, v.grid.Height)
	}

	row := v.grid.Index(0, y)
	return v.curtain(v.grid.Samples[row:row+v.grid.Width], opts)
}

// Curtains builds the four outer walls: west (x=0), east (x=Width-1),
// north (y=0) and south (y=Height-1).
func (v *Volume) Curtains(opts Options) ([]*shape.Shape, error) {
	west, err := v.LongitudeCurtain(0, opts)
	if err != nil {
		return nil, err
	}
	east, err := v.LongitudeCurtain(v.grid.Width-1, opts)
	if err != nil {
		return nil, err
	}
	north, err := v.LatitudeCurtain(0, opts)
	if err != nil {
		return nil, err
	}
	south, err := v.LatitudeCurtain(v.grid.Height-1, opts)
	if err != nil {
		return nil, err
	}
	return []*shape.Shape{west, east, north, south}, nil
}

// curtainSamples pairs every sample with its copy lowered by the depth,
// in top, bottom, top, bottom... order.
func (v *Volume) curtainSamples(samples []grid.Sample) []TaggedSample {
	tagged := make([]TaggedSample, 0, 2*len(samples))
	for _, s := range samples {
		tagged = append(tagged, v.top(s), v.bottom(s))
	}
	return tagged
}

// curtain assembles the tagged samples into a triangle strip. u runs from
// 0 to 1 along the walk, v is 0 on top and 1 at the bottom.
func (v *Volume) curtain(samples []grid.Sample, opts Options) (*shape.Shape, error) {
	tagged := v.curtainSamples(samples)

	s := &shape.Shape{
		Mode:     shape.TriangleStrip,
		Vertices: make([]r3.Vec, 0, len(tagged)),
	}
	if opts.GenerateTextureCoordinates {
		s.TexCoords = make([][2]float32, 0, len(tagged))
	}

	for i, t := range tagged {
		s.Vertices = append(s.Vertices, vertex(t.Sample))
		if opts.GenerateTextureCoordinates {
			tv := float32(0)
			if t.Bottom {
				tv = 1
			}
			s.TexCoords = append(s.TexCoords, [2]float32{ratio(i/2, len(samples)), tv})
		}
	}

	if opts.ForceTriangleList {
		return s.ToTriangleList()
	}
	return s, nil
}
