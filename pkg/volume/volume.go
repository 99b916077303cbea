// Package volume assembles renderable geometry for a gridded volume: the
// adaptively tessellated top surface, vertical curtain walls following the
// surface down to a fixed depth, and a wireframe outline.
package volume

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/volmesh/pkg/grid"
)

// Volume is a top surface grid extruded downwards by Depth.
type Volume struct {
	grid  *grid.Grid
	depth float64
}

// Options configures a single geometry request.
type Options struct {
	// MaxError is the tessellation threshold; 0 means full resolution.
	MaxError float64
	// Clip limits the horizontal surface to a sub-region of the top grid.
	Clip *grid.Rect
	// ForceTriangleList flattens strips into indexed triangle lists.
	ForceTriangleList          bool
	GenerateTextureCoordinates bool
	// FromCenter tiles from a centered block instead of row-major.
	FromCenter bool
}

// TaggedSample is a curtain vertex on the top surface or on the bottom.
type TaggedSample struct {
	grid.Sample
	Bottom bool
}

// New wraps an already validated grid.
func New(g *grid.Grid, depth float64) *Volume {
	return &Volume{grid: g, depth: depth}
}

// FromSamples validates the samples and builds a volume from them.
func FromSamples(samples []grid.Sample, width, height int, depth, noData float64) (*Volume, error) {
	g, err := grid.New(samples, width, height)
	if err != nil {
		return nil, fmt.Errorf("volume: %w", err)
	}
	g.NoData = noData
	return New(g, depth), nil
}

// Grid returns the top surface grid.
func (v *Volume) Grid() *grid.Grid {
	return v.grid
}

// Depth returns the uniform vertical thickness.
func (v *Volume) Depth() float64 {
	return v.depth
}

// IsSingleSlice reports whether the volume is too thin in any direction
// to have a 3-D interior.
func (v *Volume) IsSingleSlice() bool {
	return v.grid.Width <= 1 || v.grid.Height <= 1 || v.depth <= 1
}

func (v *Volume) top(s grid.Sample) TaggedSample {
	return TaggedSample{Sample: s}
}

func (v *Volume) bottom(s grid.Sample) TaggedSample {
	s.Value -= v.depth
	return TaggedSample{Sample: s, Bottom: true}
}

func vertex(s grid.Sample) r3.Vec {
	return r3.Vec{X: s.H1, Y: s.H2, Z: s.Value}
}

// ratio maps i in [0, n-1] to [0, 1].
func ratio(i, n int) float32 {
	if n <= 1 {
		return 0
	}
	return float32(i) / float32(n-1)
}
