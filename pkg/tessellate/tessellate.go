// Package tessellate turns a height-field grid into a crack-free,
// error-bounded triangle mesh using an adaptive binary triangle tree.
//
// The grid is covered by square dyadic blocks (side 2^k+1). Each block is
// split into two root triangles along its diagonal and refined while the
// interpolation error of a triangle is at least maxError. A maxError of 0
// therefore refines every block to full grid resolution. All blocks share
// one node arena: equal neighboring blocks are linked at their roots and
// seams between unequal blocks are split until no T-junction remains, so
// the whole mesh is crack-free.
package tessellate

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/volmesh/pkg/grid"
)

// Face is a leaf triangle expressed as grid sample indices.
type Face struct {
	Apex  int
	Left  int
	Right int
}

// Indices returns the three vertices in apex, left, right order.
func (f Face) Indices() [3]int {
	return [3]int{f.Apex, f.Left, f.Right}
}

// Triangle is a leaf triangle with its samples resolved.
type Triangle struct {
	Apex  grid.Sample
	Left  grid.Sample
	Right grid.Sample
}

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger routes tessellation statistics to l. It is safe to call while
// other goroutines tessellate; nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l.Named("tessellate"))
}

// Tessellate tiles the grid row-major with the largest dyadic blocks that
// fit and returns the leaf triangles of every block. Grids one sample wide
// or tall yield no triangles.
func Tessellate(g *grid.Grid, maxError float64) ([]Triangle, error) {
	faces, err := Faces(g, maxError)
	if err != nil {
		return nil, err
	}
	return Resolve(g, faces), nil
}

// TessellateFromCenter is Tessellate with one centered dyadic block whose
// edges are kept intact; the border strips around it are tiled outwards.
func TessellateFromCenter(g *grid.Grid, maxError float64) ([]Triangle, error) {
	faces, err := FacesFromCenter(g, maxError)
	if err != nil {
		return nil, err
	}
	return Resolve(g, faces), nil
}

// Faces is Tessellate returning grid indices instead of samples.
func Faces(g *grid.Grid, maxError float64) ([]Face, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	blocks := tileRegion(nil, 0, 0, g.Width, g.Height, false, false)
	return tessellateBlocks(g, maxError, blocks), nil
}

// FacesFromCenter is TessellateFromCenter returning grid indices.
func FacesFromCenter(g *grid.Grid, maxError float64) ([]Face, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	return tessellateBlocks(g, maxError, centerBlocks(g.Width, g.Height)), nil
}

// Resolve converts faces to triangles of g's samples.
func Resolve(g *grid.Grid, faces []Face) []Triangle {
	triangles := make([]Triangle, len(faces))
	for i, f := range faces {
		triangles[i] = Triangle{
			Apex:  g.Samples[f.Apex],
			Left:  g.Samples[f.Left],
			Right: g.Samples[f.Right],
		}
	}
	return triangles
}

func tessellateBlocks(g *grid.Grid, maxError float64, blocks []block) []Face {
	t := newTree(g, maxError)
	roots := t.plant(blocks)
	for _, r := range roots {
		t.refine(r)
	}
	sealed := t.seal(roots)

	var faces []Face
	for _, r := range roots {
		faces = t.leaves(r, faces)
	}

	logger.Load().Debug("tessellated grid",
		zap.Int("width", g.Width),
		zap.Int("height", g.Height),
		zap.Float64("maxError", maxError),
		zap.Int("blocks", len(blocks)),
		zap.Int("sealed", sealed),
		zap.Int("triangles", len(faces)),
	)
	return faces
}
