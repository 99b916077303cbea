// Package grid provides the row-major sample grid shared by the tessellator
// and the volume geometry assembler.
package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidArgument is returned for structurally inconsistent grids and
// out-of-range grid arguments.
var ErrInvalidArgument = errors.New("invalid argument")

// DefaultNoData marks a missing cell when the provider does not supply one.
const DefaultNoData = -9999.0

// Sample is one grid point: two horizontal coordinates and a scalar value,
// for example (longitude, latitude, elevation).
type Sample struct {
	H1    float64
	H2    float64
	Value float64
}

// Grid is a row-major array of Width*Height samples.
// Index(x, y) = x + y*Width.
type Grid struct {
	Width   int
	Height  int
	Samples []Sample
	NoData  float64
}

// New validates the dimensions and wraps samples in a Grid.
// The samples slice is not copied.
func New(samples []Sample, width, height int) (*Grid, error) {
	g := &Grid{
		Width:   width,
		Height:  height,
		Samples: samples,
		NoData:  DefaultNoData,
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks width, height >= 1 and len(Samples) == Width*Height.
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidArgument)
	}
	if g.Width < 1 || g.Height < 1 {
		return fmt.Errorf("%w: grid dimensions %dx%d", ErrInvalidArgument, g.Width, g.Height)
	}
	if len(g.Samples) != g.Width*g.Height {
		return fmt.Errorf("%w: %d samples for %dx%d grid", ErrInvalidArgument, len(g.Samples), g.Width, g.Height)
	}
	return nil
}

// Index returns the sample index of (x, y).
func (g *Grid) Index(x, y int) int {
	return x + y*g.Width
}

// XY is the inverse of Index.
func (g *Grid) XY(i int) (x, y int) {
	return i % g.Width, i / g.Width
}

// At returns the sample at (x, y).
func (g *Grid) At(x, y int) Sample {
	return g.Samples[x+y*g.Width]
}

// Contains reports whether (x, y) lies inside the grid.
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// IsNoData reports whether s carries the grid's no-data sentinel.
func (g *Grid) IsNoData(s Sample) bool {
	return s.Value == g.NoData
}

// Bounds returns the rectangle covering the whole grid.
func (g *Grid) Bounds() Rect {
	return Rect{Width: g.Width, Height: g.Height}
}

// Clip copies the samples inside r into a new grid. r must be non-empty
// and lie inside the grid; use Rect.Intersect to clamp it first.
func (g *Grid) Clip(r Rect) (*Grid, error) {
	if r.Empty() || !g.Bounds().ContainsRect(r) {
		return nil, fmt.Errorf("%w: clip %v outside %dx%d grid", ErrInvalidArgument, r, g.Width, g.Height)
	}

	samples := make([]Sample, 0, r.Width*r.Height)
	for y := r.Y; y < r.Y+r.Height; y++ {
		row := g.Index(r.X, y)
		samples = append(samples, g.Samples[row:row+r.Width]...)
	}

	return &Grid{
		Width:   r.Width,
		Height:  r.Height,
		Samples: samples,
		NoData:  g.NoData,
	}, nil
}

// ValueRange returns the minimum and maximum scalar value, skipping
// no-data cells. ok is false when every cell is no-data.
func (g *Grid) ValueRange() (min, max float64, ok bool) {
	values := make([]float64, 0, len(g.Samples))
	for _, s := range g.Samples {
		if !g.IsNoData(s) {
			values = append(values, s.Value)
		}
	}
	if len(values) == 0 {
		return 0, 0, false
	}
	return floats.Min(values), floats.Max(values), true
}

// Rect is an axis-aligned rectangle of grid cells.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String returns the rectangle as "x,y wxh".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// Empty reports whether r covers no samples.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width &&
		o.Y+o.Height <= r.Y+r.Height
}

// Intersect returns the overlap of r and o. The result is Empty when they
// do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.Width, o.X+o.Width)
	y1 := min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
