package tessellate

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/Faultbox/volmesh/pkg/grid"
)

// flatGrid creates a constant-valued grid.
func flatGrid(t *testing.T, width, height int) *grid.Grid {
	t.Helper()
	g, err := grid.Generate(width, height, 1, grid.Flat(7))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return g
}

// roughGrid creates a deterministic bumpy terrain.
func roughGrid(t *testing.T, width, height int, seed int64) *grid.Grid {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	wave := grid.Wave(10, 11)
	g, err := grid.Generate(width, height, 1, func(x, y int) float64 {
		return wave(x, y) + rng.Float64()*3
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return g
}

// spikeGrid creates a 3x3 grid whose center is raised by height.
func spikeGrid(t *testing.T, height float64) *grid.Grid {
	t.Helper()
	g, err := grid.Generate(3, 3, 1, func(x, y int) float64 {
		if x == 1 && y == 1 {
			return height
		}
		return 0
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return g
}

func mustFaces(t *testing.T, g *grid.Grid, maxError float64) []Face {
	t.Helper()
	faces, err := Faces(g, maxError)
	if err != nil {
		t.Fatalf("Faces failed: %v", err)
	}
	return faces
}

// twiceArea returns twice the planar area of f in grid cells.
func twiceArea(g *grid.Grid, f Face) int {
	ax, ay := g.XY(f.Apex)
	lx, ly := g.XY(f.Left)
	rx, ry := g.XY(f.Right)
	return abs((lx-ax)*(ry-ay) - (ly-ay)*(rx-ax))
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// checkConforming fails if an edge is shared by more than two faces or a
// face vertex lies strictly inside another face's edge.
func checkConforming(t *testing.T, g *grid.Grid, faces []Face) {
	t.Helper()

	vertices := make(map[int]bool)
	edges := make(map[[2]int]int)
	for _, f := range faces {
		idx := f.Indices()
		for k := range 3 {
			vertices[idx[k]] = true
			a, b := idx[k], idx[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}]++
		}
	}

	for e, count := range edges {
		if count > 2 {
			t.Errorf("edge %v shared by %d faces", e, count)
		}
		ax, ay := g.XY(e[0])
		bx, by := g.XY(e[1])
		dx, dy := bx-ax, by-ay
		steps := gcd(abs(dx), abs(dy))
		for k := 1; k < steps; k++ {
			p := g.Index(ax+dx/steps*k, ay+dy/steps*k)
			if vertices[p] {
				t.Errorf("T-junction: vertex %d inside edge %v", p, e)
			}
		}
	}
}

func sortedFaces(faces []Face) []Face {
	out := append([]Face(nil), faces...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Apex != b.Apex {
			return a.Apex < b.Apex
		}
		if a.Left != b.Left {
			return a.Left < b.Left
		}
		return a.Right < b.Right
	})
	return out
}

func TestNextLowestDyadicSize(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{5, 5},
		{8, 5},
		{9, 9},
		{16, 9},
		{17, 17},
		{100, 65},
		{513, 513},
	}

	for _, tc := range tests {
		if got := NextLowestDyadicSize(tc.in); got != tc.want {
			t.Errorf("NextLowestDyadicSize(%d) = %d, expected %d", tc.in, got, tc.want)
		}
	}

	if IsDyadic(4) || !IsDyadic(33) || IsDyadic(1) {
		t.Error("IsDyadic returned wrong result")
	}
}

func TestCalculateError(t *testing.T) {
	g := spikeGrid(t, 4)
	topLeft, topRight := g.Index(0, 0), g.Index(2, 0)
	bottomLeft := g.Index(0, 2)

	if e := CalculateError(g, topLeft, bottomLeft, topRight); e != 4 {
		t.Errorf("expected error 4, got %v", e)
	}

	// Unit cell hypotenuse is at grid resolution.
	if e := CalculateError(g, g.Index(0, 0), g.Index(0, 1), g.Index(1, 0)); e != 0 {
		t.Errorf("expected error 0 at grid resolution, got %v", e)
	}
}

func TestCalculateError_LooksAhead(t *testing.T) {
	// The hypotenuse midpoint is exact but a deeper midpoint is not.
	g := flatGrid(t, 5, 5)
	g.Samples[g.Index(1, 1)].Value += 3

	e := CalculateError(g, g.Index(0, 0), g.Index(0, 4), g.Index(4, 0))
	if e != 3 {
		t.Errorf("expected look-ahead error 3, got %v", e)
	}
}

func TestFaces_Spike(t *testing.T) {
	g := spikeGrid(t, 4)

	tests := []struct {
		maxError float64
		want     int
	}{
		{5, 2},
		{4, 4},
		{1, 4},
		{0, 8},
	}

	for _, tc := range tests {
		faces := mustFaces(t, g, tc.maxError)
		if len(faces) != tc.want {
			t.Errorf("maxError %v: expected %d faces, got %d", tc.maxError, tc.want, len(faces))
		}
		checkConforming(t, g, faces)
	}
}

func TestFaces_FlatPositiveThreshold(t *testing.T) {
	// Equal blocks meet edge to edge, so nothing forces a split.
	sizes := [][2]int{{17, 17}, {9, 9}, {33, 17}, {65, 17}, {9, 25}, {2, 2}}

	for _, sz := range sizes {
		t.Run(fmt.Sprintf("%dx%d", sz[0], sz[1]), func(t *testing.T) {
			g := flatGrid(t, sz[0], sz[1])
			blocks := tileRegion(nil, 0, 0, g.Width, g.Height, false, false)

			faces := mustFaces(t, g, 0.01)
			if len(faces) != 2*len(blocks) {
				t.Errorf("expected %d faces (2 per block), got %d", 2*len(blocks), len(faces))
			}
			checkConforming(t, g, faces)
		})
	}
}

func TestFaces_FlatMixedBlocks(t *testing.T) {
	// Smaller blocks force the larger ones to split along shared edges.
	sizes := [][2]int{{12, 17}, {20, 7}, {30, 30}}

	for _, sz := range sizes {
		t.Run(fmt.Sprintf("%dx%d", sz[0], sz[1]), func(t *testing.T) {
			g := flatGrid(t, sz[0], sz[1])
			blocks := tileRegion(nil, 0, 0, g.Width, g.Height, false, false)

			faces := mustFaces(t, g, 0.01)
			checkConforming(t, g, faces)
			if len(faces) <= 2*len(blocks) {
				t.Errorf("expected seams to force splits beyond %d faces, got %d", 2*len(blocks), len(faces))
			}
			if full := 2 * (g.Width - 1) * (g.Height - 1); len(faces) >= full {
				t.Errorf("expected a flat grid to stay below full resolution %d, got %d", full, len(faces))
			}
		})
	}
}

func TestFaces_FlatZeroThreshold(t *testing.T) {
	sizes := [][2]int{{3, 3}, {9, 9}, {12, 17}, {20, 7}, {33, 33}}

	for _, sz := range sizes {
		t.Run(fmt.Sprintf("%dx%d", sz[0], sz[1]), func(t *testing.T) {
			g := flatGrid(t, sz[0], sz[1])
			faces := mustFaces(t, g, 0)

			want := 2 * (g.Width - 1) * (g.Height - 1)
			if len(faces) != want {
				t.Errorf("expected full resolution %d faces, got %d", want, len(faces))
			}
			for _, f := range faces {
				if twiceArea(g, f) != 1 {
					t.Fatalf("face %+v is not a half cell", f)
				}
			}
		})
	}
}

func TestFaces_NegativeThresholdIsFullResolution(t *testing.T) {
	g := flatGrid(t, 9, 9)
	if len(mustFaces(t, g, -1)) != len(mustFaces(t, g, 0)) {
		t.Error("expected negative maxError to refine like 0")
	}
}

func TestFaces_DegenerateSlices(t *testing.T) {
	for _, sz := range [][2]int{{1, 1}, {1, 9}, {9, 1}} {
		g := flatGrid(t, sz[0], sz[1])
		faces := mustFaces(t, g, 0)
		if len(faces) != 0 {
			t.Errorf("%dx%d: expected no faces, got %d", sz[0], sz[1], len(faces))
		}
	}
}

func TestFaces_InvalidGrid(t *testing.T) {
	g := &grid.Grid{Width: 3, Height: 3, Samples: make([]grid.Sample, 8)}

	if _, err := Faces(g, 1); !errors.Is(err, grid.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := TessellateFromCenter(g, 1); !errors.Is(err, grid.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestFaces_CoversGrid(t *testing.T) {
	sizes := [][2]int{{17, 17}, {12, 17}, {20, 7}, {31, 18}}

	for _, sz := range sizes {
		g := roughGrid(t, sz[0], sz[1], 3)
		for _, maxError := range []float64{0, 0.5, 2, 100} {
			total := 0
			for _, f := range mustFaces(t, g, maxError) {
				total += twiceArea(g, f)
			}
			want := 2 * (g.Width - 1) * (g.Height - 1)
			if total != want {
				t.Errorf("%dx%d maxError %v: covered area %d, expected %d", g.Width, g.Height, maxError, total, want)
			}
		}
	}
}

func TestFaces_CrackFree(t *testing.T) {
	for _, size := range []int{5, 9, 17, 33} {
		g := roughGrid(t, size, size, int64(size))
		for _, maxError := range []float64{0, 0.5, 1, 3, 8} {
			checkConforming(t, g, mustFaces(t, g, maxError))
		}
	}
}

func TestFaces_CrackFreeAcrossBlocks(t *testing.T) {
	tests := []struct {
		width, height int
		seed          int64
		maxErrors     []float64
	}{
		{33, 17, 3, []float64{0.5, 2, 4, 8}},
		{12, 17, 3, []float64{0.5, 1, 2}},
		{30, 21, 11, []float64{0, 0.5, 1.5, 6}},
		{20, 7, 4, []float64{0.25, 1, 3}},
		{100, 37, 8, []float64{1, 4, 16}},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%dx%d", tc.width, tc.height), func(t *testing.T) {
			g := roughGrid(t, tc.width, tc.height, tc.seed)
			for _, maxError := range tc.maxErrors {
				checkConforming(t, g, mustFaces(t, g, maxError))
			}
		})
	}
}

func TestFacesFromCenter_CrackFree(t *testing.T) {
	sizes := [][2]int{{20, 13}, {12, 17}, {40, 40}, {31, 18}, {2, 9}}

	for _, sz := range sizes {
		t.Run(fmt.Sprintf("%dx%d", sz[0], sz[1]), func(t *testing.T) {
			g := roughGrid(t, sz[0], sz[1], 2)
			for _, maxError := range []float64{0, 0.5, 1, 4} {
				faces, err := FacesFromCenter(g, maxError)
				if err != nil {
					t.Fatalf("FacesFromCenter failed: %v", err)
				}
				checkConforming(t, g, faces)
			}
		})
	}
}

func TestPlant_LinksEqualBlocks(t *testing.T) {
	g := flatGrid(t, 33, 17)
	tr := newTree(g, 1)
	roots := tr.plant([]block{{x: 0, y: 0, size: 17}, {x: 16, y: 0, size: 17}})

	// The east leg of the first block's second root is the west leg of the
	// next block's first root.
	west, east := roots[1], roots[2]
	if tr.nodes[west].leftNeighbor != east || tr.nodes[east].leftNeighbor != west {
		t.Errorf("shared block edge not linked: %+v %+v", tr.nodes[west], tr.nodes[east])
	}
	if tr.nodes[roots[0]].leftNeighbor != none || tr.nodes[roots[3]].leftNeighbor != none {
		t.Error("grid border legs should stay unlinked")
	}
}

func TestSetLogger_ConcurrentWithTessellation(t *testing.T) {
	defer SetLogger(nil)
	g := roughGrid(t, 20, 13, 6)

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetLogger(zap.NewNop())
			}
			if _, err := Faces(g, 1); err != nil {
				t.Errorf("Faces failed: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestFaces_ErrorBound(t *testing.T) {
	g := roughGrid(t, 33, 33, 5)

	for _, maxError := range []float64{0.25, 1, 4} {
		for _, f := range mustFaces(t, g, maxError) {
			e := CalculateError(g, f.Apex, f.Left, f.Right)
			if e >= maxError {
				t.Errorf("maxError %v: leaf %+v has error %v", maxError, f, e)
			}
		}
	}
}

func TestFaces_Monotonic(t *testing.T) {
	g := roughGrid(t, 33, 25, 9)

	prev := -1
	for _, maxError := range []float64{0, 0.1, 0.5, 1, 2, 4, 8, 16, 64} {
		n := len(mustFaces(t, g, maxError))
		if prev >= 0 && n > prev {
			t.Errorf("maxError %v produced %d faces, more than %d", maxError, n, prev)
		}
		prev = n
	}
}

func TestFacesFromCenter_MatchesDyadicGrid(t *testing.T) {
	for _, size := range []int{3, 9, 17, 33} {
		g := roughGrid(t, size, size, int64(size)*7)
		for _, maxError := range []float64{0, 1, 4} {
			faces := mustFaces(t, g, maxError)
			centered, err := FacesFromCenter(g, maxError)
			if err != nil {
				t.Fatalf("FacesFromCenter failed: %v", err)
			}

			a, b := sortedFaces(faces), sortedFaces(centered)
			if len(a) != len(b) {
				t.Fatalf("size %d maxError %v: %d faces vs %d centered", size, maxError, len(a), len(b))
			}
			for i := range a {
				if a[i] != b[i] {
					t.Fatalf("size %d maxError %v: face %d differs: %+v vs %+v", size, maxError, i, a[i], b[i])
				}
			}
		}
	}
}

func TestFacesFromCenter_CoversGrid(t *testing.T) {
	sizes := [][2]int{{20, 13}, {12, 17}, {40, 40}, {2, 9}}

	for _, sz := range sizes {
		g := roughGrid(t, sz[0], sz[1], 2)
		faces, err := FacesFromCenter(g, 1)
		if err != nil {
			t.Fatalf("FacesFromCenter failed: %v", err)
		}
		total := 0
		for _, f := range faces {
			total += twiceArea(g, f)
		}
		if want := 2 * (g.Width - 1) * (g.Height - 1); total != want {
			t.Errorf("%dx%d: covered area %d, expected %d", g.Width, g.Height, total, want)
		}
	}
}

func TestTessellate_ResolvesSamples(t *testing.T) {
	g := spikeGrid(t, 4)

	triangles, err := Tessellate(g, 0)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	faces := mustFaces(t, g, 0)
	if len(triangles) != len(faces) {
		t.Fatalf("expected %d triangles, got %d", len(faces), len(triangles))
	}
	for i, f := range faces {
		if triangles[i].Apex != g.Samples[f.Apex] || triangles[i].Right != g.Samples[f.Right] {
			t.Errorf("triangle %d not resolved from face %+v", i, f)
		}
	}
}
