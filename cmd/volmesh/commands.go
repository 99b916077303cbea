package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/volmesh/internal/config"
	"github.com/Faultbox/volmesh/internal/logger"
	"github.com/Faultbox/volmesh/internal/provider"
	"github.com/Faultbox/volmesh/pkg/formats"
	"github.com/Faultbox/volmesh/pkg/grid"
	"github.com/Faultbox/volmesh/pkg/shape"
	"github.com/Faultbox/volmesh/pkg/tessellate"
)

func cmdInfo(args []string) error {
	fs, flags := newFlagSet("info")
	at := fs.String("at", "", "Print the interpolated value at grid position x,y")
	fs.Parse(args)

	s, err := open(fs, flags)
	if err != nil {
		return err
	}
	g := s.file.Grid

	fmt.Printf("File:     %s\n", fs.Arg(0))
	fmt.Printf("Version:  %s\n", s.file.Version)
	fmt.Printf("Size:     %dx%d (%d samples)\n", g.Width, g.Height, len(g.Samples))
	fmt.Printf("Depth:    %g\n", s.vol.Depth())
	fmt.Printf("No-data:  %g\n", g.NoData)
	if lo, hi, ok := g.ValueRange(); ok {
		fmt.Printf("Values:   %g .. %g\n", lo, hi)
	} else {
		fmt.Println("Values:   (all no-data)")
	}
	fmt.Printf("Dyadic:   %v x %v (largest block %d)\n",
		tessellate.IsDyadic(g.Width), tessellate.IsDyadic(g.Height),
		tessellate.NextLowestDyadicSize(min(g.Width, g.Height)))
	fmt.Printf("Slice:    %v\n", s.vol.IsSingleSlice())

	if *at != "" {
		xy := strings.Split(*at, ",")
		if len(xy) != 2 {
			return fmt.Errorf("at %q: expected x,y", *at)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return fmt.Errorf("at %q: %w", *at, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return fmt.Errorf("at %q: %w", *at, err)
		}
		fmt.Printf("Value at: (%g, %g) = %g\n", x, y, g.Interpolate(x, y))
	}
	return nil
}

func cmdGen(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	width := fs.Int("w", 65, "Grid width in samples")
	height := fs.Int("h", 65, "Grid height in samples")
	cell := fs.Float64("cell", 10, "Horizontal spacing between samples")
	kind := fs.String("kind", "wave", "Surface kind: flat, ridge or wave")
	amplitude := fs.Float64("amplitude", 20, "Surface height scale")
	depth := fs.Float64("depth", 0, "Volume depth stored in the file (0 = config default)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("missing output file, usage: volmesh gen [options] <file.vgrd>")
	}

	peak := *amplitude
	var fn grid.HeightFunc
	switch *kind {
	case "flat":
		fn = grid.Flat(peak)
	case "ridge":
		fn = grid.Ridge(float64(*width-1)/2, peak, 2*peak/float64(max(*width-1, 1)))
	case "wave":
		fn = grid.Wave(peak, float64(max(*width, *height))/2)
	default:
		return fmt.Errorf("unknown surface kind %q", *kind)
	}

	g, err := grid.Generate(*width, *height, *cell, fn)
	if err != nil {
		return err
	}

	cfg := config.Default()
	g.NoData = cfg.Volume.NoData
	if *depth == 0 {
		*depth = cfg.Volume.Depth
	}

	if err := formats.WriteGridFile(fs.Arg(0), g, *depth); err != nil {
		return err
	}
	fmt.Printf("Wrote %dx%d %s grid to %s\n", g.Width, g.Height, *kind, fs.Arg(0))
	return nil
}

func cmdConfig(args []string) error {
	fs, flags := newFlagSet("config")
	save := fs.Bool("save", false, "Write the effective config to the user config directory")
	to := fs.String("o", "", "Write the effective config to this path")
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	switch {
	case *to != "":
		if err := cfg.SaveTo(*to); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", *to)
	case *save:
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	default:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	return nil
}

func cmdSurface(args []string) error {
	fs, flags := newFlagSet("surface")
	clip := fs.String("clip", "", "Clip rectangle as x,y,w,h")
	stl := fs.String("stl", "", "Export the surface to an STL file")
	fs.Parse(args)

	s, err := open(fs, flags)
	if err != nil {
		return err
	}

	opts := s.cfg.Options()
	if *clip != "" {
		r, err := parseRect(*clip)
		if err != nil {
			return err
		}
		opts.Clip = &r
	}

	surface, err := s.vol.HorizontalSurface(opts)
	if err != nil {
		return err
	}
	printShape("surface", surface)
	return exportSTL(*stl, surface)
}

func cmdCurtain(args []string) error {
	fs, flags := newFlagSet("curtain")
	stl := fs.String("stl", "", "Export the curtain to an STL file")
	fs.Parse(args)

	if fs.NArg() < 3 {
		return fmt.Errorf("usage: volmesh curtain [options] <file.vgrd> lon|lat <index>")
	}
	s, err := open(fs, flags)
	if err != nil {
		return err
	}

	req, err := curtainRequest(fs.Arg(1), fs.Arg(2))
	if err != nil {
		return err
	}

	var wall *shape.Shape
	if req.Kind == provider.LongitudeCurtain {
		wall, err = s.vol.LongitudeCurtain(req.Index, s.cfg.Options())
	} else {
		wall, err = s.vol.LatitudeCurtain(req.Index, s.cfg.Options())
	}
	if err != nil {
		return err
	}
	printShape(req.String(), wall)
	return exportSTL(*stl, wall)
}

// curtainRequest reads the direction and index arguments of the curtain
// command.
func curtainRequest(dir, index string) (provider.Request, error) {
	if dir != "lon" && dir != "lat" {
		return provider.Request{}, fmt.Errorf("%w: curtain direction must be lon or lat, got %q", provider.ErrInvalidRequest, dir)
	}
	return provider.ParseRequest(dir + ":" + index)
}

func cmdBox(args []string) error {
	fs, flags := newFlagSet("box")
	aabb := fs.Bool("aabb", false, "Also print the axis-aligned box around the volume")
	pad := fs.Float64("pad", 0, "Padding added on every side of the -aabb box")
	fs.Parse(args)

	s, err := open(fs, flags)
	if err != nil {
		return err
	}
	box := s.vol.BoundingBox()
	printShape("box", box)
	if *aabb {
		printShape("aabb", shape.AABBWireframe(box.Bounds(), *pad))
	}
	return nil
}

func cmdBuild(args []string) error {
	fs, flags := newFlagSet("build")
	requests := fs.String("requests", "", "Comma separated shapes: surface, box, lon:<x>, lat:<y> (default full scene)")
	fs.Parse(args)

	s, err := open(fs, flags)
	if err != nil {
		return err
	}

	reqs := provider.Scene(s.vol)
	if *requests != "" {
		if reqs, err = provider.ParseRequests(*requests); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := provider.New(s.vol, s.cfg.Options(), s.cfg.Provider.Workers, logger.Named("provider"))
	if _, err := p.Build(ctx, reqs); err != nil {
		return err
	}

	var triangles []*shape.Shape
	for _, pub := range p.Visible().Snapshot() {
		printShape(pub.Request.String(), pub.Shape)
		if pub.Shape.Mode != shape.Lines {
			triangles = append(triangles, pub.Shape)
		}
	}
	hits, misses := p.Cache().Stats()
	fmt.Printf("%d shapes visible (version %d), cache %d shapes, %d hits, %d misses\n",
		p.Visible().Len(), p.Visible().Version(), p.Cache().Len(), hits, misses)

	if !s.cfg.Output.STL || len(triangles) == 0 {
		return nil
	}
	if err := os.MkdirAll(s.cfg.Output.Dir, 0o755); err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(fs.Arg(0)), filepath.Ext(fs.Arg(0))) + ".stl"
	return exportSTL(filepath.Join(s.cfg.Output.Dir, name), triangles...)
}

func printShape(name string, s *shape.Shape) {
	b := s.Bounds()
	fmt.Printf("%-12s %-14s vertices=%-7d primitives=%-7d", name, s.Mode, s.VertexCount(), s.PrimitiveCount())
	if !b.IsEmpty() {
		fmt.Printf(" bounds=(%.2f,%.2f,%.2f)-(%.2f,%.2f,%.2f)", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
	}
	if s.Mode == shape.Lines {
		fmt.Printf(" length=%.2f", lineLength(s))
	}
	fmt.Println()
}

// lineLength sums the lengths of the segments of a line shape.
func lineLength(s *shape.Shape) float64 {
	var total float64
	for _, seg := range s.Segments() {
		total += r3.Norm(r3.Sub(seg[1], seg[0]))
	}
	return total
}

func exportSTL(path string, shapes ...*shape.Shape) error {
	if path == "" {
		return nil
	}
	if err := formats.SaveSTL(path, shapes...); err != nil {
		return err
	}
	logger.Info("exported STL", zap.String("path", path), zap.Int("shapes", len(shapes)))
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// parseRect reads "x,y,w,h".
func parseRect(s string) (grid.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return grid.Rect{}, fmt.Errorf("clip %q: expected x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return grid.Rect{}, fmt.Errorf("clip %q: %w", s, err)
		}
		v[i] = n
	}
	return grid.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}
