package provider

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/volmesh/pkg/shape"
	"github.com/Faultbox/volmesh/pkg/volume"
)

// ErrInvalidRequest is returned for malformed request strings.
var ErrInvalidRequest = errors.New("invalid shape request")

// Kind selects which piece of volume geometry a request builds.
type Kind int

// Request kinds.
const (
	Surface Kind = iota
	LongitudeCurtain
	LatitudeCurtain
	BoundingBox
)

// String returns the name used in request strings.
func (k Kind) String() string {
	switch k {
	case Surface:
		return "surface"
	case LongitudeCurtain:
		return "lon"
	case LatitudeCurtain:
		return "lat"
	case BoundingBox:
		return "box"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Request names one shape to build. Index is the column of a longitude
// curtain or the row of a latitude curtain.
type Request struct {
	Kind  Kind
	Index int
}

// String formats the request the way ParseRequest reads it.
func (r Request) String() string {
	switch r.Kind {
	case LongitudeCurtain, LatitudeCurtain:
		return fmt.Sprintf("%s:%d", r.Kind, r.Index)
	default:
		return r.Kind.String()
	}
}

// Key identifies the built shape for caching. Options that do not change
// a shape are left out.
func (r Request) Key(opts volume.Options) string {
	switch r.Kind {
	case Surface:
		clip := "full"
		if opts.Clip != nil {
			clip = opts.Clip.String()
		}
		return fmt.Sprintf("%s err=%g clip=%s center=%t tex=%t",
			r, opts.MaxError, clip, opts.FromCenter, opts.GenerateTextureCoordinates)
	case LongitudeCurtain, LatitudeCurtain:
		return fmt.Sprintf("%s list=%t tex=%t", r, opts.ForceTriangleList, opts.GenerateTextureCoordinates)
	default:
		return r.String()
	}
}

// build runs the volume operation the request names.
func (r Request) build(v *volume.Volume, opts volume.Options) (*shape.Shape, error) {
	switch r.Kind {
	case Surface:
		return v.HorizontalSurface(opts)
	case LongitudeCurtain:
		return v.LongitudeCurtain(r.Index, opts)
	case LatitudeCurtain:
		return v.LatitudeCurtain(r.Index, opts)
	case BoundingBox:
		return v.BoundingBox(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, r)
	}
}

// ParseRequest reads "surface", "box", "lon:<x>" or "lat:<y>".
func ParseRequest(s string) (Request, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), ":")

	var r Request
	switch name {
	case "surface":
		r.Kind = Surface
	case "box":
		r.Kind = BoundingBox
	case "lon":
		r.Kind = LongitudeCurtain
	case "lat":
		r.Kind = LatitudeCurtain
	default:
		return Request{}, fmt.Errorf("%w: %q", ErrInvalidRequest, s)
	}

	needsArg := r.Kind == LongitudeCurtain || r.Kind == LatitudeCurtain
	if hasArg != needsArg {
		return Request{}, fmt.Errorf("%w: %q", ErrInvalidRequest, s)
	}
	if needsArg {
		idx, err := strconv.Atoi(arg)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %q: %v", ErrInvalidRequest, s, err)
		}
		r.Index = idx
	}
	return r, nil
}

// ParseRequests reads a comma separated request list.
func ParseRequests(s string) ([]Request, error) {
	var reqs []Request
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		r, err := ParseRequest(part)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

// Scene returns the requests for a complete volume: the top surface, the
// four outer walls and the wireframe outline.
func Scene(v *volume.Volume) []Request {
	g := v.Grid()
	return []Request{
		{Kind: Surface},
		{Kind: LongitudeCurtain, Index: 0},
		{Kind: LongitudeCurtain, Index: g.Width - 1},
		{Kind: LatitudeCurtain, Index: 0},
		{Kind: LatitudeCurtain, Index: g.Height - 1},
		{Kind: BoundingBox},
	}
}
