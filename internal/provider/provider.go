// Package provider builds volume shapes in the background and publishes
// them to a renderer-visible list.
package provider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/volmesh/pkg/shape"
	"github.com/Faultbox/volmesh/pkg/volume"
)

// Provider builds shapes for one volume.
type Provider struct {
	vol     *volume.Volume
	opts    volume.Options
	workers int

	cache   *Cache
	visible *VisibleList
	log     *zap.Logger
}

// New creates a provider. workers below 1 means one worker; a nil log
// discards output.
func New(v *volume.Volume, opts volume.Options, workers int, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		vol:     v,
		opts:    opts,
		workers: max(workers, 1),
		cache:   NewCache(),
		visible: &VisibleList{},
		log:     log,
	}
}

// Visible returns the list the renderer reads.
func (p *Provider) Visible() *VisibleList {
	return p.visible
}

// Cache returns the build cache.
func (p *Provider) Cache() *Cache {
	return p.cache
}

// Build builds every request concurrently and publishes each shape as soon
// as it is finished. It returns the shapes in request order. The first
// failure or a cancelled ctx stops requests that have not started yet.
func (p *Provider) Build(ctx context.Context, reqs []Request) ([]*shape.Shape, error) {
	start := time.Now()
	shapes := make([]*shape.Shape, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, r := range reqs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pub, err := p.build(r)
			if err != nil {
				return fmt.Errorf("building %s: %w", r, err)
			}
			shapes[i] = pub.Shape
			p.visible.Publish(pub)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.log.Warn("build failed", zap.Int("requests", len(reqs)), zap.Error(err))
		return nil, err
	}
	// A cancellation seen by the loop before any worker started.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits, misses := p.cache.Stats()
	p.log.Info("build complete",
		zap.Int("shapes", len(shapes)),
		zap.Int("cached", p.cache.Len()),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses),
		zap.Uint64("visible_version", p.visible.Version()),
		zap.Duration("elapsed", time.Since(start)))
	return shapes, nil
}

func (p *Provider) build(r Request) (Published, error) {
	key := r.Key(p.opts)
	if pub, ok := p.cache.Get(key); ok {
		pub.Request = r
		return pub, nil
	}

	start := time.Now()
	s, err := r.build(p.vol, p.opts)
	if err != nil {
		return Published{}, err
	}
	pub := Published{Key: key, Request: r, Shape: s}
	if s.Mode != shape.Lines {
		if pub.Normals, err = s.Normals(); err != nil {
			return Published{}, err
		}
	}
	p.cache.Set(key, pub)

	p.log.Debug("shape built",
		zap.String("key", key),
		zap.Stringer("mode", s.Mode),
		zap.Int("vertices", s.VertexCount()),
		zap.Int("primitives", s.PrimitiveCount()),
		zap.Duration("elapsed", time.Since(start)))
	return pub, nil
}
