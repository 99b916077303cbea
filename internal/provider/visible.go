package provider

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/volmesh/pkg/shape"
)

// Published is a finished shape handed to the renderer. Normals holds one
// welded vertex normal per vertex of a triangle shape; line shapes have
// none.
type Published struct {
	Key     string
	Request Request
	Shape   *shape.Shape
	Normals []r3.Vec
}

// VisibleList is the set of shapes a renderer draws. Shapes enter it only
// once fully built, so a reader never sees a partial shape.
type VisibleList struct {
	mu      sync.RWMutex
	items   []Published
	version uint64
}

// Publish adds p, replacing an earlier shape for the same request.
func (l *VisibleList) Publish(p Published) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.version++
	for i := range l.items {
		if l.items[i].Request == p.Request {
			l.items[i] = p
			return
		}
	}
	l.items = append(l.items, p)
}

// Snapshot returns a copy of the visible shapes.
func (l *VisibleList) Snapshot() []Published {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Published(nil), l.items...)
}

// Len returns the number of visible shapes.
func (l *VisibleList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Version increases on every change. Renderers compare it to skip
// re-uploading an unchanged list.
func (l *VisibleList) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}
