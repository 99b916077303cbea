package tessellate

import (
	"math"

	"github.com/Faultbox/volmesh/pkg/grid"
)

// none marks an absent child or neighbor in the node arena.
const none = -1

// node is a right triangle of the binary triangle tree. apex is the right
// angle; left-right is the hypotenuse. All references are arena indices.
type node struct {
	apex, left, right int

	leftChild, rightChild int

	// leftNeighbor lies across apex-left, rightNeighbor across apex-right
	// and bottomNeighbor across the hypotenuse.
	leftNeighbor, rightNeighbor, bottomNeighbor int
}

func (n *node) isLeaf() bool {
	return n.leftChild == none
}

// tree is the node arena shared by every block of one tessellation. Roots
// of adjacent blocks are linked so conforming splits cross block edges.
type tree struct {
	g        *grid.Grid
	maxError float64
	nodes    []node
}

func newTree(g *grid.Grid, maxError float64) *tree {
	return &tree{g: g, maxError: maxError}
}

func (t *tree) newNode(apex, left, right int) int {
	t.nodes = append(t.nodes, node{
		apex:           apex,
		left:           left,
		right:          right,
		leftChild:      none,
		rightChild:     none,
		leftNeighbor:   none,
		rightNeighbor:  none,
		bottomNeighbor: none,
	})
	return len(t.nodes) - 1
}

// leg is the side of a root triangle lying on a block edge.
type leg struct {
	node int
	left bool
}

// plant covers every block with two roots sharing the block diagonal and
// links roots whose legs coincide. The roots are returned in block order,
// two per block.
func (t *tree) plant(blocks []block) []int {
	roots := make([]int, 0, 2*len(blocks))
	open := make(map[[2]int]leg)
	for _, b := range blocks {
		last := b.size - 1
		topLeft := t.g.Index(b.x, b.y)
		topRight := t.g.Index(b.x+last, b.y)
		bottomLeft := t.g.Index(b.x, b.y+last)
		bottomRight := t.g.Index(b.x+last, b.y+last)

		first := t.newNode(topLeft, bottomLeft, topRight)
		second := t.newNode(bottomRight, topRight, bottomLeft)
		t.nodes[first].bottomNeighbor = second
		t.nodes[second].bottomNeighbor = first

		for _, r := range [2]int{first, second} {
			t.link(open, leg{node: r, left: true})
			t.link(open, leg{node: r, left: false})
		}
		roots = append(roots, first, second)
	}
	return roots
}

// link pairs l with the root leg already waiting on the same edge, if any.
func (t *tree) link(open map[[2]int]leg, l leg) {
	n := t.nodes[l.node]
	end := n.right
	if l.left {
		end = n.left
	}
	key := [2]int{min(n.apex, end), max(n.apex, end)}

	other, ok := open[key]
	if !ok {
		open[key] = l
		return
	}
	delete(open, key)
	t.setLegNeighbor(l, other.node)
	t.setLegNeighbor(other, l.node)
}

func (t *tree) setLegNeighbor(l leg, nb int) {
	if l.left {
		t.nodes[l.node].leftNeighbor = nb
	} else {
		t.nodes[l.node].rightNeighbor = nb
	}
}

// refine splits i while its look-ahead error reaches maxError. Nodes that
// were already split by a conforming neighbor are descended into.
func (t *tree) refine(i int) {
	n := t.nodes[i]
	if !n.isLeaf() {
		t.refine(n.leftChild)
		t.refine(n.rightChild)
		return
	}
	if !canSplit(t.g, n.left, n.right) {
		return
	}
	if CalculateError(t.g, n.apex, n.left, n.right) >= t.maxError {
		t.trySplitFace(i)
		t.refine(t.nodes[i].leftChild)
		t.refine(t.nodes[i].rightChild)
	}
}

// trySplitFace splits i without leaving a T-junction on its hypotenuse.
// A coarser bottom neighbor is split first, then both halves of the
// shared edge are linked.
func (t *tree) trySplitFace(i int) {
	if !t.nodes[i].isLeaf() {
		return
	}

	if b := t.nodes[i].bottomNeighbor; b != none && t.nodes[b].bottomNeighbor != i {
		t.trySplitFace(b)
	}

	t.splitFace(i)

	b := t.nodes[i].bottomNeighbor
	if b == none {
		return
	}
	if t.nodes[b].isLeaf() {
		// b now faces i across the same hypotenuse; its own split links back.
		t.trySplitFace(b)
		return
	}

	lc, rc := t.nodes[i].leftChild, t.nodes[i].rightChild
	blc, brc := t.nodes[b].leftChild, t.nodes[b].rightChild
	t.nodes[blc].rightNeighbor = rc
	t.nodes[brc].leftNeighbor = lc
	t.nodes[lc].rightNeighbor = brc
	t.nodes[rc].leftNeighbor = blc
}

// splitFace bisects the hypotenuse of i and hands the parent's outer
// neighbors to the children.
func (t *tree) splitFace(i int) {
	n := t.nodes[i]
	mid := midpoint(t.g, n.left, n.right)

	lc := t.newNode(mid, n.apex, n.left)
	rc := t.newNode(mid, n.right, n.apex)

	t.nodes[lc].bottomNeighbor = n.leftNeighbor
	t.nodes[lc].leftNeighbor = rc
	t.nodes[rc].bottomNeighbor = n.rightNeighbor
	t.nodes[rc].rightNeighbor = lc

	t.nodes[i].leftChild = lc
	t.nodes[i].rightChild = rc

	t.replaceNeighbor(n.leftNeighbor, i, lc)
	t.replaceNeighbor(n.rightNeighbor, i, rc)
}

// replaceNeighbor repoints whichever neighbor slot of at refers to old.
func (t *tree) replaceNeighbor(at, old, repl int) {
	if at == none {
		return
	}
	nb := &t.nodes[at]
	switch old {
	case nb.bottomNeighbor:
		nb.bottomNeighbor = repl
	case nb.leftNeighbor:
		nb.leftNeighbor = repl
	case nb.rightNeighbor:
		nb.rightNeighbor = repl
	}
}

// leaves appends the leaf faces below i in post order.
func (t *tree) leaves(i int, out []Face) []Face {
	n := t.nodes[i]
	if n.isLeaf() {
		return append(out, Face{Apex: n.apex, Left: n.left, Right: n.right})
	}
	out = t.leaves(n.leftChild, out)
	return t.leaves(n.rightChild, out)
}

// seal splits leaves until no mesh vertex lies strictly inside a leaf
// edge. Linked roots already agree along equal block edges; this closes
// the seams where blocks of different sizes or offsets meet. It returns
// the number of leaves it split.
func (t *tree) seal(roots []int) int {
	used := make([]bool, len(t.g.Samples))
	var leaves, pending []int
	splits := 0
	for {
		leaves = leaves[:0]
		for _, r := range roots {
			leaves = t.leafNodes(r, leaves)
		}

		clear(used)
		for _, i := range leaves {
			n := t.nodes[i]
			used[n.apex], used[n.left], used[n.right] = true, true, true
		}

		pending = pending[:0]
		for _, i := range leaves {
			if t.straddlesVertex(i, used) {
				pending = append(pending, i)
			}
		}
		if len(pending) == 0 {
			return splits
		}

		for _, i := range pending {
			// An earlier conforming split may already have reached i.
			if t.nodes[i].isLeaf() {
				t.trySplitFace(i)
				splits++
			}
		}
	}
}

func (t *tree) straddlesVertex(i int, used []bool) bool {
	n := t.nodes[i]
	if !canSplit(t.g, n.left, n.right) {
		return false
	}
	return t.edgeHasVertex(n.apex, n.left, used) ||
		t.edgeHasVertex(n.apex, n.right, used) ||
		t.edgeHasVertex(n.left, n.right, used)
}

// edgeHasVertex reports whether a used sample lies strictly between a and
// b. Only axis-aligned edges are scanned: diagonal edges never lie on a
// block edge.
func (t *tree) edgeHasVertex(a, b int, used []bool) bool {
	ax, ay := t.g.XY(a)
	bx, by := t.g.XY(b)
	switch {
	case ax == bx:
		for y := min(ay, by) + 1; y < max(ay, by); y++ {
			if used[t.g.Index(ax, y)] {
				return true
			}
		}
	case ay == by:
		for x := min(ax, bx) + 1; x < max(ax, bx); x++ {
			if used[t.g.Index(x, ay)] {
				return true
			}
		}
	}
	return false
}

// leafNodes appends the arena indices of the leaves below i.
func (t *tree) leafNodes(i int, out []int) []int {
	n := t.nodes[i]
	if n.isLeaf() {
		return append(out, i)
	}
	out = t.leafNodes(n.leftChild, out)
	return t.leafNodes(n.rightChild, out)
}

// CalculateError returns the interpolation error of the triangle
// (apex, left, right): the deviation of the hypotenuse midpoint from the
// mean of left and right, maximized over every triangle a full
// subdivision would create. Triangles at grid resolution return 0.
func CalculateError(g *grid.Grid, apex, left, right int) float64 {
	if !canSplit(g, left, right) {
		return 0
	}

	mid := midpoint(g, left, right)
	interpolated := (g.Samples[left].Value + g.Samples[right].Value) / 2
	err := math.Abs(g.Samples[mid].Value - interpolated)

	err = math.Max(err, CalculateError(g, mid, apex, left))
	return math.Max(err, CalculateError(g, mid, right, apex))
}

// canSplit reports whether the hypotenuse left-right has a grid point
// exactly halfway along it, i.e. is longer than one grid cell.
func canSplit(g *grid.Grid, left, right int) bool {
	lx, ly := g.XY(left)
	rx, ry := g.XY(right)
	if (lx+rx)%2 != 0 || (ly+ry)%2 != 0 {
		return false
	}
	return abs(lx-rx) > 1 || abs(ly-ry) > 1
}

func midpoint(g *grid.Grid, left, right int) int {
	lx, ly := g.XY(left)
	rx, ry := g.XY(right)
	return g.Index((lx+rx)/2, (ly+ry)/2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
