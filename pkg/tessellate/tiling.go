package tessellate

// block is a square dyadic sub-grid with its top-left corner at (x, y).
// Adjacent blocks share their boundary samples.
type block struct {
	x, y int
	size int
}

// NextLowestDyadicSize returns the largest 2^k+1 (k >= 0) not greater than
// v. Values below 2 are returned unchanged; they cannot hold a triangle.
func NextLowestDyadicSize(v int) int {
	if v < 2 {
		return v
	}
	size := 2
	for 2*size-1 <= v {
		size = 2*size - 1
	}
	return size
}

// IsDyadic reports whether v is a block side of the form 2^k+1.
func IsDyadic(v int) bool {
	return v >= 2 && NextLowestDyadicSize(v) == v
}

// tileRegion covers the w x h sample region at (x0, y0) with dyadic
// blocks. The largest block fitting the region is repeated across it and
// the right and bottom remainders are tiled recursively. flipX and flipY
// mirror the placement so remainders end up at the low x or y side.
func tileRegion(out []block, x0, y0, w, h int, flipX, flipY bool) []block {
	if w < 2 || h < 2 {
		return out
	}

	size := NextLowestDyadicSize(min(w, h))
	step := size - 1
	across := (w - 1) / step
	down := (h - 1) / step

	for j := range down {
		for i := range across {
			bx, by := i*step, j*step
			if flipX {
				bx = w - 1 - step - bx
			}
			if flipY {
				by = h - 1 - step - by
			}
			out = append(out, block{x: x0 + bx, y: y0 + by, size: size})
		}
	}

	coveredW := across*step + 1
	coveredH := down*step + 1

	// Right remainder, as tall as the covered rows.
	rx, ry := coveredW-1, 0
	if flipX {
		rx = 0
	}
	if flipY {
		ry = h - coveredH
	}
	out = tileRegion(out, x0+rx, y0+ry, w-coveredW+1, coveredH, flipX, flipY)

	// Bottom remainder, full width.
	by := coveredH - 1
	if flipY {
		by = 0
	}
	return tileRegion(out, x0, y0+by, w, h-coveredH+1, flipX, flipY)
}

// centerBlocks places the largest dyadic block at the grid center and
// tiles the north, south, west and east strips around it, each anchored on
// the center block's edge.
func centerBlocks(w, h int) []block {
	if w < 2 || h < 2 {
		return nil
	}

	size := NextLowestDyadicSize(min(w, h))
	cx, cy := (w-size)/2, (h-size)/2
	far := size - 1

	blocks := []block{{x: cx, y: cy, size: size}}
	blocks = tileRegion(blocks, 0, 0, w, cy+1, false, true)
	blocks = tileRegion(blocks, 0, cy+far, w, h-cy-far, false, false)
	blocks = tileRegion(blocks, 0, cy, cx+1, size, true, false)
	return tileRegion(blocks, cx+far, cy, w-cx-far, size, false, false)
}
