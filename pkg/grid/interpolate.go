package grid

// Interpolate returns the value at fractional grid position (fx, fy),
// blending the four surrounding samples bilinearly. Positions outside the
// grid are clamped to its border.
func (g *Grid) Interpolate(fx, fy float64) float64 {
	fx = clamp(fx, 0, float64(g.Width-1))
	fy = clamp(fy, 0, float64(g.Height-1))

	x0 := min(int(fx), max(g.Width-2, 0))
	y0 := min(int(fy), max(g.Height-2, 0))
	x1 := min(x0+1, g.Width-1)
	y1 := min(y0+1, g.Height-1)

	tx := fx - float64(x0)
	ty := fy - float64(y0)

	// Lerp along x on the near and far rows, then between the rows.
	near := g.At(x0, y0).Value*(1-tx) + g.At(x1, y0).Value*tx
	far := g.At(x0, y1).Value*(1-tx) + g.At(x1, y1).Value*tx
	return near*(1-ty) + far*ty
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
