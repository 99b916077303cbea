package grid

import "math"

// HeightFunc returns the scalar value of grid point (x, y).
type HeightFunc func(x, y int) float64

// Generate builds a width x height grid with horizontal coordinates spaced
// cellSize apart and values taken from fn.
func Generate(width, height int, cellSize float64, fn HeightFunc) (*Grid, error) {
	if width < 1 || height < 1 {
		return New(nil, width, height)
	}

	samples := make([]Sample, width*height)
	for y := range height {
		for x := range width {
			samples[x+y*width] = Sample{
				H1:    float64(x) * cellSize,
				H2:    float64(y) * cellSize,
				Value: fn(x, y),
			}
		}
	}
	return New(samples, width, height)
}

// Flat returns a constant surface.
func Flat(value float64) HeightFunc {
	return func(int, int) float64 {
		return value
	}
}

// Ridge returns a tent-shaped ridge running along column cx.
func Ridge(cx, peak, slope float64) HeightFunc {
	return func(x, _ int) float64 {
		return peak - slope*math.Abs(float64(x)-cx)
	}
}

// Wave returns a smooth sinusoidal surface.
func Wave(amplitude, wavelength float64) HeightFunc {
	k := 2 * math.Pi / wavelength
	return func(x, y int) float64 {
		return amplitude * (math.Sin(k*float64(x)) + math.Cos(k*float64(y)))
	}
}
