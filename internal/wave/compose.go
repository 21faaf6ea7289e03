package wave

import "github.com/coreman2200/funtimes-wavecanvas/internal/pattern"

// Point is one vertex of a composed line, in canvas pixels relative to the
// top of the line stack.
type Point struct{ X, Y float64 }

// SampleXs returns left-to-right sample positions across width, always
// including both edges.
func SampleXs(width int, step float64) []float64 {
	if width <= 0 {
		return nil
	}
	if step <= 0 {
		step = 1
	}
	w := float64(width)
	xs := make([]float64, 0, int(w/step)+2)
	for x := 0.0; x < w; x += step {
		xs = append(xs, x)
	}
	return append(xs, w)
}

// ComposeLine samples one line of the stack:
//
//	y = A * s(wave, f*(x + motionX + phaseOffset*i)) + i*distance
//
// xs must be ascending for the stroke to be continuous. The result is
// freshly allocated on every call.
func ComposeLine(p pattern.Parameters, s Sampler, lineIndex int, xs []float64, motionX float64) []Point {
	return AppendLine(make([]Point, 0, len(xs)), p, s, lineIndex, xs, motionX)
}

// AppendLine is ComposeLine writing into dst, for callers that reuse a
// buffer across frames.
func AppendLine(dst []Point, p pattern.Parameters, s Sampler, lineIndex int, xs []float64, motionX float64) []Point {
	if s == nil {
		s = Sample
	}
	i := float64(lineIndex)
	shift := p.PhaseOffset * i
	base := i * p.Distance
	for _, x := range xs {
		y := p.Amplitude*s(p.WaveType, p.Frequency*(x+motionX+shift)) + base
		dst = append(dst, Point{X: x, Y: y})
	}
	return dst
}
