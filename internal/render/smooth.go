package render

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

const settleEpsilon = 1e-3

// smoother springs the geometric fields of a pattern toward their targets.
type smoother struct {
	spring harmonica.Spring
	vel    [4]float64
}

func newSmoother(fps int, angularFreq, damping float64) *smoother {
	return &smoother{spring: harmonica.NewSpring(harmonica.FPS(fps), angularFreq, damping)}
}

func eased(p *pattern.Parameters) [4]*float64 {
	return [4]*float64{&p.Amplitude, &p.Frequency, &p.Distance, &p.Thickness}
}

// retarget takes every field from target except the eased ones, which keep
// their current values until step moves them.
func (s *smoother) retarget(cur, target pattern.Parameters) pattern.Parameters {
	out := target
	from, to := eased(&cur), eased(&out)
	for i := range to {
		*to[i] = *from[i]
	}
	return out
}

func (s *smoother) step(cur, target pattern.Parameters) pattern.Parameters {
	out := target
	from, goal, to := eased(&cur), eased(&target), eased(&out)
	for i := range to {
		pos, vel := s.spring.Update(*from[i], s.vel[i], *goal[i])
		if math.Abs(pos-*goal[i]) < settleEpsilon && math.Abs(vel) < settleEpsilon {
			pos, vel = *goal[i], 0
		}
		*to[i], s.vel[i] = pos, vel
	}
	// an underdamped spring may overshoot past what the renderer accepts
	out.Amplitude = math.Max(out.Amplitude, 0)
	out.Distance = math.Max(out.Distance, 0)
	out.Frequency = math.Max(out.Frequency, pattern.MinFrequency)
	out.Thickness = math.Max(out.Thickness, pattern.MinThickness)
	return out
}
