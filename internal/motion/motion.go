// Package motion advances the accumulated translation of a pattern by one
// frame according to its direction.
package motion

import (
	"math"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

// Size is the canvas extent in pixels.
type Size struct{ W, H float64 }

// State persists across frames and is owned by a single renderer.
type State struct {
	X       float64 // phase translation fed to the line composer
	YOffset float64 // vertical translation of the whole stack
	Time    float64 // degrees; drives oscillating and circular motion
}

func (s *State) Reset() { *s = State{} }

// Step applies one frame transition. Only the accumulators carry over
// between frames; which direction ran previously is irrelevant.
func Step(s *State, p pattern.Parameters, c Size) {
	switch p.Direction {
	case pattern.Up:
		s.YOffset -= p.Speed
	case pattern.Down:
		s.YOffset += p.Speed
	case pattern.Left:
		s.X -= p.Speed
	case pattern.Right:
		s.X += p.Speed
	case pattern.OscillateUpDown:
		s.YOffset = (c.H / 12) * sinDeg(s.Time)
		s.Time += p.Speed
	case pattern.OscillateRightLeft:
		s.X = (c.W / 12) * sinDeg(s.Time)
		s.Time += p.Speed
	case pattern.Circular:
		a := s.Time * p.RotationSpeed
		s.X = p.RotationRadius * cosDeg(a)
		s.YOffset = p.RotationRadius * sinDeg(a)
		s.Time += p.Speed
	}
}

func sinDeg(d float64) float64 { return math.Sin(d * math.Pi / 180) }
func cosDeg(d float64) float64 { return math.Cos(d * math.Pi / 180) }
