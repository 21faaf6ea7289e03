// Package wave samples the periodic functions a pattern is built from and
// composes them into parallel polylines.
//
// Every angle is in degrees; every waveform has a period of 360.
package wave

import (
	"math"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

// AsymptoteBound caps |tan| and |cotan| near their discontinuities. After
// scaling by amplitude a line never leaves ±10 amplitudes of its baseline.
const AsymptoteBound = 10.0

// Sampler maps a wave type and an angle to a value.
type Sampler func(t pattern.WaveType, x float64) float64

// Sample is the default Sampler. It is total: finite input never yields
// NaN or Inf, and non-finite input yields 0.
func Sample(t pattern.WaveType, x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	d := wrap(x)
	switch t {
	case pattern.Tan:
		return bound(math.Tan(radians(d)))
	case pattern.Cotan:
		s, c := math.Sincos(radians(d))
		if s == 0 {
			if c < 0 {
				return -AsymptoteBound
			}
			return AsymptoteBound
		}
		return bound(c / s)
	case pattern.Sawtooth:
		return 2*d/360 - 1
	case pattern.Square:
		if d < 180 {
			return 1
		}
		return -1
	case pattern.Triangle:
		p := d / 360
		switch {
		case p < 0.25:
			return 4 * p
		case p < 0.75:
			return 2 - 4*p
		default:
			return 4*p - 4
		}
	default:
		return math.Sin(radians(d))
	}
}

// wrap reduces x into [0, 360).
func wrap(x float64) float64 {
	d := math.Mod(x, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

func bound(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-AsymptoteBound, math.Min(AsymptoteBound, v))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
