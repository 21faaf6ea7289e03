// Package palette resolves the stroke and background colour of a pattern.
package palette

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

const hues = 7

var (
	rainbow = wheel(1.0, 1.0)
	pastel  = wheel(0.35, 1.0)
)

// wheel spreads evenly spaced hues starting at red.
func wheel(sat, val float64) []pattern.RGB {
	out := make([]pattern.RGB, hues)
	for i := range out {
		c := colorful.Hsv(float64(i)*360/hues, sat, val).Clamped()
		r, g, b := c.RGB255()
		out[i] = pattern.RGB{R: r, G: g, B: b}
	}
	return out
}

// Colors returns the ordered colour list for p, or nil for PaletteNone.
func Colors(p pattern.Palette) []pattern.RGB {
	switch p {
	case pattern.Rainbow:
		return append([]pattern.RGB(nil), rainbow...)
	case pattern.Pastel:
		return append([]pattern.RGB(nil), pastel...)
	}
	return nil
}

// Resolver maps a line index and a time to a stroke colour. It is rebuilt
// whenever colour or opacity parameters change.
type Resolver struct {
	lines   []pattern.RGB
	alpha   float64
	pulse   bool
	speed   float64
	bg      color.NRGBA
	uniform bool
}

func NewResolver(p pattern.Parameters) *Resolver {
	r := &Resolver{
		alpha: clamp01(p.LineOpacity),
		pulse: p.LineOpacityMode == pattern.OpacityPulse,
		speed: p.LineOpacitySpeed,
		bg:    p.BgColor.NRGBA(to255(p.BgOpacity)),
	}
	if r.lines = Colors(p.Palette); len(r.lines) == 0 {
		r.lines = []pattern.RGB{p.LineColor}
		r.uniform = true
	}
	return r
}

// Base is the line colour before alpha.
func (r *Resolver) Base(lineIndex int) pattern.RGB {
	if r.uniform {
		return r.lines[0]
	}
	i := lineIndex % len(r.lines)
	if i < 0 {
		i += len(r.lines)
	}
	return r.lines[i]
}

// Alpha is the line alpha at time t (degrees of pulse phase per unit speed).
func (r *Resolver) Alpha(t float64) uint8 {
	a := r.alpha
	if r.pulse {
		a *= clamp01((math.Sin(t*r.speed*math.Pi/180) + 1) / 2)
	}
	return to255(a)
}

// Line returns the stroke colour of lineIndex at time t.
func (r *Resolver) Line(lineIndex int, t float64) color.NRGBA {
	return r.Base(lineIndex).NRGBA(r.Alpha(t))
}

// Background is never pulsed.
func (r *Resolver) Background() color.NRGBA { return r.bg }

func to255(v float64) uint8 { return uint8(math.Round(clamp01(v) * 255)) }

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
