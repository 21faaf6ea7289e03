// Package pattern holds the parameter set that describes one animated wave
// pattern, and the validation boundary every edit passes through before it
// reaches a renderer.
package pattern

import (
	"errors"
	"fmt"
	"math"
)

const (
	MaxLines     = 200
	MinFrequency = 0.01
	MinThickness = 0.1
)

// ErrInvalidParameter is wrapped by every error returned from Validate.
var ErrInvalidParameter = errors.New("invalid pattern parameter")

// FieldError names the offending field.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s=%v: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidParameter }

// Parameters is replaced wholesale on every edit. All angle-valued fields
// are in degrees.
type Parameters struct {
	WaveType  WaveType  `yaml:"waveType" json:"waveType"`
	Direction Direction `yaml:"direction" json:"direction"`

	Amplitude   float64 `yaml:"amplitude" json:"amplitude"`
	Frequency   float64 `yaml:"frequency" json:"frequency"`
	Speed       float64 `yaml:"speed" json:"speed"`
	Thickness   float64 `yaml:"thickness" json:"thickness"`
	PhaseOffset float64 `yaml:"phaseOffset" json:"phaseOffset"`
	NumLines    int     `yaml:"numLines" json:"numLines"`
	Distance    float64 `yaml:"distance" json:"distance"`
	Angle       float64 `yaml:"angle" json:"angle"`

	// Only used when Direction == Circular.
	RotationSpeed  float64 `yaml:"rotationSpeed" json:"rotationSpeed"`
	RotationRadius float64 `yaml:"rotationRadius" json:"rotationRadius"`

	BgColor   RGB     `yaml:"bgColor" json:"bgColor"`
	BgOpacity float64 `yaml:"bgOpacity" json:"bgOpacity"`
	LineColor RGB     `yaml:"lineColor" json:"lineColor"`
	Palette   Palette `yaml:"palette" json:"palette"`

	LineOpacity      float64     `yaml:"lineOpacity" json:"lineOpacity"`
	LineOpacityMode  OpacityMode `yaml:"lineOpacityMode" json:"lineOpacityMode"`
	LineOpacitySpeed float64     `yaml:"lineOpacitySpeed" json:"lineOpacitySpeed"`
}

// Default returns a calm sine pattern.
func Default() Parameters {
	return Parameters{
		WaveType:    Sine,
		Direction:   Left,
		Amplitude:   40,
		Frequency:   1,
		Speed:       2,
		Thickness:   2,
		PhaseOffset: 15,
		NumLines:    8,
		Distance:    18,
		BgColor:     RGB{12, 14, 28},
		BgOpacity:   1,
		LineColor:   RGB{120, 200, 255},
		LineOpacity: 1,
	}
}

// Validate rejects parameters the renderer cannot draw.
func (p Parameters) Validate() error {
	var errs []error
	bad := func(field string, v any, reason string) {
		errs = append(errs, &FieldError{Field: field, Value: v, Reason: reason})
	}
	if !p.WaveType.Valid() {
		bad("waveType", p.WaveType, "unknown")
	}
	if !p.Direction.Valid() {
		bad("direction", p.Direction, "unknown")
	}
	if !p.Palette.Valid() {
		bad("palette", p.Palette, "unknown")
	}
	if !p.LineOpacityMode.Valid() {
		bad("lineOpacityMode", p.LineOpacityMode, "unknown")
	}
	if p.NumLines < 1 {
		bad("numLines", p.NumLines, "must be >= 1")
	} else if p.NumLines > MaxLines {
		bad("numLines", p.NumLines, fmt.Sprintf("must be <= %d", MaxLines))
	}
	// zero frequency degenerates every wave to a constant
	if !(p.Frequency > 0) {
		bad("frequency", p.Frequency, "must be > 0")
	}
	if !(p.Thickness > 0) {
		bad("thickness", p.Thickness, "must be > 0")
	}
	if p.Amplitude < 0 {
		bad("amplitude", p.Amplitude, "must be >= 0")
	}
	if p.Speed < 0 {
		bad("speed", p.Speed, "must be >= 0")
	}
	if p.Distance < 0 {
		bad("distance", p.Distance, "must be >= 0")
	}
	if p.LineOpacity < 0 || p.LineOpacity > 1 {
		bad("lineOpacity", p.LineOpacity, "must be within [0,1]")
	}
	if p.BgOpacity < 0 || p.BgOpacity > 1 {
		bad("bgOpacity", p.BgOpacity, "must be within [0,1]")
	}
	for name, v := range p.floats() {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			bad(name, *v, "must be finite")
		}
	}
	return errors.Join(errs...)
}

// Normalize clamps every field into its valid range. The result always
// passes Validate.
func (p Parameters) Normalize() Parameters {
	for _, v := range p.floats() {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	if !p.WaveType.Valid() {
		p.WaveType = Sine
	}
	if !p.Direction.Valid() {
		p.Direction = Static
	}
	if !p.Palette.Valid() {
		p.Palette = PaletteNone
	}
	if !p.LineOpacityMode.Valid() {
		p.LineOpacityMode = OpacityConstant
	}
	p.NumLines = clampInt(p.NumLines, 1, MaxLines)
	p.Frequency = math.Max(p.Frequency, MinFrequency)
	p.Thickness = math.Max(p.Thickness, MinThickness)
	p.Amplitude = math.Max(p.Amplitude, 0)
	p.Speed = math.Max(p.Speed, 0)
	p.Distance = math.Max(p.Distance, 0)
	p.LineOpacity = clamp01(p.LineOpacity)
	p.BgOpacity = clamp01(p.BgOpacity)
	return p
}

// floats exposes the real-valued fields by their wire names.
func (p *Parameters) floats() map[string]*float64 {
	return map[string]*float64{
		"amplitude":        &p.Amplitude,
		"frequency":        &p.Frequency,
		"speed":            &p.Speed,
		"thickness":        &p.Thickness,
		"phaseOffset":      &p.PhaseOffset,
		"distance":         &p.Distance,
		"angle":            &p.Angle,
		"rotationSpeed":    &p.RotationSpeed,
		"rotationRadius":   &p.RotationRadius,
		"bgOpacity":        &p.BgOpacity,
		"lineOpacity":      &p.LineOpacity,
		"lineOpacitySpeed": &p.LineOpacitySpeed,
	}
}

// Set returns a copy with one numeric field replaced. numLines is rounded.
func (p Parameters) Set(name string, v float64) (Parameters, error) {
	if name == "numLines" {
		p.NumLines = int(math.Round(v))
		return p, nil
	}
	f, ok := p.floats()[name]
	if !ok {
		return p, fmt.Errorf("%w: no numeric field %q", ErrInvalidParameter, name)
	}
	*f = v
	return p, nil
}

// Change is a bitmask of field groups that differ between two parameter sets.
type Change uint8

const (
	ChangeGeometry Change = 1 << iota
	ChangeMotion
	ChangeColor
	ChangeBackground
	ChangeOpacity

	ChangeNone Change = 0
)

func (c Change) Has(f Change) bool { return c&f != 0 }

// Diff reports which groups changed from old to next.
func Diff(old, next Parameters) Change {
	var c Change
	if old.WaveType != next.WaveType || old.Amplitude != next.Amplitude ||
		old.Frequency != next.Frequency || old.Thickness != next.Thickness ||
		old.PhaseOffset != next.PhaseOffset || old.NumLines != next.NumLines ||
		old.Distance != next.Distance || old.Angle != next.Angle {
		c |= ChangeGeometry
	}
	if old.Direction != next.Direction || old.Speed != next.Speed ||
		old.RotationSpeed != next.RotationSpeed || old.RotationRadius != next.RotationRadius {
		c |= ChangeMotion
	}
	if old.LineColor != next.LineColor || old.Palette != next.Palette {
		c |= ChangeColor
	}
	if old.BgColor != next.BgColor || old.BgOpacity != next.BgOpacity {
		c |= ChangeBackground
	}
	if old.LineOpacity != next.LineOpacity || old.LineOpacityMode != next.LineOpacityMode ||
		old.LineOpacitySpeed != next.LineOpacitySpeed {
		c |= ChangeOpacity
	}
	return c
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
