package pattern

import (
	"fmt"
	"strings"
)

// WaveType selects the periodic function sampled for each line.
type WaveType uint8

const (
	Sine WaveType = iota
	Tan
	Cotan
	Sawtooth
	Square
	Triangle
)

var waveNames = []string{"sine", "tan", "cotan", "sawtooth", "square", "triangle"}

func (w WaveType) String() string {
	if int(w) < len(waveNames) {
		return waveNames[w]
	}
	return fmt.Sprintf("wave(%d)", uint8(w))
}

func (w WaveType) Valid() bool { return int(w) < len(waveNames) }

func (w WaveType) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("unknown wave type %d", uint8(w))
	}
	return []byte(w.String()), nil
}

func (w *WaveType) UnmarshalText(b []byte) error {
	i, err := lookup("wave type", waveNames, string(b))
	if err != nil {
		return err
	}
	*w = WaveType(i)
	return nil
}

// Direction selects the motion policy applied once per frame.
type Direction uint8

const (
	Static Direction = iota
	Up
	Down
	Left
	Right
	OscillateUpDown
	OscillateRightLeft
	Circular
)

var directionNames = []string{
	"static", "up", "down", "left", "right",
	"oscillateUpDown", "oscillateRightLeft", "circular",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

func (d Direction) Valid() bool { return int(d) < len(directionNames) }

func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	i, err := lookup("direction", directionNames, string(b))
	if err != nil {
		return err
	}
	*d = Direction(i)
	return nil
}

// Palette overrides LineColor per line when not PaletteNone.
type Palette uint8

const (
	PaletteNone Palette = iota
	Rainbow
	Pastel
)

var paletteNames = []string{"none", "rainbow", "pastel"}

func (p Palette) String() string {
	if int(p) < len(paletteNames) {
		return paletteNames[p]
	}
	return fmt.Sprintf("palette(%d)", uint8(p))
}

func (p Palette) Valid() bool { return int(p) < len(paletteNames) }

func (p Palette) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown palette %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Palette) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = PaletteNone
		return nil
	}
	i, err := lookup("palette", paletteNames, string(b))
	if err != nil {
		return err
	}
	*p = Palette(i)
	return nil
}

// OpacityMode controls whether line alpha is constant or pulsing.
type OpacityMode uint8

const (
	OpacityConstant OpacityMode = iota
	OpacityPulse
)

var opacityNames = []string{"constant", "pulse"}

func (m OpacityMode) String() string {
	if int(m) < len(opacityNames) {
		return opacityNames[m]
	}
	return fmt.Sprintf("opacity(%d)", uint8(m))
}

func (m OpacityMode) Valid() bool { return int(m) < len(opacityNames) }

func (m OpacityMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown opacity mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *OpacityMode) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*m = OpacityConstant
		return nil
	}
	i, err := lookup("opacity mode", opacityNames, string(b))
	if err != nil {
		return err
	}
	*m = OpacityMode(i)
	return nil
}

// lookup matches case-insensitively so "oscillateupdown" and
// "oscillateUpDown" both parse.
func lookup(kind string, names []string, s string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}
