package pattern_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	. "github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

var invalidParams = []struct {
	Name  string
	Field string
	Edit  func(p *Parameters)
}{
	{"zero lines", "numLines", func(p *Parameters) { p.NumLines = 0 }},
	{"negative lines", "numLines", func(p *Parameters) { p.NumLines = -3 }},
	{"too many lines", "numLines", func(p *Parameters) { p.NumLines = MaxLines + 1 }},
	{"zero frequency", "frequency", func(p *Parameters) { p.Frequency = 0 }},
	{"nan frequency", "frequency", func(p *Parameters) { p.Frequency = math.NaN() }},
	{"zero thickness", "thickness", func(p *Parameters) { p.Thickness = 0 }},
	{"negative amplitude", "amplitude", func(p *Parameters) { p.Amplitude = -1 }},
	{"negative speed", "speed", func(p *Parameters) { p.Speed = -0.5 }},
	{"negative distance", "distance", func(p *Parameters) { p.Distance = -10 }},
	{"opacity above one", "lineOpacity", func(p *Parameters) { p.LineOpacity = 1.5 }},
	{"infinite angle", "angle", func(p *Parameters) { p.Angle = math.Inf(1) }},
	{"unknown wave", "waveType", func(p *Parameters) { p.WaveType = WaveType(42) }},
}

func TestValidateRejects(t *testing.T) {
	for _, tc := range invalidParams {
		t.Run(tc.Name, func(t *testing.T) {
			p := Default()
			tc.Edit(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameter))

			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.Field, fe.Field)
		})
	}
}

func TestNormalizeAlwaysValidates(t *testing.T) {
	for _, tc := range invalidParams {
		t.Run(tc.Name, func(t *testing.T) {
			p := Default()
			tc.Edit(&p)
			assert.NoError(t, p.Normalize().Validate())
		})
	}
}

func TestNormalizeClamps(t *testing.T) {
	p := Default()
	p.NumLines = -4
	p.Frequency = 0
	p.LineOpacity = 3
	n := p.Normalize()
	assert.Equal(t, 1, n.NumLines)
	assert.Equal(t, MinFrequency, n.Frequency)
	assert.Equal(t, 1.0, n.LineOpacity)
	// the receiver is a value; the input is untouched
	assert.Equal(t, -4, p.NumLines)
}

func TestSet(t *testing.T) {
	p, err := Default().Set("amplitude", 99)
	require.NoError(t, err)
	assert.Equal(t, 99.0, p.Amplitude)

	p, err = p.Set("numLines", 4.6)
	require.NoError(t, err)
	assert.Equal(t, 5, p.NumLines)

	_, err = p.Set("bogus", 1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDiff(t *testing.T) {
	a := Default()
	assert.Equal(t, ChangeNone, Diff(a, a))

	b := a
	b.LineColor = RGB{1, 2, 3}
	b.Speed = 9
	c := Diff(a, b)
	assert.True(t, c.Has(ChangeColor))
	assert.True(t, c.Has(ChangeMotion))
	assert.False(t, c.Has(ChangeGeometry))
	assert.False(t, c.Has(ChangeBackground))
}

func TestYAMLRoundTrip(t *testing.T) {
	src := `
waveType: triangle
direction: oscillateRightLeft
amplitude: 12.5
frequency: 2
numLines: 3
lineColor: "#ff8800"
palette: pastel
lineOpacityMode: pulse
`
	var p Parameters
	require.NoError(t, yaml.Unmarshal([]byte(src), &p))
	assert.Equal(t, Triangle, p.WaveType)
	assert.Equal(t, OscillateRightLeft, p.Direction)
	assert.Equal(t, RGB{0xff, 0x88, 0x00}, p.LineColor)
	assert.Equal(t, Pastel, p.Palette)
	assert.Equal(t, OpacityPulse, p.LineOpacityMode)

	out, err := yaml.Marshal(p)
	require.NoError(t, err)
	var back Parameters
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, p, back)
}

func TestJSONEnums(t *testing.T) {
	b, err := json.Marshal(Parameters{WaveType: Cotan, Direction: Circular, NumLines: 1})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"waveType":"cotan"`)
	assert.Contains(t, string(b), `"direction":"circular"`)

	var p Parameters
	assert.Error(t, json.Unmarshal([]byte(`{"waveType":"zigzag"}`), &p))
}

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB("#0a0b0c")
	require.NoError(t, err)
	assert.Equal(t, RGB{10, 11, 12}, c)
	assert.Equal(t, "#0a0b0c", c.Hex())

	_, err = ParseRGB("teal")
	assert.Error(t, err)
}
