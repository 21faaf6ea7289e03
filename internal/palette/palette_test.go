package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

func TestUniformLineColor(t *testing.T) {
	p := pattern.Default()
	p.Palette = pattern.PaletteNone
	p.LineColor = pattern.RGB{R: 10, G: 20, B: 30}
	p.LineOpacity = 0.5
	r := NewResolver(p)
	for i := 0; i < 50; i++ {
		c := r.Line(i, float64(i))
		assert.Equal(t, p.LineColor, pattern.RGB{R: c.R, G: c.G, B: c.B})
		assert.Equal(t, uint8(128), c.A)
	}
}

func TestPaletteCycles(t *testing.T) {
	for _, pal := range []pattern.Palette{pattern.Rainbow, pattern.Pastel} {
		t.Run(pal.String(), func(t *testing.T) {
			p := pattern.Default()
			p.Palette = pal
			p.LineColor = pattern.RGB{R: 1, G: 2, B: 3}
			r := NewResolver(p)
			n := len(Colors(pal))
			require.Equal(t, hues, n)
			for i := 0; i < 3*n; i++ {
				assert.Equal(t, r.Base(i), r.Base(i+n))
				assert.NotEqual(t, p.LineColor, r.Base(i))
			}
			// adjacent lines differ
			assert.NotEqual(t, r.Base(0), r.Base(1))
		})
	}
}

func TestRainbowStartsRed(t *testing.T) {
	assert.Equal(t, pattern.RGB{R: 255}, Colors(pattern.Rainbow)[0])
	assert.Nil(t, Colors(pattern.PaletteNone))
}

func TestColorsReturnsCopy(t *testing.T) {
	c := Colors(pattern.Rainbow)
	c[0] = pattern.RGB{}
	assert.Equal(t, pattern.RGB{R: 255}, Colors(pattern.Rainbow)[0])
}

func TestConstantAlpha(t *testing.T) {
	p := pattern.Default()
	p.LineOpacity = 1
	r := NewResolver(p)
	assert.Equal(t, uint8(255), r.Alpha(0))
	assert.Equal(t, uint8(255), r.Alpha(123.4))
}

func TestPulseZeroSpeedIsConstant(t *testing.T) {
	p := pattern.Default()
	p.LineOpacity = 1
	p.LineOpacityMode = pattern.OpacityPulse
	p.LineOpacitySpeed = 0
	r := NewResolver(p)
	first := r.Alpha(0)
	for f := 0.0; f < 1000; f++ {
		assert.Equal(t, first, r.Alpha(f))
	}
	assert.Equal(t, uint8(128), first)
}

func TestPulseModulates(t *testing.T) {
	p := pattern.Default()
	p.LineOpacity = 1
	p.LineOpacityMode = pattern.OpacityPulse
	p.LineOpacitySpeed = 1
	r := NewResolver(p)
	assert.Equal(t, uint8(255), r.Alpha(90))
	assert.Equal(t, uint8(0), r.Alpha(270))
	assert.Equal(t, uint8(128), r.Alpha(0))
}

func TestBackgroundNeverPulses(t *testing.T) {
	p := pattern.Default()
	p.BgColor = pattern.RGB{R: 9, G: 8, B: 7}
	p.BgOpacity = 0.2
	p.LineOpacityMode = pattern.OpacityPulse
	p.LineOpacitySpeed = 5
	r := NewResolver(p)
	bg := r.Background()
	assert.Equal(t, uint8(51), bg.A)
	assert.Equal(t, uint8(9), bg.R)
}
