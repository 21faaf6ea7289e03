package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-wavecanvas/internal/motion"
	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

var (
	red   = pattern.RGB{R: 255}
	green = pattern.RGB{G: 255}
	blue  = pattern.RGB{B: 255}
)

// flatLine is a single horizontal line through the canvas centre.
func flatLine() pattern.Parameters {
	p := pattern.Default()
	p.Direction = pattern.Static
	p.NumLines = 1
	p.Amplitude = 0
	p.Thickness = 4
	p.Angle = 0
	p.BgColor = red
	p.BgOpacity = 1
	p.LineColor = blue
	p.LineOpacity = 1
	return p
}

func px(img *image.RGBA, x, y int) [4]uint8 {
	i := img.PixOffset(x, y)
	return [4]uint8{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

func TestNewRejectsEmptyCanvas(t *testing.T) {
	_, err := New(0, 10, pattern.Default())
	assert.Error(t, err)
	_, err = New(10, -1, pattern.Default())
	assert.Error(t, err)
}

func TestFrameDrawsBackgroundAndLine(t *testing.T) {
	r, err := New(64, 48, flatLine())
	require.NoError(t, err)
	img := r.Frame()
	require.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

	assert.Equal(t, [4]uint8{255, 0, 0, 255}, px(img, 0, 0))
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, px(img, 63, 5))

	mid := px(img, 32, 24)
	assert.Greater(t, mid[2], uint8(200), "line pixel %v", mid)
	assert.Less(t, mid[0], uint8(50), "line pixel %v", mid)
}

func TestTransparentLinesLeaveBackground(t *testing.T) {
	p := flatLine()
	p.LineOpacity = 0
	r, err := New(32, 32, p)
	require.NoError(t, err)
	img := r.Frame()
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, px(img, 16, 16))
}

func TestStaticFramesKeepMotionState(t *testing.T) {
	p := pattern.Default()
	p.Direction = pattern.Static
	p.Speed = 5
	r, err := New(80, 60, p)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		r.Frame()
	}
	assert.Equal(t, motion.State{}, r.State())
	assert.Equal(t, uint64(20), r.Frames())
}

func TestUpFramesMoveStack(t *testing.T) {
	p := pattern.Default()
	p.Direction = pattern.Up
	p.Speed = 2
	r, err := New(80, 60, p)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		r.Frame()
	}
	assert.Equal(t, -20.0, r.State().YOffset)
}

func TestUpdateParametersKeepsMotionAndRecolors(t *testing.T) {
	p := flatLine()
	p.Direction = pattern.Right
	p.Speed = 2
	r, err := New(64, 48, p)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		r.Frame()
	}
	require.Equal(t, 10.0, r.State().X)

	next := p
	next.LineColor = green
	ch := r.UpdateParameters(next)
	assert.True(t, ch.Has(pattern.ChangeColor))
	assert.False(t, ch.Has(pattern.ChangeMotion))
	assert.Equal(t, 10.0, r.State().X)
	assert.Equal(t, next, r.Parameters())

	img := r.Frame()
	mid := px(img, 32, 24)
	assert.Greater(t, mid[1], uint8(200), "line pixel %v", mid)
	assert.Less(t, mid[2], uint8(50), "line pixel %v", mid)
	assert.Equal(t, 12.0, r.State().X)
}

func TestUpdateParametersNoChange(t *testing.T) {
	p := pattern.Default()
	r, err := New(16, 16, p)
	require.NoError(t, err)
	assert.Equal(t, pattern.ChangeNone, r.UpdateParameters(p))
}

func TestResizeKeepsState(t *testing.T) {
	p := pattern.Default()
	p.Direction = pattern.Left
	p.Speed = 3
	r, err := New(40, 30, p)
	require.NoError(t, err)
	r.Frame()
	r.Frame()
	require.NoError(t, r.Resize(100, 50))
	assert.Equal(t, -6.0, r.State().X)
	w, h := r.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
	assert.Equal(t, image.Rect(0, 0, 100, 50), r.Frame().Bounds())
	assert.Error(t, r.Resize(0, 0))
}

func TestRotatedStackCoversCorners(t *testing.T) {
	p := pattern.Default()
	p.Angle = 45
	r, err := New(100, 100, p)
	require.NoError(t, err)
	assert.Less(t, r.xs[0], 0.0)
	assert.Greater(t, r.xs[len(r.xs)-1], 100.0)

	p.Angle = 0
	r.UpdateParameters(p)
	assert.Equal(t, 0.0, r.xs[0])
	assert.Equal(t, 100.0, r.xs[len(r.xs)-1])
}

func TestReset(t *testing.T) {
	p := pattern.Default()
	p.Direction = pattern.Down
	r, err := New(20, 20, p)
	require.NoError(t, err)
	r.Frame()
	r.Reset()
	assert.Equal(t, motion.State{}, r.State())
	assert.Equal(t, uint64(0), r.Frames())
}

func TestSmoothingEasesGeometry(t *testing.T) {
	p := pattern.Default()
	p.Amplitude = 40
	r, err := New(64, 48, p, WithSmoothing(60, 6, 1))
	require.NoError(t, err)

	next := p
	next.Amplitude = 80
	next.LineColor = green
	r.UpdateParameters(next)

	// colour applies immediately, amplitude glides
	assert.Equal(t, green, r.params.LineColor)
	assert.Equal(t, 40.0, r.params.Amplitude)
	r.Frame()
	assert.Greater(t, r.params.Amplitude, 40.0)
	assert.Less(t, r.params.Amplitude, 80.0)

	for i := 0; i < 600; i++ {
		r.Frame()
	}
	assert.Equal(t, 80.0, r.params.Amplitude)
	assert.Equal(t, next, r.Parameters())
}

func TestCustomSampler(t *testing.T) {
	calls := 0
	s := func(pattern.WaveType, float64) float64 { calls++; return 0 }
	p := pattern.Default()
	p.NumLines = 3
	r, err := New(10, 10, p, WithSampler(s), WithSampleStep(5))
	require.NoError(t, err)
	r.Frame()
	// xs = 0, 5, 10
	assert.Equal(t, 9, calls)
}
