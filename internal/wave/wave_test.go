package wave

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

var allWaves = []pattern.WaveType{
	pattern.Sine, pattern.Tan, pattern.Cotan,
	pattern.Sawtooth, pattern.Square, pattern.Triangle,
}

func TestSamplePeriodic(t *testing.T) {
	for _, w := range allWaves {
		t.Run(w.String(), func(t *testing.T) {
			// quarter-degree grid keeps x+360 exactly representable
			for x := -720.0; x <= 720; x += 0.25 {
				assert.Equal(t, Sample(w, x), Sample(w, x+360), "x=%v", x)
			}
		})
	}
}

func TestSampleKnownValues(t *testing.T) {
	cases := []struct {
		Wave   pattern.WaveType
		X      float64
		Expect float64
	}{
		{pattern.Sine, 90, 1},
		{pattern.Sine, 270, -1},
		{pattern.Sine, 0, 0},
		{pattern.Tan, 45, 1},
		{pattern.Cotan, 45, 1},
		{pattern.Sawtooth, 0, -1},
		{pattern.Sawtooth, 180, 0},
		{pattern.Sawtooth, 359, 2*359.0/360 - 1},
		{pattern.Square, 0, 1},
		{pattern.Square, 179, 1},
		{pattern.Square, 180, -1},
		{pattern.Square, -1, -1},
		{pattern.Triangle, 0, 0},
		{pattern.Triangle, 90, 1},
		{pattern.Triangle, 180, 0},
		{pattern.Triangle, 270, -1},
	}
	for _, c := range cases {
		assert.InDelta(t, c.Expect, Sample(c.Wave, c.X), 1e-9, "%s(%v)", c.Wave, c.X)
	}
}

func TestSampleRanges(t *testing.T) {
	for _, w := range []pattern.WaveType{pattern.Sine, pattern.Sawtooth, pattern.Square, pattern.Triangle} {
		for x := -360.0; x < 360; x += 0.5 {
			v := Sample(w, x)
			if v < -1 || v > 1 {
				t.Fatalf("%s(%v) = %v outside [-1,1]", w, x, v)
			}
		}
	}
	for x := -360.0; x < 360; x += 0.5 {
		v := Sample(pattern.Square, x)
		if v != 1 && v != -1 {
			t.Fatalf("square(%v) = %v", x, v)
		}
	}
}

func TestAsymptotesStayFinite(t *testing.T) {
	xs := []float64{0, 90, 180, 270, -90, 360, 450, 1e9, -1e9, 89.9999999, math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		xs = append(xs, (rng.Float64()-0.5)*1e6)
	}
	for _, w := range []pattern.WaveType{pattern.Tan, pattern.Cotan} {
		for _, x := range xs {
			v := Sample(w, x)
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s(%v) = %v", w, x, v)
			require.LessOrEqual(t, math.Abs(v), AsymptoteBound)
		}
	}
	assert.Equal(t, AsymptoteBound, math.Abs(Sample(pattern.Tan, 90)))
	assert.Equal(t, AsymptoteBound, Sample(pattern.Cotan, 0))
}

func TestSampleNonFiniteInput(t *testing.T) {
	for _, w := range allWaves {
		assert.Equal(t, 0.0, Sample(w, math.NaN()))
		assert.Equal(t, 0.0, Sample(w, math.Inf(-1)))
	}
}

func TestSampleXs(t *testing.T) {
	assert.Equal(t, []float64{0, 3, 6, 9, 10}, SampleXs(10, 3))
	assert.Equal(t, []float64{0, 5, 10}, SampleXs(10, 5))
	assert.Nil(t, SampleXs(0, 1))

	xs := SampleXs(640, 1.5)
	for i := 1; i < len(xs); i++ {
		require.Greater(t, xs[i], xs[i-1])
	}
}

func TestComposeLineBaselines(t *testing.T) {
	p := pattern.Default()
	p.NumLines = 5
	p.Distance = 10
	p.Amplitude = 7
	p.Frequency = 2
	p.PhaseOffset = 30
	xs := SampleXs(200, 4)
	motionX := 13.0

	for i := 0; i < p.NumLines; i++ {
		pts := ComposeLine(p, Sample, i, xs, motionX)
		require.Len(t, pts, len(xs))
		for k, pt := range pts {
			assert.Equal(t, xs[k], pt.X)
			wave := p.Amplitude * Sample(p.WaveType, p.Frequency*(pt.X+motionX+p.PhaseOffset*float64(i)))
			assert.Equal(t, float64(i)*10+wave, pt.Y)
		}
	}
}

func TestComposeLineCustomSampler(t *testing.T) {
	p := pattern.Default()
	p.Amplitude = 2
	p.Distance = 5
	flat := func(pattern.WaveType, float64) float64 { return 1 }
	pts := ComposeLine(p, flat, 3, []float64{0, 1, 2}, 0)
	for _, pt := range pts {
		assert.Equal(t, 2.0+15.0, pt.Y)
	}
}

func TestAppendLineReusesBuffer(t *testing.T) {
	p := pattern.Default()
	xs := SampleXs(100, 10)
	buf := make([]Point, 0, 64)
	out := AppendLine(buf[:0], p, nil, 0, xs, 0)
	assert.Equal(t, ComposeLine(p, Sample, 0, xs, 0), out)
	assert.Equal(t, &buf[:1][0], &out[0])
}
