package render

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/coreman2200/funtimes-wavecanvas/internal/motion"
	"github.com/coreman2200/funtimes-wavecanvas/internal/palette"
	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
	"github.com/coreman2200/funtimes-wavecanvas/internal/wave"
)

const DefaultSampleStep = 2.0

// Renderer draws one pattern onto its own canvas, one frame per call to
// Frame. It is not safe for concurrent use; the Engine serializes access.
// Parameters handed to it must already be validated.
type Renderer struct {
	params pattern.Parameters // drawn this frame
	target pattern.Parameters // last UpdateParameters value
	state  motion.State
	colors *palette.Resolver

	dc   *gg.Context
	size motion.Size
	step float64
	xs   []float64
	pts  []wave.Point

	sampler wave.Sampler
	smooth  *smoother
	frame   uint64
}

type Option func(*Renderer)

// WithSampleStep sets the horizontal distance between samples in pixels.
func WithSampleStep(px float64) Option {
	return func(r *Renderer) {
		if px > 0 {
			r.step = px
		}
	}
}

func WithSampler(s wave.Sampler) Option {
	return func(r *Renderer) {
		if s != nil {
			r.sampler = s
		}
	}
}

// WithSmoothing eases amplitude, frequency, distance and thickness toward
// new values over several frames instead of jumping.
func WithSmoothing(fps int, angularFreq, damping float64) Option {
	return func(r *Renderer) {
		if fps > 0 && angularFreq > 0 {
			r.smooth = newSmoother(fps, angularFreq, damping)
		}
	}
}

// New allocates the canvas and a fresh motion state.
func New(w, h int, p pattern.Parameters, opts ...Option) (*Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", w, h)
	}
	r := &Renderer{
		params:  p,
		target:  p,
		colors:  palette.NewResolver(p),
		step:    DefaultSampleStep,
		sampler: wave.Sample,
	}
	for _, o := range opts {
		o(r)
	}
	r.allocate(w, h)
	return r, nil
}

func (r *Renderer) allocate(w, h int) {
	r.dc = gg.NewContext(w, h)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.size = motion.Size{W: float64(w), H: float64(h)}
	r.sampleAxis()
}

// sampleAxis widens the sampled span when the stack is rotated so the
// corners of the canvas stay covered.
func (r *Renderer) sampleAxis() {
	pad := 0.0
	if math.Mod(r.params.Angle, 180) != 0 {
		pad = math.Ceil((math.Hypot(r.size.W, r.size.H) - r.size.W) / 2)
	}
	xs := wave.SampleXs(int(r.size.W+2*pad), r.step)
	for i := range xs {
		xs[i] -= pad
	}
	r.xs = xs
	if cap(r.pts) < len(xs) {
		r.pts = make([]wave.Point, 0, len(xs))
	}
}

// Resize reallocates the canvas. Motion state is kept.
func (r *Renderer) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid canvas %dx%d", w, h)
	}
	if int(r.size.W) == w && int(r.size.H) == h {
		return nil
	}
	r.allocate(w, h)
	return nil
}

// UpdateParameters swaps in a new parameter set and rebuilds only what the
// change touches. Motion state carries over.
func (r *Renderer) UpdateParameters(p pattern.Parameters) pattern.Change {
	ch := pattern.Diff(r.target, p)
	r.target = p
	if ch == pattern.ChangeNone {
		return ch
	}
	if r.smooth != nil {
		r.params = r.smooth.retarget(r.params, p)
	} else {
		r.params = p
	}
	if ch.Has(pattern.ChangeColor | pattern.ChangeBackground | pattern.ChangeOpacity) {
		r.colors = palette.NewResolver(p)
	}
	if ch.Has(pattern.ChangeGeometry) {
		r.sampleAxis()
	}
	return ch
}

// Frame draws the next frame and returns the canvas. The image is reused
// by the following call.
func (r *Renderer) Frame() *image.RGBA {
	if r.smooth != nil {
		r.params = r.smooth.step(r.params, r.target)
	}
	p := r.params
	dc := r.dc

	dc.Identity()
	dc.SetColor(r.colors.Background())
	dc.Clear()

	motion.Step(&r.state, p, r.size)

	dc.Push()
	dc.RotateAbout(gg.Radians(p.Angle), r.size.W/2, r.size.H/2)
	top := r.size.H/2 - float64(p.NumLines-1)*p.Distance/2
	dc.Translate(0, top+r.state.YOffset)
	dc.SetLineWidth(p.Thickness)

	t := float64(r.frame)
	for i := 0; i < p.NumLines; i++ {
		r.pts = wave.AppendLine(r.pts[:0], p, r.sampler, i, r.xs, r.state.X)
		if len(r.pts) == 0 {
			break
		}
		dc.SetColor(r.colors.Line(i, t))
		dc.MoveTo(r.pts[0].X, r.pts[0].Y)
		for _, pt := range r.pts[1:] {
			dc.LineTo(pt.X, pt.Y)
		}
		dc.Stroke()
	}
	dc.Pop()

	r.frame++
	return dc.Image().(*image.RGBA)
}

// Parameters returns the most recent parameter set, not the eased one.
func (r *Renderer) Parameters() pattern.Parameters { return r.target }

func (r *Renderer) State() motion.State { return r.state }

func (r *Renderer) Frames() uint64 { return r.frame }

func (r *Renderer) Size() (w, h int) { return int(r.size.W), int(r.size.H) }

// Reset zeroes motion and the frame clock, as a fresh mount would.
func (r *Renderer) Reset() {
	r.state.Reset()
	r.frame = 0
	r.params = r.target
}
