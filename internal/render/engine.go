package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

// Sink receives every rendered frame. The image is only valid for the
// duration of the call.
type Sink interface {
	Write(*image.RGBA) error
}

// PresetSource resolves preset names to parameters.
type PresetSource interface {
	Get(name string) (pattern.Parameters, error)
}

// Engine renders frames using an active Renderer, optional next Renderer for
// crossfades, then hands the mixed frame to every sink.
type Engine struct {
	mu sync.Mutex

	presets PresetSource
	opts    []Option

	// active + next renderer
	RActive    *Renderer
	RNext      *Renderer
	activeName string
	nextName   string

	out   *image.RGBA
	sinks []Sink

	// crossfade
	alpha  float64 // 0..1
	fading bool

	frameID uint64
	t0      time.Time

	// last durations in ms
	Last struct {
		RenderMS float64
		SinkMS   float64
		TotalMS  float64
	}
}

// Status is a point-in-time view for health reporting.
type Status struct {
	FrameID  uint64  `json:"frame_id"`
	Preset   string  `json:"preset"`
	Next     string  `json:"next,omitempty"`
	Fade     float64 `json:"fade"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	RenderMS float64 `json:"render_ms"`
	UptimeS  float64 `json:"uptime_s"`
}

// NewEngine validates p and allocates the active renderer.
func NewEngine(w, h int, p pattern.Parameters, presets PresetSource, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r, err := New(w, h, p, opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{
		presets: presets,
		opts:    opts,
		RActive: r,
		out:     image.NewRGBA(image.Rect(0, 0, w, h)),
		t0:      time.Now(),
	}, nil
}

func (e *Engine) AddSink(s Sink) {
	if s == nil {
		return
	}
	e.mu.Lock()
	e.sinks = append(e.sinks, s)
	e.mu.Unlock()
}

// RenderOnce renders a single frame and writes it to every sink. It must
// not be called concurrently with itself.
func (e *Engine) RenderOnce() error {
	start := time.Now()

	e.mu.Lock()
	img := e.RActive.Frame()
	if e.fading && e.RNext != nil {
		Mix(e.out, img, e.RNext.Frame(), e.alpha)
	} else {
		copy(e.out.Pix, img.Pix)
	}
	e.frameID++
	out, sinks := e.out, e.sinks
	e.Last.RenderMS = ms(time.Since(start))
	e.mu.Unlock()

	sinkStart := time.Now()
	var errs []error
	for _, s := range sinks {
		if err := s.Write(out); err != nil {
			errs = append(errs, err)
		}
	}

	e.mu.Lock()
	e.Last.SinkMS = ms(time.Since(sinkStart))
	e.Last.TotalMS = ms(time.Since(start))
	e.mu.Unlock()
	return errors.Join(errs...)
}

// Run renders at fps until ctx is done. tick, when set, runs before each
// frame with the nominal frame duration in seconds. Frames the ticker could
// not deliver in time are dropped.
func (e *Engine) Run(ctx context.Context, fps int, tick func(dt float64)) {
	if fps <= 0 {
		fps = 60
	}
	dt := time.Second / time.Duration(fps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if tick != nil {
				tick(dt.Seconds())
			}
			if err := e.RenderOnce(); err != nil {
				log.Debug().Err(err).Msg("sink write")
			}
		}
	}
}

// Apply is the validation boundary for whole-parameter edits.
func (e *Engine) Apply(p pattern.Parameters) (pattern.Change, error) {
	if err := p.Validate(); err != nil {
		return pattern.ChangeNone, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.RActive.UpdateParameters(p), nil
}

// Parameters returns the active renderer's parameters.
func (e *Engine) Parameters() pattern.Parameters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.RActive.Parameters()
}

func (e *Engine) lookup(name string) (pattern.Parameters, error) {
	if e.presets == nil {
		return pattern.Parameters{}, errors.New("no preset source")
	}
	p, err := e.presets.Get(name)
	if err != nil {
		return p, err
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("preset %s: %w", name, err)
	}
	return p, nil
}

// SetPreset makes preset name active immediately and cancels any fade.
func (e *Engine) SetPreset(name string) error {
	p, err := e.lookup(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.RActive.UpdateParameters(p)
	e.activeName = name
	// reset fade
	e.fading = false
	e.alpha = 0
	return nil
}

// ArmNext prepares preset name on a second renderer for a crossfade.
func (e *Engine) ArmNext(name string) error {
	p, err := e.lookup(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.RNext == nil {
		w, h := e.RActive.Size()
		if e.RNext, err = New(w, h, p, e.opts...); err != nil {
			return err
		}
	} else {
		e.RNext.UpdateParameters(p)
	}
	e.nextName = name
	e.fading = true
	return nil
}

// SetCrossfade sets mix alpha 0..1. Reaching 1 promotes next to active.
func (e *Engine) SetCrossfade(alpha float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case alpha <= 0:
		e.alpha = 0
		e.fading = false
	case alpha >= 1:
		e.alpha = 0
		e.fading = false
		if e.RNext != nil {
			e.RActive = e.RNext
			e.activeName = e.nextName
		}
		e.RNext = nil
		e.nextName = ""
	default:
		e.alpha = alpha
		e.fading = e.RNext != nil
	}
}

// SetParam updates one numeric field of the active pattern, clamping the
// result into range.
func (e *Engine) SetParam(name string, v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.RActive.Parameters().Set(name, v)
	if err != nil {
		return err
	}
	e.RActive.UpdateParameters(p.Normalize())
	return nil
}

// Resize resizes every renderer; motion state is kept.
func (e *Engine) Resize(w, h int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.RActive.Resize(w, h); err != nil {
		return err
	}
	if e.RNext != nil {
		if err := e.RNext.Resize(w, h); err != nil {
			return err
		}
	}
	if b := e.out.Bounds(); b.Dx() != w || b.Dy() != h {
		e.out = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return nil
}

func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, h := e.RActive.Size()
	return Status{
		FrameID:  e.frameID,
		Preset:   e.activeName,
		Next:     e.nextName,
		Fade:     e.alpha,
		Width:    w,
		Height:   h,
		RenderMS: e.Last.RenderMS,
		UptimeS:  time.Since(e.t0).Seconds(),
	}
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }
