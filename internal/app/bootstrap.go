// Package app assembles the engine, presets, sequencer and sinks from a
// config.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-wavecanvas/internal/config"
	"github.com/coreman2200/funtimes-wavecanvas/internal/preset"
	"github.com/coreman2200/funtimes-wavecanvas/internal/render"
	"github.com/coreman2200/funtimes-wavecanvas/internal/sequence"
	"github.com/coreman2200/funtimes-wavecanvas/internal/sink"
	"github.com/coreman2200/funtimes-wavecanvas/internal/sink/led"
	"github.com/coreman2200/funtimes-wavecanvas/internal/ws"
)

// Spring settings used when smoothing is enabled.
const (
	smoothAngularFreq = 6.0
	smoothDamping     = 1.0
)

type Core struct {
	Cfg *config.Config
	Lib *preset.Library
	Eng *render.Engine
	Seq *sequence.Player // nil without a program file
	Hub *ws.Hub

	sinks []sink.Sink
}

// InitCore builds everything cfg describes. Hardware sinks are opened here
// and released by Close.
func InitCore(cfg *config.Config) (*Core, error) {
	lib := preset.NewLibrary()
	if cfg.PresetFile != "" {
		if err := lib.Load(cfg.PresetFile); err != nil {
			return nil, fmt.Errorf("presets: %w", err)
		}
	}
	start, err := lib.Get(cfg.StartPreset)
	if err != nil {
		return nil, err
	}

	opts := []render.Option{render.WithSampleStep(cfg.SampleStep)}
	if cfg.Smoothing {
		opts = append(opts, render.WithSmoothing(cfg.FPS, smoothAngularFreq, smoothDamping))
	}
	eng, err := render.NewEngine(cfg.Canvas.Width, cfg.Canvas.Height, start, lib, opts...)
	if err != nil {
		return nil, err
	}
	if err := eng.SetPreset(cfg.StartPreset); err != nil {
		return nil, err
	}

	c := &Core{Cfg: cfg, Lib: lib, Eng: eng}

	if cfg.ProgramFile != "" {
		prog, err := sequence.LoadProgram(cfg.ProgramFile)
		if err != nil {
			return nil, err
		}
		c.Seq = NewConductor(eng)
		if err := c.Seq.Load(prog); err != nil {
			return nil, err
		}
	}

	if cfg.PNG.Enabled {
		p, err := sink.NewPNG(cfg.PNG.Dir, cfg.PNG.Every)
		if err != nil {
			return nil, err
		}
		c.attach(p)
	}
	if cfg.LED.Enabled {
		s, err := led.Open(led.Options{
			Dev:      cfg.LED.SPIDev,
			SpeedKHz: cfg.LED.SpeedKHz,
			Pixels:   cfg.LED.Pixels,
			WhiteCap: cfg.LED.WhiteCap,
		})
		if err != nil {
			c.Close()
			return nil, err
		}
		c.attach(s)
	}

	if c.Seq != nil {
		c.Hub = ws.NewHub(eng, c.Seq, cfg.FPS, cfg.StreamFPS)
	} else {
		c.Hub = ws.NewHub(eng, nil, cfg.FPS, cfg.StreamFPS)
	}
	c.attach(c.Hub)

	log.Info().
		Str("preset", cfg.StartPreset).
		Int("width", cfg.Canvas.Width).
		Int("height", cfg.Canvas.Height).
		Int("sinks", len(c.sinks)).
		Bool("sequence", c.Seq != nil).
		Msg("core ready")
	return c, nil
}

func (c *Core) attach(s sink.Sink) {
	c.sinks = append(c.sinks, s)
	c.Eng.AddSink(s)
}

func (c *Core) tick(dt float64) {
	if c.Seq != nil {
		c.Seq.Tick(dt)
	}
}

// Run starts the sequencer, if any, and renders until ctx is done.
func (c *Core) Run(ctx context.Context) error {
	if c.Seq != nil {
		if err := c.Seq.Start(); err != nil {
			return err
		}
	}
	c.Eng.Run(ctx, c.Cfg.FPS, c.tick)
	return nil
}

// RenderFrames renders n frames as fast as possible on the nominal frame
// clock. Sink errors stop the run.
func (c *Core) RenderFrames(n int) error {
	if c.Seq != nil && c.Seq.State() == sequence.Idle {
		if err := c.Seq.Start(); err != nil {
			return err
		}
	}
	dt := 1.0 / float64(c.Cfg.FPS)
	for i := 0; i < n; i++ {
		c.tick(dt)
		if err := c.Eng.RenderOnce(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// Close releases every sink.
func (c *Core) Close() error {
	var errs []error
	for _, s := range c.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.sinks = nil
	return errors.Join(errs...)
}
