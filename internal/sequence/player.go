package sequence

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

// Validate checks clip timing, envelope shape and parameter names.
func (prog Program) Validate() error {
	if len(prog.Clips) == 0 {
		return ErrEmptyProgram
	}
	var errs []error
	for i, c := range prog.Clips {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if c.Preset == "" {
			errs = append(errs, fmt.Errorf("clip %s: preset is empty", name))
		}
		if !(c.DurationS > 0) {
			errs = append(errs, fmt.Errorf("clip %s: durationS must be > 0", name))
		}
		if c.XFadeS < 0 || c.XFadeS > c.DurationS {
			errs = append(errs, fmt.Errorf("clip %s: xFadeS must be within [0, durationS]", name))
		}
		for param, env := range c.Params {
			if _, err := pattern.Default().Set(param, 0); err != nil {
				errs = append(errs, fmt.Errorf("clip %s: %w", name, err))
			}
			if err := env.validate(); err != nil {
				errs = append(errs, fmt.Errorf("clip %s param %s: %w", name, param, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Duration is the total program length in seconds.
func (prog Program) Duration() float64 {
	total := 0.0
	for _, c := range prog.Clips {
		total += c.DurationS
	}
	return total
}

// LoadProgram reads and validates a YAML program file.
func LoadProgram(path string) (Program, error) {
	var prog Program
	b, err := os.ReadFile(path)
	if err != nil {
		return prog, err
	}
	if err := yaml.Unmarshal(b, &prog); err != nil {
		return prog, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := prog.Validate(); err != nil {
		return prog, fmt.Errorf("program %s: %w", path, err)
	}
	return prog, nil
}

func NewPlayer(h Hooks) *Player {
	return &Player{state: Idle, hooks: h}
}

// Load replaces the program and resets to Idle.
func (p *Player) Load(prog Program) error {
	if err := prog.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prog = prog
	p.state = Idle
	p.rewind()
	return nil
}

// Start primes the current clip and runs. Starting a paused player resumes
// it where it was.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prog.Clips) == 0 {
		return ErrEmptyProgram
	}
	switch p.state {
	case Running:
		return nil
	case Paused:
		p.state = Running
		return nil
	}
	p.state = Running
	p.enter()
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	if p.state == Running {
		p.state = Paused
	}
	p.mu.Unlock()
}

func (p *Player) Resume() {
	p.mu.Lock()
	if p.state == Paused {
		p.state = Running
	}
	p.mu.Unlock()
}

// Stop returns to the start of the program.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = Idle
	p.rewind()
	p.fade(0)
}

// Seek jumps to absolute program time t, clamped into [0, Duration).
func (p *Player) Seek(t float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.prog.Clips) == 0 {
		return
	}
	total := p.prog.Duration()
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	if t >= total {
		t = math.Nextafter(total, 0)
	}
	acc := 0.0
	for i, c := range p.prog.Clips {
		if t < acc+c.DurationS || i == len(p.prog.Clips)-1 {
			p.idx = i
			p.local = t - acc
			break
		}
		acc += c.DurationS
	}
	p.enter()
}

// Tick advances by dt seconds, evaluates envelopes and crossfades, and moves
// to the next clip when the current one ends.
func (p *Player) Tick(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Running || !(dt > 0) {
		return
	}
	p.local += dt
	clip := p.prog.Clips[p.idx]

	if p.hooks.SetParam != nil {
		for name, env := range clip.Params {
			p.hooks.SetParam(name, env.Eval(p.local))
		}
	}

	if clip.XFadeS > 0 {
		remain := clip.DurationS - p.local
		if next := p.nextIndex(); remain <= clip.XFadeS && next != -1 {
			if !p.armed {
				if p.hooks.ArmNext != nil {
					p.hooks.ArmNext(p.prog.Clips[next].Preset)
				}
				p.armed = true
			}
			if alpha := clamp01(1 - remain/clip.XFadeS); alpha != p.lastAlpha {
				p.fade(alpha)
			}
		}
	}

	if p.local >= clip.DurationS {
		p.advance(clip.DurationS)
	}
}

func (p *Player) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := Status{State: p.state, Index: p.idx, LocalS: p.local}
	if p.idx < len(p.prog.Clips) {
		st.Clip = p.prog.Clips[p.idx].Name
	}
	return st
}

func (p *Player) rewind() {
	p.idx = 0
	p.local = 0
	p.armed = false
	p.lastAlpha = 0
}

// enter snaps the engine to the current clip.
func (p *Player) enter() {
	if p.hooks.SetPreset != nil {
		p.hooks.SetPreset(p.prog.Clips[p.idx].Preset)
	}
	p.armed = false
	p.fade(0)
}

func (p *Player) fade(alpha float64) {
	p.lastAlpha = alpha
	if p.hooks.SetCrossfade != nil {
		p.hooks.SetCrossfade(alpha)
	}
}

func (p *Player) nextIndex() int {
	ni := p.idx + 1
	if ni < len(p.prog.Clips) {
		return ni
	}
	if p.prog.Loop {
		return 0
	}
	return -1
}

func (p *Player) advance(dur float64) {
	next := p.nextIndex()
	if next == -1 {
		p.state = Idle
		p.rewind()
		p.fade(0)
		return
	}
	p.idx = next
	p.local -= dur
	if p.local > p.prog.Clips[next].DurationS {
		p.local = 0
	}
	p.enter()
}
