// Package preset keeps named pattern parameter sets, loaded from and saved to
// a YAML file.
package preset

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-wavecanvas/internal/pattern"
)

var ErrNotFound = errors.New("preset not found")

// File is the on-disk layout.
type File struct {
	Presets map[string]pattern.Parameters `yaml:"presets"`
}

// Library is safe for concurrent use.
type Library struct {
	mu sync.RWMutex
	m  map[string]pattern.Parameters
}

// NewLibrary returns a library holding the built-in presets.
func NewLibrary() *Library {
	l := &Library{m: map[string]pattern.Parameters{}}
	for k, v := range Builtin() {
		l.m[k] = v
	}
	return l
}

// Builtin presets are always available.
func Builtin() map[string]pattern.Parameters {
	calm := pattern.Default()

	storm := pattern.Default()
	storm.WaveType = pattern.Sawtooth
	storm.Direction = pattern.OscillateUpDown
	storm.Amplitude = 70
	storm.Frequency = 2.5
	storm.Speed = 6
	storm.NumLines = 14
	storm.Distance = 12
	storm.Palette = pattern.Pastel
	storm.BgColor = pattern.RGB{R: 20, G: 20, B: 24}

	spiral := pattern.Default()
	spiral.WaveType = pattern.Triangle
	spiral.Direction = pattern.Circular
	spiral.RotationSpeed = 1
	spiral.RotationRadius = 60
	spiral.Speed = 3
	spiral.Angle = 30
	spiral.Palette = pattern.Rainbow

	pulse := pattern.Default()
	pulse.WaveType = pattern.Square
	pulse.Direction = pattern.Right
	pulse.Amplitude = 25
	pulse.Thickness = 3
	pulse.LineOpacityMode = pattern.OpacityPulse
	pulse.LineOpacitySpeed = 4

	return map[string]pattern.Parameters{
		"calm":   calm,
		"storm":  storm,
		"spiral": spiral,
		"pulse":  pulse,
	}
}

func (l *Library) Get(name string) (pattern.Parameters, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.m[name]
	if !ok {
		return p, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

// Put validates p before storing it.
func (l *Library) Put(name string, p pattern.Parameters) error {
	if name == "" {
		return errors.New("preset name is empty")
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", name, err)
	}
	l.mu.Lock()
	l.m[name] = p
	l.mu.Unlock()
	return nil
}

// Names returns preset names in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.m))
	for k := range l.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Load merges the presets in path over the current set. Fields a preset
// leaves out take their default value. Every preset is validated; nothing is
// stored if any fails.
func (l *Library) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw struct {
		Presets map[string]yaml.Node `yaml:"presets"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	loaded := make(map[string]pattern.Parameters, len(raw.Presets))
	for name, node := range raw.Presets {
		p, err := decodeEntry(&node)
		if err != nil {
			return fmt.Errorf("parse %s: preset %s: %w", path, name, err)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		loaded[name] = p
	}
	l.mu.Lock()
	for name, p := range loaded {
		l.m[name] = p
	}
	l.mu.Unlock()
	return nil
}

// decodeEntry fills only the keys present in n; the rest keep their
// defaults.
func decodeEntry(n *yaml.Node) (pattern.Parameters, error) {
	p := pattern.Default()
	if err := n.Decode(&p); err != nil {
		return p, err
	}
	return p, nil
}

func (l *Library) Save(path string) error {
	l.mu.RLock()
	f := File{Presets: make(map[string]pattern.Parameters, len(l.m))}
	for k, v := range l.m {
		f.Presets[k] = v
	}
	l.mu.RUnlock()
	b, err := yaml.Marshal(&f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
