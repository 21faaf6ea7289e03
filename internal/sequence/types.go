package sequence

import (
	"errors"
	"sync"
)

var ErrEmptyProgram = errors.New("program has no clips")

// Keyframe is a value at time T (seconds, clip-local). Ease shapes the
// segment that starts at this keyframe.
type Keyframe struct {
	T    float64 `yaml:"t" json:"t"`
	V    float64 `yaml:"v" json:"v"`
	Ease string  `yaml:"ease,omitempty" json:"ease,omitempty"` // linear, smooth, cubic
}

// Envelope is a list of keyframes sorted by T.
type Envelope struct {
	Keys []Keyframe
}

// Clip plays one preset for DurationS seconds. When XFadeS > 0 the last
// XFadeS seconds crossfade into the following clip.
type Clip struct {
	Name      string              `yaml:"name" json:"name"`
	Preset    string              `yaml:"preset" json:"preset"`
	DurationS float64             `yaml:"durationS" json:"durationS"`
	XFadeS    float64             `yaml:"xFadeS,omitempty" json:"xFadeS,omitempty"`
	Params    map[string]Envelope `yaml:"params,omitempty" json:"params,omitempty"`
}

type Program struct {
	Version string `yaml:"version" json:"version"` // seq.v1
	Loop    bool   `yaml:"loop,omitempty" json:"loop,omitempty"`
	Clips   []Clip `yaml:"clips" json:"clips"`
}

type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks are the callbacks the player drives. Nil hooks are skipped.
type Hooks struct {
	// SetPreset makes a preset active immediately.
	SetPreset func(name string)
	// SetParam sets one numeric parameter of the active pattern.
	SetParam func(name string, v float64)
	// ArmNext prepares the next preset for a crossfade.
	ArmNext      func(name string)
	SetCrossfade func(alpha float64) // 0..1
}

// Status is a snapshot of the player position.
type Status struct {
	State  PlayerState `json:"state"`
	Clip   string      `json:"clip,omitempty"`
	Index  int         `json:"index"`
	LocalS float64     `json:"local_s"`
}

// Player steps a Program and drives Hooks. It is safe for concurrent use;
// hooks run with the player lock held and must not call back into it.
type Player struct {
	mu    sync.Mutex
	state PlayerState

	prog  Program
	idx   int     // current clip
	local float64 // seconds into the current clip

	armed     bool
	lastAlpha float64

	hooks Hooks
}
