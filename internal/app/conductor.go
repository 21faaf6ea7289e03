package app

import (
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-wavecanvas/internal/render"
	"github.com/coreman2200/funtimes-wavecanvas/internal/sequence"
)

// NewConductor returns a player whose hooks drive eng. Hook failures are
// logged; the timeline keeps running.
func NewConductor(eng *render.Engine) *sequence.Player {
	hooks := sequence.Hooks{
		SetPreset: func(name string) {
			if err := eng.SetPreset(name); err != nil {
				log.Warn().Err(err).Str("preset", name).Msg("sequence: set preset")
			}
		},
		ArmNext: func(name string) {
			if err := eng.ArmNext(name); err != nil {
				log.Warn().Err(err).Str("preset", name).Msg("sequence: arm next")
			}
		},
		SetCrossfade: eng.SetCrossfade,
		SetParam: func(name string, v float64) {
			if err := eng.SetParam(name, v); err != nil {
				log.Warn().Err(err).Str("param", name).Msg("sequence: set param")
			}
		},
	}
	return sequence.NewPlayer(hooks)
}
