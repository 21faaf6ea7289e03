package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-wavecanvas/internal/sequence"
)

var simSeconds float64

var seqsimCmd = &cobra.Command{
	Use:   "seqsim <program.yaml>",
	Short: "Step a sequence program on a simulated clock and print its events",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		prog, err := sequence.LoadProgram(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		var now float64
		lastAlpha := -1.0
		p := sequence.NewPlayer(sequence.Hooks{
			SetPreset: func(name string) { fmt.Fprintf(out, "%8.3f set    %s\n", now, name) },
			ArmNext:   func(name string) { fmt.Fprintf(out, "%8.3f arm    %s\n", now, name) },
			SetCrossfade: func(a float64) {
				// only report the ends and every quarter
				if a == 0 || a == 1 || int(a*4) != int(lastAlpha*4) {
					fmt.Fprintf(out, "%8.3f fade   %.2f\n", now, a)
				}
				lastAlpha = a
			},
		})
		if err := p.Load(prog); err != nil {
			return err
		}
		if err := p.Start(); err != nil {
			return err
		}
		dt := 1.0 / float64(cfg.FPS)
		for p.State() == sequence.Running {
			if now >= simSeconds {
				return errors.New("time limit reached before program end")
			}
			now += dt
			p.Tick(dt)
		}
		fmt.Fprintf(out, "%8.3f done\n", now)
		return nil
	},
}

func init() {
	seqsimCmd.Flags().Float64Var(&simSeconds, "seconds", 600, "stop after this much simulated time")
}
