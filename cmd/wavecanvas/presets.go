package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-wavecanvas/internal/preset"
)

var savePath string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List available presets, optionally saving them to a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lib := preset.NewLibrary()
		if cfg.PresetFile != "" {
			if err := lib.Load(cfg.PresetFile); err != nil {
				return err
			}
		}
		out := cmd.OutOrStdout()
		for _, name := range lib.Names() {
			p, _ := lib.Get(name)
			fmt.Fprintf(out, "%-12s %-9s %-18s lines=%d\n", name, p.WaveType, p.Direction, p.NumLines)
		}
		if savePath != "" {
			return lib.Save(savePath)
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().StringVar(&savePath, "save", "", "write the library to this YAML file")
}
