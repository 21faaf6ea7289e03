package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-wavecanvas/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Write the effective configuration to a YAML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}
