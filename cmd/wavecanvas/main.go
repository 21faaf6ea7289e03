package main

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-wavecanvas/internal/config"
)

var (
	configPath string
	logLevel   string

	// overrides; applied only when set on the command line
	width, height, fps int
	startPreset        string
	presetFile         string
	programFile        string
	smoothing          bool
)

var rootCmd = &cobra.Command{
	Use:           "wavecanvas",
	Short:         "Animated wave-line pattern renderer",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "config.yaml", "path to config.yaml")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.IntVar(&width, "width", 0, "canvas width in pixels")
	pf.IntVar(&height, "height", 0, "canvas height in pixels")
	pf.IntVar(&fps, "fps", 0, "target frames per second")
	pf.StringVar(&startPreset, "preset", "", "preset to start with")
	pf.StringVar(&presetFile, "presets-file", "", "YAML preset library to load")
	pf.StringVar(&programFile, "program", "", "YAML sequence program to play")
	pf.BoolVar(&smoothing, "smoothing", false, "ease geometry changes with springs")

	rootCmd.AddCommand(serveCmd, renderCmd, presetsCmd, configCmd, seqsimCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("wavecanvas")
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// loadConfig layers config file, environment and command-line flags. The
// default config path may be absent.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("path", path).Msg("no config file; using defaults")
			path = ""
		}
	}
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("width") {
		cfg.Canvas.Width = width
	}
	if f.Changed("height") {
		cfg.Canvas.Height = height
	}
	if f.Changed("fps") {
		cfg.FPS = fps
	}
	if f.Changed("preset") {
		cfg.StartPreset = startPreset
	}
	if f.Changed("presets-file") {
		cfg.PresetFile = presetFile
	}
	if f.Changed("program") {
		cfg.ProgramFile = programFile
	}
	if f.Changed("smoothing") {
		cfg.Smoothing = smoothing
	}
	if f.Changed("log-level") {
		cfg.LogLevel = logLevel
	} else if cfg.LogLevel != "" {
		if err := setupLogging(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}
