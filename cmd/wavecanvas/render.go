package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-wavecanvas/internal/app"
)

var (
	frames int
	outDir string
	every  int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render frames headless to PNG files",
	RunE:  runRender,
}

func init() {
	f := renderCmd.Flags()
	f.IntVar(&frames, "frames", 120, "number of frames to render")
	f.StringVar(&outDir, "out", "", "output directory (default from config png.dir)")
	f.IntVar(&every, "every", 0, "write every Nth frame (default from config png.every)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.PNG.Enabled = true
	if outDir != "" {
		cfg.PNG.Dir = outDir
	}
	if every > 0 {
		cfg.PNG.Every = every
	}
	cfg.LED.Enabled = false

	core, err := app.InitCore(cfg)
	if err != nil {
		return err
	}
	defer core.Close()

	if err := core.RenderFrames(frames); err != nil {
		return err
	}
	log.Info().Int("frames", frames).Str("dir", cfg.PNG.Dir).Msg("render done")
	return nil
}
