package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WAVECANVAS_"

type Canvas struct {
	Width  int `yaml:"width" env:"WIDTH"`
	Height int `yaml:"height" env:"HEIGHT"`
}

type PNGSink struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Dir     string `yaml:"dir" env:"DIR"`
	Every   int    `yaml:"every" env:"EVERY"` // write every Nth frame
}

type LEDSink struct {
	Enabled  bool    `yaml:"enabled" env:"ENABLED"`
	SPIDev   string  `yaml:"spi_dev" env:"SPI_DEV"` // "" picks the first port
	SpeedKHz int     `yaml:"speed_khz" env:"SPEED_KHZ"`
	Pixels   int     `yaml:"pixels" env:"PIXELS"`
	WhiteCap float64 `yaml:"white_cap" env:"WHITE_CAP"` // 0..1, 0 disables
}

type Config struct {
	Canvas     Canvas  `yaml:"canvas" envPrefix:"CANVAS_"`
	FPS        int     `yaml:"fps" env:"FPS"`
	SampleStep float64 `yaml:"sample_step" env:"SAMPLE_STEP"`
	Smoothing  bool    `yaml:"smoothing" env:"SMOOTHING"`

	Addr      string `yaml:"addr" env:"ADDR"`
	StreamFPS int    `yaml:"stream_fps" env:"STREAM_FPS"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`

	PresetFile  string `yaml:"preset_file,omitempty" env:"PRESET_FILE"`
	StartPreset string `yaml:"start_preset" env:"START_PRESET"`
	ProgramFile string `yaml:"program_file,omitempty" env:"PROGRAM_FILE"`

	PNG PNGSink `yaml:"png" envPrefix:"PNG_"`
	LED LEDSink `yaml:"led" envPrefix:"LED_"`
}

func Default() *Config {
	return &Config{
		Canvas:      Canvas{Width: 640, Height: 360},
		FPS:         60,
		SampleStep:  2,
		Addr:        ":8080",
		StreamFPS:   15,
		LogLevel:    "info",
		StartPreset: "calm",
		PNG:         PNGSink{Dir: "frames", Every: 1},
		LED:         LEDSink{SpeedKHz: 2400, Pixels: 150, WhiteCap: 0.8},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// ApplyEnv overrides c with any WAVECANVAS_* variables that are set.
func ApplyEnv(c *Config) error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve layers defaults, the optional file at path and the environment.
// A missing file is only an error when path was given explicitly.
func Resolve(path string) (*Config, error) {
	c := Default()
	if path != "" {
		var err error
		if c, err = Load(path); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(c); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas %dx%d must be positive", c.Canvas.Width, c.Canvas.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, errors.New("fps must be > 0"))
	}
	if c.SampleStep <= 0 {
		errs = append(errs, errors.New("sample_step must be > 0"))
	}
	if c.StreamFPS < 0 {
		errs = append(errs, errors.New("stream_fps must be >= 0"))
	}
	if c.PNG.Enabled && c.PNG.Every < 1 {
		errs = append(errs, errors.New("png.every must be >= 1"))
	}
	if c.LED.Enabled && c.LED.Pixels <= 0 {
		errs = append(errs, errors.New("led.pixels must be > 0"))
	}
	if c.LED.WhiteCap < 0 || c.LED.WhiteCap > 1 {
		errs = append(errs, errors.New("led.white_cap must be within [0, 1]"))
	}
	return errors.Join(errs...)
}
