// Package led drives an addressable LED strip from rendered frames.
package led

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

// Options describe the attached strip.
type Options struct {
	Dev      string // SPI port name, "" for the first one found
	SpeedKHz int
	Pixels   int
	WhiteCap float64 // 0..1 of full white per LED; 0 or 1 disables
}

// Strip samples one row of each frame down to Pixels LEDs.
type Strip struct {
	d        display.Drawer
	port     spi.PortCloser
	n        int
	whiteCap float64
	row      float64 // 0 top, 1 bottom

	rgb []byte
	img *image.NRGBA
}

// New wraps an existing drawer.
func New(d display.Drawer, pixels int, whiteCap float64) (*Strip, error) {
	if pixels <= 0 {
		return nil, fmt.Errorf("led strip: pixels must be > 0, got %d", pixels)
	}
	return &Strip{
		d:        d,
		n:        pixels,
		whiteCap: whiteCap,
		row:      0.5,
		rgb:      make([]byte, pixels*3),
		img:      image.NewNRGBA(image.Rect(0, 0, pixels, 1)),
	}, nil
}

// Open initialises the host, opens the SPI port and attaches an nrzled
// driver. With no SPI port available it falls back to drawing on the
// console.
func Open(o Options) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	p, err := spireg.Open(o.Dev)
	if err != nil {
		log.Warn().Err(err).Str("dev", o.Dev).Msg("no SPI port, drawing to console")
		return New(screen.New(o.Pixels), o.Pixels, o.WhiteCap)
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: o.Pixels,
		Channels:  3,
		Freq:      physic.Frequency(o.SpeedKHz) * physic.KiloHertz,
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	s, err := New(d, o.Pixels, o.WhiteCap)
	if err != nil {
		p.Close()
		return nil, err
	}
	s.port = p
	log.Info().Str("port", p.String()).Int("pixels", o.Pixels).Msg("led strip ready")
	return s, nil
}

// SetRow picks the sampled row as a fraction of canvas height.
func (s *Strip) SetRow(f float64) {
	s.row = math.Max(0, math.Min(1, f))
}

// Pixels returns the last values sent, three bytes per LED.
func (s *Strip) Pixels() []byte { return s.rgb }

func (s *Strip) Write(img *image.RGBA) error {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	y := b.Min.Y + int(s.row*float64(b.Dy()-1)+0.5)
	w := float64(b.Dx())
	for i := 0; i < s.n; i++ {
		x := b.Min.X + int((float64(i)+0.5)*w/float64(s.n))
		o := img.PixOffset(x, y)
		copy(s.rgb[i*3:i*3+3], img.Pix[o:o+3])
	}
	applyWhiteCap(s.rgb, s.whiteCap)
	for i := 0; i < s.n; i++ {
		s.img.SetNRGBA(i, 0, color.NRGBA{R: s.rgb[i*3], G: s.rgb[i*3+1], B: s.rgb[i*3+2], A: 255})
	}
	return s.d.Draw(s.d.Bounds(), s.img, image.Point{})
}

// Close blanks the strip and releases the port.
func (s *Strip) Close() error {
	err := s.d.Halt()
	if s.port != nil {
		if cerr := s.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// applyWhiteCap scales each LED so r+g+b <= whiteCap*3*255.
func applyWhiteCap(rgb []byte, whiteCap float64) {
	if whiteCap <= 0 || whiteCap >= 1 {
		return
	}
	limit := whiteCap * 3 * 255
	for i := 0; i+2 < len(rgb); i += 3 {
		sum := float64(rgb[i]) + float64(rgb[i+1]) + float64(rgb[i+2])
		if sum <= limit {
			continue
		}
		scale := limit / sum
		for c := i; c < i+3; c++ {
			rgb[c] = byte(math.Round(float64(rgb[c]) * scale))
		}
	}
}
