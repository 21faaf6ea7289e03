package pattern

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit colour. It marshals as "#rrggbb".
type RGB struct{ R, G, B uint8 }

// ParseRGB accepts "#rrggbb" or "#rgb".
func ParseRGB(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}

func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func (c RGB) String() string { return c.Hex() }

// NRGBA returns the colour with the given alpha.
func (c RGB) NRGBA(a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

func (c RGB) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseRGB(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
