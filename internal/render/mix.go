package render

import "image"

// Mix blends two canvases (a,b) into dst using alpha (0..1). All three must
// share bounds. Channels are premultiplied, so a straight lerp is correct.
func Mix(dst, a, b *image.RGBA, alpha float64) {
	if alpha <= 0 {
		copy(dst.Pix, a.Pix)
		return
	}
	if alpha >= 1 {
		copy(dst.Pix, b.Pix)
		return
	}
	af := 1 - alpha
	n := len(dst.Pix)
	for i := 0; i < n; i++ {
		dst.Pix[i] = uint8(float64(a.Pix[i])*af + float64(b.Pix[i])*alpha + 0.5)
	}
}
