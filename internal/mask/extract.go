// Package mask converts a painted surface into a binary inpainting mask.
package mask

import (
	"image"
	"image/color"
)

// The classification constants are part of the backend contract and must not
// be tuned independently of it.
const (
	RedThreshold    = 150
	DominanceFactor = 2
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

// Marked reports whether a non-premultiplied pixel carries the red overlay.
func Marked(r, g, b uint8) bool {
	ri := int(r)
	return ri > RedThreshold && ri > DominanceFactor*int(g) && ri > DominanceFactor*int(b)
}

// Extract returns a mask with the same dimensions as img: opaque white where
// the pixel is marked, opaque black everywhere else. The output origin is
// always (0, 0). img is not modified.
func Extract(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			si := src.PixOffset(b.Min.X, b.Min.Y+y)
			di := out.PixOffset(0, y)
			for x := 0; x < b.Dx(); x++ {
				r, g, bl := unpremultiply(src.Pix[si], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3])
				px := black
				if Marked(r, g, bl) {
					px = white
				}
				out.Pix[di] = px.R
				out.Pix[di+1] = px.G
				out.Pix[di+2] = px.B
				out.Pix[di+3] = px.A
				si += 4
				di += 4
			}
		}
		return out
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			px := black
			if Marked(c.R, c.G, c.B) {
				px = white
			}
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, px)
		}
	}
	return out
}

// unpremultiply converts an 8-bit premultiplied pixel to straight colour,
// matching what a canvas readback reports.
func unpremultiply(r, g, b, a uint8) (uint8, uint8, uint8) {
	switch a {
	case 0xff:
		return r, g, b
	case 0:
		return 0, 0, 0
	}
	c := color.NRGBAModel.Convert(color.RGBA{r, g, b, a}).(color.NRGBA)
	return c.R, c.G, c.B
}

// Coverage returns the fraction of white pixels in m.
func Coverage(m *image.RGBA) float64 {
	b := m.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := m.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			if m.Pix[i] == 0xff {
				n++
			}
			i += 4
		}
	}
	return float64(n) / float64(total)
}

// IsBinary reports whether every pixel of m is opaque black or opaque white.
func IsBinary(m *image.RGBA) bool {
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := m.RGBAAt(x, y)
			if c != white && c != black {
				return false
			}
		}
	}
	return true
}
