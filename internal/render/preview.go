// Package render draws mask previews for display and export.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Style selects how a preview is laid out.
type Style int

const (
	// StyleOverlay tints the marked region on top of the base image.
	StyleOverlay Style = iota
	// StyleSideBySide places the base image and the bare mask next to each
	// other.
	StyleSideBySide
	// StyleMask is the bare black and white mask.
	StyleMask
)

// ParseStyle accepts overlay, side and mask.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "overlay":
		return StyleOverlay, nil
	case "side", "side-by-side", "sidebyside":
		return StyleSideBySide, nil
	case "mask", "bare":
		return StyleMask, nil
	}
	return StyleOverlay, fmt.Errorf("unknown preview style %q", s)
}

// PreviewOptions configures Preview.
type PreviewOptions struct {
	Style   Style
	Tint    color.RGBA
	Opacity float64
	// Feather softens the tint edge by this many pixels. The mask itself is
	// never feathered.
	Feather int
	Gap     int
}

// DefaultPreviewOptions tints the mask in the same red the brush paints with.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		Style:   StyleOverlay,
		Tint:    color.RGBA{R: 255, A: 255},
		Opacity: 0.55,
		Gap:     8,
	}
}

// Preview renders mask against base according to opts. The mask is stretched
// to base's size when they differ. Neither input is modified.
func Preview(base, mask image.Image, opts PreviewOptions) *image.RGBA {
	switch opts.Style {
	case StyleSideBySide:
		return SideBySide(base, mask, opts.Gap)
	case StyleMask:
		out := image.NewRGBA(mask.Bounds().Sub(mask.Bounds().Min))
		draw.Draw(out, out.Bounds(), mask, mask.Bounds().Min, draw.Src)
		return out
	}
	return Overlay(base, mask, opts)
}

// Overlay returns a copy of base with the white region of mask tinted.
func Overlay(base, mask image.Image, opts PreviewOptions) *image.RGBA {
	dst := toRGBA(base)
	if opts.Opacity <= 0 {
		return dst
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	alpha := maskAlpha(fitTo(mask, dst.Bounds()))
	if opts.Feather > 0 {
		alpha = blurGray(alpha, opts.Feather)
	}
	tint := opts.Tint
	tint.A = uint8(opacity*255 + 0.5)
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(tint), image.Point{}, alpha, image.Point{}, draw.Over)
	return dst
}

// SideBySide returns base on the left and mask on the right, separated by gap
// pixels of dark grey.
func SideBySide(base, mask image.Image, gap int) *image.RGBA {
	if gap < 0 {
		gap = 0
	}
	left := toRGBA(base)
	right := fitTo(mask, left.Bounds())
	w, h := left.Bounds().Dx(), left.Bounds().Dy()
	dst := image.NewRGBA(image.Rect(0, 0, 2*w+gap, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{40, 40, 40, 255}), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(0, 0, w, h), left, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(w+gap, 0, 2*w+gap, h), right, right.Bounds().Min, draw.Src)
	return dst
}

// toRGBA copies img into a zero-origin RGBA.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b.Sub(b.Min))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// fitTo stretches img to r with nearest neighbour sampling so a binary mask
// stays binary.
func fitTo(img image.Image, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(r)
	xdraw.NearestNeighbor.Scale(out, r, img, img.Bounds(), draw.Src, nil)
	return out
}

func maskAlpha(m *image.RGBA) *image.Gray {
	b := m.Bounds()
	out := image.NewGray(b.Sub(b.Min))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = m.Pix[m.PixOffset(b.Min.X+x, b.Min.Y+y)]
		}
	}
	return out
}

// blurGray is a separable box blur.
func blurGray(src *image.Gray, radius int) *image.Gray {
	if radius <= 0 {
		out := image.NewGray(src.Bounds())
		copy(out.Pix, src.Pix)
		return out
	}
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
