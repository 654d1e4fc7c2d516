// Package surface holds the fixed-resolution pixel buffer the user paints on.
package surface

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ErrNotReady is returned by operations attempted before Initialize.
var ErrNotReady = errors.New("surface not initialized")

// Surface is a square RGBA buffer of fixed size. The scaled source image is
// kept alongside the editable pixels so paint can be removed again.
type Surface struct {
	size  int
	img   *image.RGBA
	base  *image.RGBA
	ready bool
}

// New returns an uninitialized surface of size×size pixels.
func New(size int) *Surface {
	if size < 1 {
		size = 1
	}
	return &Surface{size: size}
}

// Size returns the side length in pixels.
func (s *Surface) Size() int { return s.size }

// Bounds returns the surface rectangle, anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return image.Rect(0, 0, s.size, s.size) }

// Ready reports whether Initialize has completed.
func (s *Surface) Ready() bool { return s.ready }

// Initialize stretches src over the whole surface, discarding any previous
// content and paint. Aspect ratio is not preserved.
func (s *Surface) Initialize(src image.Image) error {
	if src == nil || src.Bounds().Empty() {
		s.ready = false
		return errors.New("surface: empty source image")
	}
	r := s.Bounds()
	base := image.NewRGBA(r)
	draw.Draw(base, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
	xdraw.ApproxBiLinear.Scale(base, r, src, src.Bounds(), draw.Over, nil)

	s.base = base
	s.img = image.NewRGBA(r)
	copy(s.img.Pix, base.Pix)
	s.ready = true
	return nil
}

// Reset restores the freshly initialized state.
func (s *Surface) Reset() error {
	if !s.ready {
		return ErrNotReady
	}
	copy(s.img.Pix, s.base.Pix)
	return nil
}

// Image returns the live editable buffer. Callers other than the paint engine
// must treat it as read-only.
func (s *Surface) Image() (*image.RGBA, error) {
	if !s.ready {
		return nil, ErrNotReady
	}
	return s.img, nil
}

// Snapshot returns a copy of the current pixels.
func (s *Surface) Snapshot() (*image.RGBA, error) {
	if !s.ready {
		return nil, ErrNotReady
	}
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out, nil
}

// Restore copies the base pixel at (x, y) back onto the surface. Points
// outside the surface are ignored.
func (s *Surface) Restore(x, y int) {
	if !s.ready || !image.Pt(x, y).In(s.img.Rect) {
		return
	}
	i := s.img.PixOffset(x, y)
	copy(s.img.Pix[i:i+4], s.base.Pix[i:i+4])
}
