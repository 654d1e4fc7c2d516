package render

import (
	"image"
	"image/color"
	"testing"
)

func fill(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func halfMask(w, h int) *image.RGBA {
	m := fill(w, h, color.RGBA{A: 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			m.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return m
}

func TestOverlayTintsOnlyMarkedPixels(t *testing.T) {
	base := fill(10, 10, color.RGBA{0, 0, 200, 255})
	out := Overlay(base, halfMask(10, 10), DefaultPreviewOptions())
	if got := out.RGBAAt(2, 5); got.R == 0 || got.B >= 200 {
		t.Fatalf("marked pixel not tinted: %+v", got)
	}
	if got := out.RGBAAt(8, 5); got != base.RGBAAt(8, 5) {
		t.Fatalf("unmarked pixel changed: %+v", got)
	}
	if base.RGBAAt(2, 5) != (color.RGBA{0, 0, 200, 255}) {
		t.Fatal("base was modified")
	}
}

func TestOverlayStretchesMask(t *testing.T) {
	base := fill(40, 20, color.RGBA{10, 10, 10, 255})
	out := Overlay(base, halfMask(8, 8), PreviewOptions{Tint: color.RGBA{R: 255, A: 255}, Opacity: 1})
	if !out.Bounds().Eq(base.Bounds()) {
		t.Fatalf("bounds %v, want %v", out.Bounds(), base.Bounds())
	}
	if got := out.RGBAAt(5, 10); got.R != 255 {
		t.Fatalf("left half should be fully tinted, got %+v", got)
	}
	if got := out.RGBAAt(35, 10); got.R != 10 {
		t.Fatalf("right half should be untouched, got %+v", got)
	}
}

func TestOverlayZeroOpacity(t *testing.T) {
	base := fill(4, 4, color.RGBA{1, 2, 3, 255})
	out := Overlay(base, halfMask(4, 4), PreviewOptions{Opacity: 0})
	for i := range base.Pix {
		if out.Pix[i] != base.Pix[i] {
			t.Fatalf("pixel byte %d changed", i)
		}
	}
}

func TestOverlayFeatherSoftensEdge(t *testing.T) {
	base := fill(20, 4, color.RGBA{A: 255})
	hard := Overlay(base, halfMask(20, 4), PreviewOptions{Tint: color.RGBA{R: 255, A: 255}, Opacity: 1})
	soft := Overlay(base, halfMask(20, 4), PreviewOptions{Tint: color.RGBA{R: 255, A: 255}, Opacity: 1, Feather: 3})
	if hard.RGBAAt(10, 1).R != 0 {
		t.Fatalf("hard edge leaked: %+v", hard.RGBAAt(10, 1))
	}
	if soft.RGBAAt(10, 1).R == 0 {
		t.Fatal("feathered edge should bleed past the mask boundary")
	}
}

func TestSideBySideLayout(t *testing.T) {
	base := fill(6, 3, color.RGBA{9, 9, 9, 255})
	out := SideBySide(base, halfMask(6, 3), 2)
	if want := image.Rect(0, 0, 14, 3); !out.Bounds().Eq(want) {
		t.Fatalf("bounds %v, want %v", out.Bounds(), want)
	}
	if got := out.RGBAAt(0, 0); got != base.RGBAAt(0, 0) {
		t.Fatalf("left pane %+v", got)
	}
	if got := out.RGBAAt(6, 0); got != (color.RGBA{40, 40, 40, 255}) {
		t.Fatalf("gap %+v", got)
	}
	if got := out.RGBAAt(8, 0); got.R != 255 {
		t.Fatalf("mask pane should start white, got %+v", got)
	}
	if got := out.RGBAAt(13, 0); got.R != 0 {
		t.Fatalf("mask pane should end black, got %+v", got)
	}
}

func TestPreviewMaskStyleNormalizesOrigin(t *testing.T) {
	m := halfMask(4, 4)
	shifted := m.SubImage(image.Rect(1, 1, 4, 4))
	out := Preview(nil, shifted, PreviewOptions{Style: StyleMask})
	if want := image.Rect(0, 0, 3, 3); !out.Bounds().Eq(want) {
		t.Fatalf("bounds %v, want %v", out.Bounds(), want)
	}
	if out.RGBAAt(0, 0).R != 255 || out.RGBAAt(2, 0).R != 0 {
		t.Fatal("mask content shifted")
	}
}

func TestParseStyle(t *testing.T) {
	for in, want := range map[string]Style{"": StyleOverlay, "side": StyleSideBySide, "MASK": StyleMask} {
		got, err := ParseStyle(in)
		if err != nil || got != want {
			t.Fatalf("ParseStyle(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseStyle("3d"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBlurGrayRadiusZeroCopies(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 3, 1))
	g.Pix[1] = 200
	out := blurGray(g, 0)
	if out.Pix[1] != 200 || &out.Pix[0] == &g.Pix[0] {
		t.Fatal("expected an independent copy")
	}
}
