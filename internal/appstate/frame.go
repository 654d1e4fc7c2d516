package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/maskstudio/internal/theme"
)

const (
	statusHeight   = 20
	shortcutHeight = 18
	margin         = 8
	maxInitialSide = 768
)

// View selects what the canvas area shows.
type View int

const (
	ViewSurface View = iota
	ViewMask
	ViewResult
)

func (v View) String() string {
	switch v {
	case ViewMask:
		return "mask"
	case ViewResult:
		return "result"
	}
	return "paint"
}

// initialWindowSize returns a window that shows a size×size surface at up to
// maxInitialSide pixels.
func initialWindowSize(size int) image.Point {
	side := size
	if side > maxInitialSide {
		side = maxInitialSide
	}
	return image.Pt(side+2*margin, side+2*margin+statusHeight+shortcutHeight)
}

// canvasRect is the largest centred square that fits the window above the
// bars. The surface is always square so the mapping stays uniform.
func canvasRect(width, height int) image.Rectangle {
	availW := width - 2*margin
	availH := height - 2*margin - statusHeight - shortcutHeight
	side := availW
	if availH < side {
		side = availH
	}
	if side < 1 {
		return image.Rectangle{}
	}
	x := (width - side) / 2
	y := margin + (availH-side)/2
	return image.Rect(x, y, x+side, y+side)
}

// fitRect centres an image of the given size inside area without distortion.
func fitRect(size image.Point, area image.Rectangle) image.Rectangle {
	if size.X <= 0 || size.Y <= 0 || area.Empty() {
		return image.Rectangle{}
	}
	zx := float64(area.Dx()) / float64(size.X)
	zy := float64(area.Dy()) / float64(size.Y)
	z := zx
	if zy < z {
		z = zy
	}
	w := int(float64(size.X) * z)
	h := int(float64(size.Y) * z)
	x := area.Min.X + (area.Dx()-w)/2
	y := area.Min.Y + (area.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

type frameState struct {
	width, height int
	theme         *theme.Theme
	view          View
	// content is what the canvas shows; nil draws an empty checkerboard.
	content image.Image
	// stretch fills the whole canvas square instead of keeping aspect ratio.
	stretch      bool
	cursor       image.Point
	cursorIn     bool
	cursorRadius float64
	status       string
	message      string
	messageUntil time.Time
}

func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			c := light
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 == 1 {
				c = dark
			}
			r := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, r, &image.Uniform{c}, image.Point{}, draw.Src)
		}
	}
}

func drawCircleThin(img *image.RGBA, cx, cy, r int, col color.Color) {
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			pt := image.Pt(cx+p[0], cy+p[1])
			if pt.In(img.Bounds()) {
				img.Set(pt.X, pt.Y, col)
			}
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func drawText(dst *image.RGBA, x, baseline int, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13, Dot: fixed.P(x, baseline)}
	d.DrawString(s)
}

// composeFrame renders one frame into dst, which must be width×height.
func composeFrame(dst *image.RGBA, st frameState) {
	th := st.theme
	if th == nil {
		th = theme.Default()
	}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Backdrop}, image.Point{}, draw.Src)

	canvas := canvasRect(st.width, st.height)
	if !canvas.Empty() {
		drawCheckerboard(dst, canvas, 16, th.CheckerLight, th.CheckerDark)
		if st.content != nil {
			target := canvas
			if !st.stretch {
				target = fitRect(st.content.Bounds().Size(), canvas)
			}
			xdraw.ApproxBiLinear.Scale(dst, target, st.content, st.content.Bounds(), draw.Over, nil)
		}
		if st.view == ViewSurface && st.cursorIn && st.cursorRadius >= 1 {
			r := int(st.cursorRadius + 0.5)
			drawCircleThin(dst, st.cursor.X, st.cursor.Y, r+1, th.CursorOutline)
			drawCircleThin(dst, st.cursor.X, st.cursor.Y, r, th.Cursor)
		}
	}

	status := image.Rect(0, st.height-statusHeight-shortcutHeight, st.width, st.height-shortcutHeight)
	draw.Draw(dst, status, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	line := st.status
	if st.message != "" && time.Now().Before(st.messageUntil) {
		line = st.message
	}
	drawText(dst, 4, status.Max.Y-5, line, th.StatusText)

	shortcuts := image.Rect(0, st.height-shortcutHeight, st.width, st.height)
	draw.Draw(dst, shortcuts, &image.Uniform{th.ShortcutBackground}, image.Point{}, draw.Src)
	drawText(dst, 4, shortcuts.Max.Y-4, strings.Join(shortcutLabels(), " "), th.ShortcutText)
}

func statusLine(tool, mode string, radius int, phase string, view View) string {
	return fmt.Sprintf("%s | %s r=%d | %s | view %s", tool, mode, radius, phase, view)
}
