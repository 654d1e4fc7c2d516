package appstate

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/example/maskstudio/internal/paint"
	"github.com/example/maskstudio/internal/session"
	"github.com/example/maskstudio/internal/theme"
)

func TestCanvasRectIsSquareAndCentred(t *testing.T) {
	for _, sz := range []image.Point{{800, 600}, {600, 900}, {1200, 1200}} {
		r := canvasRect(sz.X, sz.Y)
		if r.Dx() != r.Dy() {
			t.Fatalf("%v: canvas %v is not square", sz, r)
		}
		if r.Max.Y > sz.Y-statusHeight-shortcutHeight {
			t.Fatalf("%v: canvas %v overlaps the status bar", sz, r)
		}
		if left, right := r.Min.X, sz.X-r.Max.X; left-right > 1 || right-left > 1 {
			t.Fatalf("%v: canvas %v not centred", sz, r)
		}
	}
	if !canvasRect(10, 10).Empty() {
		t.Fatal("tiny window should have no canvas")
	}
}

func TestInitialWindowFitsCanvas(t *testing.T) {
	sz := initialWindowSize(512)
	if got := canvasRect(sz.X, sz.Y).Dx(); got != 512 {
		t.Fatalf("canvas side %d, want 512", got)
	}
	sz = initialWindowSize(1024)
	if got := canvasRect(sz.X, sz.Y).Dx(); got != maxInitialSide {
		t.Fatalf("canvas side %d, want %d", got, maxInitialSide)
	}
}

func TestFitRectKeepsAspect(t *testing.T) {
	r := fitRect(image.Pt(200, 100), image.Rect(0, 0, 100, 100))
	if r != image.Rect(0, 25, 100, 75) {
		t.Fatalf("got %v", r)
	}
	if !fitRect(image.Point{}, image.Rect(0, 0, 5, 5)).Empty() {
		t.Fatal("empty size should give empty rect")
	}
}

func TestComposeFrameDrawsContentAndStatus(t *testing.T) {
	w, h := 300, 300
	content := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range content.Pix {
		content.Pix[i] = 255
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	composeFrame(dst, frameState{width: w, height: h, content: content, stretch: true, status: "inpaint | mark r=20"})

	c := canvasRect(w, h)
	mid := image.Pt((c.Min.X+c.Max.X)/2, (c.Min.Y+c.Max.Y)/2)
	if got := dst.RGBAAt(mid.X, mid.Y); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("canvas centre = %+v", got)
	}
	if got := dst.RGBAAt(1, 1); got != theme.Default().Backdrop {
		t.Fatalf("backdrop = %+v", got)
	}
	bar := h - shortcutHeight - statusHeight + 1
	if got := dst.RGBAAt(w-1, bar); got != theme.Default().StatusBackground {
		t.Fatalf("status bar = %+v", got)
	}
}

func TestComposeFrameBrushCursor(t *testing.T) {
	w, h := 300, 300
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	c := canvasRect(w, h)
	cur := image.Pt(c.Min.X+50, c.Min.Y+50)
	composeFrame(dst, frameState{width: w, height: h, cursor: cur, cursorIn: true, cursorRadius: 10})
	if got := dst.RGBAAt(cur.X+10, cur.Y); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("cursor ring missing: %+v", got)
	}
}

func TestComposeFrameUsesTheme(t *testing.T) {
	w, h := 200, 200
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	hc := theme.HighContrast()
	composeFrame(dst, frameState{width: w, height: h, theme: hc})
	if got := dst.RGBAAt(0, 0); got != hc.Backdrop {
		t.Fatalf("backdrop = %+v", got)
	}
	c := canvasRect(w, h)
	if got := dst.RGBAAt(c.Min.X, c.Min.Y); got != hc.CheckerLight {
		t.Fatalf("checker = %+v", got)
	}
}

func TestStatusLine(t *testing.T) {
	s := statusLine("erase", "unmark", 15, "idle", ViewMask)
	for _, want := range []string{"erase", "unmark r=15", "idle", "view mask"} {
		if !strings.Contains(s, want) {
			t.Fatalf("%q missing %q", s, want)
		}
	}
}

func TestApplyBrushActions(t *testing.T) {
	a := New()
	a.apply(actionUnmark)
	a.apply(actionGrow)
	b := a.Session.Brush()
	if b.Mode != paint.ModeUnmark || b.Radius != paint.DefaultRadius+radiusStep {
		t.Fatalf("brush %+v", b)
	}
	for i := 0; i < 20; i++ {
		a.apply(actionShrink)
	}
	if got := a.Session.Brush().Radius; got != paint.DefaultMinRadius {
		t.Fatalf("radius %d, want %d", got, paint.DefaultMinRadius)
	}
}

func TestApplyToggleViews(t *testing.T) {
	s := session.New()
	if err := s.Load(image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	a := New(WithSession(s))

	a.apply(actionToggleMask)
	if a.currentView() != ViewMask || s.LastMask() == nil {
		t.Fatal("mask view should show a fresh mask")
	}
	a.apply(actionToggleMask)
	if a.currentView() != ViewSurface {
		t.Fatal("second toggle should return to the surface")
	}
	a.apply(actionToggleResult)
	if a.currentView() != ViewSurface {
		t.Fatal("no result yet, view should stay on the surface")
	}

	st := a.frame(400, 400, image.Point{}, false)
	if st.content == nil || !st.stretch {
		t.Fatal("surface frame should carry the stretched surface")
	}
	if !strings.Contains(st.status, "inpaint") {
		t.Fatalf("status %q", st.status)
	}
}

func TestApplyWithoutImage(t *testing.T) {
	a := New()
	for _, act := range []action{actionToggleMask, actionClear, actionSubmit} {
		a.apply(act)
		if a.currentView() != ViewSurface {
			t.Fatalf("action %v moved the view to %v", act, a.currentView())
		}
		a.mu.Lock()
		msg := a.message
		a.mu.Unlock()
		if msg != msgNoImage {
			t.Fatalf("action %v: message %q", act, msg)
		}
	}
	if a.Session.Submitting() {
		t.Fatal("submit should not start without an image")
	}
}

func TestToggleMaskEndsStroke(t *testing.T) {
	s := session.New()
	if err := s.Load(image.NewRGBA(image.Rect(0, 0, 16, 16))); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginStroke(paint.Pt(100, 100)); err != nil {
		t.Fatal(err)
	}
	a := New(WithSession(s))
	a.apply(actionToggleMask)
	if a.currentView() != ViewMask {
		t.Fatalf("view %v, want mask", a.currentView())
	}
	if s.Phase() != session.PhaseIdle {
		t.Fatalf("phase %v, want idle", s.Phase())
	}
}

func TestMaskViewTintsSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 90, 110, 70, 255
	}
	s := session.New()
	if err := s.Load(src); err != nil {
		t.Fatal(err)
	}
	if err := s.BeginStroke(paint.Pt(576, 576)); err != nil {
		t.Fatal(err)
	}
	s.EndStroke()

	a := New(WithSession(s))
	a.apply(actionToggleMask)
	st := a.frame(400, 400, image.Point{}, false)
	if st.content == nil || st.stretch {
		t.Fatal("mask view should fit the tinted source")
	}
	if got := st.content.Bounds(); got != image.Rect(0, 0, 8, 8) {
		t.Fatalf("mask view bounds %v, want the source size", got)
	}
	rgba, ok := st.content.(*image.RGBA)
	if !ok {
		t.Fatalf("content %T", st.content)
	}
	if c := rgba.RGBAAt(4, 4); c.R <= c.G || c.R <= 90 {
		t.Fatalf("marked pixel %+v not tinted red", c)
	}
	if c := rgba.RGBAAt(0, 0); c != (color.RGBA{90, 110, 70, 255}) {
		t.Fatalf("unmarked pixel %+v changed", c)
	}
}
