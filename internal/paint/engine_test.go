package paint

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/maskstudio/internal/mask"
	"github.com/example/maskstudio/internal/surface"
)

func grey(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{v, v, v, 255}), image.Point{}, draw.Src)
	return img
}

func readySurface(t *testing.T, size int, src image.Image) *surface.Surface {
	t.Helper()
	s := surface.New(size)
	require.NoError(t, s.Initialize(src))
	return s
}

func TestStrokeBeforeInitialize(t *testing.T) {
	e := New(surface.New(64))
	assert.ErrorIs(t, e.BeginStroke(Pt(10, 10)), surface.ErrNotReady)
	assert.ErrorIs(t, e.ContinueStroke(Pt(10, 10)), surface.ErrNotReady)
	assert.ErrorIs(t, e.Clear(), surface.ErrNotReady)
	assert.False(t, e.Active())
}

func TestContinueWithoutBeginIsNoop(t *testing.T) {
	s := readySurface(t, 64, grey(32, 32, 90))
	before, err := s.Snapshot()
	require.NoError(t, err)

	e := New(s)
	require.NoError(t, e.ContinueStroke(Pt(32, 32)))
	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before.Pix, after.Pix)
}

func TestMarkThenUnmarkRestoresSource(t *testing.T) {
	s := readySurface(t, 128, grey(50, 70, 120))
	base, err := s.Snapshot()
	require.NoError(t, err)

	e := New(s)
	e.SetRadius(10)
	for i := 0; i < 2; i++ {
		require.NoError(t, e.BeginStroke(Pt(60, 60)))
		require.NoError(t, e.ContinueStroke(Pt(64, 62)))
		e.EndStroke()
	}
	painted, err := s.Snapshot()
	require.NoError(t, err)
	require.NotEqual(t, base.Pix, painted.Pix)

	e.SetMode(ModeUnmark)
	require.NoError(t, e.BeginStroke(Pt(60, 60)))
	require.NoError(t, e.ContinueStroke(Pt(64, 62)))
	e.EndStroke()

	restored, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, base.Pix, restored.Pix)
}

func TestOverlappingMarksAccumulate(t *testing.T) {
	s := readySurface(t, 64, grey(64, 64, 100))
	e := New(s)
	e.SetRadius(5)
	img, err := s.Image()
	require.NoError(t, err)

	require.NoError(t, e.BeginStroke(Pt(32, 32)))
	once := img.RGBAAt(32, 32)
	require.NoError(t, e.ContinueStroke(Pt(32, 32)))
	twice := img.RGBAAt(32, 32)
	e.EndStroke()

	assert.Greater(t, once.R, uint8(100))
	assert.Greater(t, twice.R, once.R)
	assert.Less(t, twice.G, once.G)
	assert.Equal(t, uint8(255), twice.A)
}

func TestPixelsOutsideDiscUnchanged(t *testing.T) {
	s := readySurface(t, 64, grey(64, 64, 80))
	base, err := s.Snapshot()
	require.NoError(t, err)

	e := New(s)
	e.SetRadius(5)
	require.NoError(t, e.BeginStroke(Pt(20, 20)))
	e.EndStroke()

	img, err := s.Image()
	require.NoError(t, err)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			dx, dy := x-20, y-20
			if dx*dx+dy*dy <= 25 {
				continue
			}
			if img.RGBAAt(x, y) != base.RGBAAt(x, y) {
				t.Fatalf("pixel %d,%d changed outside the brush", x, y)
			}
		}
	}
}

func TestStampClipsAtEdges(t *testing.T) {
	s := readySurface(t, 32, grey(32, 32, 60))
	e := New(s)
	e.SetRadius(10)
	require.NoError(t, e.BeginStroke(Pt(0, 0)))
	require.NoError(t, e.ContinueStroke(Pt(-100, -100)))
	e.EndStroke()
	img, err := s.Image()
	require.NoError(t, err)
	assert.Greater(t, img.RGBAAt(0, 0).R, uint8(60))
}

func TestClearRestoresInitializedState(t *testing.T) {
	s := readySurface(t, 64, grey(10, 10, 140))
	base, err := s.Snapshot()
	require.NoError(t, err)
	e := New(s)
	require.NoError(t, e.BeginStroke(Pt(30, 30)))
	require.NoError(t, e.Clear())
	assert.False(t, e.Active())
	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, base.Pix, after.Pix)
}

func TestRadiusClamp(t *testing.T) {
	e := New(surface.New(16))
	assert.Equal(t, DefaultRadius, e.Brush().Radius)
	assert.Equal(t, 5, e.SetRadius(1))
	assert.Equal(t, 50, e.SetRadius(500))
	assert.Equal(t, 33, e.SetRadius(33))

	e.SetRadiusRange(RadiusRange{Min: 2, Max: 10})
	assert.Equal(t, 10, e.Brush().Radius)
	assert.Equal(t, 5, RadiusRange{Min: 0, Max: 0}.Clamp(3))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Erase")
	require.NoError(t, err)
	assert.Equal(t, ModeUnmark, m)
	m, err = ParseMode("mark")
	require.NoError(t, err)
	assert.Equal(t, ModeMark, m)
	_, err = ParseMode("spray")
	assert.Error(t, err)
}

func TestViewportMidpoint(t *testing.T) {
	for _, d := range [][2]float64{{500, 500}, {300, 700}, {1024, 1024}, {2048, 1536}} {
		v := Viewport{DisplayW: d[0], DisplayH: d[1], SurfaceW: 512, SurfaceH: 512}
		assert.Equal(t, image.Pt(256, 256), v.ToSurface(Pt(d[0]/2, d[1]/2)), "display %v", d)
	}
}

func TestEngineMapsDisplayCoordinates(t *testing.T) {
	s := readySurface(t, 512, grey(40, 40, 90))
	e := New(s)
	e.SetDisplaySize(500, 250)
	require.NoError(t, e.BeginStroke(Pt(250, 125)))
	e.EndStroke()
	assert.Equal(t, image.Pt(256, 256), e.LastStamp())
}

func TestViewportClampsExtremeCoordinates(t *testing.T) {
	v := Viewport{DisplayW: 500, DisplayH: 500, SurfaceW: 512, SurfaceH: 512}
	assert.Equal(t, image.Pt(maxCoord, -maxCoord), v.ToSurface(Pt(1e30, -1e30)))
	assert.Equal(t, image.Pt(-maxCoord, maxCoord), v.ToSurface(Pt(math.NaN(), math.Inf(1))))

	tiny := Viewport{DisplayW: 1e-300, DisplayH: math.Inf(1), SurfaceW: 512, SurfaceH: 512}
	assert.Equal(t, image.Pt(maxCoord, 3), tiny.ToSurface(Pt(1, 3.5)))
}

func TestFarOffSurfaceStampsLeavePixelsAlone(t *testing.T) {
	s := readySurface(t, 64, grey(32, 32, 90))
	before, err := s.Snapshot()
	require.NoError(t, err)

	e := New(s)
	e.SetRadius(10)
	points := []Point{
		Pt(1e30, 1e30),
		Pt(-1e30, 1e30),
		Pt(1e300, -1e300),
		Pt(math.NaN(), 32),
		Pt(32, math.Inf(1)),
		Pt(math.Inf(-1), math.Inf(-1)),
	}
	for _, p := range points {
		require.NoError(t, e.BeginStroke(p), "point %v", p)
		require.NoError(t, e.ContinueStroke(p), "point %v", p)
		e.EndStroke()
	}
	for _, mode := range []Mode{ModeUnmark, ModeMark} {
		e.SetMode(mode)
		require.NoError(t, e.BeginStroke(Pt(1e30, -1e30)))
		e.EndStroke()
	}

	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before.Pix, after.Pix)
}

func TestNonFiniteDisplaySizeMapsOneToOne(t *testing.T) {
	s := readySurface(t, 64, grey(32, 32, 90))
	e := New(s)
	e.SetDisplaySize(math.NaN(), math.Inf(1))
	v := e.Viewport()
	assert.Equal(t, 64.0, v.DisplayW)
	assert.Equal(t, 64.0, v.DisplayH)

	require.NoError(t, e.BeginStroke(Pt(20, 30)))
	e.EndStroke()
	assert.Equal(t, image.Pt(20, 30), e.LastStamp())
}

func TestHappyPathDiscMask(t *testing.T) {
	s := readySurface(t, 1024, grey(300, 400, 100))
	require.Equal(t, image.Rect(0, 0, 1024, 1024), s.Bounds())

	e := New(s)
	e.SetRadius(20)
	require.NoError(t, e.BeginStroke(Pt(512, 512)))
	e.EndStroke()

	img, err := s.Image()
	require.NoError(t, err)
	m := mask.Extract(img)
	require.Equal(t, image.Rect(0, 0, 1024, 1024), m.Bounds())

	for y := 0; y < 1024; y++ {
		for x := 0; x < 1024; x++ {
			dx, dy := x-512, y-512
			want := uint8(0)
			if dx*dx+dy*dy <= 400 {
				want = 255
			}
			c := m.RGBAAt(x, y)
			if c.R != want || c.G != want || c.B != want || c.A != 255 {
				t.Fatalf("mask at %d,%d = %v, want %d", x, y, c, want)
			}
		}
	}
}
