package surface

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestInitializeStretchesToFixedResolution(t *testing.T) {
	for _, dims := range [][2]int{{300, 400}, {1920, 1080}, {1, 1}, {1024, 1024}, {37, 2000}} {
		s := New(1024)
		require.NoError(t, s.Initialize(solid(dims[0], dims[1], color.RGBA{10, 20, 30, 255})))
		img, err := s.Image()
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 1024, 1024), img.Bounds(), "source %dx%d", dims[0], dims[1])
		assert.Equal(t, color.RGBA{10, 20, 30, 255}, img.RGBAAt(0, 0))
		assert.Equal(t, color.RGBA{10, 20, 30, 255}, img.RGBAAt(1023, 1023))
	}
}

func TestOperationsBeforeInitialize(t *testing.T) {
	s := New(512)
	assert.False(t, s.Ready())
	_, err := s.Image()
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = s.Snapshot()
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, s.Reset(), ErrNotReady)
	s.Restore(1, 1)
}

func TestInitializeRejectsEmptySource(t *testing.T) {
	s := New(64)
	assert.Error(t, s.Initialize(nil))
	assert.Error(t, s.Initialize(image.NewRGBA(image.Rectangle{})))
	assert.False(t, s.Ready())
}

func TestReinitializeDropsPaint(t *testing.T) {
	s := New(16)
	require.NoError(t, s.Initialize(solid(4, 4, color.RGBA{0, 0, 255, 255})))
	img, _ := s.Image()
	img.SetRGBA(3, 3, color.RGBA{255, 0, 0, 255})

	require.NoError(t, s.Initialize(solid(8, 2, color.RGBA{0, 255, 0, 255})))
	img, _ = s.Image()
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(3, 3))
}

func TestResetAndRestore(t *testing.T) {
	s := New(8)
	require.NoError(t, s.Initialize(solid(8, 8, color.RGBA{40, 40, 40, 255})))
	img, _ := s.Image()
	img.SetRGBA(2, 2, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(5, 5, color.RGBA{255, 0, 0, 255})

	s.Restore(2, 2)
	s.Restore(-1, 100)
	assert.Equal(t, color.RGBA{40, 40, 40, 255}, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(5, 5))

	require.NoError(t, s.Reset())
	assert.Equal(t, color.RGBA{40, 40, 40, 255}, img.RGBAAt(5, 5))
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := New(4)
	require.NoError(t, s.Initialize(solid(4, 4, color.White)))
	snap, err := s.Snapshot()
	require.NoError(t, err)
	img, _ := s.Image()
	img.SetRGBA(0, 0, color.RGBA{1, 2, 3, 255})
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, snap.RGBAAt(0, 0))
}
