//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"image"
	"os"
	"sync"
)

var (
	initOnce       sync.Once
	initErr        error
	errNoDisplay   = errors.New("clipboard needs DISPLAY or WAYLAND_DISPLAY")
	errCGODisabled = errors.New("clipboard support was built without cgo")
)

// ensureInit reports why the clipboard is unavailable. With a display the
// missing piece is cgo; without one it is the display.
func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
			initErr = errCGODisabled
			return
		}
		initErr = errNoDisplay
	})
	return initErr
}

// WriteImage always fails in a cgo-free build; masks and results must be
// saved to disk instead.
func WriteImage(image.Image) error {
	return ensureInit()
}

// ReadImage always fails in a cgo-free build; load the source photo from a
// file instead.
func ReadImage() (image.Image, error) {
	return nil, ensureInit()
}
