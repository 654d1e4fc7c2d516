//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard images are not supported on this platform")

// WriteImage reports that masks and results cannot be copied here.
func WriteImage(image.Image) error { return errUnsupported }

// ReadImage reports that source photos cannot be pasted here.
func ReadImage() (image.Image, error) { return nil, errUnsupported }
