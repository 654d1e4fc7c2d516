package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/example/maskstudio/internal/clipboard"
)

// loadImage reads path, honouring EXIF orientation, or the clipboard image
// when fromClipboard is set.
func loadImage(path string, fromClipboard bool) (image.Image, error) {
	if fromClipboard {
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	}
	if path == "" {
		return nil, fmt.Errorf("input file is required")
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return img, nil
}

// resolveOutput places relative names under dir when dir is set.
func resolveOutput(name, dir string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// saveImage writes img, creating parent directories, and returns the
// absolute path when it can be determined.
func saveImage(img image.Image, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}

func (r *root) copyImage(img image.Image, detail string) error {
	if err := clipboard.WriteImage(img); err != nil {
		return fmt.Errorf("copy PNG to clipboard: %w", err)
	}
	fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
	r.notifyCopy(detail)
	return nil
}
