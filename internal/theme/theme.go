// Package theme holds the paint window colours.
package theme

import (
	"image/color"
	"sort"
)

// Theme defines the color palette for the paint window.
type Theme struct {
	Name string

	// Backdrop fills the window around the canvas.
	Backdrop color.RGBA

	StatusBackground   color.RGBA
	StatusText         color.RGBA
	ShortcutBackground color.RGBA
	ShortcutText       color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Brush cursor ring and its outline.
	Cursor        color.RGBA
	CursorOutline color.RGBA
}

// Default returns the built-in theme.
func Default() *Theme {
	return &Theme{
		Name:               "Default",
		Backdrop:           color.RGBA{48, 48, 48, 255},
		StatusBackground:   color.RGBA{225, 225, 225, 255},
		StatusText:         color.RGBA{0, 0, 0, 255},
		ShortcutBackground: color.RGBA{200, 200, 200, 255},
		ShortcutText:       color.RGBA{40, 40, 40, 255},
		CheckerLight:       color.RGBA{200, 200, 200, 255},
		CheckerDark:        color.RGBA{160, 160, 160, 255},
		Cursor:             color.RGBA{255, 255, 255, 255},
		CursorOutline:      color.RGBA{0, 0, 0, 255},
	}
}

// Light is a pale variant for bright rooms.
func Light() *Theme {
	t := Default()
	t.Name = "Light"
	t.Backdrop = color.RGBA{235, 235, 235, 255}
	t.CheckerLight = color.RGBA{250, 250, 250, 255}
	t.CheckerDark = color.RGBA{215, 215, 215, 255}
	t.Cursor = color.RGBA{0, 0, 0, 255}
	t.CursorOutline = color.RGBA{255, 255, 255, 255}
	return t
}

// HighContrast uses pure black and white with a yellow cursor.
func HighContrast() *Theme {
	return &Theme{
		Name:               "HighContrast",
		Backdrop:           color.RGBA{0, 0, 0, 255},
		StatusBackground:   color.RGBA{0, 0, 0, 255},
		StatusText:         color.RGBA{255, 255, 255, 255},
		ShortcutBackground: color.RGBA{0, 0, 0, 255},
		ShortcutText:       color.RGBA{255, 255, 0, 255},
		CheckerLight:       color.RGBA{255, 255, 255, 255},
		CheckerDark:        color.RGBA{0, 0, 0, 255},
		Cursor:             color.RGBA{255, 255, 0, 255},
		CursorOutline:      color.RGBA{0, 0, 0, 255},
	}
}

var builtin = map[string]func() *Theme{
	"default":       Default,
	"dark":          Default,
	"light":         Light,
	"high_contrast": HighContrast,
}

// Builtin returns the names of the themes compiled into the binary.
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
