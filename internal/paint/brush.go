package paint

import (
	"fmt"
	"image/color"
	"strings"
)

// Mode selects what a brush stamp does to the surface.
type Mode int

const (
	// ModeMark composites the translucent overlay onto the surface.
	ModeMark Mode = iota
	// ModeUnmark restores the source pixels under the brush.
	ModeUnmark
)

func (m Mode) String() string {
	switch m {
	case ModeMark:
		return "mark"
	case ModeUnmark:
		return "unmark"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "mark"/"unmark" and the UI aliases "paint"/"erase".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mark", "paint", "draw":
		return ModeMark, nil
	case "unmark", "erase", "restore":
		return ModeUnmark, nil
	}
	return ModeMark, fmt.Errorf("unknown brush mode %q", s)
}

// OverlayColor is the mark colour: red at 70% opacity, non-premultiplied.
var OverlayColor = color.NRGBA{R: 255, G: 0, B: 0, A: 179}

const (
	DefaultMinRadius = 5
	DefaultMaxRadius = 50
	DefaultRadius    = 20
)

// Brush is the current tool selection.
type Brush struct {
	Radius int
	Mode   Mode
}

// RadiusRange bounds the brush radius.
type RadiusRange struct {
	Min, Max int
}

// DefaultRadiusRange returns the 5–50 range used by the slider.
func DefaultRadiusRange() RadiusRange {
	return RadiusRange{Min: DefaultMinRadius, Max: DefaultMaxRadius}
}

// Clamp limits r to the range. A degenerate range falls back to the default.
func (rr RadiusRange) Clamp(r int) int {
	if rr.Min < 1 || rr.Max < rr.Min {
		rr = DefaultRadiusRange()
	}
	if r < rr.Min {
		return rr.Min
	}
	if r > rr.Max {
		return rr.Max
	}
	return r
}
