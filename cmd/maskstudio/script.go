package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/maskstudio/internal/paint"
	"github.com/example/maskstudio/internal/session"
)

type stepKind int

const (
	stepStroke stepKind = iota
	stepRadius
	stepClear
)

// scriptStep is one paint script instruction.
type scriptStep struct {
	kind   stepKind
	mode   paint.Mode
	points []paint.Point
	radius int
}

// parsePoint reads "x,y".
func parsePoint(s string) (paint.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return paint.Point{}, fmt.Errorf("invalid point %q, want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return paint.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return paint.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	p := paint.Pt(x, y)
	if !p.Finite() {
		return paint.Point{}, fmt.Errorf("invalid point %q: coordinates must be finite", s)
	}
	return p, nil
}

// parseScript turns positional arguments into paint steps. A mark or unmark
// keyword starts a stroke through every point that follows it.
func parseScript(args []string) ([]scriptStep, error) {
	var steps []scriptStep
	for i := 0; i < len(args); i++ {
		word := strings.ToLower(args[i])
		switch word {
		case "clear":
			steps = append(steps, scriptStep{kind: stepClear})
		case "radius":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("radius requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return nil, fmt.Errorf("invalid radius %q", args[i+1])
			}
			i++
			steps = append(steps, scriptStep{kind: stepRadius, radius: n})
		default:
			mode, err := paint.ParseMode(word)
			if err != nil {
				return nil, fmt.Errorf("unknown step %q", args[i])
			}
			step := scriptStep{kind: stepStroke, mode: mode}
			for i+1 < len(args) && strings.Contains(args[i+1], ",") {
				p, err := parsePoint(args[i+1])
				if err != nil {
					return nil, err
				}
				step.points = append(step.points, p)
				i++
			}
			if len(step.points) == 0 {
				return nil, fmt.Errorf("%s requires at least one x,y point", word)
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}

// runScript applies steps to s. Points are surface pixels, so the display
// size is pinned to the surface size first.
func runScript(s *session.Session, steps []scriptStep) error {
	res := float64(s.Tool().Resolution())
	s.SetDisplaySize(res, res)
	for _, st := range steps {
		switch st.kind {
		case stepClear:
			if err := s.Clear(); err != nil {
				return err
			}
		case stepRadius:
			s.SetBrushRadius(st.radius)
		case stepStroke:
			s.SetMode(st.mode)
			if err := s.BeginStroke(st.points[0]); err != nil {
				return err
			}
			for _, p := range st.points[1:] {
				if err := s.ContinueStroke(p); err != nil {
					s.EndStroke()
					return err
				}
			}
			s.EndStroke()
		}
	}
	return nil
}
