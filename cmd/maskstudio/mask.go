package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/maskstudio/internal/backend"
	"github.com/example/maskstudio/internal/mask"
	"github.com/example/maskstudio/internal/session"
)

// paintFlags are shared by every command that paints a mask from a script.
type paintFlags struct {
	file          string
	fromClipboard bool
	tool          string
	radius        int
	steps         []scriptStep
}

func (p *paintFlags) register(fs *flag.FlagSet, defaultTool string) {
	fs.StringVar(&p.file, "file", "", "input image file")
	fs.BoolVar(&p.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&p.fromClipboard, "from-clip", false, "read the input image from the clipboard (alias)")
	if defaultTool != "" {
		fs.StringVar(&p.tool, "tool", defaultTool, "tool whose surface size is used: inpaint, erase or generate")
	}
	fs.IntVar(&p.radius, "radius", 0, "initial brush radius (defaults to brush.default)")
}

func (p *paintFlags) parseSteps(args []string) error {
	steps, err := parseScript(args)
	if err != nil {
		return err
	}
	p.steps = steps
	return nil
}

// paint loads the input into a new session for op and runs the script.
func (p *paintFlags) paint(r *root, op backend.Operation) (*session.Session, error) {
	img, err := loadImage(p.file, p.fromClipboard)
	if err != nil {
		return nil, err
	}
	s := r.newSession(op)
	if p.radius > 0 {
		s.SetBrushRadius(p.radius)
	}
	if err := s.Load(img); err != nil {
		return nil, err
	}
	if err := runScript(s, p.steps); err != nil {
		return nil, fmt.Errorf("paint: %w", err)
	}
	return s, nil
}

type maskCmd struct {
	paintFlags
	output      string
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func (m *maskCmd) FlagSet() *flag.FlagSet {
	return m.fs
}

func parseMaskCmd(args []string, r *root) (*maskCmd, error) {
	fs := flag.NewFlagSet("mask", flag.ExitOnError)
	m := &maskCmd{root: r, fs: fs}
	fs.Usage = usageFunc(m)
	m.register(fs, string(backend.OpInpaint))
	fs.StringVar(&m.output, "output", "mask.png", "output file path")
	fs.BoolVar(&m.toClipboard, "to-clipboard", false, "copy the mask to the clipboard")
	fs.BoolVar(&m.toClipboard, "to-clip", false, "copy the mask to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if m.file == "" && !m.fromClipboard {
		return nil, &UsageError{of: m}
	}
	if err := m.parseSteps(fs.Args()); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *maskCmd) Run() error {
	op, err := backend.ParseOperation(m.tool)
	if err != nil {
		return err
	}
	s, err := m.paint(m.root, op)
	if err != nil {
		return err
	}
	out, err := s.PreviewMask()
	if err != nil {
		return err
	}
	saved, err := saveImage(out, resolveOutput(m.output, m.cfg().SaveDir))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved %s (%dx%d, %.1f%% marked)\n", saved, out.Bounds().Dx(), out.Bounds().Dy(), mask.Coverage(out)*100)
	m.notifySave(saved)
	if m.toClipboard {
		return m.copyImage(out, "mask")
	}
	return nil
}
