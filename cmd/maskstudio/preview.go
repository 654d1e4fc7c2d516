package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/maskstudio/internal/backend"
	"github.com/example/maskstudio/internal/render"
)

type previewCmd struct {
	paintFlags
	output  string
	style   string
	opacity float64
	feather int
	*root
	fs *flag.FlagSet
}

func (p *previewCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func parsePreviewCmd(args []string, r *root) (*previewCmd, error) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	c := &previewCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	def := render.DefaultPreviewOptions()
	c.register(fs, string(backend.OpInpaint))
	fs.StringVar(&c.output, "output", "preview.png", "output file path")
	fs.StringVar(&c.style, "style", "overlay", "preview style: overlay, side or mask")
	fs.Float64Var(&c.opacity, "opacity", def.Opacity, "tint opacity between 0 and 1")
	fs.IntVar(&c.feather, "feather", 0, "soften the tint edge by this many pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && !c.fromClipboard {
		return nil, &UsageError{of: c}
	}
	if c.opacity < 0 || c.opacity > 1 {
		return nil, fmt.Errorf("opacity must be between 0 and 1")
	}
	if err := c.parseSteps(fs.Args()); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *previewCmd) Run() error {
	style, err := render.ParseStyle(p.style)
	if err != nil {
		return err
	}
	op, err := backend.ParseOperation(p.tool)
	if err != nil {
		return err
	}
	s, err := p.paint(p.root, op)
	if err != nil {
		return err
	}
	m, err := s.PreviewMask()
	if err != nil {
		return err
	}
	opts := render.DefaultPreviewOptions()
	opts.Style = style
	opts.Opacity = p.opacity
	opts.Feather = p.feather
	img := render.Preview(s.Source(), m, opts)
	saved, err := saveImage(img, resolveOutput(p.output, p.cfg().SaveDir))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	p.notifySave(saved)
	return nil
}
