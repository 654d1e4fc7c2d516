package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/example/maskstudio/internal/backend"
	"github.com/example/maskstudio/internal/session"
)

// submitCmd sends one inpaint, erase or generate request and saves the result.
type submitCmd struct {
	paintFlags
	op          backend.Operation
	maskFile    string
	prompt      string
	negative    string
	steps       int
	guidance    float64
	strength    float64
	width       int
	height      int
	seed        int64
	output      string
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func (s *submitCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSubmitCmd(name string, args []string, r *root) (*submitCmd, error) {
	op, err := backend.ParseOperation(name)
	if err != nil {
		return nil, err
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	c := &submitCmd{root: r, fs: fs, op: op}
	if r != nil {
		c.root = r.subcommand(name)
	}
	fs.Usage = usageFunc(c)
	if op.NeedsImage() {
		c.register(fs, "")
		fs.StringVar(&c.maskFile, "mask", "", "mask PNG to send instead of painting one from steps")
		fs.Float64Var(&c.strength, "strength", 0, "how far the marked region may move from the original (0-1]")
	} else {
		fs.IntVar(&c.width, "width", 0, "image width in pixels (defaults to defaults.width)")
		fs.IntVar(&c.height, "height", 0, "image height in pixels (defaults to defaults.height)")
	}
	promptUsage := "what to paint into the marked region"
	switch op {
	case backend.OpErase:
		promptUsage = "optional description of the background behind the object"
	case backend.OpGenerate:
		promptUsage = "what to generate"
	}
	fs.StringVar(&c.prompt, "prompt", "", promptUsage)
	fs.StringVar(&c.negative, "negative", "", "negative prompt (defaults to defaults.negative_prompt)")
	fs.IntVar(&c.steps, "steps", 0, "number of inference steps (defaults to defaults.steps)")
	fs.Float64Var(&c.guidance, "guidance", 0, "guidance scale (defaults to defaults.guidance_scale)")
	fs.Int64Var(&c.seed, "seed", -1, "random seed, negative for a random one")
	fs.StringVar(&c.output, "output", "", "output file path (defaults to <tool>-<id>.png)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if op.PromptRequired() && c.prompt == "" {
		return nil, &UsageError{of: c}
	}
	if !op.NeedsImage() {
		if fs.NArg() > 0 {
			return nil, fmt.Errorf("%s takes no paint steps", name)
		}
		return c, nil
	}
	if c.file == "" && !c.fromClipboard {
		return nil, &UsageError{of: c}
	}
	if c.maskFile != "" && fs.NArg() > 0 {
		return nil, fmt.Errorf("-mask cannot be combined with paint steps")
	}
	if c.maskFile == "" && fs.NArg() == 0 {
		return nil, fmt.Errorf("%s needs a -mask file or paint steps", name)
	}
	if err := c.parseSteps(fs.Args()); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *submitCmd) prompts() session.Prompt {
	p := session.Prompt{
		Text:     s.prompt,
		Negative: s.negative,
		Params: backend.Params{
			Steps:         s.steps,
			GuidanceScale: s.guidance,
			Strength:      s.strength,
			Width:         s.width,
			Height:        s.height,
		},
	}
	if s.seed >= 0 {
		seed := s.seed
		p.Params.Seed = &seed
	}
	return p
}

func (s *submitCmd) Run() error {
	ctx := context.Background()
	var (
		res *backend.Result
		err error
	)
	if s.maskFile != "" {
		res, err = s.submitWithMask(ctx)
	} else {
		res, err = s.submitPainted(ctx)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", s.op, err)
	}
	s.notifyComplete(s.op.String(), res.Image)

	name := s.output
	if name == "" {
		name = fmt.Sprintf("%s-%s.png", res.Operation, res.ID)
	}
	saved, err := saveImage(res.Image, resolveOutput(name, s.cfg().SaveDir))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if res.GPUMemory != nil {
		fmt.Fprintf(os.Stderr, "gpu memory %.2f/%.2f GB (%.0f%%)\n",
			res.GPUMemory.CachedGB, res.GPUMemory.TotalGB, res.GPUMemory.UtilizationPercent)
	}
	s.notifySave(saved)
	if s.toClipboard {
		return s.copyImage(res.Image, "result")
	}
	return nil
}

func (s *submitCmd) submitPainted(ctx context.Context) (*backend.Result, error) {
	var sess *session.Session
	if s.op.NeedsImage() {
		var err error
		if sess, err = s.paint(s.root, s.op); err != nil {
			return nil, err
		}
	} else {
		sess = s.newSession(s.op)
	}
	return sess.Submit(ctx, s.prompts())
}

func (s *submitCmd) submitWithMask(ctx context.Context) (*backend.Result, error) {
	img, err := loadImage(s.file, s.fromClipboard)
	if err != nil {
		return nil, err
	}
	m, err := loadImage(s.maskFile, false)
	if err != nil {
		return nil, err
	}
	negative, defaults := s.defaultParams()
	p := s.prompts()
	req := backend.Request{
		Operation:      s.op,
		Image:          img,
		Mask:           m,
		Prompt:         p.Text,
		NegativePrompt: p.Negative,
		Params:         p.Params.WithDefaults(defaults).WithDefaults(backend.DefaultParams(s.op)),
	}
	if req.NegativePrompt == "" {
		req.NegativePrompt = negative
	}
	return s.client().Submit(ctx, req)
}
