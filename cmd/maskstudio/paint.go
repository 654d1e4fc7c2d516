package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/maskstudio/internal/appstate"
	"github.com/example/maskstudio/internal/backend"
	"github.com/example/maskstudio/internal/session"
	"github.com/example/maskstudio/internal/theme"
)

type paintCmd struct {
	paintFlags
	output   string
	prompt   string
	negative string
	*root
	fs *flag.FlagSet
}

func (p *paintCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func parsePaintCmd(args []string, r *root) (*paintCmd, error) {
	fs := flag.NewFlagSet("paint", flag.ExitOnError)
	c := &paintCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	c.register(fs, string(backend.OpInpaint))
	fs.StringVar(&c.output, "output", "", "where Ctrl+S saves the result (defaults to <tool>-<id>.png)")
	fs.StringVar(&c.prompt, "prompt", "", "prompt submitted with Enter")
	fs.StringVar(&c.negative, "negative", "", "negative prompt (defaults to defaults.negative_prompt)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && !c.fromClipboard {
		return nil, &UsageError{of: c}
	}
	if err := c.parseSteps(fs.Args()); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *paintCmd) Run() error {
	op, err := backend.ParseOperation(p.tool)
	if err != nil {
		return err
	}
	s, err := p.paint(p.root, op)
	if err != nil {
		return err
	}
	th, err := theme.NewLoader().Load(p.themeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", p.themeName, err)
		th = theme.Default()
	}
	out := p.output
	if out != "" {
		out = resolveOutput(out, p.cfg().SaveDir)
	}
	st := appstate.New(
		appstate.WithSession(s),
		appstate.WithOutput(out),
		appstate.WithPrompt(session.Prompt{Text: p.prompt, Negative: p.negative}),
		appstate.WithNotifier(p.notifier),
		appstate.WithTheme(th),
		appstate.WithLogger(p.logger().Named("window")),
		appstate.WithSubmitTimeout(p.cfg().Backend.Timeout),
	)
	st.Run()
	return nil
}
