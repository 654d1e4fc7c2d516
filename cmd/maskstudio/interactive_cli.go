package main

import "flag"

type interactiveCLI struct {
	*interactiveCmd

	fs *flag.FlagSet

	execs commandList
	file  string
	tool  string
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCLI, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	cli := &interactiveCLI{fs: fs}
	fs.Usage = usageFunc(cli)
	fs.Var(&cli.execs, "e", "execute interactive command in immediate mode (may be specified multiple times)")
	fs.StringVar(&cli.file, "file", "", "image to load before the first command")
	fs.StringVar(&cli.tool, "tool", "inpaint", "initial tool: inpaint, erase or generate")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cli.interactiveCmd = newInteractiveCmd(r.subcommand("interactive"))
	return cli, nil
}

func (c *interactiveCLI) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *interactiveCLI) Program() string {
	return c.r.Program()
}

func (c *interactiveCLI) Run() error {
	pre := []string{"tool " + c.tool}
	if c.file != "" {
		pre = append(pre, "load "+c.file)
	}
	for _, cmd := range pre {
		if _, err := c.executeLine(cmd); err != nil {
			return err
		}
	}
	if len(c.execs) > 0 {
		for _, cmd := range c.execs {
			done, err := c.executeLine(cmd)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	return c.interactiveCmd.Run()
}
