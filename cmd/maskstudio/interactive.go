package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/example/maskstudio/internal/backend"
	"github.com/example/maskstudio/internal/mask"
	"github.com/example/maskstudio/internal/paint"
	"github.com/example/maskstudio/internal/session"
)

// interactiveCmd is a line oriented shell around one session.
type interactiveCmd struct {
	r      *root
	sess   *session.Session
	prompt session.Prompt

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newInteractiveCmd(r *root) *interactiveCmd {
	return &interactiveCmd{
		r:      r,
		sess:   r.newSession(backend.OpInpaint),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func (i *interactiveCmd) Run() error {
	fmt.Fprintln(i.stdout, "Enter commands (type 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one command. done is true once the shell should exit.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	s := i.sess

	switch strings.ToLower(name) {
	case "exit", "quit":
		return true, nil
	case "load":
		if rest == "" {
			return false, fmt.Errorf("usage: load FILE")
		}
		img, err := loadImage(rest, false)
		if err != nil {
			return false, err
		}
		if err := s.Load(img); err != nil {
			return false, err
		}
		b := img.Bounds()
		fmt.Fprintf(i.stdout, "loaded %s (%dx%d)\n", rest, b.Dx(), b.Dy())
	case "tool":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: tool inpaint|erase|generate")
		}
		op, err := backend.ParseOperation(args[0])
		if err != nil {
			return false, err
		}
		if err := s.SetTool(op); err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "tool %s (%dpx surface)\n", op, op.Resolution())
	case "radius":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: radius N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid radius %q", args[0])
		}
		fmt.Fprintf(i.stdout, "radius %d\n", s.SetBrushRadius(n))
	case "mode":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: mode mark|unmark")
		}
		m, err := paint.ParseMode(args[0])
		if err != nil {
			return false, err
		}
		s.SetMode(m)
	case "display":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: display W H")
		}
		w, err1 := strconv.ParseFloat(args[0], 64)
		h, err2 := strconv.ParseFloat(args[1], 64)
		if err := errors.Join(err1, err2); err != nil || !positiveFinite(w) || !positiveFinite(h) {
			return false, fmt.Errorf("invalid display size %q", rest)
		}
		s.SetDisplaySize(w, h)
	case "down":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: down X,Y")
		}
		p, err := parsePoint(args[0])
		if err != nil {
			return false, err
		}
		return false, s.BeginStroke(p)
	case "move":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: move X,Y [X,Y...]")
		}
		for _, a := range args {
			p, err := parsePoint(a)
			if err != nil {
				return false, err
			}
			if err := s.ContinueStroke(p); err != nil {
				return false, err
			}
		}
	case "up":
		s.EndStroke()
	case "clear":
		return false, s.Clear()
	case "preview":
		m, err := s.PreviewMask()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "mask %dx%d, %.1f%% marked\n", m.Bounds().Dx(), m.Bounds().Dy(), mask.Coverage(m)*100)
		if rest != "" {
			return false, i.save(m, rest)
		}
	case "prompt":
		i.prompt.Text = rest
	case "negative":
		i.prompt.Negative = rest
	case "steps", "guidance", "strength", "seed":
		return false, i.setParam(name, args)
	case "submit":
		res, err := s.Submit(context.Background(), i.prompt)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(i.stdout, "%s done: %s (%dx%d)\n", res.Operation, res.ID, res.Image.Bounds().Dx(), res.Image.Bounds().Dy())
		i.r.notifyComplete(res.Operation.String(), res.Image)
	case "save":
		res := s.Result()
		if res == nil {
			return false, fmt.Errorf("nothing to save yet")
		}
		path := rest
		if path == "" {
			path = fmt.Sprintf("%s-%s.png", res.Operation, res.ID)
		}
		return false, i.save(res.Image, resolveOutput(path, i.r.cfg().SaveDir))
	case "status":
		i.status()
	case "help":
		fmt.Fprintln(i.stdout, "commands: load tool radius mode display down move up clear preview prompt negative steps guidance strength seed submit save status exit")
	default:
		return false, fmt.Errorf("unknown command %q", name)
	}
	return false, nil
}

func (i *interactiveCmd) setParam(name string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: %s VALUE", name)
	}
	p := &i.prompt.Params
	switch name {
	case "steps":
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid steps %q", args[0])
		}
		p.Steps = n
	case "guidance", "strength":
		f, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q", name, args[0])
		}
		if name == "guidance" {
			p.GuidanceScale = f
		} else {
			p.Strength = f
		}
	case "seed":
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q", args[0])
		}
		if n < 0 {
			p.Seed = nil
			return nil
		}
		p.Seed = &n
	}
	return nil
}

func (i *interactiveCmd) save(img image.Image, path string) error {
	saved, err := saveImage(img, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(i.stdout, "saved %s\n", saved)
	i.r.notifySave(saved)
	return nil
}

func (i *interactiveCmd) status() {
	s := i.sess
	b := s.Brush()
	fmt.Fprintf(i.stdout, "tool %s, brush %s r=%d, %s\n", s.Tool(), b.Mode, b.Radius, s.Phase())
	if src := s.Source(); src != nil {
		fmt.Fprintf(i.stdout, "image %dx%d\n", src.Bounds().Dx(), src.Bounds().Dy())
	} else {
		fmt.Fprintln(i.stdout, "no image loaded")
	}
	if i.prompt.Text != "" {
		fmt.Fprintf(i.stdout, "prompt %q\n", i.prompt.Text)
	}
	if res := s.Result(); res != nil {
		fmt.Fprintf(i.stdout, "last result %s %s\n", res.Operation, res.ID)
	}
	if err := s.LastError(); err != nil {
		fmt.Fprintf(i.stdout, "last error: %v\n", err)
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
