package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/example/maskstudio/internal/backend"
	"github.com/example/maskstudio/internal/config"
	"github.com/example/maskstudio/internal/logging"
	"github.com/example/maskstudio/internal/notify"
	"github.com/example/maskstudio/internal/paint"
	"github.com/example/maskstudio/internal/session"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	notifier       *notify.Notifier
	config         *config.Config
	log            *zap.Logger
	configPath     string
	backendURL     string
	logMode        string
	themeName      string
	completeAlerts bool
	saveAlerts     bool
	copyAlerts     bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:        program,
		notifier:       r.notifier,
		config:         r.config,
		log:            r.log,
		configPath:     r.configPath,
		backendURL:     r.backendURL,
		logMode:        r.logMode,
		themeName:      r.themeName,
		completeAlerts: r.completeAlerts,
		saveAlerts:     r.saveAlerts,
		copyAlerts:     r.copyAlerts,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("maskstudio", flag.ExitOnError),
		program: "maskstudio",
	}
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "path to the configuration file")
	r.fs.StringVar(&r.backendURL, "backend", "", "inference server URL (overrides backend.url)")
	r.fs.StringVar(&r.logMode, "log-mode", "", "log mode: release, debug or quiet (overrides log.mode)")
	r.fs.StringVar(&r.themeName, "theme", "", "paint window theme: a built-in name, a file or a name under the themes directory")
	r.fs.BoolVar(&r.completeAlerts, "notify-complete", false, "show a desktop notification when a request finishes")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	r.fs.Usage = usageFunc(r)
	return r
}

// setup loads the configuration and builds the logger and notifier once the
// global flags are known. Flags that were not given fall back to the config.
func (r *root) setup() {
	loader := config.NewLoader(version, r.configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	r.config = cfg

	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if r.backendURL == "" {
		r.backendURL = cfg.Backend.URL
	}
	if r.logMode == "" {
		r.logMode = cfg.Log.Mode
	}
	if r.themeName == "" {
		r.themeName = cfg.Theme
	}
	if !set["notify-complete"] {
		r.completeAlerts = cfg.Notify.Complete
	}
	if !set["notify-save"] {
		r.saveAlerts = cfg.Notify.Save
	}
	if !set["notify-copy"] {
		r.copyAlerts = cfg.Notify.Copy
	}

	l, err := logging.New(r.logMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		l, _ = logging.New(logging.ModeRelease)
	}
	r.log = l

	r.notifier = notify.New(notify.LoadPreferences(), notify.WithLogger(l))
	r.notifier.Enable(notify.EventComplete, r.completeAlerts)
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.config == nil {
		r.setup()
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]
	return r.dispatch(cmdName, subArgs)
}

func (r *root) dispatch(cmdName string, subArgs []string) error {
	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "mask":
		cmd, err = parseMaskCmd(subArgs, r)
	case "preview":
		cmd, err = parsePreviewCmd(subArgs, r)
	case "inpaint", "erase", "generate":
		cmd, err = parseSubmitCmd(cmdName, subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "paint":
		cmd, err = parsePaintCmd(subArgs, r)
	case "health":
		cmd, err = parseHealthCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	err := r.Run(os.Args[1:])
	logging.Sync(r.log)
	if err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) cfg() *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}

func (r *root) logger() *zap.Logger {
	if r == nil || r.log == nil {
		return zap.NewNop()
	}
	return r.log
}

func (r *root) client() *backend.Client {
	cfg := r.cfg()
	url := cfg.Backend.URL
	if r != nil && r.backendURL != "" {
		url = r.backendURL
	}
	return backend.New(url,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLogger(r.logger().Named("backend")))
}

// defaultParams converts the configured request defaults for use by a
// session or a direct request.
func (r *root) defaultParams() (string, backend.Params) {
	d := r.cfg().Defaults
	return d.NegativePrompt, backend.Params{
		Steps:         d.Steps,
		GuidanceScale: d.GuidanceScale,
		Strength:      d.Strength,
		Width:         d.Width,
		Height:        d.Height,
	}
}

// newSession builds a session wired to the configured backend and brush.
func (r *root) newSession(tool backend.Operation, opts ...session.Option) *session.Session {
	cfg := r.cfg()
	negative, params := r.defaultParams()
	base := []session.Option{
		session.WithTool(tool),
		session.WithLogger(r.logger().Named("session")),
		session.WithSubmitter(r.client()),
		session.WithRadiusRange(cfg.Brush.Min, cfg.Brush.Max),
		session.WithBrush(paint.Brush{Radius: cfg.Brush.Default, Mode: paint.ModeMark}),
		session.WithDefaults(negative, params),
	}
	return session.New(append(base, opts...)...)
}

func (r *root) notifyComplete(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Complete(detail, img)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
