// Package appstate runs the desktop paint window.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/maskstudio/internal/backend"
	"github.com/example/maskstudio/internal/clipboard"
	"github.com/example/maskstudio/internal/notify"
	paintpkg "github.com/example/maskstudio/internal/paint"
	"github.com/example/maskstudio/internal/render"
	"github.com/example/maskstudio/internal/session"
	"github.com/example/maskstudio/internal/theme"
)

const messageDuration = 3 * time.Second

// AppState is the paint window around one editing session.
type AppState struct {
	Session *session.Session
	Output  string
	Prompt  session.Prompt

	notifier *notify.Notifier
	theme    *theme.Theme
	log      *zap.Logger
	timeout  time.Duration

	updateCh chan struct{}

	mu           sync.Mutex
	view         View
	maskView     *image.RGBA
	message      string
	messageUntil time.Time

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the session the window edits.
func WithSession(s *session.Session) Option { return func(a *AppState) { a.Session = s } }

// WithOutput sets the path the result is saved to.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithPrompt sets the prompt submitted with Enter.
func WithPrompt(p session.Prompt) Option { return func(a *AppState) { a.Prompt = p } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.theme = t } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *AppState) {
		if l != nil {
			a.log = l
		}
	}
}

// WithSubmitTimeout bounds each submit started from the window.
func WithSubmitTimeout(d time.Duration) Option { return func(a *AppState) { a.timeout = d } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		log:      zap.NewNop(),
		theme:    theme.Default(),
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Session == nil {
		a.Session = session.New()
	}
	return a
}

// NotifyChanged requests a repaint.
func (a *AppState) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func (a *AppState) setMessage(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.mu.Lock()
	a.message = msg
	a.messageUntil = time.Now().Add(messageDuration)
	a.mu.Unlock()
	a.log.Info(msg)
	a.NotifyChanged()
}

func (a *AppState) setView(v View) {
	a.mu.Lock()
	a.view = v
	a.mu.Unlock()
}

func (a *AppState) currentView() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window on s until it is closed.
func (a *AppState) Main(s screen.Screen) {
	sz := initialWindowSize(a.Session.Tool().Resolution())
	width, height := sz.X, sz.Y
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "maskstudio"})
	if err != nil {
		a.log.Error("new window", zap.Error(err))
		return
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	var (
		cursor   image.Point
		cursorIn bool
		stroking bool
	)
	canvas := canvasRect(width, height)
	a.Session.SetDisplaySize(float64(canvas.Dx()), float64(canvas.Dy()))

	toCanvas := func(x, y float32) paintpkg.Point {
		return paintpkg.Pt(float64(x)-float64(canvas.Min.X), float64(y)-float64(canvas.Min.Y))
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			canvas = canvasRect(width, height)
			a.Session.SetDisplaySize(float64(canvas.Dx()), float64(canvas.Dy()))
			w.Send(paint.Event{})
		case paint.Event:
			a.drawFrame(s, w, width, height, cursor, cursorIn)
		case mouse.Event:
			cursor = image.Pt(int(e.X), int(e.Y))
			cursorIn = cursor.In(canvas)
			if a.currentView() != ViewSurface {
				continue
			}
			switch {
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress && cursorIn:
				if !a.Session.Ready() {
					a.setMessage(msgNoImage)
					continue
				}
				if err := a.Session.BeginStroke(toCanvas(e.X, e.Y)); err != nil {
					a.setMessage("stroke: %v", err)
					continue
				}
				stroking = true
			case e.Direction == mouse.DirNone && stroking:
				_ = a.Session.ContinueStroke(toCanvas(e.X, e.Y))
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease && stroking:
				_ = a.Session.ContinueStroke(toCanvas(e.X, e.Y))
				a.Session.EndStroke()
				stroking = false
			}
			w.Send(paint.Event{})
		case key.Event:
			act := actionFor(e)
			if act == actionNone {
				continue
			}
			if act == actionQuit {
				return
			}
			a.apply(act)
			if a.currentView() != ViewSurface {
				stroking = false
			}
			w.Send(paint.Event{})
		case error:
			a.log.Error("window event", zap.Error(e))
		}
	}
}

const msgNoImage = "load an image first"

// apply runs a keyboard action. Leaving the surface view ends any stroke in
// progress so the mask and result views never see half a stroke.
func (a *AppState) apply(act action) {
	s := a.Session
	switch act {
	case actionMark:
		s.SetMode(paintpkg.ModeMark)
	case actionUnmark:
		s.SetMode(paintpkg.ModeUnmark)
	case actionGrow:
		s.SetBrushRadius(s.Brush().Radius + radiusStep)
	case actionShrink:
		s.SetBrushRadius(s.Brush().Radius - radiusStep)
	case actionClear:
		if !s.Ready() {
			a.setMessage(msgNoImage)
			return
		}
		if err := s.Clear(); err != nil {
			a.setMessage("clear: %v", err)
			return
		}
		a.setMessage("cleared")
	case actionToggleMask:
		if a.currentView() == ViewMask {
			a.setView(ViewSurface)
			return
		}
		if !s.Ready() {
			a.setMessage(msgNoImage)
			return
		}
		s.EndStroke()
		m, err := s.PreviewMask()
		if err != nil {
			a.setMessage("preview: %v", err)
			return
		}
		pv := render.Preview(s.Source(), m, render.DefaultPreviewOptions())
		a.mu.Lock()
		a.maskView = pv
		a.view = ViewMask
		a.mu.Unlock()
	case actionToggleResult:
		if a.currentView() == ViewResult || s.Result() == nil {
			a.setView(ViewSurface)
			return
		}
		s.EndStroke()
		a.setView(ViewResult)
	case actionNextTool:
		next := nextTool(s.Tool())
		if err := s.SetTool(next); err != nil {
			a.setMessage("tool: %v", err)
			return
		}
		a.setView(ViewSurface)
		a.setMessage("tool %s (%dpx)", next, next.Resolution())
	case actionSubmit:
		if s.Tool().NeedsImage() && !s.Ready() {
			a.setMessage(msgNoImage)
			return
		}
		a.submit()
	case actionSave:
		a.save()
	case actionCopy:
		a.copy()
	}
}

func nextTool(op backend.Operation) backend.Operation {
	for i, o := range backend.Operations {
		if o == op {
			return backend.Operations[(i+1)%len(backend.Operations)]
		}
	}
	return backend.Operations[0]
}

// submit starts a request in the background. The session rejects a second
// one while the first is outstanding.
func (a *AppState) submit() {
	if a.Session.Submitting() {
		a.setMessage("still waiting for the previous request")
		return
	}
	a.setMessage("submitting %s...", a.Session.Tool())
	go func() {
		ctx := context.Background()
		if a.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.timeout)
			defer cancel()
		}
		res, err := a.Session.Submit(ctx, a.Prompt)
		switch {
		case errors.Is(err, session.ErrBusy):
			a.setMessage("still waiting for the previous request")
		case err != nil:
			a.setMessage("failed: %v", err)
		default:
			a.setView(ViewResult)
			a.setMessage("%s done", res.Operation)
			a.notifier.Complete(res.Operation.String(), res.Image)
		}
	}()
}

func (a *AppState) save() {
	res := a.Session.Result()
	if res == nil {
		a.setMessage("nothing to save yet")
		return
	}
	out := a.Output
	if out == "" {
		out = fmt.Sprintf("%s-%s.png", res.Operation, res.ID)
	}
	if err := imaging.Save(res.Image, out); err != nil {
		a.setMessage("save: %v", err)
		return
	}
	a.setMessage("saved %s", out)
	a.notifier.Save(out)
}

func (a *AppState) copy() {
	var (
		img  image.Image
		what string
	)
	switch a.currentView() {
	case ViewMask:
		if m := a.Session.LastMask(); m != nil {
			img, what = m, "mask"
		}
	default:
		if res := a.Session.Result(); res != nil {
			img, what = res.Image, "result"
		}
	}
	if img == nil {
		a.setMessage("nothing to copy")
		return
	}
	if err := clipboard.WriteImage(img); err != nil {
		a.setMessage("copy: %v", err)
		return
	}
	a.setMessage("copied %s", what)
	a.notifier.Copy(what)
}

func (a *AppState) frame(width, height int, cursor image.Point, cursorIn bool) frameState {
	s := a.Session
	a.mu.Lock()
	st := frameState{
		width:        width,
		height:       height,
		theme:        a.theme,
		view:         a.view,
		cursor:       cursor,
		cursorIn:     cursorIn,
		message:      a.message,
		messageUntil: a.messageUntil,
	}
	maskView := a.maskView
	a.mu.Unlock()

	brush := s.Brush()
	tool := s.Tool()
	phase := s.Phase().String()
	if s.Submitting() {
		phase = "submitting"
	}
	st.status = statusLine(tool.String(), brush.Mode.String(), brush.Radius, phase, st.view)
	canvas := canvasRect(width, height)
	st.cursorRadius = float64(brush.Radius) * float64(canvas.Dx()) / float64(tool.Resolution())

	switch st.view {
	case ViewMask:
		if maskView != nil {
			st.content = maskView
		}
	case ViewResult:
		if res := s.Result(); res != nil {
			st.content = res.Image
		}
	default:
		snap, err := s.Snapshot()
		if err == nil {
			st.content, st.stretch = snap, true
		}
	}
	return st
}

func (a *AppState) drawFrame(s screen.Screen, w screen.Window, width, height int, cursor image.Point, cursorIn bool) {
	if width <= 0 || height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		a.log.Error("new buffer", zap.Error(err))
		return
	}
	defer b.Release()

	composeFrame(b.RGBA(), a.frame(width, height, cursor, cursorIn))
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
