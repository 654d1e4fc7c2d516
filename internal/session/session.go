// Package session owns one editing session: the source image, the paint
// surface, the brush and the most recent mask and result.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"

	"github.com/example/maskstudio/internal/backend"
	"github.com/example/maskstudio/internal/mask"
	"github.com/example/maskstudio/internal/paint"
	"github.com/example/maskstudio/internal/surface"
)

var (
	// ErrBusy is returned by Submit while another request is outstanding.
	ErrBusy = errors.New("a request is already in flight")
	// ErrStrokeActive is returned when a mask is requested mid-stroke.
	ErrStrokeActive = errors.New("stroke in progress")
)

// Submitter sends a request to the inference server.
type Submitter interface {
	Submit(ctx context.Context, req backend.Request) (*backend.Result, error)
}

// Phase is the session state machine position.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePainting
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePainting:
		return "painting"
	case PhaseSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Prompt is the user supplied part of a request. Zero numeric fields take the
// session defaults; an empty negative prompt takes the default negative
// prompt.
type Prompt struct {
	Text     string
	Negative string
	Params   backend.Params
}

// Session is safe for concurrent use. Painting stays possible while a request
// is outstanding.
type Session struct {
	mu sync.Mutex

	tool    backend.Operation
	source  image.Image
	surface *surface.Surface
	engine  *paint.Engine

	submitter   Submitter
	log         *zap.Logger
	negative    string
	params      backend.Params
	onResult    func(*backend.Result, error)
	initialMode paint.Mode

	submitting bool
	lastMask   *image.RGBA
	result     *backend.Result
	lastErr    error
}

// Option configures a Session.
type Option func(*Session)

// WithTool sets the initial tool.
func WithTool(op backend.Operation) Option { return func(s *Session) { s.tool = op } }

// WithSubmitter sets the request sink.
func WithSubmitter(sub Submitter) Option { return func(s *Session) { s.submitter = sub } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRadiusRange bounds the brush radius.
func WithRadiusRange(lo, hi int) Option {
	return func(s *Session) { s.engine.SetRadiusRange(paint.RadiusRange{Min: lo, Max: hi}) }
}

// WithBrush sets the initial brush. Apply after WithRadiusRange.
func WithBrush(b paint.Brush) Option {
	return func(s *Session) {
		s.engine.SetRadius(b.Radius)
		s.initialMode = b.Mode
	}
}

// WithDefaults sets the negative prompt and numeric parameters used for
// fields a Prompt leaves empty. Server defaults fill whatever is still zero.
func WithDefaults(negative string, p backend.Params) Option {
	return func(s *Session) {
		s.negative = negative
		s.params = p
	}
}

// WithOnResult registers a callback run after every completed Submit, outside
// the session lock.
func WithOnResult(fn func(*backend.Result, error)) Option {
	return func(s *Session) { s.onResult = fn }
}

// New returns an idle session with no image loaded.
func New(opts ...Option) *Session {
	s := &Session{
		tool:     backend.OpInpaint,
		log:      zap.NewNop(),
		negative: backend.DefaultNegativePrompt,
	}
	s.surface = surface.New(s.tool.Resolution())
	s.engine = paint.New(s.surface)
	for _, o := range opts {
		o(s)
	}
	s.engine.SetMode(s.initialMode)
	if s.surface.Size() != s.tool.Resolution() {
		s.surface = surface.New(s.tool.Resolution())
		s.engine.SetSurface(s.surface)
	}
	return s
}

// Load replaces the source image and re-initializes the surface, discarding
// all paint and the cached mask.
func (s *Session) Load(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if img == nil {
		return fmt.Errorf("%w: nil image", backend.ErrMissingInput)
	}
	sf := surface.New(s.tool.Resolution())
	if err := sf.Initialize(img); err != nil {
		return err
	}
	s.source = img
	s.surface = sf
	s.engine.SetSurface(sf)
	s.lastMask = nil
	s.log.Debug("image loaded",
		zap.Stringer("source", img.Bounds().Size()),
		zap.Int("surface", sf.Size()))
	return nil
}

// Tool returns the active tool.
func (s *Session) Tool() backend.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

// SetTool switches tools. The surface is rebuilt at the new tool's
// resolution from the current source, so paint does not survive a change.
func (s *Session) SetTool(op backend.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if op == s.tool {
		return nil
	}
	sf := surface.New(op.Resolution())
	if s.source != nil {
		if err := sf.Initialize(s.source); err != nil {
			return err
		}
	}
	s.tool = op
	s.surface = sf
	s.engine.SetSurface(sf)
	s.lastMask = nil
	return nil
}

// Source returns the loaded image, or nil.
func (s *Session) Source() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Ready reports whether an image is loaded and paintable.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Ready()
}

// Brush returns the current brush.
func (s *Session) Brush() paint.Brush {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Brush()
}

// SetBrushRadius sets the radius and returns the clamped value.
func (s *Session) SetBrushRadius(r int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SetRadius(r)
}

// SetMode switches between mark and unmark.
func (s *Session) SetMode(m paint.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetMode(m)
}

// SetDisplaySize records the on-screen size of the surface.
func (s *Session) SetDisplaySize(w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetDisplaySize(w, h)
}

// BeginStroke starts a stroke at p in display coordinates.
func (s *Session) BeginStroke(p paint.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.BeginStroke(p)
}

// ContinueStroke extends the active stroke to p.
func (s *Session) ContinueStroke(p paint.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ContinueStroke(p)
}

// EndStroke finishes the active stroke.
func (s *Session) EndStroke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.EndStroke()
}

// Clear removes all paint.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Clear()
}

// Snapshot returns a copy of the surface.
func (s *Session) Snapshot() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Snapshot()
}

// PreviewMask extracts a fresh mask from the surface and caches it.
func (s *Session) PreviewMask() (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.extractLocked()
}

func (s *Session) extractLocked() (*image.RGBA, error) {
	if s.engine.Active() {
		return nil, ErrStrokeActive
	}
	img, err := s.surface.Image()
	if err != nil {
		return nil, err
	}
	m := mask.Extract(img)
	s.lastMask = m
	return m, nil
}

// LastMask returns the most recently extracted mask, or nil.
func (s *Session) LastMask() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMask
}

// Result returns the most recent successful result, or nil.
func (s *Session) Result() *backend.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// LastError returns the error of the most recent Submit, or nil.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Submitting reports whether a request is outstanding.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Phase reports painting while a stroke is active, submitting while a request
// is outstanding and idle otherwise.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.engine.Active():
		return PhasePainting
	case s.submitting:
		return PhaseSubmitting
	}
	return PhaseIdle
}

func (s *Session) requestLocked(p Prompt) (backend.Request, error) {
	if s.engine.Active() {
		return backend.Request{}, ErrStrokeActive
	}
	req := backend.Request{
		Operation:      s.tool,
		Prompt:         p.Text,
		NegativePrompt: p.Negative,
		Params:         p.Params.WithDefaults(s.params).WithDefaults(backend.DefaultParams(s.tool)),
	}
	if req.NegativePrompt == "" {
		req.NegativePrompt = s.negative
	}
	if !s.tool.NeedsImage() {
		return req, nil
	}
	if s.source == nil {
		return backend.Request{}, fmt.Errorf("%w: no image loaded", backend.ErrMissingInput)
	}
	m, err := s.extractLocked()
	if err != nil {
		return backend.Request{}, err
	}
	req.Image = s.source
	req.Mask = m
	return req, nil
}

// Submit sends one request for the active tool and blocks until it resolves.
// A second call while one is outstanding fails with ErrBusy. On failure the
// previous result is kept; the surface is never touched.
func (s *Session) Submit(ctx context.Context, p Prompt) (*backend.Result, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.submitter == nil {
		s.mu.Unlock()
		return nil, errors.New("no backend configured")
	}
	req, err := s.requestLocked(p)
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}
	s.submitting = true
	sub := s.submitter
	log := s.log.With(zap.String("operation", req.Operation.String()))
	s.mu.Unlock()

	if m, ok := req.Mask.(*image.RGBA); ok {
		cov := mask.Coverage(m)
		log.Info("submitting", zap.Float64("mask_coverage", cov))
		if cov == 0 {
			log.Warn("mask is empty; nothing is marked for regeneration")
		}
	} else {
		log.Info("submitting")
	}

	res, err := sub.Submit(ctx, req)

	s.mu.Lock()
	s.submitting = false
	s.lastErr = err
	if err == nil {
		s.result = res
	}
	cb := s.onResult
	s.mu.Unlock()

	if err != nil {
		log.Warn("submit failed", zap.Error(err))
	}
	if cb != nil {
		cb(res, err)
	}
	return res, err
}
