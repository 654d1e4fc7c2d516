package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultURL is where the inference server listens in development.
const DefaultURL = "http://localhost:8000"

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client submits generation requests. It is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	log      *zap.Logger
	validate *validator.Validate
	newID    func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 5 * time.Minute},
		log:      zap.NewNop(),
		validate: validator.New(),
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the server root.
func (c *Client) BaseURL() string { return c.baseURL }

// Validate checks req without sending it.
func (c *Client) Validate(req Request) error {
	switch req.Operation {
	case OpInpaint, OpErase, OpGenerate:
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidParams, req.Operation)
	}
	if req.Operation.NeedsImage() {
		if req.Image == nil || req.Image.Bounds().Empty() {
			return fmt.Errorf("%w: no image loaded", ErrMissingInput)
		}
		if req.Mask == nil || req.Mask.Bounds().Empty() {
			return fmt.Errorf("%w: no mask", ErrMissingInput)
		}
	}
	if req.Operation.PromptRequired() && strings.TrimSpace(req.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required for %s", ErrMissingInput, req.Operation)
	}
	var except []string
	if req.Operation == OpGenerate {
		except = []string{"Strength"}
	} else {
		except = []string{"Width", "Height"}
	}
	if err := c.validate.StructExcept(req.Params, except...); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("%w: %s must satisfy %s=%s", ErrInvalidParams, f.Field(), f.Tag(), f.Param())
		}
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// Submit validates req, sends it as one multipart POST and decodes the
// returned image. There are no retries.
func (c *Client) Submit(ctx context.Context, req Request) (*Result, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	body, contentType, err := encodeForm(req)
	if err != nil {
		return nil, err
	}
	id := c.newID()
	log := c.log.With(zap.String("request_id", id), zap.String("operation", req.Operation.String()))

	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+req.Operation.Endpoint(), body)
	if err != nil {
		return nil, transportErr(err)
	}
	hr.Header.Set("Content-Type", contentType)
	hr.Header.Set("Accept", "application/json")
	hr.Header.Set("X-Request-ID", id)

	start := time.Now()
	resp, err := c.http.Do(hr)
	if err != nil {
		log.Error("request failed", zap.Error(err))
		return nil, transportErr(err)
	}
	defer resp.Body.Close()
	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("cost", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		se := statusError(resp.StatusCode, raw)
		log.Warn("server rejected request", zap.String("detail", se.Detail))
		return nil, se
	}

	res, err := decodeResult(resp.Body)
	if err != nil {
		log.Error("bad response payload", zap.Error(err))
		return nil, transportErr(err)
	}
	res.ID = id
	if res.Operation == "" {
		res.Operation = req.Operation
	}
	log.Info("generation complete", zap.Stringer("size", res.Image.Bounds().Size()))
	return res, nil
}

type resultPayload struct {
	Success     *bool          `json:"success"`
	ResultImage string         `json:"result_image"`
	Prompt      string         `json:"prompt"`
	Operation   string         `json:"operation"`
	Parameters  map[string]any `json:"parameters"`
	GPUMemory   *GPUMemory     `json:"gpu_memory"`
}

func decodeResult(r io.Reader) (*Result, error) {
	var p resultPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if p.Success != nil && !*p.Success {
		return nil, errors.New("server reported failure")
	}
	if p.ResultImage == "" {
		return nil, errors.New("response has no result_image")
	}
	data, err := base64.StdEncoding.DecodeString(stripDataURL(p.ResultImage))
	if err != nil {
		return nil, fmt.Errorf("decode result_image: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode result image: %w", err)
	}
	return &Result{
		Operation:  Operation(p.Operation),
		Image:      img,
		Data:       data,
		Prompt:     p.Prompt,
		Parameters: p.Parameters,
		GPUMemory:  p.GPUMemory,
	}, nil
}

func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}

func encodeForm(req Request) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if req.Operation.NeedsImage() {
		if err := writePNG(w, "image", "image.png", req.Image); err != nil {
			return nil, "", err
		}
		if err := writePNG(w, "mask", "mask.png", req.Mask); err != nil {
			return nil, "", err
		}
	}

	p := req.Params
	fields := [][2]string{
		{req.Operation.PromptField(), req.Prompt},
		{"negative_prompt", req.NegativePrompt},
		{"num_inference_steps", strconv.Itoa(p.Steps)},
		{"guidance_scale", formatFloat(p.GuidanceScale)},
	}
	if req.Operation == OpGenerate {
		fields = append(fields,
			[2]string{"width", strconv.Itoa(p.Width)},
			[2]string{"height", strconv.Itoa(p.Height)})
	} else {
		fields = append(fields, [2]string{"strength", formatFloat(p.Strength)})
	}
	if p.Seed != nil {
		fields = append(fields, [2]string{"seed", strconv.FormatInt(*p.Seed, 10)})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// writePNG adds img as a file part. The server checks the part content type,
// so it is set explicitly rather than through CreateFormFile.
func writePNG(w *multipart.Writer, field, filename string, img image.Image) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if err := png.Encode(part, img); err != nil {
		return fmt.Errorf("encode %s: %w", field, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Health queries /health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.getJSON(ctx, "/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// GPUStatus queries /gpu-status/.
func (c *Client) GPUStatus(ctx context.Context) (*GPUStatus, error) {
	var s GPUStatus
	if err := c.getJSON(ctx, "/gpu-status/", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	hr, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return transportErr(err)
	}
	hr.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(hr)
	if err != nil {
		return transportErr(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, raw)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return transportErr(fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}
