package backend

import (
	"image"
)

// DefaultNegativePrompt is what the server falls back to as well.
const DefaultNegativePrompt = "blurry, low quality, distorted, artifacts, bad anatomy"

// Params are the numeric knobs of a request. Strength applies to inpaint and
// erase, Width and Height to generate.
type Params struct {
	Steps         int     `json:"num_inference_steps" validate:"min=1,max=150"`
	GuidanceScale float64 `json:"guidance_scale" validate:"gte=0,lte=30"`
	Strength      float64 `json:"strength" validate:"gt=0,lte=1"`
	Width         int     `json:"width" validate:"min=64,max=2048"`
	Height        int     `json:"height" validate:"min=64,max=2048"`
	Seed          *int64  `json:"seed,omitempty" validate:"omitempty,gte=0"`
}

// DefaultParams returns the server defaults for op.
func DefaultParams(op Operation) Params {
	p := Params{Steps: 20, GuidanceScale: 8.0}
	if op == OpGenerate {
		p.Width, p.Height = op.Resolution(), op.Resolution()
	} else {
		p.Strength = 0.99
	}
	return p
}

// WithDefaults fills zero fields from d.
func (p Params) WithDefaults(d Params) Params {
	if p.Steps == 0 {
		p.Steps = d.Steps
	}
	if p.GuidanceScale == 0 {
		p.GuidanceScale = d.GuidanceScale
	}
	if p.Strength == 0 {
		p.Strength = d.Strength
	}
	if p.Width == 0 {
		p.Width = d.Width
	}
	if p.Height == 0 {
		p.Height = d.Height
	}
	if p.Seed == nil {
		p.Seed = d.Seed
	}
	return p
}

// Request is one submission. Image and Mask are ignored for OpGenerate.
type Request struct {
	Operation      Operation
	Image          image.Image
	Mask           image.Image
	Prompt         string
	NegativePrompt string
	Params         Params
}

// GPUMemory is the optional telemetry returned by generate.
type GPUMemory struct {
	CachedGB           float64 `json:"cached_memory_gb"`
	TotalGB            float64 `json:"total_memory_gb"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

// Result is a decoded server response.
type Result struct {
	ID         string
	Operation  Operation
	Image      image.Image
	Data       []byte
	Prompt     string
	Parameters map[string]any
	GPUMemory  *GPUMemory
}

// Health is the /health response.
type Health struct {
	Status        string `json:"status"`
	CUDAAvailable bool   `json:"cuda_available"`
	ModelLoaded   bool   `json:"model_loaded"`
}

// Ready reports whether the server can take requests.
func (h Health) Ready() bool { return h.Status == "ok" && h.ModelLoaded }

// GPUStatus is the /gpu-status/ response. Device entries are keyed by CUDA
// device name and passed through unchanged.
type GPUStatus struct {
	Timestamp    string             `json:"timestamp"`
	GPU          map[string]any     `json:"gpu"`
	SystemMemory map[string]float64 `json:"system_memory"`
}
