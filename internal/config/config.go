// Package config loads maskstudio settings from YAML, the environment and
// built-in defaults.
package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Backend locates the inference server.
type Backend struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Log configures diagnostics.
type Log struct {
	Mode string `mapstructure:"mode" yaml:"mode"`
}

// Brush bounds the brush radius slider.
type Brush struct {
	Default int `mapstructure:"default" yaml:"default"`
	Min     int `mapstructure:"min" yaml:"min"`
	Max     int `mapstructure:"max" yaml:"max"`
}

// Defaults are the request parameters used when a command leaves them unset.
type Defaults struct {
	NegativePrompt string  `mapstructure:"negative_prompt" yaml:"negative_prompt"`
	Steps          int     `mapstructure:"steps" yaml:"steps"`
	GuidanceScale  float64 `mapstructure:"guidance_scale" yaml:"guidance_scale"`
	Strength       float64 `mapstructure:"strength" yaml:"strength"`
	Width          int     `mapstructure:"width" yaml:"width"`
	Height         int     `mapstructure:"height" yaml:"height"`
}

// Notify holds notification settings.
type Notify struct {
	Complete bool `mapstructure:"complete" yaml:"complete"`
	Save     bool `mapstructure:"save" yaml:"save"`
	Copy     bool `mapstructure:"copy" yaml:"copy"`
}

// Config holds the application configuration.
type Config struct {
	Backend  Backend  `mapstructure:"backend" yaml:"backend"`
	Log      Log      `mapstructure:"log" yaml:"log"`
	Brush    Brush    `mapstructure:"brush" yaml:"brush"`
	Defaults Defaults `mapstructure:"defaults" yaml:"defaults"`
	SaveDir  string   `mapstructure:"save_dir" yaml:"save_dir,omitempty"`
	Theme    string   `mapstructure:"theme" yaml:"theme,omitempty"`
	Notify   Notify   `mapstructure:"notify" yaml:"notify"`
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Backend: Backend{
			URL:     "http://localhost:8000",
			Timeout: 5 * time.Minute,
		},
		Log: Log{Mode: "release"},
		Brush: Brush{
			Default: 20,
			Min:     5,
			Max:     50,
		},
		Defaults: Defaults{
			NegativePrompt: "blurry, low quality, distorted, artifacts, bad anatomy",
			Steps:          20,
			GuidanceScale:  8.0,
			Strength:       0.99,
			Width:          1024,
			Height:         1024,
		},
	}
}

// String implements fmt.Stringer and returns the configuration as YAML.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "# " + err.Error() + "\n"
	}
	return string(out)
}
