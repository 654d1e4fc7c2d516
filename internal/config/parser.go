package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. MASKSTUDIO_BACKEND_URL.
const EnvPrefix = "MASKSTUDIO"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("log.mode", d.Log.Mode)

	v.SetDefault("brush.default", d.Brush.Default)
	v.SetDefault("brush.min", d.Brush.Min)
	v.SetDefault("brush.max", d.Brush.Max)

	v.SetDefault("defaults.negative_prompt", d.Defaults.NegativePrompt)
	v.SetDefault("defaults.steps", d.Defaults.Steps)
	v.SetDefault("defaults.guidance_scale", d.Defaults.GuidanceScale)
	v.SetDefault("defaults.strength", d.Defaults.Strength)
	v.SetDefault("defaults.width", d.Defaults.Width)
	v.SetDefault("defaults.height", d.Defaults.Height)

	v.SetDefault("save_dir", "")
	v.SetDefault("theme", "")
	v.SetDefault("notify.complete", false)
	v.SetDefault("notify.save", false)
	v.SetDefault("notify.copy", false)
}

// Parse reads YAML configuration from r. Keys missing from r keep their
// defaults and MASKSTUDIO_* environment variables override both.
func Parse(r io.Reader) (*Config, error) {
	v := newViper()
	if r != nil {
		if err := v.ReadConfig(r); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return decode(v)
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() (*Config, error) {
	return decode(newViper())
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
