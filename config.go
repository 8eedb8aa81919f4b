package killplot

import (
	"fmt"
	"os"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultVariant = "killsum"
	DefaultBackend = "gonum"
	DefaultWidth   = 7.0 // inches
	DefaultHeight  = 5.0 // inches
	chartDPI       = 96
)

// Config holds everything the plotting pipeline can be told from outside.
type Config struct {
	// Variant is rowcount or killsum.
	Variant string `yaml:"variant"`

	// Backend is gonum or chart.
	Backend string `yaml:"backend"`

	// Width and Height of each image, in inches.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// XLimit overrides the variant's x-axis clamp. Negative disables it.
	XLimit float64 `yaml:"xlim"`

	Targets []Target `yaml:"targets"`
}

// LoadConfig reads the YAML file at path over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	targets := make([]Target, len(DefaultTargets))
	copy(targets, DefaultTargets)
	return &Config{
		Variant: DefaultVariant,
		Backend: DefaultBackend,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Targets: targets,
	}
}

// Validate checks names, sizes and targets.
func (c *Config) Validate() error {
	if _, err := ParseVariant(c.Variant); err != nil {
		return err
	}
	switch c.Backend {
	case "gonum", "chart":
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %gx%g", c.Width, c.Height)
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("targets: at least one is required")
	}
	seen := make(map[string]bool)
	for i, tg := range c.Targets {
		if tg.Column == "" || tg.Suffix == "" {
			return fmt.Errorf("targets[%d]: column and suffix are required", i)
		}
		if seen[tg.Suffix] {
			return fmt.Errorf("targets[%d]: duplicate suffix %q", i, tg.Suffix)
		}
		seen[tg.Suffix] = true
	}
	return nil
}

// Override applies flag values on top of c. Only the flags changed reports
// as set by the user win over the file; the rest keep the file's values.
func (c *Config) Override(variant, backend string, changed func(name string) bool) error {
	if changed("variant") {
		c.Variant = variant
	}
	if changed("backend") {
		c.Backend = backend
	}
	return c.Validate()
}

// XMax resolves the x-axis clamp for variant v.
func (c *Config) XMax(v Variant) float64 {
	switch {
	case c.XLimit < 0:
		return 0
	case c.XLimit > 0:
		return c.XLimit
	}
	return v.XLimit()
}

// NewRenderer returns the renderer for the configured backend.
func (c *Config) NewRenderer() (Renderer, error) {
	switch c.Backend {
	case "gonum":
		return GonumRenderer{
			Width:  vg.Length(c.Width) * vg.Inch,
			Height: vg.Length(c.Height) * vg.Inch,
		}, nil
	case "chart":
		return ChartRenderer{
			Width:  int(c.Width * chartDPI),
			Height: int(c.Height * chartDPI),
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", c.Backend)
}
