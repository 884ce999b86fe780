package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/diagen/pkg/shapes"
)

// Config specifies all engine parameters.
// It supports YAML parsing and includes validation.
type Config struct {
	// Seed is the master seed for deterministic sampling.
	// Use 0 to auto-generate from current time.
	Seed uint64 `yaml:"seed" json:"seed"`

	// Canvas is the drawing surface extent.
	Canvas CanvasCfg `yaml:"canvas" json:"canvas"`

	// Opt selects the optimization method and resampling behavior.
	Opt OptCfg `yaml:"optimization" json:"optimization"`
}

// CanvasCfg is the drawing surface extent in canvas units.
type CanvasCfg struct {
	// Width of the canvas (50-10000).
	Width float64 `yaml:"width" json:"width"`

	// Height of the canvas (50-10000).
	Height float64 `yaml:"height" json:"height"`
}

// Method selects the optimization algorithm the embedder's optimizer runs.
type Method string

const (
	// MethodGradientDescent is plain gradient descent.
	MethodGradientDescent Method = "GRADIENT_DESCENT"

	// MethodNewton is Newton's method.
	MethodNewton Method = "NEWTON"

	// MethodBFGS is full-memory BFGS.
	MethodBFGS Method = "BFGS"

	// MethodLBFGS is limited-memory BFGS. The default.
	MethodLBFGS Method = "L_BFGS"
)

// ValidMethods lists all valid optimization methods.
var ValidMethods = []Method{
	MethodGradientDescent,
	MethodNewton,
	MethodBFGS,
	MethodLBFGS,
}

// OptCfg selects the optimization method and resampling behavior.
type OptCfg struct {
	// Method is the optimization algorithm.
	Method Method `yaml:"method" json:"method"`

	// ResampleCount is the number of candidate draws ResampleBest scores
	// when the caller does not pass one (1-10000).
	ResampleCount int `yaml:"resampleCount" json:"resampleCount"`
}

// DefaultResampleCount is the resample-best draw count when unset.
const DefaultResampleCount = 500

// DefaultConfig returns a valid configuration with standard values.
func DefaultConfig() *Config {
	return &Config{
		Seed:   17,
		Canvas: CanvasCfg{Width: 800, Height: 700},
		Opt:    OptCfg{Method: MethodLBFGS, ResampleCount: DefaultResampleCount},
	}
}

// LoadConfig reads and validates a YAML configuration file.
// Returns a validated Config or an error if parsing or validation fails.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses YAML configuration from a byte slice.
// Useful for testing and programmatic config generation.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	// Auto-generate seed if not provided
	if cfg.Seed == 0 {
		cfg.Seed = generateSeed()
	}
	if cfg.Opt.Method == "" {
		cfg.Opt.Method = MethodLBFGS
	}
	if cfg.Opt.ResampleCount == 0 {
		cfg.Opt.ResampleCount = DefaultResampleCount
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks all configuration constraints.
// Returns an error describing the first validation failure, or nil if valid.
func (c *Config) Validate() error {
	if err := c.Canvas.Validate(); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	if err := c.Opt.Validate(); err != nil {
		return fmt.Errorf("optimization: %w", err)
	}
	return nil
}

// Validate checks CanvasCfg constraints.
func (c *CanvasCfg) Validate() error {
	if c.Width < 50 || c.Width > 10000 {
		return fmt.Errorf("width must be in range [50, 10000], got %f", c.Width)
	}
	if c.Height < 50 || c.Height > 10000 {
		return fmt.Errorf("height must be in range [50, 10000], got %f", c.Height)
	}
	return nil
}

// Validate checks OptCfg constraints.
func (o *OptCfg) Validate() error {
	valid := false
	for _, m := range ValidMethods {
		if o.Method == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid method %q, must be one of: GRADIENT_DESCENT, NEWTON, BFGS, L_BFGS", o.Method)
	}
	if o.ResampleCount < 1 || o.ResampleCount > 10000 {
		return fmt.Errorf("resampleCount must be in range [1, 10000], got %d", o.ResampleCount)
	}
	return nil
}

// ToYAML serializes the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// ShapeCanvas converts the canvas section to the sampler's form.
func (c *Config) ShapeCanvas() shapes.Canvas {
	return shapes.Canvas{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// Hash computes a deterministic hash of the configuration.
// Used for deriving per-stage RNG seeds.
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		// Fallback: just hash the seed if YAML fails
		h := sha256.New()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}

	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

// generateSeed creates a seed from the current time.
// Uses nanosecond precision for better uniqueness.
func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}
