package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Carmen-Shannon/campath/common"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// AnimatorConfig configures path playback.
type AnimatorConfig struct {
	Loop               bool  `yaml:"loop"`
	AutoReset          bool  `yaml:"auto_reset"`
	ConstantSpeed      bool  `yaml:"constant_speed"`
	QuaternionRotation *bool `yaml:"quaternion_rotation"`
	ArcSamples         int   `yaml:"arc_samples"`
	ExitFadeTicks      int   `yaml:"exit_fade_ticks"`
}

// UseQuaternions reports whether orientation blending uses quaternions. Defaults to true.
func (a AnimatorConfig) UseQuaternions() bool {
	return a.QuaternionRotation == nil || *a.QuaternionRotation
}

// CameraConfig configures the render camera projection.
type CameraConfig struct {
	Aspect  float32 `yaml:"aspect"`
	Near    float32 `yaml:"near"`
	Far     float32 `yaml:"far"`
	BaseFov float32 `yaml:"base_fov"`
}

// StoreConfig selects where paths are persisted. A non-empty YAMLDir selects the yaml
// directory backend over sqlite.
type StoreConfig struct {
	DSN     string `yaml:"dsn"`
	YAMLDir string `yaml:"yaml_dir"`
}

// PreviewConfig configures preview baking.
type PreviewConfig struct {
	Workers         int `yaml:"workers"`
	StepsPerSegment int `yaml:"steps_per_segment"`
}

// Config is the top-level campath configuration.
type Config struct {
	TickRate   float64        `yaml:"tick_rate"`
	FrameLimit float64        `yaml:"frame_limit"`
	Profiling  bool           `yaml:"profiling"`
	Animator   AnimatorConfig `yaml:"animator"`
	Camera     CameraConfig   `yaml:"camera"`
	Store      StoreConfig    `yaml:"store"`
	Preview    PreviewConfig  `yaml:"preview"`
}

// Default returns a configuration with every default applied.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads and validates the YAML configuration file at filePath.
// An empty filePath returns the defaults.
//
// Parameters:
//   - filePath: the configuration file
//
// Returns:
//   - Config: the loaded configuration with defaults applied
//   - error: if the file cannot be read, parsed or validated
func Load(filePath string) (Config, error) {
	if filePath == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", filePath, err)
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", filePath, err)
	}
	return c, nil
}

// Parse decodes a YAML configuration, applies defaults and validates it.
//
// Parameters:
//   - r: the YAML source
//
// Returns:
//   - Config: the configuration
//   - error: if decoding or validation fails
func Parse(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	c.TickRate = common.Coalesce(c.TickRate, 20)
	c.Animator.ArcSamples = common.Coalesce(c.Animator.ArcSamples, 64)
	c.Animator.ExitFadeTicks = common.Coalesce(c.Animator.ExitFadeTicks, 20)
	c.Camera.Aspect = common.Coalesce(c.Camera.Aspect, 16.0/9.0)
	c.Camera.Near = common.Coalesce(c.Camera.Near, 0.05)
	c.Camera.Far = common.Coalesce(c.Camera.Far, 1000)
	c.Camera.BaseFov = common.Coalesce(c.Camera.BaseFov, 70)
	c.Store.DSN = common.Coalesce(c.Store.DSN, "campath.db")
	c.Preview.Workers = common.Coalesce(c.Preview.Workers, 4)
	c.Preview.StepsPerSegment = common.Coalesce(c.Preview.StepsPerSegment, 32)
}

// Validate checks every value is in range.
//
// Returns:
//   - error: wrapping ErrInvalidConfig naming the first bad field, or nil
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0 || math.IsInf(c.TickRate, 0) || math.IsNaN(c.TickRate):
		return fmt.Errorf("%w: tick_rate must be positive, got %v", ErrInvalidConfig, c.TickRate)
	case c.FrameLimit < 0:
		return fmt.Errorf("%w: frame_limit must not be negative, got %v", ErrInvalidConfig, c.FrameLimit)
	case c.Animator.ArcSamples < 2:
		return fmt.Errorf("%w: animator.arc_samples must be at least 2, got %d", ErrInvalidConfig, c.Animator.ArcSamples)
	case c.Animator.ExitFadeTicks < 0:
		return fmt.Errorf("%w: animator.exit_fade_ticks must not be negative, got %d", ErrInvalidConfig, c.Animator.ExitFadeTicks)
	case c.Camera.Aspect <= 0:
		return fmt.Errorf("%w: camera.aspect must be positive, got %v", ErrInvalidConfig, c.Camera.Aspect)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera planes need 0 < near < far, got %v and %v", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	case c.Camera.BaseFov <= 0 || c.Camera.BaseFov >= 180:
		return fmt.Errorf("%w: camera.base_fov must be in (0, 180), got %v", ErrInvalidConfig, c.Camera.BaseFov)
	case c.Preview.Workers < 1:
		return fmt.Errorf("%w: preview.workers must be at least 1, got %d", ErrInvalidConfig, c.Preview.Workers)
	case c.Preview.StepsPerSegment < 2:
		return fmt.Errorf("%w: preview.steps_per_segment must be at least 2, got %d", ErrInvalidConfig, c.Preview.StepsPerSegment)
	}
	return nil
}
