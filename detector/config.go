package detector

import (
	"math"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cruiser-KPI/hand-recognition/inference"
	"github.com/cruiser-KPI/hand-recognition/models"
	"github.com/cruiser-KPI/hand-recognition/proposals"
)

// Config holds the tunables of the detection pipeline.
type Config struct {
	// MinConfidence is the default confidence threshold in percent. Boxes must exceed it.
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`
	// OverlapThreshold is the default suppression threshold, 0 to 1.
	OverlapThreshold float64 `json:"overlap_threshold" yaml:"overlap_threshold"`
	// MinDim is the smallest accepted width and height of a candidate, in pixels.
	MinDim int `json:"min_dim" yaml:"min_dim"`
	// MaxScale is the largest accepted width/height or height/width ratio.
	MaxScale float64 `json:"max_scale" yaml:"max_scale"`
	// Workers bounds the number of candidates classified concurrently. 0 uses runtime.NumCPU().
	Workers int `json:"workers" yaml:"workers"`
	// Classes names the classifier outputs in order.
	Classes []string `json:"classes" yaml:"classes"`

	Classifier inference.Config `json:"classifier" yaml:"classifier"`
	Proposals  proposals.Config `json:"proposals"  yaml:"proposals"`
}

// DefaultConfig returns the thresholds the hand models were tuned with.
func DefaultConfig() Config {
	return Config{
		MinConfidence:    50,
		OverlapThreshold: 0.3,
		MinDim:           30,
		MaxScale:         1.2,
		Classes:          models.HandClasses.Names(),
		Classifier:       inference.DefaultConfig(),
		Proposals:        proposals.DefaultConfig(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := checkConfidence(c.MinConfidence); err != nil {
		return err
	}
	if err := checkOverlap(c.OverlapThreshold); err != nil {
		return err
	}
	if c.MinDim < 1 {
		return errors.Errorf("min_dim must be at least 1, got %d", c.MinDim)
	}
	if math.IsNaN(c.MaxScale) || c.MaxScale < 1 {
		return errors.Errorf("max_scale must be at least 1, got %v", c.MaxScale)
	}
	if c.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := models.NewClassSet(c.Classes...); err != nil {
		return errors.Wrap(err, "classes")
	}
	if err := c.Classifier.Validate(); err != nil {
		return errors.Wrap(err, "classifier")
	}
	return nil
}

// ClassSet returns the configured label names.
func (c Config) ClassSet() (*models.ClassSet, error) {
	return models.NewClassSet(c.Classes...)
}

// Geometry returns the candidate filter described by the configuration.
func (c Config) Geometry() GeometryFilter {
	return GeometryFilter{MinDim: c.MinDim, MaxScale: c.MaxScale}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
//
// Keys missing from the file keep their default values.
//
// Arguments:
//   - path: The YAML file to read.
//
// Returns:
//   - Config: The merged configuration.
//   - error: An error if the file cannot be read or parsed, or the result is invalid.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func checkConfidence(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return errors.Errorf("min confidence must be within [0, 100], got %v", v)
	}
	return nil
}

func checkOverlap(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return errors.Errorf("overlap threshold must be within [0, 1], got %v", v)
	}
	return nil
}
