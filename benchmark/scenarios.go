package benchmark

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/cruiser-KPI/hand-recognition/proposals"
)

// Resolution represents image dimensions for benchmarking. A zero Resolution
// keeps the images at their native size.
type Resolution struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Name   string `json:"name"`
}

// Native keeps the input images unchanged.
var Native = Resolution{Name: "native"}

// CommonResolutions are typical camera frame sizes.
var CommonResolutions = []Resolution{
	{Width: 320, Height: 240, Name: "320x240"},
	{Width: 640, Height: 480, Name: "640x480"},
	{Width: 1280, Height: 720, Name: "1280x720"},
}

// Scenario defines one benchmark configuration.
type Scenario struct {
	Name       string     `json:"name"`
	Method     string     `json:"method"`
	Resolution Resolution `json:"resolution"`
	Workers    int        `json:"workers"`
	Iterations int        `json:"iterations"`
	WarmupRuns int        `json:"warmup_runs"`
}

// Validate checks the scenario.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name is required")
	}
	if s.Iterations < 1 {
		return errors.Errorf("scenario %s: iterations must be at least 1", s.Name)
	}
	if s.WarmupRuns < 0 || s.Workers < 0 {
		return errors.Errorf("scenario %s: warmup runs and workers must not be negative", s.Name)
	}
	if s.Resolution.Width < 0 || s.Resolution.Height < 0 || (s.Resolution.Width == 0) != (s.Resolution.Height == 0) {
		return errors.Errorf("scenario %s: invalid resolution %dx%d", s.Name, s.Resolution.Width, s.Resolution.Height)
	}
	return nil
}

// ScenarioBuilder provides a fluent interface for building scenarios
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder creates a builder with one iteration at native resolution
// using the default proposal method.
func NewScenarioBuilder(name string) *ScenarioBuilder {
	return &ScenarioBuilder{
		scenario: Scenario{
			Name:       name,
			Method:     proposals.DefaultConfig().Method,
			Resolution: Native,
			Iterations: 1,
		},
	}
}

// WithMethod sets the proposal method.
func (sb *ScenarioBuilder) WithMethod(method string) *ScenarioBuilder {
	sb.scenario.Method = method
	return sb
}

// WithResolution resizes the inputs to width x height.
func (sb *ScenarioBuilder) WithResolution(resolution Resolution) *ScenarioBuilder {
	sb.scenario.Resolution = resolution
	return sb
}

// WithWorkers sets the number of concurrent classifications.
func (sb *ScenarioBuilder) WithWorkers(workers int) *ScenarioBuilder {
	sb.scenario.Workers = workers
	return sb
}

// WithIterations sets the number of measured runs.
func (sb *ScenarioBuilder) WithIterations(iterations int) *ScenarioBuilder {
	sb.scenario.Iterations = iterations
	return sb
}

// WithWarmupRuns sets the number of unmeasured runs before the measurement.
func (sb *ScenarioBuilder) WithWarmupRuns(warmups int) *ScenarioBuilder {
	sb.scenario.WarmupRuns = warmups
	return sb
}

// Build returns the scenario.
func (sb *ScenarioBuilder) Build() Scenario {
	return sb.scenario
}

// MethodComparison returns one scenario per registered proposal method.
func MethodComparison(resolution Resolution, iterations, warmups int) []Scenario {
	var scenarios []Scenario
	for _, method := range proposals.Methods() {
		scenarios = append(scenarios, NewScenarioBuilder(method+"_"+resolution.Name).
			WithMethod(method).
			WithResolution(resolution).
			WithIterations(iterations).
			WithWarmupRuns(warmups).
			Build())
	}
	return scenarios
}

// SaveScenarios writes scenarios to a JSON file.
func SaveScenarios(scenarios []Scenario, filename string) error {
	data, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal scenarios")
	}
	return errors.Wrap(os.WriteFile(filename, data, 0o644), "write scenarios")
}

// LoadScenarios reads scenarios written by SaveScenarios.
func LoadScenarios(filename string) ([]Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read scenarios")
	}
	var scenarios []Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, errors.Wrapf(err, "parse scenarios %s", filename)
	}
	return scenarios, nil
}
