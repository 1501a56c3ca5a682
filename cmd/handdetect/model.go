package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cruiser-KPI/hand-recognition/inference"
	"github.com/cruiser-KPI/hand-recognition/inference/dnn"
	"github.com/cruiser-KPI/hand-recognition/inference/providers"
)

// Model runtimes selectable with -runtime.
const (
	RuntimeONNX = "onnx"
	RuntimeDNN  = "dnn"
)

// ModelConfig selects the runtime that executes the classifier model.
type ModelConfig struct {
	Runtime string           `yaml:"runtime"`
	ONNX    providers.Config `yaml:"onnx"`
	DNN     dnn.Config       `yaml:"dnn"`
}

func defaultModelConfig() ModelConfig {
	return ModelConfig{
		Runtime: RuntimeONNX,
		ONNX:    providers.DefaultConfig(),
		DNN:     dnn.DefaultConfig(),
	}
}

// loadModelConfig reads the model section of the detector config file.
// The detector itself ignores this section.
func loadModelConfig(path string) (ModelConfig, error) {
	file := struct {
		Model ModelConfig `yaml:"model"`
	}{Model: defaultModelConfig()}

	if path == "" {
		return file.Model, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return file.Model, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file.Model, errors.Wrapf(err, "parse model section of %s", path)
	}
	return file.Model, nil
}

// setModelPath points the selected runtime at path.
func (m *ModelConfig) setModelPath(path string) {
	switch m.Runtime {
	case RuntimeDNN:
		m.DNN.ModelPath = path
	default:
		m.ONNX.ModelPath = path
	}
}

// opener returns a lazily loaded predictor for the configured runtime.
func (m ModelConfig) opener(width, height int) (*inference.Lazy, error) {
	switch m.Runtime {
	case RuntimeONNX:
		if err := m.ONNX.Validate(); err != nil {
			return nil, errors.Wrap(err, "onnx model")
		}
		return inference.NewLazy(providers.Opener(m.ONNX, width, height)), nil
	case RuntimeDNN:
		if m.DNN.ModelPath == "" {
			return nil, errors.New("dnn model: model_path is required")
		}
		return inference.NewLazy(dnn.Opener(m.DNN, width, height)), nil
	default:
		return nil, errors.Errorf("unknown runtime %q, want %s or %s", m.Runtime, RuntimeONNX, RuntimeDNN)
	}
}
