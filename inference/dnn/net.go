// Package dnn - OpenCV DNN back-end for the hand classifier.
package dnn

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gorgonia.org/tensor"

	"github.com/cruiser-KPI/hand-recognition/inference"
)

// Config selects the model file and the OpenCV compute back-end.
type Config struct {
	// ModelPath is an ONNX, TensorFlow or Caffe model understood by cv::dnn::readNet.
	ModelPath string `json:"model_path" yaml:"model_path"`
	// ConfigPath is the optional network description for frameworks that need one.
	ConfigPath string `json:"config_path" yaml:"config_path"`
	// Backend is one of the names accepted by gocv.ParseNetBackend, e.g. "opencv" or "cuda".
	Backend string `json:"backend" yaml:"backend"`
	// Target is one of the names accepted by gocv.ParseNetTarget, e.g. "cpu" or "cuda".
	Target string `json:"target" yaml:"target"`
}

// DefaultConfig returns the plain OpenCV CPU back-end.
func DefaultConfig() Config {
	return Config{Backend: "opencv", Target: "cpu"}
}

// Net is an OpenCV DNN hand classifier.
//
// Predict calls are serialized because cv::dnn::Net keeps its input as state.
type Net struct {
	mu    sync.Mutex
	net   gocv.Net
	shape []int
}

// NewNet loads the network described by cfg for inputs of width x height.
func NewNet(cfg Config, width, height int) (*Net, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrap(err, "model file not found")
	}

	net := gocv.ReadNet(cfg.ModelPath, cfg.ConfigPath)
	if net.Empty() {
		return nil, errors.Errorf("failed to load model: %s", cfg.ModelPath)
	}

	if err := net.SetPreferableBackend(gocv.ParseNetBackend(cfg.Backend)); err != nil {
		net.Close()
		return nil, errors.Wrapf(err, "set backend %q", cfg.Backend)
	}
	if err := net.SetPreferableTarget(gocv.ParseNetTarget(cfg.Target)); err != nil {
		net.Close()
		return nil, errors.Wrapf(err, "set target %q", cfg.Target)
	}

	return &Net{net: net, shape: []int{1, height, width, 1}}, nil
}

// Opener returns an inference.Opener that loads a Net on demand.
func Opener(cfg Config, width, height int) inference.Opener {
	return func(context.Context) (inference.Predictor, error) {
		net, err := NewNet(cfg, width, height)
		if err != nil {
			return nil, err
		}
		return net, nil
	}
}

// Predict implements inference.Predictor.
func (n *Net) Predict(ctx context.Context, input *tensor.Dense) ([]float32, error) {
	data, ok := input.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("input must be float32, got %v", input.Dtype())
	}
	if len(data) != n.shape[1]*n.shape[2] {
		return nil, errors.Errorf("input shape %v does not match network input %v", input.Shape(), n.shape)
	}

	blob := gocv.NewMatWithSizes(n.shape, gocv.MatTypeCV32F)
	defer blob.Close()

	dst, err := blob.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "access input blob")
	}
	copy(dst, data)

	n.mu.Lock()
	defer n.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n.net.SetInput(blob, "")
	out := n.net.Forward("")
	defer out.Close()

	scores, err := out.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "read network output")
	}
	return append([]float32(nil), scores...), nil
}

// Close releases the network.
func (n *Net) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.net.Close()
}
