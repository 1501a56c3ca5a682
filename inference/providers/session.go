package providers

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"

	"github.com/cruiser-KPI/hand-recognition/inference"
	"github.com/cruiser-KPI/hand-recognition/models"
)

var envMu sync.Mutex

// InitializeEnvironment loads the onnxruntime shared library once per process.
//
// Arguments:
//   - libPath: The library to load. Empty selects GetSharedLibPath().
//
// Returns:
//   - error: An error if the library is missing or fails to initialize.
func InitializeEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}

	if libPath == "" {
		var err error
		if libPath, err = GetSharedLibPath(); err != nil {
			return err
		}
	}
	if _, err := os.Stat(libPath); err != nil {
		return errors.Wrapf(err, "onnxruntime library not found at %s", libPath)
	}

	ort.SetSharedLibraryPath(libPath)
	if err := ort.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "initialize onnxruntime environment")
	}
	return nil
}

// Session is an ONNX Runtime hand classifier with pre-bound input and output
// tensors.
//
// Predict calls are serialized because the bound tensors are shared.
type Session struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	shape   []int
}

// NewSession loads the model described by cfg.
//
// Order of operations:
//  1. Environment setup: loads the native library once per process.
//  2. Node names: read from the model when the config leaves them empty.
//  3. Tensor allocation: an NHWC [1, height, width, 1] input and a
//     [1, NumLabels] output.
//  4. Session options and execution provider.
//  5. Session creation, binding the tensors.
//
// Arguments:
//   - cfg: The model, library and provider settings.
//   - width: The classifier input width.
//   - height: The classifier input height.
//
// Returns:
//   - *Session: The loaded session. The caller must Close it.
//   - error: An error if any step fails. Native resources are released on failure.
func NewSession(cfg Config, width, height int) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := InitializeEnvironment(cfg.SharedLibraryPath); err != nil {
		return nil, err
	}

	inputName, outputName, err := nodeNames(cfg)
	if err != nil {
		return nil, err
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(height), int64(width), 1))
	if err != nil {
		return nil, errors.Wrap(err, "create input tensor")
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, models.NumLabels))
	if err != nil {
		input.Destroy()
		return nil, errors.Wrap(err, "create output tensor")
	}

	options, err := SessionOptions(cfg)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, err
	}
	defer options.Destroy()

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{inputName},
		[]string{outputName},
		[]ort.Value{input},
		[]ort.Value{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, errors.Wrapf(err, "create session for %s", cfg.ModelPath)
	}

	return &Session{
		session: session,
		input:   input,
		output:  output,
		shape:   []int{1, height, width, 1},
	}, nil
}

// Opener returns an inference.Opener that creates a Session on demand.
func Opener(cfg Config, width, height int) inference.Opener {
	return func(context.Context) (inference.Predictor, error) {
		session, err := NewSession(cfg, width, height)
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

func nodeNames(cfg Config) (string, string, error) {
	if cfg.InputName != "" && cfg.OutputName != "" {
		return cfg.InputName, cfg.OutputName, nil
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return "", "", errors.Wrapf(err, "read node names from %s", cfg.ModelPath)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return "", "", errors.Errorf("expected a single input and output, %s has %d and %d",
			cfg.ModelPath, len(inputs), len(outputs))
	}

	inputName, outputName := cfg.InputName, cfg.OutputName
	if inputName == "" {
		inputName = inputs[0].Name
	}
	if outputName == "" {
		outputName = outputs[0].Name
	}
	return inputName, outputName, nil
}

// Predict implements inference.Predictor.
func (s *Session) Predict(ctx context.Context, input *tensor.Dense) ([]float32, error) {
	data, ok := input.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("input must be float32, got %v", input.Dtype())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, errors.New("session is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dst := s.input.GetData()
	if len(data) != len(dst) {
		return nil, errors.Errorf("input shape %v does not match model input %v", input.Shape(), s.shape)
	}
	copy(dst, data)

	if err := s.session.Run(); err != nil {
		return nil, errors.Wrap(err, "run session")
	}

	out := s.output.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

// Close releases the resources associated with the Session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The session references the bound tensors, so it goes first.
	var err error
	if s.session != nil {
		err = errors.Wrap(s.session.Destroy(), "destroy session")
		s.session = nil
	}
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.output != nil {
		s.output.Destroy()
		s.output = nil
	}
	return err
}
