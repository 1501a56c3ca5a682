// Package providers - ONNX Runtime back-end for the hand classifier.
package providers

import (
	"runtime"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// ProviderBackend represents different ONNX Runtime execution providers
type ProviderBackend string

const (
	// CPUProviderBackend runs the model on the default CPU provider.
	CPUProviderBackend ProviderBackend = "cpu"
)

// Config selects the model, the native library and the execution provider.
type Config struct {
	// Backend specifies the execution provider to use.
	Backend ProviderBackend `json:"backend" yaml:"backend"`
	// ModelPath is the path of the ONNX model file.
	ModelPath string `json:"model_path" yaml:"model_path"`
	// SharedLibraryPath overrides the platform default onnxruntime library.
	SharedLibraryPath string `json:"shared_library_path" yaml:"shared_library_path"`
	// InputName and OutputName name the model's graph nodes. Empty names are
	// read from the model file.
	InputName  string `json:"input_name"  yaml:"input_name"`
	OutputName string `json:"output_name" yaml:"output_name"`
	// IntraOpNumThreads sets threads for parallelizing ops. 0 lets the runtime decide.
	IntraOpNumThreads int `json:"intra_op_num_threads" yaml:"intra_op_num_threads"`
	// InterOpNumThreads sets threads for parallelizing independent ops.
	InterOpNumThreads int `json:"inter_op_num_threads" yaml:"inter_op_num_threads"`
	// DisableOptimizations turns off graph rewrites, useful when debugging a model.
	DisableOptimizations bool `json:"disable_optimizations" yaml:"disable_optimizations"`

	CUDA     CUDAOptions     `json:"cuda"     yaml:"cuda"`
	CoreML   CoreMLOptions   `json:"coreml"   yaml:"coreml"`
	OpenVINO OpenVINOOptions `json:"openvino" yaml:"openvino"`
}

// DefaultConfig returns a CPU configuration that uses half of the available cores.
func DefaultConfig() Config {
	return Config{
		Backend:           CPUProviderBackend,
		IntraOpNumThreads: max(1, runtime.NumCPU()/2),
		InterOpNumThreads: 1,
		CUDA:              DefaultCUDAOptions(),
		OpenVINO:          DefaultOpenVINOOptions(),
	}
}

// Validate checks the configuration without touching the native library.
func (c Config) Validate() error {
	switch c.Backend {
	case CPUProviderBackend, CUDAProviderBackend, CoreMLProviderBackend, OpenVINOProviderBackend:
	case "":
		return errors.New("backend is required")
	default:
		return errors.Errorf("no matching provider backend registered: %s", c.Backend)
	}
	if c.ModelPath == "" {
		return errors.New("model_path is required")
	}
	if c.IntraOpNumThreads < 0 || c.InterOpNumThreads < 0 {
		return errors.Errorf("thread counts must not be negative, got %d/%d", c.IntraOpNumThreads, c.InterOpNumThreads)
	}
	return nil
}

// OptimizationLevel returns the graph optimization level sessions run with.
func (c Config) OptimizationLevel() ort.GraphOptimizationLevel {
	var level ort.GraphOptimizationLevel = ort.GraphOptimizationLevelEnableExtended
	if c.DisableOptimizations {
		level = ort.GraphOptimizationLevelDisableAll
	}
	return level
}

// SessionOptions creates ONNX Runtime session options for c.
//
// The caller owns the returned options and must Destroy them.
func SessionOptions(c Config) (*ort.SessionOptions, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "create session options")
	}

	if err := configure(options, c); err != nil {
		options.Destroy()
		return nil, err
	}
	return options, nil
}

func configure(options *ort.SessionOptions, c Config) error {
	if err := options.SetIntraOpNumThreads(c.IntraOpNumThreads); err != nil {
		return errors.Wrap(err, "set intra-op threads")
	}
	if err := options.SetInterOpNumThreads(c.InterOpNumThreads); err != nil {
		return errors.Wrap(err, "set inter-op threads")
	}

	if err := options.SetGraphOptimizationLevel(c.OptimizationLevel()); err != nil {
		return errors.Wrap(err, "set graph optimization level")
	}

	switch c.Backend {
	case CPUProviderBackend:
	case CoreMLProviderBackend:
		if err := options.AppendExecutionProviderCoreML(c.CoreML.Flags()); err != nil {
			return errors.Wrap(err, "enable CoreML")
		}
	case OpenVINOProviderBackend:
		if err := options.AppendExecutionProviderOpenVINO(c.OpenVINO.Map()); err != nil {
			return errors.Wrap(err, "enable OpenVINO")
		}
	case CUDAProviderBackend:
		cuda, err := c.CUDA.ToNativeProviderOptions()
		if err != nil {
			return errors.Wrap(err, "convert CUDA options")
		}
		defer cuda.Destroy()
		if err := options.AppendExecutionProviderCUDA(cuda); err != nil {
			return errors.Wrap(err, "enable CUDA")
		}
	default:
		return errors.Errorf("no matching provider backend registered: %s", c.Backend)
	}
	return nil
}
