package providers

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
)

// SharedLibPathEnv overrides the onnxruntime shared library location.
const SharedLibPathEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

// GetSharedLibPath returns the path to the shared library for the current platform.
//
// Returns:
//   - string: The path to the shared library.
//   - error: An error if the platform has no bundled library and SharedLibPathEnv is unset.
func GetSharedLibPath() (string, error) {
	if path := os.Getenv(SharedLibPathEnv); path != "" {
		return path, nil
	}

	switch runtime.GOOS {
	case "windows":
		if runtime.GOARCH == "amd64" {
			return "./third_party/onnxruntime.dll", nil
		}
	case "darwin":
		return "./third_party/libonnxruntime.dylib", nil
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "./third_party/onnxruntime_arm64.so", nil
		}
		return "./third_party/onnxruntime.so", nil
	}
	return "", errors.Errorf("no onnxruntime library for %s/%s, set %s", runtime.GOOS, runtime.GOARCH, SharedLibPathEnv)
}
