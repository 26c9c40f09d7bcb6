// Package segment - Per-pixel foreground estimation behind a pluggable
// interface, so a model-backed segmenter and the color heuristic are
// interchangeable without touching downstream stages.
package segment

import (
	"github.com/sirupsen/logrus"

	"github.com/nvr-ai/go-vbg/images"
)

// Estimator consumes one raw frame and produces a per-pixel
// foreground-confidence mask sized to the frame. Implementations must be
// pure functions of the current frame; no temporal state.
type Estimator interface {
	// Estimate returns a fresh mask for the frame, 255 = definitely foreground.
	Estimate(frame *images.Frame) (*images.Mask, error)
	// Name identifies the implementation for logging.
	Name() string
}

// Config selects and parameterizes the estimator.
type Config struct {
	// ModelPath points at an ONNX portrait-segmentation model. Empty selects
	// the heuristic estimator directly.
	ModelPath string
	// InputSize is the square model input resolution. Zero uses the default.
	InputSize int
	// Heuristic parameterizes the fallback estimator.
	Heuristic HeuristicConfig
}

// DefaultConfig returns a configuration that runs the heuristic estimator.
func DefaultConfig() Config {
	return Config{
		InputSize: defaultModelInputSize,
		Heuristic: DefaultHeuristicConfig(),
	}
}

// Load builds the estimator for the given configuration. A model load
// failure is recovered locally: the heuristic estimator is returned instead
// and the failure is logged, never surfaced as an error to the caller. A
// degraded pipeline beats a stopped one.
func Load(config Config) Estimator {
	if config.ModelPath == "" {
		return NewHeuristicEstimator(config.Heuristic)
	}

	est, err := NewONNXEstimator(config)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"model_path": config.ModelPath,
			"error":      err,
		}).Warn("segmentation model load failed, falling back to heuristic estimator")
		return NewHeuristicEstimator(config.Heuristic)
	}
	return est
}
