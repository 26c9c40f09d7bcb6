// Package segment - ONNX model-backed foreground estimation.
package segment

import (
	"os"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/nvr-ai/go-vbg/images"
)

// defaultModelInputSize is the square input resolution used when the config
// does not specify one. Portrait segmentation models in the 256px class keep
// inference well inside a 33ms tick on CPU.
const defaultModelInputSize = 256

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initRuntime initializes the ONNX runtime environment once per process.
func initRuntime() error {
	ortInitOnce.Do(func() {
		libPath, err := sharedLibPath()
		if err != nil {
			ortInitErr = err
			return
		}
		if _, err := os.Stat(libPath); os.IsNotExist(err) {
			ortInitErr = errors.Wrapf(err, "onnxruntime library not found at %s", libPath)
			return
		}
		ort.SetSharedLibraryPath(libPath)
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// sharedLibPath returns the platform-specific onnxruntime shared library path.
func sharedLibPath() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if runtime.GOARCH == "amd64" {
			return "third_party/onnxruntime.dll", nil
		}
	case "darwin":
		return "third_party/libonnxruntime.dylib", nil
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "third_party/onnxruntime_arm64.so", nil
		}
		return "third_party/onnxruntime.so", nil
	}
	return "", errors.Errorf("no onnxruntime library for %s/%s", runtime.GOOS, runtime.GOARCH)
}

// ONNXEstimator runs a portrait-segmentation model: the frame is scaled to
// the model's square input, normalized to [0,1] NCHW, and the output
// probability map is upsampled back to frame dimensions. It satisfies the
// same Estimator contract as the heuristic, so callers never know which one
// is active.
type ONNXEstimator struct {
	mu        sync.Mutex
	session   *ort.AdvancedSession
	input     *ort.Tensor[float32]
	output    *ort.Tensor[float32]
	inputSize int
}

// NewONNXEstimator loads the model at config.ModelPath and prepares a
// reusable inference session. Any failure here is recoverable by the caller
// through the heuristic fallback.
func NewONNXEstimator(config Config) (*ONNXEstimator, error) {
	if err := initRuntime(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, errors.Wrap(err, "segmentation model")
	}

	size := config.InputSize
	if size <= 0 {
		size = defaultModelInputSize
	}

	inputShape := ort.NewShape(1, 3, int64(size), int64(size))
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, errors.Wrap(err, "creating input tensor")
	}

	outputShape := ort.NewShape(1, 1, int64(size), int64(size))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "creating output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "creating session options")
	}
	defer options.Destroy()

	// Keep intra-op parallelism modest; the pipeline already parallelizes the
	// blur and refine kernels on the same cores.
	options.SetIntraOpNumThreads(2)
	options.SetInterOpNumThreads(1)
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		config.ModelPath,
		[]string{"input"},
		[]string{"output"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "creating inference session")
	}

	return &ONNXEstimator{
		session:   session,
		input:     inputTensor,
		output:    outputTensor,
		inputSize: size,
	}, nil
}

// Name identifies the implementation for logging.
func (e *ONNXEstimator) Name() string {
	return "onnx"
}

// Estimate scales the frame to model resolution, runs the session, and
// upsamples the probability map back to frame dimensions.
func (e *ONNXEstimator) Estimate(frame *images.Frame) (*images.Mask, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	size := e.inputSize
	scaled := images.ScaleFrame(frame, size, size)

	// NCHW float32 in [0,1].
	data := e.input.GetData()
	plane := size * size
	for i := 0; i < plane; i++ {
		off := i * 4
		data[i] = float32(scaled.Pix[off]) / 255
		data[plane+i] = float32(scaled.Pix[off+1]) / 255
		data[2*plane+i] = float32(scaled.Pix[off+2]) / 255
	}

	if err := e.session.Run(); err != nil {
		return nil, errors.Wrap(err, "running segmentation model")
	}

	probs := e.output.GetData()
	mask := images.NewMask(frame.Width, frame.Height)
	for y := 0; y < frame.Height; y++ {
		srcY := y * size / frame.Height
		for x := 0; x < frame.Width; x++ {
			srcX := x * size / frame.Width
			p := probs[srcY*size+srcX]
			if p < 0 {
				p = 0
			} else if p > 1 {
				p = 1
			}
			mask.Pix[y*frame.Width+x] = uint8(p * 255)
		}
	}
	return mask, nil
}

// Close releases the session and tensors.
func (e *ONNXEstimator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	if e.input != nil {
		e.input.Destroy()
		e.input = nil
	}
	if e.output != nil {
		e.output.Destroy()
		e.output = nil
	}
}
