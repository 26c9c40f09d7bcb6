package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nvr-ai/go-vbg/background"
	"github.com/nvr-ai/go-vbg/catalog"
	"github.com/nvr-ai/go-vbg/composite"
	"github.com/nvr-ai/go-vbg/images"
	"github.com/nvr-ai/go-vbg/images/kernels"
	"github.com/nvr-ai/go-vbg/segment"
)

// State is the controller lifecycle state.
type State int

const (
	// StateUninitialized means no frame source is bound yet.
	StateUninitialized State = iota
	// StateReady means buffers are sized and the loop can start.
	StateReady
	// StateRunning means the tick loop is live.
	StateRunning
	// StateStopped means the loop was stopped; Start returns it to Running.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Lifecycle errors.
var (
	ErrNotInitialized     = errors.New("pipeline: controller not initialized")
	ErrAlreadyInitialized = errors.New("pipeline: controller already initialized")
	ErrNotStartable       = errors.New("pipeline: controller must be ready or stopped to start")
)

// Config parameterizes a pipeline controller.
type Config struct {
	// TargetFPS is the output frame rate. Zero uses the 30fps reference rate.
	TargetFPS int
	// OutputBuffer is the frame channel depth toward the consumer. Zero
	// buffers a single frame.
	OutputBuffer int
	// Segmentation selects the estimator; an unset model path means the
	// heuristic runs from the start.
	Segmentation segment.Config
	// Estimator, when non-nil, is used directly instead of loading one from
	// Segmentation. This is the substitution point for custom segmenters.
	Estimator segment.Estimator
	// Catalog resolves image references in background configs. Optional.
	Catalog *catalog.Catalog
}

// DefaultConfig returns the reference configuration: 30fps, heuristic
// segmentation.
func DefaultConfig() Config {
	return Config{
		TargetFPS:    30,
		OutputBuffer: 1,
		Segmentation: segment.DefaultConfig(),
	}
}

// Controller owns the pipeline session state: the current background, the
// buffer dimensions, and the running flag. It is an explicit owned object —
// construct one per stream; there is no shared instance, so concurrent
// pipelines (picture-in-picture) are just two controllers.
type Controller struct {
	mu     sync.Mutex
	config Config
	state  State

	source    FrameSource
	estimator segment.Estimator
	refiner   *kernels.Refiner
	renderer  *background.Renderer

	width   int
	height  int
	bgFrame *images.Frame
	out     chan *images.Frame
	done    chan struct{}

	frames    int64 // processed frame count, atomic
	startedAt time.Time

	log *logrus.Entry
}

// NewController creates a controller in the Uninitialized state.
func NewController(config Config) *Controller {
	if config.TargetFPS <= 0 {
		config.TargetFPS = 30
	}
	if config.OutputBuffer <= 0 {
		config.OutputBuffer = 1
	}
	return &Controller{
		config:   config,
		state:    StateUninitialized,
		refiner:  kernels.NewRefiner(),
		renderer: background.NewRenderer(),
		out:      make(chan *images.Frame, config.OutputBuffer),
		log:      logrus.WithField("component", "pipeline"),
	}
}

// Initialize binds the controller to a live frame source, sizes the internal
// buffers to the source's current dimensions, and loads the segmentation
// estimator (falling back to the heuristic if a configured model fails to
// load). A source with zero dimensions is fatal and leaves the controller
// Uninitialized.
func (c *Controller) Initialize(source FrameSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUninitialized {
		return ErrAlreadyInitialized
	}
	if source == nil {
		return errors.New("pipeline: nil frame source")
	}
	width, height := source.Dimensions()
	if width <= 0 || height <= 0 {
		return errors.Errorf("pipeline: frame source reports invalid dimensions %dx%d", width, height)
	}

	c.source = source
	c.estimator = c.config.Estimator
	if c.estimator == nil {
		c.estimator = segment.Load(c.config.Segmentation)
	}
	c.resizeBuffers(width, height)
	c.state = StateReady

	c.log.WithFields(logrus.Fields{
		"width":     width,
		"height":    height,
		"estimator": c.estimator.Name(),
		"fps":       c.config.TargetFPS,
	}).Info("pipeline initialized")
	return nil
}

// SetBackground resolves and applies a background configuration. Valid in
// any state. Resolution — including hex parsing and image decoding —
// completes before the swap, so a bad configuration is rejected here and the
// previously active background stays in effect; the running tick loop is
// never interrupted.
func (c *Controller) SetBackground(cfg background.Config) error {
	res, err := background.Resolve(cfg, c.config.Catalog)
	if err != nil {
		return err
	}
	c.renderer.Set(res)
	c.log.WithFields(logrus.Fields{
		"kind":  res.Descriptor.Kind,
		"value": res.Descriptor.Value,
	}).Info("background changed")
	return nil
}

// CurrentBackground returns the active background descriptor.
func (c *Controller) CurrentBackground() catalog.Descriptor {
	return c.renderer.Current()
}

// Start begins the per-tick processing loop. Valid from Ready or Stopped.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateReady, StateStopped:
	case StateRunning:
		return nil
	default:
		return ErrNotStartable
	}

	c.state = StateRunning
	c.done = make(chan struct{})
	c.startedAt = time.Now()
	go c.loop(c.done)
	c.log.Info("pipeline started")
	return nil
}

// Stop cancels the scheduled next tick and halts the loop. Idempotent. Any
// tick already scheduled observes the state change at its top and returns
// without touching the buffers.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return
	}
	c.state = StateStopped
	close(c.done)
	c.log.Info("pipeline stopped")
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dimensions returns the current buffer dimensions.
func (c *Controller) Dimensions() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// FramesProcessed returns the number of completed pipeline passes.
func (c *Controller) FramesProcessed() int64 {
	return atomic.LoadInt64(&c.frames)
}

// EffectiveFPS returns the measured output frame rate since Start.
func (c *Controller) EffectiveFPS() float64 {
	c.mu.Lock()
	started := c.startedAt
	c.mu.Unlock()
	if started.IsZero() {
		return 0
	}
	elapsed := time.Since(started).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(atomic.LoadInt64(&c.frames)) / elapsed
}

// Output returns the processed frame channel.
func (c *Controller) Output() <-chan *images.Frame {
	return c.out
}

// loop runs one pass per display tick. The pass executes synchronously
// inside the tick, so a slow frame delays the next tick instead of queuing
// work — natural backpressure.
func (c *Controller) loop(done <-chan struct{}) {
	interval := time.Second / time.Duration(c.config.TargetFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.tick(); err != nil {
				c.log.WithError(err).Warn("pipeline pass failed")
			}
		}
	}
}

// tick runs one pass if the controller is still running. The state check at
// the top guarantees a tick scheduled before Stop never runs its body after.
func (c *Controller) tick() error {
	c.mu.Lock()
	if c.state != StateRunning {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.ProcessFrame()
}

// ProcessFrame pulls one frame through the full pipeline pass:
// capture → segment → refine → render → composite → publish. Exposed so
// callers driving their own cadence (or tests) can run passes directly.
func (c *Controller) ProcessFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateUninitialized {
		return ErrNotInitialized
	}

	frame, err := c.source.Read()
	if err != nil {
		return errors.Wrap(err, "pipeline: read frame")
	}

	// Never process mismatched buffer sizes: resize everything first when the
	// source dimensions changed since the last tick.
	if frame.Width != c.width || frame.Height != c.height {
		c.log.WithFields(logrus.Fields{
			"from_width":  c.width,
			"from_height": c.height,
			"to_width":    frame.Width,
			"to_height":   frame.Height,
		}).Info("source dimensions changed, resizing buffers")
		c.resizeBuffers(frame.Width, frame.Height)
	}

	out := images.NewFrame(c.width, c.height)

	// Pass-through short-circuit: no mask, no compositing cost.
	if c.renderer.Kind() == catalog.KindNone {
		out.CopyFrom(frame)
		c.publish(out)
		return nil
	}

	mask, err := c.estimator.Estimate(frame)
	if err != nil {
		return errors.Wrap(err, "pipeline: estimate mask")
	}
	c.refiner.Refine(mask)
	c.renderer.Render(frame, c.bgFrame)
	if err := composite.Composite(frame, c.bgFrame, mask, out); err != nil {
		return err
	}
	c.publish(out)
	return nil
}

// publish hands a finished frame to the consumer, dropping it when the
// channel is full so a slow consumer can never stall the tick loop.
func (c *Controller) publish(frame *images.Frame) {
	atomic.AddInt64(&c.frames, 1)
	select {
	case c.out <- frame:
	default:
	}
}

// resizeBuffers reallocates every internal buffer for the new dimensions.
// Caller holds c.mu.
func (c *Controller) resizeBuffers(width, height int) {
	c.width = width
	c.height = height
	c.bgFrame = images.NewFrame(width, height)
}

// CreateProcessedStream wires a fresh controller to an input stream, applies
// the config-derived background, starts the loop, and returns the output
// stream with the input's audio tracks copied across unchanged.
func CreateProcessedStream(input InputStream, bg background.Config, config Config) (*Controller, *OutputStream, error) {
	c := NewController(config)
	if err := c.Initialize(input.Video); err != nil {
		return nil, nil, err
	}
	if err := c.SetBackground(bg); err != nil {
		return nil, nil, err
	}
	if err := c.Start(); err != nil {
		return nil, nil, err
	}
	return c, &OutputStream{frames: c.out, audio: input.Audio}, nil
}
