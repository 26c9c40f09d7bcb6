// Command vbg runs the virtual-background pipeline against a local webcam
// and previews the composited output in a window.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-vbg/background"
	"github.com/nvr-ai/go-vbg/catalog"
	"github.com/nvr-ai/go-vbg/images"
	"github.com/nvr-ai/go-vbg/pipeline"
	"github.com/nvr-ai/go-vbg/segment"
)

// webcamSource adapts a gocv capture device to the pipeline's FrameSource.
type webcamSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

func newWebcamSource(deviceID int) (*webcamSource, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("opening capture device %d: %w", deviceID, err)
	}
	return &webcamSource{capture: capture, mat: gocv.NewMat()}, nil
}

func (s *webcamSource) Read() (*images.Frame, error) {
	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, fmt.Errorf("cannot read frame from capture device")
	}
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, err
	}
	return images.FrameFromImage(img), nil
}

func (s *webcamSource) Dimensions() (int, int) {
	return int(s.capture.Get(gocv.VideoCaptureFrameWidth)),
		int(s.capture.Get(gocv.VideoCaptureFrameHeight))
}

func (s *webcamSource) Close() {
	s.mat.Close()
	s.capture.Close()
}

func main() {
	var (
		deviceID  = flag.Int("device", 0, "video capture device id")
		kind      = flag.String("kind", "blur", "background kind: none|blur|color|image")
		blur      = flag.Int("blur", 10, "blur strength in pixels")
		hexColor  = flag.String("color", "#14532d", "background color hex string")
		imagePath = flag.String("image", "", "background image path")
		modelPath = flag.String("model", "", "ONNX segmentation model path (empty: heuristic)")
		bgDir     = flag.String("backgrounds", "", "directory of user background images to seed")
	)
	flag.Parse()

	cat := catalog.New()
	if *bgDir != "" {
		added, err := cat.LoadDirectoryImages(*bgDir)
		if err != nil {
			log.Fatalf("loading backgrounds from %s: %v", *bgDir, err)
		}
		log.Printf("seeded %d user backgrounds", len(added))
	}

	source, err := newWebcamSource(*deviceID)
	if err != nil {
		log.Fatal(err)
	}
	defer source.Close()

	config := pipeline.DefaultConfig()
	config.Catalog = cat
	config.Segmentation = segment.Config{
		ModelPath: *modelPath,
		Heuristic: segment.DefaultHeuristicConfig(),
	}

	bg := background.Config{
		Kind:         catalog.Kind(*kind),
		BlurStrength: *blur,
		Color:        *hexColor,
		ImageRef:     *imagePath,
	}

	controller, stream, err := pipeline.CreateProcessedStream(
		pipeline.InputStream{Video: source}, bg, config,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer controller.Stop()

	window := gocv.NewWindow("Virtual Background")
	defer window.Close()

	width, height := controller.Dimensions()
	log.Printf("processing device %d at %dx%d, background=%s",
		*deviceID, width, height, controller.CurrentBackground().Kind)

	lastReport := time.Now()
	for frame := range stream.Frames() {
		mat, err := gocv.ImageToMatRGBA(frame.ToImage())
		if err != nil {
			log.Printf("convert output frame: %v", err)
			continue
		}
		bgr := gocv.NewMat()
		gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
		window.IMShow(bgr)
		mat.Close()
		bgr.Close()

		if time.Since(lastReport) >= time.Second {
			log.Printf("frames=%d fps=%.1f", controller.FramesProcessed(), controller.EffectiveFPS())
			lastReport = time.Now()
		}

		if window.WaitKey(1) == 27 { // ESC
			break
		}
	}
}
