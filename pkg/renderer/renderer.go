package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"pathtracer/pkg/core"
	"pathtracer/pkg/geometry"
	"pathtracer/pkg/scene"
)

// Renderer owns the frame loop: it accumulates radiance across frames and
// writes one progressively refined PNG per frame.
type Renderer struct {
	scene       *scene.Scene
	width       int
	height      int
	numWorkers  int
	outputDir   string
	accumulated [][]core.Vec3
	frameCount  int
	logger      *zap.SugaredLogger
}

// NewRenderer creates a renderer for the scene. outputDir receives the
// per-frame PNG files; an empty string means the current directory.
func NewRenderer(sc *scene.Scene, numWorkers int, outputDir string, logger *zap.SugaredLogger) *Renderer {
	return &Renderer{
		scene:      sc,
		width:      sc.Width,
		height:     sc.Height,
		numWorkers: numWorkers,
		outputDir:  outputDir,
		logger:     logger,
	}
}

// FrameCount returns the number of completed frames
func (r *Renderer) FrameCount() int {
	return r.frameCount
}

// Render runs the full frame loop: build the BVH, then for each frame
// accumulate one sample per sub-pixel and write the averaged image
func (r *Renderer) Render() error {
	r.resetAccumulator()

	buildStart := time.Now()
	bvh := geometry.NewBVH(r.scene.Triangles)
	r.logger.Infof("built BVH over %d triangles in %v", len(r.scene.Triangles), time.Since(buildStart))

	camera := NewCamera(
		r.scene.CameraOrigin, r.scene.CameraLookAt,
		r.scene.FocalLength, r.scene.RotateAngle,
		r.width, r.height,
	)

	pool := NewWorkerPool(r.scene, bvh, camera, r.accumulated, r.numWorkers)
	pool.Start()
	defer pool.Stop()

	r.logger.Infof("rendering %d frames at %dx%d with %d workers",
		r.scene.FrameCount, r.width, r.height, pool.NumWorkers())

	for frame := 1; frame <= r.scene.FrameCount; frame++ {
		frameStart := time.Now()
		pool.RenderFrame(r.height)
		r.frameCount = frame

		path := filepath.Join(r.outputDir, fmt.Sprintf("out_%03d.png", frame))
		if err := r.writePNG(path); err != nil {
			return err
		}
		r.logger.Infof("frame %d/%d rendered in %v, wrote %s",
			frame, r.scene.FrameCount, time.Since(frameStart), path)
	}

	return nil
}

// resetAccumulator sizes the accumulator to the image and zeroes it
func (r *Renderer) resetAccumulator() {
	r.accumulated = make([][]core.Vec3, r.height)
	for y := range r.accumulated {
		r.accumulated[y] = make([]core.Vec3, r.width)
	}
	r.frameCount = 0
}

// CurrentImage averages the accumulator over the completed frames and
// converts it to an 8-bit RGB image with gamma 2.2
func (r *Renderer) CurrentImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	scale := 1.0 / float64(r.frameCount)

	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			averaged := r.accumulated[y][x].Multiply(scale).GammaCorrect(2.2)
			img.Set(x, y, color.RGBA{
				R: toByte(averaged.X),
				G: toByte(averaged.Y),
				B: toByte(averaged.Z),
				A: 255,
			})
		}
	}
	return img
}

// toByte clamps a [0,1] channel to an 8-bit value
func toByte(channel float64) uint8 {
	scaled := math.Round(channel * 255.0)
	if scaled > 255 {
		return 255
	}
	if scaled < 0 {
		return 0
	}
	return uint8(scaled)
}

// writePNG encodes the current averaged image to path
func (r *Renderer) writePNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, r.CurrentImage()); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
