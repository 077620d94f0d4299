package renderer

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/JHay0112/raytracing/pkg/core"
	"github.com/JHay0112/raytracing/pkg/imagebuf"
	"github.com/JHay0112/raytracing/pkg/integrator"
	"github.com/JHay0112/raytracing/pkg/log"
)

var logger = log.New("renderer")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	Workers         int   // Number of parallel row workers, 1 renders on the calling goroutine
	Seed            int64 // Base seed; every row derives its own random source from it
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Workers:         1,
		Seed:            42,
	}
}

// Validate checks the config can drive a render
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel %d: %w", c.SamplesPerPixel, ErrInvalidConfig)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth %d: %w", c.MaxDepth, ErrInvalidConfig)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	core.Scene
	GetCamera() *Camera
}

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	integrator integrator.Integrator
}

// NewRaytracer creates a new raytracer using the path tracing integrator
func NewRaytracer(scene Scene, width, height int) *Raytracer {
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     DefaultSamplingConfig(),
		integrator: integrator.NewPathTracingIntegrator(),
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// GetSamplingConfig returns the current sampling configuration
func (rt *Raytracer) GetSamplingConfig() SamplingConfig {
	return rt.config
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(in integrator.Integrator) {
	rt.integrator = in
}

// RenderPixel returns the gamma corrected colour of pixel (i, j), where i is the column
// and j the row counted from the bottom
func (rt *Raytracer) RenderPixel(i, j int, random *rand.Rand) core.Vec3 {
	camera := rt.scene.GetCamera()

	// Accumulate color from multiple samples
	colorAccum := core.Vec3{X: 0, Y: 0, Z: 0}
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		// Convert pixel coordinates to normalized coordinates with jitter
		u := (float64(i) + random.Float64()) / float64(rt.width)
		v := (float64(j) + random.Float64()) / float64(rt.height)

		ray := camera.GetRay(u, v)
		colorAccum = colorAccum.Add(rt.integrator.RayColor(ray, rt.scene, random, rt.config.MaxDepth))
	}

	// Average the accumulated colors, then apply gamma 2
	colorVec := colorAccum.Multiply(1.0 / float64(rt.config.SamplesPerPixel))
	return colorVec.GammaCorrect(2.0)
}

// renderRow renders one row left to right into the image
func (rt *Raytracer) renderRow(j int, img *imagebuf.Image, random *rand.Rand) {
	for i := 0; i < rt.width; i++ {
		// Set cannot fail here, Render rejects images whose size differs from the raytracer's
		_ = img.Set(j, i, rt.RenderPixel(i, j, random))
	}
	logger.Debugf("row %d complete", j)
}

// Render renders the whole frame into img, scanning rows from the top of the image down.
// Each row draws from its own random source, so the output does not depend on the worker count.
func (rt *Raytracer) Render(ctx context.Context, img *imagebuf.Image) (RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return RenderStats{}, err
	}
	if img.Width() != rt.width || img.Height() != rt.height {
		return RenderStats{}, fmt.Errorf("image %dx%d, raytracer %dx%d: %w",
			img.Width(), img.Height(), rt.width, rt.height, ErrSizeMismatch)
	}
	if rt.scene.GetCamera() == nil {
		return RenderStats{}, ErrCameraUndefined
	}

	workers := rt.config.Workers
	if workers > rt.height {
		workers = rt.height
	}
	if workers < 1 {
		workers = 1
	}

	logger.Infof("rendering %dx%d at %d spp, depth %d, %d worker(s)",
		rt.width, rt.height, rt.config.SamplesPerPixel, rt.config.MaxDepth, workers)

	start := time.Now()

	var rows []int
	var times []time.Duration
	var err error
	if workers == 1 {
		rows, times, err = rt.renderSequential(ctx, img)
	} else {
		rows, times, err = rt.renderParallel(ctx, img, workers)
	}

	stats := newRenderStats(rt.width, rt.height, rt.config, rows, times, time.Since(start))
	if err != nil {
		rendered := 0
		for _, w := range stats.Workers {
			rendered += w.Rows
		}
		logger.Warningf("render interrupted after %d of %d rows", rendered, rt.height)
		return stats, err
	}

	logger.Infof("render complete in %s", stats.RenderTime)
	return stats, nil
}

// renderSequential renders every row on the calling goroutine, returning the rows done and time spent
func (rt *Raytracer) renderSequential(ctx context.Context, img *imagebuf.Image) ([]int, []time.Duration, error) {
	rows := make([]int, 1)
	times := make([]time.Duration, 1)

	for j := rt.height - 1; j >= 0; j-- {
		if ctx.Err() != nil {
			return rows, times, ErrInterrupted
		}

		start := time.Now()
		random := rand.New(rand.NewSource(core.RowSeed(rt.config.Seed, j)))
		rt.renderRow(j, img, random)

		rows[0]++
		times[0] += time.Since(start)
	}
	return rows, times, nil
}

// renderParallel distributes rows over a worker pool, returning the rows done and time spent per worker
func (rt *Raytracer) renderParallel(ctx context.Context, img *imagebuf.Image, workers int) ([]int, []time.Duration, error) {
	pool := NewWorkerPool(rt, img, workers)
	rows := make([]int, pool.GetNumWorkers())
	times := make([]time.Duration, pool.GetNumWorkers())
	pool.Start(ctx)

	for j := rt.height - 1; j >= 0; j-- {
		pool.SubmitTask(RowTask{Row: j})
	}
	pool.Stop()

	interrupted := false
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			interrupted = true
			continue
		}
		rows[result.WorkerID]++
		times[result.WorkerID] += result.Duration
	}

	if interrupted {
		return rows, times, ErrInterrupted
	}
	return rows, times, nil
}
