package renderer

import (
	"context"
	"image"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/integrator"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() core.Camera
	GetWorld() core.Hittable
}

// Options tune how a render is scheduled. Zero values select defaults.
type Options struct {
	NumWorkers int   // Parallel workers, 0 = CPU count
	BandHeight int   // Rows per task, 0 = DefaultBandHeight
	Seed       int64 // Base seed for the per-band generators
}

// Raytracer handles the rendering process.
// It holds no mutable state, so one instance is shared by every worker.
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	options    Options
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NewDiscardLogger()
	}
	return &Raytracer{
		scene:      scene,
		width:      width,
		height:     height,
		config:     DefaultSamplingConfig(),
		integrator: integrator.NewPathTracingIntegrator(),
		logger:     logger,
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetOptions updates the scheduling options
func (rt *Raytracer) SetOptions(options Options) {
	rt.options = options
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integratorInst integrator.Integrator) {
	rt.integrator = integratorInst
}

// Render traces every pixel in parallel and returns the finished image
func (rt *Raytracer) Render() (*image.RGBA, RenderStats) {
	img, stats, _ := rt.RenderContext(context.Background())
	return img, stats
}

// RenderContext is Render with cancellation. When ctx is done no further bands
// are started, rows in progress are abandoned, and ctx.Err() is returned with
// the partially rendered image.
func (rt *Raytracer) RenderContext(ctx context.Context) (*image.RGBA, RenderStats, error) {
	startTime := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))

	bands := NewBandGrid(rt.width, rt.height, rt.options.BandHeight, rt.options.Seed)
	pool := NewWorkerPool(rt, rt.options.NumWorkers, len(bands))

	rt.logger.Printf("Rendering %dx%d at %d samples per pixel (using %d workers)...\n",
		rt.width, rt.height, rt.config.SamplesPerPixel, pool.GetNumWorkers())

	pool.Start(ctx)
	submitted := 0
	for _, band := range bands {
		if ctx.Err() != nil {
			break
		}
		pool.SubmitTask(BandTask{Band: band, Image: img})
		submitted++
	}

	// Bands finish in any order; the image is indexed by row so output order is unaffected
	stats := RenderStats{
		Width:           rt.width,
		Height:          rt.height,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Bands:           len(bands),
		Workers:         pool.GetNumWorkers(),
	}
	rowsRemaining := rt.height
	for i := 0; i < submitted; i++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.TotalSamples += result.Samples
		if result.Rows == 0 {
			continue
		}
		rowsRemaining -= result.Rows
		rt.logger.Printf("Scanlines remaining: %d\n", rowsRemaining)
	}
	pool.Stop()

	stats.Elapsed = time.Since(startTime)
	if err := ctx.Err(); err != nil {
		rt.logger.Printf("Render cancelled after %v with %d scanlines remaining\n", stats.Elapsed, rowsRemaining)
		return img, stats, err
	}
	rt.logger.Printf("Render completed in %v\n", stats.Elapsed)

	return img, stats, nil
}

// RenderBand renders the pixels inside the band and writes them into img,
// stopping at a row boundary once ctx is done.
// Returns the number of rows finished and camera samples traced.
func (rt *Raytracer) RenderBand(ctx context.Context, band *Band, img *image.RGBA) (rows int, samples int64) {
	for y := band.Bounds.Min.Y; y < band.Bounds.Max.Y; y++ {
		if ctx.Err() != nil {
			return rows, samples
		}
		// Scene rows count up from the bottom of the image
		j := rt.height - 1 - y
		for i := band.Bounds.Min.X; i < band.Bounds.Max.X; i++ {
			colorSum := rt.SamplePixel(i, j, band.Random)
			img.SetRGBA(i, y, ColorToRGBA(colorSum, rt.config.SamplesPerPixel))
			samples += int64(rt.config.SamplesPerPixel)
		}
		rows++
	}
	return rows, samples
}

// SamplePixel sums SamplesPerPixel jittered samples for scene pixel (i, j)
func (rt *Raytracer) SamplePixel(i, j int, random *rand.Rand) core.Color {
	camera := rt.scene.GetCamera()
	world := rt.scene.GetWorld()

	colorSum := core.Color{}
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		s, t := rt.PixelCoordinates(i, j, random.Float64(), random.Float64())
		ray := camera.GetRay(s, t, random)
		colorSum = colorSum.Add(rt.integrator.RayColor(ray, world, random, rt.config.MaxDepth))
	}
	return colorSum
}

// PixelCoordinates maps pixel (i, j) plus a sub-pixel offset in [0,1) to normalized image coordinates
func (rt *Raytracer) PixelCoordinates(i, j int, du, dv float64) (s, t float64) {
	s = (float64(i) + du) / float64(rt.width)
	t = (float64(j) + dv) / float64(rt.height)
	return s, t
}

// ColorToRGBA averages a sample sum, gamma corrects it (gamma = 2.0) and converts it to 8-bit RGBA
func ColorToRGBA(colorSum core.Color, samples int) color.RGBA {
	scale := 1.0 / float64(max(samples, 1))
	c := colorSum.Multiply(scale)

	return color.RGBA{
		R: channelToByte(c.X),
		G: channelToByte(c.Y),
		B: channelToByte(c.Z),
		A: 255,
	}
}

// channelToByte gamma corrects a linear channel and scales it to [0,255].
// 256 spreads the range evenly; the final clamp keeps 1.0 from overflowing to 256.
func channelToByte(linear float64) uint8 {
	// NaN and negative values both fail this test
	if !(linear > 0) {
		return 0
	}
	gamma := math.Min(math.Sqrt(linear), 1.0)
	return uint8(min(int(256*gamma), 255))
}
