package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	SamplesPerPixel int           // Samples taken for every pixel
	TotalSamples    int64         // Total camera rays traced
	Bands           int           // Number of row bands scheduled
	Workers         int           // Number of parallel workers used
	Elapsed         time.Duration // Wall-clock render time
}

// SamplesPerSecond returns the primary-ray throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Elapsed.Seconds()
}
