package renderer

import (
	"image"
	"math/rand"
)

// DefaultBandHeight is the number of image rows rendered as one task
const DefaultBandHeight = 8

// Band is a contiguous run of display rows rendered by a single worker
type Band struct {
	ID     int             // Unique band identifier, also its position in the image
	Bounds image.Rectangle // Pixel bounds in display coordinates (row 0 at the top)
	Random *rand.Rand      // Band-specific random generator for deterministic results
}

// NewBandRandom returns the generator used by band id for a given render seed.
// The seed is mixed before the band ID is added so neighbouring seeds do not
// share streams with shifted bands.
func NewBandRandom(seed int64, id int) *rand.Rand {
	return rand.New(rand.NewSource(int64(splitMix64(splitMix64(uint64(seed)) + uint64(id)))))
}

// splitMix64 is the SplitMix64 finalizer
func splitMix64(z uint64) uint64 {
	z += 0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// NewBand creates a new band with the specified bounds
func NewBand(id int, bounds image.Rectangle, seed int64) *Band {
	return &Band{
		ID:     id,
		Bounds: bounds,
		Random: NewBandRandom(seed, id),
	}
}

// NewBandGrid splits the image into horizontal bands of at most bandHeight rows
func NewBandGrid(width, height, bandHeight int, seed int64) []*Band {
	if bandHeight <= 0 {
		bandHeight = DefaultBandHeight
	}

	var bands []*Band
	for y0, id := 0, 0; y0 < height; y0, id = y0+bandHeight, id+1 {
		y1 := min(y0+bandHeight, height) // Don't exceed image bounds
		bands = append(bands, NewBand(id, image.Rect(0, y0, width, y1), seed))
	}
	return bands
}
