package integrator

import (
	"math/rand"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns the radiance arriving along ray, following at most depth bounces.
	// Implementations must not mutate shared state so they can run on many goroutines.
	RayColor(ray core.Ray, world core.Hittable, random *rand.Rand, depth int) core.Color
}
