package scene

import (
	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering.
// Nothing in a scene is modified once rendering starts.
type Scene struct {
	Camera         *renderer.Camera
	World          *geometry.HittableList // Objects in the scene
	SamplingConfig renderer.SamplingConfig
	CameraConfig   renderer.CameraConfig
}

// newScene builds the camera and an empty world for the given configuration
func newScene(cameraConfig renderer.CameraConfig, samplingConfig renderer.SamplingConfig) *Scene {
	return &Scene{
		Camera:         renderer.NewCamera(cameraConfig),
		World:          geometry.NewHittableList(),
		SamplingConfig: samplingConfig,
		CameraConfig:   cameraConfig,
	}
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() core.Camera {
	return s.Camera
}

// GetWorld returns the hittable aggregate of all scene objects
func (s *Scene) GetWorld() core.Hittable {
	return s.World
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Point3, radius float64, mat core.Material) {
	s.World.Add(geometry.NewSphere(center, radius, mat))
}
