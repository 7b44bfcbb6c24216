package scene

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScene is returned when a scene ID is not registered
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier used on the command line
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Short description
}

type sceneEntry struct {
	info  SceneInfo
	build func(aspectRatio float64, seed int64) *Scene
}

var registry = map[string]sceneEntry{
	"default": {
		info: SceneInfo{ID: "default", DisplayName: "Three Spheres", Description: "Diffuse, hollow glass and gold spheres on a ground sphere"},
		build: func(aspectRatio float64, _ int64) *Scene {
			return NewDefaultScene(aspectRatio)
		},
	},
	"random": {
		info:  SceneInfo{ID: "random", DisplayName: "Random Spheres", Description: "Field of random small spheres around three large ones"},
		build: NewRandomScene,
	},
	"spheregrid": {
		info: SceneInfo{ID: "spheregrid", DisplayName: "Sphere Grid", Description: "Grid of colored metal spheres"},
		build: func(aspectRatio float64, _ int64) *Scene {
			return NewSphereGridScene(aspectRatio)
		},
	},
	"empty": {
		info: SceneInfo{ID: "empty", DisplayName: "Empty Sky", Description: "No objects, only the sky gradient"},
		build: func(aspectRatio float64, _ int64) *Scene {
			return NewEmptyScene(aspectRatio)
		},
	},
}

// ListScenes returns every built-in scene sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(registry))
	for _, entry := range registry {
		scenes = append(scenes, entry.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// NewScene builds the named scene for the given image aspect ratio
func NewScene(id string, aspectRatio float64, seed int64) (*Scene, error) {
	entry, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	return entry.build(aspectRatio, seed), nil
}
