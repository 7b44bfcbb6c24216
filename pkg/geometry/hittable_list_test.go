package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

type stubMaterial struct{ name string }

func (m *stubMaterial) Scatter(core.Ray, core.HitRecord, *rand.Rand) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

func TestHittableList_Empty(t *testing.T) {
	world := NewHittableList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if hit, isHit := world.Hit(ray, 0.001, math.Inf(1)); isHit || hit != nil {
		t.Errorf("Expected no hit from empty list, got %+v", hit)
	}
}

func TestHittableList_ClosestHit(t *testing.T) {
	near := &stubMaterial{name: "near"}
	far := &stubMaterial{name: "far"}
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

	nearSphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, near)
	farSphere := NewSphere(core.NewVec3(0, 0, -1), 1.5, far)

	orders := map[string]*HittableList{
		"near first": NewHittableList(nearSphere, farSphere),
		"far first":  NewHittableList(farSphere, nearSphere),
	}

	for name, world := range orders {
		t.Run(name, func(t *testing.T) {
			hit, isHit := world.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit")
			}
			// near sphere front at z=1 (t=4), far sphere front at z=0.5 (t=4.5)
			if math.Abs(hit.T-4.0) > 1e-9 {
				t.Errorf("Expected closest t=4, got %f", hit.T)
			}
			if hit.Material != near {
				t.Errorf("Expected material of nearer sphere, got %v", hit.Material)
			}
		})
	}
}

func TestHittableList_RespectsTMax(t *testing.T) {
	world := NewHittableList(NewSphere(core.NewVec3(0, 0, -10), 1.0, nil))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := world.Hit(ray, 0.001, 5); isHit {
		t.Error("Expected miss beyond tMax")
	}
}

func TestHittableList_Add(t *testing.T) {
	world := NewHittableList()
	world.Add(NewSphere(core.NewVec3(0, 0, -1), 0.5, nil))
	if world.Len() != 1 {
		t.Errorf("Expected 1 object, got %d", world.Len())
	}
}
