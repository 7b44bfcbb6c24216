package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/geometry"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(-1, 1, 0), rayDirection)
	hit := core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	hasReflection := false
	hasRefraction := false

	for seed := int64(0); seed < 1000 && (!hasReflection || !hasRefraction); seed++ {
		random := rand.New(rand.NewSource(seed))
		result, scattered := glass.Scatter(ray, hit, random)
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Attenuation != core.NewColor(1, 1, 1) {
			t.Fatalf("Expected white attenuation, got %v", result.Attenuation)
		}

		dir := result.Scattered.Direction.Normalize()
		if dir.Y > 0 {
			hasReflection = true
			expected := core.NewVec3(1, 1, 0).Normalize()
			if dir.Subtract(expected).Length() > 1e-9 {
				t.Errorf("Expected mirror direction %v, got %v", expected, dir)
			}
		} else {
			hasRefraction = true
			// Snell: sin(out) = sin(45°)/1.5
			expectedSin := math.Sin(math.Pi/4) / 1.5
			if math.Abs(dir.X-expectedSin) > 1e-9 {
				t.Errorf("Expected refracted sin %f, got %f", expectedSin, dir.X)
			}
		}
	}

	if !hasReflection || !hasRefraction {
		t.Errorf("Expected both reflection and refraction, got reflection=%t refraction=%t", hasReflection, hasRefraction)
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)
	random := rand.New(rand.NewSource(42))

	// Inside glass at 60° from the normal: 1.5*sin(60°) > 1
	dir := core.NewVec3(math.Sin(math.Pi/3), -math.Cos(math.Pi/3), 0)
	ray := core.NewRay(core.NewVec3(0, 1, 0), dir)
	hit := core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: false,
	}

	for i := 0; i < 100; i++ {
		result, _ := glass.Scatter(ray, hit, random)
		expected := core.Reflect(dir, hit.Normal)
		if result.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
			t.Fatalf("Expected total internal reflection %v, got %v", expected, result.Scattered.Direction)
		}
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"normal incidence glass", 1.0, 1.0 / 1.5, 0.04},
		{"grazing incidence", 0.0, 1.0 / 1.5, 1.0},
		{"index matched normal", 1.0, 1.0, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflectance(tt.cosine, tt.ratio)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestDielectric_IndexMatchedRoundTrip(t *testing.T) {
	medium := NewDielectric(1.0)
	sphere := geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0, medium)
	random := rand.New(rand.NewSource(42))

	offsets := []float64{0, 0.1, 0.2, 0.3}
	for _, offset := range offsets {
		original := core.NewVec3(0, 0, -1)
		ray := core.NewRay(core.NewVec3(offset, 0, 5), original)

		entry, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit || !entry.FrontFace {
			t.Fatalf("offset %f: expected front face entry", offset)
		}

		// Retry until both interfaces refract; Schlick reflection is still possible off-axis
		var exitDir core.Vec3
		refracted := false
		for attempt := 0; attempt < 100 && !refracted; attempt++ {
			in, _ := medium.Scatter(ray, *entry, random)
			if in.Scattered.Direction.Subtract(original).Length() > 1e-9 {
				continue
			}
			exit, isHit := sphere.Hit(in.Scattered, 0.001, math.Inf(1))
			if !isHit || exit.FrontFace {
				t.Fatalf("offset %f: expected back face exit", offset)
			}
			out, _ := medium.Scatter(in.Scattered, *exit, random)
			if out.Scattered.Direction.Dot(original) > 0 {
				exitDir = out.Scattered.Direction
				refracted = true
			}
		}

		if !refracted {
			t.Fatalf("offset %f: never refracted through index-matched sphere", offset)
		}
		if exitDir.Subtract(original).Length() > 1e-9 {
			t.Errorf("offset %f: expected unbent exit %v, got %v", offset, original, exitDir)
		}
	}
}

func TestDielectric_IndexMatchedAxisAlwaysTransmits(t *testing.T) {
	medium := NewDielectric(1.0)
	random := rand.New(rand.NewSource(1))
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	hit := core.HitRecord{Point: core.NewVec3(0, 0, 1), Normal: core.NewVec3(0, 0, 1), FrontFace: true}

	for i := 0; i < 500; i++ {
		result, _ := medium.Scatter(ray, hit, random)
		if result.Scattered.Direction.Subtract(ray.Direction).Length() > 1e-12 {
			t.Fatalf("Expected straight transmission, got %v", result.Scattered.Direction)
		}
	}
}
