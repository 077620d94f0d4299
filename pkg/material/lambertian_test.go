package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/JHay0112/raytracing/pkg/core"
)

func TestLambertian_Scatter(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.2)
	lambertian := NewLambertian(albedo)
	random := rand.New(rand.NewSource(42))

	normal := core.NewVec3(0, 1, 0)
	hit := core.HitRecord{
		Point:     core.NewVec3(1, 2, 3),
		Normal:    normal,
		T:         1.0,
		FrontFace: true,
		Material:  lambertian,
	}
	ray := core.NewRay(core.NewVec3(1, 3, 3), core.NewVec3(0, -1, 0))

	for i := 0; i < 500; i++ {
		scatter, didScatter := lambertian.Scatter(ray, hit, random)
		if !didScatter {
			t.Fatal("Lambertian should always scatter")
		}

		if scatter.Attenuation != albedo {
			t.Fatalf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
		}

		if scatter.Scattered.Origin != hit.Point {
			t.Fatalf("Scattered ray should start at hit point, got %v", scatter.Scattered.Origin)
		}

		// normal + unit vector lies within the unit sphere centred on the tip of the normal
		offset := scatter.Scattered.Direction.Subtract(normal)
		if math.Abs(offset.Length()-1) > 1e-9 {
			t.Fatalf("Scatter direction %v is not normal + unit vector", scatter.Scattered.Direction)
		}

		if scatter.Scattered.Direction.Dot(normal) < -1e-12 {
			t.Fatalf("Scatter direction %v points below the surface", scatter.Scattered.Direction)
		}
	}
}

// zeroSource is a rand.Source whose first draws produce a unit vector exactly opposite +Y
type scriptedSource struct {
	values []int64
	i      int
}

func (s *scriptedSource) Int63() int64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func (s *scriptedSource) Seed(int64) {}

func TestLambertian_Scatter_DegenerateDirection(t *testing.T) {
	// Float64 = Int63 / 2^63. Draws (0.5, 0.25, 0.5) map to the point (0, -0.5, 0) in [-1,1]^3,
	// which normalizes to (0, -1, 0) and cancels the normal exactly.
	const half = int64(1) << 62
	const quarter = int64(1) << 61
	random := rand.New(&scriptedSource{values: []int64{half, quarter, half}})

	normal := core.NewVec3(0, 1, 0)
	hit := core.HitRecord{Point: core.NewVec3(0, 0, 0), Normal: normal}
	lambertian := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

	scatter, didScatter := lambertian.Scatter(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), hit, random)
	if !didScatter {
		t.Fatal("Lambertian should always scatter")
	}
	if scatter.Scattered.Direction != normal {
		t.Errorf("Expected degenerate direction to fall back to the normal, got %v", scatter.Scattered.Direction)
	}
}
