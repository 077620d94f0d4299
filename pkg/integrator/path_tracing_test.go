package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/JHay0112/raytracing/pkg/core"
	"github.com/JHay0112/raytracing/pkg/geometry"
	"github.com/JHay0112/raytracing/pkg/material"
)

// MockScene is a flat list of shapes with a fixed background
type MockScene struct {
	shapes      []core.Shape
	topColor    core.Vec3
	bottomColor core.Vec3
}

func newMockScene(shapes ...core.Shape) *MockScene {
	return &MockScene{shapes: shapes, topColor: DefaultTopColor, bottomColor: DefaultBottomColor}
}

func (m *MockScene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	for _, shape := range m.shapes {
		if hit, isHit := shape.Hit(ray, tMin, tMax); isHit {
			tMax = hit.T
			closest = hit
		}
	}
	return closest, closest != nil
}

func (m *MockScene) GetBackgroundColors() (core.Vec3, core.Vec3) {
	return m.topColor, m.bottomColor
}

// absorber swallows every ray
type absorber struct{}

func (absorber) Scatter(core.Ray, core.HitRecord, *rand.Rand) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

func vecNear(a, b core.Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance && math.Abs(a.Z-b.Z) <= tolerance
}

func TestPathTracing_DepthZeroIsBlack(t *testing.T) {
	pt := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))
	scene := newMockScene()

	for _, depth := range []int{0, -1} {
		color := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), scene, random, depth)
		if color != (core.Vec3{}) {
			t.Errorf("Depth %d: expected black, got %v", depth, color)
		}
	}
}

func TestPathTracing_Background(t *testing.T) {
	pt := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))
	scene := newMockScene()

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"scaled up", core.NewVec3(0, 9, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"horizontal", core.NewVec3(1, 0, 0), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color := pt.RayColor(core.NewRay(core.Vec3{}, tt.direction), scene, random, 5)
			if !vecNear(color, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, color)
			}
		})
	}
}

func TestPathTracing_CustomBackground(t *testing.T) {
	scene := newMockScene()
	scene.topColor = core.NewVec3(1, 0, 0)
	scene.bottomColor = core.NewVec3(0, 0, 1)

	color := BackgroundGradient(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), scene)
	if !vecNear(color, core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("Expected top color, got %v", color)
	}
}

func TestPathTracing_AbsorbedIsBlack(t *testing.T) {
	pt := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))
	scene := newMockScene(geometry.NewSphere(core.NewVec3(0, 0, -2), 1, absorber{}))

	color := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), scene, random, 10)
	if color != (core.Vec3{}) {
		t.Errorf("Expected black from absorbing material, got %v", color)
	}
}

func TestPathTracing_SingleBounceIsBlack(t *testing.T) {
	// With one bounce of budget the scattered ray has nothing left to gather
	pt := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))
	scene := newMockScene(geometry.NewSphere(core.NewVec3(0, 0, -2), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	color := pt.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), scene, random, 1)
	if color != (core.Vec3{}) {
		t.Errorf("Expected black with depth 1, got %v", color)
	}
}

func TestPathTracing_DiffuseAttenuates(t *testing.T) {
	pt := NewPathTracingIntegrator()
	random := rand.New(rand.NewSource(42))
	albedo := core.NewVec3(0.5, 0.5, 0.5)
	scene := newMockScene(geometry.NewSphere(core.NewVec3(0, 0, -2), 1, material.NewLambertian(albedo)))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	for i := 0; i < 200; i++ {
		color := pt.RayColor(ray, scene, random, 50)
		// A single convex sphere scatters once into the sky, so radiance is albedo times the sky
		if color.X > 0.5+1e-12 || color.Y > 0.5+1e-12 || color.Z > 0.5+1e-12 {
			t.Fatalf("Color %v exceeds albedo-attenuated sky", color)
		}
		if color.X < 0.25-1e-12 || color.Z < 0.5-1e-12 {
			t.Fatalf("Color %v below albedo-attenuated sky", color)
		}
	}
}

func TestNormalIntegrator(t *testing.T) {
	ni := NewNormalIntegrator()
	random := rand.New(rand.NewSource(42))
	scene := newMockScene(geometry.NewSphere(core.NewVec3(0, 0, -2), 1, absorber{}))

	// Facing the camera the normal is (0,0,1)
	color := ni.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), scene, random, 1)
	if !vecNear(color, core.NewVec3(0.5, 0.5, 1), 1e-12) {
		t.Errorf("Expected (0.5, 0.5, 1), got %v", color)
	}

	miss := ni.RayColor(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), scene, random, 1)
	if !vecNear(miss, DefaultTopColor, 1e-12) {
		t.Errorf("Expected sky on miss, got %v", miss)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "path", "normal"} {
		if _, ok := ByName(name); !ok {
			t.Errorf("Expected integrator %q to exist", name)
		}
	}
	if _, ok := ByName("bdpt"); ok {
		t.Error("Expected unknown integrator to be rejected")
	}
}
