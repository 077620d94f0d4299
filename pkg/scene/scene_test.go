package scene

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/JHay0112/raytracing/pkg/core"
	"github.com/JHay0112/raytracing/pkg/geometry"
	"github.com/JHay0112/raytracing/pkg/imagebuf"
	"github.com/JHay0112/raytracing/pkg/material"
	"github.com/JHay0112/raytracing/pkg/renderer"
)

// fixedShape always hits at a fixed t when it lies in range, and records the bounds it was queried with
type fixedShape struct {
	t        float64
	id       int
	lastTMax float64
}

func (f *fixedShape) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	f.lastTMax = tMax
	if f.t < tMin || f.t > tMax {
		return nil, false
	}
	return &core.HitRecord{T: f.t, Point: ray.At(f.t), Material: material.NewLambertian(core.NewVec3(float64(f.id), 0, 0))}, true
}

func TestScene_HitEmpty(t *testing.T) {
	s := New(renderer.DefaultCameraConfig(), 10)
	if hit, isHit := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1)); isHit || hit != nil {
		t.Errorf("Expected no hit in empty scene, got %v", hit)
	}
}

func TestScene_HitClosest(t *testing.T) {
	s := New(renderer.DefaultCameraConfig(), 10)
	far := geometry.NewSphere(core.NewVec3(0, 0, -5), 1, nil)
	near := geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, nil)
	s.Add(far, near)

	hit, isHit := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-1.5) > 1e-9 {
		t.Errorf("Expected nearest hit at t=1.5, got t=%f", hit.T)
	}
}

func TestScene_HitNarrowsTMax(t *testing.T) {
	s := New(renderer.DefaultCameraConfig(), 10)
	first := &fixedShape{t: 3, id: 1}
	second := &fixedShape{t: 2, id: 2}
	third := &fixedShape{t: 4, id: 3}
	s.Add(first, second, third)

	hit, isHit := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, 10)
	if !isHit || hit.T != 2 {
		t.Fatalf("Expected hit at t=2, got %v", hit)
	}
	if first.lastTMax != 10 || second.lastTMax != 3 || third.lastTMax != 2 {
		t.Errorf("Expected tMax bounds 10, 3, 2; got %f, %f, %f", first.lastTMax, second.lastTMax, third.lastTMax)
	}
}

func TestScene_HitTieKeepsEarlier(t *testing.T) {
	s := New(renderer.DefaultCameraConfig(), 10)
	s.Add(&fixedShape{t: 2, id: 1}, &fixedShape{t: 2, id: 2})

	hit, isHit := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, 10)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if albedo := hit.Material.(*material.Lambertian).Albedo; albedo.X != 1 {
		t.Errorf("Expected the earlier shape to win the tie, got shape %v", albedo.X)
	}
}

func TestScene_HitClosedInterval(t *testing.T) {
	s := New(renderer.DefaultCameraConfig(), 10)
	s.Add(&fixedShape{t: 2, id: 1})

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	if _, isHit := s.Hit(ray, 0.001, 2); !isHit {
		t.Error("Expected hit exactly at tMax")
	}
	if _, isHit := s.Hit(ray, 2, 10); !isHit {
		t.Error("Expected hit exactly at tMin")
	}
}

func TestScene_SharedMaterial(t *testing.T) {
	s := New(renderer.DefaultCameraConfig(), 10)
	shared := material.NewLambertian(core.NewVec3(0.2, 0.4, 0.6))
	s.Add(
		geometry.NewSphere(core.NewVec3(-1, 0, -3), 0.5, shared),
		geometry.NewSphere(core.NewVec3(1, 0, -3), 0.5, shared),
	)

	left, _ := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(-1, 0, -3)), 0.001, math.Inf(1))
	right, _ := s.Hit(core.NewRay(core.Vec3{}, core.NewVec3(1, 0, -3)), 0.001, math.Inf(1))
	if left == nil || right == nil {
		t.Fatal("Expected both spheres to be hit")
	}
	if left.Material != right.Material || left.Material != shared {
		t.Error("Expected both hits to borrow the same material")
	}
}

func TestBuiltinScenes(t *testing.T) {
	for _, info := range ListBuiltinScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Create(info.ID)
			if err != nil {
				t.Fatalf("Create(%q) failed: %v", info.ID, err)
			}
			if s.GetCamera() == nil {
				t.Error("Expected a camera")
			}
			if s.GetPrimitiveCount() < 2 {
				t.Errorf("Expected several shapes, got %d", s.GetPrimitiveCount())
			}
			if s.Width <= 0 || s.Height() <= 0 {
				t.Errorf("Expected positive size, got %dx%d", s.Width, s.Height())
			}
			if err := s.SamplingConfig.Validate(); err != nil {
				t.Errorf("Expected valid sampling config, got %v", err)
			}
			top, bottom := s.GetBackgroundColors()
			if top != core.NewVec3(0.5, 0.7, 1.0) || bottom != core.NewVec3(1, 1, 1) {
				t.Errorf("Unexpected background %v, %v", top, bottom)
			}
		})
	}
}

func TestDefaultScene_CenterRayHitsSphere(t *testing.T) {
	s := NewDefaultScene()
	ray := s.GetCamera().GetRay(0.5, 0.5)

	hit, isHit := s.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected the center ray to hit the sphere")
	}
	if math.Abs(hit.T-0.5) > 1e-9 {
		t.Errorf("Expected t=0.5, got %f", hit.T)
	}
}

func TestScene_HitShape(t *testing.T) {
	s := New(renderer.DefaultCameraConfig(), 10)
	far := geometry.NewSphere(core.NewVec3(0, 0, -5), 1, nil)
	near := geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, nil)
	s.Add(far, near)

	shape, hit, isHit := s.HitShape(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if shape != near {
		t.Errorf("Expected the near sphere, got %v", shape)
	}
	if math.Abs(hit.T-1.5) > 1e-9 {
		t.Errorf("Expected t=1.5, got %f", hit.T)
	}

	if shape, _, isHit := s.HitShape(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), 0.001, math.Inf(1)); isHit || shape != nil {
		t.Errorf("Expected miss, got %v", shape)
	}
}

func TestScene_NewRaytracer(t *testing.T) {
	s := NewDefaultScene()
	s.Width = 16
	s.SamplingConfig.SamplesPerPixel = 2
	s.SamplingConfig.MaxDepth = 3

	rt := s.NewRaytracer()
	if rt.GetSamplingConfig() != s.SamplingConfig {
		t.Errorf("Expected sampling config %+v, got %+v", s.SamplingConfig, rt.GetSamplingConfig())
	}

	img := imagebuf.NewWithSize(s.Width, s.Height())
	stats, err := rt.Render(context.Background(), img)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if stats.Width != 16 || stats.Height != 9 {
		t.Errorf("Expected 16x9 frame, got %dx%d", stats.Width, stats.Height)
	}
}

func TestCreate_Unknown(t *testing.T) {
	if _, err := Create("cornell"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestOklchToRGB_InRange(t *testing.T) {
	for hue := 0.0; hue < 360; hue += 30 {
		c := oklchToRGB(0.7, 0.25, hue)
		for _, v := range []float64{c.X, c.Y, c.Z} {
			if v < 0 || v > 1 {
				t.Fatalf("Hue %f: channel %f out of range", hue, v)
			}
		}
	}

	// Zero chroma is grey
	grey := oklchToRGB(0.7, 0, 0)
	if math.Abs(grey.X-grey.Y) > 1e-6 || math.Abs(grey.Y-grey.Z) > 1e-6 {
		t.Errorf("Expected grey for zero chroma, got %v", grey)
	}
}
