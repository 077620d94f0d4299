package scene

import (
	"github.com/JHay0112/raytracing/pkg/core"
	"github.com/JHay0112/raytracing/pkg/integrator"
	"github.com/JHay0112/raytracing/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	Width          int                     // Recommended image width
	SamplingConfig renderer.SamplingConfig // Recommended sampling settings
	Shapes         []core.Shape            // Objects in the scene, in insertion order
	TopColor       core.Vec3               // Sky colour straight up
	BottomColor    core.Vec3               // Sky colour straight down
}

// New creates an empty scene with the default sky and sampling settings
func New(cameraConfig renderer.CameraConfig, width int) *Scene {
	return &Scene{
		Camera:         renderer.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		Width:          width,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		Shapes:         make([]core.Shape, 0),
		TopColor:       integrator.DefaultTopColor,
		BottomColor:    integrator.DefaultBottomColor,
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...core.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Hit returns the closest intersection across all shapes
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	_, hit, isHit := s.HitShape(ray, tMin, tMax)
	return hit, isHit
}

// HitShape is Hit that also returns the shape that was hit. Each shape is queried with the
// closest t found so far as its upper bound; on equal t the earlier shape is kept.
func (s *Scene) HitShape(ray core.Ray, tMin, tMax float64) (core.Shape, *core.HitRecord, bool) {
	var closestShape core.Shape
	var closestHit *core.HitRecord
	closestSoFar := tMax

	for _, shape := range s.Shapes {
		hit, isHit := shape.Hit(ray, tMin, closestSoFar)
		if !isHit {
			continue
		}
		if closestHit == nil || hit.T < closestSoFar {
			closestSoFar = hit.T
			closestHit = hit
			closestShape = shape
		}
	}

	return closestShape, closestHit, closestHit != nil
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetBackgroundColors returns the sky gradient colours
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// Height returns the image height that matches the camera aspect ratio at the scene width
func (s *Scene) Height() int {
	return int(float64(s.Width) / s.CameraConfig.AspectRatio)
}

// GetPrimitiveCount returns the number of shapes in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// NewRaytracer creates a raytracer sized and configured from the scene's recommended settings
func (s *Scene) NewRaytracer() *renderer.Raytracer {
	rt := renderer.NewRaytracer(s, s.Width, s.Height())
	rt.SetSamplingConfig(s.SamplingConfig)
	return rt
}
