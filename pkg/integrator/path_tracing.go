package integrator

import (
	"math"
	"math/rand"

	"github.com/JHay0112/raytracing/pkg/core"
)

// ShadowAcneEpsilon is the minimum ray parameter accepted for a hit. It keeps scattered
// rays from re-hitting their own origin surface through floating-point error.
const ShadowAcneEpsilon = 0.001

var (
	// DefaultTopColor is the sky color seen by rays pointing straight up
	DefaultTopColor = core.NewVec3(0.5, 0.7, 1.0)
	// DefaultBottomColor is the sky color seen by rays pointing straight down
	DefaultBottomColor = core.NewVec3(1.0, 1.0, 1.0)
)

// PathTracingIntegrator implements recursive diffuse path tracing
type PathTracingIntegrator struct{}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{}
}

// RayColor computes the color for a single ray.
// Paths cut off by the depth budget contribute black.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene core.Scene, random *rand.Rand, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := scene.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return BackgroundGradient(ray, scene)
	}

	if hit.Material == nil {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, random)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(pt.RayColor(scatter.Scattered, scene, random, depth-1))
}

// BackgroundGradient returns a gradient color based on ray direction
func BackgroundGradient(r core.Ray, scene core.Scene) core.Vec3 {
	topColor, bottomColor := scene.GetBackgroundColors()

	// Normalize the ray direction to get consistent results
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return bottomColor.Multiply(1.0 - t).Add(topColor.Multiply(t))
}
