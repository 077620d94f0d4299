package integrator

import (
	"math/rand"

	"github.com/JHay0112/raytracing/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the radiance carried back along a ray with at most depth bounces
	RayColor(ray core.Ray, scene core.Scene, random *rand.Rand, depth int) core.Vec3
}
