package integrator

import (
	"math"
	"math/rand"

	"github.com/JHay0112/raytracing/pkg/core"
)

// NormalIntegrator shades each hit by its surface normal mapped from [-1,1] to [0,1].
// It never scatters, which makes it useful for checking geometry quickly.
type NormalIntegrator struct{}

// NewNormalIntegrator creates a new normal shading integrator
func NewNormalIntegrator() *NormalIntegrator {
	return &NormalIntegrator{}
}

// RayColor returns the shaded normal at the closest hit or the background on a miss
func (ni *NormalIntegrator) RayColor(ray core.Ray, scene core.Scene, random *rand.Rand, depth int) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := scene.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return BackgroundGradient(ray, scene)
	}

	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}

// ByName returns the integrator registered under name: "path" or "normal"
func ByName(name string) (Integrator, bool) {
	switch name {
	case "", "path":
		return NewPathTracingIntegrator(), true
	case "normal":
		return NewNormalIntegrator(), true
	}
	return nil, false
}
