package core

import "math/rand"

// Shape is a primitive that can be intersected by rays
type Shape interface {
	// Hit returns the nearest intersection with tMin <= t <= tMax, or false if there is none
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

// Material describes how light scatters off a surface
type Material interface {
	// Scatter returns the outgoing ray and its attenuation, or false if the ray is absorbed
	Scatter(rayIn Ray, hit HitRecord, random *rand.Rand) (ScatterResult, bool)
}

// Scene is the read-only view of the world used by integrators
type Scene interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	GetBackgroundColors() (topColor, bottomColor Vec3)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   Ray  // The scattered ray
	Attenuation Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection.
// The material is borrowed from the primitive that was hit.
type HitRecord struct {
	Point     Vec3     // Point of intersection
	Normal    Vec3     // Unit surface normal, facing against the incoming ray
	T         float64  // Parameter t along the ray
	FrontFace bool     // Whether ray hit the front face
	Material  Material // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
