package geometry

import (
	"math"

	"github.com/JHay0112/raytracing/pkg/core"
)

// parallelEpsilon bounds |cos| between the ray direction and the plane normal below which
// the ray is treated as parallel to the triangle's plane
const parallelEpsilon = 1e-12

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3     // The three vertices
	Material   core.Material // Material of the triangle
	normal     core.Vec3     // Cached unit normal, zero for degenerate triangles
	edge1      core.Vec3     // V1 - V0
	edge2      core.Vec3     // V2 - V0
	d00        float64       // Cached barycentric dot products
	d01        float64
	d11        float64
	invDenom   float64
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material core.Material) *Triangle {
	t := &Triangle{
		V0:       v0,
		V1:       v1,
		V2:       v2,
		Material: material,
	}
	t.precompute()
	return t
}

// precompute caches the plane normal and the barycentric basis
func (t *Triangle) precompute() {
	t.edge1 = t.V1.Subtract(t.V0)
	t.edge2 = t.V2.Subtract(t.V0)

	// Normal is the cross product of the two edges, zero when the vertices are collinear
	t.normal = t.edge1.Cross(t.edge2).Normalize()

	t.d00 = t.edge1.Dot(t.edge1)
	t.d01 = t.edge1.Dot(t.edge2)
	t.d11 = t.edge2.Dot(t.edge2)
	if denom := t.d00*t.d11 - t.d01*t.d01; denom != 0 {
		t.invDenom = 1.0 / denom
	}
}

// Degenerate reports whether the triangle has zero area
func (t *Triangle) Degenerate() bool {
	return t.normal == (core.Vec3{}) || t.invDenom == 0
}

// Hit intersects the ray with the triangle's plane, then checks the point lies strictly
// inside the triangle. Points on an edge or vertex are outside.
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if t.Degenerate() {
		return nil, false
	}

	// Ray-plane intersection: (O + tD - V0)·n = 0
	denom := ray.Direction.Dot(t.normal)
	if math.Abs(denom) <= parallelEpsilon*ray.Direction.Length() {
		return nil, false
	}

	tHit := t.V0.Subtract(ray.Origin).Dot(t.normal) / denom
	if math.IsNaN(tHit) || tHit < tMin || tHit > tMax {
		return nil, false
	}

	point := ray.At(tHit)
	if !t.contains(point) {
		return nil, false
	}

	hitRecord := &core.HitRecord{
		T:        tHit,
		Point:    point,
		Material: t.Material,
	}
	hitRecord.SetFaceNormal(ray, t.normal)

	return hitRecord, true
}

// contains reports whether a point on the triangle's plane lies strictly inside it
func (t *Triangle) contains(p core.Vec3) bool {
	w := p.Subtract(t.V0)
	d20 := w.Dot(t.edge1)
	d21 := w.Dot(t.edge2)

	beta := (t.d11*d20 - t.d01*d21) * t.invDenom
	gamma := (t.d00*d21 - t.d01*d20) * t.invDenom
	alpha := 1.0 - beta - gamma

	return alpha > 0 && beta > 0 && gamma > 0
}

// Normal returns the triangle's unit normal (V1-V0)×(V2-V0), normalized
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Centroid returns the average of the three vertices
func (t *Triangle) Centroid() core.Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Divide(3)
}
