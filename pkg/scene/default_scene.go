package scene

import (
	"github.com/JHay0112/raytracing/pkg/core"
	"github.com/JHay0112/raytracing/pkg/geometry"
	"github.com/JHay0112/raytracing/pkg/material"
	"github.com/JHay0112/raytracing/pkg/renderer"
)

// NewGroundSphere returns the large sphere used as ground by the built-in scenes
func NewGroundSphere(mat core.Material) *geometry.Sphere {
	return geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, mat)
}

// NewDefaultScene creates a diffuse sphere resting on a diffuse ground sphere
func NewDefaultScene() *Scene {
	s := New(renderer.DefaultCameraConfig(), 400)

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))

	s.Add(
		NewGroundSphere(ground),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center),
	)

	return s
}

// NewMaterialsScene shows every material side by side: a hollow glass sphere on the left,
// a diffuse sphere in the middle and fuzzy gold metal on the right
func NewMaterialsScene() *Scene {
	s := New(renderer.DefaultCameraConfig(), 400)

	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)

	s.Add(
		NewGroundSphere(ground),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, center),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, glass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), -0.4, glass), // negative radius flips normals, hollowing the glass
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, gold),
	)

	return s
}

// NewTrianglesScene creates a small pyramid of triangles sharing one material, next to a mirror panel
func NewTrianglesScene() *Scene {
	s := New(renderer.DefaultCameraConfig(), 400)

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	terracotta := material.NewLambertian(core.NewVec3(0.75, 0.35, 0.2))
	mirror := material.NewMetal(core.NewVec3(0.85, 0.85, 0.9), 0.05)

	s.Add(NewGroundSphere(ground))

	// Square based pyramid, every face shares the same material
	apex := core.NewVec3(-0.4, 0.45, -1.4)
	base := []core.Vec3{
		core.NewVec3(-0.9, -0.5, -1.0),
		core.NewVec3(0.1, -0.5, -1.0),
		core.NewVec3(0.1, -0.5, -1.9),
		core.NewVec3(-0.9, -0.5, -1.9),
	}
	for i := range base {
		s.Add(geometry.NewTriangle(base[i], base[(i+1)%len(base)], apex, terracotta))
	}

	// Mirror panel built from two triangles
	p0 := core.NewVec3(0.4, -0.5, -1.6)
	p1 := core.NewVec3(1.4, -0.5, -1.2)
	p2 := core.NewVec3(1.4, 0.6, -1.2)
	p3 := core.NewVec3(0.4, 0.6, -1.6)
	s.Add(
		geometry.NewTriangle(p0, p1, p2, mirror),
		geometry.NewTriangle(p0, p2, p3, mirror),
	)

	return s
}
