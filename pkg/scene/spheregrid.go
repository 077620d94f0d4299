package scene

import (
	"math"

	"github.com/JHay0112/raytracing/pkg/core"
	"github.com/JHay0112/raytracing/pkg/geometry"
	"github.com/JHay0112/raytracing/pkg/material"
	"github.com/JHay0112/raytracing/pkg/renderer"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	// Convert hue from degrees to radians
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS, cubed
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// Convert LMS to linear RGB
	rgb := core.NewVec3(
		+4.0767416621*l_-3.3077115913*m_+0.2309699292*s_,
		-1.2684380046*l_+2.6097574011*m_-0.3413193965*s_,
		-0.0041960863*l_-0.7034186147*m_+1.7076147010*s_,
	)
	return rgb.Clamp(0, 1)
}

// SphereGridSize is the number of spheres along each side of the grid
const SphereGridSize = 6

// NewSphereGridScene creates a grid of small spheres on the ground, hue varying across
// the grid and chroma varying with depth. Alternate spheres are metal.
func NewSphereGridScene() *Scene {
	cameraConfig := renderer.DefaultCameraConfig()
	cameraConfig.Origin = core.NewVec3(0, 0.3, 1)
	s := New(cameraConfig, 480)
	s.SamplingConfig.SamplesPerPixel = 64
	s.SamplingConfig.MaxDepth = 20

	s.Add(NewGroundSphere(material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))

	spacing := 0.55
	sphereRadius := spacing * 0.35

	// OKLCH parameters for color variation
	baseLightness := 0.7
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < SphereGridSize; i++ {
		for j := 0; j < SphereGridSize; j++ {
			x := (float64(i) - float64(SphereGridSize-1)/2) * spacing
			z := -1.0 - float64(j)*spacing
			position := core.NewVec3(x, -0.5+sphereRadius, z)

			hue := (float64(i) / float64(SphereGridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(SphereGridSize-1))*(maxChroma-minChroma)
			albedo := oklchToRGB(baseLightness, chroma, hue)

			var mat core.Material
			if (i+j)%2 == 0 {
				mat = material.NewMetal(albedo, 0.1)
			} else {
				mat = material.NewLambertian(albedo)
			}
			s.Add(geometry.NewSphere(position, sphereRadius, mat))
		}
	}

	return s
}
