package renderer

import (
	"github.com/JHay0112/raytracing/pkg/core"
)

// CameraConfig describes a pinhole camera looking down -Z
type CameraConfig struct {
	Origin         core.Vec3 // Eye position
	AspectRatio    float64   // Viewport width / height
	ViewportHeight float64   // Height of the viewport in world units
	FocalLength    float64   // Distance from the eye to the viewport
}

// DefaultCameraConfig returns a 16:9 camera at the origin with a 2-unit viewport one unit away
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:         core.NewVec3(0, 0, 0),
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
	}
}

// Camera generates rays for rendering. It is immutable once constructed.
type Camera struct {
	config          CameraConfig
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera derives the viewport geometry from the config
func NewCamera(config CameraConfig) *Camera {
	viewportWidth := config.AspectRatio * config.ViewportHeight

	origin := config.Origin
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		config:          config,
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1,
// u running left to right and v bottom to top. The direction is not normalized.
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// LowerLeftCorner returns the world-space position of the viewport's lower left corner
func (c *Camera) LowerLeftCorner() core.Vec3 {
	return c.lowerLeftCorner
}
