package loaders

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/JHay0112/raytracing/pkg/core"
	"github.com/JHay0112/raytracing/pkg/geometry"
	"github.com/JHay0112/raytracing/pkg/material"
	"github.com/JHay0112/raytracing/pkg/renderer"
	"github.com/JHay0112/raytracing/pkg/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Vec is a JSON [x, y, z] triple
type Vec [3]float64

func (v Vec) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

func (v Vec) toMgl() mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

// SceneFile is the JSON document describing a scene
type SceneFile struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Group       string                  `json:"group"`
	Width       int                     `json:"width"`
	Camera      *CameraSpec             `json:"camera"`
	Background  *BackgroundSpec         `json:"background"`
	Sampling    *SamplingSpec           `json:"sampling"`
	Materials   map[string]MaterialSpec `json:"materials"`
	Objects     []ObjectSpec            `json:"objects"`
}

// CameraSpec overrides fields of the default camera; absent fields keep their defaults
type CameraSpec struct {
	Origin         *Vec     `json:"origin"`
	AspectRatio    *float64 `json:"aspectRatio"`
	ViewportHeight *float64 `json:"viewportHeight"`
	FocalLength    *float64 `json:"focalLength"`
}

// BackgroundSpec sets the sky gradient
type BackgroundSpec struct {
	Top    *Vec `json:"top"`
	Bottom *Vec `json:"bottom"`
}

// SamplingSpec sets the recommended sampling settings
type SamplingSpec struct {
	SamplesPerPixel int `json:"samplesPerPixel"`
	MaxDepth        int `json:"maxDepth"`
}

// MaterialSpec describes a named material shared by any number of objects
type MaterialSpec struct {
	Type            string  `json:"type"` // "lambertian", "metal" or "dielectric"
	Albedo          Vec     `json:"albedo"`
	Fuzz            float64 `json:"fuzz"`
	RefractiveIndex float64 `json:"refractiveIndex"`
}

// ObjectSpec describes one primitive or mesh
type ObjectSpec struct {
	Type      string         `json:"type"` // "sphere", "triangle" or "mesh"
	Material  string         `json:"material"`
	Center    Vec            `json:"center"`
	Radius    float64        `json:"radius"`
	Vertices  []Vec          `json:"vertices"`
	File      string         `json:"file"` // PLY file for meshes, relative to the scene file
	Transform *TransformSpec `json:"transform"`
}

// TransformSpec places an object: uniform scale, then rotation about Y, then translation
type TransformSpec struct {
	Translate Vec     `json:"translate"`
	RotateY   float64 `json:"rotateY"` // degrees
	Scale     float64 `json:"scale"`
}

// Matrix returns the object to world transform
func (t *TransformSpec) Matrix() mgl64.Mat4 {
	if t == nil {
		return mgl64.Ident4()
	}
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	return mgl64.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2]).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(t.RotateY))).
		Mul4(mgl64.Scale3D(scale, scale, scale))
}

// uniformScale returns the factor applied to lengths by the transform
func (t *TransformSpec) uniformScale() float64 {
	if t == nil || t.Scale == 0 {
		return 1
	}
	return math.Abs(t.Scale)
}

// ParseScene decodes a JSON scene document and builds the scene.
// baseDir resolves relative mesh paths.
func ParseScene(r io.Reader, baseDir string) (*scene.Scene, error) {
	var spec SceneFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return spec.Build(baseDir)
}

// LoadSceneFile loads a JSON scene from disk
func LoadSceneFile(filename string) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file, filepath.Dir(filename))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded scene %s with %d shapes", filename, s.GetPrimitiveCount())
	return s, nil
}

// Resolve returns the scene named by id: a built-in scene, or "file:<name>" for
// <sceneDir>/<name>.json
func Resolve(id, sceneDir string) (*scene.Scene, error) {
	if name, ok := strings.CutPrefix(id, scene.FilePrefix); ok {
		if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			return nil, fmt.Errorf("%q: %w", id, scene.ErrUnknownScene)
		}
		return LoadSceneFile(filepath.Join(sceneDir, name+".json"))
	}
	return scene.Create(id)
}

// Build converts the decoded document into a scene
func (spec *SceneFile) Build(baseDir string) (*scene.Scene, error) {
	cameraConfig, err := spec.cameraConfig()
	if err != nil {
		return nil, err
	}

	width := spec.Width
	if width <= 0 {
		width = 400
	}
	s := scene.New(cameraConfig, width)

	if spec.Background != nil {
		if spec.Background.Top != nil {
			s.TopColor = spec.Background.Top.toVec3()
		}
		if spec.Background.Bottom != nil {
			s.BottomColor = spec.Background.Bottom.toVec3()
		}
	}

	if spec.Sampling != nil {
		if spec.Sampling.SamplesPerPixel > 0 {
			s.SamplingConfig.SamplesPerPixel = spec.Sampling.SamplesPerPixel
		}
		if spec.Sampling.MaxDepth > 0 {
			s.SamplingConfig.MaxDepth = spec.Sampling.MaxDepth
		}
	}

	// Materials are built once and shared by every object naming them
	materials := make(map[string]core.Material, len(spec.Materials))
	for name, matSpec := range spec.Materials {
		mat, err := matSpec.build()
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		materials[name] = mat
	}

	for i, obj := range spec.Objects {
		mat, ok := materials[obj.Material]
		if !ok {
			return nil, fmt.Errorf("object %d: material %q: %w", i, obj.Material, ErrUnknownMaterial)
		}

		shapes, err := obj.build(mat, baseDir)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, obj.Type, err)
		}
		s.Add(shapes...)
	}

	return s, nil
}

func (spec *SceneFile) cameraConfig() (renderer.CameraConfig, error) {
	config := renderer.DefaultCameraConfig()
	if spec.Camera == nil {
		return config, nil
	}

	if spec.Camera.Origin != nil {
		config.Origin = spec.Camera.Origin.toVec3()
	}
	if spec.Camera.AspectRatio != nil {
		config.AspectRatio = *spec.Camera.AspectRatio
	}
	if spec.Camera.ViewportHeight != nil {
		config.ViewportHeight = *spec.Camera.ViewportHeight
	}
	if spec.Camera.FocalLength != nil {
		config.FocalLength = *spec.Camera.FocalLength
	}

	if config.AspectRatio <= 0 || config.ViewportHeight <= 0 || config.FocalLength <= 0 {
		return config, fmt.Errorf("aspect %g, height %g, focal %g: %w",
			config.AspectRatio, config.ViewportHeight, config.FocalLength, ErrInvalidCamera)
	}
	return config, nil
}

func (m MaterialSpec) build() (core.Material, error) {
	switch m.Type {
	case "lambertian":
		return material.NewLambertian(m.Albedo.toVec3()), nil
	case "metal":
		return material.NewMetal(m.Albedo.toVec3(), m.Fuzz), nil
	case "dielectric":
		if m.RefractiveIndex <= 0 {
			return nil, fmt.Errorf("refractive index %g: %w", m.RefractiveIndex, ErrInvalidObject)
		}
		return material.NewDielectric(m.RefractiveIndex), nil
	default:
		return nil, fmt.Errorf("%q: %w", m.Type, ErrUnknownMaterialType)
	}
}

func (obj ObjectSpec) build(mat core.Material, baseDir string) ([]core.Shape, error) {
	transform := obj.Transform.Matrix()
	apply := func(v Vec) core.Vec3 {
		p := mgl64.TransformCoordinate(v.toMgl(), transform)
		return core.NewVec3(p.X(), p.Y(), p.Z())
	}

	switch obj.Type {
	case "sphere":
		if obj.Radius == 0 {
			return nil, fmt.Errorf("zero radius: %w", ErrInvalidObject)
		}
		radius := obj.Radius * obj.Transform.uniformScale()
		return []core.Shape{geometry.NewSphere(apply(obj.Center), radius, mat)}, nil

	case "triangle":
		if len(obj.Vertices) != 3 {
			return nil, fmt.Errorf("%d vertices: %w", len(obj.Vertices), ErrInvalidObject)
		}
		tri := geometry.NewTriangle(apply(obj.Vertices[0]), apply(obj.Vertices[1]), apply(obj.Vertices[2]), mat)
		if tri.Degenerate() {
			return nil, fmt.Errorf("degenerate triangle: %w", ErrInvalidObject)
		}
		return []core.Shape{tri}, nil

	case "mesh":
		if obj.File == "" {
			return nil, fmt.Errorf("mesh without file: %w", ErrInvalidObject)
		}
		path := obj.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		mesh, err := LoadPLY(path)
		if err != nil {
			return nil, err
		}
		return meshTriangles(mesh, mat, transform), nil

	default:
		return nil, ErrUnknownObjectType
	}
}

// meshTriangles converts mesh faces to triangles, dropping degenerate faces
func meshTriangles(mesh *PLYData, mat core.Material, transform mgl64.Mat4) []core.Shape {
	vertices := make([]core.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		p := mgl64.TransformCoordinate(mgl64.Vec3{v.X, v.Y, v.Z}, transform)
		vertices[i] = core.NewVec3(p.X(), p.Y(), p.Z())
	}

	shapes := make([]core.Shape, 0, mesh.TriangleCount())
	dropped := 0
	for i := 0; i+2 < len(mesh.Faces); i += 3 {
		tri := geometry.NewTriangle(vertices[mesh.Faces[i]], vertices[mesh.Faces[i+1]], vertices[mesh.Faces[i+2]], mat)
		if tri.Degenerate() {
			dropped++
			continue
		}
		shapes = append(shapes, tri)
	}

	if dropped > 0 {
		logger.Warningf("dropped %d degenerate mesh faces", dropped)
	}
	return shapes
}
