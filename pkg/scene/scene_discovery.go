package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/JHay0112/raytracing/pkg/log"
)

var logger = log.New("scene")

// ErrUnknownScene is returned when a scene id matches no built-in scene
var ErrUnknownScene = errors.New("scene: unknown scene")

const (
	// BuiltinGroup is the group name of the scenes compiled into the binary
	BuiltinGroup = "Built-in Scenes"
	// FileGroup is the default group of scene files without one
	FileGroup = "Scene Files"

	// FilePrefix marks scene ids that refer to JSON scene files
	FilePrefix = "file:"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the JSON file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtin struct {
	info   SceneInfo
	create func() *Scene
}

var builtins = []builtin{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Diffuse sphere resting on a diffuse ground sphere",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "materials",
			Name:        "Materials",
			Description: "Hollow glass, diffuse and fuzzy gold spheres",
		},
		create: NewMaterialsScene,
	},
	{
		info: SceneInfo{
			ID:          "triangles",
			Name:        "Triangles",
			Description: "Triangle pyramid sharing one material next to a mirror panel",
		},
		create: NewTrianglesScene,
	},
	{
		info: SceneInfo{
			ID:          "spheregrid",
			Name:        "Sphere Grid",
			Description: "Grid of OKLCH coloured diffuse and metal spheres",
		},
		create: NewSphereGridScene,
	},
}

// ListBuiltinScenes returns the scenes compiled into the binary in registration order
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		info := b.info
		info.Group = BuiltinGroup
		info.Type = "builtin"
		scenes = append(scenes, info)
	}
	return scenes
}

// Create builds the built-in scene with the given id
func Create(id string) (*Scene, error) {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.create(), nil
		}
	}
	return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
}

// ListSceneFiles scans dir for JSON scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			logger.Warningf("failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name, description and group fields of a JSON scene file,
// falling back to values derived from the filename
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       FilePrefix + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    FileGroup,
		Type:     "file",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return sceneInfo, err
	}

	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return sceneInfo, err
	}

	if meta.Name != "" {
		sceneInfo.Name = meta.Name
	}
	if meta.Group != "" {
		sceneInfo.Group = meta.Group
	}
	sceneInfo.Description = meta.Description

	return sceneInfo, nil
}

// ListAllScenes returns both built-in scenes and scene files in dir, grouped by category
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, scene := range append(ListBuiltinScenes(), fileScenes...) {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != BuiltinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   BuiltinGroup,
		Scenes: groupMap[BuiltinGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-spheres" -> "Glass Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
