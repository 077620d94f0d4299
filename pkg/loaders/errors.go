package loaders

import (
	"errors"

	"github.com/JHay0112/raytracing/pkg/log"
)

var logger = log.New("loaders")

var (
	ErrUnknownMaterial     = errors.New("loaders: unknown material")
	ErrUnknownMaterialType = errors.New("loaders: unknown material type")
	ErrUnknownObjectType   = errors.New("loaders: unknown object type")
	ErrInvalidObject       = errors.New("loaders: invalid object")
	ErrInvalidCamera       = errors.New("loaders: invalid camera")
	ErrInvalidMesh         = errors.New("loaders: invalid mesh")
)
