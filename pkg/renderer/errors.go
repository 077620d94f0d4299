package renderer

import "errors"

var (
	ErrInvalidConfig   = errors.New("renderer: invalid sampling config")
	ErrSizeMismatch    = errors.New("renderer: image size does not match raytracer")
	ErrCameraUndefined = errors.New("renderer: no camera defined")
	ErrInterrupted     = errors.New("renderer: interrupted while rendering")
)
