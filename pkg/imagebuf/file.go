package imagebuf

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IsPNG reports whether a filename asks for PNG output
func IsPNG(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".png")
}

// Encode writes the image as PNG when png is set, plain-text PPM otherwise
func (img *Image) Encode(w io.Writer, asPNG bool) error {
	if asPNG {
		return png.Encode(w, img.ToRGBA())
	}
	return img.WritePPM(w)
}

// Save writes the image to a file, choosing PNG or PPM from the extension
func (img *Image) Save(filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if err := img.Encode(file, IsPNG(filename)); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return file.Close()
}

// Load reads a PPM, PNG or JPEG image from disk
func Load(filename string) (*Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(filename), ".ppm") {
		img, err := DecodePPM(file)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		return img, nil
	}

	// Decode image (auto-detects PNG/JPEG from file header)
	src, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(src), nil
}
