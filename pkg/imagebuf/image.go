package imagebuf

import (
	"errors"
	"image"
	"image/color"

	"github.com/JHay0112/raytracing/pkg/core"
	"github.com/nfnt/resize"
)

var (
	// ErrOutOfBounds is returned when a pixel write falls outside the image
	ErrOutOfBounds = errors.New("imagebuf: pixel out of bounds")
	// ErrBadMagic is returned when a PPM stream does not start with the P3 tag
	ErrBadMagic = errors.New("imagebuf: unsupported format tag")
	// ErrBadHeader is returned for malformed PPM headers and pixel data
	ErrBadHeader = errors.New("imagebuf: malformed header")
)

// Image is a linear colour grid. Row 0 is the bottom of the picture.
type Image struct {
	width  int
	height int
	pixels []core.Vec3
}

// New creates an image of the given width whose height follows from the aspect ratio
func New(aspectRatio float64, width int) *Image {
	return NewWithSize(width, int(float64(width)/aspectRatio))
}

// NewWithSize creates a black image with explicit dimensions
func NewWithSize(width, height int) *Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Image{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Width returns the number of columns
func (img *Image) Width() int { return img.width }

// Height returns the number of rows
func (img *Image) Height() int { return img.height }

// AspectRatio returns width / height
func (img *Image) AspectRatio() float64 {
	if img.height == 0 {
		return 0
	}
	return float64(img.width) / float64(img.height)
}

// Set stores the colour at (row, col)
func (img *Image) Set(row, col int, c core.Vec3) error {
	if !img.inBounds(row, col) {
		return ErrOutOfBounds
	}
	img.pixels[row*img.width+col] = c
	return nil
}

// At returns the colour at (row, col), black when out of bounds
func (img *Image) At(row, col int) core.Vec3 {
	if !img.inBounds(row, col) {
		return core.Vec3{}
	}
	return img.pixels[row*img.width+col]
}

func (img *Image) inBounds(row, col int) bool {
	return row >= 0 && row < img.height && col >= 0 && col < img.width
}

// toBytes maps a colour clamped to [0,1] onto 8-bit channels
func toBytes(c core.Vec3) (r, g, b int) {
	c = c.Clamp(0, 1)
	return int(255.999 * c.X), int(255.999 * c.Y), int(255.999 * c.Z)
}

// ToRGBA converts the image to a standard library RGBA image with the top row at y=0
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.width, img.height))
	for row := 0; row < img.height; row++ {
		y := img.height - 1 - row
		for col := 0; col < img.width; col++ {
			r, g, b := toBytes(img.pixels[row*img.width+col])
			out.SetRGBA(col, y, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}
	}
	return out
}

// FromImage converts any standard library image into an Image
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	img := NewWithSize(bounds.Dx(), bounds.Dy())
	for y := 0; y < img.height; y++ {
		row := img.height - 1 - y
		for x := 0; x < img.width; x++ {
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			r, g, b, _ := src.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			img.pixels[row*img.width+x] = core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}
	return img
}

// Thumbnail returns a copy downscaled to at most maxWidth columns, preserving the aspect ratio.
// Images already narrower than maxWidth are returned unscaled.
func (img *Image) Thumbnail(maxWidth int) image.Image {
	rgba := img.ToRGBA()
	if maxWidth <= 0 || img.width <= maxWidth {
		return rgba
	}
	return resize.Resize(uint(maxWidth), 0, rgba, resize.Lanczos3)
}

// Average returns the mean colour over all pixels
func (img *Image) Average() core.Vec3 {
	if len(img.pixels) == 0 {
		return core.Vec3{}
	}
	var sum core.Vec3
	for _, p := range img.pixels {
		sum = sum.Add(p)
	}
	return sum.Divide(float64(len(img.pixels)))
}
