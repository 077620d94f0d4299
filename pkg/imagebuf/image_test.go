package imagebuf

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JHay0112/raytracing/pkg/core"
)

func TestNew_HeightFromAspectRatio(t *testing.T) {
	tests := []struct {
		aspect         float64
		width          int
		expectedHeight int
	}{
		{16.0 / 9.0, 400, 225},
		{1.0, 64, 64},
		{2.0, 5, 2},
	}

	for _, tt := range tests {
		img := New(tt.aspect, tt.width)
		if img.Width() != tt.width || img.Height() != tt.expectedHeight {
			t.Errorf("New(%f, %d): expected %dx%d, got %dx%d",
				tt.aspect, tt.width, tt.width, tt.expectedHeight, img.Width(), img.Height())
		}
	}
}

func TestImage_SetAt(t *testing.T) {
	img := NewWithSize(3, 2)
	c := core.NewVec3(0.1, 0.2, 0.3)

	if err := img.Set(1, 2, c); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if img.At(1, 2) != c {
		t.Errorf("Expected %v, got %v", c, img.At(1, 2))
	}

	for _, pos := range [][2]int{{-1, 0}, {2, 0}, {0, 3}, {0, -1}} {
		if err := img.Set(pos[0], pos[1], c); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Set(%d, %d): expected ErrOutOfBounds, got %v", pos[0], pos[1], err)
		}
	}
	if img.At(5, 5) != (core.Vec3{}) {
		t.Error("Out of bounds At should return black")
	}
}

func TestWritePPM_Format(t *testing.T) {
	img := NewWithSize(2, 2)
	img.Set(1, 0, core.NewVec3(1, 0, 0))    // top left
	img.Set(1, 1, core.NewVec3(0, 1, 0))    // top right
	img.Set(0, 0, core.NewVec3(0, 0, 1))    // bottom left
	img.Set(0, 1, core.NewVec3(2, -1, 0.5)) // bottom right, out of range channels

	var buf bytes.Buffer
	if err := img.WritePPM(&buf); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := "P3\n2 2\n255\n255 0 0\n0 255 0\n0 0 255\n255 0 127\n"
	if buf.String() != expected {
		t.Errorf("Unexpected PPM output:\n%q\nexpected:\n%q", buf.String(), expected)
	}
}

func TestPPM_HeaderRoundTrip(t *testing.T) {
	img := New(16.0/9.0, 32)

	var buf bytes.Buffer
	if err := img.WritePPM(&buf); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	header, err := ReadPPMHeader(&buf)
	if err != nil {
		t.Fatalf("ReadPPMHeader failed: %v", err)
	}
	if header.Format != PPMMagic || header.Width != 32 || header.Height != 18 || header.MaxValue != 255 {
		t.Errorf("Unexpected header %+v", header)
	}
}

func TestDecodePPM_RoundTrip(t *testing.T) {
	img := NewWithSize(3, 2)
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			img.Set(row, col, core.NewVec3(float64(col)/2, float64(row), 0.5))
		}
	}

	var buf bytes.Buffer
	if err := img.WritePPM(&buf); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}
	decoded, err := DecodePPM(&buf)
	if err != nil {
		t.Fatalf("DecodePPM failed: %v", err)
	}

	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			want, got := img.At(row, col), decoded.At(row, col)
			if math.Abs(want.X-got.X) > 1.0/255 || math.Abs(want.Y-got.Y) > 1.0/255 || math.Abs(want.Z-got.Z) > 1.0/255 {
				t.Errorf("Pixel (%d, %d): expected %v, got %v", row, col, want, got)
			}
		}
	}
}

func TestReadPPMHeader_Comments(t *testing.T) {
	input := "P3\n# created by hand\n4 # width\n3\n255\n"
	header, err := ReadPPMHeader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadPPMHeader failed: %v", err)
	}
	if header.Width != 4 || header.Height != 3 || header.MaxValue != 255 {
		t.Errorf("Unexpected header %+v", header)
	}
}

func TestReadPPMHeader_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"binary variant", "P6\n1 1\n255\n", ErrBadMagic},
		{"non numeric width", "P3\nx 1\n255\n", ErrBadHeader},
		{"zero height", "P3\n1 0\n255\n", ErrBadHeader},
		{"zero max value", "P3\n1 1\n0\n", ErrBadHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPPMHeader(strings.NewReader(tt.input)); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}

	if _, err := ReadPPMHeader(strings.NewReader("P3\n1")); err == nil {
		t.Error("Expected error for truncated header")
	}
}

func TestDecodePPM_Truncated(t *testing.T) {
	if _, err := DecodePPM(strings.NewReader("P3\n2 1\n255\n1 2 3\n4 5\n")); err == nil {
		t.Error("Expected error for truncated pixel data")
	}
}

func TestDecodePPM_OversizedHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"dimensions overflow int", "P3\n4294967296 4294967296\n255\n0 0 0\n"},
		{"too many pixels", "P3\n100000 100000\n255\n0 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePPM(strings.NewReader(tt.input)); !errors.Is(err, ErrBadHeader) {
				t.Errorf("Expected ErrBadHeader, got %v", err)
			}
		})
	}
}

func TestToRGBA_Orientation(t *testing.T) {
	img := NewWithSize(1, 2)
	img.Set(1, 0, core.NewVec3(1, 1, 1)) // top
	img.Set(0, 0, core.NewVec3(0, 0, 0)) // bottom

	rgba := img.ToRGBA()
	if got := rgba.RGBAAt(0, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Expected white at y=0, got %v", got)
	}
	if got := rgba.RGBAAt(0, 1); got != (color.RGBA{A: 255}) {
		t.Errorf("Expected black at y=1, got %v", got)
	}
}

func TestThumbnail(t *testing.T) {
	img := NewWithSize(64, 32)

	thumb := img.Thumbnail(16)
	if b := thumb.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("Expected 16x8 thumbnail, got %dx%d", b.Dx(), b.Dy())
	}

	full := img.Thumbnail(128)
	if b := full.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("Expected unscaled 64x32 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestSaveLoad(t *testing.T) {
	img := NewWithSize(4, 2)
	img.Set(1, 3, core.NewVec3(1, 0, 0))
	img.Set(0, 0, core.NewVec3(0, 0, 1))

	for _, name := range []string{"out.ppm", "nested/out.png"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := img.Save(path); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if loaded.Width() != 4 || loaded.Height() != 2 {
				t.Fatalf("Expected 4x2, got %dx%d", loaded.Width(), loaded.Height())
			}
			if loaded.At(1, 3) != core.NewVec3(1, 0, 0) {
				t.Errorf("Expected red at top right, got %v", loaded.At(1, 3))
			}
			if loaded.At(0, 0) != core.NewVec3(0, 0, 1) {
				t.Errorf("Expected blue at bottom left, got %v", loaded.At(0, 0))
			}
		})
	}
}

func TestAverage(t *testing.T) {
	img := NewWithSize(2, 1)
	img.Set(0, 0, core.NewVec3(1, 0, 0))
	img.Set(0, 1, core.NewVec3(0, 1, 0))
	if avg := img.Average(); avg != core.NewVec3(0.5, 0.5, 0) {
		t.Errorf("Expected (0.5, 0.5, 0), got %v", avg)
	}
}
