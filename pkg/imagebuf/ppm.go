package imagebuf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// PPMMagic is the format tag of the plain-text PPM variant
const PPMMagic = "P3"

// MaxChannelValue is the channel maximum written to PPM headers
const MaxChannelValue = 255

// MaxDecodePixels bounds the size of images DecodePPM will allocate
const MaxDecodePixels = 1 << 26

// Header describes a PPM file header
type Header struct {
	Format   string
	Width    int
	Height   int
	MaxValue int
}

// WritePPM writes the image as plain-text PPM. Rows are written top to bottom.
func (img *Image) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%d\n", PPMMagic, img.width, img.height, MaxChannelValue); err != nil {
		return err
	}

	for row := img.height - 1; row >= 0; row-- {
		for col := 0; col < img.width; col++ {
			r, g, b := toBytes(img.pixels[row*img.width+col])
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// ReadPPMHeader parses the header of a plain-text PPM stream
func ReadPPMHeader(r io.Reader) (Header, error) {
	return newTokenReader(r).header()
}

// DecodePPM reads a complete plain-text PPM image
func DecodePPM(r io.Reader) (*Image, error) {
	tr := newTokenReader(r)
	header, err := tr.header()
	if err != nil {
		return nil, err
	}
	if header.Width > MaxDecodePixels/header.Height {
		return nil, fmt.Errorf("%dx%d exceeds %d pixels: %w", header.Width, header.Height, MaxDecodePixels, ErrBadHeader)
	}

	img := NewWithSize(header.Width, header.Height)
	scale := 1.0 / float64(header.MaxValue)
	for row := header.Height - 1; row >= 0; row-- {
		for col := 0; col < header.Width; col++ {
			var rgb [3]float64
			for i := range rgb {
				v, err := tr.int()
				if err != nil {
					return nil, fmt.Errorf("pixel (%d, %d): %w", row, col, err)
				}
				if v < 0 || v > header.MaxValue {
					return nil, fmt.Errorf("pixel (%d, %d) value %d: %w", row, col, v, ErrBadHeader)
				}
				rgb[i] = float64(v) * scale
			}
			img.pixels[row*img.width+col].X = rgb[0]
			img.pixels[row*img.width+col].Y = rgb[1]
			img.pixels[row*img.width+col].Z = rgb[2]
		}
	}

	return img, nil
}

// tokenReader splits a PPM stream into whitespace separated tokens, skipping # comments
type tokenReader struct {
	r *bufio.Reader
}

func newTokenReader(r io.Reader) *tokenReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &tokenReader{r: br}
	}
	return &tokenReader{r: bufio.NewReader(r)}
}

func (tr *tokenReader) header() (Header, error) {
	magic, err := tr.token()
	if err != nil {
		return Header{}, fmt.Errorf("reading format tag: %w", err)
	}
	if magic != PPMMagic {
		return Header{}, fmt.Errorf("format tag %q: %w", magic, ErrBadMagic)
	}

	header := Header{Format: magic}
	for _, field := range []*int{&header.Width, &header.Height, &header.MaxValue} {
		if *field, err = tr.int(); err != nil {
			return Header{}, err
		}
	}

	if header.Width <= 0 || header.Height <= 0 || header.MaxValue <= 0 || header.MaxValue > 65535 {
		return Header{}, fmt.Errorf("%dx%d max %d: %w", header.Width, header.Height, header.MaxValue, ErrBadHeader)
	}
	return header, nil
}

func (tr *tokenReader) int() (int, error) {
	tok, err := tr.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("token %q: %w", tok, ErrBadHeader)
	}
	return v, nil
}

func (tr *tokenReader) token() (string, error) {
	var tok []byte
	for {
		b, err := tr.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}

		switch {
		case b == '#' && len(tok) == 0:
			if _, err := tr.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}
