package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/JHay0112/raytracing/pkg/core"
)

// Limits on untrusted header counts
const (
	maxPreallocVertices = 1 << 20
	maxFaceVertices     = 1 << 10
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
	Elements    []PLYElement // Elements in file order
}

// PLYElement is one element block of the header
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the vertex positions and triangle indices loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle), polygons are fan triangulated
}

// TriangleCount returns the number of triangles in the mesh
func (d *PLYData) TriangleCount() int {
	return len(d.Faces) / 3
}

// LoadPLY loads a PLY file and returns the raw vertex and face data
func LoadPLY(filename string) (*PLYData, error) {
	startTime := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	plyData, err := ParsePLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded %s: %d vertices, %d triangles in %v",
		filename, len(plyData.Vertices), plyData.TriangleCount(), time.Since(startTime))

	return plyData, nil
}

// ParsePLY reads an ASCII or binary PLY stream
func ParsePLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var values valueReader
	switch header.Format {
	case "ascii":
		values = &asciiValues{reader: reader}
	case "binary_little_endian":
		values = &binaryValues{reader: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValues{reader: reader, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("unsupported PLY format %q: %w", header.Format, ErrInvalidMesh)
	}

	// Capacity is only a hint, the element data may be shorter than the header claims
	plyData := &PLYData{
		Vertices: make([]core.Vec3, 0, min(header.VertexCount, maxPreallocVertices)),
		Faces:    make([]int, 0, 3*min(header.FaceCount, maxPreallocVertices)),
	}

	// Elements are stored in header order
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(values, header, plyData)
		case "face":
			err = readFaces(values, header, plyData)
		default:
			err = skipElement(values, element)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, index := range plyData.Faces {
		if index < 0 || index >= len(plyData.Vertices) {
			return nil, fmt.Errorf("face index %d out of range: %w", index, ErrInvalidMesh)
		}
	}

	return plyData, nil
}

// parsePLYHeader parses the PLY header, leaving the reader at the start of the element data
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := reader.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("missing ply magic: %w", ErrInvalidMesh)
	}

	var currentElement string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("error reading header: %w", err)
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			return header, nil
		case "format":
			if len(parts) >= 3 {
				header.Format = parts[1]
				header.Version = parts[2]
			}
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element definition %q: %w", strings.TrimSpace(line), ErrInvalidMesh)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count %q: %w", parts[2], ErrInvalidMesh)
			}

			currentElement = parts[1]
			header.Elements = append(header.Elements, PLYElement{Name: currentElement, Count: count})
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}

			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property outside element: %w", ErrInvalidMesh)
			}
			last := &header.Elements[len(header.Elements)-1]
			last.Props = append(last.Props, prop)

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition: %w", ErrInvalidMesh)
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition: %w", ErrInvalidMesh)
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}

	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

func readVertices(values valueReader, header *PLYHeader, plyData *PLYData) error {
	for i := 0; i < header.VertexCount; i++ {
		var position [3]float64
		for _, prop := range header.VertexProps {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return fmt.Errorf("vertex %d: %w", i, err)
				}
				continue
			}

			v, err := values.read(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				position[0] = v
			case "y":
				position[1] = v
			case "z":
				position[2] = v
			}
		}
		plyData.Vertices = append(plyData.Vertices, core.NewVec3(position[0], position[1], position[2]))
	}
	return nil
}

func readFaces(values valueReader, header *PLYHeader, plyData *PLYData) error {
	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(values, prop); err != nil {
					return fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}

			count, err := values.read(prop.ListType)
			if err != nil {
				return fmt.Errorf("face %d vertex count: %w", i, err)
			}
			if count < 3 || count > maxFaceVertices {
				return fmt.Errorf("face %d has %v vertices: %w", i, count, ErrInvalidMesh)
			}

			indices := make([]int, int(count))
			for j := range indices {
				v, err := values.read(prop.DataType)
				if err != nil {
					return fmt.Errorf("face %d index %d: %w", i, j, err)
				}
				indices[j] = int(v)
			}

			// Fan triangulation around the first vertex
			for j := 1; j+1 < len(indices); j++ {
				plyData.Faces = append(plyData.Faces, indices[0], indices[j], indices[j+1])
			}
		}
	}
	return nil
}

func skipElement(values valueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Props {
			if err := skipProperty(values, prop); err != nil {
				return fmt.Errorf("%s %d property %s: %w", element.Name, i, prop.Name, err)
			}
		}
	}
	return nil
}

func skipProperty(values valueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.read(prop.Type)
	return err
}

func skipList(values valueReader, prop PLYProperty) error {
	count, err := values.read(prop.ListType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := values.read(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// valueReader reads one scalar of a PLY data type from the element stream
type valueReader interface {
	read(dataType string) (float64, error)
}

type asciiValues struct {
	reader *bufio.Reader
}

func (a *asciiValues) read(dataType string) (float64, error) {
	var tok []byte
	for {
		b, err := a.reader.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				break
			}
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if len(tok) > 0 {
				break
			}
			continue
		}
		tok = append(tok, b)
	}

	if _, ok := plyTypeSizes[dataType]; !ok {
		return 0, fmt.Errorf("unsupported data type %q: %w", dataType, ErrInvalidMesh)
	}
	v, err := strconv.ParseFloat(string(tok), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", tok, ErrInvalidMesh)
	}
	return v, nil
}

type binaryValues struct {
	reader *bufio.Reader
	order  binary.ByteOrder
	buf    [8]byte
}

var plyTypeSizes = map[string]int{
	"char": 1, "int8": 1, "uchar": 1, "uint8": 1,
	"short": 2, "int16": 2, "ushort": 2, "uint16": 2,
	"int": 4, "int32": 4, "uint": 4, "uint32": 4,
	"float": 4, "float32": 4, "double": 8, "float64": 8,
}

func (b *binaryValues) read(dataType string) (float64, error) {
	size, ok := plyTypeSizes[dataType]
	if !ok {
		return 0, fmt.Errorf("unsupported data type %q: %w", dataType, ErrInvalidMesh)
	}

	data := b.buf[:size]
	if _, err := io.ReadFull(b.reader, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "char", "int8":
		return float64(int8(data[0])), nil
	case "uchar", "uint8":
		return float64(data[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	default:
		return math.Float64frombits(b.order.Uint64(data)), nil
	}
}
