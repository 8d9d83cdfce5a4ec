package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/xburn/pkg/encoding"
	"github.com/Faultbox/xburn/pkg/math"
)

// STL format errors.
var (
	ErrMalformedMesh = errors.New("malformed mesh")
)

// Format identifies the STL variant a mesh was read from.
type Format int

// STL variants.
const (
	FormatUnknown Format = iota
	FormatBinary
	FormatASCII
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatASCII:
		return "ascii"
	default:
		return "unknown"
	}
}

const (
	stlHeaderSize  = 80
	stlPreambleLen = stlHeaderSize + 4
	stlRecordSize  = 50
)

// DetectFormat inspects raw STL bytes. A file whose size matches its
// declared triangle count exactly is binary even when the header starts
// with "solid", which many exporters write. Otherwise a "solid" prefix means
// ASCII, and anything else is read as binary.
func DetectFormat(data []byte) Format {
	if n, ok := binaryCount(data); ok && stlPreambleLen+stlRecordSize*n == len(data) {
		return FormatBinary
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if bytes.HasPrefix(trimmed, []byte("solid")) {
		return FormatASCII
	}
	return FormatBinary
}

func binaryCount(data []byte) (int, bool) {
	if len(data) < stlPreambleLen {
		return 0, false
	}
	return int(binary.LittleEndian.Uint32(data[stlHeaderSize:stlPreambleLen])), true
}

// Load parses a binary or ASCII STL stream.
func Load(data []byte) (*Mesh, error) {
	var (
		tris []Triangle
		name string
		err  error
	)
	format := DetectFormat(data)
	switch format {
	case FormatASCII:
		tris, name, err = parseASCII(data)
		if err != nil {
			// binary files with a "solid" header and trailing bytes
			if bt, bn, berr := parseBinary(data); berr == nil {
				tris, name, err, format = bt, bn, nil, FormatBinary
			}
		}
	default:
		tris, name, err = parseBinary(data)
	}
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrMalformedMesh)
	}
	return newMesh(name, format, tris), nil
}

// LoadFile parses an STL file from disk.
func LoadFile(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	m, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func parseBinary(data []byte) ([]Triangle, string, error) {
	n, ok := binaryCount(data)
	if !ok {
		return nil, "", fmt.Errorf("%w: truncated header (%d bytes)", ErrMalformedMesh, len(data))
	}
	// trailing bytes after the declared records are ignored
	if need := stlPreambleLen + stlRecordSize*n; need > len(data) {
		return nil, "", fmt.Errorf("%w: truncated: %d triangles need %d bytes, have %d",
			ErrMalformedMesh, n, need, len(data))
	}

	name := encoding.FixedStringToUTF8(data[:stlHeaderSize])
	name = strings.TrimSpace(strings.TrimPrefix(name, "solid"))

	tris := make([]Triangle, n)
	for i := range n {
		rec := data[stlPreambleLen+i*stlRecordSize:]
		var t Triangle
		// skip the stored 12-byte normal; normals are always recomputed
		for v := range 3 {
			off := 12 + v*12
			t.V[v] = math.Vec3{
				X: float64(readFloat32(rec[off:])),
				Y: float64(readFloat32(rec[off+4:])),
				Z: float64(readFloat32(rec[off+8:])),
			}
		}
		if !t.IsFinite() {
			return nil, "", fmt.Errorf("%w: triangle %d has non-finite coordinates", ErrMalformedMesh, i)
		}
		tris[i] = t
	}
	return tris, name, nil
}

func readFloat32(b []byte) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b))
}

// parseASCII reads "solid ... facet normal / outer loop / vertex x3 /
// endloop / endfacet ... endsolid". Multiple solids are concatenated.
func parseASCII(data []byte) ([]Triangle, string, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		tris   []Triangle
		name   string
		cur    Triangle
		nv     int
		inLoop bool
		line   int
	)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "solid":
			if name == "" && len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}
		case "facet":
			nv = 0
		case "outer":
			inLoop = true
		case "vertex":
			if !inLoop || nv >= 3 {
				return nil, "", fmt.Errorf("%w: line %d: unexpected vertex", ErrMalformedMesh, line)
			}
			if len(fields) != 4 {
				return nil, "", fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformedMesh, line)
			}
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, "", fmt.Errorf("%w: line %d: %v", ErrMalformedMesh, line, err)
			}
			cur.V[nv] = v
			nv++
		case "endloop":
			if nv != 3 {
				return nil, "", fmt.Errorf("%w: line %d: loop has %d vertices", ErrMalformedMesh, line, nv)
			}
			inLoop = false
		case "endfacet":
			if nv != 3 {
				return nil, "", fmt.Errorf("%w: line %d: incomplete facet", ErrMalformedMesh, line)
			}
			tris = append(tris, cur)
			cur, nv = Triangle{}, 0
		case "endsolid":
		default:
			return nil, "", fmt.Errorf("%w: line %d: unexpected %q", ErrMalformedMesh, line, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformedMesh, err)
	}
	if nv != 0 || inLoop {
		return nil, "", fmt.Errorf("%w: truncated facet at end of file", ErrMalformedMesh)
	}
	return tris, name, nil
}

func parseVertex(fields []string) (math.Vec3, error) {
	var c [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("bad coordinate %q", f)
		}
		if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
			return math.Vec3{}, fmt.Errorf("non-finite coordinate %q", f)
		}
		c[i] = v
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// WriteBinary writes the world-space mesh as binary STL.
func (m *Mesh) WriteBinary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(encoding.UTF8ToFixedString(m.Name, stlHeaderSize)); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return err
	}
	rec := make([]float32, 12)
	for t := range m.Triangles() {
		n := t.Normal()
		rec[0], rec[1], rec[2] = float32(n.X), float32(n.Y), float32(n.Z)
		for v := range 3 {
			p := t.V[v].Float32()
			copy(rec[3+v*3:], p[:])
		}
		if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
			return err
		}
		if _, err := bw.Write([]byte{0, 0}); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteASCII writes the world-space mesh as ASCII STL.
func (m *Mesh) WriteASCII(w io.Writer) error {
	bw := bufio.NewWriter(w)
	name := m.Name
	if name == "" {
		name = "mesh"
	}
	fmt.Fprintf(bw, "solid %s\n", name)
	for t := range m.Triangles() {
		n := t.Normal()
		fmt.Fprintf(bw, "  facet normal %g %g %g\n    outer loop\n", n.X, n.Y, n.Z)
		for _, v := range t.V {
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintf(bw, "    endloop\n  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}
