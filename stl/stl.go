// Package stl decodes STL files (binary and ASCII) into triangle soup and
// encodes meshes back to binary STL.
//
// The decoder is deliberately dumb: it produces three loose vertices per
// triangle and ignores the normals stored in the file. Vertex merging and
// normal estimation are the mesh package's job.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Ram9299/3dshape-explorer/mesh"
)

// ErrFormat is returned when the input is neither valid binary nor valid
// ASCII STL.
var ErrFormat = errors.New("stl: malformed input")

const (
	headerSize = 80
	recordSize = 50 // 12B normal + 3x12B vertices + 2B attribute
)

// Read decodes an STL stream into triangle soup. Binary and ASCII variants
// are distinguished by the declared record count: a binary file's size is
// exactly header + count*50 bytes, which an ASCII file can't match by
// accident.
func Read(r io.Reader) ([][3]r3.Vec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if len(data) >= headerSize+4 {
		count := binary.LittleEndian.Uint32(data[headerSize:])
		if int64(len(data)) == int64(headerSize)+4+int64(count)*recordSize {
			return readBinary(data[headerSize+4:], int(count))
		}
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return readASCII(data)
	}
	return nil, ErrFormat
}

func readBinary(records []byte, count int) ([][3]r3.Vec, error) {
	soup := make([][3]r3.Vec, count)
	for i := 0; i < count; i++ {
		rec := records[i*recordSize:]
		for v := 0; v < 3; v++ {
			const normalSize = 12
			off := normalSize + v*12
			soup[i][v] = r3.Vec{
				X: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off:]))),
				Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off+4:]))),
				Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off+8:]))),
			}
		}
	}
	return soup, nil
}

func readASCII(data []byte) ([][3]r3.Vec, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	var verts []r3.Vec
	for {
		tok, ok := next()
		if !ok {
			break
		}
		if tok != "vertex" {
			continue
		}
		var coords [3]float64
		for i := range coords {
			s, ok := next()
			if !ok {
				return nil, fmt.Errorf("%w: truncated vertex", ErrFormat)
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad coordinate %q", ErrFormat, s)
			}
			coords[i] = f
		}
		verts = append(verts, r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(verts) == 0 || len(verts)%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertices do not form triangles", ErrFormat, len(verts))
	}

	soup := make([][3]r3.Vec, len(verts)/3)
	for i := range soup {
		soup[i] = [3]r3.Vec{verts[i*3], verts[i*3+1], verts[i*3+2]}
	}
	return soup, nil
}

// Write encodes the mesh as binary STL. Face normals are recomputed from the
// winding; degenerate faces get a zero normal.
func Write(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	copy(header[:], "exported by 3dshape-explorer")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(m.FaceCount())); err != nil {
		return err
	}

	putVec := func(v r3.Vec) error {
		for _, f := range []float64{v.X, v.Y, v.Z} {
			if err := binary.Write(bw, binary.LittleEndian, float32(f)); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range m.Faces {
		n := m.FaceCross(i)
		if r3.Norm2(n) > 0 {
			n = r3.Unit(n)
		}
		if err := putVec(n); err != nil {
			return err
		}
		for _, vi := range m.Faces[i] {
			if err := putVec(m.Positions[vi]); err != nil {
				return err
			}
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
