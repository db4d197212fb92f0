// Package stl serializes triangle meshes to the STL interchange format,
// in both the compact binary layout and the human-readable ASCII dialect.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/marbeck/relievo/pkg/geom"
	"github.com/marbeck/relievo/pkg/mesh"
)

// Format selects the output encoding.
type Format int

const (
	// Binary is the 50-byte-per-triangle layout most slicers prefer.
	Binary Format = iota
	// ASCII is the textual solid/facet dialect.
	ASCII
)

// String returns the format name for logs and flags.
func (f Format) String() string {
	switch f {
	case Binary:
		return "binary"
	case ASCII:
		return "ascii"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "binary", "bin", "":
		return Binary, nil
	case "ascii", "text":
		return ASCII, nil
	}
	return Binary, fmt.Errorf("stl: unknown format %q", s)
}

// headerSize is the fixed binary STL header length.
const headerSize = 80

// Write serializes the mesh to w. Triangles carrying a zero normal get one
// computed from their winding at write time, so callers can build meshes
// without tracking normals themselves.
func Write(w io.Writer, m *mesh.Mesh, name string, format Format) error {
	if m == nil {
		return fmt.Errorf("stl: nil mesh")
	}
	switch format {
	case Binary:
		return writeBinary(w, m, name)
	case ASCII:
		return writeASCII(w, m, name)
	}
	return fmt.Errorf("stl: unknown format %v", format)
}

func writeBinary(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	copy(header[:], name)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("stl: write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(m.Len())); err != nil {
		return fmt.Errorf("stl: write count: %w", err)
	}

	var rec [50]byte
	for i := range m.Triangles {
		t := &m.Triangles[i]
		n := normalOf(t)
		putVec(rec[0:], n)
		putVec(rec[12:], t.V1)
		putVec(rec[24:], t.V2)
		putVec(rec[36:], t.V3)
		rec[48], rec[49] = 0, 0 // attribute byte count
		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("stl: write triangle %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func putVec(b []byte, v v3.Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}

func writeASCII(w io.Writer, m *mesh.Mesh, name string) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "solid %s\n", name); err != nil {
		return fmt.Errorf("stl: write solid: %w", err)
	}
	for i := range m.Triangles {
		t := &m.Triangles[i]
		n := normalOf(t)
		fmt.Fprintf(bw, "  facet normal %.6f %.6f %.6f\n", n.X, n.Y, n.Z)
		fmt.Fprintf(bw, "    outer loop\n")
		for _, v := range []v3.Vec{t.V1, t.V2, t.V3} {
			fmt.Fprintf(bw, "      vertex %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintf(bw, "    endloop\n")
		if _, err := fmt.Fprintf(bw, "  endfacet\n"); err != nil {
			return fmt.Errorf("stl: write facet %d: %w", i, err)
		}
	}
	if _, err := fmt.Fprintf(bw, "endsolid %s\n", name); err != nil {
		return fmt.Errorf("stl: write endsolid: %w", err)
	}
	return bw.Flush()
}

// normalOf returns the stored normal, or one derived from the winding when
// the stored normal is zero.
func normalOf(t *mesh.Triangle) v3.Vec {
	if t.Normal.Length() > geom.Eps {
		return t.Normal
	}
	return mesh.FaceNormal(t.V1, t.V2, t.V3)
}

// ReadBinaryHeader extracts the name and triangle count from a binary STL
// stream, for quick inspection without parsing the whole body. The name is
// the header bytes up to the first NUL.
func ReadBinaryHeader(r io.Reader) (string, uint32, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return "", 0, fmt.Errorf("stl: read header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return "", 0, fmt.Errorf("stl: read count: %w", err)
	}

	name := header[:]
	for i, b := range name {
		if b == 0 {
			name = name[:i]
			break
		}
	}
	return string(name), count, nil
}
