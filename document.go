package meshopt

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Ram9299/3dshape-explorer/lod"
	"github.com/Ram9299/3dshape-explorer/mesh"
)

const (
	// DocumentFormat identifies optimized-mesh documents.
	DocumentFormat = "optimized-mesh"

	// DocumentVersion is the current document schema version.
	DocumentVersion = 1
)

// Document is the serialized form of an optimization result. It is what
// viewers consume: one record per detail level, coarsest data reachable
// without decoding the finer levels.
type Document struct {
	Format  string        `json:"format"`
	Version int           `json:"version"`
	Levels  []LevelRecord `json:"levels"`
}

// LevelRecord is one detail level of a document.
type LevelRecord struct {
	// Detail is the requested detail ratio in (0, 1].
	Detail float64 `json:"detail"`

	// Achieved is the face ratio actually reached, relative to the base
	// mesh. It can exceed Detail when no more edges could collapse.
	Achieved float64 `json:"achieved"`

	Vertices [][3]float64 `json:"vertices"`
	Faces    [][3]uint32  `json:"faces"`
	Normals  [][3]float64 `json:"normals"`
}

func newDocument(levels []lod.Level) *Document {
	doc := &Document{
		Format:  DocumentFormat,
		Version: DocumentVersion,
		Levels:  make([]LevelRecord, 0, len(levels)),
	}

	for _, lv := range levels {
		m := lv.Mesh
		rec := LevelRecord{
			Detail:   lv.Ratio,
			Achieved: lv.AchievedRatio,
			Vertices: make([][3]float64, len(m.Positions)),
			Faces:    make([][3]uint32, len(m.Faces)),
			Normals:  make([][3]float64, len(m.Normals)),
		}
		for i, p := range m.Positions {
			rec.Vertices[i] = [3]float64{p.X, p.Y, p.Z}
		}
		copy(rec.Faces, m.Faces)
		for i, n := range m.Normals {
			rec.Normals[i] = [3]float64{n.X, n.Y, n.Z}
		}
		doc.Levels = append(doc.Levels, rec)
	}

	return doc
}

// Validate checks the document header and per-level shape.
func (d *Document) Validate() error {
	if d.Format != DocumentFormat {
		return fmt.Errorf("%w: format %q", ErrInvalidDocument, d.Format)
	}
	if d.Version != DocumentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidDocument, d.Version)
	}
	for i, lv := range d.Levels {
		if lv.Detail <= 0 || lv.Detail > 1 {
			return fmt.Errorf("%w: level %d detail %g", ErrInvalidDocument, i, lv.Detail)
		}
		if len(lv.Normals) != len(lv.Vertices) {
			return fmt.Errorf("%w: level %d has %d normals for %d vertices",
				ErrInvalidDocument, i, len(lv.Normals), len(lv.Vertices))
		}
		for j, f := range lv.Faces {
			for _, v := range f {
				if int(v) >= len(lv.Vertices) {
					return fmt.Errorf("%w: level %d face %d references vertex %d of %d",
						ErrInvalidDocument, i, j, v, len(lv.Vertices))
				}
			}
		}
	}
	return nil
}

// Mesh reconstructs the level's mesh. The returned mesh shares no memory
// with the record.
func (r *LevelRecord) Mesh() *mesh.Mesh {
	m := &mesh.Mesh{
		Positions: make([]r3.Vec, len(r.Vertices)),
		Normals:   make([]r3.Vec, len(r.Normals)),
		Faces:     make([][3]uint32, len(r.Faces)),
	}
	for i, v := range r.Vertices {
		m.Positions[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	for i, n := range r.Normals {
		m.Normals[i] = r3.Vec{X: n[0], Y: n[1], Z: n[2]}
	}
	copy(m.Faces, r.Faces)
	return m
}
