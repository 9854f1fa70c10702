package mesh

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF loads a glTF or GLB file and returns its geometry as a single
// mesh. All triangle primitives from all meshes in the document are
// merged; non-triangle primitives are skipped.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	m := New(filepath.Base(path))

	for _, gm := range doc.Meshes {
		if err := appendPrimitives(doc, gm, m); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", gm.Name, err)
		}
	}

	if len(m.Vertices) == 0 {
		return nil, fmt.Errorf("%s: no triangle geometry found", path)
	}

	m.ComputeBounds()
	return m, nil
}

func appendPrimitives(doc *gltf.Document, gm *gltf.Mesh, m *Mesh) error {
	for _, prim := range gm.Primitives {
		// Mode 0 means the exporter left it unset, which defaults to triangles
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("reading positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return fmt.Errorf("reading normals: %w", err)
			}
		}

		base := uint32(len(m.Vertices))
		for i, p := range positions {
			v := Vertex{Position: p}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			m.Vertices = append(m.Vertices, v)
		}

		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("reading indices: %w", err)
			}
			for _, idx := range indices {
				m.Indices = append(m.Indices, base+idx)
			}
		} else {
			// Non-indexed: sequential triangles
			for i := range positions {
				m.Indices = append(m.Indices, base+uint32(i))
			}
		}
	}

	return nil
}
