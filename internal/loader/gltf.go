package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"Scenery3D/internal/logger"
	"Scenery3D/internal/renderer"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
)

// LoadGLTF reads every triangle primitive of a .gltf or .glb document into
// one mesh.
func LoadGLTF(path string) (*renderer.MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := ReadGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return mesh, nil
}

// ReadGLTF merges the triangle primitives of doc. If any primitive lacks
// normals, smooth normals are recalculated for the whole mesh.
func ReadGLTF(doc *gltf.Document) (*renderer.MeshData, error) {
	mesh := &renderer.MeshData{}
	missingNormals := false

	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				logger.Log.Debug("Skipping non-triangle primitive", zap.String("mesh", m.Name))
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: read positions: %w", m.Name, err)
			}
			base := uint32(len(mesh.Positions) / 3)
			for _, p := range positions {
				mesh.Positions = append(mesh.Positions, p[0], p[1], p[2])
			}

			if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read normals: %w", m.Name, err)
				}
				for _, n := range normals {
					mesh.Normals = append(mesh.Normals, n[0], n[1], n[2])
				}
			} else {
				missingNormals = true
				mesh.Normals = append(mesh.Normals, make([]float32, len(positions)*3)...)
			}

			if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read texture coordinates: %w", m.Name, err)
				}
				// glTF puts v=0 at the top
				for _, uv := range uvs {
					mesh.TexCoords = append(mesh.TexCoords, uv[0], 1-uv[1])
				}
			} else {
				mesh.TexCoords = append(mesh.TexCoords, make([]float32, len(positions)*2)...)
			}

			if prim.Indices != nil {
				indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: read indices: %w", m.Name, err)
				}
				for _, i := range indices {
					mesh.Indices = append(mesh.Indices, base+i)
				}
			} else {
				for i := range positions {
					mesh.Indices = append(mesh.Indices, base+uint32(i))
				}
			}
		}
	}

	if len(mesh.Positions) == 0 {
		return nil, fmt.Errorf("no triangle geometry")
	}
	if missingNormals {
		mesh.Normals = RecalculateNormals(mesh.Positions, mesh.Indices)
	}
	return mesh, nil
}
