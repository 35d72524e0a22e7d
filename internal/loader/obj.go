package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"Scenery3D/internal/logger"
	"Scenery3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// FaceVertex is one corner of an OBJ face, 0-based. Missing texture
// coordinate or normal references are -1.
type FaceVertex struct {
	VertexIdx   int32
	TexCoordIdx int32
	NormalIdx   int32
}

// LoadOBJ reads a Wavefront OBJ file. Faces are triangulated and every
// distinct v/vt/vn triplet becomes one vertex of the result.
func LoadOBJ(path string, recalculateNormals bool) (*renderer.MeshData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mesh, err := ParseOBJ(file, recalculateNormals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return mesh, nil
}

// ParseOBJ reads OBJ geometry from r. Material statements are ignored.
func ParseOBJ(r io.Reader, recalculateNormals bool) (*renderer.MeshData, error) {
	var vertices, texCoords, normals []float32
	var corners []FaceVertex

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "v":
			v, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			vertices = append(vertices, v...)
		case "vn":
			n, err := parseFloats(parts[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, n...)
		case "vt":
			tc, err := parseFloats(parts[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", lineNo, err)
			}
			texCoords = append(texCoords, tc...)
		case "f":
			face, err := parseFace(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: face: %w", lineNo, err)
			}
			corners = append(corners, face...)
		case "mtllib", "usemtl":
			logger.Log.Debug("Ignoring material statement", zap.String("statement", parts[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	mesh := unify(vertices, texCoords, normals, corners)
	if recalculateNormals || len(normals) == 0 {
		mesh.Normals = RecalculateNormals(mesh.Positions, mesh.Indices)
	}
	return mesh, nil
}

// unify turns separately indexed OBJ attributes into one vertex per
// distinct triplet.
func unify(vertices, texCoords, normals []float32, corners []FaceVertex) *renderer.MeshData {
	mesh := &renderer.MeshData{}
	seen := make(map[FaceVertex]uint32)
	vertexCount := int32(len(vertices) / 3)

	for _, fv := range corners {
		if idx, ok := seen[fv]; ok {
			mesh.Indices = append(mesh.Indices, idx)
			continue
		}
		idx := uint32(len(mesh.Positions) / 3)
		seen[fv] = idx

		if fv.VertexIdx >= 0 && fv.VertexIdx < vertexCount {
			i := fv.VertexIdx * 3
			mesh.Positions = append(mesh.Positions, vertices[i:i+3]...)
		} else {
			logger.Log.Error("Vertex index out of bounds",
				zap.Int32("vertexIdx", fv.VertexIdx),
				zap.Int32("vertices", vertexCount))
			mesh.Positions = append(mesh.Positions, 0, 0, 0)
		}

		if i := int(fv.TexCoordIdx) * 2; fv.TexCoordIdx >= 0 && i+1 < len(texCoords) {
			mesh.TexCoords = append(mesh.TexCoords, texCoords[i], texCoords[i+1])
		} else {
			mesh.TexCoords = append(mesh.TexCoords, 0, 0)
		}

		if i := int(fv.NormalIdx) * 3; fv.NormalIdx >= 0 && i+2 < len(normals) {
			mesh.Normals = append(mesh.Normals, normals[i:i+3]...)
		} else {
			mesh.Normals = append(mesh.Normals, 0, 1, 0)
		}

		mesh.Indices = append(mesh.Indices, idx)
	}
	return mesh
}

func parseFloats(parts []string, n int) ([]float32, error) {
	if len(parts) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(parts))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		val, err := strconv.ParseFloat(parts[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", parts[i], err)
		}
		out[i] = float32(val)
	}
	return out, nil
}

func parseIndex(s string) (int32, error) {
	idx, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	return int32(idx - 1), nil // .obj indices start at 1
}

func parseFace(parts []string) ([]FaceVertex, error) {
	if len(parts) < 3 {
		return nil, fmt.Errorf("face needs 3 vertices, got %d", len(parts))
	}
	face := make([]FaceVertex, 0, len(parts))
	for _, part := range parts {
		vals := strings.Split(part, "/")

		v, err := parseIndex(vals[0])
		if err != nil {
			return nil, err
		}
		fv := FaceVertex{VertexIdx: v, TexCoordIdx: -1, NormalIdx: -1}
		if len(vals) > 1 && vals[1] != "" {
			if fv.TexCoordIdx, err = parseIndex(vals[1]); err != nil {
				return nil, err
			}
		}
		if len(vals) > 2 && vals[2] != "" {
			if fv.NormalIdx, err = parseIndex(vals[2]); err != nil {
				return nil, err
			}
		}
		face = append(face, fv)
	}

	if len(face) == 3 {
		return face, nil
	}
	// fan from the first corner, counter-clockwise
	triangulated := make([]FaceVertex, 0, (len(face)-2)*3)
	for i := 1; i < len(face)-1; i++ {
		triangulated = append(triangulated, face[0], face[i], face[i+1])
	}
	return triangulated, nil
}

// RecalculateNormals returns smooth per-vertex normals averaged from the
// triangles that share each vertex.
func RecalculateNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))
	if len(positions) == 0 || len(indices) == 0 {
		return normals
	}
	count := uint32(len(positions) / 3)

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= count || b >= count || c >= count {
			logger.Log.Warn("Triangle index out of bounds", zap.Int("triangle", i/3))
			continue
		}
		v0 := mgl32.Vec3{positions[a*3], positions[a*3+1], positions[a*3+2]}
		v1 := mgl32.Vec3{positions[b*3], positions[b*3+1], positions[b*3+2]}
		v2 := mgl32.Vec3{positions[c*3], positions[c*3+1], positions[c*3+2]}

		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		for _, idx := range []uint32{a, b, c} {
			for j := uint32(0); j < 3; j++ {
				normals[idx*3+j] += n[j]
			}
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}
	return normals
}
