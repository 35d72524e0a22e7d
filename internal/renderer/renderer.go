package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names shared by the scene and every shader program.
const (
	ModelMatrix      = "ModelMatrix"
	ViewMatrix       = "ViewMatrix"
	ProjectionMatrix = "ProjectionMatrix"
	ColorUniform     = "Color"
	LightPosition    = "LightPosition"
)

// MaxPickID is the largest id the picking surface can hold.
const MaxPickID = 0xFF

// Render draws meshes with a bound shader. Shader and mesh ids are opaque
// strings resolved by the implementation.
type Render interface {
	BindShader(id string)
	SetUniformMatrix4(name string, m mgl32.Mat4)
	SetUniformVec3(name string, v mgl32.Vec3)
	DrawMesh(id string)
	UnbindShader()
}

// PickBuffer is a per-pixel object id surface. While enabled, every fragment
// drawn replaces the surface value with the current id.
type PickBuffer interface {
	EnablePicking()
	SetPickReplace()
	SetPickID(id uint32)
	ReadPickID(x, y int) uint32
	DisablePicking()
}

// CameraBinder is implemented by renderers that need the frame's view and
// projection before any node is drawn.
type CameraBinder interface {
	SetCamera(view, projection mgl32.Mat4)
}

// MeshData is CPU side geometry: positions and normals as xyz triples,
// texture coordinates as uv pairs, triangle indices.
type MeshData struct {
	Name      string
	Positions []float32
	Normals   []float32
	TexCoords []float32
	Indices   []uint32
}

func (m *MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// Interleave returns the vertex stream as [x y z u v nx ny nz] per vertex,
// padding missing texture coordinates and normals with zeros.
func (m *MeshData) Interleave() []float32 {
	count := m.VertexCount()
	out := make([]float32, 0, count*8)
	for i := 0; i < count; i++ {
		out = append(out, m.Positions[i*3:i*3+3]...)
		if len(m.TexCoords) >= (i+1)*2 {
			out = append(out, m.TexCoords[i*2:i*2+2]...)
		} else {
			out = append(out, 0, 0)
		}
		if len(m.Normals) >= (i+1)*3 {
			out = append(out, m.Normals[i*3:i*3+3]...)
		} else {
			out = append(out, 0, 0, 0)
		}
	}
	return out
}
