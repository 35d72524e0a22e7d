package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Mesh is geometry uploaded to the GPU.
type Mesh struct {
	Name       string
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// UploadMesh creates the vertex array for data. Requires a current context.
func UploadMesh(data *MeshData) (*Mesh, error) {
	if data.VertexCount() == 0 || len(data.Indices) == 0 {
		return nil, fmt.Errorf("mesh %q has no geometry", data.Name)
	}
	interleaved := data.Interleave()
	mesh := &Mesh{Name: data.Name, IndexCount: int32(len(data.Indices))}

	gl.GenVertexArrays(1, &mesh.VAO)
	gl.BindVertexArray(mesh.VAO)

	gl.GenBuffers(1, &mesh.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, mesh.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(interleaved)*4, gl.Ptr(interleaved), gl.STATIC_DRAW)

	gl.GenBuffers(1, &mesh.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, mesh.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data.Indices)*4, gl.Ptr(data.Indices), gl.STATIC_DRAW)

	stride := int32(8 * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	return mesh, nil
}

func (m *Mesh) Draw() {
	gl.BindVertexArray(m.VAO)
	gl.DrawElements(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (m *Mesh) Delete() {
	gl.DeleteBuffers(1, &m.EBO)
	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteVertexArrays(1, &m.VAO)
}
