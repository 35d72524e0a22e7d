package renderer

import (
	"Scenery3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// OpenGLRenderer resolves mesh and shader ids through its registries and
// uses the stencil buffer as the picking id surface.
type OpenGLRenderer struct {
	Meshes  *Registry[*Mesh]
	Shaders *Registry[*Program]

	ClearColor mgl32.Vec3

	current    *Program
	view       mgl32.Mat4
	projection mgl32.Mat4
	warned     map[string]bool
}

// NewOpenGLRenderer creates a renderer resolving ids through the given
// registries.
func NewOpenGLRenderer(meshes *Registry[*Mesh], shaders *Registry[*Program]) *OpenGLRenderer {
	return &OpenGLRenderer{
		Meshes:     meshes,
		Shaders:    shaders,
		ClearColor: mgl32.Vec3{0.1, 0.1, 0.1},
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
		warned:     make(map[string]bool),
	}
}

// Init sets the fixed pipeline state. Requires a current context.
func (rend *OpenGLRenderer) Init(width, height int32) error {
	if err := gl.Init(); err != nil {
		logger.Log.Error("OpenGL initialization failed", zap.Error(err))
		return err
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(true)
	gl.DepthRange(0.0, 1.0)
	gl.ClearDepth(1.0)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.ClearStencil(0)
	gl.Viewport(0, 0, width, height)
	logger.Log.Info("OpenGL render initialized", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))
	return nil
}

// Clear starts a frame, including the picking surface.
func (rend *OpenGLRenderer) Clear() {
	gl.ClearColor(rend.ClearColor.X(), rend.ClearColor.Y(), rend.ClearColor.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

// UpdateViewport updates the OpenGL viewport to match the current window size
func (rend *OpenGLRenderer) UpdateViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (rend *OpenGLRenderer) SetCamera(view, projection mgl32.Mat4) {
	rend.view = view
	rend.projection = projection
}

func (rend *OpenGLRenderer) BindShader(id string) {
	program, err := rend.Shaders.Get(id)
	if err != nil {
		rend.warnOnce(id, err)
		rend.current = nil
		return
	}
	program.Use()
	rend.current = program
	program.uniforms.SetMat4(ViewMatrix, rend.view)
	program.uniforms.SetMat4(ProjectionMatrix, rend.projection)
}

func (rend *OpenGLRenderer) SetUniformMatrix4(name string, m mgl32.Mat4) {
	if rend.current != nil {
		rend.current.uniforms.SetMat4(name, m)
	}
}

func (rend *OpenGLRenderer) SetUniformVec3(name string, v mgl32.Vec3) {
	if rend.current != nil {
		rend.current.uniforms.SetVec3(name, v)
	}
}

func (rend *OpenGLRenderer) DrawMesh(id string) {
	if rend.current == nil {
		return
	}
	mesh, err := rend.Meshes.Get(id)
	if err != nil {
		rend.warnOnce(id, err)
		return
	}
	mesh.Draw()
}

func (rend *OpenGLRenderer) UnbindShader() {
	gl.UseProgram(0)
	rend.current = nil
}

func (rend *OpenGLRenderer) EnablePicking() {
	gl.Enable(gl.STENCIL_TEST)
}

func (rend *OpenGLRenderer) SetPickReplace() {
	gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
}

func (rend *OpenGLRenderer) SetPickID(id uint32) {
	gl.StencilFunc(gl.ALWAYS, int32(id&MaxPickID), 0xFF)
}

// ReadPickID reads the stencil value at a bottom-up pixel coordinate.
func (rend *OpenGLRenderer) ReadPickID(x, y int) uint32 {
	var id uint32
	gl.ReadPixels(int32(x), int32(y), 1, 1, gl.STENCIL_INDEX, gl.UNSIGNED_INT, gl.Ptr(&id))
	return id
}

func (rend *OpenGLRenderer) DisablePicking() {
	gl.Disable(gl.STENCIL_TEST)
}

// Cleanup releases every registered GPU resource.
func (rend *OpenGLRenderer) Cleanup() {
	for _, key := range rend.Meshes.Keys() {
		if mesh, err := rend.Meshes.Get(key); err == nil {
			mesh.Delete()
		}
	}
	for _, key := range rend.Shaders.Keys() {
		if program, err := rend.Shaders.Get(key); err == nil {
			program.Delete()
		}
	}
}

func (rend *OpenGLRenderer) warnOnce(id string, err error) {
	if rend.warned[id] {
		return
	}
	rend.warned[id] = true
	logger.Log.Warn("Unresolved render asset", zap.String("id", id), zap.Error(err))
}
