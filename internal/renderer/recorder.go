package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

type CallOp int

const (
	OpBindShader CallOp = iota
	OpUniformMatrix4
	OpUniformVec3
	OpDrawMesh
	OpUnbindShader
	OpEnablePicking
	OpPickReplace
	OpPickID
	OpDisablePicking
	OpSetCamera
)

var callOpNames = [...]string{
	"BindShader", "UniformMatrix4", "UniformVec3", "DrawMesh", "UnbindShader",
	"EnablePicking", "PickReplace", "PickID", "DisablePicking", "SetCamera",
}

func (op CallOp) String() string {
	if int(op) < len(callOpNames) {
		return callOpNames[op]
	}
	return "Unknown"
}

// Call is one recorded collaborator invocation.
type Call struct {
	Op     CallOp
	Name   string // shader id, mesh id or uniform name
	Matrix mgl32.Mat4
	Vec    mgl32.Vec3
	PickID uint32
}

// Recorder is an in-memory Render, PickBuffer and CameraBinder. It keeps a
// software id surface where each mesh covers a fixed rectangle of pixels, so
// picking can be exercised without a GPU. Surface coordinates are bottom-up
// like a GL framebuffer.
type Recorder struct {
	Calls      []Call
	Footprints map[string]image.Rectangle
	View       mgl32.Mat4
	Projection mgl32.Mat4

	width, height int
	surface       []uint32
	picking       bool
	replace       bool
	currentID     uint32
	bound         string
}

// NewRecorder creates a recorder with an empty width x height id surface.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		Footprints: make(map[string]image.Rectangle),
		width:      width,
		height:     height,
		surface:    make([]uint32, width*height),
	}
}

// Size returns the id surface dimensions.
func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

func (r *Recorder) BindShader(id string) {
	r.bound = id
	r.Calls = append(r.Calls, Call{Op: OpBindShader, Name: id})
}

func (r *Recorder) SetUniformMatrix4(name string, m mgl32.Mat4) {
	r.Calls = append(r.Calls, Call{Op: OpUniformMatrix4, Name: name, Matrix: m})
}

func (r *Recorder) SetUniformVec3(name string, v mgl32.Vec3) {
	r.Calls = append(r.Calls, Call{Op: OpUniformVec3, Name: name, Vec: v})
}

func (r *Recorder) DrawMesh(id string) {
	r.Calls = append(r.Calls, Call{Op: OpDrawMesh, Name: id, PickID: r.currentID})
	if !r.picking || !r.replace {
		return
	}
	area, ok := r.Footprints[id]
	if !ok {
		return
	}
	area = area.Intersect(image.Rect(0, 0, r.width, r.height))
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			r.surface[y*r.width+x] = r.currentID
		}
	}
}

func (r *Recorder) UnbindShader() {
	r.bound = ""
	r.Calls = append(r.Calls, Call{Op: OpUnbindShader})
}

// EnablePicking starts a fresh id surface, as a frame clear would.
func (r *Recorder) EnablePicking() {
	r.picking = true
	for i := range r.surface {
		r.surface[i] = 0
	}
	r.Calls = append(r.Calls, Call{Op: OpEnablePicking})
}

func (r *Recorder) SetPickReplace() {
	r.replace = true
	r.Calls = append(r.Calls, Call{Op: OpPickReplace})
}

func (r *Recorder) SetPickID(id uint32) {
	r.currentID = id & MaxPickID
	r.Calls = append(r.Calls, Call{Op: OpPickID, PickID: r.currentID})
}

func (r *Recorder) ReadPickID(x, y int) uint32 {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return 0
	}
	return r.surface[y*r.width+x]
}

func (r *Recorder) DisablePicking() {
	r.picking = false
	r.replace = false
	r.Calls = append(r.Calls, Call{Op: OpDisablePicking})
}

func (r *Recorder) SetCamera(view, projection mgl32.Mat4) {
	r.View = view
	r.Projection = projection
	r.Calls = append(r.Calls, Call{Op: OpSetCamera})
}

// Bound returns the currently bound shader id, empty when none.
func (r *Recorder) Bound() string {
	return r.bound
}

// Reset forgets recorded calls but keeps the footprints and surface.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// CallsOf returns the recorded calls with the given op, in order.
func (r *Recorder) CallsOf(op CallOp) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}
