package scene

import (
	"Scenery3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// Drawable is anything the frame loop can draw.
type Drawable interface {
	Draw()
}

// Node is a drawable entity. Its pose is kept as three separate matrices and
// composed as Translate * Rotate * Scale at draw time.
type Node struct {
	scale     mgl32.Mat4
	rotate    mgl32.Mat4
	translate mgl32.Mat4
	color     mgl32.Vec3
	meshID    string
	shaderID  string

	graph *Graph // owning graph, not owned
	index int
}

// NewNode creates a white node with identity transforms, not yet in a graph.
func NewNode() *Node {
	return &Node{
		scale:     mgl32.Ident4(),
		rotate:    mgl32.Ident4(),
		translate: mgl32.Ident4(),
		color:     mgl32.Vec3{1, 1, 1},
		index:     -1,
	}
}

// SetTransform assigns all three components.
func (n *Node) SetTransform(scale, rotate, translate mgl32.Mat4) *Node {
	n.scale = scale
	n.rotate = rotate
	n.translate = translate
	return n
}

// ComposeTransform left-multiplies each matrix onto its component.
func (n *Node) ComposeTransform(scale, rotate, translate mgl32.Mat4) *Node {
	n.scale = scale.Mul4(n.scale)
	n.rotate = rotate.Mul4(n.rotate)
	n.translate = translate.Mul4(n.translate)
	return n
}

func (n *Node) SetColor(color mgl32.Vec3) *Node {
	n.color = color
	return n
}

func (n *Node) SetMesh(meshID string) *Node {
	n.meshID = meshID
	return n
}

func (n *Node) SetShader(shaderID string) *Node {
	n.shaderID = shaderID
	return n
}

func (n *Node) ScaleMatrix() mgl32.Mat4     { return n.scale }
func (n *Node) RotateMatrix() mgl32.Mat4    { return n.rotate }
func (n *Node) TranslateMatrix() mgl32.Mat4 { return n.translate }
func (n *Node) Color() mgl32.Vec3           { return n.color }
func (n *Node) MeshID() string              { return n.meshID }
func (n *Node) ShaderID() string            { return n.shaderID }

// Index is the 0-based position in the owning graph, -1 before it is added.
func (n *Node) Index() int {
	return n.index
}

// PickID is the id the node writes to the picking surface.
func (n *Node) PickID() int {
	return n.index + 1
}

// ModelMatrix composes the render matrix. It is never cached.
func (n *Node) ModelMatrix() mgl32.Mat4 {
	return n.translate.Mul4(n.rotate).Mul4(n.scale)
}

// Scale grows the node for amount > 0 and shrinks it for amount < 0. A held
// axis key restricts the change to that axis.
func (n *Node) Scale(amount float64) {
	if amount == 0 {
		return
	}
	factor := n.tuning().ScaleFactor
	if amount < 0 {
		factor = 1 / factor
	}

	s := mgl32.Vec3{factor, factor, factor}
	if axis, ok := n.axisLock(); ok {
		s = mgl32.Vec3{1, 1, 1}
		s[axis] = factor
	}
	n.scale = mgl32.Scale3D(s.X(), s.Y(), s.Z()).Mul4(n.scale)
}

// Rotate turns the node about the camera's current up axis by dx and its
// right axis by dy.
func (n *Node) Rotate(dx, dy float64) {
	if n.graph == nil {
		return
	}
	step := n.tuning().RotateStep
	cam := n.graph.camera

	q := mgl32.Mat4ToQuat(n.rotate)
	qX := mgl32.QuatRotate(float32(dx)*step, cam.Up())
	qY := mgl32.QuatRotate(float32(dy)*step, cam.Right())
	n.rotate = qX.Mul(qY).Mul(q).Normalize().Mat4()
}

// Translate moves the node in the camera plane. Screen y grows downwards,
// so the up component is negated.
func (n *Node) Translate(dx, dy float64) {
	if n.graph == nil {
		return
	}
	step := n.tuning().TranslateStep
	cam := n.graph.camera

	offset := cam.Right().Mul(float32(dx) * step).Sub(cam.Up().Mul(float32(dy) * step))
	if axis, ok := n.axisLock(); ok {
		kept := offset[axis]
		offset = mgl32.Vec3{}
		offset[axis] = kept
	}
	n.translate = mgl32.Translate3D(offset.X(), offset.Y(), offset.Z()).Mul4(n.translate)
}

// Draw renders the node through the graph's renderer. It does not modify the node.
func (n *Node) Draw() {
	if n.graph == nil || n.graph.render == nil {
		return
	}
	r := n.graph.render

	r.BindShader(n.shaderID)
	r.SetUniformMatrix4(renderer.ModelMatrix, n.ModelMatrix())
	r.SetUniformVec3(renderer.ColorUniform, n.color)
	r.SetUniformVec3(renderer.LightPosition, n.graph.Light())
	if n.graph.pick != nil {
		n.graph.pick.SetPickID(uint32(n.PickID()))
	}
	r.DrawMesh(n.meshID)
	r.UnbindShader()
}

func (n *Node) tuning() EditTuning {
	if n.graph == nil {
		return DefaultEditTuning()
	}
	return n.graph.tuning
}

func (n *Node) axisLock() (Axis, bool) {
	if n.graph == nil {
		return 0, false
	}
	return n.graph.keys.AxisLock()
}
