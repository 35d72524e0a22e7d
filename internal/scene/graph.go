package scene

import (
	"path/filepath"

	"Scenery3D/internal/logger"
	"Scenery3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// EditTuning holds the per-node edit steps.
type EditTuning struct {
	ScaleFactor   float32
	RotateStep    float32
	TranslateStep float32
}

// DefaultEditTuning returns the stock scale, rotate and translate steps.
func DefaultEditTuning() EditTuning {
	return EditTuning{ScaleFactor: 1.1, RotateStep: 0.01, TranslateStep: 0.01}
}

// Graph owns the nodes, the camera and the light, and drives the input
// controller. Node order is index order, picking order and draw order.
type Graph struct {
	name string
	path string

	camera *OrbitCamera
	eye    mgl32.Vec3
	center mgl32.Vec3
	up     mgl32.Vec3
	fovy   float32
	aspect float32
	near   float32
	far    float32
	light  mgl32.Vec3

	nodes []*Node

	mode     Mode
	selected int
	cursorX  float64
	cursorY  float64
	leftDown bool
	width    int
	height   int

	pickPending  bool
	pickX, pickY int

	keys   *KeyState
	tuning EditTuning

	render renderer.Render
	pick   renderer.PickBuffer
	binder renderer.CameraBinder
}

// Option configures a Graph at construction.
type Option func(*Graph)

// WithSceneDir stores the scene at dir/name+ext.
func WithSceneDir(dir, ext string) Option {
	return func(g *Graph) {
		g.path = filepath.Join(dir, g.name+ext)
	}
}

// WithPath overrides the derived scene path.
func WithPath(path string) Option {
	return func(g *Graph) {
		g.path = path
	}
}

// WithRenderer attaches the draw collaborator. If r also implements
// PickBuffer or CameraBinder those capabilities are used too.
func WithRenderer(r renderer.Render) Option {
	return func(g *Graph) {
		g.SetRenderer(r)
	}
}

// WithCameraTuning replaces the orbit camera constants.
func WithCameraTuning(t CameraTuning) Option {
	return func(g *Graph) {
		g.camera.Tuning = t
	}
}

// WithEditTuning replaces the node edit steps.
func WithEditTuning(t EditTuning) Option {
	return func(g *Graph) {
		g.tuning = t
	}
}

// WithSurfaceSize sets the initial framebuffer size used for picking.
func WithSurfaceSize(width, height int) Option {
	return func(g *Graph) {
		g.width = width
		g.height = height
	}
}

// NewGraph creates an empty graph stored at scenes/name.txt unless an
// option says otherwise.
func NewGraph(name string, opts ...Option) *Graph {
	g := &Graph{
		name:   name,
		path:   filepath.Join("scenes", name+".txt"),
		camera: NewOrbitCamera(DefaultCameraTuning()),
		up:     mgl32.Vec3{0, 1, 0},
		keys:   NewKeyState(),
		tuning: DefaultEditTuning(),
		mode:   ModeNone,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetRenderer swaps the draw collaborator and its optional capabilities.
func (g *Graph) SetRenderer(r renderer.Render) {
	g.render = r
	g.pick, _ = r.(renderer.PickBuffer)
	g.binder, _ = r.(renderer.CameraBinder)
}

func (g *Graph) Name() string         { return g.name }
func (g *Graph) Path() string         { return g.path }
func (g *Graph) Camera() *OrbitCamera { return g.camera }
func (g *Graph) Keys() *KeyState      { return g.keys }
func (g *Graph) Mode() Mode           { return g.mode }
func (g *Graph) SelectedID() int      { return g.selected }
func (g *Graph) Size() int            { return len(g.nodes) }
func (g *Graph) Light() mgl32.Vec3    { return g.light }
func (g *Graph) Nodes() []*Node       { return g.nodes }
func (g *Graph) Tuning() EditTuning   { return g.tuning }
func (g *Graph) SurfaceSize() (int, int) {
	return g.width, g.height
}

// View returns the stored look-at triple.
func (g *Graph) View() (eye, center, up mgl32.Vec3) {
	return g.eye, g.center, g.up
}

// Perspective returns the stored projection parameters.
func (g *Graph) Perspective() (fovy, aspect, near, far float32) {
	return g.fovy, g.aspect, g.near, g.far
}

// SetCameraView stores the look-at triple and places the camera from it.
func (g *Graph) SetCameraView(eye, center, up mgl32.Vec3) {
	g.eye = eye
	g.center = center
	g.up = up
	g.camera.SetView(eye, center, up)
}

// SetCameraPerspective stores the projection parameters and applies them.
func (g *Graph) SetCameraPerspective(fovy, aspect, near, far float32) {
	g.fovy = fovy
	g.aspect = aspect
	g.near = near
	g.far = far
	g.camera.SetPerspective(fovy, aspect, near, far)
}

func (g *Graph) SetLight(light mgl32.Vec3) {
	g.light = light
}

// AddNode appends n and assigns its index.
func (g *Graph) AddNode(n *Node) {
	n.graph = g
	n.index = len(g.nodes)
	g.nodes = append(g.nodes, n)
	if n.PickID() > renderer.MaxPickID {
		logger.Log.Warn("Node is beyond the picking range",
			zap.Int("pickID", n.PickID()),
			zap.Int("max", renderer.MaxPickID))
	}
}

// Node returns the node with the given picking id, or nil.
func (g *Graph) Node(pickID int) *Node {
	if pickID < 1 || pickID > len(g.nodes) {
		return nil
	}
	return g.nodes[pickID-1]
}

// Selected returns the selected node, or nil.
func (g *Graph) Selected() *Node {
	return g.Node(g.selected)
}

// Select sets the selected id. Out of range ids clear the selection, and
// losing the selection leaves any edit mode.
func (g *Graph) Select(pickID int) {
	if g.Node(pickID) == nil {
		pickID = 0
	}
	g.selected = pickID
	if pickID == 0 && g.mode.requiresSelection() {
		g.setMode(ModeNone)
	}
}

// Reset drops every node and the selection and returns to ModeNone.
// Camera, light and held keys are kept.
func (g *Graph) Reset() {
	for _, n := range g.nodes {
		n.graph = nil
		n.index = -1
	}
	g.nodes = nil
	g.selected = 0
	g.pickPending = false
	g.setMode(ModeNone)
}

// Draw advances the camera by one frame and draws every node in index
// order with the picking surface enabled. A queued pick is read from the
// surface this frame just drew.
func (g *Graph) Draw() {
	if g.pick != nil {
		g.pick.EnablePicking()
		g.pick.SetPickReplace()
	}

	g.camera.Update()
	if g.binder != nil {
		g.binder.SetCamera(g.camera.ViewMatrix(), g.camera.ProjectionMatrix())
	}

	for _, n := range g.nodes {
		n.Draw()
	}

	if g.pick != nil {
		g.resolvePick()
		g.pick.DisablePicking()
	}
}

func (g *Graph) setMode(m Mode) {
	if g.mode == m {
		return
	}
	if g.mode == ModeCamera {
		g.camera.Disarm()
	}
	if g.mode == ModePick {
		g.pickPending = false
	}
	logger.Log.Debug("Mode changed", zap.Stringer("from", g.mode), zap.Stringer("to", m))
	g.mode = m
}
