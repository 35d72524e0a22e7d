package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// World axes the orbit drag rotates about.
var (
	orbitUp    = mgl32.Vec3{0, 1, 0}
	orbitRight = mgl32.Vec3{1, 0, 0}
)

const degenerateEpsilon = 1e-6

// CameraTuning holds the orbit camera constants.
type CameraTuning struct {
	MoveStep float32 // radians per pixel of drag
	ZoomStep float32 // distance per scroll tick
	MinZoom  float32
	MaxZoom  float32
}

// DefaultCameraTuning returns the stock drag and zoom steps.
func DefaultCameraTuning() CameraTuning {
	return CameraTuning{MoveStep: 0.01, ZoomStep: 0.1, MinZoom: 1, MaxZoom: 10}
}

// OrbitCamera orbits a fixed center. Its view is always translate(T) * rotate(q)
// with T = (0, 0, -d). Input only accumulates deltas; Update applies them.
type OrbitCamera struct {
	Tuning CameraTuning

	// orbit
	armed        bool
	prevX, prevY float64
	deltaX       float32
	deltaY       float32
	deltaScroll  float32

	// view
	d float32
	t mgl32.Vec3
	q mgl32.Quat

	// projection
	fovy   float32
	aspect float32
	near   float32
	far    float32

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// NewOrbitCamera creates a camera at MinZoom looking down -Z.
func NewOrbitCamera(tuning CameraTuning) *OrbitCamera {
	c := &OrbitCamera{
		Tuning:     tuning,
		d:          tuning.MinZoom,
		q:          mgl32.QuatIdent(),
		view:       mgl32.Ident4(),
		projection: mgl32.Ident4(),
	}
	c.t = mgl32.Vec3{0, 0, -c.d}
	c.updateView()
	return c
}

// SetView places the camera from a look-at triple. The distance is clamped
// to the zoom range. When eye and center coincide, or up is parallel to the
// line of sight, the current orientation is kept.
func (c *OrbitCamera) SetView(eye, center, up mgl32.Vec3) {
	dir := center.Sub(eye)
	dist := dir.Len()
	if dist > degenerateEpsilon && dir.Cross(up).Len() > degenerateEpsilon*dist {
		c.q = mgl32.Mat4ToQuat(mgl32.LookAtV(eye, center, up)).Normalize()
	}
	c.d = mgl32.Clamp(dist, c.Tuning.MinZoom, c.Tuning.MaxZoom)
	c.t = mgl32.Vec3{0, 0, -c.d}
	c.updateView()
}

// SetPerspective rebuilds the projection. fovy is in degrees.
func (c *OrbitCamera) SetPerspective(fovy, aspect, near, far float32) {
	c.fovy = fovy
	c.aspect = aspect
	c.near = near
	c.far = far
	c.updateProjection()
}

// SetAspect changes only the aspect ratio.
func (c *OrbitCamera) SetAspect(aspect float32) {
	c.aspect = aspect
	c.updateProjection()
}

func (c *OrbitCamera) updateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fovy), c.aspect, c.near, c.far)
}

func (c *OrbitCamera) updateView() {
	c.view = mgl32.Translate3D(c.t.X(), c.t.Y(), c.t.Z()).Mul4(c.q.Mat4())
}

// Cursor accumulates drag while the camera is armed.
func (c *OrbitCamera) Cursor(x, y float64) {
	if !c.armed {
		return
	}
	c.deltaX += float32(x-c.prevX) * c.Tuning.MoveStep
	c.deltaY += float32(y-c.prevY) * c.Tuning.MoveStep
	c.prevX = x
	c.prevY = y
}

// MouseButton arms drag tracking on a left press at (x, y); any other
// button event disarms it.
func (c *OrbitCamera) MouseButton(leftPress bool, x, y float64) {
	c.armed = leftPress
	if leftPress {
		c.prevX = x
		c.prevY = y
	}
}

// Disarm stops drag tracking.
func (c *OrbitCamera) Disarm() {
	c.armed = false
}

// Scroll accumulates zoom; scrolling up moves closer.
func (c *OrbitCamera) Scroll(yoffset float64) {
	c.deltaScroll -= float32(yoffset) * c.Tuning.ZoomStep
}

// Update applies the pending deltas once and zeroes them.
func (c *OrbitCamera) Update() {
	c.ApplyFrameDelta(c.deltaScroll, c.deltaX, c.deltaY)
}

// ApplyFrameDelta zooms by scroll (clamped to the zoom range), rotates by
// dx about the world up axis and dy about the world right axis, then clears
// every pending delta.
func (c *OrbitCamera) ApplyFrameDelta(scroll, dx, dy float32) {
	c.d = mgl32.Clamp(c.d+scroll, c.Tuning.MinZoom, c.Tuning.MaxZoom)
	c.t = mgl32.Vec3{0, 0, -c.d}

	qX := mgl32.QuatRotate(dx, orbitUp)
	qY := mgl32.QuatRotate(dy, orbitRight)
	c.q = qX.Mul(qY).Mul(c.q).Normalize()

	c.updateView()

	c.deltaScroll = 0
	c.deltaX = 0
	c.deltaY = 0
}

// Pending returns the accumulated, not yet applied, deltas.
func (c *OrbitCamera) Pending() (scroll, dx, dy float32) {
	return c.deltaScroll, c.deltaX, c.deltaY
}

// Distance is the current orbit radius.
func (c *OrbitCamera) Distance() float32 {
	return c.d
}

func (c *OrbitCamera) Orientation() mgl32.Quat {
	return c.q
}

func (c *OrbitCamera) Aspect() float32 {
	return c.aspect
}

func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return c.view
}

func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// Right is the camera's screen-right direction in world space.
func (c *OrbitCamera) Right() mgl32.Vec3 {
	return c.q.Conjugate().Rotate(mgl32.Vec3{1, 0, 0})
}

// Up is the camera's screen-up direction in world space.
func (c *OrbitCamera) Up() mgl32.Vec3 {
	return c.q.Conjugate().Rotate(mgl32.Vec3{0, 1, 0})
}
