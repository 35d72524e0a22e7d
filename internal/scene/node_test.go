package scene

import (
	"testing"

	"Scenery3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestGraph() (*Graph, *renderer.Recorder) {
	rec := renderer.NewRecorder(100, 100)
	g := NewGraph("test", WithRenderer(rec), WithSurfaceSize(100, 100))
	g.SetCameraView(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	g.SetCameraPerspective(30, 1, 1, 10)
	return g, rec
}

func TestNewNodeIsIdentity(t *testing.T) {
	n := NewNode()

	if n.ModelMatrix() != mgl32.Ident4() {
		t.Errorf("Expected identity model matrix, got %v", n.ModelMatrix())
	}
	if n.Index() != -1 {
		t.Errorf("Expected index -1 before insertion, got %d", n.Index())
	}
}

func TestComposeTransformOrder(t *testing.T) {
	m1 := mgl32.Scale3D(2, 1, 1)
	m2 := mgl32.Scale3D(1, 3, 1)
	m3 := mgl32.Scale3D(1, 1, 4).Mul4(mgl32.Scale3D(0.5, 0.5, 0.5))
	r1 := mgl32.HomogRotate3DX(0.3)
	r2 := mgl32.HomogRotate3DZ(1.1)
	t1 := mgl32.Translate3D(1, 0, 0)
	t2 := mgl32.Translate3D(0, 2, 0)

	n := NewNode().
		ComposeTransform(m1, r1, t1).
		ComposeTransform(m2, r2, t2).
		ComposeTransform(m3, mgl32.Ident4(), mgl32.Ident4())

	if want := m3.Mul4(m2).Mul4(m1); !n.ScaleMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected scale M3*M2*M1, got %v", n.ScaleMatrix())
	}
	if want := r2.Mul4(r1); !n.RotateMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected rotate R2*R1, got %v", n.RotateMatrix())
	}
	if want := t2.Mul4(t1); !n.TranslateMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected translate T2*T1, got %v", n.TranslateMatrix())
	}
}

func TestModelMatrixIsTRS(t *testing.T) {
	s := mgl32.Scale3D(0.2, 0.3, 0.4)
	r := mgl32.HomogRotate3D(0.7, mgl32.Vec3{1, 1, 0}.Normalize())
	tr := mgl32.Translate3D(3, -1, 2)

	n := NewNode().SetTransform(s, r, tr)

	want := tr.Mul4(r).Mul4(s)
	if !n.ModelMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected T*R*S, got %v", n.ModelMatrix())
	}
}

func TestScaleUniform(t *testing.T) {
	n := NewNode()

	n.Scale(1)
	if want := mgl32.Scale3D(1.1, 1.1, 1.1); !n.ScaleMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected uniform 1.1 scale, got %v", n.ScaleMatrix())
	}

	n.Scale(-3)
	if !n.ScaleMatrix().ApproxEqualThreshold(mgl32.Ident4(), tolerance) {
		t.Errorf("Grow then shrink should return to identity, got %v", n.ScaleMatrix())
	}

	before := n.ScaleMatrix()
	n.Scale(0)
	if n.ScaleMatrix() != before {
		t.Error("Scale(0) should be a no-op")
	}
}

func TestScaleSingleAxis(t *testing.T) {
	g, _ := newTestGraph()
	n := NewNode().SetTransform(mgl32.Scale3D(2, 3, 4), mgl32.Ident4(), mgl32.Ident4())
	g.AddNode(n)
	g.HandleKey(KeyY, Press)

	n.Scale(1)

	s := n.ScaleMatrix()
	if s.Col(0) != (mgl32.Vec4{2, 0, 0, 0}) {
		t.Errorf("X column should be unchanged, got %v", s.Col(0))
	}
	if !s.Col(1).ApproxEqualThreshold(mgl32.Vec4{0, 3.3, 0, 0}, tolerance) {
		t.Errorf("Y column should grow by 1.1, got %v", s.Col(1))
	}
	if s.Col(2) != (mgl32.Vec4{0, 0, 4, 0}) {
		t.Errorf("Z column should be unchanged, got %v", s.Col(2))
	}
}

func TestScaleLeavesOtherComponents(t *testing.T) {
	r := mgl32.HomogRotate3DY(0.5)
	tr := mgl32.Translate3D(1, 2, 3)
	n := NewNode().SetTransform(mgl32.Ident4(), r, tr)

	n.Scale(1)

	if n.RotateMatrix() != r || n.TranslateMatrix() != tr {
		t.Error("Scale must not touch rotate or translate")
	}
}

func TestRotateFollowsCamera(t *testing.T) {
	g, _ := newTestGraph()
	n := NewNode()
	g.AddNode(n)

	n.Rotate(10, 0)

	want := mgl32.HomogRotate3DY(0.1)
	if !n.RotateMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected 0.1 rad about camera up, got %v", n.RotateMatrix())
	}

	n.Rotate(0, 20)
	want = mgl32.HomogRotate3DX(0.2).Mul4(mgl32.HomogRotate3DY(0.1))
	if !n.RotateMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected right-axis rotation on top, got %v", n.RotateMatrix())
	}
}

func TestRotateAfterCameraYaw(t *testing.T) {
	g, _ := newTestGraph()
	g.Camera().ApplyFrameDelta(0, mgl32.DegToRad(90), 0)
	n := NewNode()
	g.AddNode(n)

	// Camera right now points along world +Z.
	n.Rotate(0, 10)

	want := mgl32.HomogRotate3DZ(0.1)
	if !n.RotateMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected rotation about world Z, got %v", n.RotateMatrix())
	}
}

func TestTranslate(t *testing.T) {
	g, _ := newTestGraph()
	n := NewNode()
	g.AddNode(n)

	n.Translate(10, 20)

	want := mgl32.Translate3D(0.1, -0.2, 0)
	if !n.TranslateMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected translate (0.1,-0.2,0), got %v", n.TranslateMatrix())
	}
}

func TestTranslateAxisLock(t *testing.T) {
	g, _ := newTestGraph()
	n := NewNode()
	g.AddNode(n)
	g.HandleKey(KeyX, Press)

	n.Translate(10, 20)

	want := mgl32.Translate3D(0.1, 0, 0)
	if !n.TranslateMatrix().ApproxEqualThreshold(want, tolerance) {
		t.Errorf("Expected only X offset, got %v", n.TranslateMatrix())
	}
}

func TestNodeDrawCallSequence(t *testing.T) {
	g, rec := newTestGraph()
	g.SetLight(mgl32.Vec3{4, 5, 6})
	n := NewNode().
		SetTransform(mgl32.Scale3D(2, 2, 2), mgl32.Ident4(), mgl32.Translate3D(1, 0, 0)).
		SetColor(mgl32.Vec3{0.9, 0.1, 0.1}).
		SetMesh("cube").
		SetShader("default")
	g.AddNode(n)
	before := *n

	n.Draw()

	want := []renderer.CallOp{
		renderer.OpBindShader,
		renderer.OpUniformMatrix4,
		renderer.OpUniformVec3,
		renderer.OpUniformVec3,
		renderer.OpPickID,
		renderer.OpDrawMesh,
		renderer.OpUnbindShader,
	}
	if len(rec.Calls) != len(want) {
		t.Fatalf("Expected %d calls, got %d: %v", len(want), len(rec.Calls), rec.Calls)
	}
	for i, op := range want {
		if rec.Calls[i].Op != op {
			t.Errorf("Call %d: expected %v, got %v", i, op, rec.Calls[i].Op)
		}
	}
	if rec.Calls[0].Name != "default" || rec.Calls[5].Name != "cube" {
		t.Errorf("Unexpected shader/mesh ids: %q %q", rec.Calls[0].Name, rec.Calls[5].Name)
	}
	if rec.Calls[1].Name != renderer.ModelMatrix || rec.Calls[1].Matrix != n.ModelMatrix() {
		t.Errorf("Expected model matrix upload, got %+v", rec.Calls[1])
	}
	if rec.Calls[3].Name != renderer.LightPosition || rec.Calls[3].Vec != (mgl32.Vec3{4, 5, 6}) {
		t.Errorf("Expected light upload, got %+v", rec.Calls[3])
	}
	if rec.Calls[4].PickID != 1 {
		t.Errorf("Expected pick id 1, got %d", rec.Calls[4].PickID)
	}
	if *n != before {
		t.Error("Draw must not mutate the node")
	}
}

func TestDrawWithoutGraphIsNoop(t *testing.T) {
	n := NewNode()

	n.Draw()
	n.Rotate(5, 5)
	n.Translate(5, 5)

	if n.ModelMatrix() != mgl32.Ident4() {
		t.Error("Detached node edits that need a camera should be ignored")
	}
}
