package scene

import (
	"image"
	"math"
	"path/filepath"
	"testing"

	"Scenery3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAddNodeAssignsIndices(t *testing.T) {
	g, _ := newTestGraph()

	for i := 0; i < 5; i++ {
		n := NewNode()
		g.AddNode(n)
		if n.Index() != i {
			t.Errorf("Expected index %d, got %d", i, n.Index())
		}
		if n.PickID() != i+1 {
			t.Errorf("Expected pick id %d, got %d", i+1, n.PickID())
		}
	}
	if g.Size() != 5 {
		t.Errorf("Expected 5 nodes, got %d", g.Size())
	}
}

func TestNodeLookupByPickID(t *testing.T) {
	g, _ := newTestGraph()
	a, b := NewNode(), NewNode()
	g.AddNode(a)
	g.AddNode(b)

	if g.Node(1) != a || g.Node(2) != b {
		t.Error("Pick ids should map to nodes[id-1]")
	}
	for _, id := range []int{0, -1, 3} {
		if g.Node(id) != nil {
			t.Errorf("Expected nil for pick id %d", id)
		}
	}
}

func TestDefaultPathFromName(t *testing.T) {
	g := NewGraph("scenepraph1")
	if want := filepath.Join("scenes", "scenepraph1.txt"); g.Path() != want {
		t.Errorf("Expected %q, got %q", want, g.Path())
	}

	g = NewGraph("other", WithSceneDir("data", ".scene"))
	if want := filepath.Join("data", "other.scene"); g.Path() != want {
		t.Errorf("Expected %q, got %q", want, g.Path())
	}
}

func TestGraphDrawSequence(t *testing.T) {
	g, rec := newTestGraph()
	g.AddNode(NewNode().SetMesh("a").SetShader("default"))
	g.AddNode(NewNode().SetMesh("b").SetShader("default"))

	g.Draw()

	ops := rec.Calls
	if ops[0].Op != renderer.OpEnablePicking || ops[1].Op != renderer.OpPickReplace || ops[2].Op != renderer.OpSetCamera {
		t.Errorf("Draw should enable picking, set replace and bind the camera first, got %v %v %v", ops[0].Op, ops[1].Op, ops[2].Op)
	}
	if last := ops[len(ops)-1]; last.Op != renderer.OpDisablePicking {
		t.Errorf("Draw should end by disabling picking, got %v", last.Op)
	}

	draws := rec.CallsOf(renderer.OpDrawMesh)
	if len(draws) != 2 || draws[0].Name != "a" || draws[1].Name != "b" {
		t.Fatalf("Expected meshes a then b, got %v", draws)
	}
	if draws[0].PickID != 1 || draws[1].PickID != 2 {
		t.Errorf("Expected pick ids 1 and 2, got %d and %d", draws[0].PickID, draws[1].PickID)
	}
	if rec.View != g.Camera().ViewMatrix() {
		t.Error("Renderer should receive the updated view matrix")
	}
}

func TestDrawAppliesPendingCameraDeltasOnce(t *testing.T) {
	g, _ := newTestGraph()
	g.HandleKey(KeyC, Release)
	g.HandleScroll(5)

	g.Draw()
	d := g.Camera().Distance()
	g.Draw()

	if math.Abs(float64(d)-4.5) > tolerance {
		t.Errorf("Expected distance 4.5 after one frame, got %f", d)
	}
	if g.Camera().Distance() != d {
		t.Error("A second frame without input should not zoom again")
	}
}

func TestPickingIDRoundTrip(t *testing.T) {
	g, rec := newTestGraph()
	rec.Footprints["left"] = image.Rect(0, 0, 40, 100)
	rec.Footprints["right"] = image.Rect(60, 0, 100, 100)
	rec.Footprints["center"] = image.Rect(30, 30, 70, 70)
	g.AddNode(NewNode().SetMesh("left"))
	g.AddNode(NewNode().SetMesh("right"))
	g.AddNode(NewNode().SetMesh("center"))

	g.Draw()

	cases := []struct {
		x, y int
		want uint32
	}{
		{5, 5, 1},
		{95, 95, 2},
		{50, 50, 3},
		{35, 50, 3}, // overlap, last writer wins
		{50, 5, 0},
	}
	for _, c := range cases {
		if got := rec.ReadPickID(c.x, c.y); got != c.want {
			t.Errorf("Pixel (%d,%d): expected id %d, got %d", c.x, c.y, c.want, got)
		}
	}
}

func TestReset(t *testing.T) {
	g, _ := newTestGraph()
	n := NewNode()
	g.AddNode(n)
	g.Select(1)
	g.HandleKey(KeyT, Release)

	g.Reset()

	if g.Size() != 0 || g.SelectedID() != 0 || g.Mode() != ModeNone {
		t.Errorf("Reset should clear nodes, selection and mode, got size=%d sel=%d mode=%v", g.Size(), g.SelectedID(), g.Mode())
	}
	if n.Index() != -1 {
		t.Error("Detached node should lose its index")
	}
}

func TestSetCameraParametersAreStored(t *testing.T) {
	g := NewGraph("params")
	eye, center, up := mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0}

	g.SetCameraView(eye, center, up)
	g.SetCameraPerspective(45, 1.5, 0.5, 50)

	e, c, u := g.View()
	if e != eye || c != center || u != up {
		t.Errorf("Unexpected view triple %v %v %v", e, c, u)
	}
	fovy, aspect, near, far := g.Perspective()
	if fovy != 45 || aspect != 1.5 || near != 0.5 || far != 50 {
		t.Errorf("Unexpected perspective %f %f %f %f", fovy, aspect, near, far)
	}
}

func TestGraphIsDrawable(t *testing.T) {
	var _ Drawable = NewGraph("x")
	var _ Drawable = NewNode()
}
