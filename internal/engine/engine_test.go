package engine

import (
	"os"
	"strings"
	"testing"

	"Scenery3D/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func TestTranslateKey(t *testing.T) {
	cases := map[glfw.Key]scene.Key{
		glfw.KeyC:      scene.KeyC,
		glfw.KeyEscape: scene.KeyEscape,
		glfw.KeyZ:      scene.KeyZ,
		glfw.KeyA:      scene.KeyUnknown,
		glfw.KeySpace:  scene.KeyUnknown,
	}
	for in, want := range cases {
		if got := translateKey(in); got != want {
			t.Errorf("Expected %d for glfw key %d, got %d", want, in, got)
		}
	}
}

func TestTranslateAction(t *testing.T) {
	if translateAction(glfw.Press) != scene.Press {
		t.Error("Expected press")
	}
	if translateAction(glfw.Release) != scene.Release {
		t.Error("Expected release")
	}
	if translateAction(glfw.Repeat) != scene.Repeat {
		t.Error("Expected repeat")
	}
}

func TestTranslateButton(t *testing.T) {
	if b, ok := translateButton(glfw.MouseButtonLeft); !ok || b != scene.ButtonLeft {
		t.Errorf("Expected left button, got %v %v", b, ok)
	}
	if _, ok := translateButton(glfw.MouseButton4); ok {
		t.Error("Extra buttons should be ignored")
	}
}

func newSavedGraph(t *testing.T) *scene.Graph {
	t.Helper()
	g := scene.NewGraph("reload", scene.WithSceneDir(t.TempDir(), ".txt"))
	g.SetCameraView(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	g.SetCameraPerspective(30, 1, 1, 10)
	g.AddNode(scene.NewNode().SetMesh("cube").SetShader("default"))
	if err := g.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return g
}

func TestReloadIgnoresOwnSave(t *testing.T) {
	g := newSavedGraph(t)
	g.Select(1)

	reloaded, err := ReloadIfChanged(g)

	if err != nil || reloaded {
		t.Fatalf("Expected no reload for our own save, got %v %v", reloaded, err)
	}
	if g.SelectedID() != 1 {
		t.Error("Selection should survive an ignored event")
	}
}

func TestReloadPicksUpExternalEdit(t *testing.T) {
	g := newSavedGraph(t)

	data, err := os.ReadFile(g.Path())
	if err != nil {
		t.Fatal(err)
	}
	edited := strings.Replace(string(data), "cube", "sphere", 1)
	if err := os.WriteFile(g.Path(), []byte(edited), 0644); err != nil {
		t.Fatal(err)
	}

	reloaded, err := ReloadIfChanged(g)

	if err != nil || !reloaded {
		t.Fatalf("Expected a reload, got %v %v", reloaded, err)
	}
	if g.Node(1).MeshID() != "sphere" {
		t.Errorf("Expected mesh sphere after reload, got %q", g.Node(1).MeshID())
	}
}

func TestReloadBrokenFileKeepsGraph(t *testing.T) {
	g := newSavedGraph(t)
	if err := os.WriteFile(g.Path(), []byte("Scenegraph\n"), 0644); err != nil {
		t.Fatal(err)
	}

	reloaded, err := ReloadIfChanged(g)

	if err == nil || reloaded {
		t.Fatalf("Expected an error for a truncated file, got %v %v", reloaded, err)
	}
	if g.Size() != 1 {
		t.Errorf("Graph should keep its node, got %d", g.Size())
	}
}
