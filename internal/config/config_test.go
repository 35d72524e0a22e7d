package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.Edit.ScaleFactor != 1.1 {
		t.Errorf("Expected scale factor 1.1, got %f", cfg.Edit.ScaleFactor)
	}
	if cfg.Camera.MinZoom != 1 || cfg.Camera.MaxZoom != 10 {
		t.Errorf("Expected zoom range [1,10], got [%f,%f]", cfg.Camera.MinZoom, cfg.Camera.MaxZoom)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Missing config should not fail: %v", err)
	}
	if cfg.Scene.Name != "scenepraph1" {
		t.Errorf("Expected default scene name, got %q", cfg.Scene.Name)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenery.toml")
	data := `
[window]
width = 1024
height = 768

[camera]
max_zoom = 20.0

[assets.meshes]
teapot = "assets/models/teapot.glb"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Width != 1024 || cfg.Window.Height != 768 {
		t.Errorf("Expected 1024x768, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Camera.MaxZoom != 20 {
		t.Errorf("Expected max zoom 20, got %f", cfg.Camera.MaxZoom)
	}
	if cfg.Camera.MinZoom != 1 {
		t.Errorf("Untouched min zoom should keep default, got %f", cfg.Camera.MinZoom)
	}
	if cfg.Assets.Meshes["teapot"] != "assets/models/teapot.glb" {
		t.Errorf("Expected teapot mesh entry, got %v", cfg.Assets.Meshes)
	}
	if cfg.Window.Title != "Scenery3D" {
		t.Errorf("Expected default title to survive, got %q", cfg.Window.Title)
	}
}

func TestLoadRejectsBadZoom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[camera]\nmin_zoom = 5.0\nmax_zoom = 2.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for inverted zoom range")
	}
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[window\nwidth = "), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := Default()
	cfg.Scene.Name = "other"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Scene.Name != "other" {
		t.Errorf("Expected scene name other, got %q", loaded.Scene.Name)
	}
}

func TestScenePath(t *testing.T) {
	cfg := Default()

	got := cfg.ScenePath("scenepraph1")
	want := filepath.Join("scenes", "scenepraph1.txt")
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSampleConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "scenery.toml"))
	if err != nil {
		t.Fatalf("Sample config should load: %v", err)
	}
	if !cfg.Watch.Enabled {
		t.Error("Expected watching enabled in the sample config")
	}
	if cfg.Assets.Meshes["cube"] != "assets/models/cube-vtn.obj" {
		t.Errorf("Unexpected cube mesh path %q", cfg.Assets.Meshes["cube"])
	}
	if _, ok := cfg.Assets.Shaders["default"]; !ok {
		t.Error("Expected a default shader entry")
	}
}
