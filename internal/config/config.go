package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Window struct {
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	Title  string `toml:"title"`
}

type Scene struct {
	Dir       string `toml:"dir"`
	Name      string `toml:"name"`
	Extension string `toml:"extension"`
}

// Camera holds the orbit camera tuning.
type Camera struct {
	MoveStep float32 `toml:"move_step"`
	ZoomStep float32 `toml:"zoom_step"`
	MinZoom  float32 `toml:"min_zoom"`
	MaxZoom  float32 `toml:"max_zoom"`
}

// Edit holds the per-node edit steps.
type Edit struct {
	ScaleFactor   float32 `toml:"scale_factor"`
	RotateStep    float32 `toml:"rotate_step"`
	TranslateStep float32 `toml:"translate_step"`
}

type ShaderFiles struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

// Assets maps the opaque mesh and shader ids used by scene files to sources.
// A shader with no files uses the built-in program.
type Assets struct {
	Meshes   map[string]string      `toml:"meshes"`
	Shaders  map[string]ShaderFiles `toml:"shaders"`
	CacheDir string                 `toml:"cache_dir"`
}

type Log struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type Watch struct {
	Enabled bool `toml:"enabled"`
}

type Config struct {
	Window Window `toml:"window"`
	Scene  Scene  `toml:"scene"`
	Camera Camera `toml:"camera"`
	Edit   Edit   `toml:"edit"`
	Assets Assets `toml:"assets"`
	Log    Log    `toml:"log"`
	Watch  Watch  `toml:"watch"`
}

func Default() *Config {
	return &Config{
		Window: Window{Width: 800, Height: 600, Title: "Scenery3D"},
		Scene:  Scene{Dir: "scenes", Name: "scenepraph1", Extension: ".txt"},
		Camera: Camera{MoveStep: 0.01, ZoomStep: 0.1, MinZoom: 1, MaxZoom: 10},
		Edit:   Edit{ScaleFactor: 1.1, RotateStep: 0.01, TranslateStep: 0.01},
		Assets: Assets{
			Meshes:  map[string]string{"cube": "assets/models/cube-vtn.obj"},
			Shaders: map[string]ShaderFiles{"default": {}},
		},
		Log:   Log{Level: "info"},
		Watch: Watch{Enabled: false},
	}
}

// Load reads a TOML file over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as TOML.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.MinZoom <= 0 || c.Camera.MinZoom > c.Camera.MaxZoom {
		return fmt.Errorf("invalid zoom range [%g, %g]", c.Camera.MinZoom, c.Camera.MaxZoom)
	}
	if c.Edit.ScaleFactor <= 0 {
		return fmt.Errorf("scale_factor must be positive, got %g", c.Edit.ScaleFactor)
	}
	if c.Scene.Name == "" {
		return errors.New("scene name is empty")
	}
	return nil
}

// ScenePath maps a scene name to its file.
func (c *Config) ScenePath(name string) string {
	return filepath.Join(c.Scene.Dir, name+c.Scene.Extension)
}
