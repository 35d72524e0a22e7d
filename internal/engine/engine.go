// Package engine hosts a scene graph in a GLFW window.
package engine

import (
	"fmt"
	"runtime"

	"Scenery3D/internal/config"
	"Scenery3D/internal/loader"
	"Scenery3D/internal/logger"
	"Scenery3D/internal/renderer"
	"Scenery3D/internal/scene"
	"Scenery3D/internal/watch"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Engine owns the window, the GL renderer and the asset registries. All of
// its methods run on the main thread.
type Engine struct {
	Width  int32
	Height int32

	cfg     *config.Config
	graph   *scene.Graph
	window  *glfw.Window
	render  *renderer.OpenGLRenderer
	meshes  *renderer.Registry[*renderer.Mesh]
	shaders *renderer.Registry[*renderer.Program]
	watcher *watch.SceneWatcher

	// framebuffer pixels per window coordinate
	scaleX, scaleY float64
}

func New(cfg *config.Config, graph *scene.Graph) *Engine {
	meshes := renderer.NewRegistry[*renderer.Mesh]("mesh")
	shaders := renderer.NewRegistry[*renderer.Program]("shader")
	render := renderer.NewOpenGLRenderer(meshes, shaders)
	graph.SetRenderer(render)
	return &Engine{
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		cfg:     cfg,
		graph:   graph,
		render:  render,
		meshes:  meshes,
		shaders: shaders,
		scaleX:  1,
		scaleY:  1,
	}
}

// Run opens the window and blocks until it is closed.
func (e *Engine) Run() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := glfw.Init(); err != nil {
		logger.Log.Error("Could not initialize glfw", zap.Error(err))
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.StencilBits, 8) // picking ids
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(e.Width), int(e.Height), e.cfg.Window.Title, nil, nil)
	if err != nil {
		logger.Log.Error("Could not create glfw window", zap.Error(err))
		return fmt.Errorf("create window: %w", err)
	}
	e.window = window
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	fbWidth, fbHeight := window.GetFramebufferSize()
	if err := e.render.Init(int32(fbWidth), int32(fbHeight)); err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	defer e.render.Cleanup()

	e.loadAssets()
	e.resize(fbWidth, fbHeight)

	window.SetKeyCallback(e.keyCallback)
	window.SetCursorPosCallback(e.cursorCallback)
	window.SetMouseButtonCallback(e.mouseButtonCallback)
	window.SetScrollCallback(e.scrollCallback)
	window.SetFramebufferSizeCallback(e.framebufferSizeCallback)

	if e.cfg.Watch.Enabled {
		if e.watcher, err = watch.New(e.graph.Path()); err != nil {
			logger.Log.Warn("Scene file watching disabled", zap.Error(err))
		} else {
			defer e.watcher.Close()
		}
	}

	logger.Log.Info("Engine running",
		zap.String("scene", e.graph.Name()),
		zap.Int("nodes", e.graph.Size()),
		zap.Int("framebufferWidth", fbWidth),
		zap.Int("framebufferHeight", fbHeight))
	e.RenderLoop()
	return nil
}

// RenderLoop draws the graph once per frame until the window closes.
func (e *Engine) RenderLoop() {
	for !e.window.ShouldClose() {
		e.drainWatcher()

		e.render.Clear()
		e.graph.Draw()

		e.window.SwapBuffers()
		glfw.PollEvents()
	}
}

// loadAssets resolves the configured mesh and shader ids. Failures are
// logged; nodes using a missing id are skipped at draw time.
func (e *Engine) loadAssets() {
	opts := loader.Options{RecalculateNormals: false}
	if e.cfg.Assets.CacheDir != "" {
		opts.Cache = &loader.MeshCache{Dir: e.cfg.Assets.CacheDir}
	}

	data, err := loader.LoadAll(e.cfg.Assets.Meshes, opts)
	for _, err := range multierr.Errors(err) {
		logger.Log.Warn("Mesh not loaded", zap.Error(err))
	}
	for id, md := range data {
		mesh, err := renderer.UploadMesh(md)
		if err != nil {
			logger.Log.Warn("Mesh upload failed", zap.String("id", id), zap.Error(err))
			continue
		}
		e.meshes.Add(id, mesh)
	}

	for id, files := range e.cfg.Assets.Shaders {
		program, err := renderer.LoadProgram(id, files.Vertex, files.Fragment)
		if err == nil {
			err = program.Compile()
		}
		if err != nil {
			logger.Log.Warn("Shader not loaded", zap.String("id", id), zap.Error(err))
			continue
		}
		e.shaders.Add(id, program)
	}

	logger.Log.Info("Assets loaded",
		zap.Strings("meshes", e.meshes.Keys()),
		zap.Strings("shaders", e.shaders.Keys()))
}

func (e *Engine) drainWatcher() {
	if e.watcher == nil {
		return
	}
	select {
	case <-e.watcher.Changes():
	default:
		return
	}
	if _, err := ReloadIfChanged(e.graph); err != nil {
		logger.Log.Warn("Scene reload failed", zap.String("path", e.graph.Path()), zap.Error(err))
	}
}

func (e *Engine) resize(fbWidth, fbHeight int) {
	if fbWidth <= 0 || fbHeight <= 0 {
		return
	}
	if w, h := e.window.GetSize(); w > 0 && h > 0 {
		e.scaleX = float64(fbWidth) / float64(w)
		e.scaleY = float64(fbHeight) / float64(h)
	}
	e.render.UpdateViewport(int32(fbWidth), int32(fbHeight))
	e.graph.WindowSize(fbWidth, fbHeight)
}

// GetWindow returns the GLFW window, nil before Run.
func (e *Engine) GetWindow() *glfw.Window {
	return e.window
}

// Graph returns the hosted scene graph.
func (e *Engine) Graph() *scene.Graph {
	return e.graph
}
