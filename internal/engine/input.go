package engine

import (
	"Scenery3D/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var keyMap = map[glfw.Key]scene.Key{
	glfw.KeyEscape: scene.KeyEscape,
	glfw.KeyC:      scene.KeyC,
	glfw.KeyG:      scene.KeyG,
	glfw.KeyP:      scene.KeyP,
	glfw.KeyR:      scene.KeyR,
	glfw.KeyS:      scene.KeyS,
	glfw.KeyT:      scene.KeyT,
	glfw.KeyX:      scene.KeyX,
	glfw.KeyY:      scene.KeyY,
	glfw.KeyZ:      scene.KeyZ,
}

func translateKey(k glfw.Key) scene.Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return scene.KeyUnknown
}

func translateAction(a glfw.Action) scene.Action {
	switch a {
	case glfw.Press:
		return scene.Press
	case glfw.Repeat:
		return scene.Repeat
	default:
		return scene.Release
	}
}

// translateButton reports false for buttons the scene does not use.
func translateButton(b glfw.MouseButton) (scene.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return scene.ButtonLeft, true
	case glfw.MouseButtonRight:
		return scene.ButtonRight, true
	case glfw.MouseButtonMiddle:
		return scene.ButtonMiddle, true
	}
	return 0, false
}

func (e *Engine) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k := translateKey(key)
	if k == scene.KeyUnknown {
		return
	}
	e.graph.HandleKey(k, translateAction(action))
}

// cursorCallback reports positions in framebuffer pixels so picking reads
// the right stencil texel on scaled displays.
func (e *Engine) cursorCallback(w *glfw.Window, xpos, ypos float64) {
	e.graph.HandleCursor(xpos*e.scaleX, ypos*e.scaleY)
}

func (e *Engine) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b, ok := translateButton(button)
	if !ok {
		return
	}
	e.graph.HandleMouseButton(b, translateAction(action))
}

func (e *Engine) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	e.graph.HandleScroll(yoff)
}

func (e *Engine) framebufferSizeCallback(w *glfw.Window, width, height int) {
	e.resize(width, height)
}
