package scene

import (
	"errors"

	"Scenery3D/internal/logger"

	"go.uber.org/zap"
)

// HandleKey records held keys and runs the transition table on release.
func (g *Graph) HandleKey(key Key, action Action) {
	switch action {
	case Press:
		g.keys.Press(key)
		return
	case Repeat:
		return
	}
	g.keys.Release(key)

	next, cmd, err := NextMode(g.mode, key, g.selected)
	if errors.Is(err, ErrNoSelection) {
		logger.Log.Warn("No item selected", zap.Stringer("mode", Transitions[key].Target))
		return
	}
	g.setMode(next)

	if cmd == CommandSave {
		if err := g.Save(); err != nil {
			logger.Log.Error("Save failed", zap.String("path", g.path), zap.Error(err))
		}
	}
}

// HandleCursor takes an absolute pointer position in window pixels.
func (g *Graph) HandleCursor(x, y float64) {
	dx := x - g.cursorX
	dy := y - g.cursorY

	switch g.mode {
	case ModeCamera:
		g.camera.Cursor(x, y)
	case ModeRotate:
		if n := g.Selected(); n != nil && g.leftDown {
			n.Rotate(dx, dy)
		}
	case ModeTranslate:
		if n := g.Selected(); n != nil && g.leftDown {
			n.Translate(dx, dy)
		}
	}

	g.cursorX = x
	g.cursorY = y
}

// HandleMouseButton tracks the left button, arms the camera in camera mode
// and queues a pick on release in pick mode.
func (g *Graph) HandleMouseButton(button MouseButton, action Action) {
	if button == ButtonLeft {
		switch action {
		case Press:
			g.leftDown = true
		case Release:
			g.leftDown = false
		}
	}

	switch g.mode {
	case ModeCamera:
		g.camera.MouseButton(button == ButtonLeft && action == Press, g.cursorX, g.cursorY)
	case ModePick:
		if button == ButtonLeft && action == Release {
			g.requestPick()
		}
	}
}

// HandleScroll zooms the camera or scales the selected node.
func (g *Graph) HandleScroll(yoffset float64) {
	switch g.mode {
	case ModeCamera:
		g.camera.Scroll(yoffset)
	case ModeScale:
		if n := g.Selected(); n != nil {
			n.Scale(yoffset)
		} else {
			logger.Log.Warn("No item selected", zap.Stringer("mode", g.mode))
		}
	}
}

// WindowSize updates the camera aspect and the picking surface size. The
// stored perspective parameters are left as they were.
func (g *Graph) WindowSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	g.width = width
	g.height = height
	g.camera.SetAspect(float32(width) / float32(height))
}

// Cursor returns the last pointer position.
func (g *Graph) Cursor() (float64, float64) {
	return g.cursorX, g.cursorY
}

// requestPick queues a pick at the cursor. The id surface is read by the
// next Draw, after the nodes are drawn and before the frame is presented.
func (g *Graph) requestPick() {
	if g.pick == nil {
		return
	}
	g.pickX = int(g.cursorX)
	g.pickY = g.height - int(g.cursorY) - 1
	g.pickPending = true
}

func (g *Graph) resolvePick() {
	if !g.pickPending {
		return
	}
	g.pickPending = false
	id := int(g.pick.ReadPickID(g.pickX, g.pickY))

	g.Select(id)
	if id != 0 && g.selected == 0 {
		logger.Log.Warn("Picked id has no node", zap.Int("id", id))
		return
	}
	logger.Log.Info("Picked", zap.Int("id", g.selected))
}
