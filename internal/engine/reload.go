package engine

import (
	"io"

	"Scenery3D/internal/logger"
	"Scenery3D/internal/scene"
	"Scenery3D/internal/watch"

	"go.uber.org/zap"
)

// ReloadIfChanged loads the graph's file when it differs from the graph's
// own encoding. Events caused by our own saves are therefore ignored. It
// reports whether a reload happened.
func ReloadIfChanged(g *scene.Graph) (bool, error) {
	stale, err := watch.Stale(g.Path(), func(w io.Writer) error {
		return scene.Encode(w, g.State())
	})
	if err != nil {
		return false, err
	}
	if !stale {
		logger.Log.Debug("Scene file matches memory, not reloading", zap.String("path", g.Path()))
		return false, nil
	}
	if err := g.Load(); err != nil {
		return false, err
	}
	logger.Log.Info("Scene reloaded after external edit", zap.String("path", g.Path()))
	return true, nil
}
