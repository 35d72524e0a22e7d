// Package loader reads mesh geometry from model files.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"Scenery3D/internal/logger"
	"Scenery3D/internal/renderer"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported model format")

// Options control how Load reads a model.
type Options struct {
	RecalculateNormals bool
	Cache              *MeshCache
}

// Load reads the model at path, picking the parser from the extension.
func Load(path string, opts Options) (*renderer.MeshData, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if mesh := opts.Cache.Get(path); mesh != nil {
		mesh.Name = name
		logger.Log.Debug("Mesh loaded from cache", zap.String("path", path))
		return mesh, nil
	}

	var mesh *renderer.MeshData
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		mesh, err = LoadOBJ(path, opts.RecalculateNormals)
	case ".gltf", ".glb":
		mesh, err = LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	if err := opts.Cache.Put(path, mesh); err != nil {
		logger.Log.Warn("Could not cache mesh", zap.String("path", path), zap.Error(err))
	}
	logger.Log.Info("Mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", len(mesh.Indices)/3))
	return mesh, nil
}

// LoadAll loads every mesh in paths, keyed by mesh id. Meshes that fail
// are left out and their errors combined.
func LoadAll(paths map[string]string, opts Options) (map[string]*renderer.MeshData, error) {
	meshes := make(map[string]*renderer.MeshData, len(paths))
	var errs error
	for id, path := range paths {
		mesh, err := Load(path, opts)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("mesh %q: %w", id, err))
			continue
		}
		mesh.Name = id
		meshes[id] = mesh
	}
	return meshes, errs
}
