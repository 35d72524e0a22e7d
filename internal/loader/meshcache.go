package loader

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"Scenery3D/internal/logger"
	"Scenery3D/internal/renderer"

	"go.uber.org/zap"
)

const (
	meshMagic   = 0x4D455348 // "MESH"
	meshVersion = 2
	cacheExt    = ".mesh.gz"
)

// EncodeMeshBinary writes mesh as gzip compressed little-endian arrays.
func EncodeMeshBinary(mesh *renderer.MeshData) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	header := []uint32{meshMagic, meshVersion}
	if err := binary.Write(gz, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	for _, data := range [][]float32{mesh.Positions, mesh.Normals, mesh.TexCoords} {
		if err := writeSlice(gz, data); err != nil {
			return nil, err
		}
	}
	if err := writeSlice(gz, mesh.Indices); err != nil {
		return nil, err
	}

	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeMeshBinary reads data written by EncodeMeshBinary.
func DecodeMeshBinary(data []byte) (*renderer.MeshData, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	header := make([]uint32, 2)
	if err := binary.Read(gz, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	if header[0] != meshMagic {
		return nil, fmt.Errorf("invalid mesh file magic: %x", header[0])
	}
	if header[1] != meshVersion {
		return nil, fmt.Errorf("unsupported mesh file version: %d", header[1])
	}

	mesh := &renderer.MeshData{}
	for _, dst := range []*[]float32{&mesh.Positions, &mesh.Normals, &mesh.TexCoords} {
		if *dst, err = readSlice[float32](gz); err != nil {
			return nil, err
		}
	}
	if mesh.Indices, err = readSlice[uint32](gz); err != nil {
		return nil, err
	}
	return mesh, nil
}

func writeSlice[T float32 | uint32](w io.Writer, data []T) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, data)
}

func readSlice[T float32 | uint32](r io.Reader) ([]T, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	data := make([]T, count)
	if err := binary.Read(r, binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

// MeshCache keeps decoded meshes on disk so large models skip parsing on
// the next run. Entries are invalidated when the source is newer.
type MeshCache struct {
	Dir string
}

func (c *MeshCache) entry(source string) string {
	name := strings.NewReplacer(string(filepath.Separator), "_", ":", "_").Replace(filepath.Clean(source))
	return filepath.Join(c.Dir, name+cacheExt)
}

// Get returns the cached mesh for source, or nil when there is no fresh
// entry.
func (c *MeshCache) Get(source string) *renderer.MeshData {
	if c == nil || c.Dir == "" {
		return nil
	}
	src, err := os.Stat(source)
	if err != nil {
		return nil
	}
	path := c.entry(source)
	info, err := os.Stat(path)
	if err != nil || info.ModTime().Before(src.ModTime()) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	mesh, err := DecodeMeshBinary(data)
	if err != nil {
		logger.Log.Warn("Discarding unreadable mesh cache entry", zap.String("path", path), zap.Error(err))
		return nil
	}
	return mesh
}

// Put stores mesh as the entry for source.
func (c *MeshCache) Put(source string, mesh *renderer.MeshData) error {
	if c == nil || c.Dir == "" {
		return nil
	}
	data, err := EncodeMeshBinary(mesh)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(c.entry(source), data, 0644)
}
