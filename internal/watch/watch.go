// Package watch reports edits made to a scene file by other programs.
package watch

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"Scenery3D/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SceneWatcher signals on Changes whenever the watched file is written,
// created or renamed into place. Bursts of events collapse into one signal.
type SceneWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// New watches path. The parent directory is watched so that files replaced
// by rename are still seen.
func New(path string) (*SceneWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &SceneWatcher{
		path:    abs,
		watcher: fw,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *SceneWatcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Log.Debug("Scene file event", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			select {
			case w.changes <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("Scene watcher error", zap.Error(err))
		}
	}
}

// Changes is signalled after the file changes. It is never closed.
func (w *SceneWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Path returns the absolute path being watched.
func (w *SceneWatcher) Path() string {
	return w.path
}

// Close stops the watcher. It is safe to call more than once.
func (w *SceneWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

// Digest hashes whatever write produces.
func Digest(write func(io.Writer) error) ([sha256.Size]byte, error) {
	h := sha256.New()
	var sum [sha256.Size]byte
	if err := write(h); err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// FileDigest hashes the contents of path.
func FileDigest(path string) ([sha256.Size]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}

// Stale reports whether the file at path differs from what current would
// write. It is false for the file we just saved ourselves.
func Stale(path string, current func(io.Writer) error) (bool, error) {
	onDisk, err := FileDigest(path)
	if err != nil {
		return false, err
	}
	inMemory, err := Digest(current)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(onDisk[:], inMemory[:]), nil
}
