package events

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/aura/internal/constants"
	"github.com/julianstephens/aura/internal/logger"
)

// SignalPath returns the refresh signal file kept in dir.
func SignalPath(dir string) string {
	return filepath.Join(dir, constants.RefreshSignalName)
}

// FileSignal carries refresh signals to other processes by rewriting a small
// file that they watch.
type FileSignal struct {
	path string
}

func NewFileSignal(path string) *FileSignal {
	return &FileSignal{path: path}
}

func (f *FileSignal) Path() string {
	return f.path
}

// Touch rewrites the signal file with the current time.
func (f *FileSignal) Touch() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create signal directory: %w", err)
	}
	return os.WriteFile(f.path, []byte(time.Now().Format(time.RFC3339Nano)+"\n"), 0600)
}

// Forward touches the signal file for every signal published on bus until
// ctx is done.
func (f *FileSignal) Forward(ctx context.Context, bus *Bus) {
	ch, cancel := bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if err := f.Touch(); err != nil {
				logger.Warn("Failed to write refresh signal", "path", f.path, "error", err)
			}
		}
	}
}

// WatchFile reports writes to path as coalesced signals until ctx is done,
// then closes the returned channel. The file does not need to exist yet;
// its directory is watched.
func WatchFile(ctx context.Context, path string) (<-chan struct{}, error) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create signal directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("File watcher error", "path", path, "error", err)
			}
		}
	}()

	return out, nil
}
