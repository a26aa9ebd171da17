package models

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDelay is how long Watch waits after the last change to a file
// before reloading it. Exporters tend to write a file in several chunks.
var WatchDelay = 100 * time.Millisecond

// Watch reloads the model at path each time it is written or replaced and
// hands the result to fn. The parent directory is watched so that editors
// which save by renaming a temp file over path are seen too. Watch blocks
// until ctx is done and then returns nil.
func Watch(ctx context.Context, path string, fn func(*Mesh, error)) error {
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reload = time.After(WatchDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fn(nil, fmt.Errorf("watch %s: %w", filepath.Base(path), err))
		case <-reload:
			reload = nil
			fn(LoadGLB(path))
		}
	}
}
