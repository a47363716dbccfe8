package seed

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the fixture at path whenever it is written or replaced and
// passes the result (or the load error) to onLoad. The parent directory is
// watched so editors that swap files atomically are picked up. Watching
// stops when ctx ends.
func Watch(ctx context.Context, path string, onLoad func(*Dataset, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving seed path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				onLoad(LoadFile(abs))

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onLoad(nil, fmt.Errorf("watching seed file: %w", err))
			}
		}
	}()

	return nil
}
