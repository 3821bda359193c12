// Package watchfile provides a plugin that watches a file or directory and
// publishes every filesystem event to the hub, so other plugins can react
// to changes without touching the filesystem themselves.
package watchfile

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/ensemble-cli/ensemble/internal/plugin"
)

// Event is the value published for each filesystem change.
type Event struct {
	Path string
	Op   string
}

// Key returns the hub key watch events for path are published under.
func Key(path string) string {
	return "file:" + path
}

// NewFactory returns a watchfile plugin factory watching path.
func NewFactory(path string) plugin.Factory {
	return plugin.Factory{
		Name: "watchfile",
		Make: func(shared *plugin.SharedContext, _ ...any) plugin.Plugin {
			log := shared.Log.WithPlugin("watchfile")
			var watcher *fsnotify.Watcher

			return &plugin.Lifespan{
				SetupFunc: func(context.Context) (plugin.Task, error) {
					var err error
					watcher, err = fsnotify.NewWatcher()
					if err != nil {
						return nil, fmt.Errorf("creating watcher: %w", err)
					}
					if err := watcher.Add(path); err != nil {
						_ = watcher.Close()
						watcher = nil
						return nil, fmt.Errorf("watching %q: %w", path, err)
					}
					log.Debug("watching", "path", path)

					key := Key(path)
					return func(ctx context.Context) error {
						for {
							select {
							case <-ctx.Done():
								return ctx.Err()
							case ev, ok := <-watcher.Events:
								if !ok {
									return nil
								}
								log.Debug("filesystem event", "name", ev.Name, "op", ev.Op.String())
								shared.Hub.Publish(key, Event{Path: ev.Name, Op: ev.Op.String()})
							case err, ok := <-watcher.Errors:
								if !ok {
									return nil
								}
								log.Warn("watcher error", "error", err)
							}
						}
					}, nil
				},
				TeardownFunc: func(context.Context) error {
					if watcher == nil {
						return nil
					}
					if err := watcher.Close(); err != nil {
						return fmt.Errorf("closing watcher: %w", err)
					}
					log.Debug("watcher closed")
					return nil
				},
			}
		},
	}
}
