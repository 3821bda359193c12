// Package pidfile provides a plugin that writes the process ID to a file on
// setup and removes it on teardown. It yields no background task: the
// supervisor keeps its slot alive until the whole run terminates, so the
// pid file exists exactly as long as the program runs.
package pidfile

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ensemble-cli/ensemble/internal/plugin"
)

// NewFactory returns a pidfile plugin factory writing to path.
func NewFactory(path string) plugin.Factory {
	return plugin.Factory{
		Name: "pidfile",
		Make: func(shared *plugin.SharedContext, _ ...any) plugin.Plugin {
			log := shared.Log.WithPlugin("pidfile")
			return &plugin.Lifespan{
				SetupFunc: func(context.Context) (plugin.Task, error) {
					pid := strconv.Itoa(os.Getpid())
					if err := os.WriteFile(path, []byte(pid+"\n"), 0o644); err != nil {
						return nil, fmt.Errorf("writing pid file: %w", err)
					}
					log.Debug("pid file written", "path", path, "pid", pid)
					return nil, nil
				},
				TeardownFunc: func(context.Context) error {
					if err := os.Remove(path); err != nil {
						return fmt.Errorf("removing pid file: %w", err)
					}
					log.Debug("pid file removed", "path", path)
					return nil
				},
			}
		},
	}
}
