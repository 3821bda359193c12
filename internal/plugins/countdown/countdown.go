// Package countdown provides the producer demo plugin: it publishes a
// descending counter to the hub at a fixed interval and finishes when it
// reaches zero, which ends the whole run.
package countdown

import (
	"context"
	"time"

	"github.com/ensemble-cli/ensemble/internal/plugin"
)

// Key is the hub key the countdown publishes under.
const Key = "countdown"

// NewFactory returns a countdown plugin factory counting down from `from`
// with the given pause between counts.
func NewFactory(from int, interval time.Duration) plugin.Factory {
	return plugin.Factory{
		Name: "countdown",
		Make: func(shared *plugin.SharedContext, _ ...any) plugin.Plugin {
			log := shared.Log.WithPlugin("countdown")
			return &plugin.Lifespan{
				SetupFunc: func(context.Context) (plugin.Task, error) {
					return func(ctx context.Context) error {
						for cur := from; cur >= 0; cur-- {
							log.Info("counting down", "value", cur)
							shared.Hub.Publish(Key, cur)
							if cur == 0 {
								break
							}
							select {
							case <-ctx.Done():
								return ctx.Err()
							case <-time.After(interval):
							}
						}
						log.Info("finished counting down")
						return nil
					}, nil
				},
				TeardownFunc: func(context.Context) error {
					log.Debug("lifespan over")
					return nil
				},
			}
		},
	}
}
