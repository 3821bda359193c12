// Package echo provides the consumer demo plugin: it observes the countdown
// key and logs every update it sees. With the immediately option it also
// reports the current value on start instead of waiting for the first
// publish.
package echo

import (
	"context"
	"time"

	"github.com/ensemble-cli/ensemble/internal/itc"
	"github.com/ensemble-cli/ensemble/internal/plugin"
	"github.com/ensemble-cli/ensemble/internal/plugins/countdown"
)

// Options configure the echo plugin.
type Options struct {
	// Immediately reports the current value on start, or its absence.
	Immediately bool
	// MinInterval throttles output; zero means every update is reported.
	MinInterval time.Duration
}

// NewFactory returns an echo plugin factory.
func NewFactory(opts Options) plugin.Factory {
	return plugin.Factory{
		Name: "echo",
		Make: func(shared *plugin.SharedContext, _ ...any) plugin.Plugin {
			log := shared.Log.WithPlugin("echo")
			var sub *itc.Subscription

			return &plugin.Lifespan{
				SetupFunc: func(context.Context) (plugin.Task, error) {
					var observeOpts []itc.ObserveOption
					if opts.Immediately {
						observeOpts = append(observeOpts, itc.WithReplay())
					}
					if opts.MinInterval > 0 {
						observeOpts = append(observeOpts, itc.WithMinInterval(opts.MinInterval))
					}
					// Registered during setup so nothing published by the
					// run phase is missed.
					sub = shared.Hub.Observe(countdown.Key, observeOpts...)

					return func(ctx context.Context) error {
						for {
							u, err := sub.Next(ctx)
							if err != nil {
								return err
							}
							if !u.Present {
								log.Info("no countdown value yet")
								continue
							}
							log.Info("countdown currently at", "value", u.Value)
						}
					}, nil
				},
				TeardownFunc: func(context.Context) error {
					if sub != nil {
						sub.Close()
					}
					log.Debug("lifespan over")
					return nil
				},
			}
		},
	}
}
