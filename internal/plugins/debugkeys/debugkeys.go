// Package debugkeys provides the interactive debugging plugin: it puts
// stdin into raw mode and monitors single keypresses that trigger
// diagnostic actions — dumping hub state, adjusting the log level, printing
// a visual separator. It consumes the shared context and the hub exactly
// like any other plugin; it is not a privileged caller.
//
// When stdin is not a terminal the plugin degrades to a warning and yields
// no background task, so the rest of the run is unaffected.
package debugkeys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/ensemble-cli/ensemble/internal/logging"
	"github.com/ensemble-cli/ensemble/internal/plugin"
)

// readPollInterval bounds how long a cancelled monitor keeps blocking on a
// stdin read before it notices the cancellation.
const readPollInterval = 100 * time.Millisecond

// NewFactory returns the debug plugin factory. Extra key bindings are
// merged over the default map; press '?' at runtime for the list.
func NewFactory(extra map[byte]Action) plugin.Factory {
	return plugin.Factory{
		Name: "debug",
		Make: func(shared *plugin.SharedContext, _ ...any) plugin.Plugin {
			log := shared.Log.WithPlugin("debug")
			var restore func() error

			return &plugin.Lifespan{
				SetupFunc: func(context.Context) (plugin.Task, error) {
					fd := int(os.Stdin.Fd())
					if !term.IsTerminal(fd) {
						log.Warn("stdin is not a terminal, debug keys disabled")
						return nil, nil
					}

					state, err := term.MakeRaw(fd)
					if err != nil {
						return nil, fmt.Errorf("configuring stdin for raw input: %w", err)
					}
					log.Debug("stdin configured for raw input")
					restore = func() error {
						_ = os.Stdin.SetReadDeadline(time.Time{})
						return term.Restore(fd, state)
					}

					actions := mergeActions(defaultActions(), extra)
					return func(ctx context.Context) error {
						return monitor(ctx, shared, log, actions)
					}, nil
				},
				TeardownFunc: func(context.Context) error {
					if restore == nil {
						return nil
					}
					log.Debug("restoring stdin")
					if err := restore(); err != nil {
						return fmt.Errorf("restoring stdin: %w", err)
					}
					return nil
				},
			}
		},
	}
}

// monitor reads stdin one byte at a time and dispatches bound actions.
// Reads are bounded by a deadline so cancellation is noticed promptly.
func monitor(ctx context.Context, shared *plugin.SharedContext, log *logging.Logger, actions map[byte]Action) error {
	buf := make([]byte, 1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_ = os.Stdin.SetReadDeadline(time.Now().Add(readPollInterval))
		n, err := os.Stdin.Read(buf)
		switch {
		case errors.Is(err, os.ErrDeadlineExceeded):
			continue
		case errors.Is(err, io.EOF):
			// Stdin gone; keep the slot alive until the run ends.
			<-ctx.Done()
			return ctx.Err()
		case err != nil:
			return fmt.Errorf("reading stdin: %w", err)
		case n == 0:
			continue
		}

		key := buf[0]
		if key == '?' {
			printHelp(actions)
			continue
		}
		if action, ok := actions[key]; ok {
			action.Run(shared)
			continue
		}
		log.Debug("ignoring key on stdin", "key", fmt.Sprintf("0x%02x", key))
	}
}
